// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package plex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/klauspost/compress/gzip"

	"github.com/tomtom215/replex/internal/logging"
	"github.com/tomtom215/replex/internal/metrics"
)

// maxBodySize caps how much of an upstream document is read.
const maxBodySize = 64 << 20

// RetryPolicy controls how failed upstream calls are retried.
//
// A 401 is retried up to MaxRetries times, since Plex answers 401 while a
// freshly issued token propagates. 5xx answers and transport failures are
// retried at most MaxServerRetries times. Other 4xx answers fail at once.
type RetryPolicy struct {
	InitialInterval  time.Duration
	MaxRetries       uint64
	MaxServerRetries int
}

// DefaultRetryPolicy retries twice with 200 ms exponential backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		InitialInterval:  200 * time.Millisecond,
		MaxRetries:       2,
		MaxServerRetries: 1,
	}
}

// response is a fully read upstream answer.
type response struct {
	status int
	header http.Header
	body   []byte
}

// doWithRetry executes the request produced by newReq under the retry
// policy and the circuit breaker.
func (c *Client) doWithRetry(ctx context.Context, newReq func(context.Context) (*http.Request, error)) (*response, error) {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.retry.InitialInterval
	expo.RandomizationFactor = 0
	expo.Multiplier = 2
	expo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(expo, c.retry.MaxRetries), ctx)

	serverRetries := 0
	operation := func() (*response, error) {
		req, err := newReq(ctx)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
		}

		resp, err := c.breaker.execute(func() (*response, error) {
			return c.roundTrip(req)
		})
		if err == nil {
			return resp, nil
		}

		switch {
		case ctx.Err() != nil:
			return nil, backoff.Permanent(err)
		case isStatus(err, http.StatusUnauthorized):
			return nil, err
		case IsServerError(err), IsTransport(err) && !breakerRejected(err):
			serverRetries++
			if serverRetries > c.retry.MaxServerRetries {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		default:
			return nil, backoff.Permanent(err)
		}
	}

	notify := func(err error, wait time.Duration) {
		reason := retryReason(err)
		metrics.UpstreamRetries.WithLabelValues(reason).Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("reason", reason).Dur("retry_delay", wait).Msg("Plex request failed, retrying")
	}

	resp, err := backoff.RetryNotifyWithData(operation, policy, notify)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !IsTransport(err) {
			return nil, &TransportError{Err: ctxErr}
		}
		return nil, err
	}
	return resp, nil
}

// roundTrip performs one HTTP exchange and reads the whole body.
func (c *Client) roundTrip(req *http.Request) (*response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(0, time.Since(start))
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()
	metrics.RecordUpstreamRequest(resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, req.URL.Path)
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Path: req.URL.Path}
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read body: %w", err)}
	}
	return &response{status: resp.StatusCode, header: resp.Header, body: body}, nil
}

// readBody reads the response, decoding gzip when the server applied it.
func readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(io.LimitReader(r, maxBodySize))
}

func isStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

func breakerRejected(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && isBreakerErr(te.Err)
}

func retryReason(err error) string {
	switch {
	case isStatus(err, http.StatusUnauthorized):
		return "unauthorized"
	case IsServerError(err):
		return "server_error"
	default:
		return "transport"
	}
}
