// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package transform

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/replex/internal/logging"
	"github.com/tomtom215/replex/internal/metrics"
	"github.com/tomtom215/replex/internal/models"
	"github.com/tomtom215/replex/internal/plex"
)

// maxChildConcurrency bounds how many children one transform processes at
// once. Child hooks that call upstream are the reason to go parallel.
const maxChildConcurrency = 8

// Pipeline applies an ordered list of transforms to one document.
type Pipeline struct {
	route      string
	env        *Env
	transforms []Transform
}

// New builds a pipeline. route labels the pipeline in metrics.
func New(route string, env *Env, transforms ...Transform) *Pipeline {
	return &Pipeline{route: route, env: env, transforms: transforms}
}

// Names returns the transform names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.transforms))
	for i, t := range p.transforms {
		names[i] = t.Name()
	}
	return names
}

// Apply runs every transform over doc in place. Failures of individual
// child hooks are logged and skipped; cancellation, deadlines and
// container-level failures abort the run.
func (p *Pipeline) Apply(ctx context.Context, doc *models.Document) error {
	start := time.Now()
	defer func() {
		metrics.RecordPipeline(p.route, time.Since(start))
	}()

	c := &doc.MediaContainer
	for _, t := range p.transforms {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, ok := t.(containerOnly); !ok {
			if err := p.applyChildren(ctx, t, c); err != nil {
				return err
			}
		}

		if !t.FilterMediaContainer(ctx, p.env, c) {
			continue
		}
		if err := t.TransformMediaContainer(ctx, p.env, c); err != nil {
			metrics.PipelineErrors.WithLabelValues(t.Name()).Inc()
			return err
		}
	}

	recomputeSizes(c)
	return nil
}

// applyChildren runs the child hooks of t over every direct child and then
// drops the tombstoned ones, keeping the original order.
func (p *Pipeline) applyChildren(ctx context.Context, t Transform, c *models.MediaContainer) error {
	children := c.Children()
	if len(children) == 0 {
		return nil
	}
	keep := make([]bool, len(children))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxChildConcurrency)
	for i := range children {
		item := &children[i]
		g.Go(func() error {
			keep[i] = t.FilterMetadata(gctx, p.env, item)
			if err := t.TransformMetadata(gctx, p.env, item); err != nil {
				if isAbort(err) {
					return err
				}
				metrics.PipelineErrors.WithLabelValues(t.Name()).Inc()
				logChildError(ctx, t.Name(), item, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	survivors := children[:0]
	for i := range children {
		if keep[i] {
			survivors = append(survivors, children[i])
		}
	}
	c.SetChildren(survivors)
	return nil
}

// recomputeSizes makes every size attribute that is present agree with the
// number of children next to it.
func recomputeSizes(c *models.MediaContainer) {
	children := c.Children()
	if c.Size != nil {
		c.Size = models.IntPtr(len(children))
	}
	for i := range children {
		if children[i].IsHub() && children[i].Size != nil {
			children[i].Size = models.IntPtr(len(children[i].Children()))
		}
	}
}

func isAbort(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func logChildError(ctx context.Context, name string, item *models.MetaData, err error) {
	event := logging.Ctx(ctx).Warn()
	if errors.Is(err, plex.ErrNotFound) {
		event = logging.Ctx(ctx).Debug()
	}
	event.Err(err).
		Str("transform", name).
		Str("rating_key", item.RatingKey).
		Str("key", item.Key).
		Msg("Transform skipped item")
}
