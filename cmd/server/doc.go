// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

/*
Command server runs Replex, a reverse proxy in front of a Plex Media Server
that rewrites the discovery hubs Plex clients show on their home and
library screens.

# Startup

 1. Configuration: Koanf v2, REPLEX_* variables over an optional YAML file
 2. Logging: zerolog, JSON or console
 3. Plex client: cached, retried and circuit-broken upstream access
 4. Router: chi with intercept, passthrough and /replex routes
 5. Supervisor tree: suture v4 running the HTTP server and cache janitor

The tree:

	RootSupervisor ("replex")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── cache-janitor
	└── APISupervisor ("api-layer")
	    └── http-server | https-server

# Example

	export REPLEX_HOST=http://plex:32400
	export REPLEX_TOKEN=your-plex-token
	./replex

With ACME certificates:

	export REPLEX_SSL_ENABLE=true
	export REPLEX_SSL_DOMAIN=plex.example.com
	export REPLEX_PORT=443
	./replex

# Signals

SIGINT and SIGTERM cancel the tree. The HTTP server stops accepting
connections and gets ten seconds to drain.
*/
package main
