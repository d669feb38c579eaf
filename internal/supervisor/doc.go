// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

/*
Package supervisor runs the proxy's long-lived services under a suture v4
supervisor tree.

# Overview

	RootSupervisor ("replex")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── CacheJanitorService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's backoff. Supervisor events are
logged through sutureslog into the zerolog pipeline:

	tree, err := supervisor.NewSupervisorTree(
	    logging.NewSlogLogger("supervisor"),
	    supervisor.DefaultTreeConfig(),
	)
	tree.AddMaintenanceService(services.NewCacheJanitorService(client, time.Minute))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	err = tree.Serve(ctx)

Cancelling ctx shuts every service down. Services that miss the shutdown
timeout show up in UnstoppedServiceReport.
*/
package supervisor
