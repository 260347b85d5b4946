// Package server provides HTTP routing, middleware and the JSON API for the catalog.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// Per-route middleware passed to [Router.Handle] runs inside the router-wide stack.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally and dispatches each path by method.
// A [Handler] owns a set of paths outright; [Site] serves the crawler files that way.
//
// # Routes
//
//	GET    /api/                     service banner
//	GET    /api/robots.txt           crawler rules
//	GET    /api/sitemap.xml          sitemap of the public pages
//	GET    /api/videos               paged search (search, search_type, skip, limit)
//	GET    /api/videos/{id}          single video
//	POST   /api/admin/login          admin password check
//	GET    /api/admin/stats          catalog counts (basic auth)
//	POST   /api/admin/youtube/sync   channel sync (basic auth)
//	POST   /api/admin/videos         create a video (basic auth)
//	PUT    /api/admin/videos/{id}    partial update (basic auth)
//	DELETE /api/admin/videos/{id}    delete a video (basic auth)
//	POST   /api/admin/videos/bulk    CSV import (basic auth)
//
// Failures are JSON bodies of the form {"success": false, "error": "..."}.
//
// # Sync Status Codes
//
// Fatal sync errors map to distinct statuses: 400 missing key or generic remote error, 401 rejected key,
// 404 unknown channel, 409 sync already running, 429 quota exhausted, 500 anything else.
//
// # Lifecycle
//
// [Server] wraps [http.Server] and shuts down gracefully when its context is cancelled.
package server
