// Package preflight reports whether the pipeline can run: external binaries,
// writable directories, provider credentials, and endpoint reachability.
//
// The HTTP health route and the CLI status command both render RunAll. The
// serve command logs failed checks at startup but does not refuse to start,
// since credentials can be supplied later through the settings route.
package preflight
