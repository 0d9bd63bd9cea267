// Package prefetch proactively warms the shared cache: popular packages,
// dependencies of packages the user touches, listings nearing expiry, and
// the results of recently repeated searches. All work respects the user's
// configuration and the host's network conditions, runs under a bounded
// permit pool, and is invisible to interactive callers except as cache
// hits.
package prefetch
