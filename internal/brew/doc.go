// Package brew wraps the local Homebrew CLI: listing, searching, mutating,
// and inspecting packages through captured command invocations, each under
// its own timeout. It is the data layer's degraded path when the remote
// catalog is unreachable, and its only path for local-machine mutations.
package brew
