// Package resilience provides the retry and fallback primitives the data
// layer uses against its two slow upstreams.
//
// The two mechanisms compose orthogonally:
//   - Retry wraps a single branch (remote fetch or local tool call) with
//     exponential backoff governed by a per-operation Policy.
//   - WithFallback composes a preferred branch with a degraded one, once,
//     across branches; when both fail, the preferred branch's error wins.
//
// Retries happen inside each branch, fallback across them, never nested the
// other way around.
package resilience
