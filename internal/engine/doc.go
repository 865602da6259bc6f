// Package engine runs parsed filter trees against all registered source
// adapters, isolates per-source failures, merges and deduplicates the
// survivors, and reports overall health as complete or degraded.
//
// The engine holds no cross-query state: each call produces a fresh
// tree, fresh per-source results, and a fresh unified record set, so it
// is safely reentrant for concurrent queries.
package engine
