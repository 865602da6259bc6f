// Package record defines the user records exchanged between source
// adapters and the engine: per-source records tagged with their origin,
// the identity key used to recognize the same entity across sources, and
// the unified record produced by the merge step.
package record
