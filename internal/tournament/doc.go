// Package tournament implements the tournament structure and
// synchronization engine: the aggregate that owns the base, the dependency
// graph and the entity stores, and the editor that tracks a local snapshot
// against a persisted origin to produce minimal diffs.
//
// The engine is single-threaded and performs no I/O. Persistence, change
// notification and navigation are external collaborators layered on top of
// the diff and validation output.
package tournament
