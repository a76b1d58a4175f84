// Package storage defines the persistence boundary of the tournament
// engine. Stores perform create-or-update per entity type under optimistic
// concurrency: a save returns the value with a persisted identity (id
// assigned when new, version incremented when updated) or fails with
// ErrVersionConflict when the supplied version no longer matches. The
// engine itself never talks to a store; the service layer does.
package storage
