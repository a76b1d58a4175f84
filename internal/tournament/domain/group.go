package domain

import "github.com/google/uuid"

// Group is one group within a stage. It mirrors the stage ownership
// pattern: a bottom-up reference to its stage, position by number, and
// linkage through the dependency graph. Group configuration is minimal for
// now; its context validation is deferred until groups carry settings of
// their own.
type Group struct {
	Identity Identity
	// StageID is the back-reference to the owning stage.
	StageID uuid.UUID
	// Number is the zero-based position within the stage.
	Number int
}

// NewGroup creates a group with the given identity.
func NewGroup(identity Identity) Group {
	return Group{Identity: identity}
}
