package tournament

import (
	"github.com/google/uuid"

	"github.com/courtsidehq/courtside/internal/tournament/domain"
)

// EditorState describes what the editor currently holds.
type EditorState int

const (
	// EditorStateNone indicates no tournament is loaded.
	EditorStateNone EditorState = iota
	// EditorStateNew indicates a new tournament is being created (no
	// persisted origin).
	EditorStateNew
	// EditorStateEdit indicates an existing tournament is being edited
	// against a persisted origin.
	EditorStateEdit
)

// Editor wraps two aggregates: local, the snapshot under edit, and origin,
// the last known-persisted snapshot. Origin is assumed internally valid and
// only updated through the editor's resync setters; local is the only
// mutable side during editing. Comparing the two yields change detection
// and the minimal diffs to persist.
//
// The editor is single-threaded; callers must serialize access.
type Editor struct {
	local  *Aggregate
	origin *Aggregate

	activeStageID *uuid.UUID
	activeGroupID *uuid.UUID
}

// NewEditor creates an editor with empty local and origin snapshots.
func NewEditor() *Editor {
	return &Editor{
		local:  NewAggregate(),
		origin: NewAggregate(),
	}
}

// State reports whether the editor is empty, creating a new tournament, or
// editing a persisted one.
func (e *Editor) State() EditorState {
	if _, ok := e.origin.Base(); ok {
		return EditorStateEdit
	}
	if _, ok := e.local.Base(); ok {
		return EditorStateNew
	}
	return EditorStateNone
}

// Local exposes the mutable local aggregate for direct editing. Use the
// editor's own setters for values loaded from or confirmed by storage.
func (e *Editor) Local() *Aggregate {
	return e.local
}

// Base returns a copy of the local base.
func (e *Editor) Base() (domain.Base, bool) {
	return e.local.Base()
}

// ActiveStageID returns the id of the most recently touched stage.
func (e *Editor) ActiveStageID() (uuid.UUID, bool) {
	if e.activeStageID == nil {
		return uuid.Nil, false
	}
	return *e.activeStageID, true
}

// ActiveStage returns the most recently touched stage from the local store.
func (e *Editor) ActiveStage() (domain.Stage, bool) {
	if e.activeStageID == nil {
		return domain.Stage{}, false
	}
	return e.local.StageByID(*e.activeStageID)
}

// NewBase resets the editor and mints a new provisional base into local.
// It returns the previous origin base, if any, so callers can offer to
// resume the abandoned edit.
func (e *Editor) NewBase(sportID uuid.UUID) *domain.Base {
	prev := e.origin.ClearBase()
	*e = *NewEditor()
	e.local.NewBase(sportID)
	return prev
}

// NewStage ensures a stage exists at the given position in local. When the
// origin already holds a matching stage it is copied into local instead of
// minting a new one, so persisted stages keep their identity.
func (e *Editor) NewStage(number int) error {
	baseID, ok := e.local.rootID()
	if !ok {
		return ErrNoBase
	}
	if originStage, found := e.origin.StageByNumber(number); found && originStage.TournamentID == baseID {
		if err := e.local.SetStage(originStage); err != nil {
			return err
		}
		e.setActiveStage(originStage)
		return nil
	}
	stage, err := e.local.NewStage(number)
	if err != nil {
		return err
	}
	e.setActiveStage(stage)
	return nil
}

// SetBase applies a loaded or freshly saved base snapshot to both sides,
// clearing any prior drift at the root. It returns the previous origin
// base, if any.
func (e *Editor) SetBase(base domain.Base) *domain.Base {
	e.local.SetBase(base)
	return e.origin.SetBase(base)
}

// SetStage applies a loaded or freshly saved stage to both sides. Origin is
// authoritative: a conflicting local stage at the same position is cleared
// before the value is linked locally.
func (e *Editor) SetStage(stage domain.Stage) error {
	if err := e.origin.SetStage(stage); err != nil {
		return err
	}
	stageID, _ := stage.Identity.ID()
	if local, found := e.local.StageByNumber(stage.Number); found {
		if localID, _ := local.Identity.ID(); localID != stageID {
			e.local.ClearStage(localID)
		}
	}
	if err := e.local.SetStage(stage); err != nil {
		return err
	}
	e.setActiveStage(stage)
	return nil
}

// SetGroup applies a loaded or freshly saved group to both sides.
func (e *Editor) SetGroup(group domain.Group) error {
	if err := e.origin.SetGroup(group); err != nil {
		return err
	}
	if err := e.local.SetGroup(group); err != nil {
		return err
	}
	if id, ok := group.Identity.ID(); ok {
		e.activeGroupID = &id
	}
	return nil
}

func (e *Editor) setActiveStage(stage domain.Stage) {
	if id, ok := stage.Identity.ID(); ok {
		e.activeStageID = &id
	}
}

// IsChanged reports whether local drifted from origin.
func (e *Editor) IsChanged() bool {
	return e.local.IsChanged(e.origin)
}

// DiffBase returns the local base when it must be persisted.
func (e *Editor) DiffBase() *domain.Base {
	return e.local.DiffBase(e.origin)
}

// DiffStages returns the reachable local stages that must be persisted.
func (e *Editor) DiffStages() []domain.Stage {
	return e.local.DiffStages(e.origin)
}

// DiffGroups returns the reachable local groups that must be persisted.
func (e *Editor) DiffGroups() []domain.Group {
	return e.local.DiffGroups(e.origin)
}

// Validate validates the local snapshot only; origin stems from storage and
// is assumed valid.
func (e *Editor) Validate() domain.Errors {
	return e.local.Validate()
}

// ValidateObjectNumbers checks a navigation path against the local
// snapshot, since pending edits may have invalidated it.
func (e *Editor) ValidateObjectNumbers(stageNumber, groupNumber *int) ([]int, bool) {
	return e.local.ValidateObjectNumbers(stageNumber, groupNumber)
}
