package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Type describes how a tournament is run.
type Type int

const (
	// TypeScheduled indicates a tournament planned ahead of time.
	TypeScheduled Type = iota
	// TypeAdhoc indicates a quick tournament without a full schedule.
	TypeAdhoc
)

// String returns the storage representation of the tournament type.
func (t Type) String() string {
	switch t {
	case TypeAdhoc:
		return "Adhoc"
	default:
		return "Scheduled"
	}
}

// ParseType maps a storage representation back to a tournament type.
// Unknown values default to scheduled.
func ParseType(s string) Type {
	if s == "Adhoc" {
		return TypeAdhoc
	}
	return TypeScheduled
}

// ModeKind enumerates the tournament mode variants.
type ModeKind int

const (
	// ModeSingleStage runs the whole field in one stage.
	ModeSingleStage ModeKind = iota
	// ModePoolAndFinal runs a pool stage followed by a final stage.
	ModePoolAndFinal
	// ModeTwoPoolsAndFinal runs two pool stages followed by a final stage.
	ModeTwoPoolsAndFinal
	// ModeSwissSystem runs a configurable number of Swiss rounds.
	ModeSwissSystem
)

// Mode is the tagged mode variant. RoundCount is only meaningful for
// ModeSwissSystem.
type Mode struct {
	Kind       ModeKind
	RoundCount int
}

// SwissMode builds a Swiss system mode with the given round count.
func SwissMode(rounds int) Mode {
	return Mode{Kind: ModeSwissSystem, RoundCount: rounds}
}

// StageCount returns the structural stage capacity of the mode. A Swiss
// tournament is structured as a single stage holding the whole field.
func (m Mode) StageCount() int {
	switch m.Kind {
	case ModePoolAndFinal:
		return 2
	case ModeTwoPoolsAndFinal:
		return 3
	default:
		return 1
	}
}

// ActiveStageLimit returns the lifecycle bound for the active stage index.
// Unlike StageCount, each Swiss round counts as a schedulable stage here.
func (m Mode) ActiveStageLimit() int {
	if m.Kind == ModeSwissSystem {
		return m.RoundCount
	}
	return m.StageCount()
}

// StageName returns the display name for a stage position within the mode.
// The second return is false when the position exceeds the mode capacity.
func (m Mode) StageName(number int) (string, bool) {
	switch m.Kind {
	case ModeSingleStage:
		return "Single Stage", true
	case ModePoolAndFinal:
		switch number {
		case 0:
			return "Pool Stage", true
		case 1:
			return "Final Stage", true
		}
		return "", false
	case ModeTwoPoolsAndFinal:
		switch number {
		case 0:
			return "First Pool Stage", true
		case 1:
			return "Second Pool Stage", true
		case 2:
			return "Final Stage", true
		}
		return "", false
	default:
		return "Swiss System", true
	}
}

// String returns the storage representation of the mode kind.
func (m Mode) String() string {
	switch m.Kind {
	case ModePoolAndFinal:
		return "PoolAndFinalStage"
	case ModeTwoPoolsAndFinal:
		return "TwoPoolStagesAndFinalStage"
	case ModeSwissSystem:
		return "SwissSystem"
	default:
		return "SingleStage"
	}
}

// ParseMode maps a storage representation back to a mode. The rounds
// argument is only consulted for the Swiss system.
func ParseMode(s string, rounds int) Mode {
	switch s {
	case "PoolAndFinalStage":
		return Mode{Kind: ModePoolAndFinal}
	case "TwoPoolStagesAndFinalStage":
		return Mode{Kind: ModeTwoPoolsAndFinal}
	case "SwissSystem":
		return Mode{Kind: ModeSwissSystem, RoundCount: rounds}
	default:
		return Mode{Kind: ModeSingleStage}
	}
}

// StateKind enumerates the lifecycle states of a tournament.
type StateKind int

const (
	// StateDraft indicates the tournament is still being configured.
	StateDraft StateKind = iota
	// StatePublished indicates the tournament is visible but not running.
	StatePublished
	// StateActive indicates a stage is currently running.
	StateActive
	// StateFinished indicates the tournament is over.
	StateFinished
)

// State is the lifecycle state. ActiveStage is the zero-based index of the
// running stage and only meaningful for StateActive.
type State struct {
	Kind        StateKind
	ActiveStage int
}

// ActiveState builds a running state at the given stage index.
func ActiveState(stage int) State {
	return State{Kind: StateActive, ActiveStage: stage}
}

// String returns the storage representation of the state kind.
func (s State) String() string {
	switch s.Kind {
	case StatePublished:
		return "Published"
	case StateActive:
		return "ActiveStage"
	case StateFinished:
		return "Finished"
	default:
		return "Draft"
	}
}

// ParseState maps a storage representation back to a state. The activeStage
// argument is only consulted for ActiveStage.
func ParseState(s string, activeStage int) State {
	switch s {
	case "Published":
		return State{Kind: StatePublished}
	case "ActiveStage":
		return State{Kind: StateActive, ActiveStage: activeStage}
	case "Finished":
		return State{Kind: StateFinished}
	default:
		return State{Kind: StateDraft}
	}
}

// Base holds the root configuration of a tournament. Its id anchors the
// dependency graph; every stage references it bottom-up.
type Base struct {
	Identity     Identity
	Name         string
	SportID      uuid.UUID
	EntrantCount int
	Type         Type
	Mode         Mode
	State        State
}

// NewBase creates a base with the given identity and default configuration:
// scheduled, single stage, draft.
func NewBase(identity Identity) Base {
	return Base{Identity: identity}
}

// SetName assigns the tournament name with whitespace normalization.
func (b *Base) SetName(name string) {
	b.Name = NormalizeWhitespace(name)
}

// Validate checks the base standalone and returns all field errors found.
// A nil result means the base is valid.
func (b Base) Validate() Errors {
	var errs Errors
	objectID, _ := b.Identity.ID()

	if NormalizeWhitespace(b.Name) == "" {
		errs = append(errs, requiredError(objectID, "name"))
	}

	if b.EntrantCount < 2 {
		errs = append(errs, rangeError(objectID, "entrant_count", "number of entrants must be at least 2"))
	}

	if b.Mode.Kind == ModeSwissSystem && b.Mode.RoundCount < 1 {
		errs = append(errs, rangeError(objectID, "mode.round_count", "number of rounds must be > 0"))
	}

	if b.State.Kind == StateActive {
		if limit := b.Mode.ActiveStageLimit(); b.State.ActiveStage >= limit {
			errs = append(errs, rangeError(objectID, "state",
				fmt.Sprintf("active stage %d exceeds the %d stage(s) of mode %s", b.State.ActiveStage, limit, b.Mode)))
		}
	}

	return errs
}
