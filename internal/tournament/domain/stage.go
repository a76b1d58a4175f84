package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Stage is one stage of a tournament. It references its tournament
// bottom-up; ownership is expressed only through the dependency graph.
type Stage struct {
	Identity Identity
	// TournamentID is the back-reference to the owning tournament base.
	TournamentID uuid.UUID
	// Number is the zero-based position within the tournament.
	Number int
	// GroupCount is the number of groups configured for this stage.
	GroupCount int
}

// NewStage creates a stage with the given identity and a single group.
func NewStage(identity Identity) Stage {
	return Stage{Identity: identity, GroupCount: 1}
}

// ValidateStageNumber checks a stage position against the structural
// capacity of the base's mode. Returns nil when in range.
func ValidateStageNumber(number int, base Base) *FieldError {
	max := base.Mode.StageCount()
	if number < 0 || number >= max {
		err := rangeError(uuid.Nil, "number",
			fmt.Sprintf("stage number %d exceeds the %d stage(s) allowed by mode %s", number, max, base.Mode))
		return &err
	}
	return nil
}

// ValidateGroupCount checks a group count against the base's entrant count
// and mode constraints. Returns nil when in range.
func ValidateGroupCount(count int, base Base) *FieldError {
	if count < 1 {
		err := rangeError(uuid.Nil, "group_count", "number of groups must be at least 1")
		return &err
	}
	if count > base.EntrantCount/2 {
		err := rangeError(uuid.Nil, "group_count", "number of groups cannot exceed half the number of entrants")
		return &err
	}
	switch base.Mode.Kind {
	case ModeSingleStage:
		if count != 1 {
			err := rangeError(uuid.Nil, "group_count", "single stage mode must have exactly 1 group (the whole field)")
			return &err
		}
	case ModeSwissSystem:
		if count > 1 {
			err := rangeError(uuid.Nil, "group_count", "swiss system has 1 group per stage (the whole field)")
			return &err
		}
	}
	return nil
}

// Validate checks the stage against its resolved parent base and returns
// all field errors found. A nil result means the stage is valid in this
// context.
func (s Stage) Validate(base Base) Errors {
	var errs Errors
	objectID, _ := s.Identity.ID()

	if baseID, ok := base.Identity.ID(); ok && s.TournamentID != baseID {
		errs = append(errs, mismatchError(objectID, "tournament_id",
			"stage tournament id does not match the provided tournament"))
	}

	if err := ValidateGroupCount(s.GroupCount, base); err != nil {
		fe := *err
		fe.ObjectID = objectID
		errs = append(errs, fe)
	}

	if err := ValidateStageNumber(s.Number, base); err != nil {
		fe := *err
		fe.ObjectID = objectID
		errs = append(errs, fe)
	}

	return errs
}
