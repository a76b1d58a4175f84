package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/courtsidehq/courtside/internal/tournament/domain"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrVersionConflict indicates an optimistic-lock mismatch: the stored
// version differs from the version supplied with the save. Callers are
// expected to reload the persisted snapshot and retry.
var ErrVersionConflict = errors.New("stored version does not match supplied version")

// TournamentStore persists tournament bases, stages and groups.
type TournamentStore interface {
	// SaveBase creates or updates a tournament base and returns it with a
	// persisted identity.
	SaveBase(ctx context.Context, base domain.Base) (domain.Base, error)
	// GetBase loads a tournament base by id.
	GetBase(ctx context.Context, id uuid.UUID) (domain.Base, error)
	// SaveStage creates or updates a stage and returns it with a persisted
	// identity.
	SaveStage(ctx context.Context, stage domain.Stage) (domain.Stage, error)
	// ListStages loads all stages of a tournament ordered by number.
	ListStages(ctx context.Context, tournamentID uuid.UUID) ([]domain.Stage, error)
	// SaveGroup creates or updates a group and returns it with a persisted
	// identity.
	SaveGroup(ctx context.Context, group domain.Group) (domain.Group, error)
	// ListGroups loads all groups of a stage ordered by number.
	ListGroups(ctx context.Context, stageID uuid.UUID) ([]domain.Group, error)
}
