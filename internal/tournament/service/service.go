// Package service orchestrates the editor against its external
// collaborators: it loads persisted snapshots into the editor, saves the
// editor's diffs through the tournament store, re-applies the persisted
// results to close the dirty loop, and publishes update notices.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/courtsidehq/courtside/internal/storage"
	"github.com/courtsidehq/courtside/internal/tournament"
	"github.com/courtsidehq/courtside/internal/tournament/domain"
	"github.com/courtsidehq/courtside/internal/tournament/event"
)

const tracerName = "github.com/courtsidehq/courtside/internal/tournament/service"

// EditorService wires one tournament editor to storage and change
// notification. Like the editor it wraps, it is single-threaded; callers
// serialize access.
type EditorService struct {
	editor    *tournament.Editor
	store     storage.TournamentStore
	publisher event.Publisher
	tracer    trace.Tracer
}

// NewEditorService creates a service with a fresh editor. The publisher may
// be nil when no subscribers exist.
func NewEditorService(store storage.TournamentStore, publisher event.Publisher) *EditorService {
	return &EditorService{
		editor:    tournament.NewEditor(),
		store:     store,
		publisher: publisher,
		tracer:    otel.Tracer(tracerName),
	}
}

// Editor exposes the wrapped editor for structural edits.
func (s *EditorService) Editor() *tournament.Editor {
	return s.editor
}

// Load pulls the persisted tournament snapshot into the editor, resetting
// both local and origin to storage truth.
func (s *EditorService) Load(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "EditorService.Load",
		trace.WithAttributes(attribute.String("tournament.id", id.String())))
	defer span.End()

	base, err := s.store.GetBase(ctx, id)
	if err != nil {
		return fmt.Errorf("load tournament base: %w", err)
	}
	s.editor.SetBase(base)

	stages, err := s.store.ListStages(ctx, id)
	if err != nil {
		return fmt.Errorf("load stages: %w", err)
	}
	for _, stage := range stages {
		if err := s.editor.SetStage(stage); err != nil {
			return fmt.Errorf("apply stage: %w", err)
		}
		stageID, ok := stage.Identity.ID()
		if !ok {
			continue
		}
		groups, err := s.store.ListGroups(ctx, stageID)
		if err != nil {
			return fmt.Errorf("load groups: %w", err)
		}
		for _, group := range groups {
			if err := s.editor.SetGroup(group); err != nil {
				return fmt.Errorf("apply group: %w", err)
			}
		}
	}
	return nil
}

// SaveResult lists the entities persisted by one save, carrying their new
// persisted identities.
type SaveResult struct {
	Base   *domain.Base
	Stages []domain.Stage
	Groups []domain.Group
}

// Save persists the editor's pending changes: base first, then stages, then
// groups, matching the bottom-up reference order. Every saved value is
// re-applied through the editor so origin matches storage again and the
// diff comes back clean. A storage.ErrVersionConflict is returned wrapped
// for the caller's reload-and-retry flow; entities saved before the
// conflict stay synced.
func (s *EditorService) Save(ctx context.Context) (SaveResult, error) {
	ctx, span := s.tracer.Start(ctx, "EditorService.Save")
	defer span.End()

	var result SaveResult
	if !s.editor.IsChanged() {
		return result, nil
	}

	// Collect all diffs before resyncing anything: re-applying the saved
	// base resets both sides and must not hide pending stage edits.
	baseDiff := s.editor.DiffBase()
	stageDiffs := s.editor.DiffStages()
	groupDiffs := s.editor.DiffGroups()

	if baseDiff != nil {
		saved, err := s.store.SaveBase(ctx, *baseDiff)
		if err != nil {
			return result, fmt.Errorf("save tournament base: %w", err)
		}
		result.Base = &saved
		s.publish(ctx, event.TypeBaseUpdated, saved.Identity, rootIDOf(saved))
	}

	// Stages reference the persisted base id; re-point provisional edits
	// at the saved base before writing them.
	baseID := s.currentBaseID(result.Base)

	for _, stage := range stageDiffs {
		if baseID != uuid.Nil {
			stage.TournamentID = baseID
		}
		saved, err := s.store.SaveStage(ctx, stage)
		if err != nil {
			s.resync(result)
			return result, fmt.Errorf("save stage %d: %w", stage.Number, err)
		}
		result.Stages = append(result.Stages, saved)
		s.publish(ctx, event.TypeStageUpdated, saved.Identity, saved.TournamentID)
	}

	for _, group := range groupDiffs {
		saved, err := s.store.SaveGroup(ctx, group)
		if err != nil {
			s.resync(result)
			return result, fmt.Errorf("save group %d: %w", group.Number, err)
		}
		result.Groups = append(result.Groups, saved)
		s.publish(ctx, event.TypeGroupUpdated, saved.Identity, baseID)
	}

	s.resync(result)
	return result, nil
}

// currentBaseID resolves the tournament id stages should reference: the
// freshly saved base when present, the editor's base otherwise.
func (s *EditorService) currentBaseID(saved *domain.Base) uuid.UUID {
	if saved != nil {
		if id, ok := saved.Identity.ID(); ok {
			return id
		}
	}
	if base, ok := s.editor.Base(); ok {
		if id, ok := base.Identity.ID(); ok {
			return id
		}
	}
	return uuid.Nil
}

// resync applies every saved value back into the editor, updating origin to
// match storage for exactly the entities that were persisted.
func (s *EditorService) resync(result SaveResult) {
	if result.Base != nil {
		s.editor.SetBase(*result.Base)
	}
	for _, stage := range result.Stages {
		// saved values always link cleanly; the conflict paths were
		// resolved before the save
		_ = s.editor.SetStage(stage)
	}
	for _, group := range result.Groups {
		_ = s.editor.SetGroup(group)
	}
}

// publish emits an update notice for a persisted entity. Publishing is
// best-effort and never fails the save.
func (s *EditorService) publish(ctx context.Context, typ event.Type, identity domain.Identity, tournamentID uuid.UUID) {
	if s.publisher == nil {
		return
	}
	id, ok := identity.ID()
	if !ok {
		return
	}
	version, _ := identity.Version()
	_ = s.publisher.Publish(ctx, event.Notice{
		Type:         typ,
		ID:           id,
		Version:      version,
		TournamentID: tournamentID,
	})
}

// rootIDOf returns the base's own id for notice scoping.
func rootIDOf(base domain.Base) uuid.UUID {
	id, _ := base.Identity.ID()
	return id
}
