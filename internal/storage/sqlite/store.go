// Package sqlite provides the SQLite-backed tournament store. Entities are
// persisted per type in their own tables, matching the bottom-up reference
// model: stages carry their tournament id, groups their stage id. Saves are
// guarded by an optimistic version check.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/courtsidehq/courtside/internal/storage"
	"github.com/courtsidehq/courtside/internal/tournament/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS tournament_bases (
	id            TEXT PRIMARY KEY,
	version       INTEGER NOT NULL,
	name          TEXT NOT NULL,
	sport_id      TEXT NOT NULL,
	entrant_count INTEGER NOT NULL,
	t_type        TEXT NOT NULL,
	mode          TEXT NOT NULL,
	round_count   INTEGER NOT NULL DEFAULT 0,
	state         TEXT NOT NULL,
	active_stage  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS stages (
	id            TEXT PRIMARY KEY,
	version       INTEGER NOT NULL,
	tournament_id TEXT NOT NULL,
	number        INTEGER NOT NULL,
	group_count   INTEGER NOT NULL,
	UNIQUE (tournament_id, number)
);

CREATE TABLE IF NOT EXISTS groups (
	id       TEXT PRIMARY KEY,
	version  INTEGER NOT NULL,
	stage_id TEXT NOT NULL,
	number   INTEGER NOT NULL,
	UNIQUE (stage_id, number)
);
`

// Store provides SQLite-backed persistence for tournament structure data.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a tournament SQLite store at the provided path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// saveIdentity resolves the identity for a save: new entities get an id
// (minted when unassigned) and version 1, persisted entities keep their id
// and bump the version.
func saveIdentity(identity domain.Identity) (id uuid.UUID, version int64, update bool) {
	id, ok := identity.ID()
	if !ok {
		id = domain.NewID()
	}
	if current, persisted := identity.Version(); persisted {
		return id, current + 1, true
	}
	return id, 1, false
}

// SaveBase creates or updates a tournament base.
func (s *Store) SaveBase(ctx context.Context, base domain.Base) (domain.Base, error) {
	id, version, update := saveIdentity(base.Identity)

	if update {
		res, err := s.sqlDB.ExecContext(ctx, `
			UPDATE tournament_bases
			SET version = ?, name = ?, sport_id = ?, entrant_count = ?, t_type = ?, mode = ?, round_count = ?, state = ?, active_stage = ?
			WHERE id = ? AND version = ?`,
			version, base.Name, base.SportID.String(), base.EntrantCount, base.Type.String(),
			base.Mode.String(), base.Mode.RoundCount, base.State.String(), base.State.ActiveStage,
			id.String(), version-1)
		if err != nil {
			return domain.Base{}, fmt.Errorf("update tournament base: %w", err)
		}
		if err := requireAffected(ctx, s.sqlDB, res, "tournament_bases", id); err != nil {
			return domain.Base{}, err
		}
	} else {
		_, err := s.sqlDB.ExecContext(ctx, `
			INSERT INTO tournament_bases (id, version, name, sport_id, entrant_count, t_type, mode, round_count, state, active_stage)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id.String(), version, base.Name, base.SportID.String(), base.EntrantCount,
			base.Type.String(), base.Mode.String(), base.Mode.RoundCount,
			base.State.String(), base.State.ActiveStage)
		if err != nil {
			return domain.Base{}, fmt.Errorf("insert tournament base: %w", err)
		}
	}

	base.Identity = domain.PersistedIdentity(id, version)
	return base, nil
}

// GetBase loads a tournament base by id.
func (s *Store) GetBase(ctx context.Context, id uuid.UUID) (domain.Base, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
		SELECT id, version, name, sport_id, entrant_count, t_type, mode, round_count, state, active_stage
		FROM tournament_bases WHERE id = ?`, id.String())
	return scanBase(row)
}

// SaveStage creates or updates a stage.
func (s *Store) SaveStage(ctx context.Context, stage domain.Stage) (domain.Stage, error) {
	id, version, update := saveIdentity(stage.Identity)

	if update {
		res, err := s.sqlDB.ExecContext(ctx, `
			UPDATE stages
			SET version = ?, tournament_id = ?, number = ?, group_count = ?
			WHERE id = ? AND version = ?`,
			version, stage.TournamentID.String(), stage.Number, stage.GroupCount,
			id.String(), version-1)
		if err != nil {
			return domain.Stage{}, fmt.Errorf("update stage: %w", err)
		}
		if err := requireAffected(ctx, s.sqlDB, res, "stages", id); err != nil {
			return domain.Stage{}, err
		}
	} else {
		_, err := s.sqlDB.ExecContext(ctx, `
			INSERT INTO stages (id, version, tournament_id, number, group_count)
			VALUES (?, ?, ?, ?, ?)`,
			id.String(), version, stage.TournamentID.String(), stage.Number, stage.GroupCount)
		if err != nil {
			return domain.Stage{}, fmt.Errorf("insert stage: %w", err)
		}
	}

	stage.Identity = domain.PersistedIdentity(id, version)
	return stage, nil
}

// ListStages loads all stages of a tournament ordered by number.
func (s *Store) ListStages(ctx context.Context, tournamentID uuid.UUID) ([]domain.Stage, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT id, version, tournament_id, number, group_count
		FROM stages WHERE tournament_id = ? ORDER BY number`, tournamentID.String())
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	defer rows.Close()

	var stages []domain.Stage
	for rows.Next() {
		var (
			rawID, rawTournamentID string
			version                int64
			stage                  domain.Stage
		)
		if err := rows.Scan(&rawID, &version, &rawTournamentID, &stage.Number, &stage.GroupCount); err != nil {
			return nil, fmt.Errorf("scan stage: %w", err)
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse stage id: %w", err)
		}
		tid, err := uuid.Parse(rawTournamentID)
		if err != nil {
			return nil, fmt.Errorf("parse stage tournament id: %w", err)
		}
		stage.Identity = domain.PersistedIdentity(id, version)
		stage.TournamentID = tid
		stages = append(stages, stage)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stages: %w", err)
	}
	return stages, nil
}

// SaveGroup creates or updates a group.
func (s *Store) SaveGroup(ctx context.Context, group domain.Group) (domain.Group, error) {
	id, version, update := saveIdentity(group.Identity)

	if update {
		res, err := s.sqlDB.ExecContext(ctx, `
			UPDATE groups
			SET version = ?, stage_id = ?, number = ?
			WHERE id = ? AND version = ?`,
			version, group.StageID.String(), group.Number, id.String(), version-1)
		if err != nil {
			return domain.Group{}, fmt.Errorf("update group: %w", err)
		}
		if err := requireAffected(ctx, s.sqlDB, res, "groups", id); err != nil {
			return domain.Group{}, err
		}
	} else {
		_, err := s.sqlDB.ExecContext(ctx, `
			INSERT INTO groups (id, version, stage_id, number)
			VALUES (?, ?, ?, ?)`,
			id.String(), version, group.StageID.String(), group.Number)
		if err != nil {
			return domain.Group{}, fmt.Errorf("insert group: %w", err)
		}
	}

	group.Identity = domain.PersistedIdentity(id, version)
	return group, nil
}

// ListGroups loads all groups of a stage ordered by number.
func (s *Store) ListGroups(ctx context.Context, stageID uuid.UUID) ([]domain.Group, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT id, version, stage_id, number
		FROM groups WHERE stage_id = ? ORDER BY number`, stageID.String())
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []domain.Group
	for rows.Next() {
		var (
			rawID, rawStageID string
			version           int64
			group             domain.Group
		)
		if err := rows.Scan(&rawID, &version, &rawStageID, &group.Number); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse group id: %w", err)
		}
		sid, err := uuid.Parse(rawStageID)
		if err != nil {
			return nil, fmt.Errorf("parse group stage id: %w", err)
		}
		group.Identity = domain.PersistedIdentity(id, version)
		group.StageID = sid
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}
	return groups, nil
}

// requireAffected distinguishes a version conflict from a missing row after
// a guarded update touched nothing.
func requireAffected(ctx context.Context, sqlDB *sql.DB, res sql.Result, table string, id uuid.UUID) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}
	var exists int
	// table names come from the fixed schema above, never from input
	row := sqlDB.QueryRowContext(ctx, "SELECT COUNT(1) FROM "+table+" WHERE id = ?", id.String())
	if err := row.Scan(&exists); err != nil {
		return fmt.Errorf("check existing row: %w", err)
	}
	if exists == 0 {
		return storage.ErrNotFound
	}
	return storage.ErrVersionConflict
}

// scanBase maps a tournament base row back into the domain value.
func scanBase(row *sql.Row) (domain.Base, error) {
	var (
		rawID, rawSportID, rawType, rawMode, rawState string
		version                                       int64
		roundCount, activeStage                       int
		base                                          domain.Base
	)
	err := row.Scan(&rawID, &version, &base.Name, &rawSportID, &base.EntrantCount,
		&rawType, &rawMode, &roundCount, &rawState, &activeStage)
	if err == sql.ErrNoRows {
		return domain.Base{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.Base{}, fmt.Errorf("scan tournament base: %w", err)
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return domain.Base{}, fmt.Errorf("parse tournament id: %w", err)
	}
	sportID, err := uuid.Parse(rawSportID)
	if err != nil {
		return domain.Base{}, fmt.Errorf("parse sport id: %w", err)
	}
	base.Identity = domain.PersistedIdentity(id, version)
	base.SportID = sportID
	base.Type = domain.ParseType(rawType)
	base.Mode = domain.ParseMode(rawMode, roundCount)
	base.State = domain.ParseState(rawState, activeStage)
	return base, nil
}
