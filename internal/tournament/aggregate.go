package tournament

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/courtsidehq/courtside/internal/tournament/domain"
	"github.com/courtsidehq/courtside/internal/tournament/graph"
)

var (
	// ErrNoBase indicates an operation that needs the tournament base
	// before any base is set.
	ErrNoBase = errors.New("tournament base is not set")
	// ErrNoID indicates an entity without an assigned id where one is
	// required for linking.
	ErrNoID = errors.New("entity has no id")
	// ErrNumberConflict indicates a rejected mutation: a different entity
	// already occupies the requested position among linked entities.
	ErrNumberConflict = errors.New("position is already occupied by a different entity")
	// ErrMissingStage indicates a stage id with no payload in the store.
	ErrMissingStage = errors.New("stage not found")
)

// Aggregate owns one tournament object tree: the base slot, the dependency
// graph and the per-type entity stores. The graph is the authoritative
// structure; the stores are payload. Entities may remain in a store while
// unreachable from the base ("orphaned") — this tolerates out-of-order
// construction and is never cleaned up implicitly.
type Aggregate struct {
	base      *domain.Base
	structure *graph.Graph
	stages    map[uuid.UUID]domain.Stage
	groups    map[uuid.UUID]domain.Group
}

// NewAggregate creates an empty aggregate.
func NewAggregate() *Aggregate {
	return &Aggregate{
		structure: graph.New(),
		stages:    make(map[uuid.UUID]domain.Stage),
		groups:    make(map[uuid.UUID]domain.Group),
	}
}

// rootID returns the graph root, which is the base id.
func (a *Aggregate) rootID() (uuid.UUID, bool) {
	if a.base == nil {
		return uuid.Nil, false
	}
	return a.base.Identity.ID()
}

// Base returns a copy of the current base.
func (a *Aggregate) Base() (domain.Base, bool) {
	if a.base == nil {
		return domain.Base{}, false
	}
	return *a.base, true
}

// SetBase replaces the base slot and returns the previous base, if any.
// The base id becomes the graph root; stages that exceed the new mode's
// capacity are soft-unlinked, their payload preserved. SetBase never
// rejects: configuration problems are reported by Validate only.
func (a *Aggregate) SetBase(base domain.Base) *domain.Base {
	prev := a.base
	b := base
	a.base = &b
	if id, ok := base.Identity.ID(); ok {
		a.structure.AddNode(id)
		a.unlinkExcessStages(id)
	}
	return prev
}

// ClearBase empties the base slot and returns the previous base, if any.
// Graph nodes and stores are untouched.
func (a *Aggregate) ClearBase() *domain.Base {
	prev := a.base
	a.base = nil
	return prev
}

// SetBaseName updates the base name with normalization.
func (a *Aggregate) SetBaseName(name string) error {
	if a.base == nil {
		return ErrNoBase
	}
	a.base.SetName(name)
	return nil
}

// SetBaseEntrantCount updates the number of entrants.
func (a *Aggregate) SetBaseEntrantCount(count int) error {
	if a.base == nil {
		return ErrNoBase
	}
	a.base.EntrantCount = count
	return nil
}

// SetBaseMode updates the tournament mode and immediately re-runs stage
// invalidation: stages beyond the new capacity are soft-unlinked.
func (a *Aggregate) SetBaseMode(mode domain.Mode) error {
	if a.base == nil {
		return ErrNoBase
	}
	a.base.Mode = mode
	if id, ok := a.base.Identity.ID(); ok {
		a.unlinkExcessStages(id)
	}
	return nil
}

// SetBaseState updates the lifecycle state.
func (a *Aggregate) SetBaseState(state domain.State) error {
	if a.base == nil {
		return ErrNoBase
	}
	a.base.State = state
	return nil
}

// NewBase mints a base with a provisional identity for the given sport and
// sets it as the aggregate root.
func (a *Aggregate) NewBase(sportID uuid.UUID) domain.Base {
	base := domain.NewBase(domain.ProvisionalIdentity(domain.NewID()))
	base.SportID = sportID
	a.SetBase(base)
	return *a.base
}

// NewStage returns the reachable stage at the given position, minting and
// linking a new provisional stage when none exists. The requested position
// must be within the current mode capacity.
func (a *Aggregate) NewStage(number int) (domain.Stage, error) {
	if existing, ok := a.StageByNumber(number); ok {
		return existing, nil
	}
	base, ok := a.Base()
	if !ok {
		return domain.Stage{}, ErrNoBase
	}
	rootID, ok := a.rootID()
	if !ok {
		return domain.Stage{}, ErrNoBase
	}
	if err := domain.ValidateStageNumber(number, base); err != nil {
		return domain.Stage{}, fmt.Errorf("new stage: %w", err)
	}
	stage := domain.NewStage(domain.ProvisionalIdentity(domain.NewID()))
	stage.TournamentID = rootID
	stage.Number = number
	if err := a.SetStage(stage); err != nil {
		return domain.Stage{}, err
	}
	return stage, nil
}

// SetStage links a stage under the base and stores its payload. The
// mutation is rejected with ErrNumberConflict when a different stage is
// already linked at the same position; orphaned stages with a colliding
// number do not block relinking. On success the stage's excess groups are
// soft-unlinked against its configured group count.
func (a *Aggregate) SetStage(stage domain.Stage) error {
	stageID, ok := stage.Identity.ID()
	if !ok {
		return ErrNoID
	}
	rootID, ok := a.rootID()
	if !ok {
		return ErrNoBase
	}
	if existing, found := a.StageByNumber(stage.Number); found {
		if existingID, _ := existing.Identity.ID(); existingID != stageID {
			return ErrNumberConflict
		}
	}
	a.structure.AddEdge(rootID, stageID, graph.EdgeStage)
	a.stages[stageID] = stage
	a.unlinkExcessGroups(stageID)
	return nil
}

// SetStageGroupCount updates the group count of a stored stage and re-runs
// group invalidation for it.
func (a *Aggregate) SetStageGroupCount(stageID uuid.UUID, count int) error {
	stage, ok := a.stages[stageID]
	if !ok {
		return ErrMissingStage
	}
	stage.GroupCount = count
	a.stages[stageID] = stage
	a.unlinkExcessGroups(stageID)
	return nil
}

// SetGroup links a group under its stage and stores its payload. The stage
// node is created on demand, so groups arriving before their parent stage
// are tolerated; they stay orphaned until the stage is linked. A different
// group already linked at the same position rejects the mutation.
func (a *Aggregate) SetGroup(group domain.Group) error {
	groupID, ok := group.Identity.ID()
	if !ok {
		return ErrNoID
	}
	for _, edge := range a.structure.From(group.StageID) {
		if edge.Kind != graph.EdgeGroup {
			continue
		}
		linked, found := a.groups[edge.Child]
		if !found || linked.Number != group.Number {
			continue
		}
		if linkedID, _ := linked.Identity.ID(); linkedID != groupID {
			return ErrNumberConflict
		}
	}
	a.structure.AddEdge(group.StageID, groupID, graph.EdgeGroup)
	a.groups[groupID] = group
	return nil
}

// StageByNumber scans the base's outgoing stage edges for the stage at the
// given position. Orphaned stages are invisible here by design.
func (a *Aggregate) StageByNumber(number int) (domain.Stage, bool) {
	rootID, ok := a.rootID()
	if !ok {
		return domain.Stage{}, false
	}
	for _, edge := range a.structure.From(rootID) {
		if edge.Kind != graph.EdgeStage {
			continue
		}
		if stage, found := a.stages[edge.Child]; found && stage.Number == number {
			return stage, true
		}
	}
	return domain.Stage{}, false
}

// StageByID looks a stage up directly in the store; orphans are visible.
func (a *Aggregate) StageByID(id uuid.UUID) (domain.Stage, bool) {
	stage, ok := a.stages[id]
	return stage, ok
}

// GroupByID looks a group up directly in the store; orphans are visible.
func (a *Aggregate) GroupByID(id uuid.UUID) (domain.Group, bool) {
	group, ok := a.groups[id]
	return group, ok
}

// ClearStage removes a stage's graph node with all its edges and drops its
// payload. This is explicit deletion, not invalidation.
func (a *Aggregate) ClearStage(id uuid.UUID) {
	a.structure.RemoveNode(id)
	delete(a.stages, id)
}

// ClearGroup removes a group's graph node with all its edges and drops its
// payload.
func (a *Aggregate) ClearGroup(id uuid.UUID) {
	a.structure.RemoveNode(id)
	delete(a.groups, id)
}

// ReachableIDs collects every id reachable from the base. Used as the
// filter for diffing; never mutates.
func (a *Aggregate) ReachableIDs() map[uuid.UUID]struct{} {
	rootID, ok := a.rootID()
	if !ok {
		return map[uuid.UUID]struct{}{}
	}
	return a.structure.Reachable(rootID)
}

// unlinkExcessStages soft-unlinks stages whose position exceeds the current
// mode capacity. Payload is preserved in the store.
func (a *Aggregate) unlinkExcessStages(rootID uuid.UUID) {
	if a.base == nil {
		return
	}
	limit := a.base.Mode.StageCount()
	for _, edge := range a.structure.From(rootID) {
		if edge.Kind != graph.EdgeStage {
			continue
		}
		if stage, ok := a.stages[edge.Child]; ok && stage.Number >= limit {
			a.structure.RemoveEdge(rootID, edge.Child)
		}
	}
}

// unlinkExcessGroups soft-unlinks groups whose position exceeds the stage's
// configured group count.
func (a *Aggregate) unlinkExcessGroups(stageID uuid.UUID) {
	stage, ok := a.stages[stageID]
	if !ok {
		return
	}
	limit := stage.GroupCount
	for _, edge := range a.structure.From(stageID) {
		if edge.Kind != graph.EdgeGroup {
			continue
		}
		if group, found := a.groups[edge.Child]; found && group.Number >= limit {
			a.structure.RemoveEdge(stageID, edge.Child)
		}
	}
}

// Validate checks the base standalone and every reachable stage against it,
// aggregating all field errors without short-circuiting. An unset base is
// trivially valid; orphaned entities are never validated.
func (a *Aggregate) Validate() domain.Errors {
	base, ok := a.Base()
	if !ok {
		return nil
	}
	errs := base.Validate()

	rootID, ok := a.rootID()
	if !ok {
		return errs
	}
	a.structure.Walk(rootID, func(id uuid.UUID) bool {
		for _, edge := range a.structure.From(id) {
			switch edge.Kind {
			case graph.EdgeStage:
				if stage, found := a.stages[edge.Child]; found {
					errs = append(errs, stage.Validate(base)...)
				}
			case graph.EdgeGroup:
				// group validation is deferred until groups carry
				// configuration of their own
			}
		}
		return true
	})
	return errs
}

// ValidateObjectNumbers checks a stage/group navigation path against the
// current structure. It walks an explicit queue from the base, validating
// each supplied number against its parent's capacity; a group number is
// only checked when the addressed stage is reachable. It returns (nil,
// true) when the whole path is valid, otherwise the prefix of numbers
// validated so far and false, letting callers clamp navigation to the
// closest valid path.
func (a *Aggregate) ValidateObjectNumbers(stageNumber, groupNumber *int) ([]int, bool) {
	valid := []int{}
	base, ok := a.Base()
	if !ok {
		return valid, false
	}
	rootID, ok := a.rootID()
	if !ok {
		return valid, false
	}

	type step struct {
		id   uuid.UUID
		kind graph.EdgeKind
	}
	queue := []step{{id: rootID, kind: graph.EdgeStage}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		switch current.kind {
		case graph.EdgeStage:
			if stageNumber == nil {
				return nil, true
			}
			if *stageNumber < 0 || *stageNumber >= base.Mode.StageCount() {
				return valid, false
			}
			valid = append(valid, *stageNumber)
			if stage, found := a.StageByNumber(*stageNumber); found {
				if stageID, hasID := stage.Identity.ID(); hasID {
					queue = append(queue, step{id: stageID, kind: graph.EdgeGroup})
				}
			}
		case graph.EdgeGroup:
			if groupNumber == nil {
				return nil, true
			}
			if stage, found := a.stages[current.id]; found {
				if *groupNumber < 0 || *groupNumber >= stage.GroupCount {
					return valid, false
				}
			}
			valid = append(valid, *groupNumber)
		}
	}
	return nil, true
}

// IsChanged reports whether this aggregate differs from origin at the base
// or at any reachable stage or group. It short-circuits on the first
// difference found. An aggregate without a base is never changed.
func (a *Aggregate) IsChanged(origin *Aggregate) bool {
	rootID, ok := a.rootID()
	if !ok {
		return false
	}

	localBase, _ := a.Base()
	originBase, originHasBase := origin.Base()
	if !originHasBase || localBase != originBase {
		return true
	}

	changed := false
	a.structure.Walk(rootID, func(id uuid.UUID) bool {
		for _, edge := range a.structure.From(id) {
			switch edge.Kind {
			case graph.EdgeStage:
				local, localOK := a.stages[edge.Child]
				orig, origOK := origin.stages[edge.Child]
				if localOK != origOK || local != orig {
					changed = true
					return false
				}
			case graph.EdgeGroup:
				local, localOK := a.groups[edge.Child]
				orig, origOK := origin.groups[edge.Child]
				if localOK != origOK || local != orig {
					changed = true
					return false
				}
			}
		}
		return true
	})
	return changed
}

// DiffBase returns a copy of the local base when it is new or differs from
// origin's base by value, nil otherwise.
func (a *Aggregate) DiffBase(origin *Aggregate) *domain.Base {
	local, ok := a.Base()
	if !ok {
		return nil
	}
	if orig, origOK := origin.Base(); origOK && orig == local {
		return nil
	}
	diff := local
	return &diff
}

// DiffStages returns the stages that must be persisted: stages reachable in
// the local graph whose payload is absent from origin or differs by value.
// Orphaned stages are excluded even when their payload still exists in
// either store, so unlinked edits are never accidentally saved. The result
// is ordered by stage number.
func (a *Aggregate) DiffStages(origin *Aggregate) []domain.Stage {
	reachable := a.ReachableIDs()
	var diff []domain.Stage
	for id := range reachable {
		local, ok := a.stages[id]
		if !ok {
			continue
		}
		if orig, origOK := origin.stages[id]; origOK && orig == local {
			continue
		}
		diff = append(diff, local)
	}
	sort.Slice(diff, func(i, j int) bool { return diff[i].Number < diff[j].Number })
	return diff
}

// DiffGroups is the group counterpart of DiffStages, ordered by stage id
// then group number.
func (a *Aggregate) DiffGroups(origin *Aggregate) []domain.Group {
	reachable := a.ReachableIDs()
	var diff []domain.Group
	for id := range reachable {
		local, ok := a.groups[id]
		if !ok {
			continue
		}
		if orig, origOK := origin.groups[id]; origOK && orig == local {
			continue
		}
		diff = append(diff, local)
	}
	sort.Slice(diff, func(i, j int) bool {
		if diff[i].StageID != diff[j].StageID {
			return diff[i].StageID.String() < diff[j].StageID.String()
		}
		return diff[i].Number < diff[j].Number
	})
	return diff
}
