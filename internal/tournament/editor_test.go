package tournament

import (
	"testing"

	"github.com/google/uuid"

	"github.com/courtsidehq/courtside/internal/tournament/domain"
)

func persistedBase(name string) domain.Base {
	base := domain.NewBase(domain.PersistedIdentity(uuid.New(), 1))
	base.Name = name
	base.SportID = uuid.New()
	base.EntrantCount = 8
	base.Mode = domain.Mode{Kind: domain.ModePoolAndFinal}
	return base
}

func TestEditorStateTransitions(t *testing.T) {
	e := NewEditor()
	if got := e.State(); got != EditorStateNone {
		t.Fatalf("State() = %v, want EditorStateNone", got)
	}

	e.NewBase(uuid.New())
	if got := e.State(); got != EditorStateNew {
		t.Fatalf("State() after NewBase = %v, want EditorStateNew", got)
	}

	e = NewEditor()
	e.SetBase(persistedBase("Spring Open"))
	if got := e.State(); got != EditorStateEdit {
		t.Fatalf("State() after SetBase = %v, want EditorStateEdit", got)
	}
}

func TestEditorCleanAfterLoad(t *testing.T) {
	e := NewEditor()
	base := persistedBase("Spring Open")
	e.SetBase(base)

	baseID, _ := base.Identity.ID()
	stage := domain.NewStage(domain.PersistedIdentity(uuid.New(), 1))
	stage.TournamentID = baseID
	stage.Number = 0
	if err := e.SetStage(stage); err != nil {
		t.Fatalf("SetStage returned error: %v", err)
	}

	if e.IsChanged() {
		t.Fatal("editor should be clean right after loading a snapshot")
	}
	if diff := e.DiffBase(); diff != nil {
		t.Fatalf("DiffBase = %+v, want nil after load", diff)
	}
	if diff := e.DiffStages(); len(diff) != 0 {
		t.Fatalf("DiffStages = %+v, want empty after load", diff)
	}
}

func TestEditorDetectsLocalEdits(t *testing.T) {
	e := NewEditor()
	e.SetBase(persistedBase("Spring Open"))

	if err := e.Local().SetBaseName("Summer Open"); err != nil {
		t.Fatalf("SetBaseName returned error: %v", err)
	}

	if !e.IsChanged() {
		t.Fatal("editor should detect the local rename")
	}
	diff := e.DiffBase()
	if diff == nil || diff.Name != "Summer Open" {
		t.Fatalf("DiffBase = %+v, want the renamed base", diff)
	}
}

func TestEditorRevertComesBackClean(t *testing.T) {
	e := NewEditor()
	e.SetBase(persistedBase("Spring Open"))

	if err := e.Local().SetBaseName("Summer Open"); err != nil {
		t.Fatalf("SetBaseName returned error: %v", err)
	}
	if err := e.Local().SetBaseName("Spring Open"); err != nil {
		t.Fatalf("SetBaseName returned error: %v", err)
	}

	if e.IsChanged() {
		t.Fatal("reverting the edit should leave the editor clean")
	}
}

func TestEditorCleanAfterResync(t *testing.T) {
	e := NewEditor()
	e.SetBase(persistedBase("Spring Open"))
	if err := e.Local().SetBaseName("Summer Open"); err != nil {
		t.Fatalf("SetBaseName returned error: %v", err)
	}

	// simulate a successful save: the persisted result comes back through
	// the editor's own setter
	saved, _ := e.Base()
	saved.Identity = domain.PersistedIdentity(mustID(t, saved.Identity), 2)
	e.SetBase(saved)

	if e.IsChanged() {
		t.Fatal("editor should be clean after the saved value is re-applied")
	}
}

func TestEditorNewBaseResetsAndReturnsPreviousOrigin(t *testing.T) {
	e := NewEditor()
	origin := persistedBase("Spring Open")
	e.SetBase(origin)

	prev := e.NewBase(uuid.New())
	if prev == nil || *prev != origin {
		t.Fatalf("NewBase returned %+v, want the abandoned origin base", prev)
	}
	if got := e.State(); got != EditorStateNew {
		t.Fatalf("State() after NewBase = %v, want EditorStateNew", got)
	}
	if !e.IsChanged() {
		t.Fatal("a freshly minted base is unsaved and must register as changed")
	}
	base, ok := e.Base()
	if !ok {
		t.Fatal("NewBase should mint a local base")
	}
	if base.Identity.State() != domain.IdentityProvisional {
		t.Fatalf("minted base identity state = %v, want provisional", base.Identity.State())
	}
}

func TestEditorNewStageReusesOriginStage(t *testing.T) {
	e := NewEditor()
	base := persistedBase("Spring Open")
	e.SetBase(base)

	baseID, _ := base.Identity.ID()
	stage := domain.NewStage(domain.PersistedIdentity(uuid.New(), 1))
	stage.TournamentID = baseID
	stage.Number = 1
	if err := e.SetStage(stage); err != nil {
		t.Fatalf("SetStage returned error: %v", err)
	}
	// drop the local link but keep origin intact
	stageID, _ := stage.Identity.ID()
	e.Local().ClearStage(stageID)

	if err := e.NewStage(1); err != nil {
		t.Fatalf("NewStage returned error: %v", err)
	}
	got, ok := e.ActiveStage()
	if !ok || got != stage {
		t.Fatalf("ActiveStage = %+v, %v; want the origin stage with its persisted identity", got, ok)
	}
}

func TestEditorNewStageMintsWhenOriginHasNone(t *testing.T) {
	e := NewEditor()
	e.SetBase(persistedBase("Spring Open"))

	if err := e.NewStage(0); err != nil {
		t.Fatalf("NewStage returned error: %v", err)
	}
	stage, ok := e.ActiveStage()
	if !ok {
		t.Fatal("NewStage should set the active stage")
	}
	if stage.Identity.State() != domain.IdentityProvisional {
		t.Fatalf("minted stage identity state = %v, want provisional", stage.Identity.State())
	}
	if !e.IsChanged() {
		t.Fatal("a minted stage is unsaved and must register as changed")
	}
	if diff := e.DiffStages(); len(diff) != 1 || diff[0] != stage {
		t.Fatalf("DiffStages = %+v, want exactly the minted stage", diff)
	}
}

func TestEditorNewStageRequiresBase(t *testing.T) {
	e := NewEditor()
	if err := e.NewStage(0); err == nil {
		t.Fatal("NewStage without a base should fail")
	}
}

func TestEditorSetStageReplacesConflictingLocal(t *testing.T) {
	e := NewEditor()
	base := persistedBase("Spring Open")
	e.SetBase(base)

	// a provisional local stage occupies position 0
	if err := e.NewStage(0); err != nil {
		t.Fatalf("NewStage returned error: %v", err)
	}
	local, _ := e.ActiveStage()

	// the authoritative persisted stage arrives at the same position
	baseID, _ := base.Identity.ID()
	persisted := domain.NewStage(domain.PersistedIdentity(uuid.New(), 1))
	persisted.TournamentID = baseID
	persisted.Number = 0
	if err := e.SetStage(persisted); err != nil {
		t.Fatalf("SetStage returned error: %v", err)
	}

	got, ok := e.Local().StageByNumber(0)
	if !ok || got != persisted {
		t.Fatalf("StageByNumber(0) = %+v, %v; want the persisted stage", got, ok)
	}
	localID, _ := local.Identity.ID()
	if _, found := e.Local().StageByID(localID); found {
		t.Fatal("the displaced provisional stage should be cleared")
	}
}

func TestEditorValidateUsesLocal(t *testing.T) {
	e := NewEditor()
	e.SetBase(persistedBase("Spring Open"))
	if err := e.Local().SetBaseEntrantCount(0); err != nil {
		t.Fatalf("SetBaseEntrantCount returned error: %v", err)
	}

	if errs := e.Validate(); len(errs) == 0 {
		t.Fatal("Validate should report the broken local edit")
	}
}

func mustID(t *testing.T, identity domain.Identity) uuid.UUID {
	t.Helper()
	id, ok := identity.ID()
	if !ok {
		t.Fatal("identity has no id")
	}
	return id
}
