package domain

import (
	"testing"

	"github.com/google/uuid"
)

func validBase() Base {
	base := NewBase(ProvisionalIdentity(uuid.New()))
	base.Name = "Spring Open"
	base.EntrantCount = 8
	return base
}

func TestBaseValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Base)
		wantErrs  int
		wantCode  string
		wantField string
	}{
		{
			name:   "valid defaults",
			mutate: func(b *Base) {},
		},
		{
			name:      "empty name",
			mutate:    func(b *Base) { b.Name = "" },
			wantErrs:  1,
			wantCode:  CodeRequired,
			wantField: "name",
		},
		{
			name:      "whitespace-only name",
			mutate:    func(b *Base) { b.Name = "   \t " },
			wantErrs:  1,
			wantCode:  CodeRequired,
			wantField: "name",
		},
		{
			name:      "too few entrants",
			mutate:    func(b *Base) { b.EntrantCount = 1 },
			wantErrs:  1,
			wantCode:  CodeOutOfRange,
			wantField: "entrant_count",
		},
		{
			name:      "swiss with zero rounds",
			mutate:    func(b *Base) { b.Mode = SwissMode(0) },
			wantErrs:  1,
			wantCode:  CodeOutOfRange,
			wantField: "mode.round_count",
		},
		{
			name:   "swiss with rounds",
			mutate: func(b *Base) { b.Mode = SwissMode(5) },
		},
		{
			name:      "active stage beyond single stage mode",
			mutate:    func(b *Base) { b.State = ActiveState(1) },
			wantErrs:  1,
			wantCode:  CodeOutOfRange,
			wantField: "state",
		},
		{
			name: "active stage within swiss rounds",
			mutate: func(b *Base) {
				b.Mode = SwissMode(5)
				b.State = ActiveState(4)
			},
		},
		{
			name: "active stage beyond swiss rounds",
			mutate: func(b *Base) {
				b.Mode = SwissMode(3)
				b.State = ActiveState(3)
			},
			wantErrs:  1,
			wantCode:  CodeOutOfRange,
			wantField: "state",
		},
		{
			name: "every field wrong yields every error",
			mutate: func(b *Base) {
				b.Name = ""
				b.EntrantCount = 0
				b.Mode = SwissMode(0)
			},
			wantErrs: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := validBase()
			tt.mutate(&base)
			errs := base.Validate()
			if len(errs) != tt.wantErrs {
				t.Fatalf("Validate() returned %d error(s), want %d: %v", len(errs), tt.wantErrs, errs)
			}
			if tt.wantErrs == 1 {
				if errs[0].Code != tt.wantCode {
					t.Fatalf("Validate() code = %q, want %q", errs[0].Code, tt.wantCode)
				}
				if errs[0].Field != tt.wantField {
					t.Fatalf("Validate() field = %q, want %q", errs[0].Field, tt.wantField)
				}
			}
		})
	}
}

func TestBaseValidateScopesErrorsToID(t *testing.T) {
	base := validBase()
	base.Name = ""
	id, _ := base.Identity.ID()

	errs := base.Validate()
	if len(errs) != 1 {
		t.Fatalf("Validate() returned %d error(s), want 1", len(errs))
	}
	if errs[0].ObjectID != id {
		t.Fatalf("Validate() object id = %v, want %v", errs[0].ObjectID, id)
	}
}

func TestBaseSetNameNormalizes(t *testing.T) {
	base := validBase()
	base.SetName("  Spring   Open\t2026 ")
	if base.Name != "Spring Open 2026" {
		t.Fatalf("SetName() = %q, want %q", base.Name, "Spring Open 2026")
	}
}

func TestModeStageCount(t *testing.T) {
	tests := []struct {
		mode Mode
		want int
	}{
		{Mode{Kind: ModeSingleStage}, 1},
		{Mode{Kind: ModePoolAndFinal}, 2},
		{Mode{Kind: ModeTwoPoolsAndFinal}, 3},
		{SwissMode(7), 1},
	}
	for _, tt := range tests {
		if got := tt.mode.StageCount(); got != tt.want {
			t.Fatalf("StageCount(%s) = %d, want %d", tt.mode, got, tt.want)
		}
	}
}

func TestModeActiveStageLimit(t *testing.T) {
	if got := SwissMode(7).ActiveStageLimit(); got != 7 {
		t.Fatalf("ActiveStageLimit() = %d, want 7", got)
	}
	if got := (Mode{Kind: ModeTwoPoolsAndFinal}).ActiveStageLimit(); got != 3 {
		t.Fatalf("ActiveStageLimit() = %d, want 3", got)
	}
}

func TestModeRoundTrip(t *testing.T) {
	modes := []Mode{
		{Kind: ModeSingleStage},
		{Kind: ModePoolAndFinal},
		{Kind: ModeTwoPoolsAndFinal},
		SwissMode(9),
	}
	for _, mode := range modes {
		if got := ParseMode(mode.String(), mode.RoundCount); got != mode {
			t.Fatalf("ParseMode(%q, %d) = %v, want %v", mode.String(), mode.RoundCount, got, mode)
		}
	}
}

func TestStateRoundTrip(t *testing.T) {
	states := []State{
		{Kind: StateDraft},
		{Kind: StatePublished},
		ActiveState(2),
		{Kind: StateFinished},
	}
	for _, state := range states {
		if got := ParseState(state.String(), state.ActiveStage); got != state {
			t.Fatalf("ParseState(%q, %d) = %v, want %v", state.String(), state.ActiveStage, got, state)
		}
	}
}
