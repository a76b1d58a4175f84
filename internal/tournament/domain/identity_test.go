package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestIdentityStates(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name        string
		identity    Identity
		wantState   IdentityState
		wantID      bool
		wantVersion int64
		hasVersion  bool
	}{
		{
			name:      "unassigned",
			identity:  UnassignedIdentity(),
			wantState: IdentityUnassigned,
		},
		{
			name:      "zero value is unassigned",
			identity:  Identity{},
			wantState: IdentityUnassigned,
		},
		{
			name:      "provisional",
			identity:  ProvisionalIdentity(id),
			wantState: IdentityProvisional,
			wantID:    true,
		},
		{
			name:        "persisted",
			identity:    PersistedIdentity(id, 3),
			wantState:   IdentityPersisted,
			wantID:      true,
			wantVersion: 3,
			hasVersion:  true,
		},
		{
			name:      "provisional with nil id collapses to unassigned",
			identity:  ProvisionalIdentity(uuid.Nil),
			wantState: IdentityUnassigned,
		},
		{
			name:      "persisted with zero version collapses to unassigned",
			identity:  PersistedIdentity(id, 0),
			wantState: IdentityUnassigned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.identity.State(); got != tt.wantState {
				t.Fatalf("State() = %v, want %v", got, tt.wantState)
			}
			gotID, ok := tt.identity.ID()
			if ok != tt.wantID {
				t.Fatalf("ID() ok = %v, want %v", ok, tt.wantID)
			}
			if tt.wantID && gotID != id {
				t.Fatalf("ID() = %v, want %v", gotID, id)
			}
			version, ok := tt.identity.Version()
			if ok != tt.hasVersion {
				t.Fatalf("Version() ok = %v, want %v", ok, tt.hasVersion)
			}
			if version != tt.wantVersion {
				t.Fatalf("Version() = %d, want %d", version, tt.wantVersion)
			}
		})
	}
}

func TestIdentityComparable(t *testing.T) {
	id := uuid.New()
	if ProvisionalIdentity(id) != ProvisionalIdentity(id) {
		t.Fatal("identical provisional identities should compare equal")
	}
	if PersistedIdentity(id, 1) == PersistedIdentity(id, 2) {
		t.Fatal("identities with different versions should not compare equal")
	}
	if ProvisionalIdentity(id) == PersistedIdentity(id, 1) {
		t.Fatal("provisional and persisted identities should not compare equal")
	}
}
