package domain

import "github.com/google/uuid"

// IdentityState describes how far an entity identity has progressed toward
// being persisted.
type IdentityState int

const (
	// IdentityUnassigned indicates no id has been assigned yet.
	IdentityUnassigned IdentityState = iota
	// IdentityProvisional indicates an id was pre-allocated locally but the
	// entity has not been persisted yet.
	IdentityProvisional
	// IdentityPersisted indicates the entity exists in storage with a
	// monotonic version counter used for optimistic concurrency.
	IdentityPersisted
)

// Identity is the tri-state identity descriptor carried by every entity.
// The zero value is an unassigned identity. Identity is value-comparable so
// entities that embed it stay comparable with ==.
type Identity struct {
	state   IdentityState
	id      uuid.UUID
	version int64
}

// UnassignedIdentity returns an identity with no id.
func UnassignedIdentity() Identity {
	return Identity{}
}

// ProvisionalIdentity returns an identity with a pre-allocated id that has
// not been persisted. A nil id yields an unassigned identity.
func ProvisionalIdentity(id uuid.UUID) Identity {
	if id == uuid.Nil {
		return Identity{}
	}
	return Identity{state: IdentityProvisional, id: id}
}

// PersistedIdentity returns an identity for an entity stored under id with
// the given version counter. A nil id or a version below 1 yields an
// unassigned identity.
func PersistedIdentity(id uuid.UUID, version int64) Identity {
	if id == uuid.Nil || version < 1 {
		return Identity{}
	}
	return Identity{state: IdentityPersisted, id: id, version: version}
}

// State reports the identity state.
func (i Identity) State() IdentityState {
	return i.state
}

// ID returns the assigned id. The second return is false for unassigned
// identities.
func (i Identity) ID() (uuid.UUID, bool) {
	if i.state == IdentityUnassigned {
		return uuid.Nil, false
	}
	return i.id, true
}

// Version returns the persisted version counter. The second return is false
// unless the identity is persisted.
func (i Identity) Version() (int64, bool) {
	if i.state != IdentityPersisted {
		return 0, false
	}
	return i.version, true
}

// NewID generates a random v4 UUID for provisional identities.
func NewID() uuid.UUID {
	return uuid.New()
}
