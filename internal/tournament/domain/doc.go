// Package domain defines the tournament entity types: the tournament base,
// its stages and groups, the tri-state identity descriptor shared by all of
// them, and the field-scoped validation errors they produce.
//
// Entities are plain value types comparable with ==. Validity of a dependent
// entity (stage, group) is always computed against its resolved parent at
// call time, never cached on the entity itself.
package domain
