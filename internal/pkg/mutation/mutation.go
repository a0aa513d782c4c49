// Package mutation builds safe partial-update instructions from
// request-supplied field proposals. The allow-list given to a Builder is
// the single place field names are authorized; anything else is dropped.
package mutation

import (
	"errors"
	"time"
)

// ErrNoFields is returned when nothing in the proposal survives the
// allow-list, so no vacuous update is ever emitted.
var ErrNoFields = errors.New("no valid fields to update")

// FieldUpdate is one (column, value) pair of an update instruction.
// Applying it to storage is the repository's job.
type FieldUpdate struct {
	Field string
	Value interface{}
}

// Builder filters proposed field changes against a fixed allow-list
type Builder struct {
	allowed []string
	now     func() time.Time
}

// NewBuilder creates a builder for the given allow-list. The list must be
// compile-time/config-time known; never build one from request input.
func NewBuilder(allowed []string) *Builder {
	return &Builder{
		allowed: allowed,
		now:     time.Now,
	}
}

// Build returns the ordered updates for fields present in both the
// allow-list and the proposal, with an updated_at audit field appended
// last. Order follows the allow-list, so output is deterministic.
func (b *Builder) Build(proposed map[string]interface{}) ([]FieldUpdate, error) {
	var updates []FieldUpdate
	for _, field := range b.allowed {
		value, ok := proposed[field]
		if !ok {
			continue
		}
		updates = append(updates, FieldUpdate{Field: field, Value: value})
	}

	if len(updates) == 0 {
		return nil, ErrNoFields
	}

	updates = append(updates, FieldUpdate{Field: "updated_at", Value: b.now()})
	return updates, nil
}

// ToMap converts updates to the map form GORM's Updates expects
func ToMap(updates []FieldUpdate) map[string]interface{} {
	m := make(map[string]interface{}, len(updates))
	for _, u := range updates {
		m[u.Field] = u.Value
	}
	return m
}
