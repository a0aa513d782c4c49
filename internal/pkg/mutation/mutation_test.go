package mutation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder(allowed []string, at time.Time) *Builder {
	b := NewBuilder(allowed)
	b.now = func() time.Time { return at }
	return b
}

func TestBuildFiltersAndOrders(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := newTestBuilder([]string{"phone", "city", "state"}, at)

	updates, err := b.Build(map[string]interface{}{
		"state":         "CA",
		"phone":         "555-0100",
		"role":          "Admin", // not allow-listed, must be dropped
		"password_hash": "sneaky",
	})
	require.NoError(t, err)

	// Allow-list order, audit field last
	require.Len(t, updates, 3)
	assert.Equal(t, FieldUpdate{Field: "phone", Value: "555-0100"}, updates[0])
	assert.Equal(t, FieldUpdate{Field: "state", Value: "CA"}, updates[1])
	assert.Equal(t, FieldUpdate{Field: "updated_at", Value: at}, updates[2])
}

func TestBuildNoValidFields(t *testing.T) {
	b := NewBuilder([]string{"phone"})

	tests := []struct {
		name     string
		proposed map[string]interface{}
	}{
		{"empty proposal", map[string]interface{}{}},
		{"nil proposal", nil},
		{"only unlisted fields", map[string]interface{}{"role": "Admin", "mrn": "MRN-260001"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(tt.proposed)
			assert.ErrorIs(t, err, ErrNoFields)
		})
	}
}

func TestBuildKeepsNilValues(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := newTestBuilder([]string{"phone"}, at)

	// A present key with a nil value is an explicit proposal to clear
	updates, err := b.Build(map[string]interface{}{"phone": nil})
	require.NoError(t, err)
	require.Len(t, updates, 2)
	assert.Equal(t, "phone", updates[0].Field)
	assert.Nil(t, updates[0].Value)
}

func TestToMap(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	updates := []FieldUpdate{
		{Field: "city", Value: "Austin"},
		{Field: "updated_at", Value: at},
	}

	m := ToMap(updates)
	assert.Equal(t, map[string]interface{}{
		"city":       "Austin",
		"updated_at": at,
	}, m)
}
