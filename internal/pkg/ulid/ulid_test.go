package ulid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_UniqueAndValid(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New()
		assert.True(t, IsValid(id))
		assert.False(t, seen[id], "duplicate ULID generated")
		seen[id] = true
	}
}

func TestTime_EmbedsCreationTime(t *testing.T) {
	before := time.Now()
	id := New()

	ts, err := Time(id)
	require.NoError(t, err)
	assert.WithinDuration(t, before, ts, time.Second)
}

func TestIsValid_RejectsGarbage(t *testing.T) {
	assert.False(t, IsValid("not-a-ulid"))
	assert.False(t, IsValid(""))
}
