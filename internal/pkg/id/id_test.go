package id

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Unique(t *testing.T) {
	assert.NotEqual(t, New(), New())
}

func TestAt_EncodesTime(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	parsed, err := ulid.Parse(At(ts))
	require.NoError(t, err)
	assert.Equal(t, uint64(1700000000123), parsed.Time())
}

func TestAt_SortsByTime(t *testing.T) {
	earlier := At(time.UnixMilli(1000))
	later := At(time.UnixMilli(2000))
	assert.Less(t, earlier, later)
}
