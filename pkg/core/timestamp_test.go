package core_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/keep/pkg/core"
)

func TestTimestamp_JSON(t *testing.T) {
	ts := core.NewTimestamp(time.Date(2024, 3, 9, 10, 11, 12, 345678900, time.UTC))

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-09T10:11:12.345Z"`, string(data))

	var back core.Timestamp
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, ts.Equal(back.Time))
}

func TestTimestamp_LenientLayouts(t *testing.T) {
	for _, in := range []string{
		`"2024-03-09T10:11:12.345Z"`,
		`"2024-03-09T10:11:12+00:00"`,
		`"2024-03-09T10:11:12.345678"`,
		`"2024-03-09T10:11:12"`,
	} {
		var ts core.Timestamp
		require.NoError(t, json.Unmarshal([]byte(in), &ts), in)
		assert.Equal(t, 2024, ts.Year(), in)
	}

	var ts core.Timestamp
	assert.ErrorIs(t, json.Unmarshal([]byte(`"yesterday"`), &ts), core.ErrValidation)
}

func TestNote_NullReminderRoundTrip(t *testing.T) {
	in := `{"id":"1","title":"t","content":"","color":"default","labels":[],"pinned":false,"archived":false,"inTrash":false,"reminder":null,"createdAt":"2024-01-01T00:00:00.000Z","updatedAt":"2024-01-01T00:00:00.000Z"}`
	var n core.Note
	require.NoError(t, json.Unmarshal([]byte(in), &n))
	assert.Nil(t, n.Reminder)

	out, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}
