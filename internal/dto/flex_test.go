package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexInt64AcceptsNumberAndString(t *testing.T) {
	var payload struct {
		SprintID FlexInt64 `json:"sprint_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"sprint_id": 4}`), &payload))
	assert.True(t, payload.SprintID.Valid)
	assert.Equal(t, int64(4), payload.SprintID.Value)

	payload.SprintID = FlexInt64{}
	require.NoError(t, json.Unmarshal([]byte(`{"sprint_id": "17"}`), &payload))
	assert.True(t, payload.SprintID.Valid)
	assert.Equal(t, int64(17), payload.SprintID.Value)
}

func TestFlexInt64JunkNormalizesToNull(t *testing.T) {
	for _, raw := range []string{`null`, `""`, `"  "`, `"abc"`, `true`} {
		var f FlexInt64
		require.NoError(t, json.Unmarshal([]byte(raw), &f), raw)
		assert.False(t, f.Valid, raw)
		assert.Nil(t, f.Ptr(), raw)
	}
}

func TestFechaAcceptsDateAndTimestamp(t *testing.T) {
	var f Fecha
	require.NoError(t, json.Unmarshal([]byte(`"2026-03-15"`), &f))
	require.True(t, f.Valid)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), f.Time)

	f = Fecha{}
	require.NoError(t, json.Unmarshal([]byte(`"2026-03-15T10:30:00Z"`), &f))
	require.True(t, f.Valid)
	assert.Equal(t, 10, f.Time.Hour())
}

func TestFechaBlankIsNull(t *testing.T) {
	for _, raw := range []string{`null`, `""`, `"   "`} {
		var f Fecha
		require.NoError(t, json.Unmarshal([]byte(raw), &f), raw)
		assert.False(t, f.Valid, raw)
	}
}

func TestFechaGarbageIsError(t *testing.T) {
	var f Fecha
	assert.Error(t, json.Unmarshal([]byte(`"not-a-date"`), &f))
}

func TestFechaMarshalsAsDate(t *testing.T) {
	f := Fecha{Valid: true, Time: time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)}
	raw, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-15"`, string(raw))
}
