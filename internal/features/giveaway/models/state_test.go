package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetBoostClamped(t *testing.T) {
	state := NewState()

	state.SetBoost("u", 100)
	assert.Equal(t, MaxBoost, state.Boost["u"])

	state.SetBoost("u", -5)
	assert.Equal(t, 0, state.Boost["u"])

	state.SetBoost("u", 2)
	assert.Equal(t, 2, state.Boost["u"])
}

func TestSetWeightLastValueWins(t *testing.T) {
	state := NewState()

	state.SetWeight("u", 5)
	state.SetWeight("u", 2)
	assert.Equal(t, 2, state.Weights["u"], "weights replace, they do not accumulate")
}

func TestMultiplicity(t *testing.T) {
	state := NewState()

	assert.Equal(t, 1, state.Multiplicity("unknown"))

	state.SetWeight("u", 4)
	state.SetBoost("u", 2)
	assert.Equal(t, 7, state.Multiplicity("u"))

	// Negative stored weights never push the multiplicity below 1.
	state.SetWeight("v", -10)
	assert.Equal(t, 1, state.Multiplicity("v"))
}

func TestRecordWinnerOverwrites(t *testing.T) {
	state := NewState()

	_, ok := state.LastWinnerOf("g")
	assert.False(t, ok)

	state.RecordWinner("g", "alice")
	state.RecordWinner("g", "bob")

	last, ok := state.LastWinnerOf("g")
	require.True(t, ok)
	assert.Equal(t, "bob", last)
}

func TestNormalizeFillsMissingMappings(t *testing.T) {
	var state State
	require.NoError(t, json.Unmarshal([]byte(`{"weights":{"u":3}}`), &state))

	state.Normalize()

	assert.NotNil(t, state.Giveaways)
	assert.NotNil(t, state.Completed)
	assert.NotNil(t, state.LastWinner)
	assert.NotNil(t, state.Boost)
	assert.Equal(t, 3, state.Weights["u"])
}

func TestGiveawayHasEnded(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	giveaway := Giveaway{End: now.Unix()}

	assert.True(t, giveaway.HasEnded(now), "expiry is inclusive")
	assert.True(t, giveaway.HasEnded(now.Add(time.Second)))
	assert.False(t, giveaway.HasEnded(now.Add(-time.Second)))
}
