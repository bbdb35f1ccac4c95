package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-bot-backend/internal/features/giveaway/models"
)

func newSelectionService() *Service {
	return &Service{
		state:    models.NewState(),
		inFlight: make(map[string]bool),
	}
}

func TestSelectWinnersEmptyParticipants(t *testing.T) {
	svc := newSelectionService()

	assert.Empty(t, svc.selectWinners(nil, 3, "guild"))
	assert.Empty(t, svc.selectWinners([]string{}, 3, "guild"))
}

func TestSelectWinnersDistinct(t *testing.T) {
	svc := newSelectionService()
	participants := []string{"a", "b", "c", "d", "e"}

	winners := svc.selectWinners(participants, 3, "guild")
	require.Len(t, winners, 3)

	seen := make(map[string]bool)
	for _, winner := range winners {
		assert.False(t, seen[winner], "winner %s drawn twice", winner)
		seen[winner] = true
		assert.Contains(t, participants, winner)
	}
}

func TestSelectWinnersCappedToPoolSize(t *testing.T) {
	svc := newSelectionService()
	svc.state.SetWeight("a", 5)

	winners := svc.selectWinners([]string{"a", "b"}, 10, "guild")
	require.Len(t, winners, 2, "the draw caps at the distinct-identity count even with duplicated pool entries")
	assert.ElementsMatch(t, []string{"a", "b"}, winners)
}

func TestSelectWinnersRecordsFirstAsLastWinner(t *testing.T) {
	svc := newSelectionService()

	winners := svc.selectWinners([]string{"a", "b", "c"}, 2, "guild")
	require.Len(t, winners, 2)

	last, ok := svc.state.LastWinnerOf("guild")
	require.True(t, ok)
	assert.Equal(t, winners[0], last)
}

func TestSelectWinnersExcludesLastWinner(t *testing.T) {
	svc := newSelectionService()

	for i := 0; i < 50; i++ {
		svc.state.RecordWinner("guild", "a")
		winners := svc.selectWinners([]string{"a", "b", "c"}, 2, "guild")
		require.Len(t, winners, 2)
		assert.NotContains(t, winners, "a")
	}
}

func TestSelectWinnersExclusionWaived(t *testing.T) {
	svc := newSelectionService()
	svc.state.RecordWinner("guild", "a")

	winners := svc.selectWinners([]string{"a"}, 1, "guild")
	require.Equal(t, []string{"a"}, winners, "the exclusion is waived when it would empty the pool")

	last, ok := svc.state.LastWinnerOf("guild")
	require.True(t, ok)
	assert.Equal(t, "a", last)
}

func TestSelectWinnersExclusionScopedToGuild(t *testing.T) {
	svc := newSelectionService()
	svc.state.RecordWinner("other-guild", "a")

	counts := map[string]int{}
	for i := 0; i < 200; i++ {
		svc.state.LastWinner = map[string]string{"other-guild": "a"}
		winners := svc.selectWinners([]string{"a", "b"}, 2, "guild")
		for _, winner := range winners {
			counts[winner]++
		}
	}
	assert.Positive(t, counts["a"], "a last-winner record in another guild must not exclude the user")
}

func TestSelectWinnersDeduplicatesParticipants(t *testing.T) {
	svc := newSelectionService()

	winners := svc.selectWinners([]string{"a", "a", "a", "b"}, 3, "guild")
	require.Len(t, winners, 2)
	assert.ElementsMatch(t, []string{"a", "b"}, winners)
}

func TestSelectWinnersWeightBias(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test")
	}

	svc := newSelectionService()
	svc.state.SetWeight("a", 9) // multiplicity 10 vs 1

	const trials = 20000
	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		// Clear the last-winner record so no exclusion skews the draw.
		svc.state.LastWinner = map[string]string{}
		winners := svc.selectWinners([]string{"a", "b"}, 1, "guild")
		require.Len(t, winners, 1)
		counts[winners[0]]++
	}

	require.Positive(t, counts["b"], "even the light participant should win sometimes")
	ratio := float64(counts["a"]) / float64(counts["b"])
	assert.Greater(t, ratio, 6.5, "expected roughly 10x bias, got %.2f", ratio)
	assert.Less(t, ratio, 15.0, "expected roughly 10x bias, got %.2f", ratio)
}

func TestSelectWinnersBoostBias(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test")
	}

	svc := newSelectionService()
	svc.state.SetBoost("a", 100) // capped to 3, multiplicity 4 vs 1

	const trials = 20000
	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		svc.state.LastWinner = map[string]string{}
		winners := svc.selectWinners([]string{"a", "b"}, 1, "guild")
		require.Len(t, winners, 1)
		counts[winners[0]]++
	}

	ratio := float64(counts["a"]) / float64(counts["b"])
	assert.Greater(t, ratio, 2.8, "expected roughly 4x bias, got %.2f", ratio)
	assert.Less(t, ratio, 5.6, "expected roughly 4x bias, got %.2f", ratio)
}

func TestSelectWinnersNegativeWeightClamped(t *testing.T) {
	svc := newSelectionService()
	svc.state.SetWeight("a", -10)

	// A negative stored weight must not produce a negative multiplicity.
	for i := 0; i < 50; i++ {
		winners := svc.selectWinners([]string{"a"}, 1, "guild")
		require.Equal(t, []string{"a"}, winners)
		svc.state.LastWinner = map[string]string{}
	}
}
