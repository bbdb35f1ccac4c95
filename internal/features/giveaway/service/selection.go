package service

import "math/rand"

type poolEntry struct {
	userID string
	weight int
}

// selectWinners draws up to count distinct winners from the participant set
// for the given guild. Draw probability is proportional to each user's
// fairness multiplicity (1 + weight + boost); the guild's last primary
// winner is excluded unless the exclusion would empty the pool, in which
// case it is waived and the draw falls back to the unfiltered participant
// set at one entry per user. The first selected user becomes the guild's new
// last winner. Caller must hold the state lock.
func (s *Service) selectWinners(participants []string, count int, guildID string) []string {
	if len(participants) == 0 || count < 1 {
		return nil
	}

	// Participants are a set; tolerate duplicated IDs from the gateway.
	seen := make(map[string]bool, len(participants))
	unique := make([]string, 0, len(participants))
	for _, userID := range participants {
		if !seen[userID] {
			seen[userID] = true
			unique = append(unique, userID)
		}
	}

	excluded, _ := s.state.LastWinnerOf(guildID)

	pool := make([]poolEntry, 0, len(unique))
	for _, userID := range unique {
		if userID == excluded {
			continue
		}
		pool = append(pool, poolEntry{userID: userID, weight: s.state.Multiplicity(userID)})
	}

	// Exclusion waiver: when the last winner is the only participant left,
	// draw uniformly from the unfiltered set instead of returning nothing.
	if len(pool) == 0 {
		for _, userID := range unique {
			pool = append(pool, poolEntry{userID: userID, weight: 1})
		}
	}

	winners := make([]string, 0, count)
	selected := make(map[string]bool, count)

	for len(winners) < count {
		totalWeight := 0
		for _, entry := range pool {
			if !selected[entry.userID] {
				totalWeight += entry.weight
			}
		}
		if totalWeight == 0 {
			break
		}

		winningTicket := rand.Intn(totalWeight) + 1
		currentWeight := 0
		for _, entry := range pool {
			if selected[entry.userID] {
				continue
			}
			currentWeight += entry.weight
			if currentWeight >= winningTicket {
				winners = append(winners, entry.userID)
				selected[entry.userID] = true
				break
			}
		}
	}

	if len(winners) > 0 {
		s.state.RecordWinner(guildID, winners[0])
	}
	return winners
}
