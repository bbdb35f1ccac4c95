package models

// MaxBoost caps the temporary per-user boost. The cap is enforced at write
// time; reads only guard against negative values.
const MaxBoost = 3

// State is the full persisted document: the active giveaway registry, the
// completed set kept for rerolls, and the fairness ledger. It is loaded once
// on startup and written back as a whole after every mutation.
type State struct {
	Giveaways  map[string]Giveaway `json:"giveaways"`
	Completed  map[string]Giveaway `json:"completed"`
	LastWinner map[string]string   `json:"last_winner"`
	Weights    map[string]int      `json:"weights"`
	Boost      map[string]int      `json:"boost"`
}

// NewState returns an empty document with all mappings initialized.
func NewState() *State {
	return &State{
		Giveaways:  make(map[string]Giveaway),
		Completed:  make(map[string]Giveaway),
		LastWinner: make(map[string]string),
		Weights:    make(map[string]int),
		Boost:      make(map[string]int),
	}
}

// Normalize fills in mappings that are missing from an older or hand-edited
// document so callers never have to nil-check.
func (s *State) Normalize() {
	if s.Giveaways == nil {
		s.Giveaways = make(map[string]Giveaway)
	}
	if s.Completed == nil {
		s.Completed = make(map[string]Giveaway)
	}
	if s.LastWinner == nil {
		s.LastWinner = make(map[string]string)
	}
	if s.Weights == nil {
		s.Weights = make(map[string]int)
	}
	if s.Boost == nil {
		s.Boost = make(map[string]int)
	}
}

// SetWeight stores the user's persistent weight. The last explicit value
// wins; negative values are kept as given and clamped when read.
func (s *State) SetWeight(userID string, amount int) {
	s.Weights[userID] = amount
}

// SetBoost stores the user's temporary boost clamped to [0, MaxBoost].
func (s *State) SetBoost(userID string, amount int) {
	if amount > MaxBoost {
		amount = MaxBoost
	}
	if amount < 0 {
		amount = 0
	}
	s.Boost[userID] = amount
}

// RecordWinner overwrites the guild's last primary winner.
func (s *State) RecordWinner(guildID, userID string) {
	s.LastWinner[guildID] = userID
}

// LastWinnerOf returns the guild's most recent primary winner, if any.
func (s *State) LastWinnerOf(guildID string) (string, bool) {
	userID, ok := s.LastWinner[guildID]
	return userID, ok
}

// Multiplicity returns how many entries the user contributes to a weighted
// pool: 1 + weight + boost, with each contribution clamped to be
// non-negative. The result is always at least 1.
func (s *State) Multiplicity(userID string) int {
	m := 1
	if w := s.Weights[userID]; w > 0 {
		m += w
	}
	if b := s.Boost[userID]; b > 0 {
		m += b
	}
	return m
}
