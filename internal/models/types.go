package models

// Mode identifies which game a session belongs to
type Mode string

const (
	ModeDaily    Mode = "daily"
	ModePractice Mode = "practice"
)

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	return m == ModeDaily || m == ModePractice
}

// Status represents the current state of a session
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusGaveUp     Status = "gave_up"
)

// Qualitative hints attached to numeric comparisons
const (
	HintNewer   = "newer"
	HintOlder   = "older"
	HintLonger  = "longer"
	HintShorter = "shorter"
	HintHigher  = "higher"
	HintLower   = "lower"
	HintSimilar = "similar"

	HintMoreSuccessful = "more successful"
	HintLessSuccessful = "less successful"

	HintTargetUnknown = "no information available"
	HintGuessUnknown  = "information but guess has none"
)
