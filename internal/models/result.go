package models

// NumericComparison describes how a guessed value relates to the target's.
// An empty Hint means nothing should be displayed.
type NumericComparison struct {
	Matched    bool    `json:"matched"`
	Difference float64 `json:"difference"`
	Hint       string  `json:"hint"`
}

// GuessResult is produced once per submitted guess and never mutated
type GuessResult struct {
	Correct bool        `json:"correct"`
	Guess   *ItemRecord `json:"guess"`

	SharedCast          []CastMember   `json:"shared_cast"`
	SharedCrew          []CrewMember   `json:"shared_crew"`
	SharedCategories    []Category     `json:"shared_categories"`
	SharedOrganizations []Organization `json:"shared_organizations"`
	SameCollection      bool           `json:"same_collection"`

	ReleaseYear NumericComparison `json:"release_year"`
	Budget      NumericComparison `json:"budget"`
	Revenue     NumericComparison `json:"revenue"`
	Runtime     NumericComparison `json:"runtime"`
}
