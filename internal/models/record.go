package models

import "time"

// ItemRecord is a snapshot of one catalog movie as returned by the provider
type ItemRecord struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	ReleaseDate *time.Time `json:"release_date,omitempty"` // nil when unknown

	Cast          []CastMember   `json:"cast"`
	Crew          []CrewMember   `json:"crew"`
	Categories    []Category     `json:"categories"`
	Organizations []Organization `json:"organizations"`
	Collection    *Collection    `json:"collection,omitempty"`

	// Zero means unknown for money fields
	Budget  int64 `json:"budget"`
	Revenue int64 `json:"revenue"`

	Runtime *int   `json:"runtime,omitempty"` // minutes, nil when unknown
	Tagline string `json:"tagline,omitempty"`
	Poster  string `json:"poster,omitempty"`
}

// CastMember is keyed by PersonID
type CastMember struct {
	PersonID  int    `json:"person_id"`
	Name      string `json:"name"`
	Character string `json:"character"`
}

// CrewMember is keyed by (PersonID, Job); one person may hold several jobs
type CrewMember struct {
	PersonID int    `json:"person_id"`
	Name     string `json:"name"`
	Job      string `json:"job"`
}

// Category is a genre tag
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Organization is a production company
type Organization struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Collection is the franchise a movie belongs to
type Collection struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Year returns the release year, or nil when the release date is unknown
func (r *ItemRecord) Year() *int {
	if r == nil || r.ReleaseDate == nil {
		return nil
	}
	year := r.ReleaseDate.Year()
	return &year
}

// Candidate is a lightweight search result used for autocomplete
type Candidate struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date,omitempty"`
	Poster      string `json:"poster,omitempty"`
}
