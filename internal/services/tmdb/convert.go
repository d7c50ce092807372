package tmdb

import (
	"fmt"
	"strings"

	"github.com/amaumene/reeldle/internal/models"
	"github.com/amaumene/reeldle/internal/utils"
)

type namedEntity struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// movieDetails is the raw /movie/{id}?append_to_response=credits payload
type movieDetails struct {
	ID                  int           `json:"id"`
	Title               string        `json:"title"`
	ReleaseDate         string        `json:"release_date"`
	Runtime             *int          `json:"runtime"`
	Budget              int64         `json:"budget"`
	Revenue             int64         `json:"revenue"`
	Tagline             string        `json:"tagline"`
	PosterPath          string        `json:"poster_path"`
	Genres              []namedEntity `json:"genres"`
	ProductionCompanies []namedEntity `json:"production_companies"`
	BelongsToCollection *namedEntity  `json:"belongs_to_collection"`
	Credits             struct {
		Cast []struct {
			ID        int    `json:"id"`
			Name      string `json:"name"`
			Character string `json:"character"`
		} `json:"cast"`
		Crew []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
			Job  string `json:"job"`
		} `json:"crew"`
	} `json:"credits"`
}

// searchResponse is the raw /search/movie payload
type searchResponse struct {
	Results []struct {
		ID          int    `json:"id"`
		Title       string `json:"title"`
		ReleaseDate string `json:"release_date"`
		PosterPath  string `json:"poster_path"`
	} `json:"results"`
}

// toRecord validates a raw payload and converts it into an ItemRecord.
// Missing optional fields become unknown; a missing id or title is rejected.
func toRecord(raw *movieDetails) (*models.ItemRecord, error) {
	if raw.ID <= 0 {
		return nil, fmt.Errorf("%w: missing id", models.ErrInvalidRecord)
	}
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: record %d has no title", models.ErrInvalidRecord, raw.ID)
	}

	record := &models.ItemRecord{
		ID:            raw.ID,
		Title:         title,
		ReleaseDate:   utils.ParseReleaseDate(raw.ReleaseDate),
		Cast:          []models.CastMember{},
		Crew:          []models.CrewMember{},
		Categories:    []models.Category{},
		Organizations: []models.Organization{},
		Budget:        positive(raw.Budget),
		Revenue:       positive(raw.Revenue),
		Tagline:       strings.TrimSpace(raw.Tagline),
		Poster:        posterURL(raw.PosterPath),
	}

	if raw.Runtime != nil && *raw.Runtime > 0 {
		runtime := *raw.Runtime
		record.Runtime = &runtime
	}

	if c := raw.BelongsToCollection; c != nil && c.ID > 0 {
		record.Collection = &models.Collection{ID: c.ID, Name: c.Name}
	}

	castSeen := make(map[int]struct{})
	for _, c := range raw.Credits.Cast {
		if c.ID <= 0 {
			continue
		}
		if _, dup := castSeen[c.ID]; dup {
			continue
		}
		castSeen[c.ID] = struct{}{}
		record.Cast = append(record.Cast, models.CastMember{PersonID: c.ID, Name: c.Name, Character: c.Character})
	}

	type crewKey struct {
		id  int
		job string
	}
	crewSeen := make(map[crewKey]struct{})
	for _, c := range raw.Credits.Crew {
		if c.ID <= 0 {
			continue
		}
		key := crewKey{c.ID, c.Job}
		if _, dup := crewSeen[key]; dup {
			continue
		}
		crewSeen[key] = struct{}{}
		record.Crew = append(record.Crew, models.CrewMember{PersonID: c.ID, Name: c.Name, Job: c.Job})
	}

	genreSeen := make(map[int]struct{})
	for _, g := range raw.Genres {
		if _, dup := genreSeen[g.ID]; dup || g.ID <= 0 {
			continue
		}
		genreSeen[g.ID] = struct{}{}
		record.Categories = append(record.Categories, models.Category{ID: g.ID, Name: g.Name})
	}

	orgSeen := make(map[int]struct{})
	for _, o := range raw.ProductionCompanies {
		if _, dup := orgSeen[o.ID]; dup || o.ID <= 0 {
			continue
		}
		orgSeen[o.ID] = struct{}{}
		record.Organizations = append(record.Organizations, models.Organization{ID: o.ID, Name: o.Name})
	}

	return record, nil
}

// positive treats zero and negative amounts as unknown
func positive(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
