package tmdb

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/amaumene/reeldle/internal/models"
)

func TestSearch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("query") != "matrix" {
			t.Errorf("Unexpected query %q", r.URL.Query().Get("query"))
		}
		io.WriteString(w, `{"results": [
			{"id": 603, "title": "The Matrix", "release_date": "1999-03-30", "poster_path": "/a.jpg"},
			{"id": 0, "title": "Broken"},
			{"id": 604, "title": "The Matrix Reloaded", "release_date": "2003-05-15"}
		]}`)
	})

	candidates, err := client.Search(context.Background(), "matrix")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].ID != 603 || candidates[0].Poster != imageBaseURL+"/a.jpg" {
		t.Errorf("Unexpected first candidate %+v", candidates[0])
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("Empty query must not hit the API")
	})

	candidates, err := client.Search(context.Background(), "   ")
	if err != nil || len(candidates) != 0 {
		t.Errorf("Expected no candidates, got %v %v", candidates, err)
	}
}

func TestResolveTitleWithYearFallback(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/movie":
			if r.URL.Query().Get("year") == "1995" {
				io.WriteString(w, `{"results": []}`)
				return
			}
			io.WriteString(w, `{"results": [
				{"id": 1, "title": "Heat Wave", "release_date": "1990-01-01"},
				{"id": 949, "title": "Heat", "release_date": "1995-12-15"}
			]}`)
		case "/movie/949":
			io.WriteString(w, `{"id": 949, "title": "Heat", "release_date": "1995-12-15"}`)
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	record, err := client.ResolveTitle(context.Background(), "Heat (1995)")
	if err != nil {
		t.Fatalf("ResolveTitle failed: %v", err)
	}
	if record.ID != 949 {
		t.Errorf("Expected Heat (949), got %d", record.ID)
	}
}

func TestBestMatch(t *testing.T) {
	candidates := []models.Candidate{
		{ID: 1, Title: "Alien Resurrection", ReleaseDate: "1997-11-12"},
		{ID: 2, Title: "Aliens", ReleaseDate: "1986-07-18"},
		{ID: 3, Title: "alien", ReleaseDate: "2030-01-01"},
		{ID: 4, Title: "Alien", ReleaseDate: "1979-05-25"},
	}

	tests := []struct {
		name  string
		title string
		year  int
		want  int
	}{
		{"exact case-insensitive keeps order", "Alien", 0, 3},
		{"exact with year", "Alien", 1979, 4},
		{"closest by edit distance", "Alienz", 0, 2},
		{"accent folding", "Álien", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BestMatch(tt.title, tt.year, candidates)
			if !ok || got.ID != tt.want {
				t.Errorf("BestMatch(%q, %d) = %d, want %d", tt.title, tt.year, got.ID, tt.want)
			}
		})
	}

	if _, ok := BestMatch("Alien", 0, nil); ok {
		t.Error("Expected no match for empty candidates")
	}
}
