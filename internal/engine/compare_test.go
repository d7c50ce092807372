package engine

import (
	"testing"
	"time"

	"github.com/amaumene/reeldle/internal/models"
)

func intPtr(n int) *int { return &n }

func date(year int) *time.Time {
	d := time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC)
	return &d
}

func fullRecord() *models.ItemRecord {
	return &models.ItemRecord{
		ID:          603,
		Title:       "The Matrix",
		ReleaseDate: date(1999),
		Cast: []models.CastMember{
			{PersonID: 6384, Name: "Keanu Reeves", Character: "Neo"},
			{PersonID: 2975, Name: "Laurence Fishburne", Character: "Morpheus"},
		},
		Crew: []models.CrewMember{
			{PersonID: 9339, Name: "Lilly Wachowski", Job: "Director"},
			{PersonID: 9339, Name: "Lilly Wachowski", Job: "Screenplay"},
		},
		Categories:    []models.Category{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
		Organizations: []models.Organization{{ID: 79, Name: "Village Roadshow Pictures"}},
		Collection:    &models.Collection{ID: 2344, Name: "The Matrix Collection"},
		Budget:        63000000,
		Revenue:       463517383,
		Runtime:       intPtr(136),
		Tagline:       "Welcome to the Real World.",
	}
}

func TestCompareIdentical(t *testing.T) {
	x := fullRecord()
	result := Compare(x, x)

	if !result.Correct {
		t.Error("Expected identical record to be correct")
	}
	if len(result.SharedCast) != len(x.Cast) {
		t.Errorf("Expected %d shared cast, got %d", len(x.Cast), len(result.SharedCast))
	}
	if len(result.SharedCrew) != len(x.Crew) {
		t.Errorf("Expected %d shared crew, got %d", len(x.Crew), len(result.SharedCrew))
	}
	if len(result.SharedCategories) != len(x.Categories) {
		t.Errorf("Expected %d shared categories, got %d", len(x.Categories), len(result.SharedCategories))
	}
	if len(result.SharedOrganizations) != len(x.Organizations) {
		t.Errorf("Expected %d shared organizations, got %d", len(x.Organizations), len(result.SharedOrganizations))
	}
	if !result.SameCollection {
		t.Error("Expected same collection")
	}
	for name, cmp := range map[string]models.NumericComparison{
		"year":    result.ReleaseYear,
		"budget":  result.Budget,
		"revenue": result.Revenue,
		"runtime": result.Runtime,
	} {
		if !cmp.Matched || cmp.Difference != 0 {
			t.Errorf("Expected %s to match with zero difference, got %+v", name, cmp)
		}
	}
}

func TestCompareIdenticalWithoutCollection(t *testing.T) {
	x := fullRecord()
	x.Collection = nil

	if Compare(x, x).SameCollection {
		t.Error("Records without a collection must not share one")
	}
}

func TestCompareOverlapFollowsTargetOrder(t *testing.T) {
	target := fullRecord()
	guess := &models.ItemRecord{
		ID: 1,
		Cast: []models.CastMember{
			{PersonID: 2975, Name: "Laurence Fishburne", Character: "Furious Styles"},
			{PersonID: 6384, Name: "Keanu Reeves", Character: "Johnny Utah"},
			{PersonID: 1, Name: "Someone Else"},
		},
		Categories: []models.Category{{ID: 878}, {ID: 28}},
	}

	result := Compare(target, guess)

	if result.Correct {
		t.Error("Different ids must not be correct")
	}
	if len(result.SharedCast) != 2 {
		t.Fatalf("Expected 2 shared cast, got %d", len(result.SharedCast))
	}
	if result.SharedCast[0].PersonID != 6384 || result.SharedCast[1].PersonID != 2975 {
		t.Errorf("Shared cast not in target order: %+v", result.SharedCast)
	}
	if result.SharedCast[0].Character != "Neo" {
		t.Errorf("Expected target entry to be reported, got %q", result.SharedCast[0].Character)
	}
	if len(result.SharedCategories) != 2 || result.SharedCategories[0].ID != 28 {
		t.Errorf("Shared categories not in target order: %+v", result.SharedCategories)
	}
}

func TestCompareCrewUsesPersonAndJob(t *testing.T) {
	target := &models.ItemRecord{ID: 1, Crew: []models.CrewMember{{PersonID: 7, Job: "Director"}}}
	guess := &models.ItemRecord{ID: 2, Crew: []models.CrewMember{{PersonID: 7, Job: "Producer"}}}

	if got := Compare(target, guess).SharedCrew; len(got) != 0 {
		t.Errorf("Same person with a different job must not overlap, got %+v", got)
	}

	guess.Crew = append(guess.Crew, models.CrewMember{PersonID: 7, Job: "Director"})
	if got := Compare(target, guess).SharedCrew; len(got) != 1 {
		t.Errorf("Expected one crew overlap, got %+v", got)
	}
}

func TestCompareCollection(t *testing.T) {
	tests := []struct {
		name   string
		target *models.Collection
		guess  *models.Collection
		want   bool
	}{
		{"both nil", nil, nil, false},
		{"target nil", nil, &models.Collection{ID: 1}, false},
		{"guess nil", &models.Collection{ID: 1}, nil, false},
		{"different", &models.Collection{ID: 1}, &models.Collection{ID: 2}, false},
		{"same", &models.Collection{ID: 1}, &models.Collection{ID: 1, Name: "x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(&models.ItemRecord{ID: 1, Collection: tt.target}, &models.ItemRecord{ID: 2, Collection: tt.guess})
			if got.SameCollection != tt.want {
				t.Errorf("SameCollection = %v, want %v", got.SameCollection, tt.want)
			}
		})
	}
}

func TestCompareReleaseYear(t *testing.T) {
	newer := Compare(&models.ItemRecord{ID: 1, ReleaseDate: date(2001)}, &models.ItemRecord{ID: 2, ReleaseDate: date(1995)})
	if newer.ReleaseYear.Matched || newer.ReleaseYear.Difference != 6 || newer.ReleaseYear.Hint != models.HintNewer {
		t.Errorf("Unexpected newer comparison %+v", newer.ReleaseYear)
	}

	older := Compare(&models.ItemRecord{ID: 1, ReleaseDate: date(1990)}, &models.ItemRecord{ID: 2, ReleaseDate: date(1995)})
	if older.ReleaseYear.Difference != -5 || older.ReleaseYear.Hint != models.HintOlder {
		t.Errorf("Unexpected older comparison %+v", older.ReleaseYear)
	}

	missing := Compare(&models.ItemRecord{ID: 1, ReleaseDate: date(1990)}, &models.ItemRecord{ID: 2})
	if missing.ReleaseYear.Matched || missing.ReleaseYear.Hint != models.HintGuessUnknown {
		t.Errorf("Unexpected unknown comparison %+v", missing.ReleaseYear)
	}
}

func TestCompareRuntime(t *testing.T) {
	tests := []struct {
		name    string
		target  *int
		guess   *int
		matched bool
		diff    float64
		hint    string
	}{
		{"within tolerance longer", intPtr(120), intPtr(115), true, 5, models.HintLonger},
		{"within tolerance shorter", intPtr(110), intPtr(114), true, -4, models.HintShorter},
		{"outside tolerance", intPtr(150), intPtr(100), false, 50, models.HintLonger},
		{"target unknown", nil, intPtr(100), false, 0, models.HintTargetUnknown},
		{"guess unknown", intPtr(100), nil, false, 0, models.HintGuessUnknown},
		{"both unknown", nil, nil, false, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(&models.ItemRecord{ID: 1, Runtime: tt.target}, &models.ItemRecord{ID: 2, Runtime: tt.guess}).Runtime
			if got.Matched != tt.matched || got.Difference != tt.diff || got.Hint != tt.hint {
				t.Errorf("Got %+v, want matched=%v diff=%v hint=%q", got, tt.matched, tt.diff, tt.hint)
			}
		})
	}
}

func TestCompareMoney(t *testing.T) {
	tests := []struct {
		name    string
		target  int64
		guess   int64
		matched bool
		budget  string
		revenue string
	}{
		{"similar lower", 100, 85, false, models.HintSimilar, models.HintSimilar},
		{"much lower", 100, 50, false, models.HintHigher, models.HintMoreSuccessful},
		{"much higher", 50, 100, false, models.HintLower, models.HintLessSuccessful},
		{"equal", 100, 100, true, models.HintSimilar, models.HintSimilar},
		{"target unknown", 0, 100, false, models.HintTargetUnknown, models.HintTargetUnknown},
		{"guess unknown", 100, 0, false, models.HintGuessUnknown, models.HintGuessUnknown},
		{"both unknown", 0, 0, false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(
				&models.ItemRecord{ID: 1, Budget: tt.target, Revenue: tt.target},
				&models.ItemRecord{ID: 2, Budget: tt.guess, Revenue: tt.guess},
			)
			if got.Budget.Matched != tt.matched || got.Budget.Hint != tt.budget {
				t.Errorf("Budget got %+v, want matched=%v hint=%q", got.Budget, tt.matched, tt.budget)
			}
			if got.Revenue.Matched != tt.matched || got.Revenue.Hint != tt.revenue {
				t.Errorf("Revenue got %+v, want matched=%v hint=%q", got.Revenue, tt.matched, tt.revenue)
			}
		})
	}
}

func TestCompareMoneyDifferenceIsSigned(t *testing.T) {
	got := Compare(&models.ItemRecord{ID: 1, Budget: 100}, &models.ItemRecord{ID: 2, Budget: 50}).Budget
	if got.Difference != 50 {
		t.Errorf("Expected difference 50, got %v", got.Difference)
	}
	if got.Hint != models.HintHigher {
		t.Errorf("Expected %q, got %q", models.HintHigher, got.Hint)
	}
}

func TestCompareAllUnknown(t *testing.T) {
	result := Compare(&models.ItemRecord{ID: 1}, &models.ItemRecord{ID: 2})

	zero := models.NumericComparison{}
	if result.ReleaseYear != zero || result.Budget != zero || result.Revenue != zero || result.Runtime != zero {
		t.Errorf("Expected zero numeric blocks, got %+v %+v %+v %+v", result.ReleaseYear, result.Budget, result.Revenue, result.Runtime)
	}
	if len(result.SharedCast)+len(result.SharedCrew)+len(result.SharedCategories)+len(result.SharedOrganizations) != 0 {
		t.Error("Expected empty overlap lists")
	}
	if result.SameCollection || result.Correct {
		t.Error("Expected no collection and incorrect guess")
	}
}

func TestCompareNilRecords(t *testing.T) {
	result := Compare(nil, nil)
	if result.Correct {
		t.Error("Nil records must not be correct")
	}
	if result.SharedCast == nil {
		t.Error("Expected empty, non-nil overlap list")
	}
}
