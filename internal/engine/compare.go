package engine

import (
	"math"

	"github.com/amaumene/reeldle/internal/models"
)

const (
	// RuntimeToleranceMinutes is the largest runtime gap still reported as a match
	RuntimeToleranceMinutes = 5
	// SimilarBandPercent is the relative money difference below which a guess is "similar".
	// Money values only match on exact equality.
	SimilarBandPercent = 20.0
)

type crewKey struct {
	personID int
	job      string
}

// Compare reports how guess relates to target. It never fails; a nil record
// is treated as one whose every field is unknown.
func Compare(target, guess *models.ItemRecord) models.GuessResult {
	if target == nil {
		target = &models.ItemRecord{}
	}
	if guess == nil {
		guess = &models.ItemRecord{}
	}

	result := models.GuessResult{
		Correct:             target.ID != 0 && target.ID == guess.ID,
		Guess:               guess,
		SharedCast:          sharedCast(target.Cast, guess.Cast),
		SharedCrew:          sharedCrew(target.Crew, guess.Crew),
		SharedCategories:    sharedCategories(target.Categories, guess.Categories),
		SharedOrganizations: sharedOrganizations(target.Organizations, guess.Organizations),
		SameCollection:      sameCollection(target.Collection, guess.Collection),
		ReleaseYear:         compareYear(target.Year(), guess.Year()),
		Runtime:             compareRuntime(target.Runtime, guess.Runtime),
		Budget:              compareMoney(target.Budget, guess.Budget, models.HintHigher, models.HintLower),
		Revenue:             compareMoney(target.Revenue, guess.Revenue, models.HintMoreSuccessful, models.HintLessSuccessful),
	}

	return result
}

func sharedCast(target, guess []models.CastMember) []models.CastMember {
	ids := make(map[int]struct{}, len(guess))
	for _, c := range guess {
		ids[c.PersonID] = struct{}{}
	}

	shared := []models.CastMember{}
	for _, c := range target {
		if _, ok := ids[c.PersonID]; ok {
			shared = append(shared, c)
		}
	}
	return shared
}

func sharedCrew(target, guess []models.CrewMember) []models.CrewMember {
	keys := make(map[crewKey]struct{}, len(guess))
	for _, c := range guess {
		keys[crewKey{c.PersonID, c.Job}] = struct{}{}
	}

	shared := []models.CrewMember{}
	for _, c := range target {
		if _, ok := keys[crewKey{c.PersonID, c.Job}]; ok {
			shared = append(shared, c)
		}
	}
	return shared
}

func sharedCategories(target, guess []models.Category) []models.Category {
	ids := make(map[int]struct{}, len(guess))
	for _, c := range guess {
		ids[c.ID] = struct{}{}
	}

	shared := []models.Category{}
	for _, c := range target {
		if _, ok := ids[c.ID]; ok {
			shared = append(shared, c)
		}
	}
	return shared
}

func sharedOrganizations(target, guess []models.Organization) []models.Organization {
	ids := make(map[int]struct{}, len(guess))
	for _, o := range guess {
		ids[o.ID] = struct{}{}
	}

	shared := []models.Organization{}
	for _, o := range target {
		if _, ok := ids[o.ID]; ok {
			shared = append(shared, o)
		}
	}
	return shared
}

// sameCollection is false when either side has no collection
func sameCollection(target, guess *models.Collection) bool {
	return target != nil && guess != nil && target.ID == guess.ID
}

func compareYear(target, guess *int) models.NumericComparison {
	if cmp, ok := unknownComparison(target == nil, guess == nil); !ok {
		return cmp
	}

	diff := *target - *guess
	cmp := models.NumericComparison{
		Matched:    diff == 0,
		Difference: float64(diff),
		Hint:       models.HintOlder,
	}
	if diff > 0 {
		cmp.Hint = models.HintNewer
	}
	return cmp
}

func compareRuntime(target, guess *int) models.NumericComparison {
	if cmp, ok := unknownComparison(target == nil, guess == nil); !ok {
		return cmp
	}

	diff := *target - *guess
	cmp := models.NumericComparison{
		Matched:    abs(diff) <= RuntimeToleranceMinutes,
		Difference: float64(diff),
		Hint:       models.HintShorter,
	}
	if diff > 0 {
		cmp.Hint = models.HintLonger
	}
	return cmp
}

// compareMoney treats zero as unknown. above is the hint when the target
// exceeds the guess, below when it falls short.
func compareMoney(target, guess int64, above, below string) models.NumericComparison {
	if cmp, ok := unknownComparison(target <= 0, guess <= 0); !ok {
		return cmp
	}

	diff := float64(target - guess)
	cmp := models.NumericComparison{
		Matched:    target == guess,
		Difference: diff,
	}

	percent := math.Abs(diff) / math.Max(float64(target), float64(guess)) * 100
	switch {
	case percent < SimilarBandPercent:
		cmp.Hint = models.HintSimilar
	case diff > 0:
		cmp.Hint = above
	default:
		cmp.Hint = below
	}
	return cmp
}

// unknownComparison returns the block for a comparison with a missing side.
// ok is true when both sides are known and the caller must compute the block.
// Both sides unknown leaves the block at its zero value.
func unknownComparison(targetUnknown, guessUnknown bool) (models.NumericComparison, bool) {
	switch {
	case targetUnknown && guessUnknown:
		return models.NumericComparison{}, false
	case targetUnknown:
		return models.NumericComparison{Hint: models.HintTargetUnknown}, false
	case guessUnknown:
		return models.NumericComparison{Hint: models.HintGuessUnknown}, false
	default:
		return models.NumericComparison{}, true
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
