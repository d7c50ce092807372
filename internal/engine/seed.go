package engine

import "time"

// DateKeyLayout is the frozen date key format. Changing it changes every daily pick.
const DateKeyLayout = "2006-01-02"

// SeedSalt is added to the accumulator for every character folded into the seed.
// It is frozen at zero (the classic string hash); changing it reshuffles every
// future daily selection.
const SeedSalt = 0

// DateKey formats t in loc as a YYYY-MM-DD key
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateKeyLayout)
}

// DailySeed maps a date key to a deterministic non-negative integer.
// Characters are folded with acc = acc*31 + c, wrapped to int32 at each step.
func DailySeed(dateKey string) int64 {
	var acc int32
	for _, c := range dateKey {
		acc = acc*31 + int32(c) + SeedSalt
	}

	seed := int64(acc)
	if seed < 0 {
		seed = -seed
	}
	return seed
}

// SelectDaily maps a seed onto a catalog index
func SelectDaily(seed int64, catalogSize int) int {
	if catalogSize <= 0 {
		return 0
	}
	index := seed % int64(catalogSize)
	if index < 0 {
		index += int64(catalogSize)
	}
	return int(index)
}
