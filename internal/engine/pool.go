package engine

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// ErrEmptyCatalog is returned when a pool is built without any titles
var ErrEmptyCatalog = errors.New("catalog is empty")

// Pool owns the ordered catalog of candidate titles and the set of
// indices already handed out for practice rounds
type Pool struct {
	mu     sync.Mutex
	titles []string
	used   map[int]struct{}
	rng    *rand.Rand
}

// NewPool builds a pool from titles, dropping blanks and case-insensitive duplicates.
// A nil rng is replaced with a time-seeded source.
func NewPool(titles []string, rng *rand.Rand) (*Pool, error) {
	seen := make(map[string]struct{}, len(titles))
	deduped := make([]string, 0, len(titles))
	for _, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		key := strings.ToLower(title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, title)
	}

	if len(deduped) == 0 {
		return nil, ErrEmptyCatalog
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Pool{
		titles: deduped,
		used:   make(map[int]struct{}),
		rng:    rng,
	}, nil
}

// Size returns the number of titles in the catalog
func (p *Pool) Size() int {
	return len(p.titles)
}

// Title returns the title at index i
func (p *Pool) Title(i int) string {
	return p.titles[i]
}

// Titles returns a copy of the catalog
func (p *Pool) Titles() []string {
	return append([]string(nil), p.titles...)
}

// Daily returns the catalog index and title for a date key
func (p *Pool) Daily(dateKey string) (int, string) {
	index := SelectDaily(DailySeed(dateKey), len(p.titles))
	return index, p.titles[index]
}

// SelectRandom picks a uniformly random index that is neither in exclude nor
// previously returned. When every index is taken, the used set is cleared.
// Exclusions are dropped only when they alone cover the whole catalog.
func (p *Pool) SelectRandom(exclude map[int]struct{}) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	candidates := p.available(exclude)
	if len(candidates) == 0 {
		p.used = make(map[int]struct{})
		candidates = p.available(exclude)
	}
	if len(candidates) == 0 {
		candidates = p.available(nil)
	}

	index := candidates[p.rng.Intn(len(candidates))]
	p.used[index] = struct{}{}
	return index
}

// MarkUsed records index as handed out
func (p *Pool) MarkUsed(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.used[index] = struct{}{}
}

// Used returns the number of indices handed out since the last reset
func (p *Pool) Used() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.used)
}

// Reset forgets every used index
func (p *Pool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.used = make(map[int]struct{})
}

func (p *Pool) available(exclude map[int]struct{}) []int {
	candidates := make([]int, 0, len(p.titles))
	for i := range p.titles {
		if _, ok := exclude[i]; ok {
			continue
		}
		if _, ok := p.used[i]; ok {
			continue
		}
		candidates = append(candidates, i)
	}
	return candidates
}
