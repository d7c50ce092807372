package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/amaumene/reeldle/internal/engine"
	"github.com/amaumene/reeldle/internal/metrics"
	"github.com/amaumene/reeldle/internal/models"
	"github.com/sirupsen/logrus"
)

const snapshotNamespace = "reeldle"

// Provider looks up movie records
type Provider interface {
	Search(ctx context.Context, query string) ([]models.Candidate, error)
	GetDetails(ctx context.Context, id int) (*models.ItemRecord, error)
	ResolveTitle(ctx context.Context, title string) (*models.ItemRecord, error)
}

// Archive keeps finished daily sessions
type Archive interface {
	ArchiveSession(archived *models.ArchivedSession) error
	GetArchivedSessions() ([]*models.ArchivedSession, error)
}

// GameController owns the daily and practice sessions
type GameController struct {
	mu       sync.Mutex
	store    models.SnapshotStore
	archive  Archive
	provider Provider
	pool     *engine.Pool
	metrics  *metrics.Metrics
	logger   *logrus.Logger
	location *time.Location
	now      func() time.Time

	daily    *models.Session
	practice *models.Session
}

// NewGameController creates a new game controller
func NewGameController(store models.SnapshotStore, archive Archive, provider Provider, pool *engine.Pool, location *time.Location, m *metrics.Metrics, logger *logrus.Logger) *GameController {
	if location == nil {
		location = time.UTC
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &GameController{
		store:    store,
		archive:  archive,
		provider: provider,
		pool:     pool,
		metrics:  m,
		logger:   logger,
		location: location,
		now:      time.Now,
	}
}

// SetClock replaces the time source
func (c *GameController) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Today returns the current date key
func (c *GameController) Today() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.todayLocked()
}

func (c *GameController) todayLocked() string {
	return engine.DateKey(c.now(), c.location)
}

// Init rehydrates today's sessions from the store, or selects a fresh daily target
func (c *GameController) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	today := c.todayLocked()
	log := c.logger.WithField("date", today)

	daily, err := c.loadSnapshot(models.ModeDaily)
	if err != nil {
		return err
	}

	if daily != nil && daily.DateKey != today {
		log.WithField("snapshot_date", daily.DateKey).Info("Stored daily session is from a previous day")
		c.archiveSession(daily)
		c.removeSnapshot(models.ModeDaily)
		c.removeSnapshot(models.ModePractice)
		daily = nil
	}

	c.daily = daily
	c.practice = nil

	if daily != nil {
		log.WithFields(logrus.Fields{
			"session_id": daily.ID,
			"guesses":    len(daily.Guesses),
			"status":     daily.Status(),
		}).Info("Restored daily session")

		if err := c.restorePractice(today); err != nil {
			return err
		}
		return nil
	}

	c.removeSnapshot(models.ModePractice)
	return c.startDaily(ctx, today)
}

// restorePractice loads the practice snapshot when today's daily game is finished
func (c *GameController) restorePractice(today string) error {
	if !c.daily.IsTerminal() {
		c.removeSnapshot(models.ModePractice)
		return nil
	}

	practice, err := c.loadSnapshot(models.ModePractice)
	if err != nil {
		return err
	}
	if practice == nil {
		return nil
	}
	if practice.DateKey != today {
		c.removeSnapshot(models.ModePractice)
		return nil
	}

	c.pool.MarkUsed(practice.PoolSlot)
	c.practice = practice
	c.logger.WithField("session_id", practice.ID).Info("Restored practice session")
	return nil
}

// Rollover archives the previous day's sessions and starts today's daily game.
// It does nothing when the daily session already belongs to today.
func (c *GameController) Rollover(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensureToday(ctx)
}

func (c *GameController) ensureToday(ctx context.Context) error {
	today := c.todayLocked()
	if c.daily != nil && c.daily.DateKey == today {
		return nil
	}

	if c.daily != nil {
		c.logger.WithFields(logrus.Fields{
			"previous": c.daily.DateKey,
			"date":     today,
		}).Info("Day changed, rolling over sessions")

		c.archiveSession(c.daily)
		c.removeSnapshot(models.ModeDaily)
		c.daily = nil
	}

	c.practice = nil
	c.removeSnapshot(models.ModePractice)
	c.pool.Reset()

	return c.startDaily(ctx, today)
}

func (c *GameController) startDaily(ctx context.Context, today string) error {
	slot, title := c.pool.Daily(today)

	target, err := c.provider.ResolveTitle(ctx, title)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"date":  today,
			"title": title,
		}).Error("Failed to resolve daily target")
		return fmt.Errorf("failed to resolve daily target %q: %w", title, err)
	}

	c.daily = models.NewSession(models.ModeDaily, today, slot, target, c.now())
	c.persist(c.daily)

	c.logger.WithFields(logrus.Fields{
		"date":       today,
		"session_id": c.daily.ID,
		"slot":       slot,
	}).Info("Started daily session")
	return nil
}

func (c *GameController) startPractice(ctx context.Context) error {
	exclude := map[int]struct{}{c.daily.PoolSlot: {}}
	slot := c.pool.SelectRandom(exclude)

	target, err := c.provider.ResolveTitle(ctx, c.pool.Title(slot))
	if err != nil {
		return fmt.Errorf("failed to resolve practice target: %w", err)
	}

	c.practice = models.NewSession(models.ModePractice, c.daily.DateKey, slot, target, c.now())
	c.persist(c.practice)

	c.logger.WithFields(logrus.Fields{
		"session_id": c.practice.ID,
		"slot":       slot,
	}).Info("Started practice session")
	return nil
}

// prepare rolls over if the day changed and starts a practice round when the
// daily game is finished but no practice session exists yet
func (c *GameController) prepare(ctx context.Context, mode models.Mode) error {
	if err := c.ensureToday(ctx); err != nil {
		return err
	}
	if mode != models.ModePractice || c.practice != nil || !c.daily.IsTerminal() {
		return nil
	}
	return c.startPractice(ctx)
}

// sessionLocked returns the live session for a mode
func (c *GameController) sessionLocked(mode models.Mode) (*models.Session, error) {
	switch mode {
	case models.ModeDaily:
		if c.daily == nil {
			return nil, models.ErrNoSession
		}
		return c.daily, nil
	case models.ModePractice:
		if c.daily == nil || !c.daily.IsTerminal() {
			return nil, models.ErrPracticeLocked
		}
		if c.practice == nil {
			return nil, models.ErrNoSession
		}
		return c.practice, nil
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

// Current returns a copy of the session for mode, rolling over first if the day changed
func (c *GameController) Current(ctx context.Context, mode models.Mode) (*models.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.prepare(ctx, mode); err != nil {
		return nil, err
	}
	session, err := c.sessionLocked(mode)
	if err != nil {
		return nil, err
	}
	return session.Clone(), nil
}

// Session returns a copy of the session for mode without touching the provider
func (c *GameController) Session(mode models.Mode) (*models.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.sessionLocked(mode)
	if err != nil {
		return nil, err
	}
	return session.Clone(), nil
}

// SubmitGuess fetches the guessed record, compares it with the target and
// appends the result. Nothing is recorded when the fetch fails or is canceled.
func (c *GameController) SubmitGuess(ctx context.Context, mode models.Mode, guessID int) (*models.GuessResult, error) {
	c.mu.Lock()
	if err := c.prepare(ctx, mode); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	session, err := c.sessionLocked(mode)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if session.IsTerminal() {
		c.mu.Unlock()
		return nil, models.ErrTerminalSession
	}
	if session.HasGuessed(guessID) {
		c.mu.Unlock()
		return nil, models.ErrDuplicateGuess
	}
	sessionID := session.ID
	target := session.Target
	c.mu.Unlock()

	log := c.logger.WithFields(logrus.Fields{
		"mode":       mode,
		"session_id": sessionID,
		"guess_id":   guessID,
	})

	guess, err := c.provider.GetDetails(ctx, guessID)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch guessed record")
		return nil, err
	}
	if guess == nil || guess.ID <= 0 || guess.Title == "" {
		return nil, fmt.Errorf("%w: guess %d", models.ErrInvalidRecord, guessID)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	result := engine.Compare(target, guess)

	c.mu.Lock()
	defer c.mu.Unlock()

	session, err = c.sessionLocked(mode)
	if err != nil || session.ID != sessionID {
		log.Warn("Session changed while the guess was being fetched")
		return nil, models.ErrStaleSession
	}
	if session.HasGuessed(guess.ID) {
		return nil, models.ErrDuplicateGuess
	}
	if err := session.Record(result, c.now()); err != nil {
		return nil, err
	}

	c.metrics.Guesses.WithLabelValues(string(mode), strconv.FormatBool(result.Correct)).Inc()
	c.persist(session)

	log.WithFields(logrus.Fields{
		"correct": result.Correct,
		"guesses": len(session.Guesses),
	}).Info("Guess recorded")

	if session.Won {
		c.completed(ctx, session)
	}
	return &result, nil
}

// GiveUp ends the session for mode without a win
func (c *GameController) GiveUp(ctx context.Context, mode models.Mode) (*models.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.prepare(ctx, mode); err != nil {
		return nil, err
	}
	session, err := c.sessionLocked(mode)
	if err != nil {
		return nil, err
	}
	if err := session.GiveUp(c.now()); err != nil {
		return nil, err
	}

	c.persist(session)
	c.logger.WithFields(logrus.Fields{
		"mode":       mode,
		"session_id": session.ID,
		"guesses":    len(session.Guesses),
	}).Info("Session given up")

	c.completed(ctx, session)
	return session.Clone(), nil
}

// UseHint reveals the hint for mode. Asking again returns the same hint
// without changing state.
func (c *GameController) UseHint(ctx context.Context, mode models.Mode) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.prepare(ctx, mode); err != nil {
		return "", err
	}
	session, err := c.sessionLocked(mode)
	if err != nil {
		return "", err
	}
	if session.IsTerminal() && !session.HintUsed {
		return "", models.ErrTerminalSession
	}

	if session.UseHint(c.now()) {
		c.metrics.Hints.WithLabelValues(string(mode)).Inc()
		c.persist(session)
	}
	return HintText(session.Target), nil
}

// NewPracticeRound replaces the practice session with a fresh random target
func (c *GameController) NewPracticeRound(ctx context.Context) (*models.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureToday(ctx); err != nil {
		return nil, err
	}
	if !c.daily.IsTerminal() {
		return nil, models.ErrPracticeLocked
	}
	if err := c.startPractice(ctx); err != nil {
		return nil, err
	}
	return c.practice.Clone(), nil
}

// completed runs the side effects of a session reaching a terminal state
func (c *GameController) completed(ctx context.Context, session *models.Session) {
	c.metrics.Completions.WithLabelValues(string(session.Mode), string(session.Status())).Inc()

	if session.Mode != models.ModeDaily || c.practice != nil {
		return
	}
	if err := c.startPractice(ctx); err != nil {
		c.logger.WithError(err).Warn("Failed to start practice session after daily game")
	}
}

// HintText returns the tagline, or the first category when no tagline is known
func HintText(target *models.ItemRecord) string {
	if target == nil {
		return ""
	}
	if target.Tagline != "" {
		return target.Tagline
	}
	if len(target.Categories) > 0 {
		return "Category: " + target.Categories[0].Name
	}
	return "No hint available"
}

func snapshotKey(mode models.Mode) string {
	return snapshotNamespace + ":" + string(mode)
}

// loadSnapshot reads and decodes the stored session for mode. A corrupt
// snapshot is removed and reported as absent.
func (c *GameController) loadSnapshot(mode models.Mode) (*models.Session, error) {
	payload, ok, err := c.store.Read(snapshotKey(mode))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s snapshot: %w", mode, err)
	}
	if !ok {
		return nil, nil
	}

	session, err := decodeSnapshot(payload, mode)
	if err != nil {
		c.logger.WithError(err).WithField("mode", mode).Warn("Discarding stored session")
		c.removeSnapshot(mode)
		return nil, nil
	}
	return session, nil
}

func decodeSnapshot(payload []byte, mode models.Mode) (*models.Session, error) {
	var session models.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCorruptSnapshot, err)
	}
	if session.Mode != mode || session.DateKey == "" || session.Target == nil || session.Target.ID <= 0 {
		return nil, fmt.Errorf("%w: incomplete %s session", models.ErrCorruptSnapshot, mode)
	}
	if session.Won && session.GaveUp {
		return nil, fmt.Errorf("%w: session both won and given up", models.ErrCorruptSnapshot)
	}
	if session.Guesses == nil {
		session.Guesses = []models.GuessResult{}
	}
	return &session, nil
}

// persist writes the session snapshot. A failed write is logged; the
// in-memory session stays authoritative.
func (c *GameController) persist(session *models.Session) {
	payload, err := json.Marshal(session)
	if err == nil {
		err = c.store.Write(snapshotKey(session.Mode), payload)
	}
	if err != nil {
		c.logger.WithError(err).WithField("mode", session.Mode).Error("Failed to persist session")
	}
}

func (c *GameController) removeSnapshot(mode models.Mode) {
	if err := c.store.Remove(snapshotKey(mode)); err != nil {
		c.logger.WithError(err).WithField("mode", mode).Warn("Failed to remove stored session")
	}
}

func (c *GameController) archiveSession(session *models.Session) {
	if c.archive == nil || session == nil || session.Target == nil {
		return
	}

	err := c.archive.ArchiveSession(&models.ArchivedSession{
		SessionID: session.ID,
		DateKey:   session.DateKey,
		TargetID:  session.Target.ID,
		Title:     session.Target.Title,
		Guesses:   len(session.Guesses),
		Won:       session.Won,
		GaveUp:    session.GaveUp,
		HintUsed:  session.HintUsed,
	})
	if err != nil {
		c.logger.WithError(err).WithField("date", session.DateKey).Error("Failed to archive daily session")
	}
}
