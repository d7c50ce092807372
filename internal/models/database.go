package models

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// SnapshotStore persists opaque serialized sessions by key
type SnapshotStore interface {
	Read(key string) ([]byte, bool, error)
	Write(key string, payload []byte) error
	Remove(key string) error
}

// Snapshot is the stored form of one serialized session
type Snapshot struct {
	Key       string `boltholdKey:"Key"`
	Payload   []byte
	UpdatedAt time.Time
}

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// Snapshot operations

// Read returns the payload stored under key, reporting false when absent
func (db *Database) Read(key string) ([]byte, bool, error) {
	var snap Snapshot
	err := db.store.Get(key, &snap)
	if errors.Is(err, bolthold.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return snap.Payload, true, nil
}

// Write stores payload under key, replacing any previous value
func (db *Database) Write(key string, payload []byte) error {
	return db.store.Upsert(key, &Snapshot{
		Key:       key,
		Payload:   payload,
		UpdatedAt: time.Now(),
	})
}

// Remove deletes the payload stored under key; removing a missing key is not an error
func (db *Database) Remove(key string) error {
	err := db.store.Delete(key, &Snapshot{})
	if errors.Is(err, bolthold.ErrNotFound) {
		return nil
	}
	return err
}

// Archive operations

// ArchiveSession stores a finished daily session
func (db *Database) ArchiveSession(archived *ArchivedSession) error {
	archived.ArchivedAt = time.Now()
	return db.store.Insert(bolthold.NextSequence(), archived)
}

// GetArchivedSessionByDate retrieves the archived daily session for a date key
func (db *Database) GetArchivedSessionByDate(dateKey string) (*ArchivedSession, error) {
	var archived ArchivedSession
	err := db.store.FindOne(&archived, bolthold.Where("DateKey").Eq(dateKey))
	if err != nil {
		return nil, err
	}
	return &archived, nil
}

// GetArchivedSessions retrieves all archived sessions ordered by date key
func (db *Database) GetArchivedSessions() ([]*ArchivedSession, error) {
	var sessions []*ArchivedSession
	err := db.store.Find(&sessions, bolthold.Where("DateKey").Ne("").SortBy("DateKey"))
	return sessions, err
}

// MemoryStore is an in-process snapshot store and archive
type MemoryStore struct {
	mu       sync.Mutex
	data     map[string][]byte
	archived []*ArchivedSession
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Read(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), payload...), true, nil
}

func (m *MemoryStore) Write(key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), payload...)
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryStore) ArchiveSession(archived *ArchivedSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	archived.ID = uint64(len(m.archived) + 1)
	archived.ArchivedAt = time.Now()
	m.archived = append(m.archived, archived)
	return nil
}

func (m *MemoryStore) GetArchivedSessions() ([]*ArchivedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sessions := append([]*ArchivedSession(nil), m.archived...)
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].DateKey < sessions[j].DateKey
	})
	return sessions, nil
}
