package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/provisions/internal/model"
	"github.com/dukerupert/provisions/internal/notify"
	"github.com/dustin/go-humanize"
)

// DefaultStorageKey is the key the document lives under.
const DefaultStorageKey = "shopping-manager-v2-data"

// DocumentStore owns the single persisted shopping document. Every operation
// is a full read-modify-write of that document, serialized by mu.
type DocumentStore struct {
	mu       sync.Mutex
	storage  Storage
	key      string
	notifier notify.Notifier
	logger   *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewDocumentStore creates a store over storage. An empty key selects
// DefaultStorageKey; a nil notifier discards notifications.
func NewDocumentStore(storage Storage, key string, notifier notify.Notifier, logger *slog.Logger) *DocumentStore {
	if key == "" {
		key = DefaultStorageKey
	}
	if notifier == nil {
		notifier = notify.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentStore{
		storage:  storage,
		key:      key,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    model.NewID,
	}
}

// Initialize writes a fresh document when none exists, otherwise migrates the
// stored one. Safe to call more than once.
func (s *DocumentStore) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.hasData()
	if err != nil {
		return err
	}
	if exists {
		if err := s.migrate(); err != nil {
			return err
		}
		// migrate discards a corrupted copy, so check again.
		if exists, err = s.hasData(); err != nil || exists {
			return err
		}
	}
	return s.save(model.NewDocument(s.now()))
}

// HasData reports whether a document is persisted.
func (s *DocumentStore) HasData() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok, _ := s.hasData()
	return ok
}

func (s *DocumentStore) hasData() (bool, error) {
	_, ok, err := s.storage.Get(s.key)
	if err != nil {
		s.logger.Error("read document", "error", err)
		return false, fmt.Errorf("check document: %w", err)
	}
	return ok, nil
}

// Load returns the persisted document, repaired. It never fails: unreadable
// or corrupted content yields a fresh default document.
func (s *DocumentStore) Load() *model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *DocumentStore) load() *model.Document {
	return Repair(s.read(), s.now())
}

// read decodes the stored document without repairing it. A corrupted copy is
// removed and replaced, in memory only, by a default document.
func (s *DocumentStore) read() *model.Document {
	raw, ok, err := s.storage.Get(s.key)
	if err != nil {
		s.logger.Error("read document", "error", err)
		s.notifier.Notify(notify.LevelError, "Could not read saved data")
		return model.NewDocument(s.now())
	}
	if !ok {
		return model.NewDocument(s.now())
	}

	var doc model.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		s.logger.Error("corrupted document", "error", err, "bytes", len(raw))
		if err := s.storage.Remove(s.key); err != nil {
			s.logger.Error("remove corrupted document", "error", err)
		}
		s.notifier.Notify(notify.LevelWarning, "Saved data was corrupted and has been reset to defaults")
		return model.NewDocument(s.now())
	}
	if doc.Dropped > 0 {
		s.logger.Warn("dropped malformed items", "count", doc.Dropped)
	}
	return &doc
}

// ValidateAndRepair completes doc with defaults. See Repair.
func (s *DocumentStore) ValidateAndRepair(doc *model.Document) *model.Document {
	return Repair(doc, s.now())
}

// Repair merges doc over a default document: unknown fields are kept, missing
// fields come from the defaults, and every enumerated hotel and section is
// present afterwards. A nil doc yields a fresh default document.
func Repair(doc *model.Document, now time.Time) *model.Document {
	template := model.NewDocument(now)
	if doc == nil {
		return template
	}

	if doc.Version == "" {
		doc.Version = template.Version
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = template.CreatedAt
	}
	if doc.LastModified.IsZero() {
		doc.LastModified = template.LastModified
	}

	if doc.Hotels == nil {
		doc.Hotels = template.Hotels
	}
	for _, h := range model.Hotels {
		if doc.Hotels[h] == nil {
			doc.Hotels[h] = model.DateMap{}
		}
	}
	for h, dates := range doc.Hotels {
		if dates == nil {
			doc.Hotels[h] = model.DateMap{}
		}
	}

	if doc.ItemPool == nil {
		doc.ItemPool = template.ItemPool
	}
	for _, sec := range model.Sections {
		if doc.ItemPool[sec] == nil {
			doc.ItemPool[sec] = []model.PoolItem{}
		}
	}

	if doc.Settings == nil {
		doc.Settings = template.Settings
	}
	return doc
}

// Save stamps lastModified and writes the whole document. A failed write is
// reported through the notifier and returned; nothing else changes.
func (s *DocumentStore) Save(doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(doc)
}

func (s *DocumentStore) save(doc *model.Document) error {
	doc.LastModified = s.now()

	data, err := json.Marshal(doc)
	if err != nil {
		s.logger.Error("marshal document", "error", err)
		s.notifier.Notify(notify.LevelError, "Failed to save data")
		return fmt.Errorf("marshal document: %w", err)
	}

	if err := s.storage.Set(s.key, string(data)); err != nil {
		s.logger.Error("write document", "error", err, "bytes", len(data))
		s.notifier.Notify(notify.LevelError, "Failed to save data")
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// ClearAllData removes the document and writes a fresh one.
func (s *DocumentStore) ClearAllData() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Remove(s.key); err != nil {
		s.logger.Error("remove document", "error", err)
		s.notifier.Notify(notify.LevelError, "Failed to clear data")
		return fmt.Errorf("clear document: %w", err)
	}
	return s.save(model.NewDocument(s.now()))
}

// DataSize returns the size of the serialized document in bytes.
func (s *DocumentStore) DataSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.storage.Get(s.key)
	if err != nil || !ok {
		return 0
	}
	return len(raw)
}

// FormattedDataSize returns DataSize in human units, e.g. "1.2 KiB".
func (s *DocumentStore) FormattedDataSize() string {
	return humanize.IBytes(uint64(s.DataSize()))
}
