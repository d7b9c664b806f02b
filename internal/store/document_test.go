package store

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/provisions/internal/model"
	"github.com/dukerupert/provisions/internal/notify"
)

var errStorage = errors.New("storage unavailable")

// memStorage is an in-memory Storage whose writes can be made to fail.
type memStorage struct {
	data    map[string]string
	failSet bool
	failGet bool
}

func newMemStorage() *memStorage {
	return &memStorage{data: make(map[string]string)}
}

func (m *memStorage) Get(key string) (string, bool, error) {
	if m.failGet {
		return "", false, errStorage
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStorage) Set(key, value string) error {
	if m.failSet {
		return errStorage
	}
	m.data[key] = value
	return nil
}

func (m *memStorage) Remove(key string) error {
	delete(m.data, key)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// steppingClock returns a clock that advances one second per call.
func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func setupDocumentStore(t *testing.T) (*DocumentStore, *KVStore, *notify.Recorder) {
	t.Helper()
	kv := setupKVTestDB(t)
	rec := &notify.Recorder{}
	s := NewDocumentStore(kv, "", rec, testLogger())
	s.now = steppingClock(time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC))
	return s, kv, rec
}

func assertComplete(t *testing.T, doc *model.Document) {
	t.Helper()
	if doc.Version != model.SchemaVersion {
		t.Errorf("version = %q, want %q", doc.Version, model.SchemaVersion)
	}
	for _, h := range model.Hotels {
		if doc.Hotels[h] == nil {
			t.Errorf("hotel %s missing", h)
		}
	}
	for _, sec := range model.Sections {
		if doc.ItemPool[sec] == nil {
			t.Errorf("pool section %s missing", sec)
		}
	}
	if doc.Settings == nil {
		t.Fatal("settings missing")
	}
	if doc.CreatedAt.IsZero() || doc.LastModified.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestInitializeCreatesDefaultDocument(t *testing.T) {
	s, kv, _ := setupDocumentStore(t)

	if s.HasData() {
		t.Fatal("expected no data before initialize")
	}
	if err := s.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if !s.HasData() {
		t.Fatal("expected data after initialize")
	}

	raw, ok, _ := kv.Get(DefaultStorageKey)
	if !ok || !strings.Contains(raw, `"version":"2.0"`) {
		t.Errorf("stored document = %q", raw)
	}

	doc := s.Load()
	assertComplete(t, doc)
	if *doc.Settings != model.DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", *doc.Settings)
	}
}

func TestInitializeKeepsExistingData(t *testing.T) {
	s, _, _ := setupDocumentStore(t)

	if err := s.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := s.AddItem(model.Hotel36LS, "2024-01-10", model.SectionMeat, model.ItemInput{Name: "Gà", Quantity: 1}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := s.Initialize(); err != nil {
		t.Fatalf("second initialize: %v", err)
	}

	if got := s.GetItems(model.Hotel36LS, "2024-01-10", model.SectionMeat); len(got) != 1 {
		t.Errorf("items after re-initialize = %d, want 1", len(got))
	}
}

func TestLoadCorruptedDocument(t *testing.T) {
	s, kv, rec := setupDocumentStore(t)

	kv.Set(DefaultStorageKey, `{"version": "2.0", "hotels": `)

	doc := s.Load()
	assertComplete(t, doc)
	if len(doc.Hotels[model.Hotel36LS]) != 0 {
		t.Error("expected empty hotels after corrupted load")
	}
	if _, ok, _ := kv.Get(DefaultStorageKey); ok {
		t.Error("expected corrupted document to be removed")
	}
	last, ok := rec.Last()
	if !ok || last.Level != notify.LevelWarning {
		t.Errorf("last notification = %+v, want a warning", last)
	}
}

func TestInitializeReplacesCorruptedDocument(t *testing.T) {
	s, kv, _ := setupDocumentStore(t)

	kv.Set(DefaultStorageKey, "not json at all")
	if err := s.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	raw, ok, _ := kv.Get(DefaultStorageKey)
	if !ok {
		t.Fatal("expected a fresh document to be written")
	}
	if !strings.HasPrefix(raw, "{") {
		t.Errorf("stored document = %q", raw)
	}
}

func TestSaveFailureNotifiesAndReturnsError(t *testing.T) {
	mem := newMemStorage()
	rec := &notify.Recorder{}
	s := NewDocumentStore(mem, "", rec, testLogger())

	mem.failSet = true
	_, err := s.AddItem(model.Hotel16TX, "2024-01-10", model.SectionDryGoods, model.ItemInput{Name: "Gạo", Quantity: 5})
	if !errors.Is(err, errStorage) {
		t.Fatalf("add item error = %v, want storage error", err)
	}
	last, ok := rec.Last()
	if !ok || last.Level != notify.LevelError || last.Message != "Failed to save data" {
		t.Errorf("last notification = %+v", last)
	}
	if len(mem.data) != 0 {
		t.Error("expected nothing persisted")
	}
}

func TestLoadStorageReadFailure(t *testing.T) {
	mem := newMemStorage()
	rec := &notify.Recorder{}
	s := NewDocumentStore(mem, "", rec, testLogger())

	mem.failGet = true
	assertComplete(t, s.Load())
	if last, ok := rec.Last(); !ok || last.Level != notify.LevelError {
		t.Errorf("last notification = %+v, want an error", last)
	}
	if err := s.Initialize(); !errors.Is(err, errStorage) {
		t.Errorf("initialize error = %v, want storage error", err)
	}
}

func TestRepairCompletesPartialDocument(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	doc := &model.Document{
		Hotels: map[model.Hotel]model.DateMap{
			model.Hotel55HT: {"2024-01-09": {model.SectionFruit: {{ID: "x", Name: "Xoài"}}}},
			"OLD":           nil,
		},
	}

	got := Repair(doc, now)
	assertComplete(t, got)
	if items := got.Hotels[model.Hotel55HT]["2024-01-09"][model.SectionFruit]; len(items) != 1 || items[0].ID != "x" {
		t.Errorf("existing items lost: %+v", items)
	}
	if got.Hotels["OLD"] == nil {
		t.Error("unknown hotel key should be kept with an empty date map")
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("createdAt = %v, want %v", got.CreatedAt, now)
	}
}

func TestRepairNil(t *testing.T) {
	assertComplete(t, Repair(nil, time.Now()))
}

func TestUnknownFieldsSurviveSave(t *testing.T) {
	s, kv, _ := setupDocumentStore(t)

	kv.Set(DefaultStorageKey, `{"version":"2.0","hotels":{},"itemPool":{},"customField":{"keep":true}}`)
	if _, err := s.AddItem(model.Hotel49HG, "2024-01-10", model.SectionMeat, model.ItemInput{Name: "Tôm", Quantity: 1}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	raw, _, _ := kv.Get(DefaultStorageKey)
	if !strings.Contains(raw, `"customField":{"keep":true}`) {
		t.Errorf("custom field dropped: %s", raw)
	}
}

func TestSaveStampsLastModified(t *testing.T) {
	s, _, _ := setupDocumentStore(t)

	doc := s.Load()
	before := doc.LastModified
	if err := s.Save(doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !s.Load().LastModified.After(before) {
		t.Error("expected lastModified to advance on save")
	}
}

func TestClearAllData(t *testing.T) {
	s, _, _ := setupDocumentStore(t)

	s.AddItem(model.Hotel36LS, "2024-01-10", model.SectionMeat, model.ItemInput{Name: "Gà", Quantity: 1})
	if err := s.ClearAllData(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !s.HasData() {
		t.Error("expected a fresh document after clear")
	}
	if got := s.GetItems(model.Hotel36LS, "2024-01-10", model.SectionMeat); len(got) != 0 {
		t.Errorf("items after clear = %d, want 0", len(got))
	}
}

func TestDataSize(t *testing.T) {
	s, kv, _ := setupDocumentStore(t)

	if got := s.DataSize(); got != 0 {
		t.Errorf("size before init = %d, want 0", got)
	}
	s.Initialize()
	raw, _, _ := kv.Get(DefaultStorageKey)
	if got := s.DataSize(); got != len(raw) {
		t.Errorf("size = %d, want %d", got, len(raw))
	}
	if got := s.FormattedDataSize(); !strings.HasSuffix(got, "B") {
		t.Errorf("formatted size = %q", got)
	}
}

func TestCustomStorageKey(t *testing.T) {
	kv := setupKVTestDB(t)
	s := NewDocumentStore(kv, "custom-key", nil, testLogger())

	if err := s.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, ok, _ := kv.Get("custom-key"); !ok {
		t.Error("expected document under custom key")
	}
	if _, ok, _ := kv.Get(DefaultStorageKey); ok {
		t.Error("expected nothing under default key")
	}
}
