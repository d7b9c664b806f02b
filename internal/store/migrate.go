package store

import (
	"cmp"
	"slices"

	"github.com/dukerupert/provisions/internal/model"
	"github.com/dukerupert/provisions/internal/notify"
)

// legacyHotelKeys maps hotel keys written by 1.x documents, which stored
// hotels positionally or under placeholder names.
var legacyHotelKeys = map[string]model.Hotel{
	"0":      model.Hotel36LS,
	"1":      model.Hotel16TX,
	"2":      model.Hotel55HT,
	"3":      model.Hotel49HG,
	"hotel1": model.Hotel36LS,
	"hotel2": model.Hotel16TX,
	"hotel3": model.Hotel55HT,
	"hotel4": model.Hotel49HG,
}

// Migrate upgrades the stored document to model.SchemaVersion. It is a no-op
// when the document is already current.
func (s *DocumentStore) Migrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.migrate()
}

func (s *DocumentStore) migrate() error {
	doc := s.read()
	if doc.Version == model.SchemaVersion {
		return nil
	}

	from := doc.Version
	upgrade(doc)
	doc = Repair(doc, s.now())
	now := s.now()
	doc.MigratedAt = &now

	if err := s.save(doc); err != nil {
		s.notifier.Notify(notify.LevelError, "Failed to upgrade saved data")
		return err
	}
	s.logger.Info("migrated document", "from", from, "to", model.SchemaVersion)
	s.notifier.Notify(notify.LevelInfo, "Saved data was upgraded to the latest version")
	return nil
}

// upgrade applies the versioned upgrade path to doc in place and stamps the
// current version.
func upgrade(doc *model.Document) {
	if doc.Version == "" || doc.Version == "1.0" {
		upgradeFromV1(doc)
	}
	doc.Version = model.SchemaVersion
}

// upgradeFromV1 remaps legacy hotel keys onto the hotel enumeration and drops
// keys that cannot be mapped. When a legacy key and its canonical code both
// exist their dates are merged.
func upgradeFromV1(doc *model.Document) {
	if doc.Hotels == nil {
		return
	}

	keys := make([]model.Hotel, 0, len(doc.Hotels))
	for h := range doc.Hotels {
		keys = append(keys, h)
	}
	// Canonical codes first so legacy data merges into them.
	slices.SortFunc(keys, func(a, b model.Hotel) int {
		if a.Valid() != b.Valid() {
			if a.Valid() {
				return -1
			}
			return 1
		}
		return cmp.Compare(a, b)
	})

	hotels := make(map[model.Hotel]model.DateMap, len(model.Hotels))
	for _, old := range keys {
		target := old
		if mapped, ok := legacyHotelKeys[string(old)]; ok {
			target = mapped
		}
		if !target.Valid() {
			continue
		}
		hotels[target] = mergeDates(hotels[target], doc.Hotels[old])
	}
	doc.Hotels = hotels
}

func mergeDates(dst, src model.DateMap) model.DateMap {
	if dst == nil {
		dst = model.DateMap{}
	}
	for date, sections := range src {
		existing, ok := dst[date]
		if !ok || existing == nil {
			dst[date] = sections
			continue
		}
		for sec, items := range sections {
			existing[sec] = append(existing[sec], items...)
		}
	}
	return dst
}
