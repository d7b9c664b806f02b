package model

import (
	"encoding/json"
	"errors"
	"maps"
	"time"
)

// SchemaVersion is the current document schema version.
const SchemaVersion = "2.0"

// ExportTool tags exported documents.
const ExportTool = "Shopping Manager v2.0"

// DateLayout is the layout of DateMap keys.
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// SectionMap maps a section code to its ordered items.
type SectionMap map[Section][]Item

// DateMap maps a YYYY-MM-DD date to the sections recorded on that day.
type DateMap map[string]SectionMap

// Settings holds the named application options.
type Settings struct {
	AutoSave           bool   `json:"autoSave"`
	ShowCompletedItems bool   `json:"showCompletedItems"`
	DefaultUnit        string `json:"defaultUnit"`
	Currency           string `json:"currency"`
}

// DefaultSettings returns the settings applied to new documents.
func DefaultSettings() Settings {
	return Settings{
		AutoSave:           true,
		ShowCompletedItems: true,
		DefaultUnit:        DefaultUnit,
		Currency:           "VND",
	}
}

// Document is the single persisted root object.
type Document struct {
	Version      string                 `json:"version"`
	CreatedAt    time.Time              `json:"createdAt"`
	LastModified time.Time              `json:"lastModified"`
	MigratedAt   *time.Time             `json:"migratedAt,omitempty"`
	ExportedAt   *time.Time             `json:"exportedAt,omitempty"`
	ExportedBy   string                 `json:"exportedBy,omitempty"`
	Hotels       map[Hotel]DateMap      `json:"hotels"`
	ItemPool     map[Section][]PoolItem `json:"itemPool"`
	Settings     *Settings              `json:"settings"`

	// Extra keeps top-level fields this version does not know about so they
	// survive a load/save cycle.
	Extra map[string]json.RawMessage `json:"-"`

	// Dropped counts list elements discarded while decoding because they
	// were not item objects.
	Dropped int `json:"-"`
}

// NewDocument returns a structurally complete, empty document.
func NewDocument(now time.Time) *Document {
	d := &Document{
		Version:      SchemaVersion,
		CreatedAt:    now,
		LastModified: now,
		Hotels:       make(map[Hotel]DateMap, len(Hotels)),
		ItemPool:     make(map[Section][]PoolItem, len(Sections)),
	}
	for _, h := range Hotels {
		d.Hotels[h] = DateMap{}
	}
	for _, s := range Sections {
		d.ItemPool[s] = []PoolItem{}
	}
	settings := DefaultSettings()
	d.Settings = &settings
	return d
}

var knownFields = map[string]bool{
	"version": true, "createdAt": true, "lastModified": true, "migratedAt": true,
	"exportedAt": true, "exportedBy": true, "hotels": true, "itemPool": true,
	"settings": true,
}

// UnmarshalJSON decodes field by field. A field whose value has the wrong
// shape is dropped instead of failing the whole document, so repair can fill
// it from defaults. Only a non-object root is an error.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("document is not an object")
	}

	*d = Document{}
	decodeField(raw, "version", &d.Version)
	decodeField(raw, "exportedBy", &d.ExportedBy)
	d.CreatedAt = parseTimestamp(raw["createdAt"])
	d.LastModified = parseTimestamp(raw["lastModified"])
	if t := parseTimestamp(raw["migratedAt"]); !t.IsZero() {
		d.MigratedAt = &t
	}
	if t := parseTimestamp(raw["exportedAt"]); !t.IsZero() {
		d.ExportedAt = &t
	}

	if v, ok := raw["hotels"]; ok {
		d.Hotels = d.decodeHotels(v)
	}
	if v, ok := raw["itemPool"]; ok {
		d.ItemPool = d.decodePool(v)
	}
	if v, ok := raw["settings"]; ok && isObject(v) {
		s := DefaultSettings()
		if err := json.Unmarshal(v, &s); err == nil {
			d.Settings = &s
		}
	}

	d.Extra = extraFields(raw, knownFields)
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	return marshalWithExtra(plain(d), d.Extra)
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	c := *d
	if d.MigratedAt != nil {
		t := *d.MigratedAt
		c.MigratedAt = &t
	}
	if d.ExportedAt != nil {
		t := *d.ExportedAt
		c.ExportedAt = &t
	}
	if d.Settings != nil {
		s := *d.Settings
		c.Settings = &s
	}
	if d.Hotels != nil {
		c.Hotels = make(map[Hotel]DateMap, len(d.Hotels))
		for h, dates := range d.Hotels {
			cd := make(DateMap, len(dates))
			for date, sections := range dates {
				cs := make(SectionMap, len(sections))
				for s, items := range sections {
					cs[s] = cloneItems(items)
				}
				cd[date] = cs
			}
			c.Hotels[h] = cd
		}
	}
	if d.ItemPool != nil {
		c.ItemPool = make(map[Section][]PoolItem, len(d.ItemPool))
		for s, pool := range d.ItemPool {
			c.ItemPool[s] = clonePool(pool)
		}
	}
	c.Extra = maps.Clone(d.Extra)
	return &c
}

func (d *Document) decodeHotels(v json.RawMessage) map[Hotel]DateMap {
	var raw map[string]json.RawMessage
	if !isObject(v) || json.Unmarshal(v, &raw) != nil {
		return nil
	}
	hotels := make(map[Hotel]DateMap, len(raw))
	for hotel, datesRaw := range raw {
		var dates map[string]json.RawMessage
		if !isObject(datesRaw) || json.Unmarshal(datesRaw, &dates) != nil {
			hotels[Hotel(hotel)] = DateMap{}
			continue
		}
		dm := make(DateMap, len(dates))
		for date, sectionsRaw := range dates {
			var sections map[string]json.RawMessage
			if !isObject(sectionsRaw) || json.Unmarshal(sectionsRaw, &sections) != nil {
				continue
			}
			sm := make(SectionMap, len(sections))
			for section, itemsRaw := range sections {
				var elems []json.RawMessage
				if json.Unmarshal(itemsRaw, &elems) != nil {
					continue
				}
				items := make([]Item, 0, len(elems))
				for _, e := range elems {
					var it Item
					if err := json.Unmarshal(e, &it); err != nil {
						d.Dropped++
						continue
					}
					items = append(items, it)
				}
				sm[Section(section)] = items
			}
			dm[date] = sm
		}
		hotels[Hotel(hotel)] = dm
	}
	return hotels
}

func (d *Document) decodePool(v json.RawMessage) map[Section][]PoolItem {
	var raw map[string]json.RawMessage
	if !isObject(v) || json.Unmarshal(v, &raw) != nil {
		return nil
	}
	pool := make(map[Section][]PoolItem, len(raw))
	for section, itemsRaw := range raw {
		var elems []json.RawMessage
		if json.Unmarshal(itemsRaw, &elems) != nil || elems == nil {
			continue
		}
		items := make([]PoolItem, 0, len(elems))
		for _, e := range elems {
			var it PoolItem
			if err := json.Unmarshal(e, &it); err != nil {
				d.Dropped++
				continue
			}
			items = append(items, it)
		}
		pool[Section(section)] = items
	}
	return pool
}

// ItemCount returns the number of items across every hotel, date and section.
func (d *Document) ItemCount() int {
	n := 0
	for _, dates := range d.Hotels {
		for _, sections := range dates {
			for _, items := range sections {
				n += len(items)
			}
		}
	}
	return n
}
