package store

import (
	"strings"

	"github.com/dukerupert/provisions/internal/grocery"
	"github.com/dukerupert/provisions/internal/model"
)

// lookup returns the items stored under (hotel, date, section) without
// creating anything.
func lookup(doc *model.Document, hotel model.Hotel, date string, section model.Section) ([]model.Item, bool) {
	dates, ok := doc.Hotels[hotel]
	if !ok {
		return nil, false
	}
	sections, ok := dates[date]
	if !ok {
		return nil, false
	}
	items, ok := sections[section]
	return items, ok
}

// sectionMap returns the section map for (hotel, date), creating the
// intermediate maps when they are missing.
func sectionMap(doc *model.Document, hotel model.Hotel, date string) model.SectionMap {
	dates := doc.Hotels[hotel]
	if dates == nil {
		dates = model.DateMap{}
		doc.Hotels[hotel] = dates
	}
	sections := dates[date]
	if sections == nil {
		sections = model.SectionMap{}
		dates[date] = sections
	}
	return sections
}

func defaultUnit(doc *model.Document) string {
	if doc.Settings != nil && strings.TrimSpace(doc.Settings.DefaultUnit) != "" {
		return doc.Settings.DefaultUnit
	}
	return model.DefaultUnit
}

// GetItems returns the items for (hotel, date, section), or an empty slice.
func (s *DocumentStore) GetItems(hotel model.Hotel, date string, section model.Section) []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, _ := lookup(s.load(), hotel, date, section)
	if items == nil {
		return []model.Item{}
	}
	return items
}

// SetItems replaces the items for (hotel, date, section).
func (s *DocumentStore) SetItems(hotel model.Hotel, date string, section model.Section, items []model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	if items == nil {
		items = []model.Item{}
	}
	sectionMap(doc, hotel, date)[section] = items
	return s.save(doc)
}

// GetHotelDayData returns every section recorded for hotel on date.
func (s *DocumentStore) GetHotelDayData(hotel model.Hotel, date string) model.SectionMap {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	if sections := doc.Hotels[hotel][date]; sections != nil {
		return sections
	}
	return model.SectionMap{}
}

// GetStatistics summarizes the items for (hotel, date, section).
func (s *DocumentStore) GetStatistics(hotel model.Hotel, date string, section model.Section) grocery.Stats {
	return grocery.CalculateStats(s.GetItems(hotel, date, section))
}

// AddItem normalizes input, appends it as a new item and returns it. Input is
// not validated here; bad numbers become 0.
func (s *DocumentStore) AddItem(hotel model.Hotel, date string, section model.Section, input model.ItemInput) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	now := s.now()

	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = defaultUnit(doc)
	}

	item := model.Item{
		ID:        s.newID(),
		Name:      strings.TrimSpace(input.Name),
		Quantity:  model.Number(input.Quantity.Float()),
		Unit:      unit,
		BuyPrice:  model.Number(input.BuyPrice.Float()),
		SellPrice: model.Number(input.SellPrice.Float()),
		IsDone:    false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	sections := sectionMap(doc, hotel, date)
	sections[section] = append(sections[section], item)

	if err := s.save(doc); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem merges patch into the item with the given id. It returns
// (nil, nil) when no such item exists.
func (s *DocumentStore) UpdateItem(hotel model.Hotel, date string, section model.Section, id string, patch model.ItemPatch) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateItem(hotel, date, section, id, func(*model.Item) model.ItemPatch { return patch })
}

// ToggleItemCompletion flips isDone on the item with the given id. It returns
// (nil, nil) when no such item exists.
func (s *DocumentStore) ToggleItemCompletion(hotel model.Hotel, date string, section model.Section, id string) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateItem(hotel, date, section, id, func(current *model.Item) model.ItemPatch {
		done := !current.IsDone
		return model.ItemPatch{IsDone: &done}
	})
}

func (s *DocumentStore) updateItem(hotel model.Hotel, date string, section model.Section, id string, patchFor func(*model.Item) model.ItemPatch) (*model.Item, error) {
	doc := s.load()
	items, ok := lookup(doc, hotel, date, section)
	if !ok {
		return nil, nil
	}

	idx := indexOf(items, id)
	if idx < 0 {
		return nil, nil
	}

	item := items[idx]
	applyPatch(&item, patchFor(&item), defaultUnit(doc))

	// updatedAt never moves backwards, even if the clock does.
	if now := s.now(); now.After(item.UpdatedAt) {
		item.UpdatedAt = now
	}
	items[idx] = item

	if err := s.save(doc); err != nil {
		return nil, err
	}
	return &item, nil
}

func applyPatch(item *model.Item, patch model.ItemPatch, unit string) {
	if patch.Name != nil {
		item.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Quantity != nil {
		item.Quantity = model.Number(patch.Quantity.Float())
	}
	if patch.Unit != nil {
		item.Unit = strings.TrimSpace(*patch.Unit)
		if item.Unit == "" {
			item.Unit = unit
		}
	}
	if patch.BuyPrice != nil {
		item.BuyPrice = model.Number(patch.BuyPrice.Float())
	}
	if patch.SellPrice != nil {
		item.SellPrice = model.Number(patch.SellPrice.Float())
	}
	if patch.IsDone != nil {
		item.IsDone = *patch.IsDone
	}
}

func indexOf(items []model.Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// DeleteItem removes the item with the given id and reports whether it
// existed.
func (s *DocumentStore) DeleteItem(hotel model.Hotel, date string, section model.Section, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	items, ok := lookup(doc, hotel, date, section)
	if !ok {
		return false, nil
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return false, nil
	}

	doc.Hotels[hotel][date][section] = append(items[:idx], items[idx+1:]...)
	if err := s.save(doc); err != nil {
		return false, err
	}
	return true, nil
}

// MarkAllItems sets isDone on every item in the section with a single save.
// It returns the number of items touched.
func (s *DocumentStore) MarkAllItems(hotel model.Hotel, date string, section model.Section, isDone bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	items, _ := lookup(doc, hotel, date, section)
	if len(items) == 0 {
		return 0, nil
	}

	now := s.now()
	for i := range items {
		items[i].IsDone = isDone
		if now.After(items[i].UpdatedAt) {
			items[i].UpdatedAt = now
		}
	}

	if err := s.save(doc); err != nil {
		return 0, err
	}
	return len(items), nil
}

// DeleteCompletedItems removes every done item in the section and returns how
// many were removed.
func (s *DocumentStore) DeleteCompletedItems(hotel model.Hotel, date string, section model.Section) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	items, ok := lookup(doc, hotel, date, section)
	if !ok {
		return 0, nil
	}

	remaining := make([]model.Item, 0, len(items))
	for _, item := range items {
		if !item.IsDone {
			remaining = append(remaining, item)
		}
	}
	removed := len(items) - len(remaining)
	if removed == 0 {
		return 0, nil
	}

	doc.Hotels[hotel][date][section] = remaining
	if err := s.save(doc); err != nil {
		return 0, err
	}
	return removed, nil
}
