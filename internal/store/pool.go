package store

import (
	"strings"

	"github.com/dukerupert/provisions/internal/model"
)

// GetItemPool returns the templates saved for section, or an empty slice.
func (s *DocumentStore) GetItemPool(section model.Section) []model.PoolItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool := s.load().ItemPool[section]
	if pool == nil {
		return []model.PoolItem{}
	}
	return pool
}

// AddToItemPool appends a template to section and returns it. Names are not
// deduplicated.
func (s *DocumentStore) AddToItemPool(section model.Section, input model.PoolItemInput) (*model.PoolItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	item := s.newPoolItem(input, defaultUnit(doc))
	doc.ItemPool[section] = append(doc.ItemPool[section], item)

	if err := s.save(doc); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *DocumentStore) newPoolItem(input model.PoolItemInput, unit string) model.PoolItem {
	if u := strings.TrimSpace(input.Unit); u != "" {
		unit = u
	}
	return model.PoolItem{
		ID:                 s.newID(),
		Name:               strings.TrimSpace(input.Name),
		Unit:               unit,
		SuggestedBuyPrice:  model.Number(input.SuggestedBuyPrice.Float()),
		SuggestedSellPrice: model.Number(input.SuggestedSellPrice.Float()),
		CreatedAt:          s.now(),
	}
}

// SeedItemPool fills every empty section pool with the default templates in
// one save. It returns the number of templates added.
func (s *DocumentStore) SeedItemPool() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	unit := defaultUnit(doc)
	added := 0
	for _, section := range model.Sections {
		defaults := defaultPool[section]
		if len(defaults) == 0 || len(doc.ItemPool[section]) > 0 {
			continue
		}
		for _, input := range defaults {
			doc.ItemPool[section] = append(doc.ItemPool[section], s.newPoolItem(input, unit))
			added++
		}
	}
	if added == 0 {
		return 0, nil
	}

	if err := s.save(doc); err != nil {
		return 0, err
	}
	s.logger.Info("seeded item pool", "templates", added)
	return added, nil
}
