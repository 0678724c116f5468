package store

import "powcost/internal/models"

func itemID(i models.Item) int { return i.ID }

// GetItems returns the whole catalog.
func (s *Store) GetItems() []models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection[models.Item](s, KeyItems)
}

// SaveItems overwrites the catalog.
func (s *Store) SaveItems(items []models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeCollection(s, KeyItems, items)
}

// GetItem returns the item with id, or nil.
func (s *Store) GetItem(id int) *models.Item {
	for _, item := range s.GetItems() {
		if item.ID == id {
			return &item
		}
	}
	return nil
}

// FindItemByNo returns the first item with the given item number, or nil.
func (s *Store) FindItemByNo(itemNo string) *models.Item {
	for _, item := range s.GetItems() {
		if item.ItemNo == itemNo {
			return &item
		}
	}
	return nil
}

// AddItem appends an item with id max+1 and the current time as date_added.
func (s *Store) AddItem(input models.NewItem) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := readCollection[models.Item](s, KeyItems)
	item := models.Item{
		ID:          nextID(items, itemID),
		ItemNo:      input.ItemNo,
		Description: input.Description,
		Category:    input.Category,
		Subcategory: input.Subcategory,
		Unit:        input.Unit,
		UnitCost:    input.UnitCost,
		CostType:    input.CostType,
		DateAdded:   s.now(),
	}
	items = append(items, item)
	if err := writeCollection(s, KeyItems, items); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem merges patch into the item with id. It returns nil, nil when no
// such item exists.
func (s *Store) UpdateItem(id int, patch models.ItemPatch) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := readCollection[models.Item](s, KeyItems)
	for i := range items {
		if items[i].ID != id {
			continue
		}
		patch.Apply(&items[i])
		if err := writeCollection(s, KeyItems, items); err != nil {
			return nil, err
		}
		updated := items[i]
		return &updated, nil
	}
	return nil, nil
}

// DeleteItem removes the item with id and reports whether one was removed.
// Project items already snapshotted from it are kept.
func (s *Store) DeleteItem(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := readCollection[models.Item](s, KeyItems)
	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return false, nil
	}
	if err := writeCollection(s, KeyItems, kept); err != nil {
		return false, err
	}
	return true, nil
}
