// Package collection maintains the ordered set of media items attached to a
// parent record and its invariants: length ≤ max, unique item ids, and
// exactly one primary item whenever the collection is non-empty.
//
// Collection is a value type with copy-on-write semantics: every mutating
// operation returns a new Collection and leaves the receiver untouched, so
// callers can hold snapshots and compare state across operations.
package collection

import (
	"fmt"

	"github.com/eventhive/mediakit/internal/client/models"
	"github.com/eventhive/mediakit/internal/common"
)

// DefaultMaxItems is the default cap on items per collection.
const DefaultMaxItems = 5

type Collection struct {
	items []models.MediaItem
	max   int
}

// New returns an empty collection capped at max items. A non-positive max
// falls back to DefaultMaxItems.
func New(max int) Collection {
	if max <= 0 {
		max = DefaultMaxItems
	}
	return Collection{max: max}
}

// FromItems builds a collection from already-persisted items, e.g. when the
// owning form edits an existing record. Items beyond max are rejected, ids
// must be unique, and the primary invariant is re-established: if no item is
// marked primary the first one becomes primary, extra primary marks are
// cleared.
func FromItems(items []models.MediaItem, max int) (Collection, error) {
	c := New(max)
	if len(items) > c.max {
		return Collection{}, fmt.Errorf("%d items: %w", len(items), common.ErrLimitExceeded)
	}

	seen := make(map[string]bool, len(items))
	primarySeen := false
	c.items = make([]models.MediaItem, 0, len(items))
	for _, it := range items {
		if seen[it.ID] {
			return Collection{}, fmt.Errorf("duplicate item id %q", it.ID)
		}
		seen[it.ID] = true
		cp := it.Clone()
		if cp.IsPrimary {
			if primarySeen {
				cp.IsPrimary = false
			}
			primarySeen = true
		}
		c.items = append(c.items, cp)
	}
	if !primarySeen && len(c.items) > 0 {
		c.items[0].IsPrimary = true
	}
	return c, nil
}

// Append adds item at the end. The first item added to an empty collection
// always becomes primary; every later item defaults to non-primary. This is
// a deliberate, named rule, not a side effect.
func (c Collection) Append(item models.MediaItem) (Collection, error) {
	if len(c.items) >= c.max {
		return Collection{}, fmt.Errorf("max %d: %w", c.max, common.ErrLimitExceeded)
	}
	if _, ok := c.Find(item.ID); ok {
		return Collection{}, fmt.Errorf("duplicate item id %q", item.ID)
	}

	next := c.clone()
	it := item.Clone()
	it.IsPrimary = len(next.items) == 0
	next.items = append(next.items, it)
	return next, nil
}

// Remove deletes the item with the given id, returning the new collection and
// the removed item. When the removed item was primary and items remain, the
// first remaining item becomes primary, re-establishing the invariant
// deterministically.
func (c Collection) Remove(id string) (Collection, models.MediaItem, bool) {
	idx := c.indexOf(id)
	if idx < 0 {
		return c, models.MediaItem{}, false
	}

	next := c.clone()
	removed := next.items[idx]
	next.items = append(next.items[:idx], next.items[idx+1:]...)
	if removed.IsPrimary && len(next.items) > 0 {
		next.items[0].IsPrimary = true
	}
	return next, removed, true
}

// SetPrimary marks exactly the given item primary and clears the flag on
// every other item. Idempotent.
func (c Collection) SetPrimary(id string) (Collection, error) {
	if c.indexOf(id) < 0 {
		return Collection{}, fmt.Errorf("item %q: %w", id, common.ErrNotFound)
	}

	next := c.clone()
	for i := range next.items {
		next.items[i].IsPrimary = next.items[i].ID == id
	}
	return next, nil
}

// Update applies fn to a copy of the item with the given id and returns the
// new collection. Reports false when the id is absent, in which case the
// receiver is returned unchanged; asynchronous writers use this to drop
// completions for items that are no longer present.
func (c Collection) Update(id string, fn func(*models.MediaItem)) (Collection, bool) {
	idx := c.indexOf(id)
	if idx < 0 {
		return c, false
	}

	next := c.clone()
	fn(&next.items[idx])
	next.items[idx].ID = id // identity is not updatable
	return next, true
}

// Find returns a copy of the item with the given id.
func (c Collection) Find(id string) (models.MediaItem, bool) {
	idx := c.indexOf(id)
	if idx < 0 {
		return models.MediaItem{}, false
	}
	return c.items[idx].Clone(), true
}

// Primary returns the current primary item, if any.
func (c Collection) Primary() (models.MediaItem, bool) {
	for _, it := range c.items {
		if it.IsPrimary {
			return it.Clone(), true
		}
	}
	return models.MediaItem{}, false
}

// Items returns a snapshot of all items in order.
func (c Collection) Items() []models.MediaItem {
	out := make([]models.MediaItem, len(c.items))
	for i, it := range c.items {
		out[i] = it.Clone()
	}
	return out
}

func (c Collection) Len() int { return len(c.items) }

func (c Collection) Max() int { return c.max }

// Uploading reports whether any item is still mid-transfer. Owning forms use
// this to hold submission until uploads settle.
func (c Collection) Uploading() bool {
	for _, it := range c.items {
		if it.UploadState == models.UploadStateUploading {
			return true
		}
	}
	return false
}

// Committed returns the items that already hold a permanent remote locator.
func (c Collection) Committed() []models.MediaItem {
	var out []models.MediaItem
	for _, it := range c.items {
		if it.Committed() {
			out = append(out, it.Clone())
		}
	}
	return out
}

func (c Collection) indexOf(id string) int {
	for i, it := range c.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (c Collection) clone() Collection {
	next := Collection{max: c.max, items: make([]models.MediaItem, len(c.items))}
	for i, it := range c.items {
		next.items[i] = it.Clone()
	}
	return next
}
