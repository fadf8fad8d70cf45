// =============================================================================
// PLN Usage Report - Session State
// =============================================================================
//
// Session is the explicit state container of the application shell. It owns
// the current customer and line item collection, applies edits, and persists
// after every committed mutation.
//
// MUTATION RULES:
//   - The customer record is replaced wholesale.
//   - Items are addressed by their index in the collection.
//   - Invalid items are rejected before they reach the collection.
//   - Every mutation builds a new collection and persists it; the in-memory
//     state only changes once the write succeeded.
//
// Mutations are sequential. Index identity is only sound under that rule.
//
// =============================================================================

package session

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/pln-usage-report/internal/model"
	"github.com/ginjaninja78/pln-usage-report/internal/totals"
	"github.com/ginjaninja78/pln-usage-report/internal/validation"
	"github.com/ginjaninja78/pln-usage-report/pkg/logger"
)

// ErrIndexOutOfRange is returned when an edit or delete names no item.
var ErrIndexOutOfRange = errors.New("item index out of range")

// Persister is the part of the storage repository the session needs.
type Persister interface {
	LoadCustomer() model.Customer
	SaveCustomer(model.Customer) error
	LoadItems() []model.LineItem
	SaveItems([]model.LineItem) error
}

// Session holds the live report state.
type Session struct {
	store    Persister
	log      *logger.Logger
	customer model.Customer
	items    []model.LineItem
}

// Open restores the session from store. Missing or unreadable data yields an
// empty customer and an empty collection.
func Open(store Persister, log *logger.Logger) *Session {
	s := &Session{
		store:    store,
		log:      log.With("session"),
		customer: store.LoadCustomer(),
		items:    model.CloneItems(store.LoadItems()),
	}

	s.log.Debug().
		Int("items", len(s.items)).
		Bool("customer_set", !s.customer.IsEmpty()).
		Msg("session restored")

	return s
}

// =============================================================================
// READ ACCESS
// =============================================================================

// Customer returns the current customer record.
func (s *Session) Customer() model.Customer {
	return s.customer
}

// Items returns a copy of the current collection.
func (s *Session) Items() []model.LineItem {
	return model.CloneItems(s.items)
}

// Len returns the number of items.
func (s *Session) Len() int {
	return len(s.items)
}

// Item returns the item at index.
func (s *Session) Item(index int) (model.LineItem, error) {
	if err := s.checkIndex(index); err != nil {
		return model.LineItem{}, err
	}
	return s.items[index], nil
}

// GrandTotal is the grand total of the current collection.
func (s *Session) GrandTotal() int64 {
	return totals.GrandTotal(s.items)
}

// Snapshot copies the current state by value for rendering and export.
func (s *Session) Snapshot() model.Snapshot {
	return model.NewSnapshot(s.customer, s.items)
}

// =============================================================================
// MUTATIONS
// =============================================================================

// SetCustomer replaces the customer record.
func (s *Session) SetCustomer(c model.Customer) error {
	if err := s.store.SaveCustomer(c); err != nil {
		return fmt.Errorf("failed to persist customer: %w", err)
	}
	s.customer = c
	s.log.Info().Str("name", c.Name).Msg("customer updated")
	return nil
}

// AddItem appends item to the collection.
func (s *Session) AddItem(item model.LineItem) error {
	if err := validation.ValidateLineItem(item); err != nil {
		return err
	}

	next := append(model.CloneItems(s.items), item)
	if err := s.commit(next); err != nil {
		return err
	}

	s.log.Info().Str("name", item.Name).Int("index", len(next)-1).Msg("item added")
	return nil
}

// AddItems appends several items with a single write. Nothing is committed if
// any of them is invalid.
func (s *Session) AddItems(items []model.LineItem) error {
	for i, item := range items {
		if err := validation.ValidateLineItem(item); err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
	}

	next := append(model.CloneItems(s.items), items...)
	if err := s.commit(next); err != nil {
		return err
	}

	s.log.Info().Int("added", len(items)).Int("total", len(next)).Msg("items added")
	return nil
}

// UpdateItem replaces the item at index.
func (s *Session) UpdateItem(index int, item model.LineItem) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	if err := validation.ValidateLineItem(item); err != nil {
		return err
	}

	next := model.CloneItems(s.items)
	next[index] = item
	if err := s.commit(next); err != nil {
		return err
	}

	s.log.Info().Str("name", item.Name).Int("index", index).Msg("item updated")
	return nil
}

// DeleteItem removes the item at index. Later items shift down by one.
func (s *Session) DeleteItem(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}

	next := make([]model.LineItem, 0, len(s.items)-1)
	next = append(next, s.items[:index]...)
	next = append(next, s.items[index+1:]...)
	if err := s.commit(next); err != nil {
		return err
	}

	s.log.Info().Int("index", index).Msg("item deleted")
	return nil
}

func (s *Session) commit(next []model.LineItem) error {
	if err := s.store.SaveItems(next); err != nil {
		return fmt.Errorf("failed to persist items: %w", err)
	}
	s.items = next
	return nil
}

func (s *Session) checkIndex(index int) error {
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(s.items))
	}
	return nil
}
