package session_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/pln-usage-report/internal/model"
	"github.com/ginjaninja78/pln-usage-report/internal/session"
	"github.com/ginjaninja78/pln-usage-report/internal/storage"
	"github.com/ginjaninja78/pln-usage-report/internal/validation"
	"github.com/ginjaninja78/pln-usage-report/pkg/logger"
)

func newSession(t *testing.T) (*session.Session, *storage.Repository) {
	t.Helper()
	repo := storage.NewRepository(storage.NewMemoryStore(), logger.Nop())
	return session.Open(repo, logger.Nop()), repo
}

func cable() model.LineItem {
	return model.LineItem{Name: "Cable", UnitPrice: 50000, Quantity: 2, Unit: "m"}
}

func TestOpen_EmptyStore(t *testing.T) {
	s, _ := newSession(t)
	assert.Equal(t, model.Customer{}, s.Customer())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, int64(0), s.GrandTotal())
}

func TestSetCustomer_PersistsWholeRecord(t *testing.T) {
	s, repo := newSession(t)
	c := model.Customer{Name: "Budi", CustomerID: "123", PowerRating: "1300 VA", Occupation: "Engineer", ContractNumber: "K-001"}

	require.NoError(t, s.SetCustomer(c))
	assert.Equal(t, c, s.Customer())
	assert.Equal(t, c, repo.LoadCustomer())

	// Replacing with a sparser record clears the other fields.
	require.NoError(t, s.SetCustomer(model.Customer{Name: "Siti"}))
	assert.Equal(t, model.Customer{Name: "Siti"}, repo.LoadCustomer())
}

func TestAddItem_PersistsAndRestores(t *testing.T) {
	s, repo := newSession(t)
	require.NoError(t, s.AddItem(cable()))

	assert.Equal(t, []model.LineItem{cable()}, repo.LoadItems())
	assert.Equal(t, int64(100000), s.GrandTotal())

	reopened := session.Open(repo, logger.Nop())
	assert.Equal(t, []model.LineItem{cable()}, reopened.Items())
}

func TestAddItem_ZeroPriceRejected(t *testing.T) {
	s, repo := newSession(t)
	item := cable()
	item.UnitPrice = 0

	err := s.AddItem(item)
	require.Error(t, err)
	assert.True(t, errors.Is(err, validation.ErrInvalidLineItem))
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, repo.LoadItems())
}

func TestAddItems_AllOrNothing(t *testing.T) {
	s, _ := newSession(t)
	bad := cable()
	bad.Unit = ""

	err := s.AddItems([]model.LineItem{cable(), bad})
	require.Error(t, err)
	assert.Equal(t, 0, s.Len())

	require.NoError(t, s.AddItems([]model.LineItem{cable(), cable()}))
	assert.Equal(t, 2, s.Len())
}

func TestUpdateItem(t *testing.T) {
	s, repo := newSession(t)
	require.NoError(t, s.AddItem(cable()))

	updated := model.LineItem{Name: "MCB", UnitPrice: 75000, Quantity: 1, Unit: "pcs"}
	require.NoError(t, s.UpdateItem(0, updated))
	assert.Equal(t, []model.LineItem{updated}, repo.LoadItems())

	invalid := updated
	invalid.Quantity = 0
	assert.ErrorIs(t, s.UpdateItem(0, invalid), validation.ErrInvalidLineItem)
	assert.ErrorIs(t, s.UpdateItem(3, updated), session.ErrIndexOutOfRange)

	got, err := s.Item(0)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestDeleteItem_ShiftsLaterItems(t *testing.T) {
	s, _ := newSession(t)
	names := []string{"A", "B", "C"}
	for _, n := range names {
		require.NoError(t, s.AddItem(model.LineItem{Name: n, UnitPrice: 1000, Quantity: 1, Unit: "pcs"}))
	}

	require.NoError(t, s.DeleteItem(1))
	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, "C", items[1].Name)

	assert.ErrorIs(t, s.DeleteItem(-1), session.ErrIndexOutOfRange)
	assert.ErrorIs(t, s.DeleteItem(2), session.ErrIndexOutOfRange)
}

func TestSnapshot_IsolatedFromLaterEdits(t *testing.T) {
	s, _ := newSession(t)
	require.NoError(t, s.AddItem(cable()))

	snap := s.Snapshot()
	require.NoError(t, s.DeleteItem(0))
	require.NoError(t, s.SetCustomer(model.Customer{Name: "later"}))

	assert.Len(t, snap.Items, 1)
	assert.Equal(t, "", snap.Customer.Name)
}

type failingStore struct{ *storage.MemoryStore }

func (f *failingStore) Set(string, string) error { return errors.New("disk full") }

func TestMutation_NotAppliedWhenPersistFails(t *testing.T) {
	repo := storage.NewRepository(&failingStore{MemoryStore: storage.NewMemoryStore()}, logger.Nop())
	s := session.Open(repo, logger.Nop())

	assert.Error(t, s.AddItem(cable()))
	assert.Equal(t, 0, s.Len())
	assert.Error(t, s.SetCustomer(model.Customer{Name: "Budi"}))
	assert.Equal(t, model.Customer{}, s.Customer())
}
