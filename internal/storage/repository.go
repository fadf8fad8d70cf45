package storage

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/ginjaninja78/pln-usage-report/internal/model"
	"github.com/ginjaninja78/pln-usage-report/pkg/logger"
)

// Keys under which the two records are stored. Existing data directories
// depend on them; do not rename.
const (
	CustomerKey = "pln-customer-info"
	ItemsKey    = "pln-spare-parts"
)

// Repository serializes the data model into a Store.
//
// Loading never fails: an absent key or a value that does not decode yields
// the documented default (empty customer, empty item list) and a warning.
type Repository struct {
	store Store
	log   *logger.Logger
}

// NewRepository wraps store.
func NewRepository(store Store, log *logger.Logger) *Repository {
	return &Repository{store: store, log: log.With("storage")}
}

// LoadCustomer returns the persisted customer or an empty one.
func (r *Repository) LoadCustomer() model.Customer {
	var c model.Customer
	if !r.load(CustomerKey, &c) {
		return model.Customer{}
	}
	return c
}

// SaveCustomer replaces the persisted customer record.
func (r *Repository) SaveCustomer(c model.Customer) error {
	return r.save(CustomerKey, c)
}

// LoadItems returns the persisted items or an empty slice.
func (r *Repository) LoadItems() []model.LineItem {
	var items []model.LineItem
	if !r.load(ItemsKey, &items) {
		return []model.LineItem{}
	}
	return model.CloneItems(items)
}

// SaveItems replaces the persisted item collection.
func (r *Repository) SaveItems(items []model.LineItem) error {
	return r.save(ItemsKey, model.CloneItems(items))
}

func (r *Repository) load(key string, dst any) bool {
	raw, ok, err := r.store.Get(key)
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("read failed, using default")
		return false
	}
	if !ok {
		r.log.Debug().Str("key", key).Msg("no saved data")
		return false
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("saved data is malformed, using default")
		return false
	}
	return true
}

func (r *Repository) save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := r.store.Set(key, string(data)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
