// =============================================================================
// PLN Usage Report - Data Model
// =============================================================================
//
// This package holds the record types shared by every other module. They carry
// no behavior beyond copying; totals live in the totals package and the
// validity predicate lives in the validation package.
//
// PERSISTED FIELD NAMES:
//   The JSON names are the Indonesian field keys of the stored records
//   (nama, idPelanggan, hargaSTN, ...). Renaming them breaks existing data.
//
// =============================================================================

package model

// =============================================================================
// CUSTOMER
// =============================================================================

// Customer is the single active customer record of a report.
// An empty string means "unset" and is rendered as a placeholder dash.
type Customer struct {
	// Name is the customer's full name.
	Name string `json:"nama"`

	// CustomerID is the utility customer number (ID Pelanggan).
	CustomerID string `json:"idPelanggan"`

	// PowerRating is the connected power, free-form (e.g. "1300 VA").
	PowerRating string `json:"daya"`

	// Occupation is the customer's occupation (Pekerjaan).
	Occupation string `json:"pekerjaan"`

	// ContractNumber is the service contract number (Nomor Kontrak).
	ContractNumber string `json:"nomorKontrak"`
}

// IsEmpty reports whether every field is unset.
func (c Customer) IsEmpty() bool {
	return c == Customer{}
}

// =============================================================================
// LINE ITEM
// =============================================================================

// DefaultQuantity is the quantity a new line item starts with.
const DefaultQuantity = 1

// Upper bounds of a line item. Their product stays below math.MaxInt64, so a
// line total never overflows.
const (
	MaxUnitPrice = 1_000_000_000_000
	MaxQuantity  = 1_000_000
)

// LineItem is one priced entry (spare part or service) of the report.
//
// Prices are whole currency units (Rupiah); there is no minor unit.
type LineItem struct {
	// Name of the item or service. Required.
	Name string `json:"namaBarang" validate:"required"`

	// UnitPrice is the standard price (Harga STN) per unit.
	// Must be > 0 and at most MaxUnitPrice.
	UnitPrice int64 `json:"hargaSTN" validate:"gt=0,lte=1000000000000"`

	// Quantity is the number of units. Must be > 0 and at most MaxQuantity.
	Quantity int64 `json:"qty" validate:"gt=0,lte=1000000"`

	// Unit is the unit of measure (Satuan), e.g. "pcs" or "m". Required.
	Unit string `json:"satuan" validate:"required"`
}

// NewLineItem returns an item with the default quantity.
func NewLineItem(name string, unitPrice int64, unit string) LineItem {
	return LineItem{
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  DefaultQuantity,
		Unit:      unit,
	}
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is a by-value copy of the session state taken at render or export
// time. Later edits to the live session never reach a snapshot.
type Snapshot struct {
	Customer Customer
	Items    []LineItem
}

// NewSnapshot copies customer and items into a fresh snapshot.
func NewSnapshot(customer Customer, items []LineItem) Snapshot {
	return Snapshot{
		Customer: customer,
		Items:    CloneItems(items),
	}
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	return NewSnapshot(s.Customer, s.Items)
}

// CloneItems copies a line item slice. A nil input yields an empty,
// non-nil slice so callers can range and serialize it uniformly.
func CloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
