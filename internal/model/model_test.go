package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/pln-usage-report/internal/model"
)

func TestNewSnapshot_IsIndependentOfSource(t *testing.T) {
	items := []model.LineItem{{Name: "Cable", UnitPrice: 50000, Quantity: 2, Unit: "m"}}
	snap := model.NewSnapshot(model.Customer{Name: "Budi"}, items)

	items[0].Name = "changed"
	items = append(items, model.NewLineItem("MCB", 75000, "pcs"))

	assert.Len(t, snap.Items, 1)
	assert.Equal(t, "Cable", snap.Items[0].Name)
}

func TestCloneItems_NilBecomesEmpty(t *testing.T) {
	out := model.CloneItems(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestNewLineItem_DefaultQuantity(t *testing.T) {
	item := model.NewLineItem("Fuse", 12000, "pcs")
	assert.Equal(t, int64(model.DefaultQuantity), item.Quantity)
}

func TestCustomer_IsEmpty(t *testing.T) {
	assert.True(t, model.Customer{}.IsEmpty())
	assert.False(t, model.Customer{Occupation: "Engineer"}.IsEmpty())
}
