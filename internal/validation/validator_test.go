package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/pln-usage-report/internal/model"
	"github.com/ginjaninja78/pln-usage-report/internal/totals"
	"github.com/ginjaninja78/pln-usage-report/internal/validation"
)

func validItem() model.LineItem {
	return model.LineItem{Name: "Cable", UnitPrice: 50000, Quantity: 2, Unit: "m"}
}

func TestValidateLineItem_Valid(t *testing.T) {
	assert.NoError(t, validation.ValidateLineItem(validItem()))
	assert.True(t, validation.IsValid(validItem()))
}

func TestValidateLineItem_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*model.LineItem)
		wantField string
		wantRule  string
	}{
		{name: "empty name", mutate: func(i *model.LineItem) { i.Name = "" }, wantField: "Name", wantRule: "required"},
		{name: "zero price", mutate: func(i *model.LineItem) { i.UnitPrice = 0 }, wantField: "UnitPrice", wantRule: "gt"},
		{name: "negative price", mutate: func(i *model.LineItem) { i.UnitPrice = -5 }, wantField: "UnitPrice", wantRule: "gt"},
		{name: "zero quantity", mutate: func(i *model.LineItem) { i.Quantity = 0 }, wantField: "Quantity", wantRule: "gt"},
		{name: "price above cap", mutate: func(i *model.LineItem) { i.UnitPrice = model.MaxUnitPrice + 1 }, wantField: "UnitPrice", wantRule: "lte"},
		{name: "quantity above cap", mutate: func(i *model.LineItem) { i.Quantity = model.MaxQuantity + 1 }, wantField: "Quantity", wantRule: "lte"},
		{name: "empty unit", mutate: func(i *model.LineItem) { i.Unit = "" }, wantField: "Unit", wantRule: "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			tt.mutate(&item)

			err := validation.ValidateLineItem(item)
			require.Error(t, err)
			assert.True(t, errors.Is(err, validation.ErrInvalidLineItem))

			fields := validation.FieldErrors(err)
			require.Len(t, fields, 1)
			assert.Equal(t, tt.wantField, fields[0].Field)
			assert.Equal(t, tt.wantRule, fields[0].Rule)
		})
	}
}

func TestValidateLineItem_CapsKeepLineTotalInRange(t *testing.T) {
	item := model.LineItem{Name: "Trafo", UnitPrice: model.MaxUnitPrice, Quantity: model.MaxQuantity, Unit: "unit"}
	require.NoError(t, validation.ValidateLineItem(item))
	assert.Equal(t, int64(model.MaxUnitPrice)*model.MaxQuantity, totals.LineTotal(item))
	assert.Positive(t, totals.LineTotal(item))
}

func TestValidateLineItem_CollectsAllFields(t *testing.T) {
	err := validation.ValidateLineItem(model.LineItem{})
	require.Error(t, err)

	fields := validation.FieldErrors(err)
	assert.Len(t, fields, 4)

	var ve *validation.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.NotEmpty(t, ve.Message)
}

func TestValidateLineItemAt_CarriesRowNumber(t *testing.T) {
	item := validItem()
	item.Unit = ""

	err := validation.ValidateLineItemAt(item, 7)
	require.Error(t, err)
	fields := validation.FieldErrors(err)
	require.Len(t, fields, 1)
	assert.Equal(t, 7, fields[0].RowNumber)
	assert.Contains(t, fields[0].Error(), "row 7")
}

func TestFieldErrors_Nil(t *testing.T) {
	assert.Nil(t, validation.FieldErrors(nil))
}
