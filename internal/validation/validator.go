// =============================================================================
// PLN Usage Report - Validation Engine
// =============================================================================
//
// This module holds the line item validity predicate. An item may only enter
// the collection when:
//   - name is non-empty
//   - unit price is greater than zero and at most model.MaxUnitPrice
//   - quantity is greater than zero and at most model.MaxQuantity
//   - unit is non-empty
//
// The rules are declared as struct tags on model.LineItem and evaluated by
// go-playground/validator. Every failing field becomes one ValidationError;
// all of them are aggregated into a single multierror so the caller sees the
// complete list at once.
//
// ERROR HANDLING:
//   - The returned error always satisfies errors.Is(err, ErrInvalidLineItem)
//   - errors.As(err, &*ValidationError) yields the first failing field
//   - FieldErrors(err) returns every failing field
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"

	"github.com/ginjaninja78/pln-usage-report/internal/model"
)

// ErrInvalidLineItem is wrapped by every rejection of a line item.
var ErrInvalidLineItem = errors.New("invalid line item")

// =============================================================================
// VALIDATION ERROR TYPE
// =============================================================================

// ValidationError represents a single failing field.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string

	// Value is the offending value, formatted for display.
	Value string

	// Rule is the validation rule that was violated (e.g. "required", "gt").
	Rule string

	// Message is a human-readable error message.
	Message string

	// RowNumber is the source row for imported items, 0 otherwise.
	RowNumber int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.RowNumber > 0 {
		return fmt.Sprintf("row %d, field '%s': %s (value: '%s')", e.RowNumber, e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("field '%s': %s (value: '%s')", e.Field, e.Message, e.Value)
}

// Unwrap ties every field error to ErrInvalidLineItem.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidLineItem
}

// =============================================================================
// VALIDATOR
// =============================================================================

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// fieldLabels maps struct field names to the labels used on the entry form.
var fieldLabels = map[string]string{
	"Name":      "name",
	"UnitPrice": "unit price",
	"Quantity":  "quantity",
	"Unit":      "unit",
}

// ValidateLineItem checks item against the validity predicate.
// It returns nil for a valid item.
func ValidateLineItem(item model.LineItem) error {
	return ValidateLineItemAt(item, 0)
}

// ValidateLineItemAt is ValidateLineItem with the source row number attached
// to every reported field error. Used by the importer.
func ValidateLineItemAt(item model.LineItem, rowNumber int) error {
	err := engine().Struct(item)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidLineItem, err)
	}

	var result *multierror.Error
	for _, fe := range fieldErrs {
		result = multierror.Append(result, &ValidationError{
			Field:     fe.Field(),
			Value:     fmt.Sprintf("%v", fe.Value()),
			Rule:      fe.Tag(),
			Message:   messageFor(fe),
			RowNumber: rowNumber,
		})
	}

	return result.ErrorOrNil()
}

// IsValid reports whether item passes the validity predicate.
func IsValid(item model.LineItem) bool {
	return ValidateLineItem(item) == nil
}

// FieldErrors extracts every ValidationError contained in err.
func FieldErrors(err error) []*ValidationError {
	if err == nil {
		return nil
	}

	var merr *multierror.Error
	if errors.As(err, &merr) {
		out := make([]*ValidationError, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			var ve *ValidationError
			if errors.As(e, &ve) {
				out = append(out, ve)
			}
		}
		return out
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return []*ValidationError{ve}
	}
	return nil
}

// messageFor turns a validator field error into a short message.
func messageFor(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	default:
		return fmt.Sprintf("%s failed rule %q", label, fe.Tag())
	}
}
