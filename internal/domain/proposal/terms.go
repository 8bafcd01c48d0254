package proposal

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	MinUpfrontPercent = 10
	MaxUpfrontPercent = 100
)

// PaymentTerms parameterizes the payment option. The JSON form is also the
// stored form.
type PaymentTerms struct {
	UpfrontPercent float64          `json:"upfrontPercent"`
	Installments   *int             `json:"installments,omitempty"`
	FeeOnFull      *bool            `json:"feeOnFull,omitempty"`
	BaseFee        *decimal.Decimal `json:"baseFee,omitempty"`
}

func (t *PaymentTerms) Validate() error {
	if t.UpfrontPercent < MinUpfrontPercent || t.UpfrontPercent > MaxUpfrontPercent {
		return NewValidationError(FieldUpfrontPercent, msgUpfrontOutOfRange)
	}
	if t.Installments != nil && *t.Installments < 1 {
		return NewValidationError(FieldInstallments, msgInstallmentsRange)
	}
	if t.BaseFee != nil {
		if err := ValidateAmount(FieldBaseFee, *t.BaseFee); err != nil {
			return err
		}
	}
	return nil
}

func (t PaymentTerms) clone() PaymentTerms {
	c := t
	if t.Installments != nil {
		v := *t.Installments
		c.Installments = &v
	}
	if t.FeeOnFull != nil {
		v := *t.FeeOnFull
		c.FeeOnFull = &v
	}
	if t.BaseFee != nil {
		c.BaseFee = decimalPtr(*t.BaseFee)
	}
	return c
}

// surcharge is the flat base fee added to the grand total when feeOnFull is set.
func (t *PaymentTerms) surcharge() decimal.Decimal {
	if t == nil || t.FeeOnFull == nil || !*t.FeeOnFull || t.BaseFee == nil {
		return decimal.Zero
	}
	return *t.BaseFee
}

type termsWire struct {
	UpfrontPercent *float64        `json:"upfrontPercent"`
	Installments   *int            `json:"installments"`
	FeeOnFull      *bool           `json:"feeOnFull"`
	BaseFee        json.RawMessage `json:"baseFee"`
}

// DecodeTerms parses a paymentTerms object against the closed schema. A JSON
// null yields nil terms. Unknown keys fail on paymentTerms.<key>.
func DecodeTerms(raw []byte) (*PaymentTerms, error) {
	if IsNull(raw) {
		return nil, nil
	}

	var wire termsWire
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&wire); err != nil {
		return nil, termsDecodeError(err)
	}

	if wire.UpfrontPercent == nil {
		return nil, NewValidationError(FieldUpfrontPercent, msgRequired)
	}

	terms := &PaymentTerms{
		UpfrontPercent: *wire.UpfrontPercent,
		Installments:   wire.Installments,
		FeeOnFull:      wire.FeeOnFull,
	}

	if !IsNull(wire.BaseFee) {
		fee, err := ParseAmount(FieldBaseFee, wire.BaseFee)
		if err != nil {
			return nil, err
		}
		terms.BaseFee = &fee
	}

	if err := terms.Validate(); err != nil {
		return nil, err
	}
	return terms, nil
}

func termsDecodeError(err error) error {
	const unknownFieldPrefix = "json: unknown field "

	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		if typeErr.Field == "installments" {
			return NewValidationError(FieldInstallments, msgInstallmentsRange)
		}
		return NewValidationError(FieldPaymentTerms+"."+typeErr.Field, "has an invalid type")
	case strings.HasPrefix(err.Error(), unknownFieldPrefix):
		key := strings.Trim(strings.TrimPrefix(err.Error(), unknownFieldPrefix), `"`)
		return NewValidationError(FieldPaymentTerms+"."+key, msgUnknownField)
	default:
		return NewValidationError(FieldPaymentTerms, "must be an object")
	}
}

// IsNull reports whether raw is absent or a JSON null.
func IsNull(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
