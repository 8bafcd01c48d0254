package proposal

import (
	"fmt"

	apperrors "proposal-service/pkg/errors"

	"github.com/shopspring/decimal"
)

const (
	FieldClientName          = "clientName"
	FieldTitle               = "title"
	FieldStatus              = "status"
	FieldTotalDevelopmentFee = "totalDevelopmentFee"
	FieldDomainPackageFee    = "domainPackageFee"
	FieldPaymentOption       = "paymentOption"
	FieldPaymentTerms        = "paymentTerms"
	FieldUpfrontPercent      = "paymentTerms.upfrontPercent"
	FieldInstallments        = "paymentTerms.installments"
	FieldBaseFee             = "paymentTerms.baseFee"
	FieldItems               = "items"
	FieldRole                = "role"
	FieldSignature           = "signature"
)

const (
	msgRequired          = "is required"
	msgNegativeAmount    = "must not be negative"
	msgInvalidAmount     = "must be a number or a numeric string"
	msgInvalidStatus     = "must be one of draft, sent"
	msgSignedIsDerived   = "signed is set automatically once both parties have signed"
	msgInvalidOption     = "must be one of milestone, installment, custom"
	msgUpfrontOutOfRange = "must be between 10 and 100"
	msgInstallmentsRange = "must be a positive integer"
	msgUnknownField      = "is not a recognized field"
	msgInvalidRole       = "must be one of noviq, licensee"
)

// ValidationError names the offending field so callers can point at it.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrValidation
}

// ValidateAmount rejects negative monetary values.
func ValidateAmount(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return NewValidationError(field, msgNegativeAmount)
	}
	return nil
}

// ParseAmount accepts a JSON number or a numeric string.
func ParseAmount(field string, raw []byte) (decimal.Decimal, error) {
	var amount decimal.Decimal
	if err := amount.UnmarshalJSON(raw); err != nil {
		return decimal.Zero, NewValidationError(field, msgInvalidAmount)
	}
	if err := ValidateAmount(field, amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

func ValidatePaymentOption(option PaymentOption) error {
	switch option {
	case OptionMilestone, OptionInstallment, OptionCustom:
		return nil
	default:
		return NewValidationError(FieldPaymentOption, msgInvalidOption)
	}
}

func ValidateRole(role Role) error {
	switch role {
	case RoleNoviq, RoleLicensee:
		return nil
	default:
		return ErrInvalidRole
	}
}
