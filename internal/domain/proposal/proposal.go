package proposal

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft  Status = "draft"
	StatusSent   Status = "sent"
	StatusSigned Status = "signed"
)

type PaymentOption string

const (
	OptionMilestone   PaymentOption = "milestone"
	OptionInstallment PaymentOption = "installment"
	OptionCustom      PaymentOption = "custom"
)

const (
	DefaultTitle         = "Service Agreement & Project Deliverables"
	DefaultStatus        = StatusDraft
	DefaultPaymentOption = OptionMilestone
)

// DefaultDevelopmentFee is applied when a proposal is created without a fee.
var DefaultDevelopmentFee = decimal.NewFromInt(900)

// Proposal is one client agreement together with its scope items.
type Proposal struct {
	ID                  int64
	ClientName          string
	Title               string
	Status              Status
	TotalDevelopmentFee decimal.Decimal
	DomainPackageFee    *decimal.Decimal
	PaymentOption       PaymentOption
	PaymentTerms        *PaymentTerms
	NoviqSignature      string
	NoviqSignDate       *time.Time
	LicenseeSignature   string
	LicenseeSignDate    *time.Time
	Items               []Item
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Item is one scope-of-work line owned by a proposal.
type Item struct {
	ID          int64
	ProposalID  int64
	Title       string
	Description string
	Order       int
}

// ItemInput is a submitted item. A nil ID, or an ID the proposal does not
// own, marks the item as new.
type ItemInput struct {
	ID          *int64
	Title       string
	Description string
}

// PaymentFields are the only fields the public signer may change.
type PaymentFields struct {
	PaymentOption         *PaymentOption
	PaymentTerms          *PaymentTerms
	ClearPaymentTerms     bool
	DomainPackageFee      *decimal.Decimal
	ClearDomainPackageFee bool
}

type CreateInput struct {
	ClientName          string
	Title               *string
	Status              *Status
	TotalDevelopmentFee *decimal.Decimal
	DomainPackageFee    *decimal.Decimal
	PaymentOption       *PaymentOption
	PaymentTerms        *PaymentTerms
	Items               []ItemInput
}

type UpdateInput struct {
	PaymentFields
	ClientName          *string
	Title               *string
	Status              *Status
	TotalDevelopmentFee *decimal.Decimal
	NoviqSignature      *string
	LicenseeSignature   *string
	// Items replaces the whole item list when non-nil.
	Items *[]ItemInput
}

// New builds a draft proposal from input, applying defaults.
func New(input CreateInput, now time.Time) (*Proposal, error) {
	p := &Proposal{
		ClientName:          strings.TrimSpace(input.ClientName),
		Title:               DefaultTitle,
		Status:              DefaultStatus,
		TotalDevelopmentFee: DefaultDevelopmentFee,
		DomainPackageFee:    decimalPtr(decimal.Zero),
		PaymentOption:       DefaultPaymentOption,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if p.ClientName == "" {
		return nil, NewValidationError(FieldClientName, msgRequired)
	}

	if input.Title != nil {
		if title := strings.TrimSpace(*input.Title); title != "" {
			p.Title = title
		}
	}

	if input.Status != nil {
		if err := p.setStatus(*input.Status); err != nil {
			return nil, err
		}
	}

	if input.TotalDevelopmentFee != nil {
		if err := ValidateAmount(FieldTotalDevelopmentFee, *input.TotalDevelopmentFee); err != nil {
			return nil, err
		}
		p.TotalDevelopmentFee = *input.TotalDevelopmentFee
	}

	payment := PaymentFields{
		PaymentOption:    input.PaymentOption,
		PaymentTerms:     input.PaymentTerms,
		DomainPackageFee: input.DomainPackageFee,
	}
	if err := p.applyPayment(payment); err != nil {
		return nil, err
	}

	if err := ReplaceItems(p, input.Items); err != nil {
		return nil, err
	}

	return p, nil
}

// Apply performs an admin update. The admin channel ignores the lock.
func (p *Proposal) Apply(input UpdateInput, now time.Time) error {
	if input.ClientName != nil {
		name := strings.TrimSpace(*input.ClientName)
		if name == "" {
			return NewValidationError(FieldClientName, msgRequired)
		}
		p.ClientName = name
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return NewValidationError(FieldTitle, msgRequired)
		}
		p.Title = title
	}

	if input.TotalDevelopmentFee != nil {
		if err := ValidateAmount(FieldTotalDevelopmentFee, *input.TotalDevelopmentFee); err != nil {
			return err
		}
		p.TotalDevelopmentFee = *input.TotalDevelopmentFee
	}

	if err := p.applyPayment(input.PaymentFields); err != nil {
		return err
	}

	if changed(input.NoviqSignature, p.NoviqSignature) {
		if err := p.sign(RoleNoviq, *input.NoviqSignature, now); err != nil {
			return err
		}
	}

	if changed(input.LicenseeSignature, p.LicenseeSignature) {
		if err := p.sign(RoleLicensee, *input.LicenseeSignature, now); err != nil {
			return err
		}
	}

	if input.Items != nil {
		if err := ReplaceItems(p, *input.Items); err != nil {
			return err
		}
	}

	if input.Status != nil {
		if err := p.setStatus(*input.Status); err != nil {
			return err
		}
	}

	p.syncStatus()
	p.UpdatedAt = now
	return nil
}

// ApplyPayment performs a public signer update restricted to payment fields.
func (p *Proposal) ApplyPayment(fields PaymentFields, now time.Time) error {
	if p.IsLocked() {
		return ErrProposalLocked
	}
	if err := p.applyPayment(fields); err != nil {
		return err
	}
	p.UpdatedAt = now
	return nil
}

func (p *Proposal) applyPayment(fields PaymentFields) error {
	if fields.PaymentOption != nil {
		if err := ValidatePaymentOption(*fields.PaymentOption); err != nil {
			return err
		}
		p.PaymentOption = *fields.PaymentOption
	}

	switch {
	case fields.ClearPaymentTerms:
		p.PaymentTerms = nil
	case fields.PaymentTerms != nil:
		if err := fields.PaymentTerms.Validate(); err != nil {
			return err
		}
		terms := fields.PaymentTerms.clone()
		p.PaymentTerms = &terms
	}

	switch {
	case fields.ClearDomainPackageFee:
		p.DomainPackageFee = nil
	case fields.DomainPackageFee != nil:
		if err := ValidateAmount(FieldDomainPackageFee, *fields.DomainPackageFee); err != nil {
			return err
		}
		p.DomainPackageFee = decimalPtr(*fields.DomainPackageFee)
	}

	return nil
}

// setStatus accepts draft and sent. Signed is derived from the signatures and
// is only accepted when both are present.
func (p *Proposal) setStatus(status Status) error {
	switch status {
	case StatusDraft, StatusSent:
		p.Status = status
		return nil
	case StatusSigned:
		if !p.FullySigned() {
			return NewValidationError(FieldStatus, msgSignedIsDerived)
		}
		p.Status = status
		return nil
	default:
		return NewValidationError(FieldStatus, msgInvalidStatus)
	}
}

// IsLocked reports whether the public signer may no longer change the proposal.
func (p *Proposal) IsLocked() bool {
	return p.LicenseeSignature != ""
}

func (p *Proposal) FullySigned() bool {
	return p.NoviqSignature != "" && p.LicenseeSignature != ""
}

// Clone returns a deep copy of p.
func (p *Proposal) Clone() *Proposal {
	c := *p
	if p.DomainPackageFee != nil {
		c.DomainPackageFee = decimalPtr(*p.DomainPackageFee)
	}
	if p.PaymentTerms != nil {
		terms := p.PaymentTerms.clone()
		c.PaymentTerms = &terms
	}
	c.NoviqSignDate = timePtr(p.NoviqSignDate)
	c.LicenseeSignDate = timePtr(p.LicenseeSignDate)
	c.Items = append([]Item(nil), p.Items...)
	return &c
}

// DomainFee returns the domain package fee, treating null as zero.
func (p *Proposal) DomainFee() decimal.Decimal {
	if p.DomainPackageFee == nil {
		return decimal.Zero
	}
	return *p.DomainPackageFee
}

// changed reports whether a submitted signature replaces the stored one.
// Empty submissions never clear a signature; that is what reset is for.
func changed(submitted *string, current string) bool {
	return submitted != nil && *submitted != "" && *submitted != current
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func timePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
