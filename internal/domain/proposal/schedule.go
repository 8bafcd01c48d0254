package proposal

import "github.com/shopspring/decimal"

const (
	installmentMonths  = 3
	presentationPlaces = 2
)

var (
	hundred            = decimal.NewFromInt(100)
	milestoneUpfront   = decimal.New(30, -2)
	installmentUpfront = decimal.New(50, -2)
	minCustomPercent   = decimal.NewFromInt(MinUpfrontPercent)
	maxCustomPercent   = decimal.NewFromInt(MaxUpfrontPercent)
)

// Schedule is the payment breakdown derived from a grand total. It is never
// persisted.
type Schedule struct {
	GrandTotal decimal.Decimal
	Upfront    decimal.Decimal
	Remaining  decimal.Decimal
	Monthly    decimal.Decimal
	Months     int
}

// GrandTotal sums the development fee, the domain fee and, when feeOnFull is
// set, the flat base fee.
func GrandTotal(developmentFee, domainFee decimal.Decimal, terms *PaymentTerms) decimal.Decimal {
	return developmentFee.Add(domainFee).Add(terms.surcharge())
}

// ComputeSchedule splits grandTotal according to option. Amounts keep full
// precision and Upfront+Remaining always equals GrandTotal.
func ComputeSchedule(grandTotal decimal.Decimal, option PaymentOption, terms *PaymentTerms) Schedule {
	if !grandTotal.IsPositive() {
		return Schedule{
			GrandTotal: decimal.Zero,
			Upfront:    decimal.Zero,
			Remaining:  decimal.Zero,
			Monthly:    decimal.Zero,
		}
	}

	s := Schedule{GrandTotal: grandTotal, Monthly: decimal.Zero}

	switch option {
	case OptionInstallment:
		s.Upfront = grandTotal.Mul(installmentUpfront)
		s.Remaining = grandTotal.Sub(s.Upfront)
		s.Months = installmentMonths
		s.Monthly = s.Remaining.Div(decimal.NewFromInt(installmentMonths))
	case OptionCustom:
		percent := customPercent(terms)
		s.Months = customMonths(terms)
		s.Upfront = grandTotal.Mul(percent).Div(hundred)
		s.Remaining = grandTotal.Sub(s.Upfront)
		s.Monthly = s.Remaining.Div(decimal.NewFromInt(int64(s.Months)))
	default:
		s.Upfront = grandTotal.Mul(milestoneUpfront)
		s.Remaining = grandTotal.Sub(s.Upfront)
	}

	return s
}

func customPercent(terms *PaymentTerms) decimal.Decimal {
	if terms == nil {
		return minCustomPercent
	}
	percent := decimal.NewFromFloat(terms.UpfrontPercent)
	if percent.LessThan(minCustomPercent) {
		return minCustomPercent
	}
	if percent.GreaterThan(maxCustomPercent) {
		return maxCustomPercent
	}
	return percent
}

func customMonths(terms *PaymentTerms) int {
	if terms == nil || terms.Installments == nil || *terms.Installments < 1 {
		return 1
	}
	return *terms.Installments
}

// Schedule computes the payment breakdown from the stored fee and plan fields.
func (p *Proposal) Schedule() Schedule {
	total := GrandTotal(p.TotalDevelopmentFee, p.DomainFee(), p.PaymentTerms)
	return ComputeSchedule(total, p.PaymentOption, p.PaymentTerms)
}

// Rounded returns the schedule at presentation precision. Remaining is taken
// from the rounded totals so the displayed parts still add up.
func (s Schedule) Rounded() Schedule {
	grand := s.GrandTotal.Round(presentationPlaces)
	upfront := s.Upfront.Round(presentationPlaces)
	return Schedule{
		GrandTotal: grand,
		Upfront:    upfront,
		Remaining:  grand.Sub(upfront),
		Monthly:    s.Monthly.Round(presentationPlaces),
		Months:     s.Months,
	}
}
