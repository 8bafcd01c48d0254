package proposal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func TestComputeSchedule_Milestone(t *testing.T) {
	s := ComputeSchedule(decimal.NewFromInt(1000), OptionMilestone, nil)

	assertAmount(t, "300", s.Upfront)
	assertAmount(t, "700", s.Remaining)
	assertAmount(t, "0", s.Monthly)
	assert.Equal(t, 0, s.Months)
}

func TestComputeSchedule_Installment(t *testing.T) {
	s := ComputeSchedule(decimal.NewFromInt(1200), OptionInstallment, nil)

	assertAmount(t, "600", s.Upfront)
	assertAmount(t, "600", s.Remaining)
	assertAmount(t, "200", s.Monthly)
	assert.Equal(t, 3, s.Months)
}

func TestComputeSchedule_CustomClampsPercentFloor(t *testing.T) {
	terms := &PaymentTerms{UpfrontPercent: 5, Installments: intPtr(4)}
	s := ComputeSchedule(decimal.NewFromInt(1000), OptionCustom, terms)

	assertAmount(t, "100", s.Upfront)
	assertAmount(t, "900", s.Remaining)
	assertAmount(t, "225", s.Monthly)
	assert.Equal(t, 4, s.Months)
}

func TestComputeSchedule_CustomDefaults(t *testing.T) {
	s := ComputeSchedule(decimal.NewFromInt(500), OptionCustom, nil)

	assertAmount(t, "50", s.Upfront)
	assertAmount(t, "450", s.Remaining)
	assertAmount(t, "450", s.Monthly)
	assert.Equal(t, 1, s.Months)
}

func TestComputeSchedule_CustomClampsPercentCeiling(t *testing.T) {
	terms := &PaymentTerms{UpfrontPercent: 150, Installments: intPtr(2)}
	s := ComputeSchedule(decimal.NewFromInt(800), OptionCustom, terms)

	assertAmount(t, "800", s.Upfront)
	assertAmount(t, "0", s.Remaining)
	assertAmount(t, "0", s.Monthly)
}

func TestComputeSchedule_ZeroTotal(t *testing.T) {
	for _, option := range []PaymentOption{OptionMilestone, OptionInstallment, OptionCustom} {
		t.Run(string(option), func(t *testing.T) {
			s := ComputeSchedule(decimal.Zero, option, &PaymentTerms{UpfrontPercent: 40, Installments: intPtr(6)})

			assertAmount(t, "0", s.GrandTotal)
			assertAmount(t, "0", s.Upfront)
			assertAmount(t, "0", s.Remaining)
			assertAmount(t, "0", s.Monthly)
			assert.Equal(t, 0, s.Months)
		})
	}
}

func TestComputeSchedule_PartsSumToGrandTotal(t *testing.T) {
	totals := []string{"0.01", "1", "333.33", "900", "1234.567", "99999.99"}
	terms := []*PaymentTerms{
		nil,
		{UpfrontPercent: 10},
		{UpfrontPercent: 33.3, Installments: intPtr(7)},
		{UpfrontPercent: 100, Installments: intPtr(1)},
	}

	for _, raw := range totals {
		total := decimal.RequireFromString(raw)
		for _, option := range []PaymentOption{OptionMilestone, OptionInstallment, OptionCustom} {
			for _, tt := range terms {
				s := ComputeSchedule(total, option, tt)
				assert.True(t, s.Upfront.Add(s.Remaining).Equal(total), "%s %s", raw, option)
			}
		}
	}
}

func TestGrandTotal_FeeOnFullSurcharge(t *testing.T) {
	base := decimal.NewFromInt(100)

	withFee := GrandTotal(decimal.NewFromInt(900), decimal.NewFromInt(50), &PaymentTerms{UpfrontPercent: 10, FeeOnFull: boolPtr(true), BaseFee: &base})
	assertAmount(t, "1050", withFee)

	disabled := GrandTotal(decimal.NewFromInt(900), decimal.NewFromInt(50), &PaymentTerms{UpfrontPercent: 10, FeeOnFull: boolPtr(false), BaseFee: &base})
	assertAmount(t, "950", disabled)

	noTerms := GrandTotal(decimal.NewFromInt(900), decimal.Zero, nil)
	assertAmount(t, "900", noTerms)
}

func TestProposal_Schedule(t *testing.T) {
	domainFee := decimal.NewFromInt(300)
	p := &Proposal{
		TotalDevelopmentFee: decimal.NewFromInt(900),
		DomainPackageFee:    &domainFee,
		PaymentOption:       OptionInstallment,
	}

	s := p.Schedule()
	assertAmount(t, "1200", s.GrandTotal)
	assertAmount(t, "200", s.Monthly)

	p.DomainPackageFee = nil
	assertAmount(t, "900", p.Schedule().GrandTotal)
}

func TestSchedule_Rounded(t *testing.T) {
	s := ComputeSchedule(decimal.NewFromInt(100), OptionInstallment, nil)
	r := ComputeSchedule(decimal.NewFromInt(100), OptionCustom, &PaymentTerms{UpfrontPercent: 10, Installments: intPtr(7)}).Rounded()

	assertAmount(t, "16.67", s.Rounded().Monthly)
	assertAmount(t, "10", r.Upfront)
	assertAmount(t, "90", r.Remaining)
	assertAmount(t, "12.86", r.Monthly)
	assert.True(t, r.Upfront.Add(r.Remaining).Equal(r.GrandTotal))
}
