package proposal

import "github.com/shopspring/decimal"

// SeedInput is the first proposal created on an empty store.
func SeedInput() CreateInput {
	title := "Service Agreement & Project Deliverables (Noviq ↔ JHL)"
	fee := decimal.NewFromInt(900)
	domainFee := decimal.Zero
	option := OptionMilestone

	return CreateInput{
		ClientName:          "JHL",
		Title:               &title,
		TotalDevelopmentFee: &fee,
		DomainPackageFee:    &domainFee,
		PaymentOption:       &option,
		Items: []ItemInput{
			{Title: "Product Modules", Description: "Core functionality implementation."},
			{Title: "Intelligence", Description: "AI integration and data analysis."},
			{Title: "Admin Panel", Description: "Dashboard for management."},
			{Title: "Donation Gateway", Description: "Payment processing integration."},
		},
	}
}
