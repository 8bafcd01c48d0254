// Package export builds the layout-ready view of a proposal consumed by
// document renderers and the signed-agreement archive.
package export

import (
	"fmt"
	"strings"
	"time"

	"proposal-service/internal/domain/proposal"

	"github.com/shopspring/decimal"
)

const (
	currencySymbol = "€"
	invoiceDigits  = 4
	dateLayout     = "Mon Jan 02 2006"
	unsignedDate   = "________"
)

type Document struct {
	ProposalID       int64         `json:"proposalId"`
	InvoiceNumber    string        `json:"invoiceNumber"`
	ClientName       string        `json:"clientName"`
	Title            string        `json:"title"`
	Status           string        `json:"status"`
	PlanLabel        string        `json:"planLabel"`
	PaymentOption    string        `json:"paymentOption"`
	DevelopmentFee   Money         `json:"developmentFee"`
	DomainPackageFee Money         `json:"domainPackageFee"`
	Schedule         Schedule      `json:"schedule"`
	Items            []Item        `json:"items"`
	Noviq            Signature     `json:"noviq"`
	Licensee         Signature     `json:"licensee"`
	GeneratedAt      time.Time     `json:"generatedAt"`
	PaymentTerms     *PaymentTerms `json:"paymentTerms,omitempty"`
}

// Money pairs the exact two-decimal amount with its display form.
type Money struct {
	Amount    string `json:"amount"`
	Formatted string `json:"formatted"`
}

type Schedule struct {
	GrandTotal Money `json:"grandTotal"`
	Upfront    Money `json:"upfront"`
	Remaining  Money `json:"remaining"`
	Monthly    Money `json:"monthly"`
	Months     int   `json:"months"`
}

type Item struct {
	Position    int    `json:"position"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Signature struct {
	Signed bool   `json:"signed"`
	Image  string `json:"image,omitempty"`
	Date   string `json:"date"`
}

type PaymentTerms struct {
	UpfrontPercent float64 `json:"upfrontPercent"`
	Installments   *int    `json:"installments,omitempty"`
	FeeOnFull      bool    `json:"feeOnFull"`
	BaseFee        *Money  `json:"baseFee,omitempty"`
}

// NewDocument lays p out for rendering. Amounts are rounded to cents here and
// nowhere earlier.
func NewDocument(p *proposal.Proposal, generatedAt time.Time) *Document {
	schedule := p.Schedule().Rounded()

	doc := &Document{
		ProposalID:       p.ID,
		InvoiceNumber:    fmt.Sprintf("%0*d", invoiceDigits, p.ID),
		ClientName:       p.ClientName,
		Title:            p.Title,
		Status:           string(p.Status),
		PlanLabel:        planLabel(p.PaymentOption),
		PaymentOption:    string(p.PaymentOption),
		DevelopmentFee:   NewMoney(p.TotalDevelopmentFee),
		DomainPackageFee: NewMoney(p.DomainFee()),
		Schedule: Schedule{
			GrandTotal: NewMoney(schedule.GrandTotal),
			Upfront:    NewMoney(schedule.Upfront),
			Remaining:  NewMoney(schedule.Remaining),
			Monthly:    NewMoney(schedule.Monthly),
			Months:     schedule.Months,
		},
		Items:       make([]Item, 0, len(p.Items)),
		Noviq:       newSignature(p.NoviqSignature, p.NoviqSignDate),
		Licensee:    newSignature(p.LicenseeSignature, p.LicenseeSignDate),
		GeneratedAt: generatedAt.UTC(),
	}

	for i, item := range p.Items {
		doc.Items = append(doc.Items, Item{
			Position:    i + 1,
			Title:       item.Title,
			Description: item.Description,
		})
	}

	if t := p.PaymentTerms; t != nil {
		terms := &PaymentTerms{
			UpfrontPercent: t.UpfrontPercent,
			Installments:   t.Installments,
			FeeOnFull:      t.FeeOnFull != nil && *t.FeeOnFull,
		}
		if t.BaseFee != nil {
			fee := NewMoney(*t.BaseFee)
			terms.BaseFee = &fee
		}
		doc.PaymentTerms = terms
	}

	return doc
}

func NewMoney(amount decimal.Decimal) Money {
	return Money{
		Amount:    amount.StringFixed(2),
		Formatted: FormatCurrency(amount),
	}
}

// FormatCurrency renders amount as euros with thousands separators, e.g.
// €1,234.50.
func FormatCurrency(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if amount.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(currencySymbol)
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteByte('.')
	b.WriteString(cents)
	return b.String()
}

func planLabel(option proposal.PaymentOption) string {
	s := string(option)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func newSignature(image string, date *time.Time) Signature {
	sig := Signature{Signed: image != "", Image: image, Date: unsignedDate}
	if date != nil {
		sig.Date = date.Format(dateLayout)
	}
	return sig
}
