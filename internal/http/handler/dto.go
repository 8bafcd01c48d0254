package handler

import (
	"encoding/json"
	"strconv"
	"time"

	"proposal-service/internal/audit"
	"proposal-service/internal/domain/proposal"
	"proposal-service/internal/domain/user"

	"github.com/shopspring/decimal"
)

// Monetary request fields are kept raw so a number, a numeric string and an
// explicit null can be told apart.

type itemRequest struct {
	ID          *int64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// Order is accepted for compatibility; the list position is authoritative.
	Order *int `json:"order"`
}

type createProposalRequest struct {
	ClientName          string                  `json:"clientName"`
	Title               *string                 `json:"title"`
	Status              *proposal.Status        `json:"status"`
	TotalDevelopmentFee json.RawMessage         `json:"totalDevelopmentFee"`
	DomainPackageFee    json.RawMessage         `json:"domainPackageFee"`
	PaymentOption       *proposal.PaymentOption `json:"paymentOption"`
	PaymentTerms        json.RawMessage         `json:"paymentTerms"`
	Items               []itemRequest           `json:"items"`
}

type updateProposalRequest struct {
	ClientName          *string                 `json:"clientName"`
	Title               *string                 `json:"title"`
	Status              *proposal.Status        `json:"status"`
	TotalDevelopmentFee json.RawMessage         `json:"totalDevelopmentFee"`
	DomainPackageFee    json.RawMessage         `json:"domainPackageFee"`
	PaymentOption       *proposal.PaymentOption `json:"paymentOption"`
	PaymentTerms        json.RawMessage         `json:"paymentTerms"`
	NoviqSignature      *string                 `json:"noviqSignature"`
	LicenseeSignature   *string                 `json:"licenseeSignature"`
	// Sign dates are set by the server when a signature is recorded.
	NoviqSignDate    json.RawMessage `json:"noviqSignDate"`
	LicenseeSignDate json.RawMessage `json:"licenseeSignDate"`
	Items            *[]itemRequest  `json:"items"`
}

type publicUpdateRequest struct {
	PaymentOption    *proposal.PaymentOption `json:"paymentOption"`
	PaymentTerms     json.RawMessage         `json:"paymentTerms"`
	DomainPackageFee json.RawMessage         `json:"domainPackageFee"`
}

type signRequest struct {
	Role      proposal.Role `json:"role"`
	Signature string        `json:"signature"`
}

func (r *createProposalRequest) toInput() (proposal.CreateInput, error) {
	input := proposal.CreateInput{
		ClientName:    r.ClientName,
		Title:         r.Title,
		Status:        r.Status,
		PaymentOption: r.PaymentOption,
		Items:         toItemInputs(r.Items),
	}

	var err error
	if input.TotalDevelopmentFee, err = optionalAmount(proposal.FieldTotalDevelopmentFee, r.TotalDevelopmentFee); err != nil {
		return input, err
	}
	if input.DomainPackageFee, err = optionalAmount(proposal.FieldDomainPackageFee, r.DomainPackageFee); err != nil {
		return input, err
	}
	if input.PaymentTerms, err = proposal.DecodeTerms(r.PaymentTerms); err != nil {
		return input, err
	}

	return input, nil
}

func (r *updateProposalRequest) toInput() (proposal.UpdateInput, error) {
	payment, err := paymentFields(r.PaymentOption, r.PaymentTerms, r.DomainPackageFee)
	if err != nil {
		return proposal.UpdateInput{}, err
	}

	input := proposal.UpdateInput{
		PaymentFields:     payment,
		ClientName:        r.ClientName,
		Title:             r.Title,
		Status:            r.Status,
		NoviqSignature:    r.NoviqSignature,
		LicenseeSignature: r.LicenseeSignature,
	}

	if len(r.TotalDevelopmentFee) > 0 {
		if proposal.IsNull(r.TotalDevelopmentFee) {
			return input, proposal.NewValidationError(proposal.FieldTotalDevelopmentFee, msgRequiredAmount)
		}
		fee, err := proposal.ParseAmount(proposal.FieldTotalDevelopmentFee, r.TotalDevelopmentFee)
		if err != nil {
			return input, err
		}
		input.TotalDevelopmentFee = &fee
	}

	if r.Items != nil {
		items := toItemInputs(*r.Items)
		input.Items = &items
	}

	return input, nil
}

func (r *publicUpdateRequest) toFields() (proposal.PaymentFields, error) {
	return paymentFields(r.PaymentOption, r.PaymentTerms, r.DomainPackageFee)
}

// paymentFields turns the raw payment keys into a change set. An explicit null
// clears terms or the domain fee; an absent key leaves them alone.
func paymentFields(option *proposal.PaymentOption, termsRaw, feeRaw json.RawMessage) (proposal.PaymentFields, error) {
	fields := proposal.PaymentFields{PaymentOption: option}

	if len(termsRaw) > 0 {
		if proposal.IsNull(termsRaw) {
			fields.ClearPaymentTerms = true
		} else {
			terms, err := proposal.DecodeTerms(termsRaw)
			if err != nil {
				return fields, err
			}
			fields.PaymentTerms = terms
		}
	}

	if len(feeRaw) > 0 {
		if proposal.IsNull(feeRaw) {
			fields.ClearDomainPackageFee = true
		} else {
			fee, err := proposal.ParseAmount(proposal.FieldDomainPackageFee, feeRaw)
			if err != nil {
				return fields, err
			}
			fields.DomainPackageFee = &fee
		}
	}

	return fields, nil
}

func optionalAmount(field string, raw json.RawMessage) (*decimal.Decimal, error) {
	if len(raw) == 0 || proposal.IsNull(raw) {
		return nil, nil
	}
	amount, err := proposal.ParseAmount(field, raw)
	if err != nil {
		return nil, err
	}
	return &amount, nil
}

func toItemInputs(items []itemRequest) []proposal.ItemInput {
	inputs := make([]proposal.ItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, proposal.ItemInput{
			ID:          item.ID,
			Title:       item.Title,
			Description: item.Description,
		})
	}
	return inputs
}

type itemResponse struct {
	ID          int64  `json:"id"`
	ProposalID  int64  `json:"proposalId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

type scheduleResponse struct {
	GrandTotal string `json:"grandTotal"`
	Upfront    string `json:"upfront"`
	Remaining  string `json:"remaining"`
	Monthly    string `json:"monthly"`
	Months     int    `json:"months"`
}

type proposalResponse struct {
	ID                  int64                  `json:"id"`
	ClientName          string                 `json:"clientName"`
	Title               string                 `json:"title"`
	Status              proposal.Status        `json:"status"`
	TotalDevelopmentFee string                 `json:"totalDevelopmentFee"`
	DomainPackageFee    *string                `json:"domainPackageFee"`
	PaymentOption       proposal.PaymentOption `json:"paymentOption"`
	PaymentTerms        *proposal.PaymentTerms `json:"paymentTerms"`
	NoviqSignature      *string                `json:"noviqSignature"`
	NoviqSignDate       *time.Time             `json:"noviqSignDate"`
	LicenseeSignature   *string                `json:"licenseeSignature"`
	LicenseeSignDate    *time.Time             `json:"licenseeSignDate"`
	CreatedAt           time.Time              `json:"createdAt"`
	UpdatedAt           time.Time              `json:"updatedAt"`
	Items               []itemResponse         `json:"items"`
	Schedule            scheduleResponse       `json:"schedule"`
}

func toProposalResponse(p *proposal.Proposal) proposalResponse {
	schedule := p.Schedule().Rounded()

	resp := proposalResponse{
		ID:                  p.ID,
		ClientName:          p.ClientName,
		Title:               p.Title,
		Status:              p.Status,
		TotalDevelopmentFee: p.TotalDevelopmentFee.String(),
		PaymentOption:       p.PaymentOption,
		PaymentTerms:        p.PaymentTerms,
		NoviqSignature:      nullableString(p.NoviqSignature),
		NoviqSignDate:       p.NoviqSignDate,
		LicenseeSignature:   nullableString(p.LicenseeSignature),
		LicenseeSignDate:    p.LicenseeSignDate,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
		Items:               make([]itemResponse, 0, len(p.Items)),
		Schedule: scheduleResponse{
			GrandTotal: schedule.GrandTotal.StringFixed(2),
			Upfront:    schedule.Upfront.StringFixed(2),
			Remaining:  schedule.Remaining.StringFixed(2),
			Monthly:    schedule.Monthly.StringFixed(2),
			Months:     schedule.Months,
		},
	}

	if p.DomainPackageFee != nil {
		fee := p.DomainPackageFee.String()
		resp.DomainPackageFee = &fee
	}

	for _, item := range p.Items {
		resp.Items = append(resp.Items, itemResponse{
			ID:          item.ID,
			ProposalID:  item.ProposalID,
			Title:       item.Title,
			Description: item.Description,
			Order:       item.Order,
		})
	}

	return resp
}

func toProposalResponses(list []*proposal.Proposal) []proposalResponse {
	out := make([]proposalResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProposalResponse(p))
	}
	return out
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}

type sessionResponse struct {
	User      userResponse `json:"user"`
	CSRFToken string       `json:"csrfToken"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

type auditEventResponse struct {
	ID           string          `json:"id"`
	Action       audit.Action    `json:"action"`
	Status       audit.Status    `json:"status"`
	ActorType    audit.ActorType `json:"actorType"`
	ActorID      *string         `json:"actorId"`
	IPAddress    string          `json:"ipAddress"`
	RequestID    string          `json:"requestId"`
	Metadata     map[string]any  `json:"metadata,omitempty"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func toAuditEventResponses(events []*audit.Event) []auditEventResponse {
	out := make([]auditEventResponse, 0, len(events))
	for _, e := range events {
		resp := auditEventResponse{
			ID:           e.ID.String(),
			Action:       e.Action,
			Status:       e.Status,
			ActorType:    e.ActorType,
			IPAddress:    e.IPAddress,
			RequestID:    e.RequestID,
			Metadata:     e.Metadata,
			ErrorMessage: e.ErrorMessage,
			CreatedAt:    e.CreatedAt,
		}
		if e.ActorID != nil {
			actor := e.ActorID.String()
			resp.ActorID = &actor
		}
		out = append(out, resp)
	}
	return out
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
