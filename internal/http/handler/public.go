package handler

import (
	"net/http"

	"proposal-service/internal/access"
	"proposal-service/internal/audit"

	"github.com/labstack/echo/v4"
)

// PublicHandler serves the shared-link routes. No session is required; the
// proposal id in the path is the only scope.
type PublicHandler struct {
	policy      *access.Policy
	auditLogger AuditLogger
}

func NewPublicHandler(policy *access.Policy, auditLogger AuditLogger) *PublicHandler {
	return &PublicHandler{
		policy:      policy,
		auditLogger: auditLogger,
	}
}

func (h *PublicHandler) signer(c echo.Context) (*access.PublicSignerCapability, error) {
	id, err := parseProposalID(c)
	if err != nil {
		return nil, err
	}
	return h.policy.Public(id), nil
}

func (h *PublicHandler) Get(c echo.Context) error {
	signer, err := h.signer(c)
	if err != nil {
		return respondAppError(c, err)
	}

	p, err := signer.Get(c.Request().Context())
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(http.StatusOK, toProposalResponse(p))
}

// Update accepts paymentOption, paymentTerms and domainPackageFee only. Any
// other key is rejected with the offending field name.
func (h *PublicHandler) Update(c echo.Context) error {
	signer, err := h.signer(c)
	if err != nil {
		return respondAppError(c, err)
	}

	var req publicUpdateRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return respondAppError(c, err)
	}

	fields, err := req.toFields()
	if err != nil {
		return respondAppError(c, err)
	}

	resourceID := formatID(signer.ProposalID())
	p, err := signer.UpdatePayment(c.Request().Context(), fields)
	if err != nil {
		h.auditLogger.LogError(c, audit.ResourceTypeProposal, resourceID, audit.ActionUpdate, err)
		return respondAppError(c, err)
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeProposal, resourceID, audit.ActionUpdate, audit.StatusSuccess, map[string]any{
		"payment_option": string(p.PaymentOption),
	})

	return c.JSON(http.StatusOK, toProposalResponse(p))
}

// Sign records the licensee signature.
func (h *PublicHandler) Sign(c echo.Context) error {
	signer, err := h.signer(c)
	if err != nil {
		return respondAppError(c, err)
	}

	var req signRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return respondAppError(c, err)
	}

	resourceID := formatID(signer.ProposalID())
	p, err := signer.Sign(c.Request().Context(), req.Role, req.Signature)
	if err != nil {
		h.auditLogger.LogError(c, audit.ResourceTypeProposal, resourceID, audit.ActionSign, err)
		return respondAppError(c, err)
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeProposal, resourceID, audit.ActionSign, audit.StatusSuccess, map[string]any{
		"role":   "licensee",
		"status": string(p.Status),
	})

	return c.JSON(http.StatusOK, toProposalResponse(p))
}
