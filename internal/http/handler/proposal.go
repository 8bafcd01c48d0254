package handler

import (
	"net/http"

	"proposal-service/internal/access"
	"proposal-service/internal/audit"
	"proposal-service/internal/auth"

	"github.com/labstack/echo/v4"
)

const defaultHistoryLimit = 50

// ProposalHandler serves the admin proposal routes. Every handler runs behind
// RequireSession.
type ProposalHandler struct {
	policy      *access.Policy
	auditLogger AuditLogger
}

func NewProposalHandler(policy *access.Policy, auditLogger AuditLogger) *ProposalHandler {
	return &ProposalHandler{
		policy:      policy,
		auditLogger: auditLogger,
	}
}

func (h *ProposalHandler) admin(c echo.Context) (*access.AdminCapability, error) {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return nil, err
	}
	return h.policy.Admin(userID), nil
}

func (h *ProposalHandler) List(c echo.Context) error {
	admin, err := h.admin(c)
	if err != nil {
		return respondAppError(c, err)
	}

	list, err := admin.List(c.Request().Context())
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(http.StatusOK, toProposalResponses(list))
}

func (h *ProposalHandler) Get(c echo.Context) error {
	admin, err := h.admin(c)
	if err != nil {
		return respondAppError(c, err)
	}

	id, err := parseProposalID(c)
	if err != nil {
		return respondAppError(c, err)
	}

	p, err := admin.Get(c.Request().Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(http.StatusOK, toProposalResponse(p))
}

func (h *ProposalHandler) Create(c echo.Context) error {
	admin, err := h.admin(c)
	if err != nil {
		return respondAppError(c, err)
	}

	var req createProposalRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return respondAppError(c, err)
	}

	input, err := req.toInput()
	if err != nil {
		return respondAppError(c, err)
	}

	p, err := admin.Create(c.Request().Context(), input)
	if err != nil {
		h.auditLogger.LogError(c, audit.ResourceTypeProposal, "", audit.ActionCreate, err)
		return respondAppError(c, err)
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeProposal, formatID(p.ID), audit.ActionCreate, audit.StatusSuccess, map[string]any{
		"client_name": p.ClientName,
		"items":       len(p.Items),
	})

	return c.JSON(http.StatusCreated, toProposalResponse(p))
}

func (h *ProposalHandler) Update(c echo.Context) error {
	admin, err := h.admin(c)
	if err != nil {
		return respondAppError(c, err)
	}

	id, err := parseProposalID(c)
	if err != nil {
		return respondAppError(c, err)
	}

	var req updateProposalRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return respondAppError(c, err)
	}

	input, err := req.toInput()
	if err != nil {
		return respondAppError(c, err)
	}

	p, err := admin.Update(c.Request().Context(), id, input)
	if err != nil {
		h.auditLogger.LogError(c, audit.ResourceTypeProposal, formatID(id), audit.ActionUpdate, err)
		return respondAppError(c, err)
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeProposal, formatID(id), audit.ActionUpdate, audit.StatusSuccess, map[string]any{
		"status":        string(p.Status),
		"items_changed": input.Items != nil,
	})

	return c.JSON(http.StatusOK, toProposalResponse(p))
}

func (h *ProposalHandler) Delete(c echo.Context) error {
	admin, err := h.admin(c)
	if err != nil {
		return respondAppError(c, err)
	}

	id, err := parseProposalID(c)
	if err != nil {
		return respondAppError(c, err)
	}

	if err := admin.Delete(c.Request().Context(), id); err != nil {
		h.auditLogger.LogError(c, audit.ResourceTypeProposal, formatID(id), audit.ActionDelete, err)
		return respondAppError(c, err)
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeProposal, formatID(id), audit.ActionDelete, audit.StatusSuccess, nil)

	return c.NoContent(http.StatusNoContent)
}

// Sign records the Noviq signature.
func (h *ProposalHandler) Sign(c echo.Context) error {
	admin, err := h.admin(c)
	if err != nil {
		return respondAppError(c, err)
	}

	id, err := parseProposalID(c)
	if err != nil {
		return respondAppError(c, err)
	}

	var req signRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return respondAppError(c, err)
	}

	p, err := admin.Sign(c.Request().Context(), id, req.Role, req.Signature)
	if err != nil {
		h.auditLogger.LogError(c, audit.ResourceTypeProposal, formatID(id), audit.ActionSign, err)
		return respondAppError(c, err)
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeProposal, formatID(id), audit.ActionSign, audit.StatusSuccess, map[string]any{
		"role":   "noviq",
		"status": string(p.Status),
	})

	return c.JSON(http.StatusOK, toProposalResponse(p))
}

func (h *ProposalHandler) Reset(c echo.Context) error {
	admin, err := h.admin(c)
	if err != nil {
		return respondAppError(c, err)
	}

	id, err := parseProposalID(c)
	if err != nil {
		return respondAppError(c, err)
	}

	p, err := admin.Reset(c.Request().Context(), id)
	if err != nil {
		h.auditLogger.LogError(c, audit.ResourceTypeProposal, formatID(id), audit.ActionReset, err)
		return respondAppError(c, err)
	}

	h.auditLogger.LogFromContext(c, audit.ResourceTypeProposal, formatID(id), audit.ActionReset, audit.StatusSuccess, nil)

	return c.JSON(http.StatusOK, toProposalResponse(p))
}

// History returns the audit trail of a proposal, newest first.
func (h *ProposalHandler) History(c echo.Context) error {
	id, err := parseProposalID(c)
	if err != nil {
		return respondAppError(c, err)
	}

	events, err := h.auditLogger.Query(c.Request().Context(), audit.Filter{
		ResourceType: audit.ResourceTypeProposal,
		ResourceID:   formatID(id),
		Limit:        defaultHistoryLimit,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(http.StatusOK, toAuditEventResponses(events))
}
