package handler

import (
	"context"
	"net/http"
	"testing"

	"proposal-service/internal/domain/proposal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicHandler_Get(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)

	rec := env.do(t, env.public.Get, call{method: http.MethodGet, id: idOf(p)})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "JHL", decode[proposalResponse](t, rec).ClientName)

	rec = env.do(t, env.public.Get, call{method: http.MethodGet, id: "999"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, env.public.Get, call{method: http.MethodGet, id: "-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublicHandler_UpdatePaymentTerms(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)

	rec := env.do(t, env.public.Update, call{
		method: http.MethodPut,
		id:     idOf(p),
		body:   `{"paymentOption":"custom","paymentTerms":{"upfrontPercent":20,"installments":4},"domainPackageFee":"100.50"}`,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[proposalResponse](t, rec)
	assert.Equal(t, "custom", string(resp.PaymentOption))
	require.NotNil(t, resp.PaymentTerms)
	assert.Equal(t, float64(20), resp.PaymentTerms.UpfrontPercent)
	require.NotNil(t, resp.DomainPackageFee)
	assert.Equal(t, "100.5", *resp.DomainPackageFee)
	assert.Equal(t, "1000.50", resp.Schedule.GrandTotal)
	assert.Equal(t, "200.10", resp.Schedule.Upfront)
	assert.Equal(t, 4, resp.Schedule.Months)
}

func TestPublicHandler_UpdateNullClearsDomainFee(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)

	rec := env.do(t, env.public.Update, call{method: http.MethodPut, id: idOf(p), body: `{"domainPackageFee":null}`})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[proposalResponse](t, rec).DomainPackageFee)
}

func TestPublicHandler_UpdateRejectsAdminFields(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)

	for _, body := range []string{
		`{"clientName":"Hacker"}`,
		`{"paymentOption":"custom","clientName":"Hacker"}`,
	} {
		rec := env.do(t, env.public.Update, call{method: http.MethodPut, id: idOf(p), body: body})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "clientName", decode[ErrorResponse](t, rec).Field)
	}

	stored, err := env.policy.Public(p.ID).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "JHL", stored.ClientName)
	assert.Equal(t, proposal.OptionMilestone, stored.PaymentOption)
}

func TestPublicHandler_LockedAfterLicenseeSigns(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)
	id := idOf(p)

	rec := env.do(t, env.public.Sign, call{method: http.MethodPost, id: id, body: `{"signature":"` + testSignature + `"}`})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[proposalResponse](t, rec)
	require.NotNil(t, resp.LicenseeSignature)
	assert.Equal(t, "draft", string(resp.Status))

	rec = env.do(t, env.public.Update, call{method: http.MethodPut, id: id, body: `{"paymentOption":"custom"}`})
	require.Equal(t, http.StatusLocked, rec.Code)
	assert.Equal(t, "PROPOSAL_LOCKED", decode[ErrorResponse](t, rec).Code)

	rec = env.do(t, env.public.Sign, call{method: http.MethodPost, id: id, body: `{"signature":"` + testSignature + `"}`})
	assert.Equal(t, http.StatusLocked, rec.Code)
}

func TestPublicHandler_SignRoles(t *testing.T) {
	env := newTestEnv(t)
	p := env.seed(t)

	rec := env.do(t, env.public.Sign, call{method: http.MethodPost, id: idOf(p), body: `{"role":"noviq","signature":"` + testSignature + `"}`})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, env.public.Sign, call{method: http.MethodPost, id: idOf(p), body: `{"role":"owner","signature":"` + testSignature + `"}`})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "role", decode[ErrorResponse](t, rec).Field)

	rec = env.do(t, env.public.Sign, call{method: http.MethodPost, id: idOf(p), body: `{"signature":"not-an-image"}`})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "signature", decode[ErrorResponse](t, rec).Field)
}
