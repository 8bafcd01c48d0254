package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"proposal-service/internal/access"
	"proposal-service/internal/audit"
	"proposal-service/internal/auth"
	"proposal-service/internal/domain/proposal"
	"proposal-service/internal/repository/memory"
	"proposal-service/pkg/metrics"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSignature = "data:image/png;base64,iVBORw0KGgo="

type testEnv struct {
	e      *echo.Echo
	policy *access.Policy
	audit  *audit.Logger
	admin  *ProposalHandler
	public *PublicHandler
	userID uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	auditLogger := audit.NewLogger(audit.NewMemoryStore(), zap.NewNop())
	policy := access.NewPolicy(memory.NewProposalRepository(), nil, nil, metrics.New(), zap.NewNop(), 1<<16)

	return &testEnv{
		e:      echo.New(),
		policy: policy,
		audit:  auditLogger,
		admin:  NewProposalHandler(policy, auditLogger),
		public: NewPublicHandler(policy, auditLogger),
		userID: uuid.New(),
	}
}

type call struct {
	method string
	body   string
	id     string
	admin  bool
}

func (env *testEnv) do(t *testing.T, h echo.HandlerFunc, c call) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if c.body == "" {
		req = httptest.NewRequest(c.method, "/", nil)
	} else {
		req = httptest.NewRequest(c.method, "/", strings.NewReader(c.body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	ctx := env.e.NewContext(req, rec)
	if c.id != "" {
		ctx.SetParamNames(paramID)
		ctx.SetParamValues(c.id)
	}
	if c.admin {
		ctx.Set(auth.ContextKeyUserID, env.userID)
	}

	require.NoError(t, h(ctx))
	return rec
}

func (env *testEnv) seed(t *testing.T) *proposal.Proposal {
	t.Helper()

	p, err := env.policy.Admin(env.userID).Create(context.Background(), proposal.CreateInput{
		ClientName: "JHL",
		Items: []proposal.ItemInput{
			{Title: "Product Modules"},
			{Title: "Intelligence"},
		},
	})
	require.NoError(t, err)
	return p
}

func idOf(p *proposal.Proposal) string {
	return strconv.FormatInt(p.ID, 10)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (env *testEnv) historyFilter(id string) audit.Filter {
	return audit.Filter{ResourceType: audit.ResourceTypeProposal, ResourceID: id}
}
