package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"proposal-service/internal/domain/proposal"
	"proposal-service/internal/repository/memory"
	apperrors "proposal-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	noviqSig    = "data:image/png;base64,bm92aXE="
	licenseeSig = "data:image/png;base64,bGljZW5zZWU="
)

type stubArchiver struct {
	archived []int64
	err      error
}

func (a *stubArchiver) Archive(_ context.Context, p *proposal.Proposal) error {
	a.archived = append(a.archived, p.ID)
	return a.err
}

type stubRecorder struct {
	signatures  map[string]int
	fullySigned int
	failures    int
}

func (r *stubRecorder) SignatureRecorded(role string) { r.signatures[role]++ }
func (r *stubRecorder) ProposalFullySigned() { r.fullySigned++ }
func (r *stubRecorder) ArchiveFailed() { r.failures++ }

type fixture struct {
	policy   *Policy
	archiver *stubArchiver
	recorder *stubRecorder
	admin    *AdminCapability
	created  *proposal.Proposal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	f := &fixture{
		archiver: &stubArchiver{},
		recorder: &stubRecorder{signatures: map[string]int{}},
	}
	f.policy = NewPolicy(
		memory.NewProposalRepository(),
		func() time.Time { return now },
		f.archiver,
		f.recorder,
		zap.NewNop(),
		1<<10,
	)
	f.admin = f.policy.Admin(uuid.New())

	created, err := f.admin.Create(context.Background(), proposal.CreateInput{
		ClientName: "JHL",
		Items:      []proposal.ItemInput{{Title: "Product Modules"}},
	})
	require.NoError(t, err)
	f.created = created
	return f
}

func TestPublicSigner_LockRule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	public := f.policy.Public(f.created.ID)

	option := proposal.OptionInstallment
	_, err := public.UpdatePayment(ctx, proposal.PaymentFields{PaymentOption: &option})
	require.NoError(t, err)

	_, err = public.Sign(ctx, "", licenseeSig)
	require.NoError(t, err)

	custom := proposal.OptionCustom
	_, err = public.UpdatePayment(ctx, proposal.PaymentFields{PaymentOption: &custom})
	assert.ErrorIs(t, err, proposal.ErrProposalLocked)
	assert.ErrorIs(t, err, apperrors.ErrLocked)

	_, err = public.Sign(ctx, proposal.RoleLicensee, licenseeSig)
	assert.ErrorIs(t, err, apperrors.ErrLocked)

	got, err := public.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, proposal.OptionInstallment, got.PaymentOption)
}

func TestPublicSigner_CannotSignAsNoviq(t *testing.T) {
	f := newFixture(t)
	public := f.policy.Public(f.created.ID)

	_, err := public.Sign(context.Background(), proposal.RoleNoviq, noviqSig)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = public.Sign(context.Background(), "witness", noviqSig)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAdmin_UpdateIgnoresLock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.policy.Public(f.created.ID).Sign(ctx, "", licenseeSig)
	require.NoError(t, err)

	name := "JHL Holdings"
	updated, err := f.admin.Update(ctx, f.created.ID, proposal.UpdateInput{ClientName: &name})
	require.NoError(t, err)
	assert.Equal(t, "JHL Holdings", updated.ClientName)
}

func TestAdmin_SignBothArchivesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.admin.Sign(ctx, f.created.ID, "", noviqSig)
	require.NoError(t, err)
	assert.Empty(t, f.archiver.archived)

	signed, err := f.policy.Public(f.created.ID).Sign(ctx, "", licenseeSig)
	require.NoError(t, err)
	assert.Equal(t, proposal.StatusSigned, signed.Status)
	assert.Equal(t, []int64{f.created.ID}, f.archiver.archived)
	assert.Equal(t, 1, f.recorder.fullySigned)

	_, err = f.admin.Sign(ctx, f.created.ID, proposal.RoleNoviq, noviqSig)
	require.NoError(t, err)
	assert.Len(t, f.archiver.archived, 1)
	assert.Equal(t, 2, f.recorder.signatures["noviq"])
	assert.Equal(t, 1, f.recorder.signatures["licensee"])
}

func TestAdmin_ArchiveFailureDoesNotFailSigning(t *testing.T) {
	f := newFixture(t)
	f.archiver.err = errors.New("bucket unavailable")
	ctx := context.Background()

	_, err := f.admin.Sign(ctx, f.created.ID, "", noviqSig)
	require.NoError(t, err)
	signed, err := f.policy.Public(f.created.ID).Sign(ctx, "", licenseeSig)
	require.NoError(t, err)

	assert.Equal(t, proposal.StatusSigned, signed.Status)
	assert.Equal(t, 1, f.recorder.failures)
}

func TestAdmin_CannotSignAsLicensee(t *testing.T) {
	f := newFixture(t)

	_, err := f.admin.Sign(context.Background(), f.created.ID, proposal.RoleLicensee, licenseeSig)
	assert.ErrorIs(t, err, proposal.ErrForbiddenRole)
}

func TestAdmin_ResetReopens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	public := f.policy.Public(f.created.ID)

	_, err := f.admin.Sign(ctx, f.created.ID, "", noviqSig)
	require.NoError(t, err)
	_, err = public.Sign(ctx, "", licenseeSig)
	require.NoError(t, err)

	reset, err := f.admin.Reset(ctx, f.created.ID)
	require.NoError(t, err)
	assert.Equal(t, proposal.StatusDraft, reset.Status)
	assert.Empty(t, reset.NoviqSignature)
	assert.Nil(t, reset.LicenseeSignDate)

	_, err = public.Sign(ctx, "", licenseeSig)
	assert.NoError(t, err)
}

func TestSign_RejectsMalformedSignature(t *testing.T) {
	f := newFixture(t)

	_, err := f.admin.Sign(context.Background(), f.created.ID, "", "not a signature")
	var verr *proposal.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, proposal.FieldSignature, verr.Field)

	fee := decimal.NewFromInt(1)
	_, err = f.admin.Update(context.Background(), f.created.ID, proposal.UpdateInput{
		TotalDevelopmentFee: &fee,
		NoviqSignature:      stringPtr("http://insecure.example/sig.png"),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestPublicSigner_UnknownProposal(t *testing.T) {
	f := newFixture(t)

	_, err := f.policy.Public(9999).Get(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func stringPtr(s string) *string {
	return &s
}
