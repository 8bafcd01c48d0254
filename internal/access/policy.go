// Package access decides which proposal operations an actor may perform.
// Admins get an AdminCapability; holders of a shared link get a
// PublicSignerCapability scoped to one proposal.
package access

import (
	"context"
	"time"

	"proposal-service/internal/domain/proposal"
	"proposal-service/internal/repository"
	"proposal-service/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const archiveTimeout = 10 * time.Second

// Archiver stores a snapshot of a proposal that just became fully signed.
type Archiver interface {
	Archive(ctx context.Context, p *proposal.Proposal) error
}

// Recorder receives signing counters.
type Recorder interface {
	SignatureRecorded(role string)
	ProposalFullySigned()
	ArchiveFailed()
}

type Policy struct {
	repo              repository.ProposalRepository
	now               func() time.Time
	archiver          Archiver
	metrics           Recorder
	logger            *zap.Logger
	maxSignatureBytes int
}

func NewPolicy(
	repo repository.ProposalRepository,
	clock func() time.Time,
	archiver Archiver,
	metrics Recorder,
	logger *zap.Logger,
	maxSignatureBytes int,
) *Policy {
	if clock == nil {
		clock = time.Now
	}
	return &Policy{
		repo:              repo,
		now:               clock,
		archiver:          archiver,
		metrics:           metrics,
		logger:            logger,
		maxSignatureBytes: maxSignatureBytes,
	}
}

// Admin returns the full capability set for an authenticated admin.
func (p *Policy) Admin(userID uuid.UUID) *AdminCapability {
	return &AdminCapability{policy: p, userID: userID}
}

// Public returns the capability set of a shared link for proposal id.
func (p *Policy) Public(id int64) *PublicSignerCapability {
	return &PublicSignerCapability{policy: p, id: id}
}

// update runs mutate under the repository row lock and reports a transition
// into signed once the write has committed.
func (p *Policy) update(ctx context.Context, id int64, mutate repository.MutateFunc) (*proposal.Proposal, error) {
	var wasSigned bool
	updated, err := p.repo.Update(ctx, id, func(current *proposal.Proposal) error {
		wasSigned = current.Status == proposal.StatusSigned
		return mutate(current)
	})
	if err != nil {
		return nil, err
	}

	if !wasSigned && updated.Status == proposal.StatusSigned {
		p.fullySigned(ctx, updated)
	}

	return updated, nil
}

func (p *Policy) sign(ctx context.Context, id int64, role proposal.Role, signature string) (*proposal.Proposal, error) {
	if err := p.validateSignature(signature); err != nil {
		return nil, err
	}

	updated, err := p.update(ctx, id, func(current *proposal.Proposal) error {
		return current.RecordSignature(role, signature, p.now())
	})
	if err != nil {
		return nil, err
	}

	p.metrics.SignatureRecorded(string(role))
	return updated, nil
}

func (p *Policy) fullySigned(ctx context.Context, signed *proposal.Proposal) {
	p.metrics.ProposalFullySigned()

	if p.archiver == nil {
		return
	}

	archiveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()

	if err := p.archiver.Archive(archiveCtx, signed); err != nil {
		p.metrics.ArchiveFailed()
		p.logger.Error("failed to archive signed proposal",
			zap.Int64("proposal_id", signed.ID),
			zap.Error(err),
		)
	}
}

func (p *Policy) validateSignature(signature string) error {
	if err := validator.Signature(signature, p.maxSignatureBytes); err != nil {
		return proposal.NewValidationError(proposal.FieldSignature, err.Error())
	}
	return nil
}
