package access

import (
	"context"

	"proposal-service/internal/domain/proposal"

	"github.com/google/uuid"
)

// AdminCapability is everything an authenticated admin may do. None of it is
// subject to the licensee lock.
type AdminCapability struct {
	policy *Policy
	userID uuid.UUID
}

func (a *AdminCapability) UserID() uuid.UUID {
	return a.userID
}

func (a *AdminCapability) List(ctx context.Context) ([]*proposal.Proposal, error) {
	return a.policy.repo.List(ctx)
}

func (a *AdminCapability) Get(ctx context.Context, id int64) (*proposal.Proposal, error) {
	return a.policy.repo.Get(ctx, id)
}

func (a *AdminCapability) Create(ctx context.Context, input proposal.CreateInput) (*proposal.Proposal, error) {
	p, err := proposal.New(input, a.policy.now())
	if err != nil {
		return nil, err
	}
	return a.policy.repo.Create(ctx, p)
}

func (a *AdminCapability) Update(ctx context.Context, id int64, input proposal.UpdateInput) (*proposal.Proposal, error) {
	for _, sig := range []*string{input.NoviqSignature, input.LicenseeSignature} {
		if sig == nil || *sig == "" {
			continue
		}
		if err := a.policy.validateSignature(*sig); err != nil {
			return nil, err
		}
	}

	return a.policy.update(ctx, id, func(p *proposal.Proposal) error {
		return p.Apply(input, a.policy.now())
	})
}

func (a *AdminCapability) Delete(ctx context.Context, id int64) error {
	return a.policy.repo.Delete(ctx, id)
}

// Sign records the Noviq signature. An empty role means noviq; the licensee
// signs through the shared link only.
func (a *AdminCapability) Sign(ctx context.Context, id int64, role proposal.Role, signature string) (*proposal.Proposal, error) {
	if role == "" {
		role = proposal.RoleNoviq
	}
	if err := proposal.ValidateRole(role); err != nil {
		return nil, err
	}
	if role != proposal.RoleNoviq {
		return nil, proposal.ErrForbiddenRole
	}
	return a.policy.sign(ctx, id, role, signature)
}

// Reset clears both signatures and re-opens the proposal as a draft.
func (a *AdminCapability) Reset(ctx context.Context, id int64) (*proposal.Proposal, error) {
	return a.policy.update(ctx, id, func(p *proposal.Proposal) error {
		p.ResetToDraft(a.policy.now())
		return nil
	})
}
