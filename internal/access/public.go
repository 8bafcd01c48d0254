package access

import (
	"context"

	"proposal-service/internal/domain/proposal"
)

// PublicSignerCapability is what a shared link allows on a single proposal:
// read it, change the payment fields and sign as licensee. Mutations stop once
// the licensee has signed.
type PublicSignerCapability struct {
	policy *Policy
	id     int64
}

func (s *PublicSignerCapability) ProposalID() int64 {
	return s.id
}

func (s *PublicSignerCapability) Get(ctx context.Context) (*proposal.Proposal, error) {
	return s.policy.repo.Get(ctx, s.id)
}

func (s *PublicSignerCapability) UpdatePayment(ctx context.Context, fields proposal.PaymentFields) (*proposal.Proposal, error) {
	return s.policy.update(ctx, s.id, func(p *proposal.Proposal) error {
		return p.ApplyPayment(fields, s.policy.now())
	})
}

// Sign records the licensee signature. An empty role means licensee.
func (s *PublicSignerCapability) Sign(ctx context.Context, role proposal.Role, signature string) (*proposal.Proposal, error) {
	if role == "" {
		role = proposal.RoleLicensee
	}
	if err := proposal.ValidateRole(role); err != nil {
		return nil, err
	}
	if role != proposal.RoleLicensee {
		return nil, proposal.ErrForbiddenRole
	}
	return s.policy.sign(ctx, s.id, role, signature)
}
