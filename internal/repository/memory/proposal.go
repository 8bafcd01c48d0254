package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"proposal-service/internal/domain/proposal"
	"proposal-service/internal/repository"
	apperrors "proposal-service/pkg/errors"
)

const errProposalNotFound = "proposal not found"

var _ repository.ProposalRepository = (*ProposalRepository)(nil)

// ProposalRepository keeps proposals in process. A single mutex serializes
// writers, which gives Update the same isolation as a row lock.
type ProposalRepository struct {
	mu         sync.Mutex
	proposals  map[int64]*proposal.Proposal
	nextID     int64
	nextItemID int64
	now        func() time.Time
}

func NewProposalRepository() *ProposalRepository {
	return &ProposalRepository{
		proposals: make(map[int64]*proposal.Proposal),
		now:       time.Now,
	}
}

func (r *ProposalRepository) List(_ context.Context) ([]*proposal.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	proposals := make([]*proposal.Proposal, 0, len(r.proposals))
	for _, p := range r.proposals {
		proposals = append(proposals, p.Clone())
	}

	sort.Slice(proposals, func(i, j int) bool {
		if proposals[i].CreatedAt.Equal(proposals[j].CreatedAt) {
			return proposals[i].ID > proposals[j].ID
		}
		return proposals[i].CreatedAt.After(proposals[j].CreatedAt)
	})

	return proposals, nil
}

func (r *ProposalRepository) Get(_ context.Context, id int64) (*proposal.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.proposals[id]
	if !ok {
		return nil, apperrors.NotFound(errProposalNotFound)
	}
	return p.Clone(), nil
}

func (r *ProposalRepository) Create(_ context.Context, p *proposal.Proposal) (*proposal.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := p.Clone()
	stored.ID = r.nextID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.now()
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = stored.CreatedAt
	}
	r.assignItemIDs(stored)

	r.proposals[stored.ID] = stored
	return stored.Clone(), nil
}

func (r *ProposalRepository) Update(_ context.Context, id int64, mutate repository.MutateFunc) (*proposal.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.proposals[id]
	if !ok {
		return nil, apperrors.NotFound(errProposalNotFound)
	}

	next := current.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	if !next.UpdatedAt.After(current.UpdatedAt) {
		next.UpdatedAt = r.now()
	}
	r.assignItemIDs(next)

	r.proposals[id] = next
	return next.Clone(), nil
}

func (r *ProposalRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.proposals[id]; !ok {
		return apperrors.NotFound(errProposalNotFound)
	}
	delete(r.proposals, id)
	return nil
}

func (r *ProposalRepository) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.proposals), nil
}

func (r *ProposalRepository) assignItemIDs(p *proposal.Proposal) {
	for i := range p.Items {
		p.Items[i].ProposalID = p.ID
		if p.Items[i].ID == 0 {
			r.nextItemID++
			p.Items[i].ID = r.nextItemID
		}
	}
}
