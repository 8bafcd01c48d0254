package app

import (
	"context"
	"fmt"
	"time"

	"proposal-service/internal/domain/proposal"
	"proposal-service/internal/repository"

	"go.uber.org/zap"
)

// Seed inserts the sample agreement when the store holds no proposals. It
// reports whether a proposal was created.
func Seed(ctx context.Context, repo repository.ProposalRepository, log *zap.Logger) (bool, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count proposals: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	p, err := proposal.New(proposal.SeedInput(), time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to build seed proposal: %w", err)
	}

	created, err := repo.Create(ctx, p)
	if err != nil {
		return false, fmt.Errorf("failed to insert seed proposal: %w", err)
	}

	log.Info("seeded sample proposal", zap.Int64("proposal_id", created.ID), zap.Int("items", len(created.Items)))
	return true, nil
}
