package cycles

import (
	"context"

	"kmfi/internal/domain"
	"kmfi/internal/ports"
)

type Service struct {
	repo ports.CycleRepository
}

func New(repo ports.CycleRepository) *Service { return &Service{repo: repo} }

func (s *Service) Get(ctx context.Context, cycleID string) (domain.Cycle, error) {
	return s.repo.GetCycle(ctx, cycleID)
}

// Previous returns the cycle linked by previous_id, if any.
func (s *Service) Previous(ctx context.Context, cycleID string) (domain.Cycle, bool, error) {
	c, err := s.repo.GetCycle(ctx, cycleID)
	if err != nil {
		return domain.Cycle{}, false, err
	}
	if c.PreviousID == nil || *c.PreviousID == "" {
		return domain.Cycle{}, false, nil
	}
	prev, err := s.repo.GetCycle(ctx, *c.PreviousID)
	if err != nil {
		return domain.Cycle{}, false, err
	}
	return prev, true, nil
}

// EnsureUnlocked fails with ports.ErrLocked for locked cycles; those accept
// no writes, recomputed snapshots included.
func (s *Service) EnsureUnlocked(ctx context.Context, cycleID string) error {
	c, err := s.repo.GetCycle(ctx, cycleID)
	if err != nil {
		return err
	}
	if c.Locked {
		return ports.ErrLocked
	}
	return nil
}
