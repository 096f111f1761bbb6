package dashboard

import (
	"context"

	"go.uber.org/zap"

	"climatejobs/internal/domain/auth"
	"climatejobs/internal/logger"
	"climatejobs/internal/pkg/geo"
)

const ViewGovernment = "government"

type Service struct {
	repo *Repository
	log  *zap.Logger
}

func NewService(repo *Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: logger.OrNop(log)}
}

// Stats returns the government view for job creators and admins (or when
// explicitly requested) and the worker view otherwise. Admins see totals
// across all jobs.
func (s *Service) Stats(ctx context.Context, actor auth.Identity, view string) (any, error) {
	if view == ViewGovernment || actor.Can(auth.PermManageJobs) {
		creator := actor.UserID
		if actor.IsAdmin() {
			creator = ""
		}
		stats, err := s.repo.GovernmentStats(ctx, creator)
		if err != nil {
			return nil, err
		}
		stats.TotalSpent = geo.Round2(stats.TotalSpent)
		return stats, nil
	}

	stats, err := s.repo.WorkerStats(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	stats.TotalEarned = geo.Round2(stats.TotalEarned)
	stats.PendingEarnings = geo.Round2(stats.PendingEarnings)
	return stats, nil
}

func (s *Service) ClimateImpact(ctx context.Context) (*ClimateImpact, error) {
	impact, err := s.repo.ClimateImpact(ctx)
	if err != nil {
		return nil, err
	}
	impact.TotalCO2OffsetKG = impact.TotalTreesPlanted * co2PerTreeKG
	impact.TotalIncomeGenerated = geo.Round2(impact.TotalIncomeGenerated)
	return impact, nil
}
