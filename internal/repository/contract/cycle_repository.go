package contract

import (
	"context"
	"time"

	"ajo-circle-be/internal/entity"
	"ajo-circle-be/internal/repository/specification"

	"github.com/google/uuid"
)

// CycleRepository owns contribution cycles and the per-member contribution
// rows beneath them.
type CycleRepository interface {
	CreateCycles(ctx context.Context, cycles []*entity.ContributionCycle) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ContributionCycle, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ContributionCycle, error)

	// CompleteActiveCycle flips active -> completed, but only when no
	// pending or overdue contribution remains for the cycle. The completion
	// check and the transition are one conditional update; only the winner
	// may settle the payout.
	CompleteActiveCycle(ctx context.Context, groupId uuid.UUID, cycleNumber int, at time.Time) (bool, error)
	// ActivatePendingCycle flips pending -> active for the next cycle.
	ActivatePendingCycle(ctx context.Context, groupId uuid.UUID, cycleNumber int, at time.Time) (bool, error)
	// AddCollected accumulates a settled contribution into the cycle total.
	AddCollected(ctx context.Context, groupId uuid.UUID, cycleNumber int, amount int64) error

	// CreateContribution inserts a contribution unless one already exists
	// for the (membership, cycle) pair.
	CreateContribution(ctx context.Context, contribution *entity.Contribution) (created bool, err error)
	FindOneContribution(ctx context.Context, specs ...specification.Specification) (*entity.Contribution, error)
	FindAllContributions(ctx context.Context, specs ...specification.Specification) ([]*entity.Contribution, error)

	// MarkContributionPaid flips pending/overdue -> paid.
	MarkContributionPaid(ctx context.Context, membershipId uuid.UUID, cycleNumber int, reference string, at time.Time) (bool, error)
	// MarkContributionOverdue flips pending -> overdue for a past-due row.
	MarkContributionOverdue(ctx context.Context, contributionId uuid.UUID, asOf time.Time) (bool, error)
}
