package contract

import (
	"context"
	"time"

	"ajo-circle-be/internal/entity"
	"ajo-circle-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PenaltyRepository interface {
	// CreateIfAbsent inserts a penalty unless the contribution already has
	// one; created reports whether this call inserted the row.
	CreateIfAbsent(ctx context.Context, penalty *entity.Penalty) (created bool, err error)
	// ResolveApplied flips a contribution's penalty applied -> paid.
	// No-op when the contribution never drew a penalty or it was already
	// resolved.
	ResolveApplied(ctx context.Context, contributionId uuid.UUID, at time.Time) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Penalty, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Penalty, error)
}
