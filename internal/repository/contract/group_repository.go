package contract

import (
	"context"
	"time"

	"ajo-circle-be/internal/entity"
	"ajo-circle-be/internal/repository/specification"

	"github.com/google/uuid"
)

// GroupRepository owns groups and their slots. Every state-changing slot
// method is a single-row conditional update; the boolean result reports
// whether this caller won the transition.
type GroupRepository interface {
	Create(ctx context.Context, group *entity.Group) error
	Update(ctx context.Context, group *entity.Group) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Group, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Group, error)

	// IncrementMemberCount bumps current_member_count while it is below
	// total_slots.
	IncrementMemberCount(ctx context.Context, groupId uuid.UUID) (bool, error)
	// ActivateIfFull flips forming -> active once the member count equals
	// the slot count. The winner is responsible for initializing cycles.
	ActivateIfFull(ctx context.Context, groupId uuid.UUID, at time.Time) (bool, error)
	// CompleteActive flips active -> completed after the final cycle.
	CompleteActive(ctx context.Context, groupId uuid.UUID) (bool, error)

	CreateSlots(ctx context.Context, slots []*entity.Slot) error
	FindOneSlot(ctx context.Context, specs ...specification.Specification) (*entity.Slot, error)
	FindAllSlots(ctx context.Context, specs ...specification.Specification) ([]*entity.Slot, error)

	// ReserveSlot transitions available (or expired-reserved) -> reserved.
	ReserveSlot(ctx context.Context, groupId uuid.UUID, slotNumber int, userId uuid.UUID, until time.Time) (bool, error)
	// AssignReservedSlot transitions reserved -> assigned, but only for the
	// user holding a still-valid reservation.
	AssignReservedSlot(ctx context.Context, groupId uuid.UUID, slotNumber int, userId uuid.UUID, now time.Time) (bool, error)
	// AssignAvailableSlot transitions available (or expired-reserved) ->
	// assigned directly, used for the "any slot" fallback.
	AssignAvailableSlot(ctx context.Context, groupId uuid.UUID, slotNumber int, userId uuid.UUID, now time.Time) (bool, error)
	// ReleaseSlot returns a reserved slot to available. No-op when the slot
	// is already available or assigned.
	ReleaseSlot(ctx context.Context, groupId uuid.UUID, slotNumber int) error
}
