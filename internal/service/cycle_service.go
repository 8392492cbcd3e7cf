package service

import (
	"context"
	"time"

	"ajo-circle-be/internal/dto"
	"ajo-circle-be/internal/entity"
	"ajo-circle-be/internal/pkg/logger"
	"ajo-circle-be/internal/repository/specification"
	"ajo-circle-be/internal/repository/unitofwork"
	"ajo-circle-be/pkg/events"
	pktNats "ajo-circle-be/pkg/nats"

	"github.com/google/uuid"
)

type ICycleService interface {
	// InitializeCycles lays out the full rotation for a newly activated
	// group: one cycle per slot with cycle 1 active, and every member's
	// contribution schedule anchored at the activation time. Idempotent.
	InitializeCycles(ctx context.Context, groupId uuid.UUID) error

	// SettleContribution applies a verified, processed recurring payment:
	// contribution paid, cycle total bumped, ledger posting written.
	SettleContribution(ctx context.Context, record *entity.PaymentRecord) error

	// AdvanceIfComplete completes the active cycle when every non-waived
	// contribution is paid, settles the payout, and activates the next
	// cycle or completes the group. Safe to call from any actor at any
	// time; the completion CAS picks a single settler.
	AdvanceIfComplete(ctx context.Context, groupId uuid.UUID) (advanced bool, groupCompleted bool, err error)

	ListCycles(ctx context.Context, groupId uuid.UUID) ([]*dto.CycleResponse, error)
}

type cycleService struct {
	uowFactory       unitofwork.RepositoryFactory
	eventPublisher   *pktNats.Publisher
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewCycleService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher *pktNats.Publisher,
	publisherService IPublisherService,
	log logger.ILogger,
) ICycleService {
	return &cycleService{
		uowFactory:       uowFactory,
		eventPublisher:   eventPublisher,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *cycleService) InitializeCycles(ctx context.Context, groupId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	group, err := uow.GroupRepository().FindOne(ctx, specification.ByID{ID: groupId})
	if err != nil {
		return err
	}
	if group == nil {
		return ErrGroupNotFound
	}
	if group.ActivatedAt == nil {
		return ErrGroupNotJoinable
	}
	activatedAt := *group.ActivatedAt

	cycles := make([]*entity.ContributionCycle, 0, group.TotalSlots)
	for n := 1; n <= group.TotalSlots; n++ {
		status := entity.CycleStatusPending
		var startsAt *time.Time
		if n == 1 {
			status = entity.CycleStatusActive
			startsAt = &activatedAt
		}
		cycles = append(cycles, &entity.ContributionCycle{
			Id:            uuid.New(),
			GroupId:       groupId,
			CycleNumber:   n,
			RecipientSlot: n,
			Status:        status,
			StartsAt:      startsAt,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		})
	}
	if err := uow.CycleRepository().CreateCycles(ctx, cycles); err != nil {
		return err
	}

	memberships, err := uow.MembershipRepository().FindAll(ctx,
		specification.BelongsToGroup{GroupID: groupId},
		specification.WithStatus{Status: string(entity.MembershipStatusActive)},
	)
	if err != nil {
		return err
	}

	// The schedule is fixed at activation: cycle n is due n periods in.
	// Each insert is conflict-ignored so a re-run changes nothing.
	for _, membership := range memberships {
		for n := 1; n <= group.TotalSlots; n++ {
			contribution := &entity.Contribution{
				Id:           uuid.New(),
				GroupId:      groupId,
				MembershipId: membership.Id,
				CycleNumber:  n,
				Amount:       group.ContributionAmount,
				Status:       entity.ContributionStatusPending,
				DueDate:      group.Frequency.NextDueDate(activatedAt, n),
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			}
			if _, err := uow.CycleRepository().CreateContribution(ctx, contribution); err != nil {
				return err
			}
		}
	}

	s.logger.Info("CycleService", "Cycles initialized", map[string]interface{}{
		"group_id": groupId, "cycles": group.TotalSlots, "members": len(memberships),
	})

	s.publishEvent(ctx, events.TypeGroupActivated, map[string]interface{}{
		"group_id":    groupId.String(),
		"total_slots": group.TotalSlots,
		"occurred_at": time.Now(),
	})
	return nil
}

func (s *cycleService) SettleContribution(ctx context.Context, record *entity.PaymentRecord) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	membership, err := uow.MembershipRepository().FindOne(ctx,
		specification.BelongsToGroup{GroupID: record.GroupId},
		specification.UserOwnedBy{UserID: record.UserId},
	)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrGroupNotFound
	}

	now := time.Now()
	won, err := uow.CycleRepository().MarkContributionPaid(ctx, membership.Id, record.CycleNumber, record.Reference, now)
	if err != nil {
		return err
	}
	if !won {
		// Already paid or waived; the processed CAS should have prevented
		// this, so just log and move on.
		s.logger.Warn("CycleService", "Contribution already settled", map[string]interface{}{
			"membership_id": membership.Id, "cycle": record.CycleNumber, "reference": record.Reference,
		})
		return nil
	}

	if err := uow.CycleRepository().AddCollected(ctx, record.GroupId, record.CycleNumber, record.Amount); err != nil {
		return err
	}

	// A late payment resolves the penalty its overdue contribution drew.
	contribution, err := uow.CycleRepository().FindOneContribution(ctx,
		specification.FilterBy{Field: "membership_id", Value: membership.Id},
		specification.ForCycle{CycleNumber: record.CycleNumber},
	)
	if err != nil {
		return err
	}
	if contribution != nil {
		resolved, err := uow.PenaltyRepository().ResolveApplied(ctx, contribution.Id, now)
		if err != nil {
			return err
		}
		if resolved {
			s.logger.Info("CycleService", "Penalty resolved by late payment", map[string]interface{}{
				"membership_id": membership.Id, "cycle": record.CycleNumber, "contribution_id": contribution.Id,
			})
		}
	}

	reference := record.Reference
	if err := uow.PaymentRepository().CreateTransaction(ctx, &entity.Transaction{
		Id:           uuid.New(),
		GroupId:      record.GroupId,
		MembershipId: &membership.Id,
		Type:         entity.TransactionContribution,
		Amount:       record.Amount,
		CycleNumber:  record.CycleNumber,
		Reference:    &reference,
		CreatedAt:    now,
	}); err != nil {
		return err
	}

	s.publishEvent(ctx, events.TypePaymentVerified, map[string]interface{}{
		"user_id":     record.UserId.String(),
		"group_id":    record.GroupId.String(),
		"reference":   record.Reference,
		"amount":      record.Amount,
		"cycle":       record.CycleNumber,
		"occurred_at": now,
	})
	return nil
}

func (s *cycleService) AdvanceIfComplete(ctx context.Context, groupId uuid.UUID) (bool, bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	cycle, err := uow.CycleRepository().FindOne(ctx,
		specification.BelongsToGroup{GroupID: groupId},
		specification.WithStatus{Status: string(entity.CycleStatusActive)},
	)
	if err != nil {
		return false, false, err
	}
	if cycle == nil {
		// An active group with no active cycle means a settler died between
		// completing one cycle and activating the next. Resume the rotation
		// instead of leaving it stuck.
		return s.resumeStalledRotation(ctx, uow, groupId)
	}

	now := time.Now()
	won, err := uow.CycleRepository().CompleteActiveCycle(ctx, groupId, cycle.CycleNumber, now)
	if err != nil {
		return false, false, err
	}
	if !won {
		// Either contributions remain or another settler got here first.
		return false, false, nil
	}

	group, err := uow.GroupRepository().FindOne(ctx, specification.ByID{ID: groupId})
	if err != nil {
		return true, false, err
	}

	if err := s.settlePayout(ctx, uow, group, cycle); err != nil {
		// The cycle is already completed; payout settlement failures are
		// logged for reconciliation rather than rolled back.
		s.logger.Error("CycleService", "Payout settlement failed", map[string]interface{}{
			"group_id": groupId, "cycle": cycle.CycleNumber, "error": err.Error(),
		})
		return true, false, err
	}

	s.publishEvent(ctx, events.TypeCycleCompleted, map[string]interface{}{
		"group_id":    groupId.String(),
		"cycle":       cycle.CycleNumber,
		"occurred_at": now,
	})

	nextActivated, err := uow.CycleRepository().ActivatePendingCycle(ctx, groupId, cycle.CycleNumber+1, now)
	if err != nil {
		return true, false, err
	}
	if nextActivated {
		s.logger.Info("CycleService", "Cycle advanced", map[string]interface{}{
			"group_id": groupId, "completed": cycle.CycleNumber, "active": cycle.CycleNumber + 1,
		})
		return true, false, nil
	}

	// No pending cycle left: the rotation is over.
	completed, err := uow.GroupRepository().CompleteActive(ctx, groupId)
	if err != nil {
		return true, false, err
	}
	if completed {
		s.logger.Info("CycleService", "Group completed", map[string]interface{}{"group_id": groupId})
	}
	return true, completed, nil
}

// resumeStalledRotation activates the lowest pending cycle of an active
// group that has none active, or completes the group when no cycles remain.
// The payout of the interrupted cycle is reconciled manually; this only
// restores liveness.
func (s *cycleService) resumeStalledRotation(ctx context.Context, uow unitofwork.UnitOfWork, groupId uuid.UUID) (bool, bool, error) {
	group, err := uow.GroupRepository().FindOne(ctx, specification.ByID{ID: groupId})
	if err != nil {
		return false, false, err
	}
	if group == nil || group.Status != entity.GroupStatusActive {
		return false, false, nil
	}

	pending, err := uow.CycleRepository().FindOne(ctx,
		specification.BelongsToGroup{GroupID: groupId},
		specification.WithStatus{Status: string(entity.CycleStatusPending)},
		specification.OrderBy{Field: "cycle_number"},
	)
	if err != nil {
		return false, false, err
	}
	if pending != nil {
		activated, err := uow.CycleRepository().ActivatePendingCycle(ctx, groupId, pending.CycleNumber, time.Now())
		if err != nil {
			return false, false, err
		}
		if activated {
			s.logger.Warn("CycleService", "Stalled rotation resumed", map[string]interface{}{
				"group_id": groupId, "activated": pending.CycleNumber,
			})
		}
		return false, false, nil
	}

	// Every cycle already completed; only the group flip was lost.
	completed, err := uow.GroupRepository().CompleteActive(ctx, groupId)
	if err != nil {
		return false, false, err
	}
	if completed {
		s.logger.Warn("CycleService", "Stalled group completed", map[string]interface{}{"group_id": groupId})
	}
	return false, completed, nil
}

func (s *cycleService) settlePayout(ctx context.Context, uow unitofwork.UnitOfWork, group *entity.Group, cycle *entity.ContributionCycle) error {
	recipient, err := uow.MembershipRepository().FindOne(ctx,
		specification.BelongsToGroup{GroupID: group.Id},
		specification.BySlotNumber{SlotNumber: cycle.RecipientSlot},
	)
	if err != nil {
		return err
	}
	if recipient == nil {
		return ErrGroupNotFound
	}

	// Gross is the sum of contributions actually paid for the cycle, not
	// the nominal amount * slots: waived contributions do not fund the
	// payout. All paid flips committed before the completion CAS won, so
	// the sum is stable here.
	paid, err := uow.CycleRepository().FindAllContributions(ctx,
		specification.BelongsToGroup{GroupID: group.Id},
		specification.ForCycle{CycleNumber: cycle.CycleNumber},
		specification.WithStatus{Status: string(entity.ContributionStatusPaid)},
	)
	if err != nil {
		return err
	}
	var gross int64
	for _, c := range paid {
		gross += c.Amount
	}

	fee := gross * int64(group.ServiceFeeBps) / 10000
	payout := gross - fee
	now := time.Now()

	if err := uow.PaymentRepository().CreateTransaction(ctx, &entity.Transaction{
		Id:           uuid.New(),
		GroupId:      group.Id,
		MembershipId: &recipient.Id,
		Type:         entity.TransactionPayout,
		Amount:       -payout,
		CycleNumber:  cycle.CycleNumber,
		CreatedAt:    now,
	}); err != nil {
		return err
	}
	if fee > 0 {
		if err := uow.PaymentRepository().CreateTransaction(ctx, &entity.Transaction{
			Id:          uuid.New(),
			GroupId:     group.Id,
			Type:        entity.TransactionServiceFee,
			Amount:      -fee,
			CycleNumber: cycle.CycleNumber,
			CreatedAt:   now,
		}); err != nil {
			return err
		}
	}

	s.publishEvent(ctx, events.TypePayoutSettled, map[string]interface{}{
		"group_id":    group.Id.String(),
		"user_id":     recipient.UserId.String(),
		"cycle":       cycle.CycleNumber,
		"gross":       gross,
		"fee":         fee,
		"payout":      payout,
		"occurred_at": now,
	})

	if s.publisherService != nil {
		email := s.lookupEmail(ctx, uow, recipient.UserId)
		_ = s.publisherService.PublishNotify(ctx, &dto.NotifyMessage{
			Kind:        dto.NotifyPayoutSettled,
			UserId:      recipient.UserId,
			Email:       email,
			GroupId:     group.Id,
			GroupName:   group.Name,
			CycleNumber: cycle.CycleNumber,
			Amount:      payout,
		})
	}

	s.logger.Info("CycleService", "Payout settled", map[string]interface{}{
		"group_id": group.Id, "cycle": cycle.CycleNumber, "payout": payout, "fee": fee,
	})
	return nil
}

// lookupEmail resolves a member's receipt address from their most recent
// payment attempt. Identity is external, so this is the only address the
// system ever learns.
func (s *cycleService) lookupEmail(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) string {
	records, err := uow.PaymentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: 1, Offset: 0},
	)
	if err != nil || len(records) == 0 {
		return ""
	}
	return records[0].Email
}

func (s *cycleService) ListCycles(ctx context.Context, groupId uuid.UUID) ([]*dto.CycleResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	cycles, err := uow.CycleRepository().FindAll(ctx,
		specification.BelongsToGroup{GroupID: groupId},
		specification.OrderBy{Field: "cycle_number"},
	)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.CycleResponse, 0, len(cycles))
	for _, c := range cycles {
		result = append(result, &dto.CycleResponse{
			CycleNumber:     c.CycleNumber,
			RecipientSlot:   c.RecipientSlot,
			Status:          string(c.Status),
			CollectedAmount: c.CollectedAmount,
			StartsAt:        c.StartsAt,
			CompletedAt:     c.CompletedAt,
		})
	}
	return result, nil
}

func (s *cycleService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("CycleService", "Failed to publish event", map[string]interface{}{
			"type": eventType, "error": err.Error(),
		})
	}
}
