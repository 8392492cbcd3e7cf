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

type IMembershipService interface {
	// Activate turns a verified entry payment into a membership. The
	// processed CAS picks exactly one winner; losers get the existing
	// membership back with no new side effects.
	Activate(ctx context.Context, record *entity.PaymentRecord) (*entity.Membership, error)

	ListMembers(ctx context.Context, groupId uuid.UUID) ([]*dto.MembershipResponse, error)
}

type membershipService struct {
	uowFactory       unitofwork.RepositoryFactory
	slotService      ISlotService
	cycleService     ICycleService
	eventPublisher   *pktNats.Publisher
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewMembershipService(
	uowFactory unitofwork.RepositoryFactory,
	slotService ISlotService,
	cycleService ICycleService,
	eventPublisher *pktNats.Publisher,
	publisherService IPublisherService,
	log logger.ILogger,
) IMembershipService {
	return &membershipService{
		uowFactory:       uowFactory,
		slotService:      slotService,
		cycleService:     cycleService,
		eventPublisher:   eventPublisher,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *membershipService) Activate(ctx context.Context, record *entity.PaymentRecord) (*entity.Membership, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if record.VerificationStatus != entity.VerificationStatusVerified {
		return nil, ErrPaymentNotFound
	}

	now := time.Now()
	won, err := uow.PaymentRepository().MarkProcessed(ctx, record.Reference, now)
	if err != nil {
		return nil, err
	}
	if !won {
		// Someone else activated (or is activating) this reference.
		// Success-no-op: hand back whatever membership exists.
		membership, err := uow.MembershipRepository().FindOne(ctx,
			specification.BelongsToGroup{GroupID: record.GroupId},
			specification.UserOwnedBy{UserID: record.UserId},
		)
		if err != nil {
			return nil, err
		}
		if membership == nil {
			// The winner is still mid-activation.
			return nil, ErrAlreadyProcessed
		}
		return membership, nil
	}

	group, err := uow.GroupRepository().FindOne(ctx, specification.ByID{ID: record.GroupId})
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	slotNumber, err := s.slotService.Assign(ctx, record.GroupId, record.UserId, record.SlotPreference)
	if err != nil {
		return nil, err
	}

	// From here on the slot assignment is durable. Failures below are
	// surfaced for reconciliation, never rolled back.
	membership := &entity.Membership{
		Id:           uuid.New(),
		GroupId:      record.GroupId,
		UserId:       record.UserId,
		SlotNumber:   slotNumber,
		HasPaidEntry: true,
		Status:       entity.MembershipStatusActive,
		JoinedAt:     &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.MembershipRepository().Create(ctx, membership); err != nil {
		s.logger.Error("MembershipService", "Membership create failed after slot assignment", map[string]interface{}{
			"reference": record.Reference, "slot": slotNumber, "error": err.Error(),
		})
		return nil, err
	}

	if err := s.postEntrySettlement(ctx, uow, group, membership, record, now); err != nil {
		s.logger.Error("MembershipService", "Entry settlement incomplete", map[string]interface{}{
			"reference": record.Reference, "membership_id": membership.Id, "error": err.Error(),
		})
		return membership, err
	}

	if _, err := uow.GroupRepository().IncrementMemberCount(ctx, record.GroupId); err != nil {
		return membership, err
	}
	activated, err := uow.GroupRepository().ActivateIfFull(ctx, record.GroupId, now)
	if err != nil {
		return membership, err
	}
	if activated {
		if err := s.cycleService.InitializeCycles(ctx, record.GroupId); err != nil {
			return membership, err
		}
	}

	s.publishEvent(ctx, events.TypeMemberActivated, map[string]interface{}{
		"user_id":     record.UserId.String(),
		"group_id":    record.GroupId.String(),
		"slot":        slotNumber,
		"reference":   record.Reference,
		"occurred_at": now,
	})
	if s.publisherService != nil {
		_ = s.publisherService.PublishNotify(ctx, &dto.NotifyMessage{
			Kind:       dto.NotifyMemberActivated,
			UserId:     record.UserId,
			Email:      record.Email,
			GroupId:    record.GroupId,
			GroupName:  group.Name,
			SlotNumber: slotNumber,
			Reference:  record.Reference,
			Amount:     record.Amount,
		})
	}

	s.logger.Info("MembershipService", "Member activated", map[string]interface{}{
		"group_id": record.GroupId, "user_id": record.UserId, "slot": slotNumber,
	})
	return membership, nil
}

// postEntrySettlement books the opening contribution and the entry ledger
// rows. The opening contribution is cycle 0: it is settled by the entry
// payment itself and never blocks cycle progression.
func (s *membershipService) postEntrySettlement(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	group *entity.Group,
	membership *entity.Membership,
	record *entity.PaymentRecord,
	now time.Time,
) error {
	reference := record.Reference

	opening := &entity.Contribution{
		Id:               uuid.New(),
		GroupId:          group.Id,
		MembershipId:     membership.Id,
		CycleNumber:      0,
		Amount:           group.ContributionAmount,
		Status:           entity.ContributionStatusPaid,
		DueDate:          now,
		PaidAt:           &now,
		PaymentReference: &reference,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := uow.CycleRepository().CreateContribution(ctx, opening); err != nil {
		return err
	}

	deposit := record.Amount - group.ContributionAmount
	if err := uow.PaymentRepository().CreateTransaction(ctx, &entity.Transaction{
		Id:           uuid.New(),
		GroupId:      group.Id,
		MembershipId: &membership.Id,
		Type:         entity.TransactionEntryPayment,
		Amount:       group.ContributionAmount,
		Reference:    &reference,
		CreatedAt:    now,
	}); err != nil {
		return err
	}
	if deposit > 0 {
		if err := uow.PaymentRepository().CreateTransaction(ctx, &entity.Transaction{
			Id:           uuid.New(),
			GroupId:      group.Id,
			MembershipId: &membership.Id,
			Type:         entity.TransactionSecurityDeposit,
			Amount:       deposit,
			Reference:    &reference,
			CreatedAt:    now,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *membershipService) ListMembers(ctx context.Context, groupId uuid.UUID) ([]*dto.MembershipResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	memberships, err := uow.MembershipRepository().FindAll(ctx,
		specification.BelongsToGroup{GroupID: groupId},
		specification.OrderBy{Field: "slot_number"},
	)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.MembershipResponse, 0, len(memberships))
	for _, m := range memberships {
		result = append(result, &dto.MembershipResponse{
			Id:           m.Id,
			GroupId:      m.GroupId,
			UserId:       m.UserId,
			SlotNumber:   m.SlotNumber,
			Status:       string(m.Status),
			HasPaidEntry: m.HasPaidEntry,
			JoinedAt:     m.JoinedAt,
		})
	}
	return result, nil
}

func (s *membershipService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("MembershipService", "Failed to publish event", map[string]interface{}{
			"type": eventType, "error": err.Error(),
		})
	}
}
