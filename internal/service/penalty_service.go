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

type IPenaltyService interface {
	// ScanOverdue flips past-due pending contributions to overdue and
	// applies one penalty per contribution. Idempotent: concurrent scans
	// race on the per-row status CAS and only the winner creates the
	// penalty.
	ScanOverdue(ctx context.Context, asOf time.Time) (int, error)

	// RunScheduledScan is the endpoint behind POST /api/internal/scan:
	// penalty scan plus a completion attempt for every active group.
	RunScheduledScan(ctx context.Context) (*dto.ScanResponse, error)
}

type penaltyService struct {
	uowFactory       unitofwork.RepositoryFactory
	cycleService     ICycleService
	eventPublisher   *pktNats.Publisher
	publisherService IPublisherService
	defaultRateBps   int
	logger           logger.ILogger
}

func NewPenaltyService(
	uowFactory unitofwork.RepositoryFactory,
	cycleService ICycleService,
	eventPublisher *pktNats.Publisher,
	publisherService IPublisherService,
	defaultRateBps int,
	log logger.ILogger,
) IPenaltyService {
	return &penaltyService{
		uowFactory:       uowFactory,
		cycleService:     cycleService,
		eventPublisher:   eventPublisher,
		publisherService: publisherService,
		defaultRateBps:   defaultRateBps,
		logger:           log,
	}
}

func (s *penaltyService) ScanOverdue(ctx context.Context, asOf time.Time) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	overdue, err := uow.CycleRepository().FindAllContributions(ctx,
		specification.WithStatus{Status: string(entity.ContributionStatusPending)},
		specification.DueBefore{AsOf: asOf},
	)
	if err != nil {
		return 0, err
	}
	if len(overdue) == 0 {
		return 0, nil
	}

	// One group lookup per distinct group, for the penalty rate.
	rates := make(map[uuid.UUID]int)
	applied := 0

	for _, contribution := range overdue {
		won, err := uow.CycleRepository().MarkContributionOverdue(ctx, contribution.Id, asOf)
		if err != nil {
			return applied, err
		}
		if !won {
			continue
		}

		rate, ok := rates[contribution.GroupId]
		if !ok {
			rate = s.defaultRateBps
			group, err := uow.GroupRepository().FindOne(ctx, specification.ByID{ID: contribution.GroupId})
			if err == nil && group != nil && group.PenaltyRateBps > 0 {
				rate = group.PenaltyRateBps
			}
			rates[contribution.GroupId] = rate
		}

		amount := contribution.Amount * int64(rate) / 10000
		penalty := &entity.Penalty{
			Id:             uuid.New(),
			GroupId:        contribution.GroupId,
			MembershipId:   contribution.MembershipId,
			ContributionId: contribution.Id,
			Amount:         amount,
			Status:         entity.PenaltyStatusApplied,
			CreatedAt:      asOf,
			UpdatedAt:      asOf,
		}
		created, err := uow.PenaltyRepository().CreateIfAbsent(ctx, penalty)
		if err != nil {
			return applied, err
		}
		if !created {
			continue
		}
		applied++

		s.publishEvent(ctx, events.TypePenaltyApplied, map[string]interface{}{
			"group_id":        contribution.GroupId.String(),
			"membership_id":   contribution.MembershipId.String(),
			"contribution_id": contribution.Id.String(),
			"cycle":           contribution.CycleNumber,
			"amount":          amount,
			"occurred_at":     asOf,
		})
		s.notifyOverdue(ctx, uow, contribution, amount)
	}

	if applied > 0 {
		s.logger.Info("PenaltyService", "Overdue scan applied penalties", map[string]interface{}{
			"applied": applied, "as_of": asOf,
		})
	}
	return applied, nil
}

func (s *penaltyService) RunScheduledScan(ctx context.Context) (*dto.ScanResponse, error) {
	applied, err := s.ScanOverdue(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	groups, err := uow.GroupRepository().FindAll(ctx,
		specification.WithStatus{Status: string(entity.GroupStatusActive)},
	)
	if err != nil {
		return nil, err
	}

	advanced, completed := 0, 0
	for _, group := range groups {
		didAdvance, didComplete, err := s.cycleService.AdvanceIfComplete(ctx, group.Id)
		if err != nil {
			s.logger.Error("PenaltyService", "Advance attempt failed during scan", map[string]interface{}{
				"group_id": group.Id, "error": err.Error(),
			})
			continue
		}
		if didAdvance {
			advanced++
		}
		if didComplete {
			completed++
		}
	}

	return &dto.ScanResponse{
		PenaltiesApplied: applied,
		CyclesAdvanced:   advanced,
		GroupsCompleted:  completed,
	}, nil
}

func (s *penaltyService) notifyOverdue(ctx context.Context, uow unitofwork.UnitOfWork, contribution *entity.Contribution, penaltyAmount int64) {
	if s.publisherService == nil {
		return
	}
	membership, err := uow.MembershipRepository().FindOne(ctx, specification.ByID{ID: contribution.MembershipId})
	if err != nil || membership == nil {
		return
	}
	groupName := ""
	if group, err := uow.GroupRepository().FindOne(ctx, specification.ByID{ID: contribution.GroupId}); err == nil && group != nil {
		groupName = group.Name
	}
	email := ""
	if records, err := uow.PaymentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: membership.UserId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: 1, Offset: 0},
	); err == nil && len(records) > 0 {
		email = records[0].Email
	}
	_ = s.publisherService.PublishNotify(ctx, &dto.NotifyMessage{
		Kind:        dto.NotifyOverduePenalty,
		UserId:      membership.UserId,
		Email:       email,
		GroupId:     contribution.GroupId,
		GroupName:   groupName,
		CycleNumber: contribution.CycleNumber,
		Amount:      contribution.Amount,
		Penalty:     penaltyAmount,
	})
}

func (s *penaltyService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("PenaltyService", "Failed to publish event", map[string]interface{}{
			"type": eventType, "error": err.Error(),
		})
	}
}
