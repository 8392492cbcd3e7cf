package service

import (
	"context"
	"time"

	"ajo-circle-be/internal/dto"
	"ajo-circle-be/internal/entity"
	"ajo-circle-be/internal/pkg/logger"
	"ajo-circle-be/internal/repository/specification"
	"ajo-circle-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IGroupService interface {
	Create(ctx context.Context, ownerId uuid.UUID, req *dto.CreateGroupRequest) (*dto.GroupResponse, error)
	GetAll(ctx context.Context) ([]*dto.GroupResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.GroupResponse, error)
	ListTransactions(ctx context.Context, groupId uuid.UUID) ([]*dto.TransactionResponse, error)
}

type groupService struct {
	uowFactory        unitofwork.RepositoryFactory
	defaultFeeBps     int
	defaultPenaltyBps int
	logger            logger.ILogger
}

func NewGroupService(
	uowFactory unitofwork.RepositoryFactory,
	defaultFeeBps int,
	defaultPenaltyBps int,
	log logger.ILogger,
) IGroupService {
	return &groupService{
		uowFactory:        uowFactory,
		defaultFeeBps:     defaultFeeBps,
		defaultPenaltyBps: defaultPenaltyBps,
		logger:            log,
	}
}

func (s *groupService) Create(ctx context.Context, ownerId uuid.UUID, req *dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	feeBps := req.ServiceFeeBps
	if feeBps == 0 {
		feeBps = s.defaultFeeBps
	}
	penaltyBps := req.PenaltyRateBps
	if penaltyBps == 0 {
		penaltyBps = s.defaultPenaltyBps
	}

	now := time.Now()
	group := &entity.Group{
		Id:                 uuid.New(),
		OwnerId:            ownerId,
		Name:               req.Name,
		Description:        req.Description,
		ContributionAmount: req.ContributionAmount,
		Frequency:          entity.ContributionFrequency(req.Frequency),
		TotalSlots:         req.TotalSlots,
		ServiceFeeBps:      feeBps,
		SecurityDepositBps: req.SecurityDepositBps,
		PenaltyRateBps:     penaltyBps,
		Status:             entity.GroupStatusForming,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	// Group and its slot rows land together or not at all.
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.GroupRepository().Create(ctx, group); err != nil {
		return nil, err
	}

	slots := make([]*entity.Slot, 0, group.TotalSlots)
	for n := 1; n <= group.TotalSlots; n++ {
		slots = append(slots, &entity.Slot{
			Id:         uuid.New(),
			GroupId:    group.Id,
			SlotNumber: n,
			Status:     entity.SlotStatusAvailable,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	if err := uow.GroupRepository().CreateSlots(ctx, slots); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("GroupService", "Group created", map[string]interface{}{
		"group_id": group.Id, "slots": group.TotalSlots, "owner_id": ownerId,
	})
	return s.toResponse(group), nil
}

func (s *groupService) GetAll(ctx context.Context) ([]*dto.GroupResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	groups, err := uow.GroupRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.GroupResponse, 0, len(groups))
	for _, g := range groups {
		result = append(result, s.toResponse(g))
	}
	return result, nil
}

func (s *groupService) Show(ctx context.Context, id uuid.UUID) (*dto.GroupResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	group, err := uow.GroupRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return s.toResponse(group), nil
}

func (s *groupService) ListTransactions(ctx context.Context, groupId uuid.UUID) ([]*dto.TransactionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	transactions, err := uow.PaymentRepository().FindAllTransactions(ctx,
		specification.BelongsToGroup{GroupID: groupId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		result = append(result, &dto.TransactionResponse{
			Id:          t.Id,
			GroupId:     t.GroupId,
			Type:        string(t.Type),
			Amount:      t.Amount,
			CycleNumber: t.CycleNumber,
			Reference:   t.Reference,
			CreatedAt:   t.CreatedAt,
		})
	}
	return result, nil
}

func (s *groupService) toResponse(g *entity.Group) *dto.GroupResponse {
	return &dto.GroupResponse{
		Id:                 g.Id,
		OwnerId:            g.OwnerId,
		Name:               g.Name,
		Description:        g.Description,
		ContributionAmount: g.ContributionAmount,
		EntryAmount:        g.EntryAmount(),
		Frequency:          string(g.Frequency),
		TotalSlots:         g.TotalSlots,
		CurrentMemberCount: g.CurrentMemberCount,
		Status:             string(g.Status),
		ActivatedAt:        g.ActivatedAt,
		CreatedAt:          g.CreatedAt,
	}
}
