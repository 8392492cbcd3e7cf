package service

import (
	"context"
	"fmt"
	"time"

	"ajo-circle-be/internal/dto"
	"ajo-circle-be/internal/entity"
	"ajo-circle-be/internal/pkg/logger"
	"ajo-circle-be/internal/repository/specification"
	"ajo-circle-be/internal/repository/unitofwork"
	"ajo-circle-be/internal/websocket"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const slotBoardCacheTTL = 5 * time.Second

type ISlotService interface {
	Reserve(ctx context.Context, userId, groupId uuid.UUID, slotNumber int) (*dto.SlotResponse, error)
	Release(ctx context.Context, groupId uuid.UUID, slotNumber int) error
	// Assign claims a slot for an activating member. Preference 0 means
	// "any"; a stale or stolen preference falls back to "any" as well.
	Assign(ctx context.Context, groupId, userId uuid.UUID, preference int) (int, error)
	SlotBoard(ctx context.Context, groupId, viewerId uuid.UUID) (*dto.SlotBoardResponse, error)
}

type slotService struct {
	uowFactory       unitofwork.RepositoryFactory
	boardCache       *cache.Cache
	hub              *websocket.Hub
	reservationHours int
	logger           logger.ILogger
}

func NewSlotService(
	uowFactory unitofwork.RepositoryFactory,
	hub *websocket.Hub,
	reservationHours int,
	log logger.ILogger,
) ISlotService {
	return &slotService{
		uowFactory:       uowFactory,
		boardCache:       cache.New(slotBoardCacheTTL, time.Minute),
		hub:              hub,
		reservationHours: reservationHours,
		logger:           log,
	}
}

func (s *slotService) Reserve(ctx context.Context, userId, groupId uuid.UUID, slotNumber int) (*dto.SlotResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	group, err := uow.GroupRepository().FindOne(ctx, specification.ByID{ID: groupId})
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	if group.Status != entity.GroupStatusForming {
		return nil, ErrGroupNotJoinable
	}
	if slotNumber < 1 || slotNumber > group.TotalSlots {
		return nil, ErrSlotUnavailable
	}

	until := time.Now().Add(time.Duration(s.reservationHours) * time.Hour)
	won, err := uow.GroupRepository().ReserveSlot(ctx, groupId, slotNumber, userId, until)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, ErrSlotUnavailable
	}

	s.logger.Info("SlotService", "Slot reserved", map[string]interface{}{
		"group_id": groupId, "slot": slotNumber, "user_id": userId,
	})
	s.invalidateBoard(groupId)
	s.broadcastBoard(ctx, groupId)

	return &dto.SlotResponse{
		SlotNumber:    slotNumber,
		Status:        string(entity.SlotStatusReserved),
		ReservedUntil: &until,
		Mine:          true,
	}, nil
}

func (s *slotService) Release(ctx context.Context, groupId uuid.UUID, slotNumber int) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.GroupRepository().ReleaseSlot(ctx, groupId, slotNumber); err != nil {
		return err
	}
	s.invalidateBoard(groupId)
	s.broadcastBoard(ctx, groupId)
	return nil
}

func (s *slotService) Assign(ctx context.Context, groupId, userId uuid.UUID, preference int) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	if preference > 0 {
		won, err := uow.GroupRepository().AssignReservedSlot(ctx, groupId, preference, userId, now)
		if err != nil {
			return 0, err
		}
		if !won {
			// Not our live reservation; the slot may still be plain available.
			won, err = uow.GroupRepository().AssignAvailableSlot(ctx, groupId, preference, userId, now)
			if err != nil {
				return 0, err
			}
		}
		if won {
			s.invalidateBoard(groupId)
			s.broadcastBoard(ctx, groupId)
			return preference, nil
		}
		s.logger.Warn("SlotService", "Preferred slot lost, falling back to any", map[string]interface{}{
			"group_id": groupId, "slot": preference, "user_id": userId,
		})
	}

	// "any": lowest-numbered claimable slot, retried per-row since
	// concurrent activators race on each CAS.
	slots, err := uow.GroupRepository().FindAllSlots(ctx,
		specification.BelongsToGroup{GroupID: groupId},
		specification.OrderBy{Field: "slot_number"},
	)
	if err != nil {
		return 0, err
	}
	for _, slot := range slots {
		if slot.Status == entity.SlotStatusAssigned {
			continue
		}
		if slot.Status == entity.SlotStatusReserved && !slot.ReservationExpired(now) {
			continue
		}
		won, err := uow.GroupRepository().AssignAvailableSlot(ctx, groupId, slot.SlotNumber, userId, now)
		if err != nil {
			return 0, err
		}
		if won {
			s.invalidateBoard(groupId)
			s.broadcastBoard(ctx, groupId)
			return slot.SlotNumber, nil
		}
	}
	return 0, ErrNoSlotsAvailable
}

func (s *slotService) SlotBoard(ctx context.Context, groupId, viewerId uuid.UUID) (*dto.SlotBoardResponse, error) {
	cacheKey := fmt.Sprintf("board:%s", groupId)
	if cached, found := s.boardCache.Get(cacheKey); found {
		return s.personalize(cached.(*boardSnapshot), viewerId), nil
	}

	snapshot, err := s.loadBoard(ctx, groupId)
	if err != nil {
		return nil, err
	}
	s.boardCache.Set(cacheKey, snapshot, slotBoardCacheTTL)
	return s.personalize(snapshot, viewerId), nil
}

// boardSnapshot is the cached, viewer-independent slot state.
type boardSnapshot struct {
	GroupId uuid.UUID
	Slots   []*entity.Slot
}

func (s *slotService) loadBoard(ctx context.Context, groupId uuid.UUID) (*boardSnapshot, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	slots, err := uow.GroupRepository().FindAllSlots(ctx,
		specification.BelongsToGroup{GroupID: groupId},
		specification.OrderBy{Field: "slot_number"},
	)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		group, err := uow.GroupRepository().FindOne(ctx, specification.ByID{ID: groupId})
		if err != nil {
			return nil, err
		}
		if group == nil {
			return nil, ErrGroupNotFound
		}
	}
	return &boardSnapshot{GroupId: groupId, Slots: slots}, nil
}

func (s *slotService) personalize(snapshot *boardSnapshot, viewerId uuid.UUID) *dto.SlotBoardResponse {
	now := time.Now()
	res := &dto.SlotBoardResponse{
		GroupId: snapshot.GroupId,
		Slots:   make([]dto.SlotResponse, 0, len(snapshot.Slots)),
	}
	for _, slot := range snapshot.Slots {
		status := string(slot.Status)
		var reservedUntil *time.Time
		if slot.Status == entity.SlotStatusReserved {
			if slot.ReservationExpired(now) {
				// Lapsed holds read as available even before a writer
				// reclaims the row.
				status = string(entity.SlotStatusAvailable)
			} else {
				reservedUntil = slot.ReservedUntil
			}
		}
		mine := slot.ReservedBy != nil && *slot.ReservedBy == viewerId
		res.Slots = append(res.Slots, dto.SlotResponse{
			SlotNumber:    slot.SlotNumber,
			Status:        status,
			ReservedUntil: reservedUntil,
			Mine:          mine,
		})
	}
	return res
}

func (s *slotService) invalidateBoard(groupId uuid.UUID) {
	s.boardCache.Delete(fmt.Sprintf("board:%s", groupId))
}

func (s *slotService) broadcastBoard(ctx context.Context, groupId uuid.UUID) {
	if s.hub == nil {
		return
	}
	snapshot, err := s.loadBoard(ctx, groupId)
	if err != nil {
		s.logger.Warn("SlotService", "Failed to load board for broadcast", map[string]interface{}{"error": err.Error()})
		return
	}
	s.hub.Broadcast("slot_board", s.personalize(snapshot, uuid.Nil))
}
