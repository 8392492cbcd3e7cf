package implementation

import (
	"context"
	"errors"
	"time"

	"ajo-circle-be/internal/entity"
	"ajo-circle-be/internal/mapper"
	"ajo-circle-be/internal/model"
	"ajo-circle-be/internal/repository/contract"
	"ajo-circle-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GroupRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.GroupMapper
}

func NewGroupRepository(db *gorm.DB) contract.GroupRepository {
	return &GroupRepositoryImpl{
		db:     db,
		mapper: mapper.NewGroupMapper(),
	}
}

func (r *GroupRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *GroupRepositoryImpl) Create(ctx context.Context, group *entity.Group) error {
	m := r.mapper.ToModel(group)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*group = *r.mapper.ToEntity(m)
	return nil
}

func (r *GroupRepositoryImpl) Update(ctx context.Context, group *entity.Group) error {
	m := r.mapper.ToModel(group)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*group = *r.mapper.ToEntity(m)
	return nil
}

func (r *GroupRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Group, error) {
	var m model.Group
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *GroupRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Group, error) {
	var models []*model.Group
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Group, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *GroupRepositoryImpl) IncrementMemberCount(ctx context.Context, groupId uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Group{}).
		Where("id = ? AND current_member_count < total_slots", groupId).
		Update("current_member_count", gorm.Expr("current_member_count + 1"))
	return res.RowsAffected > 0, res.Error
}

func (r *GroupRepositoryImpl) ActivateIfFull(ctx context.Context, groupId uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Group{}).
		Where("id = ? AND status = ? AND current_member_count = total_slots", groupId, string(entity.GroupStatusForming)).
		Updates(map[string]interface{}{
			"status":       string(entity.GroupStatusActive),
			"activated_at": at,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *GroupRepositoryImpl) CompleteActive(ctx context.Context, groupId uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Group{}).
		Where("id = ? AND status = ?", groupId, string(entity.GroupStatusActive)).
		Update("status", string(entity.GroupStatusCompleted))
	return res.RowsAffected > 0, res.Error
}

// Slot implementation

func (r *GroupRepositoryImpl) CreateSlots(ctx context.Context, slots []*entity.Slot) error {
	if len(slots) == 0 {
		return nil
	}
	models := make([]*model.Slot, len(slots))
	for i, s := range slots {
		models[i] = r.mapper.SlotToModel(s)
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*slots[i] = *r.mapper.SlotToEntity(m)
	}
	return nil
}

func (r *GroupRepositoryImpl) FindOneSlot(ctx context.Context, specs ...specification.Specification) (*entity.Slot, error) {
	var m model.Slot
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SlotToEntity(&m), nil
}

func (r *GroupRepositoryImpl) FindAllSlots(ctx context.Context, specs ...specification.Specification) ([]*entity.Slot, error) {
	var models []*model.Slot
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Slot, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SlotToEntity(m)
	}
	return entities, nil
}

// selectableSlot matches a slot that may be (re)allocated: available, or
// reserved with a lapsed hold. Expiry is reclaimed lazily here instead of
// by a background sweep.
const selectableSlot = "(status = ? OR (status = ? AND reserved_until < ?))"

func (r *GroupRepositoryImpl) ReserveSlot(ctx context.Context, groupId uuid.UUID, slotNumber int, userId uuid.UUID, until time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Slot{}).
		Where("group_id = ? AND slot_number = ?", groupId, slotNumber).
		Where(selectableSlot, string(entity.SlotStatusAvailable), string(entity.SlotStatusReserved), time.Now()).
		Updates(map[string]interface{}{
			"status":         string(entity.SlotStatusReserved),
			"reserved_by":    userId,
			"reserved_until": until,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *GroupRepositoryImpl) AssignReservedSlot(ctx context.Context, groupId uuid.UUID, slotNumber int, userId uuid.UUID, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Slot{}).
		Where("group_id = ? AND slot_number = ? AND status = ? AND reserved_by = ? AND reserved_until >= ?",
			groupId, slotNumber, string(entity.SlotStatusReserved), userId, now).
		Updates(map[string]interface{}{
			"status":         string(entity.SlotStatusAssigned),
			"reserved_until": nil,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *GroupRepositoryImpl) AssignAvailableSlot(ctx context.Context, groupId uuid.UUID, slotNumber int, userId uuid.UUID, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Slot{}).
		Where("group_id = ? AND slot_number = ?", groupId, slotNumber).
		Where(selectableSlot, string(entity.SlotStatusAvailable), string(entity.SlotStatusReserved), now).
		Updates(map[string]interface{}{
			"status":         string(entity.SlotStatusAssigned),
			"reserved_by":    userId,
			"reserved_until": nil,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *GroupRepositoryImpl) ReleaseSlot(ctx context.Context, groupId uuid.UUID, slotNumber int) error {
	return r.db.WithContext(ctx).Model(&model.Slot{}).
		Where("group_id = ? AND slot_number = ? AND status = ?", groupId, slotNumber, string(entity.SlotStatusReserved)).
		Updates(map[string]interface{}{
			"status":         string(entity.SlotStatusAvailable),
			"reserved_by":    nil,
			"reserved_until": nil,
		}).Error
}
