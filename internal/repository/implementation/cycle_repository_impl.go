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
	"gorm.io/gorm/clause"
)

type CycleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CycleMapper
}

func NewCycleRepository(db *gorm.DB) contract.CycleRepository {
	return &CycleRepositoryImpl{
		db:     db,
		mapper: mapper.NewCycleMapper(),
	}
}

func (r *CycleRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CycleRepositoryImpl) CreateCycles(ctx context.Context, cycles []*entity.ContributionCycle) error {
	if len(cycles) == 0 {
		return nil
	}
	models := make([]*model.ContributionCycle, len(cycles))
	for i, c := range cycles {
		models[i] = r.mapper.ToModel(c)
	}
	// Idempotent on re-run: a second initializer leaves existing rows alone.
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_id"}, {Name: "cycle_number"}},
			DoNothing: true,
		}).
		Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*cycles[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *CycleRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ContributionCycle, error) {
	var m model.ContributionCycle
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CycleRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ContributionCycle, error) {
	var models []*model.ContributionCycle
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ContributionCycle, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *CycleRepositoryImpl) CompleteActiveCycle(ctx context.Context, groupId uuid.UUID, cycleNumber int, at time.Time) (bool, error) {
	// The "all non-waived contributions paid" check and the active ->
	// completed flip are one conditional update; concurrent settlers race
	// on it and exactly one wins.
	res := r.db.WithContext(ctx).Model(&model.ContributionCycle{}).
		Where("group_id = ? AND cycle_number = ? AND status = ?", groupId, cycleNumber, string(entity.CycleStatusActive)).
		Where(`NOT EXISTS (
			SELECT 1 FROM contributions
			WHERE contributions.group_id = ?
			  AND contributions.cycle_number = ?
			  AND contributions.status IN (?, ?)
		)`, groupId, cycleNumber,
			string(entity.ContributionStatusPending), string(entity.ContributionStatusOverdue)).
		Updates(map[string]interface{}{
			"status":       string(entity.CycleStatusCompleted),
			"completed_at": at,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *CycleRepositoryImpl) ActivatePendingCycle(ctx context.Context, groupId uuid.UUID, cycleNumber int, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.ContributionCycle{}).
		Where("group_id = ? AND cycle_number = ? AND status = ?", groupId, cycleNumber, string(entity.CycleStatusPending)).
		Updates(map[string]interface{}{
			"status":    string(entity.CycleStatusActive),
			"starts_at": at,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *CycleRepositoryImpl) AddCollected(ctx context.Context, groupId uuid.UUID, cycleNumber int, amount int64) error {
	return r.db.WithContext(ctx).Model(&model.ContributionCycle{}).
		Where("group_id = ? AND cycle_number = ?", groupId, cycleNumber).
		Update("collected_amount", gorm.Expr("collected_amount + ?", amount)).Error
}

// Contribution implementation

func (r *CycleRepositoryImpl) CreateContribution(ctx context.Context, contribution *entity.Contribution) (bool, error) {
	m := r.mapper.ContributionToModel(contribution)
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "membership_id"}, {Name: "cycle_number"}},
			DoNothing: true,
		}).
		Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	*contribution = *r.mapper.ContributionToEntity(m)
	return res.RowsAffected > 0, nil
}

func (r *CycleRepositoryImpl) FindOneContribution(ctx context.Context, specs ...specification.Specification) (*entity.Contribution, error) {
	var m model.Contribution
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ContributionToEntity(&m), nil
}

func (r *CycleRepositoryImpl) FindAllContributions(ctx context.Context, specs ...specification.Specification) ([]*entity.Contribution, error) {
	var models []*model.Contribution
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Contribution, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ContributionToEntity(m)
	}
	return entities, nil
}

func (r *CycleRepositoryImpl) MarkContributionPaid(ctx context.Context, membershipId uuid.UUID, cycleNumber int, reference string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Contribution{}).
		Where("membership_id = ? AND cycle_number = ? AND status IN (?, ?)",
			membershipId, cycleNumber,
			string(entity.ContributionStatusPending), string(entity.ContributionStatusOverdue)).
		Updates(map[string]interface{}{
			"status":            string(entity.ContributionStatusPaid),
			"paid_at":           at,
			"payment_reference": reference,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *CycleRepositoryImpl) MarkContributionOverdue(ctx context.Context, contributionId uuid.UUID, asOf time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Contribution{}).
		Where("id = ? AND status = ? AND due_date < ?",
			contributionId, string(entity.ContributionStatusPending), asOf).
		Update("status", string(entity.ContributionStatusOverdue))
	return res.RowsAffected > 0, res.Error
}
