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

type PenaltyRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PenaltyMapper
}

func NewPenaltyRepository(db *gorm.DB) contract.PenaltyRepository {
	return &PenaltyRepositoryImpl{
		db:     db,
		mapper: mapper.NewPenaltyMapper(),
	}
}

func (r *PenaltyRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PenaltyRepositoryImpl) CreateIfAbsent(ctx context.Context, penalty *entity.Penalty) (bool, error) {
	m := r.mapper.ToModel(penalty)
	// The unique index on contribution_id makes repeated scans no-ops.
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "contribution_id"}},
			DoNothing: true,
		}).
		Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	created := res.RowsAffected > 0

	// Re-read so a losing writer gets the first writer's row, not its own
	// discarded values.
	var existing model.Penalty
	if err := r.db.WithContext(ctx).Where("contribution_id = ?", penalty.ContributionId).First(&existing).Error; err != nil {
		return created, err
	}
	*penalty = *r.mapper.ToEntity(&existing)
	return created, nil
}

func (r *PenaltyRepositoryImpl) ResolveApplied(ctx context.Context, contributionId uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Penalty{}).
		Where("contribution_id = ? AND status = ?", contributionId, string(entity.PenaltyStatusApplied)).
		Updates(map[string]interface{}{
			"status":     string(entity.PenaltyStatusPaid),
			"updated_at": at,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *PenaltyRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Penalty, error) {
	var m model.Penalty
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PenaltyRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Penalty, error) {
	var models []*model.Penalty
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Penalty, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
