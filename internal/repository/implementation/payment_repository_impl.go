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

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PaymentMapper
}

func NewPaymentRepository(db *gorm.DB) contract.PaymentRepository {
	return &PaymentRepositoryImpl{
		db:     db,
		mapper: mapper.NewPaymentMapper(),
	}
}

func (r *PaymentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PaymentRepositoryImpl) RecordAttempt(ctx context.Context, record *entity.PaymentRecord) (*entity.PaymentRecord, bool, error) {
	m := r.mapper.ToModel(record)
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reference"}},
			DoNothing: true,
		}).
		Create(m)
	if res.Error != nil {
		return nil, false, res.Error
	}
	created := res.RowsAffected > 0

	// Re-read so a losing writer gets the first writer's row, not its own
	// discarded values.
	var existing model.PaymentRecord
	if err := r.db.WithContext(ctx).Where("reference = ?", record.Reference).First(&existing).Error; err != nil {
		return nil, created, err
	}
	return r.mapper.ToEntity(&existing), created, nil
}

func (r *PaymentRepositoryImpl) MarkVerified(ctx context.Context, reference string, status entity.VerificationStatus, gatewayStatus string, gatewayAmount int64) error {
	return r.db.WithContext(ctx).Model(&model.PaymentRecord{}).
		Where("reference = ? AND verification_status = ?", reference, string(entity.VerificationStatusPending)).
		Updates(map[string]interface{}{
			"verification_status": string(status),
			"gateway_status":      gatewayStatus,
			"gateway_amount":      gatewayAmount,
		}).Error
}

func (r *PaymentRepositoryImpl) MarkProcessed(ctx context.Context, reference string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.PaymentRecord{}).
		Where("reference = ? AND processed = ? AND verification_status = ?",
			reference, false, string(entity.VerificationStatusVerified)).
		Updates(map[string]interface{}{
			"processed":    true,
			"processed_at": at,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *PaymentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentRecord, error) {
	var m model.PaymentRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PaymentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentRecord, error) {
	var models []*model.PaymentRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.PaymentRecord, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *PaymentRepositoryImpl) CreateTransaction(ctx context.Context, tx *entity.Transaction) error {
	m := r.mapper.TransactionToModel(tx)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*tx = *r.mapper.TransactionToEntity(m)
	return nil
}

func (r *PaymentRepositoryImpl) FindAllTransactions(ctx context.Context, specs ...specification.Specification) ([]*entity.Transaction, error) {
	var models []*model.Transaction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Transaction, len(models))
	for i, m := range models {
		entities[i] = r.mapper.TransactionToEntity(m)
	}
	return entities, nil
}
