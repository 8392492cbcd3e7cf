package contract

import (
	"context"
	"time"

	"ajo-circle-be/internal/entity"
	"ajo-circle-be/internal/repository/specification"
)

// PaymentRepository is the payment ledger: the system of record that every
// settlement actor re-derives state from.
type PaymentRepository interface {
	// RecordAttempt inserts a pending record keyed by reference. When a
	// record with the same reference already exists it is returned
	// unchanged (first-writer-wins); created reports whether this call
	// inserted the row.
	RecordAttempt(ctx context.Context, record *entity.PaymentRecord) (rec *entity.PaymentRecord, created bool, err error)

	// MarkVerified moves a pending record to verified or failed along with
	// the normalized gateway result. Records already past pending are left
	// untouched.
	MarkVerified(ctx context.Context, reference string, status entity.VerificationStatus, gatewayStatus string, gatewayAmount int64) error

	// MarkProcessed flips processed false -> true. Exactly one caller per
	// reference observes true; everyone else lost the race and must not
	// apply side effects.
	MarkProcessed(ctx context.Context, reference string, at time.Time) (bool, error)

	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentRecord, error)

	CreateTransaction(ctx context.Context, tx *entity.Transaction) error
	FindAllTransactions(ctx context.Context, specs ...specification.Specification) ([]*entity.Transaction, error)
}
