package unitofwork

import (
	"context"

	"ajo-circle-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	GroupRepository() contract.GroupRepository
	MembershipRepository() contract.MembershipRepository
	PaymentRepository() contract.PaymentRepository
	CycleRepository() contract.CycleRepository
	PenaltyRepository() contract.PenaltyRepository
}
