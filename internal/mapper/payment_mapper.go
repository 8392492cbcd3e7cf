package mapper

import (
	"ajo-circle-be/internal/entity"
	"ajo-circle-be/internal/model"
)

type PaymentMapper struct{}

func NewPaymentMapper() *PaymentMapper {
	return &PaymentMapper{}
}

func (m *PaymentMapper) ToEntity(p *model.PaymentRecord) *entity.PaymentRecord {
	if p == nil {
		return nil
	}
	return &entity.PaymentRecord{
		Id:                 p.Id,
		Reference:          p.Reference,
		GroupId:            p.GroupId,
		UserId:             p.UserId,
		Email:              p.Email,
		Purpose:            entity.PaymentPurpose(p.Purpose),
		Amount:             p.Amount,
		SlotPreference:     p.SlotPreference,
		CycleNumber:        p.CycleNumber,
		VerificationStatus: entity.VerificationStatus(p.VerificationStatus),
		GatewayStatus:      p.GatewayStatus,
		GatewayAmount:      p.GatewayAmount,
		Processed:          p.Processed,
		ProcessedAt:        p.ProcessedAt,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func (m *PaymentMapper) ToModel(p *entity.PaymentRecord) *model.PaymentRecord {
	if p == nil {
		return nil
	}
	return &model.PaymentRecord{
		Id:                 p.Id,
		Reference:          p.Reference,
		GroupId:            p.GroupId,
		UserId:             p.UserId,
		Email:              p.Email,
		Purpose:            string(p.Purpose),
		Amount:             p.Amount,
		SlotPreference:     p.SlotPreference,
		CycleNumber:        p.CycleNumber,
		VerificationStatus: string(p.VerificationStatus),
		GatewayStatus:      p.GatewayStatus,
		GatewayAmount:      p.GatewayAmount,
		Processed:          p.Processed,
		ProcessedAt:        p.ProcessedAt,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func (m *PaymentMapper) TransactionToEntity(t *model.Transaction) *entity.Transaction {
	if t == nil {
		return nil
	}
	return &entity.Transaction{
		Id:           t.Id,
		GroupId:      t.GroupId,
		MembershipId: t.MembershipId,
		Type:         entity.TransactionType(t.Type),
		Amount:       t.Amount,
		CycleNumber:  t.CycleNumber,
		Reference:    t.Reference,
		CreatedAt:    t.CreatedAt,
	}
}

func (m *PaymentMapper) TransactionToModel(t *entity.Transaction) *model.Transaction {
	if t == nil {
		return nil
	}
	return &model.Transaction{
		Id:           t.Id,
		GroupId:      t.GroupId,
		MembershipId: t.MembershipId,
		Type:         string(t.Type),
		Amount:       t.Amount,
		CycleNumber:  t.CycleNumber,
		Reference:    t.Reference,
		CreatedAt:    t.CreatedAt,
	}
}
