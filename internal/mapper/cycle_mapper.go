package mapper

import (
	"ajo-circle-be/internal/entity"
	"ajo-circle-be/internal/model"
)

type CycleMapper struct{}

func NewCycleMapper() *CycleMapper {
	return &CycleMapper{}
}

func (m *CycleMapper) ToEntity(c *model.ContributionCycle) *entity.ContributionCycle {
	if c == nil {
		return nil
	}
	return &entity.ContributionCycle{
		Id:              c.Id,
		GroupId:         c.GroupId,
		CycleNumber:     c.CycleNumber,
		RecipientSlot:   c.RecipientSlot,
		Status:          entity.CycleStatus(c.Status),
		CollectedAmount: c.CollectedAmount,
		StartsAt:        c.StartsAt,
		CompletedAt:     c.CompletedAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func (m *CycleMapper) ToModel(c *entity.ContributionCycle) *model.ContributionCycle {
	if c == nil {
		return nil
	}
	return &model.ContributionCycle{
		Id:              c.Id,
		GroupId:         c.GroupId,
		CycleNumber:     c.CycleNumber,
		RecipientSlot:   c.RecipientSlot,
		Status:          string(c.Status),
		CollectedAmount: c.CollectedAmount,
		StartsAt:        c.StartsAt,
		CompletedAt:     c.CompletedAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func (m *CycleMapper) ContributionToEntity(c *model.Contribution) *entity.Contribution {
	if c == nil {
		return nil
	}
	return &entity.Contribution{
		Id:               c.Id,
		GroupId:          c.GroupId,
		MembershipId:     c.MembershipId,
		CycleNumber:      c.CycleNumber,
		Amount:           c.Amount,
		Status:           entity.ContributionStatus(c.Status),
		DueDate:          c.DueDate,
		PaidAt:           c.PaidAt,
		PaymentReference: c.PaymentReference,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func (m *CycleMapper) ContributionToModel(c *entity.Contribution) *model.Contribution {
	if c == nil {
		return nil
	}
	return &model.Contribution{
		Id:               c.Id,
		GroupId:          c.GroupId,
		MembershipId:     c.MembershipId,
		CycleNumber:      c.CycleNumber,
		Amount:           c.Amount,
		Status:           string(c.Status),
		DueDate:          c.DueDate,
		PaidAt:           c.PaidAt,
		PaymentReference: c.PaymentReference,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
