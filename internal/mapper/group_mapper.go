package mapper

import (
	"ajo-circle-be/internal/entity"
	"ajo-circle-be/internal/model"
)

type GroupMapper struct{}

func NewGroupMapper() *GroupMapper {
	return &GroupMapper{}
}

func (m *GroupMapper) ToEntity(g *model.Group) *entity.Group {
	if g == nil {
		return nil
	}
	return &entity.Group{
		Id:                 g.Id,
		OwnerId:            g.OwnerId,
		Name:               g.Name,
		Description:        g.Description,
		ContributionAmount: g.ContributionAmount,
		Frequency:          entity.ContributionFrequency(g.Frequency),
		TotalSlots:         g.TotalSlots,
		ServiceFeeBps:      g.ServiceFeeBps,
		SecurityDepositBps: g.SecurityDepositBps,
		PenaltyRateBps:     g.PenaltyRateBps,
		Status:             entity.GroupStatus(g.Status),
		CurrentMemberCount: g.CurrentMemberCount,
		ActivatedAt:        g.ActivatedAt,
		CreatedAt:          g.CreatedAt,
		UpdatedAt:          g.UpdatedAt,
	}
}

func (m *GroupMapper) ToModel(g *entity.Group) *model.Group {
	if g == nil {
		return nil
	}
	return &model.Group{
		Id:                 g.Id,
		OwnerId:            g.OwnerId,
		Name:               g.Name,
		Description:        g.Description,
		ContributionAmount: g.ContributionAmount,
		Frequency:          string(g.Frequency),
		TotalSlots:         g.TotalSlots,
		ServiceFeeBps:      g.ServiceFeeBps,
		SecurityDepositBps: g.SecurityDepositBps,
		PenaltyRateBps:     g.PenaltyRateBps,
		Status:             string(g.Status),
		CurrentMemberCount: g.CurrentMemberCount,
		ActivatedAt:        g.ActivatedAt,
		CreatedAt:          g.CreatedAt,
		UpdatedAt:          g.UpdatedAt,
	}
}

func (m *GroupMapper) SlotToEntity(s *model.Slot) *entity.Slot {
	if s == nil {
		return nil
	}
	return &entity.Slot{
		Id:            s.Id,
		GroupId:       s.GroupId,
		SlotNumber:    s.SlotNumber,
		Status:        entity.SlotStatus(s.Status),
		ReservedBy:    s.ReservedBy,
		ReservedUntil: s.ReservedUntil,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func (m *GroupMapper) SlotToModel(s *entity.Slot) *model.Slot {
	if s == nil {
		return nil
	}
	return &model.Slot{
		Id:            s.Id,
		GroupId:       s.GroupId,
		SlotNumber:    s.SlotNumber,
		Status:        string(s.Status),
		ReservedBy:    s.ReservedBy,
		ReservedUntil: s.ReservedUntil,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
