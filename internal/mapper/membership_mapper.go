package mapper

import (
	"ajo-circle-be/internal/entity"
	"ajo-circle-be/internal/model"
)

type MembershipMapper struct{}

func NewMembershipMapper() *MembershipMapper {
	return &MembershipMapper{}
}

func (m *MembershipMapper) ToEntity(mm *model.Membership) *entity.Membership {
	if mm == nil {
		return nil
	}
	return &entity.Membership{
		Id:           mm.Id,
		GroupId:      mm.GroupId,
		UserId:       mm.UserId,
		SlotNumber:   mm.SlotNumber,
		HasPaidEntry: mm.HasPaidEntry,
		Status:       entity.MembershipStatus(mm.Status),
		JoinedAt:     mm.JoinedAt,
		CreatedAt:    mm.CreatedAt,
		UpdatedAt:    mm.UpdatedAt,
	}
}

func (m *MembershipMapper) ToModel(mm *entity.Membership) *model.Membership {
	if mm == nil {
		return nil
	}
	return &model.Membership{
		Id:           mm.Id,
		GroupId:      mm.GroupId,
		UserId:       mm.UserId,
		SlotNumber:   mm.SlotNumber,
		HasPaidEntry: mm.HasPaidEntry,
		Status:       string(mm.Status),
		JoinedAt:     mm.JoinedAt,
		CreatedAt:    mm.CreatedAt,
		UpdatedAt:    mm.UpdatedAt,
	}
}
