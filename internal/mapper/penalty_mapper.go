package mapper

import (
	"ajo-circle-be/internal/entity"
	"ajo-circle-be/internal/model"
)

type PenaltyMapper struct{}

func NewPenaltyMapper() *PenaltyMapper {
	return &PenaltyMapper{}
}

func (m *PenaltyMapper) ToEntity(p *model.Penalty) *entity.Penalty {
	if p == nil {
		return nil
	}
	return &entity.Penalty{
		Id:             p.Id,
		GroupId:        p.GroupId,
		MembershipId:   p.MembershipId,
		ContributionId: p.ContributionId,
		Amount:         p.Amount,
		Status:         entity.PenaltyStatus(p.Status),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (m *PenaltyMapper) ToModel(p *entity.Penalty) *model.Penalty {
	if p == nil {
		return nil
	}
	return &model.Penalty{
		Id:             p.Id,
		GroupId:        p.GroupId,
		MembershipId:   p.MembershipId,
		ContributionId: p.ContributionId,
		Amount:         p.Amount,
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
