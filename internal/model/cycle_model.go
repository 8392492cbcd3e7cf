package model

import (
	"time"

	"github.com/google/uuid"
)

type ContributionCycle struct {
	Id              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GroupId         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_cycles_group_number"`
	CycleNumber     int        `gorm:"not null;uniqueIndex:idx_cycles_group_number"`
	RecipientSlot   int        `gorm:"not null"`
	Status          string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	CollectedAmount int64      `gorm:"not null;default:0"`
	StartsAt        *time.Time `gorm:""`
	CompletedAt     *time.Time `gorm:""`
	CreatedAt       time.Time  `gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime"`
}

func (ContributionCycle) TableName() string {
	return "contribution_cycles"
}

type Contribution struct {
	Id               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GroupId          uuid.UUID  `gorm:"type:uuid;not null;index"`
	MembershipId     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_contributions_membership_cycle"`
	CycleNumber      int        `gorm:"not null;uniqueIndex:idx_contributions_membership_cycle"`
	Amount           int64      `gorm:"not null"`
	Status           string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	DueDate          time.Time  `gorm:"not null;index"`
	PaidAt           *time.Time `gorm:""`
	PaymentReference *string    `gorm:"type:varchar(64)"`
	CreatedAt        time.Time  `gorm:"autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime"`
}

func (Contribution) TableName() string {
	return "contributions"
}
