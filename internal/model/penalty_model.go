package model

import (
	"time"

	"github.com/google/uuid"
)

type Penalty struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GroupId        uuid.UUID `gorm:"type:uuid;not null;index"`
	MembershipId   uuid.UUID `gorm:"type:uuid;not null;index"`
	ContributionId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Amount         int64     `gorm:"not null"`
	Status         string    `gorm:"type:varchar(20);not null;default:'applied'"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (Penalty) TableName() string {
	return "penalties"
}
