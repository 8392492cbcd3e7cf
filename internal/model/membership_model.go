package model

import (
	"time"

	"github.com/google/uuid"
)

type Membership struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GroupId      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_group_user;uniqueIndex:idx_memberships_group_slot"`
	UserId       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_group_user;index"`
	SlotNumber   int        `gorm:"not null;uniqueIndex:idx_memberships_group_slot"`
	HasPaidEntry bool       `gorm:"not null;default:false"`
	Status       string     `gorm:"type:varchar(20);not null;default:'pending'"`
	JoinedAt     *time.Time `gorm:""`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

func (Membership) TableName() string {
	return "memberships"
}
