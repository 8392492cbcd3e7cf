package model

import (
	"time"

	"github.com/google/uuid"
)

type PaymentRecord struct {
	Id                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Reference          string     `gorm:"type:varchar(64);uniqueIndex;not null"`
	GroupId            uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserId             uuid.UUID  `gorm:"type:uuid;not null;index"`
	Email              string     `gorm:"type:varchar(255);not null;default:''"`
	Purpose            string     `gorm:"type:varchar(40);not null"`
	Amount             int64      `gorm:"not null"`
	SlotPreference     int        `gorm:"not null;default:0"`
	CycleNumber        int        `gorm:"not null;default:0"`
	VerificationStatus string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	GatewayStatus      *string    `gorm:"type:varchar(40)"`
	GatewayAmount      *int64     `gorm:""`
	Processed          bool       `gorm:"not null;default:false"`
	ProcessedAt        *time.Time `gorm:""`
	CreatedAt          time.Time  `gorm:"autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime"`
}

func (PaymentRecord) TableName() string {
	return "payment_records"
}

type Transaction struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GroupId      uuid.UUID  `gorm:"type:uuid;not null;index"`
	MembershipId *uuid.UUID `gorm:"type:uuid;index"`
	Type         string     `gorm:"type:varchar(30);not null"`
	Amount       int64      `gorm:"not null"`
	CycleNumber  int        `gorm:"not null;default:0"`
	Reference    *string    `gorm:"type:varchar(64);index"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
}

func (Transaction) TableName() string {
	return "transactions"
}
