package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByReference filters payment records by their idempotency key.
type ByReference struct {
	Reference string
}

func (s ByReference) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("reference = ?", s.Reference)
}

// BelongsToGroup scopes any group-owned table.
type BelongsToGroup struct {
	GroupID uuid.UUID
}

func (s BelongsToGroup) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("group_id = ?", s.GroupID)
}

// UserOwnedBy filters rows belonging to a user.
type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// WithStatus filters by a status column value.
type WithStatus struct {
	Status string
}

func (s WithStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ForCycle filters cycle-scoped rows by cycle number.
type ForCycle struct {
	CycleNumber int
}

func (s ForCycle) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("cycle_number = ?", s.CycleNumber)
}

// DueBefore selects rows whose due_date has passed the given instant.
type DueBefore struct {
	AsOf time.Time
}

func (s DueBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("due_date < ?", s.AsOf)
}

// BySlotNumber filters slot-keyed rows.
type BySlotNumber struct {
	SlotNumber int
}

func (s BySlotNumber) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slot_number = ?", s.SlotNumber)
}
