package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntryAmount(t *testing.T) {
	t.Run("No Deposit", func(t *testing.T) {
		g := &Group{ContributionAmount: 500000, SecurityDepositBps: 0}
		assert.Equal(t, int64(500000), g.EntryAmount())
	})

	t.Run("Twenty Percent Deposit", func(t *testing.T) {
		g := &Group{ContributionAmount: 500000, SecurityDepositBps: 2000}
		assert.Equal(t, int64(600000), g.EntryAmount())
	})

	t.Run("Fractional Deposit Floors", func(t *testing.T) {
		// 333 * 150 / 10000 = 4.995 -> 4
		g := &Group{ContributionAmount: 333, SecurityDepositBps: 150}
		assert.Equal(t, int64(337), g.EntryAmount())
	})
}

func TestNextDueDate(t *testing.T) {
	activated := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	t.Run("Weekly", func(t *testing.T) {
		due := FrequencyWeekly.NextDueDate(activated, 3)
		assert.Equal(t, time.Date(2026, 2, 5, 10, 0, 0, 0, time.UTC), due)
	})

	t.Run("Biweekly", func(t *testing.T) {
		due := FrequencyBiweekly.NextDueDate(activated, 2)
		assert.Equal(t, time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC), due)
	})

	t.Run("Monthly", func(t *testing.T) {
		due := FrequencyMonthly.NextDueDate(activated, 4)
		assert.Equal(t, time.Date(2026, 5, 15, 10, 0, 0, 0, time.UTC), due)
	})

	t.Run("Cycle Zero Is Activation", func(t *testing.T) {
		assert.Equal(t, activated, FrequencyMonthly.NextDueDate(activated, 0))
	})
}

func TestReservationExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	t.Run("Reserved Past Deadline", func(t *testing.T) {
		s := &Slot{Status: SlotStatusReserved, ReservedUntil: &past}
		assert.True(t, s.ReservationExpired(now))
	})

	t.Run("Reserved Within Hold", func(t *testing.T) {
		s := &Slot{Status: SlotStatusReserved, ReservedUntil: &future}
		assert.False(t, s.ReservationExpired(now))
	})

	t.Run("Available Slot Never Expires", func(t *testing.T) {
		s := &Slot{Status: SlotStatusAvailable, ReservedUntil: &past}
		assert.False(t, s.ReservationExpired(now))
	})

	t.Run("Assigned Slot Never Expires", func(t *testing.T) {
		s := &Slot{Status: SlotStatusAssigned, ReservedUntil: &past}
		assert.False(t, s.ReservationExpired(now))
	})
}
