package main

import (
	"log"
	"os"
	"time"

	"ajo-circle-be/internal/model"
	"ajo-circle-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seeds a demo group with an open slot board so the API can be exercised
// without going through group creation first.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	if err := seedDemoGroup(db); err != nil {
		color.Red("✗ Seeding failed: %v", err)
		os.Exit(1)
	}
	color.Green("✓ Demo group seeded")
}

func seedDemoGroup(db *gorm.DB) error {
	now := time.Now()
	group := model.Group{
		Id:                 uuid.MustParse("6f0a3c1e-0000-4000-8000-000000000001"),
		OwnerId:            uuid.MustParse("6f0a3c1e-0000-4000-8000-0000000000aa"),
		Name:               "Market Traders Circle",
		Description:        "Weekly rotating savings for the demo environment",
		ContributionAmount: 500000, // ₦5,000.00 in kobo
		Frequency:          "weekly",
		TotalSlots:         5,
		ServiceFeeBps:      100,
		SecurityDepositBps: 2000,
		PenaltyRateBps:     500,
		Status:             "forming",
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&group).Error
	if err != nil {
		return err
	}
	color.Cyan("  group: %s (%s)", group.Name, group.Id)

	for n := 1; n <= group.TotalSlots; n++ {
		slot := model.Slot{
			Id:         uuid.New(),
			GroupId:    group.Id,
			SlotNumber: n,
			Status:     "available",
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&slot).Error; err != nil {
			return err
		}
	}
	color.Cyan("  slots: 1..%d available", group.TotalSlots)
	return nil
}
