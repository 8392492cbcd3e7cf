package main

import (
	"log"
	"os"

	"ajo-circle-be/internal/model"
	"ajo-circle-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions (gen_random_uuid defaults)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.Group{},
		&model.Slot{},
		&model.Membership{},
		&model.PaymentRecord{},
		&model.Transaction{},
		&model.ContributionCycle{},
		&model.Contribution{},
		&model.Penalty{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Views
	log.Println("Step 3: Creating Views...")

	postMigrationSQL := []string{
		// View: group_ledger. Signed transaction rows summed per group,
		// the running pool balance after payouts and fees.
		`CREATE OR REPLACE VIEW group_ledger AS
		 SELECT t.group_id, g.name AS group_name, SUM(t.amount) AS balance, COUNT(*) AS entry_count
		 FROM transactions t
		 JOIN groups g ON g.id = t.group_id
		 GROUP BY t.group_id, g.name;`,

		// View: overdue_contributions
		`CREATE OR REPLACE VIEW overdue_contributions AS
		 SELECT c.id, c.group_id, c.membership_id, c.cycle_number, c.amount, c.due_date, m.user_id, m.slot_number
		 FROM contributions c
		 JOIN memberships m ON m.id = c.membership_id
		 WHERE c.status = 'overdue'
		 ORDER BY c.due_date ASC;`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
