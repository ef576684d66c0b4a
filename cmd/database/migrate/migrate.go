package migration

import (
	"NovelNest-Backend/entities"
	"fmt"
	"log"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Wallet{}); err != nil {
		log.Fatalf("Error migrating wallet database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.LedgerEntry{}); err != nil {
		log.Fatalf("Error migrating ledger database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.PaymentOrder{}); err != nil {
		log.Fatalf("Error migrating payment order database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Story{}, &entities.Chapter{}, &entities.ChapterUnlock{}); err != nil {
		log.Fatalf("Error migrating chapter database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Donation{}); err != nil {
		log.Fatalf("Error migrating donation database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.WithdrawRequest{}, &entities.WithdrawRule{}); err != nil {
		log.Fatalf("Error migrating withdraw database: %v", err)
		return err
	}

	if err := seedWithdrawRule(db); err != nil {
		log.Fatalf("Error seeding withdraw rule: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}

// seedWithdrawRule installs a default flat-fee rule so withdrawals work out of
// the box. Skipped when any rule already exists.
func seedWithdrawRule(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entities.WithdrawRule{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Create(&entities.WithdrawRule{
		FeeType:  entities.FeeTypeFlat,
		FeeValue: 5,
		MinCoinB: 10,
		MaxCoinB: 0,
		Active:   true,
	}).Error
}
