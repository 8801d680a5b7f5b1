package db

import (
	"fmt"
	"log"
	"os"

	"community_exchange/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(conn); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return conn
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Item{},
		&models.BorrowRequest{},
		&models.PointsTransaction{},
		&models.InspectionReport{},
		&models.Message{},
		&models.Rating{},
	); err != nil {
		return err
	}

	// 同一 (item, borrower) 最多一条未关闭的借用请求
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_open_per_item_borrower
	  ON %s (item_id, borrower_id)
	  WHERE status = 'PENDING' OR (status = 'APPROVED' AND return_date IS NULL);
	`, models.BorrowRequestTable, models.BorrowRequestTable)).Error; err != nil {
		return err
	}

	// 每个积分事件只记一次
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_once_per_event
	  ON %s (user_id, action, source_id);
	`, models.PointsTable, models.PointsTable)).Error; err != nil {
		return err
	}

	// 待审核列表查询更快
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_pending_createdat
	  ON %s (created_at DESC)
	  WHERE status = 'PENDING';
	`, models.ItemTable, models.ItemTable)).Error; err != nil {
		return err
	}

	return nil
}
