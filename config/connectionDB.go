package config

import (
	"log"
	"os"

	"storehub/internal/entity"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectionDb() *gorm.DB {
	if err := godotenv.Load(); err != nil {
		log.Printf("error load env %s", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // Disable prepared statements completely
	}), &gorm.Config{
		PrepareStmt: false,
	})
	if err != nil {
		log.Printf("error connect to database %s", err)
	}
	return db
}

// Migrate keeps the schema in sync on startup.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Admin{},
		&entity.StoreOwner{},
		&entity.StoreStaff{},
		&entity.Store{},
		&entity.Product{},
		&entity.Order{},
		&entity.OrderItem{},
		&entity.Session{},
		&entity.OneTimeCode{},
		&entity.SecurityLog{},
	)
}
