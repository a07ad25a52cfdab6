package models

import (
	"gorm.io/gorm"
)

// AutoMigrate выполняет миграции всех таблиц
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Client{},
		&Policy{},
		&Claim{},
		&Commission{},
		&CommissionRule{},
		&Payment{},
		&Document{},
		&Lead{},
	)
}
