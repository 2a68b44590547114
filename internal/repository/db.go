package repository

import (
	"fmt"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"taskhub/internal/model"
)

// Open connects through the given dialector and migrates the schema.
// Production wiring passes the MySQL dialector; tests pass in-memory
// SQLite. Foreign keys are declared with ON DELETE CASCADE so removing a
// user, category, status or priority removes the dependent rows.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.TaskCategory{},
		&model.TaskPriority{},
		&model.TaskStatus{},
		&model.Task{},
	); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	return db, nil
}
