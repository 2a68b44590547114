package model

import "time"

// TaskCategory groups tasks under a single owning user. Ownership of a
// task is always resolved through its category's UserID.
type TaskCategory struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	UserID      uint   `gorm:"not null;index"`
	User        User   `gorm:"foreignKey:UserID"`
	Name        string `gorm:"type:varchar(255);not null;index"`
	Description string `gorm:"type:varchar(255);index"`

	Tasks []Task `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

// TaskPriority is a global priority rank. Not user-scoped.
type TaskPriority struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name  string `gorm:"type:varchar(255);not null"`
	Level int    `gorm:"not null"` // integer rank, 1 is highest
}

// TaskStatus is a global workflow status. Mutation is admin-only.
type TaskStatus struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name  string `gorm:"type:varchar(255);not null"`
	Order int    `gorm:"not null"` // display rank within the workflow
}

// Task is a single to-do item. StatusID and PriorityID are nullable;
// deleting a category, status or priority cascades to its tasks.
type Task struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	CategoryID uint          `gorm:"not null;index"`
	Category   TaskCategory  `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	StatusID   *uint         `gorm:"index"`
	Status     *TaskStatus   `gorm:"foreignKey:StatusID;constraint:OnDelete:CASCADE"`
	PriorityID *uint         `gorm:"index"`
	Priority   *TaskPriority `gorm:"foreignKey:PriorityID;constraint:OnDelete:CASCADE"`

	Name        string     `gorm:"type:varchar(255);not null;index"`
	Description string     `gorm:"type:varchar(255);index"`
	Text        string     `gorm:"type:text"`
	DueDate     *time.Time `gorm:"type:date;index"`
}
