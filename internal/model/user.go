package model

import "time"

// Role is the coarse permission tag carried by a user. The set is closed;
// route guards compare against these constants, never raw strings.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents an account holder.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(255);not null"`
	Email     string `gorm:"type:varchar(191);uniqueIndex;not null"` // unique login identifier
	Password  string `gorm:"not null"`                               // bcrypt hash
	Role      Role   `gorm:"type:varchar(16);default:user"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Categories []TaskCategory `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
