package profile

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the application-level user record. Its ID equals the auth user
// id, so one profile exists per authenticated identity.
type Profile struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EmployeeCode string     `gorm:"type:varchar(20);not null;uniqueIndex:uq_profiles_employee_code"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex:uq_profiles_email"`
	Role         string     `gorm:"type:varchar(20);not null;default:'employee'"`
	FirstName    string     `gorm:"type:varchar(100);not null"`
	LastName     string     `gorm:"type:varchar(100);not null"`
	Phone        *string    `gorm:"type:varchar(30)"`
	Address      *string    `gorm:"type:text"`
	Department   *string    `gorm:"type:varchar(100)"`
	Position     *string    `gorm:"type:varchar(100)"`
	HireDate     *time.Time `gorm:"type:date"`
	PictureURL   *string    `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Profile) TableName() string {
	return "profiles"
}
