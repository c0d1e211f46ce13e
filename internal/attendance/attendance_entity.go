package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusHalfDay = "half_day"
	StatusLeave   = "leave"
)

// AttendanceRecord holds one work day per user. The composite unique index
// is the single source of truth for the one-check-in-per-day rule.
type AttendanceRecord struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_user_work_date"`
	WorkDate     time.Time  `gorm:"type:date;not null;uniqueIndex:uq_attendance_user_work_date"`
	CheckInTime  time.Time  `gorm:"not null"`
	CheckOutTime *time.Time `gorm:""`
	Status       string     `gorm:"type:varchar(20);not null;default:'present'"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}
