package payroll

import (
	"time"

	"github.com/google/uuid"
)

// SalaryStructure keeps one row per user. All amounts are integer minor
// units of the payroll currency.
type SalaryStructure struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_user"`
	BasicSalary        int64     `gorm:"not null"`
	HousingAllowance   int64     `gorm:"not null;default:0"`
	TransportAllowance int64     `gorm:"not null;default:0"`
	OtherAllowance     int64     `gorm:"not null;default:0"`
	TaxDeduction       int64     `gorm:"not null;default:0"`
	OtherDeduction     int64     `gorm:"not null;default:0"`
	NetSalary          int64     `gorm:"not null"`
	EffectiveDate      time.Time `gorm:"not null"`
	UpdatedBy          uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

func (SalaryStructure) TableName() string {
	return "salary_structures"
}
