package payroll

type UpsertSalaryRequest struct {
	BasicSalary        int64 `json:"basic_salary" binding:"required,gt=0"`
	HousingAllowance   int64 `json:"housing_allowance" binding:"gte=0"`
	TransportAllowance int64 `json:"transport_allowance" binding:"gte=0"`
	OtherAllowance     int64 `json:"other_allowance" binding:"gte=0"`
	TaxDeduction       int64 `json:"tax_deduction" binding:"gte=0"`
	OtherDeduction     int64 `json:"other_deduction" binding:"gte=0"`
}

type SalaryResponse struct {
	ID                 string `json:"id"`
	UserID             string `json:"user_id"`
	BasicSalary        int64  `json:"basic_salary"`
	HousingAllowance   int64  `json:"housing_allowance"`
	TransportAllowance int64  `json:"transport_allowance"`
	OtherAllowance     int64  `json:"other_allowance"`
	TaxDeduction       int64  `json:"tax_deduction"`
	OtherDeduction     int64  `json:"other_deduction"`
	NetSalary          int64  `json:"net_salary"`
	EffectiveDate      string `json:"effective_date"`
	UpdatedBy          string `json:"updated_by"`
}
