package leave

type SubmitLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=paid sick unpaid"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Remarks   string `json:"remarks" binding:"max=500"`
}

type ReviewLeaveRequest struct {
	Decision string  `json:"decision" binding:"required,oneof=approve reject"`
	Comment  *string `json:"comment"`
}

type LeaveResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	LeaveType    string  `json:"leave_type"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	TotalDays    int     `json:"total_days"`
	Remarks      string  `json:"remarks"`
	Status       string  `json:"status"`
	AdminComment *string `json:"admin_comment,omitempty"`
	ReviewedBy   *string `json:"reviewed_by,omitempty"`
	ReviewedAt   *string `json:"reviewed_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}
