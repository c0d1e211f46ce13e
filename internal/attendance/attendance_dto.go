package attendance

type ListAttendanceQuery struct {
	Range string `form:"range" binding:"omitempty,oneof=this_week this_month all_time"`
}

type AttendanceResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	WorkDate      string  `json:"work_date"`
	CheckInTime   string  `json:"check_in_time"`
	CheckOutTime  *string `json:"check_out_time"`
	Status        string  `json:"status"`
	DurationHours string  `json:"duration_hours"`
}
