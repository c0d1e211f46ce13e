package profile

// UpdateSelfRequest covers the only fields an employee may edit on their own
// profile. Everything else requires an admin.
type UpdateSelfRequest struct {
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	PictureURL *string `json:"picture_url"`
}

type AdminUpdateRequest struct {
	Role       string  `json:"role" binding:"required,oneof=employee admin"`
	FirstName  string  `json:"first_name" binding:"required"`
	LastName   string  `json:"last_name" binding:"required"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
	HireDate   *string `json:"hire_date"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	PictureURL *string `json:"picture_url"`
}

type ProfileResponse struct {
	ID           string  `json:"id"`
	EmployeeCode string  `json:"employee_code"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	Department   *string `json:"department,omitempty"`
	Position     *string `json:"position,omitempty"`
	HireDate     *string `json:"hire_date,omitempty"`
	PictureURL   *string `json:"picture_url,omitempty"`
}
