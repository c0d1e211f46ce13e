package events

import "time"

const UserSignedUpTopic = "dayflow.user.signup.v1"

// UserSignedUpEvent carries the signup metadata the profile consumer needs to
// create the initial Profile row. Creating the profile is a separate,
// retryable step from creating the auth identity.
type UserSignedUpEvent struct {
	EventType    string    `json:"event_type"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	EmployeeCode string    `json:"employee_code"`
	Role         string    `json:"role"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	OccurredAt   time.Time `json:"occurred_at"`
}
