package events

import "time"

const (
	EmployeeCreatedTopic = "hr.employee.lifecycle.v1"
	EmployeeCreatedType  = "employee.created"
)

type EmployeeCreatedEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id,omitempty"`
	EmployeeID   string    `json:"employee_id"`
	Email        string    `json:"email"`
	DepartmentID string    `json:"department_id"`
	PositionID   string    `json:"position_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}
