package teamsheet

import "time"

type AssignmentPayload struct {
	EmployeeID uint    `json:"employee_id"`
	SectionID  uint    `json:"section_id"`
	RoleLabel  *string `json:"role_label"`
	OrderIndex *int    `json:"order_index"`
}

type TaskPayload struct {
	Label       string  `json:"label"`
	Description *string `json:"description"`
	EmployeeIDs []uint  `json:"employee_ids"`
}

// Payload carries the replaceable collections. A nil pointer leaves the
// collection alone; an empty list clears it.
type Payload struct {
	Assignments *[]AssignmentPayload `json:"assignments"`
	Sidework    *[]TaskPayload       `json:"sidework"`
	Outwork     *[]TaskPayload       `json:"outwork"`
}

type CreateRequest struct {
	ShiftID           uint    `json:"shift_id"`
	Title             string  `json:"title"`
	Status            Status  `json:"status"`
	Notes             *string `json:"notes"`
	SourceTeamSheetID *uint   `json:"source_team_sheet_id"`
	Payload
}

type UpdateRequest struct {
	Title  *string `json:"title"`
	Status *Status `json:"status"`
	Notes  *string `json:"notes"`
	Payload
}

type AssignmentRead struct {
	ID           uint    `json:"id"`
	EmployeeID   uint    `json:"employee_id"`
	SectionID    uint    `json:"section_id"`
	RoleLabel    *string `json:"role_label"`
	OrderIndex   *int    `json:"order_index"`
	EmployeeName *string `json:"employee_name"`
	SectionLabel *string `json:"section_label"`
}

type TaskRead struct {
	ID          uint    `json:"id"`
	Label       string  `json:"label"`
	Description *string `json:"description"`
	EmployeeIDs []uint  `json:"employee_ids"`
}

type Read struct {
	ID              uint             `json:"id"`
	ShiftID         uint             `json:"shift_id"`
	Title           string           `json:"title"`
	Status          Status           `json:"status"`
	Notes           *string          `json:"notes"`
	CreatedByUserID uint             `json:"created_by_user_id"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Assignments     []AssignmentRead `json:"assignments"`
	Sidework        []TaskRead       `json:"sidework"`
	Outwork         []TaskRead       `json:"outwork"`
}
