package pyos

import (
	"time"

	"github.com/KromaEnergia/teamsheet-api/internal/employee"
	"github.com/KromaEnergia/teamsheet-api/internal/section"
	"github.com/KromaEnergia/teamsheet-api/internal/utils/db"
	"gorm.io/datatypes"
)

type Shift string

const (
	ShiftAM Shift = "AM"
	ShiftPM Shift = "PM"
)

func (s Shift) Valid() bool { return s == ShiftAM || s == ShiftPM }

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusDenied   Status = "DENIED"
	StatusRevoked  Status = "REVOKED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDenied, StatusRevoked:
		return true
	}
	return false
}

// Credit is an employee's PYOS balance. Rows are created on first use.
type Credit struct {
	ID         uint `gorm:"primaryKey"`
	EmployeeID uint `gorm:"uniqueIndex;not null"`
	Balance    int  `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Credit) TableName() string { return "pyos_credits" }

// Request asks for a section on one date and shift. Only PENDING and
// APPROVED requests hold the slot.
type Request struct {
	ID               uint               `gorm:"primaryKey"`
	EmployeeID       uint               `gorm:"not null;index"`
	Employee         *employee.Employee `gorm:"foreignKey:EmployeeID"`
	SectionID        uint               `gorm:"not null;index"`
	Section          *section.Section   `gorm:"foreignKey:SectionID"`
	Date             db.Date            `gorm:"not null;index"`
	Shift            Shift              `gorm:"size:2;not null"`
	Status           Status             `gorm:"size:20;not null;index"`
	Notes            *string            `gorm:"type:text"`
	CreatedByUserID  uint               `gorm:"not null"`
	ApprovedByUserID *uint
	DeniedByUserID   *uint
	RevokedByUserID  *uint
	ApprovedAt       *time.Time
	DeniedAt         *time.Time
	RevokedAt        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Request) TableName() string { return "pyos_requests" }

// AuditDetails is the JSON payload of an audit row. Absent keys are omitted.
type AuditDetails struct {
	RequestID *uint   `json:"request_id,omitempty"`
	Date      string  `json:"date,omitempty"`
	Shift     Shift   `json:"shift,omitempty"`
	Reason    *string `json:"reason,omitempty"`
	Note      *string `json:"note,omitempty"`
	Balance   *int    `json:"balance,omitempty"`
}

type Audit struct {
	ID          uint   `gorm:"primaryKey"`
	ActorUserID uint   `gorm:"not null;index"`
	EmployeeID  *uint  `gorm:"index"`
	Action      string `gorm:"size:50;not null"`
	Delta       *int
	Details     datatypes.JSONType[AuditDetails]
	CreatedAt   time.Time
}

func (Audit) TableName() string { return "pyos_audit" }

func Models() []interface{} {
	return []interface{}{&Credit{}, &Request{}, &Audit{}}
}

// SlotIndexSQL keeps at most one live request per section, date and shift.
const SlotIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS ux_pyos_requests_live_slot
ON pyos_requests (section_id, date, shift) WHERE status IN ('PENDING', 'APPROVED')`
