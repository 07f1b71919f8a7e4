package teamsheet

import (
	"time"

	"github.com/KromaEnergia/teamsheet-api/internal/employee"
	"github.com/KromaEnergia/teamsheet-api/internal/section"
)

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusArchived  Status = "ARCHIVED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// TeamSheet is the staffing plan for one shift. It owns its assignments and
// task lists; replacing a collection deletes the previous rows.
type TeamSheet struct {
	ID              uint    `gorm:"primaryKey"`
	ShiftID         uint    `gorm:"not null;index"`
	Title           string  `gorm:"size:255;not null"`
	Status          Status  `gorm:"size:20;not null;index"`
	Notes           *string `gorm:"type:text"`
	CreatedByUserID uint    `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Assignments   []Assignment   `gorm:"foreignKey:TeamSheetID"`
	SideworkTasks []SideworkTask `gorm:"foreignKey:TeamSheetID"`
	OutworkTasks  []OutworkTask  `gorm:"foreignKey:TeamSheetID"`
}

// Assignment places an employee in a section. Either id may dangle.
type Assignment struct {
	ID          uint    `gorm:"primaryKey"`
	TeamSheetID uint    `gorm:"not null;index"`
	EmployeeID  uint    `gorm:"not null;index"`
	SectionID   uint    `gorm:"not null;index"`
	RoleLabel   *string `gorm:"size:100"`
	OrderIndex  *int

	Employee *employee.Employee `gorm:"foreignKey:EmployeeID"`
	Section  *section.Section   `gorm:"foreignKey:SectionID"`
}

func (Assignment) TableName() string { return "team_sheet_assignments" }

type SideworkTask struct {
	ID          uint    `gorm:"primaryKey"`
	TeamSheetID uint    `gorm:"not null;index"`
	Label       string  `gorm:"size:255;not null"`
	Description *string `gorm:"type:text"`

	Assignments []SideworkAssignment `gorm:"foreignKey:TaskID"`
}

type SideworkAssignment struct {
	ID         uint `gorm:"primaryKey"`
	TaskID     uint `gorm:"not null;index"`
	EmployeeID uint `gorm:"not null"`
}

type OutworkTask struct {
	ID          uint    `gorm:"primaryKey"`
	TeamSheetID uint    `gorm:"not null;index"`
	Label       string  `gorm:"size:255;not null"`
	Description *string `gorm:"type:text"`

	Assignments []OutworkAssignment `gorm:"foreignKey:TaskID"`
}

type OutworkAssignment struct {
	ID         uint `gorm:"primaryKey"`
	TaskID     uint `gorm:"not null;index"`
	EmployeeID uint `gorm:"not null"`
}

// Models lists every table this package owns, parents first.
func Models() []interface{} {
	return []interface{}{
		&TeamSheet{}, &Assignment{},
		&SideworkTask{}, &SideworkAssignment{},
		&OutworkTask{}, &OutworkAssignment{},
	}
}
