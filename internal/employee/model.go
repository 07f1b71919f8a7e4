package employee

import (
	"strings"
	"time"

	"github.com/KromaEnergia/teamsheet-api/internal/utils/db"
)

type Role string

const (
	RoleServer    Role = "SERVER"
	RoleHost      Role = "HOST"
	RoleBartender Role = "BARTENDER"
	RoleBusser    Role = "BUSSER"
	RoleOther     Role = "OTHER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleServer, RoleHost, RoleBartender, RoleBusser, RoleOther:
		return true
	}
	return false
}

// Employee is never hard-deleted; deactivation clears Active.
type Employee struct {
	ID                  uint    `gorm:"primaryKey"`
	FirstName           string  `gorm:"size:100;not null"`
	LastName            string  `gorm:"size:100;not null"`
	Nickname            *string `gorm:"size:100"`
	Role                Role    `gorm:"size:20;not null;index"`
	EmploymentStartDate db.Date `gorm:"not null"`
	Active              bool    `gorm:"not null;index"`
	UpsellScore         *int
	PittyScore          *int
	EmploymentDays      *int
	MaxSectionLoad      *int
	Notes               *string `gorm:"type:text"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// DisplayName is "first last" when either is set, otherwise the nickname.
func (e *Employee) DisplayName() string {
	return DisplayName(e.FirstName, e.LastName, e.Nickname)
}

func DisplayName(first, last string, nickname *string) string {
	if name := strings.TrimSpace(first + " " + last); name != "" {
		return name
	}
	if nickname != nil {
		return strings.TrimSpace(*nickname)
	}
	return ""
}
