package section

import "gorm.io/datatypes"

type Type string

const (
	TypeBar   Type = "BAR"
	TypeFloor Type = "FLOOR"
	TypePatio Type = "PATIO"
	TypeLobby Type = "LOBBY"
	TypeOther Type = "OTHER"
)

func (t Type) Valid() bool {
	switch t {
	case TypeBar, TypeFloor, TypePatio, TypeLobby, TypeOther:
		return true
	}
	return false
}

// Section is a floor area servers are assigned to. Tables and tags are JSON lists.
type Section struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"size:100;not null"`
	Label           string `gorm:"size:100;not null"`
	Type            Type   `gorm:"size:20;not null"`
	Tables          datatypes.JSONType[[]string]
	Tags            datatypes.JSONType[[]string]
	CutOrder        *int
	Sidework        *string `gorm:"type:text"`
	Outwork         *string `gorm:"type:text"`
	MaxCapacity     *int
	ExpectedOutTime *string `gorm:"size:50"`
	MaxGuests       *int
	IsActive        bool `gorm:"not null;index"`
}
