package storepref

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// ScheduleEntry is one weekday of a store's opening schedule. Times are "HH:MM".
type ScheduleEntry struct {
	Day            string  `json:"day"`
	OpenTime       *string `json:"open_time"`
	CloseTime      *string `json:"close_time"`
	FirstShiftIn   *string `json:"first_shift_in"`
	SecondShiftIn  *string `json:"second_shift_in"`
	NumberOfShifts *int    `json:"number_of_shifts"`
}

type StorePreference struct {
	ID            uint   `gorm:"primaryKey"`
	StoreNumber   string `gorm:"size:50;uniqueIndex;not null"`
	DailySchedule datatypes.JSONType[[]ScheduleEntry]
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EntryFor returns the schedule entry whose day matches weekday, ignoring case.
func (p *StorePreference) EntryFor(weekday time.Weekday) (ScheduleEntry, bool) {
	for _, e := range p.DailySchedule.Data() {
		if strings.EqualFold(strings.TrimSpace(e.Day), weekday.String()) {
			return e, true
		}
	}
	return ScheduleEntry{}, false
}
