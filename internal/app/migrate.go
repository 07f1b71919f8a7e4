package app

import (
	"fmt"

	"github.com/KromaEnergia/teamsheet-api/internal/auth"
	"github.com/KromaEnergia/teamsheet-api/internal/cobrand"
	"github.com/KromaEnergia/teamsheet-api/internal/employee"
	"github.com/KromaEnergia/teamsheet-api/internal/gifttracker"
	"github.com/KromaEnergia/teamsheet-api/internal/inventory"
	"github.com/KromaEnergia/teamsheet-api/internal/payout"
	"github.com/KromaEnergia/teamsheet-api/internal/pos"
	"github.com/KromaEnergia/teamsheet-api/internal/preset"
	"github.com/KromaEnergia/teamsheet-api/internal/pyos"
	"github.com/KromaEnergia/teamsheet-api/internal/roster"
	"github.com/KromaEnergia/teamsheet-api/internal/season"
	"github.com/KromaEnergia/teamsheet-api/internal/section"
	"github.com/KromaEnergia/teamsheet-api/internal/shift"
	"github.com/KromaEnergia/teamsheet-api/internal/storepref"
	"github.com/KromaEnergia/teamsheet-api/internal/teamsheet"
	"gorm.io/gorm"
)

// Migrate creates or updates every table and the PYOS live-slot index.
func Migrate(database *gorm.DB) error {
	models := []interface{}{
		&auth.User{},
		&auth.RefreshToken{},
		&employee.Employee{},
		&section.Section{},
		&shift.Shift{},
		&storepref.StorePreference{},
		&season.Season{},
		&roster.DailyRoster{},
		&preset.TeamSheetPreset{},
		&cobrand.Deal{},
		&gifttracker.Entry{},
	}
	models = append(models, teamsheet.Models()...)
	models = append(models, payout.Models()...)
	models = append(models, pos.Models()...)
	models = append(models, inventory.Models()...)
	models = append(models, pyos.Models()...)

	if err := database.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := database.Exec(pyos.SlotIndexSQL).Error; err != nil {
		return fmt.Errorf("pyos slot index: %w", err)
	}
	return nil
}
