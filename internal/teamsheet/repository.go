package teamsheet

import (
	"context"

	"github.com/KromaEnergia/teamsheet-api/internal/utils/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// WithDB returns a copy bound to tx (nil keeps the current handle).
func (r *Repository) WithDB(tx *gorm.DB) *Repository {
	if tx == nil {
		tx = r.DB
	}
	return &Repository{DB: tx}
}

func byID(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }

func withChildren(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Assignments", byID).
		Preload("Assignments.Employee").
		Preload("Assignments.Section").
		Preload("SideworkTasks", byID).
		Preload("SideworkTasks.Assignments", byID).
		Preload("OutworkTasks", byID).
		Preload("OutworkTasks.Assignments", byID)
}

// Fetch loads a sheet with its assignments (and their employee and section)
// and both task lists.
func (r *Repository) Fetch(ctx context.Context, id uint) (*TeamSheet, error) {
	var sheet TeamSheet
	if err := withChildren(r.DB.WithContext(ctx)).First(&sheet, id).Error; err != nil {
		return nil, err
	}
	return &sheet, nil
}

type Filter struct {
	Start, End *db.Date
	Status     Status
	Period     string
	ManagerID  *uint
}

// List orders by the shift date, newest first.
func (r *Repository) List(ctx context.Context, f Filter) ([]TeamSheet, error) {
	q := r.DB.WithContext(ctx).Model(&TeamSheet{}).
		Select("team_sheets.*").
		Joins("JOIN shifts ON shifts.id = team_sheets.shift_id")
	if f.Start != nil {
		q = q.Where("shifts.date >= ?", *f.Start)
	}
	if f.End != nil {
		q = q.Where("shifts.date <= ?", *f.End)
	}
	if f.Status != "" {
		q = q.Where("team_sheets.status = ?", f.Status)
	}
	if f.Period != "" {
		q = q.Where("shifts.time_period = ?", f.Period)
	}
	if f.ManagerID != nil && *f.ManagerID != 0 {
		q = q.Where("team_sheets.created_by_user_id = ?", *f.ManagerID)
	}
	var out []TeamSheet
	err := withChildren(q).Order("shifts.date DESC").Order("team_sheets.id DESC").Find(&out).Error
	return out, err
}

// Save writes the sheet's own columns and swaps the replaced collections.
func (r *Repository) Save(ctx context.Context, sheet *TeamSheet, replaced Replaced) error {
	tx := r.DB.WithContext(ctx)
	if err := tx.Omit(clause.Associations).Save(sheet).Error; err != nil {
		return err
	}
	if replaced.Assignments {
		if err := tx.Where("team_sheet_id = ?", sheet.ID).Delete(&Assignment{}).Error; err != nil {
			return err
		}
		for i := range sheet.Assignments {
			sheet.Assignments[i].TeamSheetID = sheet.ID
		}
		if len(sheet.Assignments) > 0 {
			if err := tx.Omit("Employee", "Section").Create(&sheet.Assignments).Error; err != nil {
				return err
			}
		}
	}
	if replaced.Sidework {
		if err := r.deleteSidework(tx, sheet.ID); err != nil {
			return err
		}
		for i := range sheet.SideworkTasks {
			sheet.SideworkTasks[i].TeamSheetID = sheet.ID
		}
		if len(sheet.SideworkTasks) > 0 {
			if err := tx.Create(&sheet.SideworkTasks).Error; err != nil {
				return err
			}
		}
	}
	if replaced.Outwork {
		if err := r.deleteOutwork(tx, sheet.ID); err != nil {
			return err
		}
		for i := range sheet.OutworkTasks {
			sheet.OutworkTasks[i].TeamSheetID = sheet.ID
		}
		if len(sheet.OutworkTasks) > 0 {
			if err := tx.Create(&sheet.OutworkTasks).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Repository) deleteSidework(tx *gorm.DB, sheetID uint) error {
	var ids []uint
	if err := tx.Model(&SideworkTask{}).Where("team_sheet_id = ?", sheetID).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("task_id IN ?", ids).Delete(&SideworkAssignment{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&SideworkTask{}).Error
}

func (r *Repository) deleteOutwork(tx *gorm.DB, sheetID uint) error {
	var ids []uint
	if err := tx.Model(&OutworkTask{}).Where("team_sheet_id = ?", sheetID).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("task_id IN ?", ids).Delete(&OutworkAssignment{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&OutworkTask{}).Error
}

// Delete removes the sheet and every child row. Run it inside a transaction.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	tx := r.DB.WithContext(ctx)
	if err := tx.Where("team_sheet_id = ?", id).Delete(&Assignment{}).Error; err != nil {
		return err
	}
	if err := r.deleteSidework(tx, id); err != nil {
		return err
	}
	if err := r.deleteOutwork(tx, id); err != nil {
		return err
	}
	res := tx.Delete(&TeamSheet{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
