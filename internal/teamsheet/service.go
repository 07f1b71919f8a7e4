package teamsheet

import (
	"context"
	"errors"

	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
	"github.com/KromaEnergia/teamsheet-api/internal/shift"
	"gorm.io/gorm"
)

// Replaced reports which collections ApplyPayload swapped out.
type Replaced struct {
	Assignments, Sidework, Outwork bool
}

// ApplyPayload replaces the collections present in p with fresh, unsaved rows.
func ApplyPayload(sheet *TeamSheet, p Payload) Replaced {
	var done Replaced
	if p.Assignments != nil {
		sheet.Assignments = make([]Assignment, 0, len(*p.Assignments))
		for _, a := range *p.Assignments {
			sheet.Assignments = append(sheet.Assignments, Assignment{
				EmployeeID: a.EmployeeID,
				SectionID:  a.SectionID,
				RoleLabel:  a.RoleLabel,
				OrderIndex: a.OrderIndex,
			})
		}
		done.Assignments = true
	}
	if p.Sidework != nil {
		sheet.SideworkTasks = make([]SideworkTask, 0, len(*p.Sidework))
		for _, t := range *p.Sidework {
			task := SideworkTask{Label: t.Label, Description: t.Description}
			for _, id := range t.EmployeeIDs {
				task.Assignments = append(task.Assignments, SideworkAssignment{EmployeeID: id})
			}
			sheet.SideworkTasks = append(sheet.SideworkTasks, task)
		}
		done.Sidework = true
	}
	if p.Outwork != nil {
		sheet.OutworkTasks = make([]OutworkTask, 0, len(*p.Outwork))
		for _, t := range *p.Outwork {
			task := OutworkTask{Label: t.Label, Description: t.Description}
			for _, id := range t.EmployeeIDs {
				task.Assignments = append(task.Assignments, OutworkAssignment{EmployeeID: id})
			}
			sheet.OutworkTasks = append(sheet.OutworkTasks, task)
		}
		done.Outwork = true
	}
	return done
}

// Clone copies title, notes and every child row of source into target as new
// rows. source is not modified.
func Clone(source, target *TeamSheet) {
	target.Title = source.Title + " (copy)"
	target.Notes = source.Notes

	target.Assignments = make([]Assignment, 0, len(source.Assignments))
	for _, a := range source.Assignments {
		target.Assignments = append(target.Assignments, Assignment{
			EmployeeID: a.EmployeeID,
			SectionID:  a.SectionID,
			RoleLabel:  a.RoleLabel,
			OrderIndex: a.OrderIndex,
		})
	}
	target.SideworkTasks = make([]SideworkTask, 0, len(source.SideworkTasks))
	for _, t := range source.SideworkTasks {
		task := SideworkTask{Label: t.Label, Description: t.Description}
		for _, a := range t.Assignments {
			task.Assignments = append(task.Assignments, SideworkAssignment{EmployeeID: a.EmployeeID})
		}
		target.SideworkTasks = append(target.SideworkTasks, task)
	}
	target.OutworkTasks = make([]OutworkTask, 0, len(source.OutworkTasks))
	for _, t := range source.OutworkTasks {
		task := OutworkTask{Label: t.Label, Description: t.Description}
		for _, a := range t.Assignments {
			task.Assignments = append(task.Assignments, OutworkAssignment{EmployeeID: a.EmployeeID})
		}
		target.OutworkTasks = append(target.OutworkTasks, task)
	}
}

// Service runs team-sheet writes inside one transaction each.
type Service struct {
	DB         *gorm.DB
	Repository *Repository
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db, Repository: NewRepository(db)}
}

func (s *Service) Create(ctx context.Context, userID uint, req CreateRequest) (*TeamSheet, error) {
	if req.Status == "" {
		req.Status = StatusDraft
	}
	if !req.Status.Valid() {
		return nil, apperr.Validation("invalid status")
	}

	var id uint
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := shift.NewRepository(tx).FindByID(ctx, req.ShiftID); err != nil {
			return apperr.NotFoundIf(err, "Shift not found")
		}
		sheet := &TeamSheet{
			ShiftID:         req.ShiftID,
			Title:           req.Title,
			Status:          req.Status,
			Notes:           req.Notes,
			CreatedByUserID: userID,
		}
		if req.SourceTeamSheetID != nil && *req.SourceTeamSheetID != 0 {
			source, err := s.Repository.WithDB(tx).Fetch(ctx, *req.SourceTeamSheetID)
			if err != nil {
				return apperr.NotFoundIf(err, "Source team sheet not found")
			}
			Clone(source, sheet)
		} else {
			ApplyPayload(sheet, req.Payload)
		}
		if err := tx.Create(sheet).Error; err != nil {
			return err
		}
		id = sheet.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Repository.Fetch(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uint, req UpdateRequest) (*TeamSheet, error) {
	if req.Status != nil && !req.Status.Valid() {
		return nil, apperr.Validation("invalid status")
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.Repository.WithDB(tx)
		sheet, err := repo.Fetch(ctx, id)
		if err != nil {
			return apperr.NotFoundIf(err, "Team sheet not found")
		}
		if req.Title != nil {
			sheet.Title = *req.Title
		}
		if req.Status != nil {
			sheet.Status = *req.Status
		}
		if req.Notes != nil {
			sheet.Notes = req.Notes
		}
		replaced := ApplyPayload(sheet, req.Payload)
		return repo.Save(ctx, sheet, replaced)
	})
	if err != nil {
		return nil, err
	}
	return s.Repository.Fetch(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uint) (*TeamSheet, error) {
	sheet, err := s.Repository.Fetch(ctx, id)
	if err != nil {
		return nil, apperr.NotFoundIf(err, "Team sheet not found")
	}
	return sheet, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]TeamSheet, error) {
	return s.Repository.List(ctx, f)
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := s.Repository.WithDB(tx).Delete(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Team sheet not found")
		}
		return err
	})
}
