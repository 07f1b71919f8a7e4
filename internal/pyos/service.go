package pyos

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
	"github.com/KromaEnergia/teamsheet-api/internal/auth"
	"github.com/KromaEnergia/teamsheet-api/internal/employee"
	"github.com/KromaEnergia/teamsheet-api/internal/logging"
	"github.com/KromaEnergia/teamsheet-api/internal/notify"
	"github.com/KromaEnergia/teamsheet-api/internal/utils/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const auditLimit = 200

var (
	errSlotTaken   = apperr.Conflict("Section already assigned for this shift.")
	errNoProfile   = apperr.NotFound("Employee profile not found for this user.")
	errEmptyWallet = apperr.Validation("No PYOS credits available.")
)

// Service runs the credit and request workflow. Every mutation is one
// transaction that also writes its audit row.
type Service struct {
	DB     *gorm.DB
	Alerts *notify.Webhook
}

func NewService(database *gorm.DB) *Service {
	return &Service{DB: database}
}

// ResolveEmployee finds the employee behind a user: the explicit link first,
// then the full name split into first and rest, then the full name as a nickname.
func (s *Service) ResolveEmployee(ctx context.Context, u *auth.User) (*employee.Employee, error) {
	employees := employee.NewRepository(s.DB)
	if u.EmployeeID != nil {
		e, err := employees.FindByID(ctx, *u.EmployeeID)
		if err == nil {
			return e, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	name := strings.ToLower(strings.Join(strings.Fields(u.FullName), " "))
	if name == "" {
		return nil, errNoProfile
	}
	if first, rest, ok := strings.Cut(name, " "); ok {
		e, err := employees.FindByNameFold(ctx, first, rest)
		if err == nil {
			return e, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	e, err := employees.FindByNicknameFold(ctx, name)
	if err != nil {
		return nil, apperr.NotFoundIf(err, "Employee profile not found for this user.")
	}
	return e, nil
}

func ensureCredit(ctx context.Context, tx *gorm.DB, employeeID uint) (*Credit, error) {
	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "employee_id"}}, DoNothing: true}).
		Create(&Credit{EmployeeID: employeeID}).Error
	if err != nil {
		return nil, err
	}
	var c Credit
	if err := tx.WithContext(ctx).Where("employee_id = ?", employeeID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func addCredit(ctx context.Context, tx *gorm.DB, employeeID uint, delta int) (*Credit, error) {
	if _, err := ensureCredit(ctx, tx, employeeID); err != nil {
		return nil, err
	}
	err := tx.WithContext(ctx).Model(&Credit{}).
		Where("employee_id = ?", employeeID).
		Update("balance", gorm.Expr("balance + ?", delta)).Error
	if err != nil {
		return nil, err
	}
	return ensureCredit(ctx, tx, employeeID)
}

func writeAudit(ctx context.Context, tx *gorm.DB, actor uint, employeeID *uint, action string, delta *int, d AuditDetails) error {
	a := &Audit{
		ActorUserID: actor,
		EmployeeID:  employeeID,
		Action:      action,
		Delta:       delta,
		Details:     datatypes.NewJSONType(d),
	}
	return tx.WithContext(ctx).Create(a).Error
}

func slotTaken(ctx context.Context, tx *gorm.DB, sectionID uint, date db.Date, shift Shift) (bool, error) {
	var n int64
	err := tx.WithContext(ctx).Model(&Request{}).
		Where("section_id = ? AND date = ? AND shift = ? AND status IN ?",
			sectionID, date, shift, []Status{StatusPending, StatusApproved}).
		Count(&n).Error
	return n > 0, err
}

func insertRequest(ctx context.Context, tx *gorm.DB, req *Request) error {
	taken, err := slotTaken(ctx, tx, req.SectionID, req.Date, req.Shift)
	if err != nil {
		return err
	}
	if taken {
		return errSlotTaken
	}
	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(req).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errSlotTaken
		}
		return err
	}
	return nil
}

func intp(n int) *int { return &n }

// MyCredit returns the caller's balance, creating an empty one on first call.
func (s *Service) MyCredit(ctx context.Context, u *auth.User) (*Credit, error) {
	e, err := s.ResolveEmployee(ctx, u)
	if err != nil {
		return nil, err
	}
	return ensureCredit(ctx, s.DB, e.ID)
}

func (s *Service) ListCredits(ctx context.Context, employeeID *uint) ([]Credit, error) {
	q := s.DB.WithContext(ctx).Order("employee_id asc")
	if employeeID != nil {
		q = q.Where("employee_id = ?", *employeeID)
	}
	var out []Credit
	err := q.Find(&out).Error
	return out, err
}

// GrantCredit adds delta credits to an employee.
func (s *Service) GrantCredit(ctx context.Context, actor *auth.User, employeeID uint, delta int, note *string) (*Credit, error) {
	if delta <= 0 {
		return nil, apperr.Validation("delta must be greater than zero")
	}
	var credit *Credit
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := employee.NewRepository(tx).FindByID(ctx, employeeID); err != nil {
			return apperr.NotFoundIf(err, "Employee not found")
		}
		c, err := addCredit(ctx, tx, employeeID, delta)
		if err != nil {
			return err
		}
		credit = c
		return writeAudit(ctx, tx, actor.ID, &employeeID, "grant", intp(delta), AuditDetails{Note: note, Balance: intp(c.Balance)})
	})
	if err != nil {
		return nil, err
	}
	logging.Info("pyos credit granted", map[string]interface{}{"employee_id": employeeID, "delta": delta, "balance": credit.Balance})
	return credit, nil
}

type CreateInput struct {
	SectionID uint
	Date      db.Date
	Shift     Shift
	Notes     *string
}

func (in CreateInput) validate() error {
	if in.SectionID == 0 {
		return apperr.Validation("section_id is required")
	}
	if in.Date.IsZero() {
		return apperr.Validation("date is required")
	}
	if !in.Shift.Valid() {
		return apperr.Validation("shift must be AM or PM")
	}
	return nil
}

// CreateRequest spends one credit of the calling server on a PENDING request.
func (s *Service) CreateRequest(ctx context.Context, u *auth.User, in CreateInput) (*Request, error) {
	if u.Role != auth.RoleServer {
		return nil, apperr.Forbidden("Only servers can submit PYOS requests.")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	e, err := s.ResolveEmployee(ctx, u)
	if err != nil {
		return nil, err
	}
	if in.Date.Before(db.Today()) {
		return nil, apperr.Validation("Cannot request past dates.")
	}

	req := &Request{
		EmployeeID:      e.ID,
		SectionID:       in.SectionID,
		Date:            in.Date,
		Shift:           in.Shift,
		Status:          StatusPending,
		Notes:           in.Notes,
		CreatedByUserID: u.ID,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ensureCredit(ctx, tx, e.ID); err != nil {
			return err
		}
		res := tx.WithContext(ctx).Model(&Credit{}).
			Where("employee_id = ? AND balance >= 1", e.ID).
			Update("balance", gorm.Expr("balance - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errEmptyWallet
		}
		if err := insertRequest(ctx, tx, req); err != nil {
			return err
		}
		return writeAudit(ctx, tx, u.ID, &e.ID, "use", intp(-1), AuditDetails{
			RequestID: &req.ID,
			Date:      req.Date.String(),
			Shift:     req.Shift,
		})
	})
	if err != nil {
		return nil, err
	}
	s.Alerts.Notify(notify.Event{
		Type:    "pyos.request.created",
		Message: "PYOS request waiting for approval",
		Data: map[string]interface{}{
			"request_id":  req.ID,
			"employee_id": e.ID,
			"employee":    e.DisplayName(),
			"section_id":  req.SectionID,
			"date":        req.Date.String(),
			"shift":       req.Shift,
		},
	})
	return s.FindRequest(ctx, req.ID)
}

// CreateManualRequest assigns a slot directly as APPROVED without spending credit.
func (s *Service) CreateManualRequest(ctx context.Context, actor *auth.User, employeeID uint, in CreateInput) (*Request, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	req := &Request{
		EmployeeID:       employeeID,
		SectionID:        in.SectionID,
		Date:             in.Date,
		Shift:            in.Shift,
		Status:           StatusApproved,
		Notes:            in.Notes,
		CreatedByUserID:  actor.ID,
		ApprovedByUserID: &actor.ID,
		ApprovedAt:       &now,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := employee.NewRepository(tx).FindByID(ctx, employeeID); err != nil {
			return apperr.NotFoundIf(err, "Employee not found")
		}
		if err := insertRequest(ctx, tx, req); err != nil {
			return err
		}
		return writeAudit(ctx, tx, actor.ID, &employeeID, "manual_assign", nil, AuditDetails{
			RequestID: &req.ID,
			Date:      req.Date.String(),
			Shift:     req.Shift,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.FindRequest(ctx, req.ID)
}

// transition moves a request out of from. apply sets the status-specific
// columns; refund gives the credit back.
func (s *Service) transition(ctx context.Context, id uint, from Status, wrongState string, apply func(*Request), audit func(*Request) (string, *int, AuditDetails), actor uint, refund bool) (*Request, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req Request
		if err := tx.WithContext(ctx).First(&req, id).Error; err != nil {
			return apperr.NotFoundIf(err, "Request not found")
		}
		if req.Status != from {
			return apperr.Validation(wrongState)
		}
		apply(&req)
		res := tx.WithContext(ctx).Model(&Request{}).
			Where("id = ? AND status = ?", id, from).
			Select("status", "notes", "approved_by_user_id", "approved_at", "denied_by_user_id", "denied_at", "revoked_by_user_id", "revoked_at", "updated_at").
			Updates(&req)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Validation(wrongState)
		}
		if refund {
			if _, err := addCredit(ctx, tx, req.EmployeeID, 1); err != nil {
				return err
			}
		}
		action, delta, details := audit(&req)
		return writeAudit(ctx, tx, actor, &req.EmployeeID, action, delta, details)
	})
	if err != nil {
		return nil, err
	}
	return s.FindRequest(ctx, id)
}

func (s *Service) Approve(ctx context.Context, actor *auth.User, id uint, notes string) (*Request, error) {
	return s.transition(ctx, id, StatusPending, "Only pending requests can be approved",
		func(r *Request) {
			now := time.Now()
			r.Status = StatusApproved
			r.ApprovedByUserID = &actor.ID
			r.ApprovedAt = &now
			if n := strings.TrimSpace(notes); n != "" {
				r.Notes = &n
			}
		},
		func(r *Request) (string, *int, AuditDetails) {
			return "approve", nil, AuditDetails{RequestID: &r.ID}
		},
		actor.ID, false)
}

func (s *Service) Deny(ctx context.Context, actor *auth.User, id uint, reason string) (*Request, error) {
	return s.transition(ctx, id, StatusPending, "Only pending requests can be denied",
		func(r *Request) {
			now := time.Now()
			r.Status = StatusDenied
			r.DeniedByUserID = &actor.ID
			r.DeniedAt = &now
		},
		func(r *Request) (string, *int, AuditDetails) {
			return "deny", intp(1), AuditDetails{RequestID: &r.ID, Reason: &reason}
		},
		actor.ID, true)
}

func (s *Service) Revoke(ctx context.Context, actor *auth.User, id uint, reason string) (*Request, error) {
	return s.transition(ctx, id, StatusApproved, "Only approved requests can be revoked",
		func(r *Request) {
			now := time.Now()
			r.Status = StatusRevoked
			r.RevokedByUserID = &actor.ID
			r.RevokedAt = &now
		},
		func(r *Request) (string, *int, AuditDetails) {
			return "revoke", intp(1), AuditDetails{RequestID: &r.ID, Reason: &reason}
		},
		actor.ID, true)
}

func (s *Service) FindRequest(ctx context.Context, id uint) (*Request, error) {
	var req Request
	err := s.DB.WithContext(ctx).Preload("Employee").Preload("Section").First(&req, id).Error
	if err != nil {
		return nil, apperr.NotFoundIf(err, "Request not found")
	}
	return &req, nil
}

type RequestFilter struct {
	EmployeeID *uint
	Date       *db.Date
	Shift      *Shift
	Status     *Status
}

// ListRequests applies the filter. Servers only ever see their own requests.
func (s *Service) ListRequests(ctx context.Context, u *auth.User, f RequestFilter) ([]Request, error) {
	if u.Role == auth.RoleServer {
		e, err := s.ResolveEmployee(ctx, u)
		if err != nil {
			return nil, err
		}
		f.EmployeeID = &e.ID
	}
	q := s.DB.WithContext(ctx).Preload("Employee").Preload("Section")
	if f.EmployeeID != nil {
		q = q.Where("employee_id = ?", *f.EmployeeID)
	}
	if f.Date != nil {
		q = q.Where("date = ?", *f.Date)
	}
	if f.Shift != nil {
		q = q.Where("shift = ?", *f.Shift)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	var out []Request
	err := q.Order("date desc").Order("created_at desc").Order("id desc").Find(&out).Error
	return out, err
}

// Occupied lists the section ids held by a live request on date and shift.
func (s *Service) Occupied(ctx context.Context, date db.Date, shift Shift) ([]uint, error) {
	ids := []uint{}
	err := s.DB.WithContext(ctx).Model(&Request{}).
		Where("date = ? AND shift = ? AND status IN ?", date, shift, []Status{StatusPending, StatusApproved}).
		Order("section_id asc").
		Pluck("section_id", &ids).Error
	return ids, err
}

func (s *Service) Audit(ctx context.Context, employeeID *uint) ([]Audit, error) {
	q := s.DB.WithContext(ctx).Order("created_at desc").Order("id desc").Limit(auditLimit)
	if employeeID != nil {
		q = q.Where("employee_id = ?", *employeeID)
	}
	var out []Audit
	err := q.Find(&out).Error
	return out, err
}
