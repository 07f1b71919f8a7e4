package teamsheet

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/KromaEnergia/teamsheet-api/internal/shift"
	"github.com/KromaEnergia/teamsheet-api/internal/storepref"
)

func employeeName(a *Assignment) *string {
	if a.Employee == nil {
		return nil
	}
	name := a.Employee.DisplayName()
	return &name
}

func sectionLabel(a *Assignment) *string {
	if a.Section == nil {
		return nil
	}
	label := a.Section.Label
	return &label
}

// Serialize renders the sheet with resolved names. Tasks carry only employee ids.
func Serialize(sheet *TeamSheet) Read {
	out := Read{
		ID:              sheet.ID,
		ShiftID:         sheet.ShiftID,
		Title:           sheet.Title,
		Status:          sheet.Status,
		Notes:           sheet.Notes,
		CreatedByUserID: sheet.CreatedByUserID,
		CreatedAt:       sheet.CreatedAt,
		UpdatedAt:       sheet.UpdatedAt,
		Assignments:     make([]AssignmentRead, 0, len(sheet.Assignments)),
		Sidework:        make([]TaskRead, 0, len(sheet.SideworkTasks)),
		Outwork:         make([]TaskRead, 0, len(sheet.OutworkTasks)),
	}
	for i := range sheet.Assignments {
		a := &sheet.Assignments[i]
		out.Assignments = append(out.Assignments, AssignmentRead{
			ID:           a.ID,
			EmployeeID:   a.EmployeeID,
			SectionID:    a.SectionID,
			RoleLabel:    a.RoleLabel,
			OrderIndex:   a.OrderIndex,
			EmployeeName: employeeName(a),
			SectionLabel: sectionLabel(a),
		})
	}
	for _, t := range sheet.SideworkTasks {
		ids := make([]uint, 0, len(t.Assignments))
		for _, a := range t.Assignments {
			ids = append(ids, a.EmployeeID)
		}
		out.Sidework = append(out.Sidework, TaskRead{ID: t.ID, Label: t.Label, Description: t.Description, EmployeeIDs: ids})
	}
	for _, t := range sheet.OutworkTasks {
		ids := make([]uint, 0, len(t.Assignments))
		for _, a := range t.Assignments {
			ids = append(ids, a.EmployeeID)
		}
		out.Outwork = append(out.Outwork, TaskRead{ID: t.ID, Label: t.Label, Description: t.Description, EmployeeIDs: ids})
	}
	return out
}

// taskLabels returns, per employee id, the labels of the tasks they are on.
// A task counts once per employee even if the id is repeated.
func taskLabels(tasks []TaskRead, clean func(string) string) map[uint][]string {
	out := make(map[uint][]string)
	for _, t := range tasks {
		label := clean(t.Label)
		seen := make(map[uint]bool, len(t.EmployeeIDs))
		for _, id := range t.EmployeeIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			out[id] = append(out[id], label)
		}
	}
	return out
}

func keepLabel(s string) string { return s }

// WriteCSV writes one row per assignment.
func WriteCSV(w io.Writer, sheet *TeamSheet) error {
	view := Serialize(sheet)
	side := taskLabels(view.Sidework, keepLabel)
	out := taskLabels(view.Outwork, keepLabel)
	notes := ""
	if sheet.Notes != nil {
		notes = *sheet.Notes
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Section", "Employee", "Role", "Sidework", "Outwork", "Notes"}); err != nil {
		return err
	}
	for _, a := range view.Assignments {
		name, label, role := "Unassigned", "Unassigned", ""
		if a.EmployeeName != nil {
			name = *a.EmployeeName
		}
		if a.SectionLabel != nil {
			label = *a.SectionLabel
		}
		if a.RoleLabel != nil {
			role = *a.RoleLabel
		}
		row := []string{
			label,
			name,
			role,
			strings.Join(side[a.EmployeeID], "; "),
			strings.Join(out[a.EmployeeID], "; "),
			notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// InTime picks the start time for a shift from the store's schedule:
// DINNER uses second_shift_in, everything else first_shift_in, both falling
// back to open_time.
func InTime(s *shift.Shift, pref *storepref.StorePreference) string {
	if s == nil || pref == nil {
		return ""
	}
	entry, ok := pref.EntryFor(s.Date.Weekday())
	if !ok {
		return ""
	}
	pick := entry.FirstShiftIn
	if s.TimePeriod == shift.PeriodDinner {
		pick = entry.SecondShiftIn
	}
	if pick != nil && *pick != "" {
		return *pick
	}
	if entry.OpenTime != nil {
		return *entry.OpenTime
	}
	return ""
}

// FormatClock turns "HH:MM[:SS]" into "H:MM AM". Unparseable input is returned as is.
func FormatClock(value string) string {
	if value == "" {
		return ""
	}
	parts := strings.Split(value, ":")
	if len(parts) < 2 {
		return value
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return value
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, suffix)
}

// stripSectionPrefix drops a leading "[Section:...] " tag from task labels.
func stripSectionPrefix(label string) string {
	if strings.HasPrefix(label, "[Section:") {
		if _, rest, ok := strings.Cut(label, "] "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return strings.TrimSpace(label)
}

type printRow struct {
	InTime, Section, Employee, Sidework, Outwork string
}

type printView struct {
	Title, Status, Date, Period, Store, Notes string
	Rows                                      []printRow
}

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <style>
    body { font-family: "Segoe UI", Arial, sans-serif; margin: 24px; color: #111; }
    h1 { margin: 0 0 6px; }
    .meta { color: #444; margin-bottom: 16px; }
    table { width: 100%; border-collapse: collapse; font-size: 14px; }
    th, td { border: 1px solid #444; padding: 6px 8px; text-align: left; vertical-align: top; }
    th { background: #efefef; text-transform: uppercase; font-size: 12px; letter-spacing: .04em; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <div class="meta">Status: {{.Status}} {{.Date}} {{.Period}} {{.Store}}</div>
  <div class="meta">Notes: {{.Notes}}</div>
  <table>
    <tr><th>In Time</th><th>Section</th><th>Employee</th><th>Sidework</th><th>Outwork</th></tr>
{{- range .Rows}}
    <tr><td>{{.InTime}}</td><td>{{.Section}}</td><td>{{.Employee}}</td><td>{{.Sidework}}</td><td>{{.Outwork}}</td></tr>
{{- end}}
  </table>
</body>
</html>
`))

// WritePrint renders the printable HTML page. s and pref may be nil.
func WritePrint(w io.Writer, sheet *TeamSheet, s *shift.Shift, pref *storepref.StorePreference) error {
	view := Serialize(sheet)
	side := taskLabels(view.Sidework, stripSectionPrefix)
	out := taskLabels(view.Outwork, stripSectionPrefix)
	in := FormatClock(InTime(s, pref))

	pv := printView{Title: view.Title, Status: string(view.Status)}
	if view.Notes != nil {
		pv.Notes = *view.Notes
	}
	if s != nil {
		pv.Date = s.Date.String()
		pv.Period = string(s.TimePeriod)
		if s.StoreID != nil {
			pv.Store = fmt.Sprintf("Store %d", *s.StoreID)
		}
	}
	for i, a := range view.Assignments {
		row := printRow{
			InTime:   in,
			Sidework: strings.Join(side[a.EmployeeID], "; "),
			Outwork:  strings.Join(out[a.EmployeeID], "; "),
		}
		switch {
		case a.SectionLabel != nil && *a.SectionLabel != "":
			row.Section = *a.SectionLabel
		case a.RoleLabel != nil && *a.RoleLabel != "":
			row.Section = *a.RoleLabel
		case sheet.Assignments[i].Section != nil:
			row.Section = sheet.Assignments[i].Section.Name
		}
		if a.EmployeeName != nil {
			row.Employee = *a.EmployeeName
		}
		pv.Rows = append(pv.Rows, row)
	}
	return printTemplate.Execute(w, pv)
}
