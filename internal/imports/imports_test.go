package imports

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KromaEnergia/teamsheet-api/internal/apperr"
	"github.com/KromaEnergia/teamsheet-api/internal/employee"
	"github.com/KromaEnergia/teamsheet-api/internal/utils/db"
	"github.com/KromaEnergia/teamsheet-api/internal/utils/db/dbtest"
)

func TestDecode(t *testing.T) {
	got, err := Decode([]byte("\xEF\xBB\xBFname\nAna\n"))
	if err != nil || got != "name\nAna\n" {
		t.Fatalf("bom: %q %v", got, err)
	}
	got, err = Decode([]byte("name\nJos\xe9\n"))
	if err != nil || got != "name\nJosé\n" {
		t.Fatalf("latin-1: %q %v", got, err)
	}
}

func TestParse(t *testing.T) {
	if _, err := Parse("first,last\nAna,Silva\n"); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("missing name column: %v", err)
	}
	if _, err := Parse(""); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("empty file: %v", err)
	}

	rows, err := Parse("Name,Upsell,Pitty,employment,capacity,nickname\n" +
		"Ana Maria Silva,7.9,3,30,4,\n" +
		",1,1,1,1,\n" +
		"Bia,x,,,,Bee\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %+v", rows)
	}
	ana := rows[0]
	if ana.FirstName != "Ana" || ana.LastName != "Maria" || *ana.UpsellScore != 7 || *ana.PittyScore != 3 ||
		*ana.EmploymentDays != 30 || *ana.MaxSectionLoad != 4 || ana.Nickname != nil {
		t.Fatalf("ana = %+v", ana)
	}
	bia := rows[1]
	if bia.LastName != "" || bia.UpsellScore != nil || bia.Nickname == nil || *bia.Nickname != "Bee" {
		t.Fatalf("bia = %+v", bia)
	}
}

func TestApplyUpserts(t *testing.T) {
	database := dbtest.Open(t, &employee.Employee{})
	ctx := context.Background()
	existing := employee.Employee{FirstName: "Ana", LastName: "Silva", Role: employee.RoleHost, EmploymentStartDate: db.NewDate(2020, 1, 1), Active: true}
	database.Create(&existing)

	days := 10
	res, err := Apply(ctx, database, []Row{
		{FirstName: "Ana", LastName: "Silva", EmploymentDays: &days},
		{FirstName: "Caio"},
		{FirstName: "Caio"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Created != 1 || res.Updated != 2 {
		t.Fatalf("result = %+v", res)
	}

	repo := employee.NewRepository(database)
	ana, _ := repo.FindByID(ctx, existing.ID)
	if ana.Role != employee.RoleHost || ana.EmploymentStartDate.String() != db.Today().AddDays(-10).String() {
		t.Fatalf("ana = %+v", ana)
	}
	caio, err := repo.FindByExactName(ctx, "Caio", "")
	if err != nil || caio.Role != employee.RoleServer || !caio.Active {
		t.Fatalf("caio = %+v %v", caio, err)
	}
}

func TestServersUpload(t *testing.T) {
	h := NewHandler(dbtest.Open(t, &employee.Employee{}))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "servers.csv")
	fw.Write([]byte("name,upsell_score\nAna Silva,5\nBia Reis,2\n"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/imports/servers", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h.Servers(rr, req)
	if rr.Code != http.StatusCreated || strings.TrimSpace(rr.Body.String()) != `{"created":2,"updated":0}` {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.Servers(rr, httptest.NewRequest(http.MethodPost, "/imports/servers", strings.NewReader("name\n")))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing file: %d", rr.Code)
	}
}
