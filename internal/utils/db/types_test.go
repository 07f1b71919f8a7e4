package db

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"
)

type dated struct {
	ID   uint `gorm:"primaryKey"`
	Day  Date
	Opt  *Date
	Name string
}

func TestDateJSON(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2024-05-01"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.May || d.Day() != 1 {
		t.Fatalf("got %v", d)
	}
	b, _ := json.Marshal(d)
	if string(b) != `"2024-05-01"` {
		t.Fatalf("marshal = %s", b)
	}
	if err := json.Unmarshal([]byte(`"01/05/2024"`), &d); err == nil {
		t.Fatal("expected error for bad layout")
	}
}

func TestDateRoundTripSQLite(t *testing.T) {
	database, err := ConnectSQLite(filepath.Join(t.TempDir(), "d.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := database.AutoMigrate(&dated{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	row := dated{Day: NewDate(2024, time.May, 1), Name: "a"}
	if err := database.Create(&row).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	later := dated{Day: NewDate(2024, time.June, 3), Name: "b"}
	if err := database.Create(&later).Error; err != nil {
		t.Fatalf("create: %v", err)
	}

	var got []dated
	if err := database.Where("day >= ?", NewDate(2024, time.May, 15)).Find(&got).Error; err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].Name != "b" || got[0].Day.String() != "2024-06-03" {
		t.Fatalf("unexpected rows: %+v", got)
	}
	if got[0].Opt != nil {
		t.Fatalf("nil date should stay nil, got %v", got[0].Opt)
	}
}

func TestDateAddDays(t *testing.T) {
	d := NewDate(2024, time.March, 1).AddDays(-1)
	if d.String() != "2024-02-29" {
		t.Fatalf("got %s", d)
	}
}
