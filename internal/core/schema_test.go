package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeSchema(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	return path
}

func TestLoadSchema_EmptyPathReturnsDefaults(t *testing.T) {
	s, err := LoadSchema("")
	if err != nil {
		t.Fatalf("LoadSchema() error = %v", err)
	}
	if *s != DefaultSchema {
		t.Error("LoadSchema(\"\") should equal DefaultSchema")
	}
}

func TestLoadSchema_Override(t *testing.T) {
	path := writeSchema(t, `
store_name: Name
city: Town
physical_address:
  line1: Street
`)

	s, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("LoadSchema() error = %v", err)
	}

	if s.StoreName != "Name" {
		t.Errorf("StoreName = %q, want Name", s.StoreName)
	}
	if s.City != "Town" {
		t.Errorf("City = %q, want Town", s.City)
	}
	if s.Physical.Line1 != "Street" {
		t.Errorf("Physical.Line1 = %q, want Street", s.Physical.Line1)
	}
	if s.Physical.Line2 != DefaultSchema.Physical.Line2 {
		t.Errorf("Physical.Line2 = %q, want default", s.Physical.Line2)
	}
	if s.Market != DefaultSchema.Market {
		t.Errorf("Market = %q, want default %q", s.Market, DefaultSchema.Market)
	}
	if DefaultSchema.City != "Physical Address - City" {
		t.Error("LoadSchema modified DefaultSchema")
	}
}

func TestLoadSchema_EmptyFile(t *testing.T) {
	s, err := LoadSchema(writeSchema(t, ""))
	if err != nil {
		t.Fatalf("LoadSchema() error = %v", err)
	}
	if *s != DefaultSchema {
		t.Error("empty file should yield DefaultSchema")
	}
}

func TestLoadSchema_UnknownKey(t *testing.T) {
	_, err := LoadSchema(writeSchema(t, "store_nmae: Name\n"))
	if !errors.Is(err, ErrInvalidSchema) {
		t.Fatalf("LoadSchema() error = %v, want ErrInvalidSchema", err)
	}
	if MapError(err).Code != "CFG001" {
		t.Errorf("MapError() code = %q, want CFG001", MapError(err).Code)
	}
}

func TestLoadSchema_MissingFile(t *testing.T) {
	_, err := LoadSchema(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("LoadSchema() expected error for missing file")
	}
}

func TestSchema_Column(t *testing.T) {
	tests := []struct {
		field Field
		want  string
	}{
		{FieldCountry, "Country/Region"},
		{FieldMarketTeam, "Market Team Name"},
		{FieldMarket, "Market"},
		{FieldStoreName, "Store Name"},
		{FieldCity, "Physical Address - City"},
		{FieldStoreNumber, "Store Number"},
		{Field("bogus"), ""},
	}

	for _, tt := range tests {
		if got := DefaultSchema.Column(tt.field); got != tt.want {
			t.Errorf("Column(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}
