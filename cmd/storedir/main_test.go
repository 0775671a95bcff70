package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/StoreDirectory/internal/core"
)

const storesCSV = `Store Name,Store Number,Physical Address - City,Market,Market Team Name,Country/Region,Store Status,Physical Address - Address 1
Alpha Store,R001,Springfield,Central,Team A,United States,Open,1 Main St
Beta Store,R002,Shelbyville,East,Team B,Canada,Upcoming,2 Side St
Gamma Store,R003,Springfield,Central,Team A,United States,Closed,3 Back St
Bad,Row
`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stores.csv")
	if err := os.WriteFile(path, []byte(storesCSV), 0o600); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSearch(t *testing.T) {
	src := writeDataset(t)

	out, err := run(t, "--source", src, "search", "spring")
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	for _, want := range []string{"Alpha Store", "Gamma Store", "Found 2 stores"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Beta Store") {
		t.Errorf("Beta Store should not match:\n%s", out)
	}
}

func TestSearch_JoinsArgs(t *testing.T) {
	src := writeDataset(t)

	out, err := run(t, "--source", src, "search", "beta", "store")
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	if !strings.Contains(out, "Beta Store") || !strings.Contains(out, "Found 1 store\n") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestFilter(t *testing.T) {
	src := writeDataset(t)

	tests := []struct {
		name  string
		args  []string
		want  []string
		found string
	}{
		{"single field", []string{"--country", "canada"}, []string{"Beta Store"}, "Found 1 store\n"},
		{"and across fields", []string{"--city", "spring", "--store-number", "r003"}, []string{"Gamma Store"}, "Found 1 store\n"},
		{"no filters lists all", nil, []string{"Alpha Store", "Beta Store", "Gamma Store"}, "Found 3 stores"},
		{"no match", []string{"--market", "west"}, nil, "Found 0 stores"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--source", src, "filter"}, tt.args...)
			out, err := run(t, args...)
			if err != nil {
				t.Fatalf("filter error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			if !strings.Contains(out, tt.found) {
				t.Errorf("output missing %q:\n%s", tt.found, out)
			}
		})
	}
}

func TestStats(t *testing.T) {
	src := writeDataset(t)

	out, err := run(t, "--source", src, "stats")
	if err != nil {
		t.Fatalf("stats error = %v", err)
	}
	for _, want := range []string{"Stores", "Open", "Upcoming", "Countries", "Skipped rows"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShow(t *testing.T) {
	src := writeDataset(t)

	out, err := run(t, "--source", src, "show", "1")
	if err != nil {
		t.Fatalf("show error = %v", err)
	}
	for _, want := range []string{"Beta Store", "UPCOMING", "Location Hierarchy", "2 Side St"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShow_OutOfRange(t *testing.T) {
	src := writeDataset(t)

	for _, pos := range []string{"3", "-1", "x"} {
		_, err := run(t, "--source", src, "show", pos)
		if !errors.Is(err, core.ErrStoreNotFound) {
			t.Errorf("show %s error = %v, want ErrStoreNotFound", pos, err)
		}
	}
}

func TestSkipped(t *testing.T) {
	src := writeDataset(t)

	out, err := run(t, "--source", src, "skipped")
	if err != nil {
		t.Fatalf("skipped error = %v", err)
	}
	if !strings.Contains(out, "1 skipped") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestMissingSource(t *testing.T) {
	_, err := run(t, "--source", filepath.Join(t.TempDir(), "absent.csv"), "stats")
	if err == nil {
		t.Fatal("expected error for a missing dataset")
	}
	if !strings.Contains(err.Error(), "FILE001") {
		t.Errorf("error = %v, want FILE001 message", err)
	}
}

func TestSourceFromEnvironment(t *testing.T) {
	t.Setenv("DATASET_SOURCE", writeDataset(t))

	out, err := run(t, "search", "gamma")
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	if !strings.Contains(out, "Gamma Store") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestSchemaOverride(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "stores.csv")
	data := "Name,Code,Town\nAlpha,A1,Springfield\nBeta,B2,Shelbyville\n"
	if err := os.WriteFile(src, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	schema := filepath.Join(dir, "schema.yaml")
	if err := os.WriteFile(schema, []byte("store_name: Name\nstore_number: Code\ncity: Town\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--source", src, "--schema", schema, "filter", "--city", "shelby")
	if err != nil {
		t.Fatalf("filter error = %v", err)
	}
	if !strings.Contains(out, "Beta") || !strings.Contains(out, "Found 1 store\n") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
