package core

import (
	"reflect"
	"testing"
)

func testDataset() *Dataset {
	return &Dataset{
		Header:  []string{"Store Name", "Store Number"},
		Records: testStores(),
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize(testStores())

	want := Stats{Total: 4, Open: 2, Upcoming: 1, Countries: 3}
	if got != want {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}
}

func TestSummarize_MissingCountryCountsAsValue(t *testing.T) {
	stores := []Record{
		{"Country/Region": "Japan"},
		{"Store Name": "no country"},
		{"Country/Region": ""},
	}

	got := Summarize(stores)
	if got.Countries != 2 {
		t.Errorf("Countries = %d, want 2", got.Countries)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if got := Summarize(nil); got != (Stats{}) {
		t.Errorf("Summarize(nil) = %+v, want zero", got)
	}
}

func TestView_SearchKeepsMasterPositions(t *testing.T) {
	v := NewView(nil, testDataset()).Search("aus")

	var positions []int
	for _, row := range v.Rows {
		positions = append(positions, row.Pos)
	}
	if !reflect.DeepEqual(positions, []int{1, 2}) {
		t.Errorf("positions = %v, want [1 2]", positions)
	}
	if v.Query != "aus" {
		t.Errorf("Query = %q, want %q", v.Query, "aus")
	}
}

func TestView_FilterRecomputesFromMaster(t *testing.T) {
	base := NewView(nil, testDataset())

	narrowed := base.Filter(Criteria{FieldCountry: "australia"})
	if narrowed.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", narrowed.Len())
	}

	// A second filter starts from the master, not from the narrowed set.
	widened := narrowed.Filter(Criteria{FieldCountry: "united"})
	if widened.Len() != 3 {
		t.Errorf("Len() = %d, want 3", widened.Len())
	}

	if base.Len() != 4 {
		t.Errorf("base view modified: Len() = %d, want 4", base.Len())
	}
}

func TestView_StatsIgnoreDisplaySet(t *testing.T) {
	v := NewView(nil, testDataset()).Search("covent")

	if v.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", v.Len())
	}
	if got := v.Stats().Total; got != 4 {
		t.Errorf("Stats().Total = %d, want 4", got)
	}
}

func TestView_Clear(t *testing.T) {
	v := NewView(nil, testDataset()).Search("sydney").Clear()

	if v.Len() != 4 {
		t.Errorf("Len() = %d, want 4", v.Len())
	}
	if v.Query != "" || v.Criteria != nil {
		t.Errorf("Clear() kept query %q / criteria %v", v.Query, v.Criteria)
	}
}

func TestView_RecordsMatchesSearch(t *testing.T) {
	ds := testDataset()
	v := NewView(nil, ds).Search("spring")

	if !reflect.DeepEqual(v.Records(), Search(ds.Records, "spring")) {
		t.Error("View.Records() differs from Search()")
	}
}

func TestView_NilMaster(t *testing.T) {
	v := NewView(nil, nil)
	if v.Len() != 0 {
		t.Errorf("Len() = %d, want 0", v.Len())
	}
	if v.Stats() != (Stats{}) {
		t.Errorf("Stats() = %+v, want zero", v.Stats())
	}
}

func TestDataset_At(t *testing.T) {
	ds := testDataset()

	if _, err := ds.At(0); err != nil {
		t.Errorf("At(0) error = %v", err)
	}
	for _, pos := range []int{-1, 4, 100} {
		if _, err := ds.At(pos); err != ErrStoreNotFound {
			t.Errorf("At(%d) error = %v, want ErrStoreNotFound", pos, err)
		}
	}
}

func TestRecord_GetOr(t *testing.T) {
	r := Record{"Store Status": "", "Name": "x"}

	if got := r.GetOr("Store Status", "Unknown"); got != "Unknown" {
		t.Errorf("GetOr(empty) = %q, want Unknown", got)
	}
	if got := r.GetOr("Missing", "Unknown"); got != "Unknown" {
		t.Errorf("GetOr(missing) = %q, want Unknown", got)
	}
	if got := r.GetOr("Name", "Unknown"); got != "x" {
		t.Errorf("GetOr(Name) = %q, want x", got)
	}

	var nilRec Record
	if got := nilRec.Get("Name"); got != "" {
		t.Errorf("nil Record Get() = %q, want empty", got)
	}
}
