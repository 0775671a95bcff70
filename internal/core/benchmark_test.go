package core

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"
)

// generateDirectoryCSV builds a store export with n data rows. Every tenth
// name carries a quoted comma and every 25th address an embedded newline.
func generateDirectoryCSV(n int) string {
	var b strings.Builder
	b.WriteString("Store Name,Store Number,Physical Address - Address 1,Physical Address - City,Market,Market Team Name,Country/Region,Store Status\r\n")

	countries := []string{"United States", "Canada", "Japan", "Germany", "Brazil"}
	statuses := []string{"Open", "Open", "Open", "Upcoming", "Closed"}
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("Store %d", i)
		if i%10 == 0 {
			name = fmt.Sprintf(`"Store %d, Downtown"`, i)
		}
		addr := fmt.Sprintf("%d Main St", i)
		if i%25 == 0 {
			addr = fmt.Sprintf("\"%d Main St\nSuite \"\"B\"\"\"", i)
		}
		fmt.Fprintf(&b, "%s,R%05d,%s,City %d,Market %d,Team %d,%s,%s\r\n",
			name, i, addr, i%200, i%40, i%8, countries[i%len(countries)], statuses[i%len(statuses)])
	}
	return b.String()
}

// ============================================================================
// Parsing Benchmarks
// ============================================================================

func BenchmarkParse(b *testing.B) {
	for _, n := range []int{100, 1000, 10000} {
		data := generateDirectoryCSV(n)
		b.Run(fmt.Sprintf("rows=%d", n), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Parse(data)
			}
		})
	}
}

// BenchmarkParse_Comparison measures the line-splitting parser against
// encoding/csv on the same input.
func BenchmarkParse_Comparison(b *testing.B) {
	data := generateDirectoryCSV(1000)

	b.Run("Parse", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			Parse(data)
		}
	})

	b.Run("encoding/csv", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			r := csv.NewReader(bytes.NewReader([]byte(data)))
			r.FieldsPerRecord = -1
			_, _ = r.ReadAll()
		}
	})
}

func BenchmarkSplitFields(b *testing.B) {
	line := `"Store 10, Downtown",R00010,"10 Main St",City 10,Market 10,Team 2,Japan,Open`
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		SplitFields(line)
	}
}

// ============================================================================
// Search / Filter Benchmarks
// ============================================================================

func BenchmarkSearch(b *testing.B) {
	records := Parse(generateDirectoryCSV(10000))

	for _, q := range []string{"", "downtown", "R0999", "zzz"} {
		b.Run("q="+q, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Search(records, q)
			}
		})
	}
}

func BenchmarkFilterBy(b *testing.B) {
	records := Parse(generateDirectoryCSV(10000))
	criteria := Criteria{FieldCountry: "japan", FieldMarket: "market 1", FieldCity: "city"}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		FilterBy(records, criteria)
	}
}

func BenchmarkSummarize(b *testing.B) {
	records := Parse(generateDirectoryCSV(10000))

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Summarize(records)
	}
}

func BenchmarkSearchParallel(b *testing.B) {
	records := Parse(generateDirectoryCSV(10000))

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			Search(records, "downtown")
		}
	})
}

// TestGenerateDirectoryCSV keeps the benchmark input honest: every
// generated row must survive parsing.
func TestGenerateDirectoryCSV(t *testing.T) {
	res := ParseReport(generateDirectoryCSV(100))
	if len(res.Records) != 100 || len(res.Skipped) != 0 {
		t.Fatalf("parsed %d records, skipped %d; want 100, 0", len(res.Records), len(res.Skipped))
	}
	if got := res.Records[25].Get("Physical Address - Address 1"); got != "25 Main St\nSuite \"B\"" {
		t.Errorf("embedded newline row = %q", got)
	}
	if got := res.Records[10].Get("Store Name"); got != "Store 10, Downtown" {
		t.Errorf("quoted name = %q", got)
	}
}
