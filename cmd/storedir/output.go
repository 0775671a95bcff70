package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/JonMunkholm/StoreDirectory/internal/core"
	"github.com/olekukonko/tablewriter"
)

// renderTable writes one table and nothing else.
func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(header)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderResults(w io.Writer, v core.View) error {
	s := v.Schema
	rows := make([][]string, 0, len(v.Rows))
	for _, row := range v.Rows {
		r := row.Record
		rows = append(rows, []string{
			strconv.Itoa(row.Pos),
			r.Get(s.StoreName),
			r.Get(s.StoreNumber),
			r.Get(s.Country),
			r.Get(s.MarketTeam),
			r.Get(s.Market),
			s.Badge(r).Label,
		})
	}

	if err := renderTable(w, []string{"Pos", "Store Name", "Store Number", "Country/Region", "Market Team", "Market", "Status"}, rows); err != nil {
		return err
	}

	noun := "stores"
	if v.Len() == 1 {
		noun = "store"
	}
	_, err := fmt.Fprintf(w, "Found %d %s\n", v.Len(), noun)
	return err
}

func renderStats(w io.Writer, v core.View) error {
	st := v.Stats()
	return renderTable(w, []string{"Metric", "Value"}, [][]string{
		{"Stores", strconv.Itoa(st.Total)},
		{"Open", strconv.Itoa(st.Open)},
		{"Upcoming", strconv.Itoa(st.Upcoming)},
		{"Countries", strconv.Itoa(st.Countries)},
		{"Skipped rows", strconv.Itoa(len(v.Master.Skipped))},
	})
}

func renderDetail(w io.Writer, d core.StoreDetail) error {
	rows := [][]string{
		{"", "Store Name", d.Name},
		{"", "Store Number", d.Number},
	}
	if d.ImageURL != "" {
		rows = append(rows, []string{"", "Image", d.ImageURL})
	}
	for _, sec := range d.Sections {
		for _, f := range sec.Fields {
			value := f.Value
			if f.Kind == core.KindAddress {
				value = strings.Join(f.Lines, ", ")
			}
			rows = append(rows, []string{sec.Title, f.Label, value})
		}
	}
	return renderTable(w, []string{"Section", "Field", "Value"}, rows)
}

func renderSkipped(w io.Writer, skipped []core.SkippedRow) error {
	rows := make([][]string, len(skipped))
	for i, sk := range skipped {
		rows[i] = []string{strconv.Itoa(sk.Line), strconv.Itoa(sk.Expected), strconv.Itoa(sk.Got)}
	}
	if err := renderTable(w, []string{"Line", "Expected", "Got"}, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d skipped\n", len(skipped))
	return err
}
