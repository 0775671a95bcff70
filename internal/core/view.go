package core

// Row is a display row: a record and its position in the master dataset.
type Row struct {
	Pos    int
	Record Record
}

// View pairs a master dataset with the display set derived from it.
//
// A View is a value. Search, Filter and Clear return a new View computed
// from the master; the receiver and the master are never modified.
type View struct {
	Schema   *Schema
	Master   *Dataset
	Rows     []Row
	Query    string
	Criteria Criteria
}

// NewView returns a view showing every record of master.
func NewView(schema *Schema, master *Dataset) View {
	if schema == nil {
		schema = &DefaultSchema
	}
	v := View{Schema: schema, Master: master}
	v.Rows = v.selectRows(nil)
	return v
}

// Search returns a view filtered by a global query.
func (v View) Search(query string) View {
	return View{
		Schema: v.Schema,
		Master: v.Master,
		Rows:   v.selectRows(v.Schema.QueryMatcher(query)),
		Query:  query,
	}
}

// Filter returns a view filtered by per-field criteria.
func (v View) Filter(c Criteria) View {
	return View{
		Schema:   v.Schema,
		Master:   v.Master,
		Rows:     v.selectRows(v.Schema.CriteriaMatcher(c)),
		Criteria: c,
	}
}

// Clear returns a view showing every record again.
func (v View) Clear() View {
	return NewView(v.Schema, v.Master)
}

// Records returns the display set.
func (v View) Records() []Record {
	out := make([]Record, len(v.Rows))
	for i, row := range v.Rows {
		out[i] = row.Record
	}
	return out
}

// Len returns the size of the display set.
func (v View) Len() int {
	return len(v.Rows)
}

// Stats summarizes the master dataset, ignoring the current display set.
func (v View) Stats() Stats {
	if v.Master == nil {
		return Stats{}
	}
	return v.Schema.Summarize(v.Master.Records)
}

func (v View) selectRows(m Matcher) []Row {
	if v.Master == nil {
		return []Row{}
	}
	rows := make([]Row, 0, len(v.Master.Records))
	for i, r := range v.Master.Records {
		if m == nil || m(r) {
			rows = append(rows, Row{Pos: i, Record: r})
		}
	}
	return rows
}
