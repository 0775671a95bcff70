package core

import "strings"

// Store status values counted by Summarize.
const (
	StatusOpen     = "OPEN"
	StatusUpcoming = "UPCOMING"
)

// Stats summarizes a master dataset.
type Stats struct {
	Total     int `json:"total"`
	Open      int `json:"open"`
	Upcoming  int `json:"upcoming"`
	Countries int `json:"countries"`
}

// Summarize computes statistics over an unfiltered dataset.
// Callers must pass the master records, never a display set.
func (s *Schema) Summarize(master []Record) Stats {
	stats := Stats{Total: len(master)}
	countries := make(map[string]struct{})

	for _, r := range master {
		switch strings.ToUpper(r.Get(s.Status)) {
		case StatusOpen:
			stats.Open++
		case StatusUpcoming:
			stats.Upcoming++
		}
		countries[r.Get(s.Country)] = struct{}{}
	}

	stats.Countries = len(countries)
	return stats
}

// Summarize computes statistics using DefaultSchema.
func Summarize(master []Record) Stats {
	return DefaultSchema.Summarize(master)
}
