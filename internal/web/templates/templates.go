// Package templates holds the templ components of the store directory UI.
// Components are authored in the .templ files; the _templ.go files are
// generated from them with `templ generate`.
package templates

//go:generate templ generate

import (
	"strconv"
	"time"

	"github.com/JonMunkholm/StoreDirectory/internal/core"
)

// htmxSrc is the pinned HTMX build loaded by every page.
const htmxSrc = "https://unpkg.com/htmx.org@1.9.12/dist/htmx.min.js"

// ResultRow is one store in the results table.
type ResultRow struct {
	Pos        int
	Name       string
	Number     string
	Country    string
	MarketTeam string
	Market     string
	Status     core.StatusBadge
}

// LoadInfo describes the dataset currently shown.
type LoadInfo struct {
	ID       string
	Source   string
	LoadedAt time.Time
	Skipped  int
}

// IndexData is everything the directory page shows.
type IndexData struct {
	Title          string
	DebounceMillis int64
	Query          string
	Filters        map[core.Field]string
	Stats          core.Stats
	Rows           []ResultRow
	Load           *LoadInfo         // nil when nothing is loaded
	Error          *core.UserMessage // load failure, if any
}

var filterLabels = map[core.Field]string{
	core.FieldCountry:     "Country",
	core.FieldMarketTeam:  "Market Team",
	core.FieldMarket:      "Market",
	core.FieldStoreName:   "Store Name",
	core.FieldCity:        "City",
	core.FieldStoreNumber: "Store Number",
}

func storeHref(pos int) string {
	return "/store/" + strconv.Itoa(pos)
}

func searchTrigger(debounceMillis int64) string {
	return "input changed delay:" + strconv.FormatInt(debounceMillis, 10) + "ms, search"
}

func filterID(f core.Field) string {
	return string(f) + "Filter"
}

func countText(n int, one, many string) string {
	if n == 1 {
		return strconv.Itoa(n) + " " + one
	}
	return strconv.Itoa(n) + " " + many
}

func loadedAt(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
