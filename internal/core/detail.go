package core

import "strings"

// DetailKind tells a renderer how to present a detail value.
type DetailKind int

const (
	KindText DetailKind = iota
	KindLink
	KindEmail
	KindStatus
	KindAddress
)

// DetailField is one labelled value in a store detail section.
type DetailField struct {
	Label string     `json:"label"`
	Value string     `json:"value"`
	Lines []string   `json:"lines,omitempty"` // KindAddress only
	Kind  DetailKind `json:"kind"`
}

// DetailSection groups related detail fields under a heading.
type DetailSection struct {
	Title  string        `json:"title"`
	Fields []DetailField `json:"fields"`
}

// StatusBadge is the display form of a store status.
type StatusBadge struct {
	Label string `json:"label"`
	Class string `json:"class"` // "open" or "closed"
}

// StatusOf maps a raw status cell to its badge. Only OPEN is shown as
// open; an empty status reads UNKNOWN.
func StatusOf(raw string) StatusBadge {
	label := strings.ToUpper(raw)
	if label == "" {
		label = "UNKNOWN"
	}
	class := "closed"
	if label == StatusOpen {
		class = "open"
	}
	return StatusBadge{Label: label, Class: class}
}

// StoreDetail is the full presentation of one store.
type StoreDetail struct {
	Name     string          `json:"name"`
	Number   string          `json:"number"`
	ImageURL string          `json:"image_url,omitempty"`
	Status   StatusBadge     `json:"status"`
	Sections []DetailSection `json:"sections"`
}

// Badge returns the status badge of a record.
func (s *Schema) Badge(r Record) StatusBadge {
	return StatusOf(r.Get(s.Status))
}

// Detail builds the detail presentation of r. Optional values are left out
// when empty; the location hierarchy is always shown.
func (s *Schema) Detail(r Record) StoreDetail {
	d := StoreDetail{
		Name:     r.Get(s.StoreName),
		Number:   r.Get(s.StoreNumber),
		ImageURL: r.GetOr(s.SecureImageURL, r.Get(s.ImageURL)),
		Status:   s.Badge(r),
	}

	info := DetailSection{Title: "Store Information"}
	info.Fields = append(info.Fields, DetailField{Label: "Store Status", Value: d.Status.Label, Kind: KindStatus})
	info.Fields = appendIf(info.Fields, "Web URL", r.Get(s.WebURL), KindLink)
	info.Fields = appendIf(info.Fields, "Timezone", r.Get(s.TimeZone), KindText)

	location := DetailSection{Title: "Location Hierarchy", Fields: []DetailField{
		{Label: "Geo", Value: r.Get(s.Geo)},
		{Label: "Country/Region", Value: r.Get(s.Country)},
		{Label: "Company", Value: r.Get(s.Company)},
		{Label: "Market Team", Value: r.Get(s.MarketTeam)},
		{Label: "Market", Value: r.Get(s.Market)},
	}}

	support := DetailSection{Title: "Field Support", Fields: []DetailField{
		{Label: "Market Director", Value: r.Get(s.MarketDirector)},
	}}
	support.Fields = appendIf(support.Fields, "Market Director Email", r.Get(s.MarketDirectorEm), KindEmail)
	support.Fields = append(support.Fields, DetailField{Label: "Market Leader", Value: r.Get(s.MarketLeader)})
	support.Fields = appendIf(support.Fields, "Market Leader Email", r.Get(s.MarketLeaderEm), KindEmail)
	support.Fields = appendIf(support.Fields, "Store Operations Field Leader", r.Get(s.OpsFieldLeader), KindText)
	support.Fields = appendIf(support.Fields, "Store Operations Field Leader Email", r.Get(s.OpsFieldLeaderEm), KindEmail)
	support.Fields = appendIf(support.Fields, "IS&T Field Leader", r.Get(s.ISTFieldLeader), KindText)
	support.Fields = appendIf(support.Fields, "IS&T Field Leader Email", r.Get(s.ISTFieldLeaderEm), KindEmail)
	support.Fields = appendIf(support.Fields, "Retail Assistant", r.Get(s.RetailAssistant), KindText)
	support.Fields = appendIf(support.Fields, "Retail Assistant Email", r.Get(s.RetailAssistantEm), KindEmail)

	address := DetailSection{Title: "Address", Fields: []DetailField{
		s.address("Physical Address", r, s.Physical),
		s.address("Shipping Address", r, s.Shipping),
	}}

	d.Sections = []DetailSection{info, location, support, address}

	if opening := r.Get(s.OpeningDate); opening != "" {
		dates := DetailSection{Title: "Dates", Fields: []DetailField{
			{Label: "Opening Date", Value: opening},
		}}
		dates.Fields = appendIf(dates.Fields, "Marketing Date", r.Get(s.MarketingDate), KindText)
		d.Sections = append(d.Sections, dates)
	}

	return d
}

func (s *Schema) address(label string, r Record, cols AddressColumns) DetailField {
	locality := r.Get(cols.City)
	if region := strings.TrimSpace(r.Get(cols.State) + " " + r.Get(cols.PostalCode)); region != "" {
		if locality != "" {
			locality += ", "
		}
		locality += region
	}

	var lines []string
	for _, l := range []string{r.Get(cols.Line1), r.Get(cols.Line2), locality, r.Get(s.Country)} {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return DetailField{
		Label: label,
		Value: strings.Join(lines, "\n"),
		Lines: lines,
		Kind:  KindAddress,
	}
}

func appendIf(fields []DetailField, label, value string, kind DetailKind) []DetailField {
	if value == "" {
		return fields
	}
	return append(fields, DetailField{Label: label, Value: value, Kind: kind})
}
