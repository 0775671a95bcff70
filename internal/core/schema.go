package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Schema binds logical store attributes to CSV column names.
//
// The zero value is not useful; start from DefaultSchema and override
// columns with LoadSchema when an export uses different headers.
type Schema struct {
	StoreName   string `yaml:"store_name"`
	StoreNumber string `yaml:"store_number"`
	City        string `yaml:"city"`
	Market      string `yaml:"market"`
	MarketTeam  string `yaml:"market_team"`
	Country     string `yaml:"country"`
	Status      string `yaml:"status"`

	// Detail view columns
	SecureImageURL    string         `yaml:"secure_image_url"`
	ImageURL          string         `yaml:"image_url"`
	WebURL            string         `yaml:"web_url"`
	TimeZone          string         `yaml:"time_zone"`
	Geo               string         `yaml:"geo"`
	Company           string         `yaml:"company"`
	MarketDirector    string         `yaml:"market_director"`
	MarketDirectorEm  string         `yaml:"market_director_email"`
	MarketLeader      string         `yaml:"market_leader"`
	MarketLeaderEm    string         `yaml:"market_leader_email"`
	OpsFieldLeader    string         `yaml:"ops_field_leader"`
	OpsFieldLeaderEm  string         `yaml:"ops_field_leader_email"`
	ISTFieldLeader    string         `yaml:"ist_field_leader"`
	ISTFieldLeaderEm  string         `yaml:"ist_field_leader_email"`
	RetailAssistant   string         `yaml:"retail_assistant"`
	RetailAssistantEm string         `yaml:"retail_assistant_email"`
	Physical          AddressColumns `yaml:"physical_address"`
	Shipping          AddressColumns `yaml:"shipping_address"`
	OpeningDate       string         `yaml:"opening_date"`
	MarketingDate     string         `yaml:"marketing_date"`
}

// AddressColumns names the columns that make up one postal address.
type AddressColumns struct {
	Line1      string `yaml:"line1"`
	Line2      string `yaml:"line2"`
	City       string `yaml:"city"`
	State      string `yaml:"state"`
	PostalCode string `yaml:"postal_code"`
}

// DefaultSchema matches the headers of the store directory export.
var DefaultSchema = Schema{
	StoreName:   "Store Name",
	StoreNumber: "Store Number",
	City:        "Physical Address - City",
	Market:      "Market",
	MarketTeam:  "Market Team Name",
	Country:     "Country/Region",
	Status:      "Store Status",

	SecureImageURL:    "Secure Image URL",
	ImageURL:          "Image URL",
	WebURL:            "Web URL",
	TimeZone:          "Time Zone",
	Geo:               "Geo",
	Company:           "Company",
	MarketDirector:    "Market Director",
	MarketDirectorEm:  "Market Director Email",
	MarketLeader:      "Market Leader",
	MarketLeaderEm:    "Market Leader Email",
	OpsFieldLeader:    "Store Operations Field Leader",
	OpsFieldLeaderEm:  "Store Operations Field Leader Email",
	ISTFieldLeader:    "IS&T Field Leader",
	ISTFieldLeaderEm:  "IS&T Field Leader Email",
	RetailAssistant:   "Retail Assistant",
	RetailAssistantEm: "Retail Assistant Email",
	Physical: AddressColumns{
		Line1:      "Physical Address - Address 1",
		Line2:      "Physical Address - Address 2",
		City:       "Physical Address - City",
		State:      "Physical Address - State/Province",
		PostalCode: "Physical Address - Postal Code",
	},
	Shipping: AddressColumns{
		Line1:      "Shipping Address - Address 1",
		Line2:      "Shipping Address - Address 2",
		City:       "Shipping Address - City",
		State:      "Shipping Address - State/Province",
		PostalCode: "Shipping Address - Postal Code",
	},
	OpeningDate:   "Store Opening Date",
	MarketingDate: "Marketing Date",
}

// ErrInvalidSchema wraps schema file decoding failures.
var ErrInvalidSchema = errors.New("invalid schema")

// Column returns the column name backing a logical field.
// Unknown fields resolve to "", which reads as an empty value.
func (s *Schema) Column(f Field) string {
	switch f {
	case FieldCountry:
		return s.Country
	case FieldMarketTeam:
		return s.MarketTeam
	case FieldMarket:
		return s.Market
	case FieldStoreName:
		return s.StoreName
	case FieldCity:
		return s.City
	case FieldStoreNumber:
		return s.StoreNumber
	}
	return ""
}

// Value reads a logical field from a record.
func (s *Schema) Value(r Record, f Field) string {
	col := s.Column(f)
	if col == "" {
		return ""
	}
	return r.Get(col)
}

// LoadSchema reads a YAML override file on top of DefaultSchema.
// An empty path returns the defaults. Keys left out or set to "" keep their
// default column; unknown keys are rejected.
func LoadSchema(path string) (*Schema, error) {
	s := DefaultSchema
	if path == "" {
		return &s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	if err := decodeSchema(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSchema, path, err)
	}
	return &s, nil
}

// decodeSchema overlays non-empty YAML values onto s.
func decodeSchema(data []byte, s *Schema) error {
	var override Schema
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&override); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	merge(s, &override)
	return nil
}

func merge(dst, src *Schema) {
	set := func(d *string, v string) {
		if v != "" {
			*d = v
		}
	}
	set(&dst.StoreName, src.StoreName)
	set(&dst.StoreNumber, src.StoreNumber)
	set(&dst.City, src.City)
	set(&dst.Market, src.Market)
	set(&dst.MarketTeam, src.MarketTeam)
	set(&dst.Country, src.Country)
	set(&dst.Status, src.Status)
	set(&dst.SecureImageURL, src.SecureImageURL)
	set(&dst.ImageURL, src.ImageURL)
	set(&dst.WebURL, src.WebURL)
	set(&dst.TimeZone, src.TimeZone)
	set(&dst.Geo, src.Geo)
	set(&dst.Company, src.Company)
	set(&dst.MarketDirector, src.MarketDirector)
	set(&dst.MarketDirectorEm, src.MarketDirectorEm)
	set(&dst.MarketLeader, src.MarketLeader)
	set(&dst.MarketLeaderEm, src.MarketLeaderEm)
	set(&dst.OpsFieldLeader, src.OpsFieldLeader)
	set(&dst.OpsFieldLeaderEm, src.OpsFieldLeaderEm)
	set(&dst.ISTFieldLeader, src.ISTFieldLeader)
	set(&dst.ISTFieldLeaderEm, src.ISTFieldLeaderEm)
	set(&dst.RetailAssistant, src.RetailAssistant)
	set(&dst.RetailAssistantEm, src.RetailAssistantEm)
	for _, pair := range [][2]*AddressColumns{{&dst.Physical, &src.Physical}, {&dst.Shipping, &src.Shipping}} {
		d, o := pair[0], pair[1]
		set(&d.Line1, o.Line1)
		set(&d.Line2, o.Line2)
		set(&d.City, o.City)
		set(&d.State, o.State)
		set(&d.PostalCode, o.PostalCode)
	}
	set(&dst.OpeningDate, src.OpeningDate)
	set(&dst.MarketingDate, src.MarketingDate)
}
