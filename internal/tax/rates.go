package tax

import (
	_ "embed"

	"github.com/goccy/go-yaml"
	"github.com/rotisserie/eris"
)

//go:embed data/taxing_bodies.yaml
var defaultRates []byte

// Body is one taxing district. Rate is dollars per $100 of EAV.
type Body struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	ShortName   string  `yaml:"short_name" json:"shortName"`
	Rate        float64 `yaml:"rate" json:"rate"`
	Description string  `yaml:"description" json:"description"`
	Color       string  `yaml:"color" json:"color"`
}

type RevenueRates struct {
	LGDFPerResident float64 `yaml:"lgdf_per_resident"`
	MFTPerResident  float64 `yaml:"mft_per_resident"`
	MaxPopulation   int     `yaml:"max_population"`
}

// Rates is the static rate table the estimator works from.
type Rates struct {
	Village    Body         `yaml:"village"`
	Bodies     []Body       `yaml:"bodies"`
	DataSource string       `yaml:"data_source"`
	DataYear   string       `yaml:"data_year"`
	PortalURL  string       `yaml:"portal_url"`
	Disclaimer string       `yaml:"disclaimer"`
	Revenue    RevenueRates `yaml:"revenue"`
}

// LoadRates parses a rate table and checks it is usable.
func LoadRates(data []byte) (*Rates, error) {
	var r Rates
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, eris.Wrap(err, "tax: parse rates")
	}
	if r.Village.Rate <= 0 {
		return nil, eris.New("tax: village levy rate must be positive")
	}
	if len(r.Bodies) == 0 {
		return nil, eris.New("tax: no taxing bodies")
	}
	for _, b := range r.Bodies {
		if b.ID == "" || b.Rate <= 0 {
			return nil, eris.Errorf("tax: taxing body %q has no id or rate", b.Name)
		}
	}
	return &r, nil
}

// DefaultRates returns the bundled 2024 table.
func DefaultRates() (*Rates, error) {
	return LoadRates(defaultRates)
}

// NonVillageRate is the sum of every non-village body's rate.
func (r *Rates) NonVillageRate() float64 {
	var sum float64
	for _, b := range r.Bodies {
		sum += b.Rate
	}
	return sum
}
