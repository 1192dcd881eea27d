package address

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/VybCoding/OneWonderLake/internal/geo"
	"github.com/VybCoding/OneWonderLake/internal/geocoding"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrEmptyAddress is returned before any lookup when the input is blank.
var ErrEmptyAddress = errors.New("Please enter an address")

// MaxSuggestions caps the "did you mean" list.
const MaxSuggestions = 5

// Geocoder is the subset of the geocoding client the checker needs.
type Geocoder interface {
	Search(ctx context.Context, query string, bbox *geocoding.BoundingBox) ([]geocoding.Candidate, error)
}

type Suggestion struct {
	DisplayName   string     `json:"display_name"`
	Lat           float64    `json:"lat"`
	Lon           float64    `json:"lon"`
	DistanceMiles float64    `json:"distance_miles"`
	Status        geo.Status `json:"status"`
}

// Outcome is what a check reports back to the visitor.
type Outcome struct {
	Status              geo.Status   `json:"status"`
	Message             string       `json:"message"`
	Address             string       `json:"address"`
	MatchedQuery        string       `json:"matched_query,omitempty"`
	DisplayName         string       `json:"display_name,omitempty"`
	Latitude            *float64     `json:"latitude,omitempty"`
	Longitude           *float64     `json:"longitude,omitempty"`
	Municipality        string       `json:"municipality_name,omitempty"`
	MunicipalityDisplay string       `json:"municipality_display,omitempty"`
	DistanceMiles       *float64     `json:"distance_miles,omitempty"`
	Zip                 string       `json:"zip,omitempty"`
	Suggestions         []Suggestion `json:"suggestions,omitempty"`
}

// Checker runs the variant-by-variant lookup for one address. All geocoder
// calls for a check happen one after another; there is no fan-out.
type Checker struct {
	geocoder   Geocoder
	classifier *geo.Classifier
	recorder   Recorder
	delay      time.Duration
	bbox       *geocoding.BoundingBox
	log        *zap.Logger
}

// NewChecker wires a checker. delay is the minimum spacing between
// consecutive geocoder calls within one check; zero disables pacing.
func NewChecker(g Geocoder, c *geo.Classifier, r Recorder, delay time.Duration) *Checker {
	sb := c.ServiceBounds()
	return &Checker{
		geocoder:   g,
		classifier: c,
		recorder:   r,
		delay:      delay,
		bbox: &geocoding.BoundingBox{
			MinLat: sb.MinLat, MaxLat: sb.MaxLat,
			MinLon: sb.MinLon, MaxLon: sb.MaxLon,
		},
		log: zap.L().Named("address"),
	}
}

type hit struct {
	query     string
	candidate geocoding.Candidate
	class     geo.Classification
}

// Check classifies a free-form address. The only error it returns is
// ErrEmptyAddress or a context error from pacing; lookup failures become a
// not_found outcome.
func (c *Checker) Check(ctx context.Context, raw string) (*Outcome, error) {
	input := collapseSpaces(raw)
	if input == "" {
		return nil, ErrEmptyAddress
	}

	variants := Variants(input)
	pace := c.newPacer()

	var fallback *hit
	for i, v := range variants {
		cands, err := c.search(ctx, pace, v)
		if err != nil {
			if ctx.Err() != nil {
				return nil, eris.Wrap(ctx.Err(), "address: check aborted")
			}
			continue
		}
		if len(cands) == 0 {
			continue
		}

		h := hit{query: v, candidate: cands[0], class: c.classifier.Classify(point(cands[0]))}
		if h.class.Status.InServiceArea() {
			variantsTried.Observe(float64(i + 1))
			out := c.outcomeFor(input, h)
			c.record(ctx, input, out)
			return out, nil
		}
		if fallback == nil {
			fallback = &h
		}
	}
	variantsTried.Observe(float64(len(variants)))

	suggestions, err := c.collectSuggestions(ctx, pace, variants)
	if err != nil {
		return nil, err
	}

	var out *Outcome
	if fallback != nil {
		out = c.outcomeFor(input, *fallback)
		if len(suggestions) > 0 {
			out.Message = "This address appears to be outside our service area. Did you mean one of these?"
			out.Suggestions = suggestions
		}
	} else {
		out = &Outcome{
			Status:  geo.StatusNotFound,
			Address: input,
			Message: "Address not found. Please try a different address.",
		}
		if len(suggestions) > 0 {
			out.Message = "We couldn't find that exact address. Did you mean one of these?"
			out.Suggestions = suggestions
		}
	}
	c.record(ctx, input, out)
	return out, nil
}

// SelectSuggestion classifies a suggestion the visitor picked. The stored
// address is the street portion of the suggestion's display name.
func (c *Checker) SelectSuggestion(ctx context.Context, s Suggestion) (*Outcome, error) {
	display := collapseSpaces(s.DisplayName)
	if display == "" {
		return nil, ErrEmptyAddress
	}
	cand := geocoding.Candidate{Lat: s.Lat, Lon: s.Lon, DisplayName: display}
	h := hit{query: display, candidate: cand, class: c.classifier.Classify(point(cand))}

	out := c.outcomeFor(StreetPortion(display), h)
	c.record(ctx, out.Address, out)
	return out, nil
}

// Classify places a raw coordinate without geocoding or recording it.
func (c *Checker) Classify(lat, lon float64) geo.Classification {
	return c.classifier.Classify(geo.Point{Lat: lat, Lon: lon})
}

// CollectSuggestions re-queries every variant and returns candidates inside
// the village or within the service radius of it, nearest first.
func (c *Checker) CollectSuggestions(ctx context.Context, variants []string) ([]Suggestion, error) {
	return c.collectSuggestions(ctx, c.newPacer(), variants)
}

func (c *Checker) collectSuggestions(ctx context.Context, pace *pacer, variants []string) ([]Suggestion, error) {
	seen := map[string]struct{}{}
	var out []Suggestion
	for _, v := range variants {
		cands, err := c.search(ctx, pace, v)
		if err != nil {
			if ctx.Err() != nil {
				return nil, eris.Wrap(ctx.Err(), "address: suggestions aborted")
			}
			continue
		}
		for _, cand := range cands {
			// Five decimals is roughly a metre; closer hits are the same place.
			key := fmt.Sprintf("%.5f,%.5f", cand.Lat, cand.Lon)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			cl := c.classifier.Classify(point(cand))
			if cl.Status != geo.StatusResident && cl.DistanceMiles > geo.ServiceRadiusMiles {
				continue
			}
			dist := cl.DistanceMiles
			if cl.Status == geo.StatusResident {
				dist = 0
			}
			out = append(out, Suggestion{
				DisplayName:   cand.DisplayName,
				Lat:           cand.Lat,
				Lon:           cand.Lon,
				DistanceMiles: roundMiles(dist),
				Status:        cl.Status,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceMiles < out[j].DistanceMiles })
	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out, nil
}

func (c *Checker) newPacer() *pacer {
	return &pacer{delay: c.delay}
}

// pacer holds each geocoder call back until delay has passed since the
// previous call returned. The limiter is re-armed with an empty bucket when
// a call finishes.
type pacer struct {
	delay time.Duration
	lim   *rate.Limiter
}

func (p *pacer) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.lim == nil {
		return nil
	}
	return p.lim.Wait(ctx)
}

func (p *pacer) done() {
	if p.delay <= 0 {
		return
	}
	p.lim = rate.NewLimiter(rate.Every(p.delay), 1)
	p.lim.Allow()
}

// search waits its turn, then queries. Failures are logged here so callers
// can treat them as "no candidates".
func (c *Checker) search(ctx context.Context, pace *pacer, query string) ([]geocoding.Candidate, error) {
	if err := pace.wait(ctx); err != nil {
		return nil, err
	}
	cands, err := c.geocoder.Search(ctx, query, c.bbox)
	pace.done()
	if err != nil {
		c.log.Warn("geocode variant failed", zap.String("query", query), zap.Error(err))
		return nil, err
	}
	return cands, nil
}

func (c *Checker) outcomeFor(addr string, h hit) *Outcome {
	lat, lon := h.candidate.Lat, h.candidate.Lon
	dist := roundMiles(h.class.DistanceMiles)
	out := &Outcome{
		Status:              h.class.Status,
		Address:             addr,
		MatchedQuery:        h.query,
		DisplayName:         h.candidate.DisplayName,
		Latitude:            &lat,
		Longitude:           &lon,
		Municipality:        h.class.Municipality,
		MunicipalityDisplay: h.class.MunicipalityDisplay,
		DistanceMiles:       &dist,
		Zip:                 h.class.Zip,
	}
	out.Message = messageFor(out)
	return out
}

func messageFor(o *Outcome) string {
	switch o.Status {
	case geo.StatusResident:
		return "Good news! This address is already inside the Village of Wonder Lake."
	case geo.StatusOtherMunicipality:
		name := o.MunicipalityDisplay
		if name == "" {
			name = "another municipality"
		}
		return fmt.Sprintf("This address is within %s, so it is not part of the Wonder Lake annexation.", name)
	case geo.StatusAnnexation:
		return "This address is in unincorporated Wonder Lake and is eligible for annexation."
	case geo.StatusOutsideArea:
		return fmt.Sprintf("This address is outside our service area. Please enter an address within %g miles of Wonder Lake.", geo.ServiceRadiusMiles)
	default:
		return "Address not found. Please try a different address."
	}
}

// record writes the analytics row. A failed write is logged and otherwise
// ignored; it never changes what the visitor sees.
func (c *Checker) record(ctx context.Context, addr string, o *Outcome) {
	checksTotal.WithLabelValues(string(o.Status)).Inc()
	if c.recorder == nil {
		return
	}
	rec := &SearchedAddress{
		Address:   addr,
		Result:    string(o.Status),
		Latitude:  o.Latitude,
		Longitude: o.Longitude,
	}
	if o.Municipality != "" {
		m := o.Municipality
		rec.MunicipalityName = &m
	}
	if err := c.recorder.RecordSearch(ctx, rec); err != nil {
		c.log.Warn("failed to record searched address",
			zap.String("address", addr),
			zap.String("result", rec.Result),
			zap.Error(err))
	}
}

func point(c geocoding.Candidate) geo.Point {
	return geo.Point{Lat: c.Lat, Lon: c.Lon}
}

func roundMiles(m float64) float64 {
	if math.IsInf(m, 0) || math.IsNaN(m) {
		return m
	}
	return math.Round(m*100) / 100
}
