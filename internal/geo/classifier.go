package geo

import (
	"math"

	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// ServiceRadiusMiles is how far outside the village outline an address can
// sit and still count as part of the annexation zone.
const ServiceRadiusMiles = 2.0

const (
	earthRadiusMiles = 3958.8
	milesPerDegLat   = earthRadiusMiles * math.Pi / 180
)

type Status string

const (
	StatusResident          Status = "resident"
	StatusOtherMunicipality Status = "other_municipality"
	StatusAnnexation        Status = "annexation"
	StatusOutsideArea       Status = "outside_area"
	StatusNotFound          Status = "not_found"
)

// InServiceArea is true for the outcomes that end an address search.
func (s Status) InServiceArea() bool {
	return s == StatusResident || s == StatusOtherMunicipality || s == StatusAnnexation
}

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Classification struct {
	Status              Status  `json:"status"`
	Municipality        string  `json:"municipality_name,omitempty"`
	MunicipalityDisplay string  `json:"municipality_display,omitempty"`
	DistanceMiles       float64 `json:"distance_miles"`
	Zip                 string  `json:"zip,omitempty"`
}

// Classifier is safe for concurrent use; the polygon set is never mutated
// after construction.
type Classifier struct {
	b *Boundaries
}

func NewClassifier(b *Boundaries) *Classifier {
	return &Classifier{b: b}
}

func (c *Classifier) Boundaries() *Boundaries { return c.b }

// Classify places p relative to the village, the neighbouring
// municipalities, and the service radius, in that order.
func (c *Classifier) Classify(p Point) Classification {
	out := Classification{
		DistanceMiles: c.DistanceToOutline(p),
		Zip:           c.zipFor(p),
	}

	if contains(c.b.Village, p) {
		out.Status = StatusResident
		return out
	}

	for _, m := range c.b.Municipalities {
		if contains(m, p) {
			out.Status = StatusOtherMunicipality
			out.Municipality = m.Name
			out.MunicipalityDisplay = DisplayName(m.Name)
			return out
		}
	}

	if out.DistanceMiles <= ServiceRadiusMiles {
		out.Status = StatusAnnexation
	} else {
		out.Status = StatusOutsideArea
	}
	return out
}

// DistanceToOutline is the distance in miles from p to the nearest point on
// any ring of the village boundary. Points inside the village get their
// distance to the edge, not zero.
func (c *Classifier) DistanceToOutline(p Point) float64 {
	// Project into a flat plane centred on p, in miles. Over a few miles the
	// equirectangular error is well under a percent.
	milesPerDegLon := milesPerDegLat * math.Cos(p.Lat*math.Pi/180)
	origin := geom.Coord{0, 0}

	best := math.Inf(1)
	for _, poly := range c.b.Village.Polygons {
		for i := 0; i < poly.NumLinearRings(); i++ {
			ring := poly.LinearRing(i)
			stride := ring.Stride()
			flat := ring.FlatCoords()
			projected := make([]float64, 0, len(flat)/stride*2)
			for j := 0; j+1 < len(flat); j += stride {
				projected = append(projected,
					(flat[j]-p.Lon)*milesPerDegLon,
					(flat[j+1]-p.Lat)*milesPerDegLat,
				)
			}
			if len(projected) < 4 {
				continue
			}
			if d := xy.DistanceFromPointToLineString(geom.XY, origin, projected); d < best {
				best = d
			}
		}
	}
	return best
}

// ServiceBounds is the village's bounding rectangle grown by the service
// radius on every side.
func (c *Classifier) ServiceBounds() Bounds {
	b := c.b.Village.Bounds()
	midLat := (b.MinLat + b.MaxLat) / 2
	dLat := ServiceRadiusMiles / milesPerDegLat
	dLon := ServiceRadiusMiles / (milesPerDegLat * math.Cos(midLat*math.Pi/180))
	return Bounds{
		MinLat: b.MinLat - dLat,
		MaxLat: b.MaxLat + dLat,
		MinLon: b.MinLon - dLon,
		MaxLon: b.MaxLon + dLon,
	}
}

func (c *Classifier) zipFor(p Point) string {
	for _, z := range c.b.Zips {
		if contains(z, p) {
			return z.Name
		}
	}
	return ""
}

// contains treats points on an exterior edge as inside and points inside
// (or on the edge of) a hole as outside.
func contains(b Boundary, p Point) bool {
	for _, poly := range b.Polygons {
		if polygonContains(poly, p) {
			return true
		}
	}
	return false
}

func polygonContains(poly *geom.Polygon, p Point) bool {
	n := poly.NumLinearRings()
	if n == 0 {
		return false
	}
	if !ringContains(poly.LinearRing(0), p) {
		return false
	}
	for i := 1; i < n; i++ {
		if ringContains(poly.LinearRing(i), p) {
			return false
		}
	}
	return true
}

func ringContains(ring *geom.LinearRing, p Point) bool {
	layout := ring.Layout()
	coord := make(geom.Coord, layout.Stride())
	coord[0], coord[1] = p.Lon, p.Lat
	return xy.IsPointInRing(layout, coord, ring.FlatCoords())
}
