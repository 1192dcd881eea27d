package geo

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed data/*.geojson
var dataFS embed.FS

const (
	villageFile        = "data/village.geojson"
	municipalitiesFile = "data/neighboring-municipalities.geojson"
	zipFile            = "data/zipcodes.geojson"
)

// Boundary is a named region made of one or more polygons. Each polygon's
// first ring is the exterior; any further rings are holes.
type Boundary struct {
	Name     string
	Polygons []*geom.Polygon
}

// Boundaries is the full read-only polygon set the classifier works against.
// Municipalities are checked in slice order.
type Boundaries struct {
	Village        Boundary
	Municipalities []Boundary
	Zips           []Boundary
}

// Bounds is a lat/lon rectangle.
type Bounds struct {
	MinLat, MaxLat, MinLon, MaxLon float64
}

// DefaultBoundaries decodes the GeoJSON bundled with the binary.
func DefaultBoundaries() (*Boundaries, error) {
	village, err := dataFS.ReadFile(villageFile)
	if err != nil {
		return nil, eris.Wrap(err, "geo: read village data")
	}
	munis, err := dataFS.ReadFile(municipalitiesFile)
	if err != nil {
		return nil, eris.Wrap(err, "geo: read municipality data")
	}
	zips, err := dataFS.ReadFile(zipFile)
	if err != nil {
		return nil, eris.Wrap(err, "geo: read zip data")
	}
	return LoadBoundaries(village, munis, zips)
}

// RawGeoJSON returns the bundled file for kind ("village", "municipalities"
// or "zipcodes") so the map client draws exactly what the classifier uses.
func RawGeoJSON(kind string) ([]byte, error) {
	switch kind {
	case "village":
		return dataFS.ReadFile(villageFile)
	case "municipalities":
		return dataFS.ReadFile(municipalitiesFile)
	case "zipcodes":
		return dataFS.ReadFile(zipFile)
	default:
		return nil, fmt.Errorf("geo: unknown boundary kind %q", kind)
	}
}

// LoadBoundaries decodes three GeoJSON FeatureCollections. The village
// collection is merged into one boundary; zips may be nil.
func LoadBoundaries(village, municipalities, zips []byte) (*Boundaries, error) {
	vf, err := decodeFeatures(village, "name")
	if err != nil {
		return nil, eris.Wrap(err, "geo: decode village")
	}
	if len(vf) == 0 {
		return nil, eris.New("geo: village data has no polygons")
	}
	b := &Boundaries{Village: Boundary{Name: vf[0].Name}}
	for _, f := range vf {
		b.Village.Polygons = append(b.Village.Polygons, f.Polygons...)
	}

	b.Municipalities, err = decodeFeatures(municipalities, "CORPNAME")
	if err != nil {
		return nil, eris.Wrap(err, "geo: decode municipalities")
	}

	if len(zips) > 0 {
		b.Zips, err = decodeFeatures(zips, "ZCTA5CE10", "ZIP", "zip")
		if err != nil {
			return nil, eris.Wrap(err, "geo: decode zip overlay")
		}
	}
	return b, nil
}

func decodeFeatures(raw []byte, nameKeys ...string) ([]Boundary, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, err
	}

	out := make([]Boundary, 0, len(fc.Features))
	for i, f := range fc.Features {
		var polys []*geom.Polygon
		switch g := f.Geometry.(type) {
		case *geom.Polygon:
			polys = []*geom.Polygon{g}
		case *geom.MultiPolygon:
			for j := 0; j < g.NumPolygons(); j++ {
				polys = append(polys, g.Polygon(j))
			}
		default:
			return nil, fmt.Errorf("feature %d: unsupported geometry %T", i, f.Geometry)
		}
		out = append(out, Boundary{
			Name:     propertyString(f.Properties, nameKeys...),
			Polygons: polys,
		})
	}
	return out, nil
}

func propertyString(props map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := props[k]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

// Bounds returns the rectangle covering every polygon of the boundary.
func (b Boundary) Bounds() Bounds {
	out := Bounds{MinLat: 90, MaxLat: -90, MinLon: 180, MaxLon: -180}
	for _, p := range b.Polygons {
		pb := p.Bounds()
		out.MinLon = min(out.MinLon, pb.Min(0))
		out.MinLat = min(out.MinLat, pb.Min(1))
		out.MaxLon = max(out.MaxLon, pb.Max(0))
		out.MaxLat = max(out.MaxLat, pb.Max(1))
	}
	return out
}

// DisplayName turns an all-caps CORPNAME such as "VILLAGE OF BULL VALLEY"
// into "Village of Bull Valley".
func DisplayName(corpname string) string {
	if corpname == "" {
		return ""
	}
	// Casers carry state, so each call gets its own.
	caser := cases.Title(language.AmericanEnglish)
	words := strings.Fields(caser.String(strings.ToLower(corpname)))
	for i, w := range words {
		if i > 0 && (w == "Of" || w == "The") {
			words[i] = strings.ToLower(w)
		}
	}
	return strings.Join(words, " ")
}
