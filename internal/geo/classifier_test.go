package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultClassifier(t *testing.T) *Classifier {
	t.Helper()
	b, err := DefaultBoundaries()
	require.NoError(t, err)
	return NewClassifier(b)
}

func TestClassify_BundledBoundaries(t *testing.T) {
	t.Parallel()
	c := defaultClassifier(t)

	tests := []struct {
		name         string
		p            Point
		want         Status
		municipality string
	}{
		{"village centre", Point{Lat: 42.38, Lon: -88.35}, StatusResident, ""},
		{"on the village edge", Point{Lat: 42.38, Lon: -88.37}, StatusResident, ""},
		{"inside greenwood", Point{Lat: 42.385, Lon: -88.395}, StatusOtherMunicipality, "VILLAGE OF GREENWOOD"},
		{"second part of bull valley", Point{Lat: 42.325, Lon: -88.295}, StatusOtherMunicipality, "VILLAGE OF BULL VALLEY"},
		{"just south of the village", Point{Lat: 42.35, Lon: -88.35}, StatusAnnexation, ""},
		{"east of the village", Point{Lat: 42.37, Lon: -88.30}, StatusAnnexation, ""},
		{"far north", Point{Lat: 42.50, Lon: -88.35}, StatusOutsideArea, ""},
		{"chicago", Point{Lat: 41.8781, Lon: -87.6298}, StatusOutsideArea, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.p)
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, tt.municipality, got.Municipality)
		})
	}
}

func TestClassify_Idempotent(t *testing.T) {
	t.Parallel()
	c := defaultClassifier(t)

	for _, p := range []Point{{42.38, -88.35}, {42.35, -88.35}, {42.5, -88.35}, {42.385, -88.395}} {
		assert.Equal(t, c.Classify(p), c.Classify(p))
	}
}

func TestClassify_MunicipalityDisplayAndZip(t *testing.T) {
	t.Parallel()
	c := defaultClassifier(t)

	got := c.Classify(Point{Lat: 42.385, Lon: -88.395})
	assert.Equal(t, "Village of Greenwood", got.MunicipalityDisplay)
	assert.Equal(t, "60097", got.Zip)

	assert.Equal(t, "60072", c.Classify(Point{Lat: 42.40, Lon: -88.28}).Zip)
	assert.Empty(t, c.Classify(Point{Lat: 41.8781, Lon: -87.6298}).Zip)
}

func TestDistanceToOutline(t *testing.T) {
	t.Parallel()
	c := defaultClassifier(t)

	// 0.03 degrees of longitude at 42.37N is about 1.53 miles.
	assert.InDelta(t, 1.53, c.DistanceToOutline(Point{Lat: 42.37, Lon: -88.30}), 0.02)
	// 0.01 degrees of latitude is about 0.69 miles.
	assert.InDelta(t, 0.69, c.DistanceToOutline(Point{Lat: 42.35, Lon: -88.35}), 0.01)
	// From the centre the east and west edges are nearest.
	assert.InDelta(t, 1.02, c.DistanceToOutline(Point{Lat: 42.38, Lon: -88.35}), 0.02)
	assert.InDelta(t, 0.0, c.DistanceToOutline(Point{Lat: 42.38, Lon: -88.37}), 1e-9)
}

func TestClassify_RadiusBoundary(t *testing.T) {
	t.Parallel()
	c := defaultClassifier(t)

	// Walk north from the village's top edge; classification flips from
	// annexation to outside once the distance passes the service radius.
	inside := Point{Lat: 42.40 + 1.9/milesPerDegLat, Lon: -88.35}
	outside := Point{Lat: 42.40 + 2.1/milesPerDegLat, Lon: -88.35}

	assert.Equal(t, StatusAnnexation, c.Classify(inside).Status)
	assert.Equal(t, StatusOutsideArea, c.Classify(outside).Status)
}

const squareWithHole = `{
  "type": "FeatureCollection",
  "features": [{
    "type": "Feature",
    "properties": {"name": "Holey Village"},
    "geometry": {"type": "Polygon", "coordinates": [
      [[0, 0], [0, 1], [1, 1], [1, 0], [0, 0]],
      [[0.49, 0.49], [0.49, 0.51], [0.51, 0.51], [0.51, 0.49], [0.49, 0.49]]
    ]}
  }]
}`

const overlappingMunicipalities = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"CORPNAME": "CITY OF FIRST"},
     "geometry": {"type": "Polygon", "coordinates": [[[1.1, 0], [1.1, 1], [1.5, 1], [1.5, 0], [1.1, 0]]]}},
    {"type": "Feature", "properties": {"CORPNAME": "CITY OF SECOND"},
     "geometry": {"type": "Polygon", "coordinates": [[[1.1, 0], [1.1, 1], [1.6, 1], [1.6, 0], [1.1, 0]]]}}
  ]
}`

func TestClassify_HolesAndOrder(t *testing.T) {
	t.Parallel()
	b, err := LoadBoundaries([]byte(squareWithHole), []byte(overlappingMunicipalities), nil)
	require.NoError(t, err)
	c := NewClassifier(b)

	assert.Equal(t, "Holey Village", b.Village.Name)
	assert.Equal(t, StatusResident, c.Classify(Point{Lat: 0.2, Lon: 0.2}).Status)

	// The hole is not part of the village, but it is well inside the radius.
	hole := c.Classify(Point{Lat: 0.5, Lon: 0.5})
	assert.Equal(t, StatusAnnexation, hole.Status)
	assert.Greater(t, hole.DistanceMiles, 0.0)

	// Both municipalities contain the point; the first listed wins.
	got := c.Classify(Point{Lat: 0.5, Lon: 1.2})
	assert.Equal(t, StatusOtherMunicipality, got.Status)
	assert.Equal(t, "CITY OF FIRST", got.Municipality)
}

func TestLoadBoundaries_Errors(t *testing.T) {
	t.Parallel()

	_, err := LoadBoundaries([]byte(`not json`), []byte(overlappingMunicipalities), nil)
	assert.Error(t, err)

	_, err = LoadBoundaries([]byte(`{"type":"FeatureCollection","features":[]}`), []byte(overlappingMunicipalities), nil)
	assert.Error(t, err)

	point := `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[0,0]}}]}`
	_, err = LoadBoundaries([]byte(squareWithHole), []byte(point), nil)
	assert.Error(t, err)
}

func TestServiceBounds(t *testing.T) {
	t.Parallel()
	c := defaultClassifier(t)

	sb := c.ServiceBounds()
	assert.Less(t, sb.MinLat, 42.36)
	assert.Greater(t, sb.MaxLat, 42.40)
	assert.Less(t, sb.MinLon, -88.37)
	assert.Greater(t, sb.MaxLon, -88.33)
	assert.InDelta(t, 42.36-2/milesPerDegLat, sb.MinLat, 1e-9)
}

func TestStatusInServiceArea(t *testing.T) {
	assert.True(t, StatusResident.InServiceArea())
	assert.True(t, StatusOtherMunicipality.InServiceArea())
	assert.True(t, StatusAnnexation.InServiceArea())
	assert.False(t, StatusOutsideArea.InServiceArea())
	assert.False(t, StatusNotFound.InServiceArea())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Village of Bull Valley", DisplayName("VILLAGE OF BULL VALLEY"))
	assert.Equal(t, "City of Woodstock", DisplayName("city of woodstock"))
	assert.Equal(t, "", DisplayName(""))
}

func TestRawGeoJSON(t *testing.T) {
	for _, kind := range []string{"village", "municipalities", "zipcodes"} {
		raw, err := RawGeoJSON(kind)
		require.NoError(t, err, kind)
		assert.Contains(t, string(raw), "FeatureCollection")
	}
	_, err := RawGeoJSON("counties")
	assert.Error(t, err)
}
