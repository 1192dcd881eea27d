package address

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/VybCoding/OneWonderLake/internal/geocoding"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, g Geocoder, store Store) http.Handler {
	t.Helper()
	h := NewHandler(newTestChecker(t, g, store), store)
	r := chi.NewRouter()
	SetupRoutes(r, h)
	r.Route("/admin", func(r chi.Router) { SetupAdminRoutes(r, h) })
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCheckHandler_EmptyAddress(t *testing.T) {
	g := newFakeGeocoder()
	rec := do(t, newTestRouter(t, g, &fakeRecorder{}), http.MethodPost, "/address/check", `{"address":"   "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Please enter an address"}`, rec.Body.String())
	assert.Empty(t, g.calls)
}

func TestCheckHandler_BadJSON(t *testing.T) {
	rec := do(t, newTestRouter(t, newFakeGeocoder(), &fakeRecorder{}), http.MethodPost, "/address/check", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckHandler_Resident(t *testing.T) {
	g := newFakeGeocoder().on("123 Lake Shore Rd, Wonder Lake, IL", reply{cands: []geocoding.Candidate{inVillage}})
	store := &fakeRecorder{}

	rec := do(t, newTestRouter(t, g, store), http.MethodPost, "/address/check", `{"address":"123 Lake Shore Rd"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "resident", string(out.Status))
	assert.Equal(t, "123 Lake Shore Rd", out.Address)
	assert.Len(t, store.rows, 1)
}

func TestSelectHandler(t *testing.T) {
	store := &fakeRecorder{}
	h := newTestRouter(t, newFakeGeocoder(), store)

	rec := do(t, h, http.MethodPost, "/address/select", `{"display_name":"9 Pine Ct, Wonder Lake, IL","lat":42.35,"lon":-88.35}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"annexation"`)
	require.Len(t, store.rows, 1)
	assert.Equal(t, "9 Pine Ct", store.rows[0].Address)

	rec = do(t, h, http.MethodPost, "/address/select", `{"display_name":"x","lat":142,"lon":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, body := range []string{
		`{"display_name":"9 Pine Ct, Wonder Lake, IL"}`,
		`{"display_name":"9 Pine Ct, Wonder Lake, IL","lat":42.35}`,
		`{"display_name":"9 Pine Ct, Wonder Lake, IL","lon":-88.35}`,
	} {
		rec = do(t, h, http.MethodPost, "/address/select", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, rec.Body.String(), "Invalid coordinates")
	}
	assert.Len(t, store.rows, 1)
}

func TestClassifyHandler(t *testing.T) {
	h := newTestRouter(t, newFakeGeocoder(), &fakeRecorder{})

	rec := do(t, h, http.MethodGet, "/address/classify?lat=42.385&lon=-88.395", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"other_municipality"`)
	assert.Contains(t, rec.Body.String(), `"municipality_name":"VILLAGE OF GREENWOOD"`)

	rec = do(t, h, http.MethodGet, "/address/classify?lat=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBoundaryHandler(t *testing.T) {
	h := newTestRouter(t, newFakeGeocoder(), &fakeRecorder{})

	rec := do(t, h, http.MethodGet, "/boundaries/village", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Village of Wonder Lake")

	rec = do(t, h, http.MethodGet, "/boundaries/states", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordSearchedHandler(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		storeErr error
		wantRows int
		wantLat  *float64
		wantMuni string
	}{
		{
			name:     "string coordinates",
			body:     `{"address":"1 Main St","result":"annexation","latitude":"42.35","longitude":"-88.35"}`,
			wantRows: 1,
			wantLat:  ptr(42.35),
		},
		{
			name:     "numeric coordinates and municipality",
			body:     `{"address":"1 Main St","result":"other_municipality","municipalityName":"VILLAGE OF GREENWOOD","latitude":42.385,"longitude":-88.395}`,
			wantRows: 1,
			wantLat:  ptr(42.385),
			wantMuni: "VILLAGE OF GREENWOOD",
		},
		{
			name:     "not found without coordinates",
			body:     `{"address":"zzz","result":"not_found"}`,
			wantRows: 1,
		},
		{
			name:     "invalid result is dropped",
			body:     `{"address":"1 Main St","result":"maybe"}`,
			wantRows: 0,
		},
		{
			name:     "missing address is dropped",
			body:     `{"result":"resident"}`,
			wantRows: 0,
		},
		{
			name:     "unreadable body is dropped",
			body:     `nope`,
			wantRows: 0,
		},
		{
			name:     "storage failure is swallowed",
			body:     `{"address":"1 Main St","result":"resident"}`,
			storeErr: errors.New("db down"),
			wantRows: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeRecorder{err: tt.storeErr}
			rec := do(t, newTestRouter(t, newFakeGeocoder(), store), http.MethodPost, "/searched-address", tt.body)

			assert.Equal(t, http.StatusCreated, rec.Code)
			assert.JSONEq(t, `{"success":true}`, rec.Body.String())
			require.Len(t, store.rows, tt.wantRows)
			if tt.wantRows == 0 {
				return
			}
			row := store.rows[0]
			if tt.wantLat == nil {
				assert.Nil(t, row.Latitude)
			} else {
				require.NotNil(t, row.Latitude)
				assert.InDelta(t, *tt.wantLat, *row.Latitude, 1e-9)
			}
			if tt.wantMuni != "" {
				require.NotNil(t, row.MunicipalityName)
				assert.Equal(t, tt.wantMuni, *row.MunicipalityName)
			}
		})
	}
}

func TestListSearchesHandler(t *testing.T) {
	store := &fakeRecorder{}
	h := newTestRouter(t, newFakeGeocoder(), store)

	rec := do(t, h, http.MethodGet, "/admin/searched-addresses", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	store.rows = []SearchedAddress{{Address: "1 Main St", Result: "resident"}}
	rec = do(t, h, http.MethodGet, "/admin/searched-addresses", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"address":"1 Main St"`)

	store.err = errors.New("db down")
	rec = do(t, h, http.MethodGet, "/admin/searched-addresses", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMapDataHandler(t *testing.T) {
	store := &fakeRecorder{rows: []SearchedAddress{
		{Address: "1 Main St", Result: "resident", Latitude: ptr(42.38), Longitude: ptr(-88.35)},
		{Address: "2 Main St", Result: "annexation", Latitude: ptr(42.35), Longitude: ptr(-88.35)},
		{Address: "3 Main St", Result: "annexation", Latitude: ptr(42.351), Longitude: ptr(-88.35)},
		{Address: "nowhere", Result: "not_found"},
	}}
	rec := do(t, newTestRouter(t, newFakeGeocoder(), store), http.MethodGet, "/admin/map-data", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Pins    []map[string]any `json:"pins"`
		Summary map[string]int   `json:"summary"`
		Total   int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 3, got.Total)
	assert.Len(t, got.Pins, 3)
	assert.Equal(t, map[string]int{"resident": 1, "annexation": 2}, got.Summary)
}

func ptr(f float64) *float64 { return &f }
