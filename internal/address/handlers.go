package address

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/VybCoding/OneWonderLake/internal/geo"
	"github.com/VybCoding/OneWonderLake/internal/utils"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	checker *Checker
	store   Store
}

func NewHandler(checker *Checker, store Store) *Handler {
	return &Handler{checker: checker, store: store}
}

type checkRequest struct {
	Address string `json:"address"`
}

// CheckHandler runs a full address check. The check keeps going if the
// client disconnects so its outcome is still recorded.
func (h *Handler) CheckHandler(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	out, err := h.checker.Check(context.WithoutCancel(r.Context()), req.Address)
	if errors.Is(err, ErrEmptyAddress) {
		utils.WriteError(w, http.StatusBadRequest, ErrEmptyAddress.Error())
		return
	}
	if err != nil {
		zap.L().Error("address check failed", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

type selectRequest struct {
	DisplayName string   `json:"display_name"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
}

func (h *Handler) SelectHandler(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Lat == nil || req.Lon == nil || !validLatLon(*req.Lat, *req.Lon) {
		utils.WriteError(w, http.StatusBadRequest, "Invalid coordinates")
		return
	}

	out, err := h.checker.SelectSuggestion(context.WithoutCancel(r.Context()), Suggestion{
		DisplayName: req.DisplayName,
		Lat:         *req.Lat,
		Lon:         *req.Lon,
	})
	if errors.Is(err, ErrEmptyAddress) {
		utils.WriteError(w, http.StatusBadRequest, ErrEmptyAddress.Error())
		return
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
		return
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

// ClassifyHandler places a bare coordinate: GET ?lat=..&lon=..
func (h *Handler) ClassifyHandler(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil || !validLatLon(lat, lon) {
		utils.WriteError(w, http.StatusBadRequest, "lat and lon query parameters are required")
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.checker.Classify(lat, lon))
}

// BoundaryHandler serves the bundled GeoJSON for the map.
func (h *Handler) BoundaryHandler(w http.ResponseWriter, r *http.Request) {
	raw, err := geo.RawGeoJSON(chi.URLParam(r, "kind"))
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "Unknown boundary")
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(raw)
}

// coordinate accepts a JSON number or a numeric string.
type coordinate float64

func (c *coordinate) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*c = coordinate(f)
	return nil
}

type searchedAddressRequest struct {
	Address          string      `json:"address" validate:"required,max=500"`
	Result           string      `json:"result" validate:"oneof=resident other_municipality annexation outside_area not_found"`
	MunicipalityName *string     `json:"municipalityName" validate:"omitempty,max=200"`
	Latitude         *coordinate `json:"latitude"`
	Longitude        *coordinate `json:"longitude"`
}

// RecordSearchedHandler stores an analytics row sent by a client that did
// its own classification. It always answers success; bad rows and storage
// errors are only logged.
func (h *Handler) RecordSearchedHandler(w http.ResponseWriter, r *http.Request) {
	defer utils.WriteJSON(w, http.StatusCreated, map[string]bool{"success": true})

	var req searchedAddressRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		zap.L().Info("discarding unreadable searched address", zap.Error(err))
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		zap.L().Info("discarding invalid searched address", zap.String("reason", utils.ValidationMessage(err)))
		return
	}

	rec := &SearchedAddress{
		Address:          req.Address,
		Result:           req.Result,
		MunicipalityName: req.MunicipalityName,
	}
	if req.Latitude != nil && req.Longitude != nil {
		lat, lon := float64(*req.Latitude), float64(*req.Longitude)
		rec.Latitude, rec.Longitude = &lat, &lon
	}
	if err := h.store.RecordSearch(context.WithoutCancel(r.Context()), rec); err != nil {
		zap.L().Warn("failed to record searched address", zap.Error(err))
	}
}

func (h *Handler) ListSearchesHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ListSearches(r.Context())
	if err != nil {
		zap.L().Error("list searched addresses", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch searched addresses")
		return
	}
	if rows == nil {
		rows = []SearchedAddress{}
	}
	utils.WriteJSON(w, http.StatusOK, rows)
}

type mapPin struct {
	Lat              float64   `json:"lat"`
	Lon              float64   `json:"lon"`
	Result           string    `json:"result"`
	Address          string    `json:"address"`
	MunicipalityName *string   `json:"municipalityName,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

type mapData struct {
	Pins    []mapPin       `json:"pins"`
	Summary map[string]int `json:"summary"`
	Total   int            `json:"total"`
}

// MapDataHandler returns every geolocated search as a pin plus counts per
// result for the admin heat map.
func (h *Handler) MapDataHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ListSearchesWithCoords(r.Context())
	if err != nil {
		zap.L().Error("list searched addresses for map", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch map data")
		return
	}

	out := mapData{Pins: make([]mapPin, 0, len(rows)), Summary: map[string]int{}}
	for _, row := range rows {
		if row.Latitude == nil || row.Longitude == nil {
			continue
		}
		out.Pins = append(out.Pins, mapPin{
			Lat:              *row.Latitude,
			Lon:              *row.Longitude,
			Result:           row.Result,
			Address:          row.Address,
			MunicipalityName: row.MunicipalityName,
			CreatedAt:        row.CreatedAt,
		})
		out.Summary[row.Result]++
	}
	out.Total = len(out.Pins)
	utils.WriteJSON(w, http.StatusOK, out)
}

func validLatLon(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
