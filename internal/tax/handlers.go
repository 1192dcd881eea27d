package tax

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/VybCoding/OneWonderLake/internal/utils"
)

type Handler struct {
	rates *Rates
}

func NewHandler(rates *Rates) *Handler {
	return &Handler{rates: rates}
}

type billRequest struct {
	EAV        *float64 `json:"eav"`
	CurrentTax *float64 `json:"currentTax"`
}

// decodeBill reads and checks {eav, currentTax}. It writes the 400 itself.
func decodeBill(w http.ResponseWriter, r *http.Request) (eav, current float64, ok bool) {
	var req billRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return 0, 0, false
	}
	if req.EAV == nil || *req.EAV <= 0 {
		utils.WriteError(w, http.StatusBadRequest, "Valid EAV (Equalized Assessed Value) is required")
		return 0, 0, false
	}
	if req.CurrentTax == nil || *req.CurrentTax < 0 {
		utils.WriteError(w, http.StatusBadRequest, "Valid current tax amount is required")
		return 0, 0, false
	}
	return *req.EAV, *req.CurrentTax, true
}

func (h *Handler) EstimateHandler(w http.ResponseWriter, r *http.Request) {
	eav, current, ok := decodeBill(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.rates.Estimate(eav, current))
}

func (h *Handler) BreakdownHandler(w http.ResponseWriter, r *http.Request) {
	eav, current, ok := decodeBill(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.rates.Breakdown(eav, current))
}

func (h *Handler) TaxingBodiesHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"taxingBodies":        h.rates.Bodies,
		"villageLevyRate":     h.rates.Village.Rate,
		"totalNonVillageRate": h.rates.NonVillageRate(),
		"dataSource":          fmt.Sprintf("%s (%s)", h.rates.DataSource, h.rates.DataYear),
		"disclaimer":          h.rates.Disclaimer,
	})
}

func (h *Handler) VillageTaxInfoHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"villageName":            h.rates.Village.Name,
		"levyRate":               h.rates.Village.Rate,
		"levyRateDescription":    fmt.Sprintf("$%.4f per $100 of EAV", h.rates.Village.Rate),
		"dataSource":             h.rates.DataSource,
		"lastUpdated":            h.rates.DataYear,
		"mchenryCountyPortalUrl": h.rates.PortalURL,
		"notes": []string{
			"This is the municipal portion only - does not include other taxing districts",
			fmt.Sprintf("Rate based on %s tax levy data for properties within Village limits", h.rates.DataYear),
			"Your actual rate may vary based on specific location and applicable districts",
			"Look up your EAV and current taxes on the McHenry County Property Tax Inquiry portal",
		},
	})
}

// RevenueHandler serves ?population=N, capped at the table's maximum.
func (h *Handler) RevenueHandler(w http.ResponseWriter, r *http.Request) {
	population, err := strconv.Atoi(r.URL.Query().Get("population"))
	if err != nil || population < 0 {
		utils.WriteError(w, http.StatusBadRequest, "population must be a non-negative whole number")
		return
	}
	if limit := h.rates.Revenue.MaxPopulation; limit > 0 && population > limit {
		population = limit
	}
	utils.WriteJSON(w, http.StatusOK, h.rates.RevenueFor(population))
}
