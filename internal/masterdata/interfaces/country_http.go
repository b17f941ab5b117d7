package interfaces

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/maxammann88/Sx-interfacing-app-sub001/internal/audit"
	"github.com/maxammann88/Sx-interfacing-app-sub001/internal/auth"
	masterdata "github.com/maxammann88/Sx-interfacing-app-sub001/internal/masterdata/domain"
)

// CountryHandler serves the country masterdata endpoints.
type CountryHandler struct {
	countries   masterdata.CountryRepository
	auditLogger audit.Logger
}

// NewCountryHandler constructs a handler.
func NewCountryHandler(countries masterdata.CountryRepository, auditLogger audit.Logger) (*CountryHandler, error) {
	if countries == nil {
		return nil, errors.New("country handler: nil repository")
	}
	return &CountryHandler{countries: countries, auditLogger: auditLogger}, nil
}

// Register mounts the masterdata routes.
func (h *CountryHandler) Register(router *mux.Router) {
	router.HandleFunc("/api/v1/masterdata/countries", h.list).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/masterdata/countries", h.replaceAll).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/masterdata/countries/iso/{iso}", h.getByISO).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/masterdata/countries/{id}", h.get).Methods(http.MethodGet)
}

type countryDTO struct {
	ID            string `json:"id"`
	FIR           string `json:"fir"`
	Debitor1      string `json:"debitor1"`
	Kreditor      string `json:"kreditor"`
	KST           string `json:"kst"`
	ISO           string `json:"iso"`
	Name          string `json:"name"`
	PartnerStatus string `json:"partner_status"`
	Active        bool   `json:"active"`
}

func toCountryDTO(c masterdata.Country) countryDTO {
	return countryDTO{
		ID:            c.ID,
		FIR:           c.FIR,
		Debitor1:      c.Debitor1,
		Kreditor:      c.Kreditor,
		KST:           c.KST,
		ISO:           c.ISO,
		Name:          c.Name,
		PartnerStatus: c.PartnerStatus,
		Active:        c.IsActive(),
	}
}

func (h *CountryHandler) list(w http.ResponseWriter, r *http.Request) {
	countries, err := h.countries.List(r.Context())
	if err != nil {
		http.Error(w, "failed to list countries", http.StatusInternalServerError)
		return
	}
	dtos := make([]countryDTO, 0, len(countries))
	for _, c := range countries {
		dtos = append(dtos, toCountryDTO(c))
	}
	respondJSON(w, dtos)
}

func (h *CountryHandler) get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	country, err := h.countries.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, masterdata.ErrCountryNotFound) {
			http.Error(w, "country not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load country", http.StatusInternalServerError)
		return
	}
	respondJSON(w, toCountryDTO(*country))
}

func (h *CountryHandler) getByISO(w http.ResponseWriter, r *http.Request) {
	iso := mux.Vars(r)["iso"]
	country, err := h.countries.GetByISO(r.Context(), iso)
	if err != nil {
		if errors.Is(err, masterdata.ErrCountryNotFound) {
			http.Error(w, "country not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load country", http.StatusInternalServerError)
		return
	}
	respondJSON(w, toCountryDTO(*country))
}

func (h *CountryHandler) replaceAll(w http.ResponseWriter, r *http.Request) {
	var dtos []countryDTO
	if err := json.NewDecoder(r.Body).Decode(&dtos); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(dtos) == 0 {
		http.Error(w, "empty country list", http.StatusBadRequest)
		return
	}
	countries := make([]masterdata.Country, 0, len(dtos))
	for i, dto := range dtos {
		country := masterdata.Country{
			ID:            dto.ID,
			FIR:           dto.FIR,
			Debitor1:      dto.Debitor1,
			Kreditor:      dto.Kreditor,
			KST:           dto.KST,
			ISO:           dto.ISO,
			Name:          dto.Name,
			PartnerStatus: dto.PartnerStatus,
		}
		if err := country.Validate(); err != nil {
			http.Error(w, fmt.Sprintf("row %d: %v", i, err), http.StatusBadRequest)
			return
		}
		countries = append(countries, country)
	}
	if err := h.countries.ReplaceAll(r.Context(), countries); err != nil {
		http.Error(w, "import failed", http.StatusInternalServerError)
		return
	}
	if h.auditLogger != nil {
		metadata, _ := json.Marshal(map[string]any{"countries": len(countries)})
		_ = h.auditLogger.Log(r.Context(), audit.Entry{
			Actor:        auth.SubjectFromContext(r.Context()),
			Role:         string(auth.RoleFromContext(r.Context())),
			Action:       audit.ActionCountryImport,
			ResourceType: "countries",
			Metadata:     metadata,
			UserAgent:    r.UserAgent(),
		})
	}
	respondJSON(w, map[string]any{"imported": len(countries)})
}

func respondJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
