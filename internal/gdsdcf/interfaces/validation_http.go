package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/maxammann88/Sx-interfacing-app-sub001/internal/audit"
	"github.com/maxammann88/Sx-interfacing-app-sub001/internal/auth"
	gdsdcfapp "github.com/maxammann88/Sx-interfacing-app-sub001/internal/gdsdcf/application"
	gdsdcf "github.com/maxammann88/Sx-interfacing-app-sub001/internal/gdsdcf/domain"
	ledger "github.com/maxammann88/Sx-interfacing-app-sub001/internal/ledger/domain"
)

// ReservationWriter stores imported reservation records.
type ReservationWriter interface {
	InsertReservations(ctx context.Context, reservations []gdsdcf.Reservation) error
}

// ValidationHandler serves reservation import and validation runs.
type ValidationHandler struct {
	service      *gdsdcfapp.ValidationService
	reservations ReservationWriter
	auditLogger  audit.Logger
}

// NewValidationHandler constructs a handler.
func NewValidationHandler(service *gdsdcfapp.ValidationService, reservations ReservationWriter, auditLogger audit.Logger) (*ValidationHandler, error) {
	if service == nil {
		return nil, errors.New("validation handler: nil service")
	}
	if reservations == nil {
		return nil, errors.New("validation handler: nil reservation writer")
	}
	return &ValidationHandler{service: service, reservations: reservations, auditLogger: auditLogger}, nil
}

// Register mounts the validation routes.
func (h *ValidationHandler) Register(router *mux.Router) {
	router.HandleFunc("/api/v1/gdsdcf/reservations", h.handleImport).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/gdsdcf/validate", h.handleValidate).Methods(http.MethodPost)
}

type reservationDTO struct {
	ID                string `json:"id"`
	ReservationNumber string `json:"reservation_number"`
	Source            string `json:"source"`
	POS               string `json:"pos"`
	MandantCode       string `json:"mandant_code"`
	Status            string `json:"status"`
	InvoiceType       string `json:"invoice_type"`
	SerialNumber      int    `json:"serial_number"`
	VoucherNumber     string `json:"voucher_number"`
	DFR               string `json:"dfr"`
	Period            string `json:"period"`
}

type stepDTO struct {
	Step   string `json:"step"`
	Passed bool   `json:"passed"`
	Reason string `json:"reason,omitempty"`
}

type resultDTO struct {
	ReservationNumber string    `json:"reservation_number"`
	IsChargeable      bool      `json:"is_chargeable"`
	CalculatedFee     string    `json:"calculated_fee"`
	Currency          string    `json:"currency"`
	Partner           string    `json:"partner"`
	Region            string    `json:"region"`
	Steps             []stepDTO `json:"steps"`
}

func toResultDTO(result gdsdcf.ValidationResult) resultDTO {
	steps := make([]stepDTO, 0, len(result.Steps))
	for _, step := range result.Steps {
		steps = append(steps, stepDTO{Step: step.Step, Passed: step.Passed, Reason: step.Reason})
	}
	return resultDTO{
		ReservationNumber: result.Reservation.ReservationNumber,
		IsChargeable:      result.IsChargeable,
		CalculatedFee:     result.CalculatedFee.StringFixed(2),
		Currency:          result.Currency,
		Partner:           result.Partner,
		Region:            string(result.Region),
		Steps:             steps,
	}
}

func (h *ValidationHandler) handleImport(w http.ResponseWriter, r *http.Request) {
	var dtos []reservationDTO
	if err := json.NewDecoder(r.Body).Decode(&dtos); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if len(dtos) == 0 {
		http.Error(w, "empty reservation list", http.StatusBadRequest)
		return
	}
	reservations := make([]gdsdcf.Reservation, 0, len(dtos))
	for _, dto := range dtos {
		if _, err := ledger.ParsePeriod(dto.Period); err != nil {
			http.Error(w, "invalid period "+dto.Period, http.StatusBadRequest)
			return
		}
		id := dto.ID
		if id == "" {
			id = uuid.New().String()
		}
		reservations = append(reservations, gdsdcf.Reservation{
			ID:                id,
			ReservationNumber: dto.ReservationNumber,
			Source:            dto.Source,
			POS:               dto.POS,
			MandantCode:       dto.MandantCode,
			Status:            dto.Status,
			InvoiceType:       dto.InvoiceType,
			SerialNumber:      dto.SerialNumber,
			VoucherNumber:     dto.VoucherNumber,
			DFR:               dto.DFR,
			Period:            dto.Period,
		})
	}
	if err := h.reservations.InsertReservations(r.Context(), reservations); err != nil {
		http.Error(w, "import failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"imported": len(reservations)})
}

type validateRequest struct {
	Period string `json:"period"`
}

func (h *ValidationHandler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	runID, results, err := h.service.Run(r.Context(), req.Period)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidPeriod) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "validation run failed", http.StatusInternalServerError)
		return
	}

	chargeable := 0
	dtos := make([]resultDTO, 0, len(results))
	for _, result := range results {
		if result.IsChargeable {
			chargeable++
		}
		dtos = append(dtos, toResultDTO(result))
	}
	h.logAudit(r, req.Period, runID, len(results), chargeable)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"run_id":       runID,
		"reservations": len(results),
		"chargeable":   chargeable,
		"results":      dtos,
	})
}

func (h *ValidationHandler) logAudit(r *http.Request, period, runID string, total, chargeable int) {
	if h.auditLogger == nil {
		return
	}
	metadata, _ := json.Marshal(map[string]any{"reservations": total, "chargeable": chargeable})
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       audit.ActionValidationRun,
		ResourceType: "validation_run",
		ResourceID:   runID,
		Period:       period,
		Metadata:     metadata,
		UserAgent:    r.UserAgent(),
	})
}
