package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/maxammann88/Sx-interfacing-app-sub001/internal/audit"
	"github.com/maxammann88/Sx-interfacing-app-sub001/internal/auth"
	ledger "github.com/maxammann88/Sx-interfacing-app-sub001/internal/ledger/domain"
	masterdata "github.com/maxammann88/Sx-interfacing-app-sub001/internal/masterdata/domain"
	"github.com/maxammann88/Sx-interfacing-app-sub001/internal/observability/metrics"
	statement "github.com/maxammann88/Sx-interfacing-app-sub001/internal/statement/domain"
	statementapp "github.com/maxammann88/Sx-interfacing-app-sub001/internal/statement/application"
)

// StatementHandler handles statement APIs.
type StatementHandler struct {
	service         *statementapp.StatementService
	auditLogger     audit.Logger
	paymentTermDays int
}

// NewStatementHandler constructs a handler. The configured payment term
// is the default for requests that do not carry one.
func NewStatementHandler(service *statementapp.StatementService, auditLogger audit.Logger, paymentTermDays int) (*StatementHandler, error) {
	if service == nil {
		return nil, errors.New("statement handler: nil service")
	}
	if paymentTermDays <= 0 {
		return nil, errors.New("statement handler: payment term days required")
	}
	return &StatementHandler{service: service, auditLogger: auditLogger, paymentTermDays: paymentTermDays}, nil
}

// Register mounts the statement routes.
func (h *StatementHandler) Register(router *mux.Router) {
	router.HandleFunc("/api/v1/statements/generate", h.handleGenerate).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/statements/{country}/{period}/export.pdf", h.handleExportPDF).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/statements/{country}/{period}/export.xlsx", h.handleExportXLSX).Methods(http.MethodGet)
}

type generateRequest struct {
	CountryID       string `json:"country_id"`
	Period          string `json:"period"`
	ReleaseDate     string `json:"release_date"`
	PaymentTermDays int    `json:"payment_term_days"`
}

func (h *StatementHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	stmt, status, err := h.generate(r, req)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toDTO(stmt))

	h.logAudit(r, req.CountryID, req.Period, audit.ActionStatementGenerate, map[string]any{
		"release_date":      req.ReleaseDate,
		"payment_term_days": req.PaymentTermDays,
	})
}

func (h *StatementHandler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	h.handleExport(w, r, "pdf")
}

func (h *StatementHandler) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.handleExport(w, r, "xlsx")
}

func (h *StatementHandler) handleExport(w http.ResponseWriter, r *http.Request, format string) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveStatementExport(format, result, time.Since(start))
	}()

	vars := mux.Vars(r)
	req := generateRequest{
		CountryID:       vars["country"],
		Period:          vars["period"],
		ReleaseDate:     r.URL.Query().Get("release_date"),
		PaymentTermDays: h.paymentTermDays,
	}
	stmt, status, err := h.generate(r, req)
	if err != nil {
		result = metrics.ResultError
		http.Error(w, err.Error(), status)
		return
	}

	var (
		data        []byte
		contentType string
	)
	switch format {
	case "pdf":
		data, err = BuildStatementPDF(stmt)
		contentType = "application/pdf"
	default:
		data, err = BuildStatementXLSX(stmt)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		result = metrics.ResultError
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=statement-"+req.CountryID+"-"+req.Period+"."+format)
	_, _ = w.Write(data)
}

func (h *StatementHandler) generate(r *http.Request, req generateRequest) (*statement.Statement, int, error) {
	if req.CountryID == "" {
		return nil, http.StatusBadRequest, errors.New("country_id required")
	}
	releaseDate := time.Now().UTC()
	if req.ReleaseDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ReleaseDate)
		if err != nil {
			return nil, http.StatusBadRequest, errors.New("release_date must be YYYY-MM-DD")
		}
		releaseDate = parsed
	}
	if req.PaymentTermDays <= 0 {
		req.PaymentTermDays = h.paymentTermDays
	}
	stmt, err := h.service.Generate(r.Context(), req.CountryID, req.Period, releaseDate, req.PaymentTermDays)
	if err != nil {
		switch {
		case errors.Is(err, masterdata.ErrCountryNotFound):
			return nil, http.StatusNotFound, err
		case errors.Is(err, ledger.ErrInvalidPeriod):
			return nil, http.StatusBadRequest, err
		default:
			return nil, http.StatusInternalServerError, errors.New("statement generation failed")
		}
	}
	return stmt, http.StatusOK, nil
}

func (h *StatementHandler) logAudit(r *http.Request, countryID, period, action string, metadata map[string]any) {
	if h.auditLogger == nil {
		return
	}
	payload, _ := json.Marshal(metadata)
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: "statement",
		CountryID:    countryID,
		Period:       period,
		Metadata:     payload,
		IP:           clientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	return r.RemoteAddr
}
