package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/maxammann88/Sx-interfacing-app-sub001/internal/audit"
	"github.com/maxammann88/Sx-interfacing-app-sub001/internal/auth"
	fixvarapp "github.com/maxammann88/Sx-interfacing-app-sub001/internal/fixvar/application"
	fixvar "github.com/maxammann88/Sx-interfacing-app-sub001/internal/fixvar/domain"
	ledger "github.com/maxammann88/Sx-interfacing-app-sub001/internal/ledger/domain"
	masterdata "github.com/maxammann88/Sx-interfacing-app-sub001/internal/masterdata/domain"
	statement "github.com/maxammann88/Sx-interfacing-app-sub001/internal/statement/domain"
)

// ReportHandler handles fix/variable deviation report APIs.
type ReportHandler struct {
	service     *fixvarapp.ReconcilerService
	auditLogger audit.Logger
}

// NewReportHandler constructs a handler.
func NewReportHandler(service *fixvarapp.ReconcilerService, auditLogger audit.Logger) (*ReportHandler, error) {
	if service == nil {
		return nil, errors.New("fixvar handler: nil service")
	}
	return &ReportHandler{service: service, auditLogger: auditLogger}, nil
}

// Register mounts the report routes.
func (h *ReportHandler) Register(router *mux.Router) {
	router.HandleFunc("/api/v1/fixvar/report", h.handleReport).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/fixvar/overview", h.handleOverview).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/fixvar/overview/export.xlsx", h.handleOverviewExport).Methods(http.MethodGet)
}

func (h *ReportHandler) handleReport(w http.ResponseWriter, r *http.Request) {
	countryID := r.URL.Query().Get("country_id")
	period := r.URL.Query().Get("period")
	if countryID == "" {
		http.Error(w, "country_id required", http.StatusBadRequest)
		return
	}
	report, err := h.service.Report(r.Context(), countryID, period)
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toReportDTO(report))
	h.logAudit(r, countryID, period)
}

func (h *ReportHandler) handleOverview(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	overview, err := h.service.Overview(r.Context(), period)
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toOverviewDTOs(overview))
	h.logAudit(r, "", period)
}

func (h *ReportHandler) handleOverviewExport(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	overview, err := h.service.Overview(r.Context(), period)
	if err != nil {
		respondError(w, err)
		return
	}
	data, err := BuildOverviewXLSX(period, overview)
	if err != nil {
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=fixvar-overview-"+period+".xlsx")
	_, _ = w.Write(data)
}

func (h *ReportHandler) logAudit(r *http.Request, countryID, period string) {
	if h.auditLogger == nil {
		return
	}
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       audit.ActionFixVarReport,
		ResourceType: "fixvar_report",
		CountryID:    countryID,
		Period:       period,
	})
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, masterdata.ErrCountryNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ledger.ErrInvalidPeriod):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "report failed", http.StatusInternalServerError)
	}
}

type sectionDTO struct {
	Lines    []sectionLineDTO `json:"lines"`
	Subtotal string           `json:"subtotal"`
}

type sectionLineDTO struct {
	Type        string `json:"type"`
	Reference   string `json:"reference,omitempty"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

type reportDTO struct {
	CountryID         string     `json:"country_id"`
	CountryName       string     `json:"country_name"`
	Period            string     `json:"period"`
	UploadFix         sectionDTO `json:"upload_fix"`
	UploadVariable    sectionDTO `json:"upload_variable"`
	LedgerFix         sectionDTO `json:"ledger_fix"`
	LedgerVariable    sectionDTO `json:"ledger_variable"`
	FixDeviation      string     `json:"fix_deviation"`
	VariableDeviation string     `json:"variable_deviation"`
}

type overviewRowDTO struct {
	CountryID         string `json:"country_id"`
	CountryName       string `json:"country_name"`
	UploadFix         string `json:"upload_fix"`
	UploadVariable    string `json:"upload_variable"`
	LedgerFix         string `json:"ledger_fix"`
	LedgerVariable    string `json:"ledger_variable"`
	FixDeviation      string `json:"fix_deviation"`
	VariableDeviation string `json:"variable_deviation"`
}

func toReportDTO(report *fixvar.CountryReport) reportDTO {
	return reportDTO{
		CountryID:         report.Country.ID,
		CountryName:       report.Country.Name,
		Period:            report.Period,
		UploadFix:         toSectionDTO(report.UploadFix),
		UploadVariable:    toSectionDTO(report.UploadVariable),
		LedgerFix:         toSectionDTO(report.LedgerFix),
		LedgerVariable:    toSectionDTO(report.LedgerVariable),
		FixDeviation:      report.FixDeviation.StringFixed(2),
		VariableDeviation: report.VariableDeviation.StringFixed(2),
	}
}

func toSectionDTO(section fixvar.Section) sectionDTO {
	dto := sectionDTO{Lines: make([]sectionLineDTO, 0, len(section.Lines)), Subtotal: section.Subtotal.StringFixed(2)}
	for _, line := range section.Lines {
		dto.Lines = append(dto.Lines, toSectionLineDTO(line))
	}
	return dto
}

func toSectionLineDTO(line statement.Line) sectionLineDTO {
	return sectionLineDTO{
		Type:        line.Type,
		Reference:   line.Reference,
		Description: line.Description,
		Amount:      line.Amount.StringFixed(2),
	}
}

func toOverviewDTOs(rows []fixvar.OverviewRow) []overviewRowDTO {
	dtos := make([]overviewRowDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, overviewRowDTO{
			CountryID:         row.Country.ID,
			CountryName:       row.Country.Name,
			UploadFix:         row.UploadFix.StringFixed(2),
			UploadVariable:    row.UploadVariable.StringFixed(2),
			LedgerFix:         row.LedgerFix.StringFixed(2),
			LedgerVariable:    row.LedgerVariable.StringFixed(2),
			FixDeviation:      row.FixDeviation.StringFixed(2),
			VariableDeviation: row.VariableDeviation.StringFixed(2),
		})
	}
	return dtos
}
