package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"

	"github.com/maxammann88/Sx-interfacing-app-sub001/internal/audit"
	"github.com/maxammann88/Sx-interfacing-app-sub001/internal/auth"
	ledger "github.com/maxammann88/Sx-interfacing-app-sub001/internal/ledger/domain"
	"github.com/maxammann88/Sx-interfacing-app-sub001/internal/observability/metrics"
)

const maxUploadBytes = 32 << 20

// LedgerWriter stores imported ledger rows.
type LedgerWriter interface {
	InsertBatch(ctx context.Context, batch []ledger.Row) error
}

// BillingWriter stores uploaded billing cost rows.
type BillingWriter interface {
	InsertBatch(ctx context.Context, batch []ledger.BillingCostRow) error
}

// UploadHandler ingests ledger exports and billing cost uploads.
type UploadHandler struct {
	ledgerRows  LedgerWriter
	billingRows BillingWriter
	auditLogger audit.Logger
}

// NewUploadHandler constructs a handler.
func NewUploadHandler(ledgerRows LedgerWriter, billingRows BillingWriter, auditLogger audit.Logger) (*UploadHandler, error) {
	if ledgerRows == nil {
		return nil, errors.New("upload handler: nil ledger writer")
	}
	if billingRows == nil {
		return nil, errors.New("upload handler: nil billing writer")
	}
	return &UploadHandler{ledgerRows: ledgerRows, billingRows: billingRows, auditLogger: auditLogger}, nil
}

// Register mounts the upload routes.
func (h *UploadHandler) Register(router *mux.Router) {
	router.HandleFunc("/api/v1/uploads/ledger", h.handleLedgerUpload).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/uploads/billing-costs", h.handleBillingUpload).Methods(http.MethodPost)
}

func (h *UploadHandler) handleLedgerUpload(w http.ResponseWriter, r *http.Request) {
	records, filename, ok := h.readFile(w, r, "ledger")
	if !ok {
		return
	}
	rows, err := DecodeLedgerRows(records)
	if err != nil {
		metrics.ObserveUpload("ledger", metrics.ResultError, 0)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.ledgerRows.InsertBatch(r.Context(), rows); err != nil {
		metrics.ObserveUpload("ledger", metrics.ResultError, 0)
		http.Error(w, "import failed", http.StatusInternalServerError)
		return
	}
	metrics.ObserveUpload("ledger", metrics.ResultSuccess, len(rows))
	h.logAudit(r, audit.ActionLedgerUpload, rows[0].BatchID, filename, len(rows))
	respondBatch(w, rows[0].BatchID, len(rows))
}

func (h *UploadHandler) handleBillingUpload(w http.ResponseWriter, r *http.Request) {
	records, filename, ok := h.readFile(w, r, "billing")
	if !ok {
		return
	}
	rows, err := DecodeBillingCostRows(records)
	if err != nil {
		metrics.ObserveUpload("billing", metrics.ResultError, 0)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.billingRows.InsertBatch(r.Context(), rows); err != nil {
		metrics.ObserveUpload("billing", metrics.ResultError, 0)
		http.Error(w, "import failed", http.StatusInternalServerError)
		return
	}
	metrics.ObserveUpload("billing", metrics.ResultSuccess, len(rows))
	h.logAudit(r, audit.ActionBillingUpload, rows[0].BatchID, filename, len(rows))
	respondBatch(w, rows[0].BatchID, len(rows))
}

func (h *UploadHandler) readFile(w http.ResponseWriter, r *http.Request, kind string) ([][]string, string, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		metrics.ObserveUpload(kind, metrics.ResultError, 0)
		http.Error(w, "failed to parse multipart form", http.StatusBadRequest)
		return nil, "", false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		metrics.ObserveUpload(kind, metrics.ResultError, 0)
		http.Error(w, "file required", http.StatusBadRequest)
		return nil, "", false
	}
	defer file.Close()

	records, err := ParseTable(file, filepath.Ext(header.Filename))
	if err != nil {
		metrics.ObserveUpload(kind, metrics.ResultError, 0)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, "", false
	}
	return records, header.Filename, true
}

func (h *UploadHandler) logAudit(r *http.Request, action, batchID, filename string, rows int) {
	if h.auditLogger == nil {
		return
	}
	metadata, _ := json.Marshal(map[string]any{"filename": filename, "rows": rows})
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: "upload_batch",
		ResourceID:   batchID,
		Metadata:     metadata,
		UserAgent:    r.UserAgent(),
	})
}

func respondBatch(w http.ResponseWriter, batchID string, rows int) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"batch_id": batchID,
		"rows":     rows,
	})
}
