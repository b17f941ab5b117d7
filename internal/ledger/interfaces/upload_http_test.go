package interfaces

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	ledger "github.com/maxammann88/Sx-interfacing-app-sub001/internal/ledger/domain"
)

type fakeLedgerWriter struct {
	batches [][]ledger.Row
}

func (f *fakeLedgerWriter) InsertBatch(_ context.Context, batch []ledger.Row) error {
	f.batches = append(f.batches, batch)
	return nil
}

type fakeBillingWriter struct {
	batches [][]ledger.BillingCostRow
}

func (f *fakeBillingWriter) InsertBatch(_ context.Context, batch []ledger.BillingCostRow) error {
	f.batches = append(f.batches, batch)
	return nil
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestLedgerUpload(t *testing.T) {
	ledgerWriter := &fakeLedgerWriter{}
	handler, err := NewUploadHandler(ledgerWriter, &fakeBillingWriter{}, nil)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	router := mux.NewRouter()
	handler.Register(router)

	csv := "Konto,Type,Betrag Hauswaehrung,Buchungsdatum,Text\n140100,Clearing,\"-1.234,56\",05.06.2024,*June clearing\n"
	body, contentType := multipartBody(t, "ledger.csv", csv)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/ledger", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(ledgerWriter.batches) != 1 || len(ledgerWriter.batches[0]) != 1 {
		t.Fatalf("unexpected batches: %+v", ledgerWriter.batches)
	}
	row := ledgerWriter.batches[0][0]
	if row.Amount.String() != "-1234.56" || row.Konto != "140100" {
		t.Fatalf("unexpected decoded row: %+v", row)
	}
}

func TestLedgerUploadRejectsUnknownExtension(t *testing.T) {
	handler, err := NewUploadHandler(&fakeLedgerWriter{}, &fakeBillingWriter{}, nil)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	router := mux.NewRouter()
	handler.Register(router)

	body, contentType := multipartBody(t, "ledger.txt", "data")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/ledger", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBillingUpload(t *testing.T) {
	billingWriter := &fakeBillingWriter{}
	handler, err := NewUploadHandler(&fakeLedgerWriter{}, billingWriter, nil)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	router := mux.NewRouter()
	handler.Register(router)

	csv := "Cost Center,Booking Program,Amount Local Currency,Year Month\nKST100,FRFIX,\"1.500,00\",2024/06\n"
	body, contentType := multipartBody(t, "billing.csv", csv)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/billing-costs", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(billingWriter.batches) != 1 || billingWriter.batches[0][0].CostCenter != "KST100" {
		t.Fatalf("unexpected batches: %+v", billingWriter.batches)
	}
}
