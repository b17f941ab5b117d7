package fixvar

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	ledger "github.com/maxammann88/Sx-interfacing-app-sub001/internal/ledger/domain"
	masterdata "github.com/maxammann88/Sx-interfacing-app-sub001/internal/masterdata/domain"
	statement "github.com/maxammann88/Sx-interfacing-app-sub001/internal/statement/domain"
)

// Free-text markers in the ledger booking text deciding cost bucket
// membership. Matching is by lower-cased substring; these literals are
// contractual.
const (
	variableMarker = "operational costs billing"
	fixMarker      = "contractual costs billing"
)

// ProgramCodes configures the two booking-program codes the billing
// upload uses to mark fix and variable costs.
type ProgramCodes struct {
	Fix      string
	Variable string
}

// Section is one fix-or-variable bucket of a report: its lines and
// subtotal.
type Section struct {
	Lines    []statement.Line
	Subtotal decimal.Decimal
}

// CountryReport compares the uploaded billing classification against the
// ledger's own classification for one country and period.
type CountryReport struct {
	Country           masterdata.Country
	Period            string
	UploadFix         Section
	UploadVariable    Section
	LedgerFix         Section
	LedgerVariable    Section
	FixDeviation      decimal.Decimal
	VariableDeviation decimal.Decimal
}

// OverviewRow is one country's aggregates in the all-countries overview.
type OverviewRow struct {
	Country           masterdata.Country
	UploadFix         decimal.Decimal
	UploadVariable    decimal.Decimal
	LedgerFix         decimal.Decimal
	LedgerVariable    decimal.Decimal
	FixDeviation      decimal.Decimal
	VariableDeviation decimal.Decimal
}

// AbsDeviation is the overview sort key: |variable| + |fix|.
func (r OverviewRow) AbsDeviation() decimal.Decimal {
	return r.VariableDeviation.Abs().Add(r.FixDeviation.Abs())
}

// ClassifyLedger buckets a country's ledger rows for the period into fix
// and variable sections. Only Invoice and Credit Note rows on the
// country's debitor account posted inside the period participate; a row
// matching neither marker is silently omitted. Amounts are inverted to
// statement convention.
func ClassifyLedger(rows []ledger.Row, country masterdata.Country, period ledger.Period) (fix, variable Section) {
	fix, variable = emptySection(), emptySection()
	for _, row := range rows {
		if row.Konto != country.Debitor1 {
			continue
		}
		if row.Type != ledger.TypeInvoice && row.Type != ledger.TypeCreditNote {
			continue
		}
		if row.PostingDate == nil || !period.Contains(*row.PostingDate) {
			continue
		}
		line := statement.Line{
			Type:         row.Type,
			Reference:    row.Reference,
			DocumentType: row.DocumentType,
			Date:         row.PostingDate,
			Description:  row.Text,
			Amount:       row.Amount.Neg(),
		}
		text := strings.ToLower(row.Text)
		switch {
		case strings.Contains(text, variableMarker):
			variable = appendLine(variable, line)
		case strings.Contains(text, fixMarker):
			fix = appendLine(fix, line)
		}
	}
	return finishSection(fix), finishSection(variable)
}

// ClassifyUpload buckets a country's uploaded billing rows for the
// period into fix and variable sections. Bucket membership is decided by
// the normalized booking program only; amounts are taken as uploaded,
// and lines are sorted ascending by amount.
func ClassifyUpload(rows []ledger.BillingCostRow, country masterdata.Country, period ledger.Period, codes ProgramCodes) (fix, variable Section) {
	fix, variable = emptySection(), emptySection()
	yearMonth := period.YearMonthSlash()
	fixCode := NormalizeProgram(codes.Fix)
	variableCode := NormalizeProgram(codes.Variable)
	for _, row := range rows {
		if row.CostCenter != country.KST || row.YearMonth != yearMonth {
			continue
		}
		line := statement.Line{
			Type:        row.BookingProgram,
			Description: row.Description,
			Amount:      row.Amount,
		}
		switch NormalizeProgram(row.BookingProgram) {
		case fixCode:
			fix = appendLine(fix, line)
		case variableCode:
			variable = appendLine(variable, line)
		}
	}
	return finishUploadSection(fix), finishUploadSection(variable)
}

// NormalizeProgram strips all whitespace from a booking program code and
// upper-cases it.
func NormalizeProgram(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), ""))
}

// BuildReport assembles a country report from classified sections.
func BuildReport(country masterdata.Country, period ledger.Period, uploadFix, uploadVariable, ledgerFix, ledgerVariable Section) CountryReport {
	return CountryReport{
		Country:           country,
		Period:            period.String(),
		UploadFix:         uploadFix,
		UploadVariable:    uploadVariable,
		LedgerFix:         ledgerFix,
		LedgerVariable:    ledgerVariable,
		FixDeviation:      uploadFix.Subtotal.Sub(ledgerFix.Subtotal),
		VariableDeviation: uploadVariable.Subtotal.Sub(ledgerVariable.Subtotal),
	}
}

// SortOverview orders overview rows descending by the absolute deviation
// sum.
func SortOverview(rows []OverviewRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].AbsDeviation().GreaterThan(rows[j].AbsDeviation())
	})
}

// Totals holds one fix/variable subtotal pair.
type Totals struct {
	Fix      decimal.Decimal
	Variable decimal.Decimal
}

// AggregateLedger pre-aggregates all ledger rows for the period into
// fix/variable subtotals keyed by ledger account. Used by the overview,
// which joins the aggregates per country afterwards.
func AggregateLedger(rows []ledger.Row, period ledger.Period) map[string]Totals {
	totals := make(map[string]Totals)
	for _, row := range rows {
		if row.Type != ledger.TypeInvoice && row.Type != ledger.TypeCreditNote {
			continue
		}
		if row.PostingDate == nil || !period.Contains(*row.PostingDate) {
			continue
		}
		amount := row.Amount.Neg()
		t := totals[row.Konto]
		text := strings.ToLower(row.Text)
		switch {
		case strings.Contains(text, variableMarker):
			t.Variable = t.Variable.Add(amount)
		case strings.Contains(text, fixMarker):
			t.Fix = t.Fix.Add(amount)
		default:
			continue
		}
		totals[row.Konto] = t
	}
	return totals
}

// AggregateUpload pre-aggregates all uploaded billing rows for the
// period into fix/variable subtotals keyed by cost center.
func AggregateUpload(rows []ledger.BillingCostRow, period ledger.Period, codes ProgramCodes) map[string]Totals {
	totals := make(map[string]Totals)
	yearMonth := period.YearMonthSlash()
	fixCode := NormalizeProgram(codes.Fix)
	variableCode := NormalizeProgram(codes.Variable)
	for _, row := range rows {
		if row.YearMonth != yearMonth {
			continue
		}
		t := totals[row.CostCenter]
		switch NormalizeProgram(row.BookingProgram) {
		case fixCode:
			t.Fix = t.Fix.Add(row.Amount)
		case variableCode:
			t.Variable = t.Variable.Add(row.Amount)
		default:
			continue
		}
		totals[row.CostCenter] = t
	}
	return totals
}

func emptySection() Section {
	return Section{Subtotal: decimal.Zero}
}

func appendLine(s Section, line statement.Line) Section {
	s.Lines = append(s.Lines, line)
	s.Subtotal = s.Subtotal.Add(line.Amount)
	return s
}

func finishSection(s Section) Section {
	sort.SliceStable(s.Lines, func(i, j int) bool {
		return s.Lines[i].Amount.GreaterThan(s.Lines[j].Amount)
	})
	return s
}

func finishUploadSection(s Section) Section {
	sort.SliceStable(s.Lines, func(i, j int) bool {
		return s.Lines[i].Amount.LessThan(s.Lines[j].Amount)
	})
	return s
}
