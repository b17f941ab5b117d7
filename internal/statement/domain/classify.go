package statement

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	ledger "github.com/maxammann88/Sx-interfacing-app-sub001/internal/ledger/domain"
)

// SplitPeriod partitions rows into those posted inside the period and
// the remainder. Rows without a posting date never belong to the period.
func SplitPeriod(rows []ledger.Row, period ledger.Period) (current, rest []ledger.Row) {
	for _, row := range rows {
		if row.PostingDate != nil && period.Contains(*row.PostingDate) {
			current = append(current, row)
			continue
		}
		rest = append(rest, row)
	}
	return current, rest
}

// BuildClearingLines derives clearing statement lines from the period's
// rows: type Clearing, leading '*' stripped from the description, amount
// inverted to statement convention, sorted descending by amount.
func BuildClearingLines(rows []ledger.Row) []Line {
	var lines []Line
	for _, row := range rows {
		if row.Type != ledger.TypeClearing {
			continue
		}
		lines = append(lines, Line{
			Type:         row.Type,
			Reference:    row.Reference,
			DocumentType: row.DocumentType,
			Date:         row.PostingDate,
			Description:  strings.TrimPrefix(row.Text, "*"),
			Amount:       row.Amount.Neg(),
		})
	}
	sortLinesDescending(lines)
	return lines
}

// BuildBillingLines derives billing statement lines from the period's
// rows: types Invoice and Credit Note, reference joined from reference
// key 3 and the reference, amount inverted, sorted descending by amount.
func BuildBillingLines(rows []ledger.Row) []Line {
	var lines []Line
	for _, row := range rows {
		if row.Type != ledger.TypeInvoice && row.Type != ledger.TypeCreditNote {
			continue
		}
		lines = append(lines, Line{
			Type:         row.Type,
			Reference:    strings.TrimSpace(row.ReferenceKey3 + " " + row.Reference),
			DocumentType: row.DocumentType,
			Date:         row.DocumentDate,
			Description:  row.Text,
			Amount:       row.Amount.Neg(),
		})
	}
	sortLinesDescending(lines)
	return lines
}

// Subtotal sums line amounts.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Amount)
	}
	return total
}

// PaymentSplit sums inverted payment amounts from the period's rows,
// split by payer. A payment whose description mentions "sixt" is a Sixt
// payment, anything else is a partner payment.
func PaymentSplit(rows []ledger.Row) (bySixt, byPartner decimal.Decimal) {
	bySixt, byPartner = decimal.Zero, decimal.Zero
	for _, row := range rows {
		if row.Type != ledger.TypePayment {
			continue
		}
		amount := row.Amount.Neg()
		if strings.Contains(strings.ToLower(row.Text), "sixt") {
			bySixt = bySixt.Add(amount)
			continue
		}
		byPartner = byPartner.Add(amount)
	}
	return bySixt, byPartner
}

// PreviousBalances sums inverted amounts of rows outside the current
// period, split into overdue and due by comparing the net due date
// against the period's month start. Rows without a due date are skipped.
func PreviousBalances(rest []ledger.Row, period ledger.Period) (overdue, due decimal.Decimal) {
	overdue, due = decimal.Zero, decimal.Zero
	monthStart := period.MonthStart()
	for _, row := range rest {
		if row.NetDueDate == nil {
			continue
		}
		amount := row.Amount.Neg()
		if row.NetDueDate.Before(monthStart) {
			overdue = overdue.Add(amount)
			continue
		}
		due = due.Add(amount)
	}
	return overdue, due
}

func sortLinesDescending(lines []Line) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Amount.GreaterThan(lines[j].Amount)
	})
}
