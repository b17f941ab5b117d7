package interfaces

import (
	statement "github.com/maxammann88/Sx-interfacing-app-sub001/internal/statement/domain"
)

type lineDTO struct {
	Type         string `json:"type"`
	Reference    string `json:"reference"`
	DocumentType string `json:"document_type,omitempty"`
	Date         string `json:"date,omitempty"`
	Description  string `json:"description"`
	Amount       string `json:"amount"`
}

type accountDTO struct {
	OverdueBalance         string `json:"overdue_balance"`
	DueBalance             string `json:"due_balance"`
	DueUntilDate           string `json:"due_until_date"`
	PaymentBySixt          string `json:"payment_by_sixt"`
	PaymentByPartner       string `json:"payment_by_partner"`
	TotalInterfacingAmount string `json:"total_interfacing_amount"`
	BalanceOpenItems       string `json:"balance_open_items"`
}

type statementDTO struct {
	CountryID           string     `json:"country_id"`
	CountryName         string     `json:"country_name"`
	ISO                 string     `json:"iso"`
	Period              string     `json:"period"`
	ReleaseDate         string     `json:"release_date"`
	DueUntilDate        string     `json:"due_until_date"`
	ClearingLines       []lineDTO  `json:"clearing_lines"`
	ClearingSubtotal    string     `json:"clearing_subtotal"`
	BillingLines        []lineDTO  `json:"billing_lines"`
	BillingSubtotal     string     `json:"billing_subtotal"`
	TotalInterfacingDue string     `json:"total_interfacing_due"`
	Account             accountDTO `json:"account_statement"`
}

func toDTO(stmt *statement.Statement) *statementDTO {
	return &statementDTO{
		CountryID:           stmt.Country.ID,
		CountryName:         stmt.Country.Name,
		ISO:                 stmt.Country.ISO,
		Period:              stmt.Period,
		ReleaseDate:         stmt.ReleaseDate.Format("2006-01-02"),
		DueUntilDate:        stmt.DueUntilDate.Format("2006-01-02"),
		ClearingLines:       toLineDTOs(stmt.ClearingLines),
		ClearingSubtotal:    stmt.ClearingSubtotal.StringFixed(2),
		BillingLines:        toLineDTOs(stmt.BillingLines),
		BillingSubtotal:     stmt.BillingSubtotal.StringFixed(2),
		TotalInterfacingDue: stmt.TotalInterfacingDue.StringFixed(2),
		Account: accountDTO{
			OverdueBalance:         stmt.Account.OverdueBalance.StringFixed(2),
			DueBalance:             stmt.Account.DueBalance.StringFixed(2),
			DueUntilDate:           stmt.Account.DueUntilDate.Format("2006-01-02"),
			PaymentBySixt:          stmt.Account.PaymentBySixt.StringFixed(2),
			PaymentByPartner:       stmt.Account.PaymentByPartner.StringFixed(2),
			TotalInterfacingAmount: stmt.Account.TotalInterfacingAmount.StringFixed(2),
			BalanceOpenItems:       stmt.Account.BalanceOpenItems.StringFixed(2),
		},
	}
}

func toLineDTOs(lines []statement.Line) []lineDTO {
	dtos := make([]lineDTO, 0, len(lines))
	for _, line := range lines {
		dto := lineDTO{
			Type:         line.Type,
			Reference:    line.Reference,
			DocumentType: line.DocumentType,
			Description:  line.Description,
			Amount:       line.Amount.StringFixed(2),
		}
		if line.Date != nil {
			dto.Date = line.Date.Format("2006-01-02")
		}
		dtos = append(dtos, dto)
	}
	return dtos
}
