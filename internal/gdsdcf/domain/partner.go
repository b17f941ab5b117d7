package gdsdcf

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Region is a fee region resolved from a reservation's point of sale.
type Region string

const (
	RegionEMEA     Region = "EMEA"
	RegionAmericas Region = "Americas"
	RegionOther    Region = "Other"
)

// Fee is a monetary fee in a given currency.
type Fee struct {
	Amount   decimal.Decimal
	Currency string
}

// VoucherRules carries DFR-code keyed fee overrides. A matching DFR
// override replaces the region fee entirely.
type VoucherRules struct {
	DFRFees map[string]Fee
}

// Partner is one configured GDS/DCF distribution partner. Partners are
// evaluated in configuration order; the first partner owning a channel
// token contained in a reservation's source wins.
type Partner struct {
	ID             string
	Name           string
	SourceChannels []string
	FeesByRegion   map[Region]Fee
	VoucherRules   *VoucherRules
}

// Matches reports whether one of the partner's channel tokens occurs in
// the reservation source.
func (p Partner) Matches(source string) bool {
	for _, channel := range p.SourceChannels {
		if channel != "" && strings.Contains(source, channel) {
			return true
		}
	}
	return false
}

// FeeFor resolves the partner fee for a region and DFR code. The region
// entry is the base tier; a DFR override, when configured, takes full
// precedence. A missing region entry degrades to a zero EUR fee.
func (p Partner) FeeFor(region Region, dfr string) Fee {
	if p.VoucherRules != nil && dfr != "" {
		if fee, ok := p.VoucherRules.DFRFees[dfr]; ok {
			return fee
		}
	}
	if fee, ok := p.FeesByRegion[region]; ok {
		return fee
	}
	return Fee{Amount: decimal.Zero, Currency: "EUR"}
}

var emeaCountries = map[string]struct{}{
	"DE": {}, "AT": {}, "CH": {}, "FR": {}, "GB": {}, "UK": {}, "IE": {},
	"ES": {}, "PT": {}, "IT": {}, "NL": {}, "BE": {}, "LU": {}, "DK": {},
	"SE": {}, "NO": {}, "FI": {}, "PL": {}, "CZ": {}, "HU": {}, "RO": {},
	"GR": {}, "TR": {}, "ZA": {}, "AE": {}, "SA": {}, "MA": {}, "EG": {},
}

var americasCountries = map[string]struct{}{
	"US": {}, "CA": {}, "MX": {}, "BR": {}, "AR": {}, "CL": {}, "CO": {},
	"PE": {}, "UY": {}, "CR": {}, "PA": {},
}

// ResolveRegion maps a two-letter point-of-sale code to a fee region.
// Unknown codes fall into Other.
func ResolveRegion(pos string) Region {
	code := strings.ToUpper(strings.TrimSpace(pos))
	if _, ok := emeaCountries[code]; ok {
		return RegionEMEA
	}
	if _, ok := americasCountries[code]; ok {
		return RegionAmericas
	}
	return RegionOther
}

func flatFees(amount string) map[Region]Fee {
	fee := Fee{Amount: decimal.RequireFromString(amount), Currency: "EUR"}
	return map[Region]Fee{
		RegionEMEA:     fee,
		RegionAmericas: fee,
		RegionOther:    fee,
	}
}

// DefaultPartners returns the built-in partner configuration, used when
// no partner configuration is supplied by the caller.
func DefaultPartners() []Partner {
	return []Partner{
		{
			ID:             "travelport",
			Name:           "Travelport",
			SourceChannels: []string{"GG", "GW"},
			FeesByRegion:   flatFees("6.08"),
		},
		{
			ID:             "sabre",
			Name:           "Sabre",
			SourceChannels: []string{"GS"},
			FeesByRegion:   flatFees("6.25"),
		},
		{
			ID:             "amadeus",
			Name:           "Amadeus",
			SourceChannels: []string{"GA", "SOAP"},
			FeesByRegion:   flatFees("6.55"),
			VoucherRules: &VoucherRules{DFRFees: map[string]Fee{
				"10355": {Amount: decimal.RequireFromString("5.29"), Currency: "EUR"},
			}},
		},
		{
			ID:             "expedia",
			Name:           "Expedia",
			SourceChannels: []string{"Expedia", "TPRA"},
			FeesByRegion:   flatFees("3.00"),
		},
		{
			ID:             "priceline",
			Name:           "Priceline",
			SourceChannels: []string{"Priceline"},
			FeesByRegion:   flatFees("3.00"),
		},
		{
			ID:             "meili",
			Name:           "Meili",
			SourceChannels: []string{"Meili"},
			FeesByRegion:   flatFees("5.50"),
			VoucherRules: &VoucherRules{DFRFees: map[string]Fee{
				"10897": {Amount: decimal.RequireFromString("2.75"), Currency: "EUR"},
			}},
		},
	}
}

// DefaultChannels returns the built-in allow-list of recognized booking
// channel tokens.
func DefaultChannels() []string {
	return []string{"SOAP", "TPRA", "GG", "GW", "GS", "GA", "Expedia", "Priceline", "Meili"}
}

// DefaultEligibleStatuses returns the built-in status labels accepted by
// the status eligibility step.
func DefaultEligibleStatuses() []string {
	return []string{"invoice", "rental started", "departed"}
}
