package config

import (
	"errors"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	fixvar "github.com/maxammann88/Sx-interfacing-app-sub001/internal/fixvar/domain"
	gdsdcf "github.com/maxammann88/Sx-interfacing-app-sub001/internal/gdsdcf/domain"
)

// FeeEntry is one configured fee amount/currency pair.
type FeeEntry struct {
	Amount   string `yaml:"amount"`
	Currency string `yaml:"currency"`
}

// PartnerConfig is one configured GDS/DCF partner.
type PartnerConfig struct {
	ID             string              `yaml:"id"`
	Name           string              `yaml:"name"`
	SourceChannels []string            `yaml:"source_channels"`
	FeesByRegion   map[string]FeeEntry `yaml:"fees_by_region"`
	DFRFees        map[string]FeeEntry `yaml:"dfr_fees"`
}

// Engine defines the business configuration of the interfacing engines:
// booking-program codes, channel tokens, status labels, franchise
// mandant codes and the partner fee tables.
type Engine struct {
	FixProgramCode        string          `yaml:"fix_program_code"`
	VariableProgramCode   string          `yaml:"variable_program_code"`
	PaymentTermDays       int             `yaml:"payment_term_days"`
	Channels              []string        `yaml:"channels"`
	EligibleStatuses      []string        `yaml:"eligible_statuses"`
	FranchiseMandantCodes []string        `yaml:"franchise_mandant_codes"`
	Partners              []PartnerConfig `yaml:"partners"`
}

// Load reads engine configuration from the yaml file named by
// ENGINE_CONFIG, with env fallbacks for scalar settings. Missing partner
// or channel configuration stays empty here; the validator substitutes
// its built-in defaults explicitly.
func Load() (Engine, error) {
	cfg := Engine{
		FixProgramCode:      getenvDefault("FIXVAR_FIX_PROGRAM", "FRFIX"),
		VariableProgramCode: getenvDefault("FIXVAR_VAR_PROGRAM", "FRVAR"),
		PaymentTermDays:     30,
	}

	if path := os.Getenv("ENGINE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if len(cfg.FranchiseMandantCodes) == 0 {
		cfg.FranchiseMandantCodes = splitCSV(os.Getenv("FRANCHISE_MANDANT_CODES"))
	}
	if cfg.FixProgramCode == "" || cfg.VariableProgramCode == "" {
		return cfg, errors.New("config: fix and variable program codes required")
	}
	if cfg.PaymentTermDays <= 0 {
		cfg.PaymentTermDays = 30
	}
	return cfg, nil
}

// ProgramCodes converts the configured program codes.
func (e Engine) ProgramCodes() fixvar.ProgramCodes {
	return fixvar.ProgramCodes{Fix: e.FixProgramCode, Variable: e.VariableProgramCode}
}

// GdsDcfPartners converts configured partners into domain partners.
// An empty configuration yields nil, letting the validator fall back to
// its built-in default set.
func (e Engine) GdsDcfPartners() ([]gdsdcf.Partner, error) {
	if len(e.Partners) == 0 {
		return nil, nil
	}
	partners := make([]gdsdcf.Partner, 0, len(e.Partners))
	for _, pc := range e.Partners {
		partner := gdsdcf.Partner{
			ID:             pc.ID,
			Name:           pc.Name,
			SourceChannels: pc.SourceChannels,
			FeesByRegion:   make(map[gdsdcf.Region]gdsdcf.Fee, len(pc.FeesByRegion)),
		}
		for region, entry := range pc.FeesByRegion {
			fee, err := parseFee(entry)
			if err != nil {
				return nil, err
			}
			partner.FeesByRegion[gdsdcf.Region(region)] = fee
		}
		if len(pc.DFRFees) > 0 {
			rules := &gdsdcf.VoucherRules{DFRFees: make(map[string]gdsdcf.Fee, len(pc.DFRFees))}
			for dfr, entry := range pc.DFRFees {
				fee, err := parseFee(entry)
				if err != nil {
					return nil, err
				}
				rules.DFRFees[dfr] = fee
			}
			partner.VoucherRules = rules
		}
		partners = append(partners, partner)
	}
	return partners, nil
}

func parseFee(entry FeeEntry) (gdsdcf.Fee, error) {
	amount, err := decimal.NewFromString(entry.Amount)
	if err != nil {
		return gdsdcf.Fee{}, errors.New("config: invalid fee amount: " + entry.Amount)
	}
	currency := entry.Currency
	if currency == "" {
		currency = "EUR"
	}
	return gdsdcf.Fee{Amount: amount, Currency: currency}, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
