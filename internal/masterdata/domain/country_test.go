package masterdata

import "testing"

func TestIsActive(t *testing.T) {
	cases := map[string]bool{
		"aktiv":         true,
		"Aktiv":         true,
		"Partner aktiv": true,
		"inaktiv":       false,
		"INAKTIV":       false,
		"aktiv/inaktiv": false,
		"":              false,
		"in Abstimmung": false,
	}
	for status, want := range cases {
		country := Country{PartnerStatus: status}
		if got := country.IsActive(); got != want {
			t.Fatalf("IsActive(%q) = %v, want %v", status, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := Country{ID: "country-de", Name: "Germany", Debitor1: "140100", KST: "KST100"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid country, got %v", err)
	}
	for name, mutate := range map[string]func(*Country){
		"missing id":       func(c *Country) { c.ID = "" },
		"missing name":     func(c *Country) { c.Name = "" },
		"missing debitor":  func(c *Country) { c.Debitor1 = "" },
		"missing cost ctr": func(c *Country) { c.KST = "" },
	} {
		country := valid
		mutate(&country)
		if err := country.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
