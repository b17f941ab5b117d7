package masterdata

import "errors"

var (
	// ErrCountryNotFound is returned when a country key does not resolve.
	ErrCountryNotFound = errors.New("masterdata: country not found")
	// ErrNilCountry is returned when saving a nil country.
	ErrNilCountry = errors.New("masterdata: nil country")
)
