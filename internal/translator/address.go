package translator

import (
	"strings"

	"github.com/iudanet/cardsync/internal/models"
	"github.com/iudanet/cardsync/pkg/api"
)

// countryCodes страна -> код страны для адресов
var countryCodes = map[string]string{
	"United States": "us",
}

func decodeAddresses(id string, addresses []api.StreetAddress) ([]models.StreetAddress, error) {
	out := make([]models.StreetAddress, 0, len(addresses))
	for _, a := range addresses {
		f := a.Field
		if f.SubLocality != nil && *f.SubLocality != "" {
			return nil, unsupported(id, "streetAddresses.subLocality")
		}
		if f.Country != nil {
			if _, ok := countryCodes[*f.Country]; !ok {
				return nil, invalid(id, "streetAddresses", "unsupported country: %s", *f.Country)
			}
		}
		// код страны выводится из страны, поэтому должен ей соответствовать
		if f.CountryCode != nil {
			if f.Country == nil {
				return nil, invalid(id, "streetAddresses", "country code %s without country", *f.CountryCode)
			}
			if code := countryCodes[*f.Country]; code != *f.CountryCode {
				return nil, invalid(id, "streetAddresses", "country code %s does not match %s", *f.CountryCode, *f.Country)
			}
		}
		addr := models.StreetAddress{
			Label:      a.Label,
			Country:    clone(f.Country),
			City:       clone(f.City),
			PostalCode: clone(f.PostalCode),
			State:      clone(f.State),
		}
		if f.Street != nil {
			addr.Street = strings.Split(*f.Street, "\n")
		}
		out = append(out, addr)
	}
	return out, nil
}

func encodeAddresses(id string, addresses []models.StreetAddress) ([]api.StreetAddress, error) {
	out := make([]api.StreetAddress, 0, len(addresses))
	for _, a := range addresses {
		field := api.StreetAddressField{
			City:       clone(a.City),
			PostalCode: clone(a.PostalCode),
			State:      clone(a.State),
		}
		if a.Country != nil {
			code, ok := countryCodes[*a.Country]
			if !ok {
				return nil, invalid(id, "street_addresses", "unsupported country: %s", *a.Country)
			}
			field.Country = clone(a.Country)
			field.CountryCode = &code
		}
		if len(a.Street) > 0 {
			street := strings.Join(a.Street, "\n")
			field.Street = &street
		}
		out = append(out, api.StreetAddress{Label: a.Label, Field: field})
	}
	return out, nil
}

func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}
