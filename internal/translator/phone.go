package translator

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/iudanet/cardsync/internal/models"
	"github.com/iudanet/cardsync/pkg/api"
)

var phonePattern = regexp.MustCompile(`^\+\d+$`)

// CountryCodes поддерживаемые телефонные коды стран
var CountryCodes = []int{
	1,   // NANP
	353, // Ireland
	44,  // United Kingdom
	55,  // Brazil
	56,  // Chile
	852, // Hong Kong
	86,  // China
	886, // Taiwan
}

// countryCodePrefixes коды в порядке проверки: более длинные раньше,
// чтобы код никогда не проверялся после своего числового префикса
var countryCodePrefixes = func() []string {
	out := make([]string, len(CountryCodes))
	for i, c := range CountryCodes {
		out[i] = strconv.Itoa(c)
	}
	slices.SortStableFunc(out, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	return out
}()

// DecodePhone разбирает "+<код><номер>" в код страны и номер
func DecodePhone(field string) (int, string, bool) {
	if !phonePattern.MatchString(field) {
		return 0, "", false
	}
	digits := field[1:]
	for _, prefix := range countryCodePrefixes {
		if !strings.HasPrefix(digits, prefix) || len(digits) == len(prefix) {
			continue
		}
		code, _ := strconv.Atoi(prefix)
		return code, digits[len(prefix):], true
	}
	return 0, "", false
}

// EncodePhone собирает строку телефона
func EncodePhone(countryCode int, number string) string {
	return "+" + strconv.Itoa(countryCode) + number
}

func isSupportedCountryCode(code int) bool {
	return slices.Contains(CountryCodes, code)
}

func decodePhones(id string, phones []api.Phone) ([]models.PhoneNumber, error) {
	out := make([]models.PhoneNumber, 0, len(phones))
	for _, p := range phones {
		if !phonePattern.MatchString(p.Field) {
			return nil, invalid(id, "phones", "invalid phone number format: %s", p.Field)
		}
		code, number, ok := DecodePhone(p.Field)
		if !ok {
			return nil, invalid(id, "phones", "unsupported country code: %s", p.Field)
		}
		out = append(out, models.PhoneNumber{
			Label:       clone(p.Label),
			Number:      number,
			CountryCode: code,
		})
	}
	return out, nil
}

func encodePhones(id string, phones []models.PhoneNumber) ([]api.Phone, error) {
	out := make([]api.Phone, 0, len(phones))
	for _, p := range phones {
		if !isSupportedCountryCode(p.CountryCode) {
			return nil, invalid(id, "phone_numbers", "unsupported country code: %d", p.CountryCode)
		}
		field := EncodePhone(p.CountryCode, p.Number)
		if !phonePattern.MatchString(field) {
			return nil, invalid(id, "phone_numbers", "invalid phone number: %s", p.Number)
		}
		out = append(out, api.Phone{Label: clone(p.Label), Field: field})
	}
	return out, nil
}
