package payarc

import (
	"strings"
	"unicode"
)

// BillingAddress is the shape the tokens endpoint expects. StateCode is
// empty for any non-US country (gateway contract).
type BillingAddress struct {
	CountryCode string // ISO 3166-1 alpha-2
	City        string
	Address1    string
	Zip         string
	State       string
	StateCode   string
}

// Fallback address used when the merchant mapped no address fields.
// Tokenization still needs something the gateway will accept.
const (
	DefaultCountryCode = "IL"
	DefaultCity        = "Tel Aviv"
	DefaultAddress     = "Main St 1"
	DefaultZip         = "12345"
)

func DefaultBillingAddress() BillingAddress {
	return BillingAddress{
		CountryCode: DefaultCountryCode,
		City:        DefaultCity,
		Address1:    DefaultAddress,
		Zip:         DefaultZip,
	}
}

// AddressInput: raw, possibly Hebrew, possibly empty form values.
type AddressInput struct {
	Country string
	City    string
	Address string
	Zip     string
	State   string
}

// NormalizeBillingAddress maps free-text address input into the gateway
// schema. Empty input yields the full fallback address.
func NormalizeBillingAddress(in AddressInput) BillingAddress {
	if in == (AddressInput{}) {
		return DefaultBillingAddress()
	}

	country := NormalizeCountry(in.Country)

	addr := BillingAddress{
		CountryCode: country,
		City:        sanitizeField(in.City, DefaultCity),
		Address1:    sanitizeField(in.Address, DefaultAddress),
		Zip:         sanitizeField(in.Zip, DefaultZip),
		State:       sanitizeField(in.State, ""),
	}

	if country == "US" {
		addr.StateCode = stateCode(addr.State)
	}
	return addr
}

// NormalizeCountry resolves a country name (English or Hebrew) or a bare
// 2-letter code to ISO alpha-2. Anything unresolvable defaults to IL.
// The result is always exactly two uppercase ASCII letters.
func NormalizeCountry(raw string) string {
	return forceAlpha2(resolveCountry(raw))
}

func resolveCountry(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return DefaultCountryCode
	}

	if code, ok := countryNames[strings.ToLower(s)]; ok {
		return code
	}
	if code, ok := countryNames[s]; ok { // Hebrew keys are not lowercased
		return code
	}

	if len(s) == 2 && isASCIIAlpha(s) {
		return strings.ToUpper(s)
	}

	return DefaultCountryCode
}

func forceAlpha2(code string) string {
	if len(code) != 2 || !isASCIIAlpha(code) {
		return DefaultCountryCode
	}
	return strings.ToUpper(code)
}

// SanitizeText maps Hebrew place names to English, transliterates any
// remaining Hebrew letters and strips everything non-printable-ASCII.
func SanitizeText(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if mapped, ok := placeNames[s]; ok {
		s = mapped
	} else {
		s = transliterate(s)
	}

	var b strings.Builder
	for _, r := range s {
		if r >= 0x20 && r <= 0x7e {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// sanitizeField falls back to the field-specific default when the
// sanitized value is too short to be real data.
func sanitizeField(raw, fallback string) string {
	s := SanitizeText(raw)
	if len(s) < 2 {
		return fallback
	}
	return s
}

func stateCode(state string) string {
	s := strings.ToUpper(state)
	if len(s) < 2 {
		return ""
	}
	return s[:2]
}

func transliterate(s string) string {
	var b strings.Builder
	for _, r := range s {
		if t, ok := hebrewLetters[r]; ok {
			b.WriteString(t)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isASCIIAlpha(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
