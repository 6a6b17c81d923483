package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale is a supported display language code.
type Locale string

const (
	// LocaleEN is English, the default locale.
	LocaleEN Locale = "en"
	// LocaleAR is Arabic, rendered right-to-left.
	LocaleAR Locale = "ar"
)

// DefaultLocale is used whenever input falls outside the supported set.
const DefaultLocale = LocaleEN

// Supported returns the fixed set of supported locales.
func Supported() []Locale {
	return []Locale{LocaleEN, LocaleAR}
}

// Parse coerces arbitrary input to a supported locale. Unknown or empty
// input silently becomes the default.
func Parse(s string) Locale {
	switch Locale(strings.ToLower(strings.TrimSpace(s))) {
	case LocaleAR:
		return LocaleAR
	case LocaleEN:
		return LocaleEN
	default:
		return DefaultLocale
	}
}

// IsRTL reports whether the locale renders right-to-left.
func (l Locale) IsRTL() bool {
	return l == LocaleAR
}

// Direction returns the HTML dir attribute value for the locale.
func (l Locale) Direction() string {
	if l.IsRTL() {
		return "rtl"
	}
	return "ltr"
}

// DisplayName returns the locale's self-describing name.
func (l Locale) DisplayName() string {
	if l == LocaleAR {
		return "العربية"
	}
	return "English"
}

// Tag returns the BCP 47 tag for the locale.
func (l Locale) Tag() language.Tag {
	if l == LocaleAR {
		return language.Arabic
	}
	return language.English
}

var matcher = language.NewMatcher([]language.Tag{
	language.English, // first tag is the fallback
	language.Arabic,
})

// MatchAcceptLanguage resolves an Accept-Language header value to a
// supported locale by primary subtag ("ar-EG" matches ar). Unparseable or
// empty headers resolve to the default.
func MatchAcceptLanguage(header string) Locale {
	if strings.TrimSpace(header) == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, _ := matcher.Match(tags...)
	if index == 1 {
		return LocaleAR
	}
	return LocaleEN
}
