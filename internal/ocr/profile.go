package ocr

// DefaultLocale is used for profile names without a mapping.
const DefaultLocale = "eng"

var profileLocales = map[string]string{
	"azur_lane":    "eng",
	"azur_lane_jp": "jpn+eng",
	"cnocr":        "chi_sim+eng",
	"jp":           "jpn",
	"tw":           "chi_tra+eng",
}

// LanguageProfile is a named recognition setup.
type LanguageProfile struct {
	Name string

	// Locale is a '+'-joined list of engine language codes, e.g. "jpn+eng".
	Locale string

	// Alphabet is the persistent character restriction. Empty means none.
	Alphabet string
}

// LocaleFor returns the locale for a profile name, falling back to DefaultLocale.
func LocaleFor(name string) string {
	if locale, ok := profileLocales[name]; ok {
		return locale
	}
	return DefaultLocale
}

// NewProfile returns an unrestricted profile for name.
func NewProfile(name string) LanguageProfile {
	return LanguageProfile{Name: name, Locale: LocaleFor(name)}
}
