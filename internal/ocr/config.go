package ocr

import (
	"strconv"
	"strings"
)

const (
	// DefaultPageSegMode treats the image as a single text line.
	DefaultPageSegMode = 7

	// DefaultEngineMode lets the engine pick its recognizer.
	DefaultEngineMode = 3

	// SingleLinePageSegMode is forced by the single-line operations.
	SingleLinePageSegMode = 7

	whitelistVar = "tessedit_char_whitelist"
)

// EngineConfig carries the engine settings for one recognition call.
// It is a value type; copies never share state.
type EngineConfig struct {
	PageSegMode int
	EngineMode  int

	// Alphabet restricts the recognized characters. Empty means unrestricted.
	Alphabet string
}

// BuildConfig assembles an EngineConfig. It is pure.
func BuildConfig(psm, oem int, alphabet string) EngineConfig {
	return EngineConfig{PageSegMode: psm, EngineMode: oem, Alphabet: alphabet}
}

// WithAlphabet returns a copy of c with the alphabet replaced.
func (c EngineConfig) WithAlphabet(alphabet string) EngineConfig {
	c.Alphabet = alphabet
	return c
}

// WithPageSegMode returns a copy of c with the page segmentation mode replaced.
func (c EngineConfig) WithPageSegMode(psm int) EngineConfig {
	c.PageSegMode = psm
	return c
}

// String renders the config in tesseract command-line form:
//
//	--psm 7 --oem 3 -c tessedit_char_whitelist=0123456789\-
//
// '-' in the alphabet is escaped as '\-'. Equal configs render identically.
func (c EngineConfig) String() string {
	var sb strings.Builder
	sb.WriteString("--psm ")
	sb.WriteString(strconv.Itoa(c.PageSegMode))
	sb.WriteString(" --oem ")
	sb.WriteString(strconv.Itoa(c.EngineMode))
	if c.Alphabet != "" {
		sb.WriteString(" -c ")
		sb.WriteString(whitelistVar)
		sb.WriteByte('=')
		sb.WriteString(strings.ReplaceAll(c.Alphabet, "-", `\-`))
	}
	return sb.String()
}

// Args returns the same settings as an argv slice. No shell is involved,
// so the alphabet is passed through unescaped.
func (c EngineConfig) Args() []string {
	args := []string{
		"--psm", strconv.Itoa(c.PageSegMode),
		"--oem", strconv.Itoa(c.EngineMode),
	}
	if c.Alphabet != "" {
		args = append(args, "-c", whitelistVar+"="+c.Alphabet)
	}
	return args
}
