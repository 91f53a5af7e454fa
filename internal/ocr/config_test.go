package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineConfig_String(t *testing.T) {
	tests := []struct {
		name string
		cfg  EngineConfig
		want string
	}{
		{"defaults", BuildConfig(DefaultPageSegMode, DefaultEngineMode, ""), "--psm 7 --oem 3"},
		{"digits", BuildConfig(7, 3, "0123456789"), "--psm 7 --oem 3 -c tessedit_char_whitelist=0123456789"},
		{"dash escaped", BuildConfig(6, 1, "0-9"), `--psm 6 --oem 1 -c tessedit_char_whitelist=0\-9`},
		{"duration", BuildConfig(7, 3, "0123456789:IDSB"), "--psm 7 --oem 3 -c tessedit_char_whitelist=0123456789:IDSB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.String())
		})
	}
}

func TestEngineConfig_Deterministic(t *testing.T) {
	a := BuildConfig(7, 3, "ABC-/")
	b := BuildConfig(7, 3, "ABC-/")
	assert.Equal(t, a, b)
	assert.Equal(t, a.String(), b.String())
}

func TestEngineConfig_Args(t *testing.T) {
	assert.Equal(t, []string{"--psm", "7", "--oem", "3"}, BuildConfig(7, 3, "").Args())
	assert.Equal(t,
		[]string{"--psm", "7", "--oem", "3", "-c", "tessedit_char_whitelist=0-9"},
		BuildConfig(7, 3, "0-9").Args())
}

func TestEngineConfig_WithCopies(t *testing.T) {
	base := BuildConfig(3, 3, "AB")
	narrowed := base.WithAlphabet("12").WithPageSegMode(7)

	assert.Equal(t, "AB", base.Alphabet)
	assert.Equal(t, 3, base.PageSegMode)
	assert.Equal(t, "12", narrowed.Alphabet)
	assert.Equal(t, 7, narrowed.PageSegMode)
}

func TestLocaleFor(t *testing.T) {
	tests := map[string]string{
		"azur_lane":    "eng",
		"azur_lane_jp": "jpn+eng",
		"cnocr":        "chi_sim+eng",
		"jp":           "jpn",
		"tw":           "chi_tra+eng",
		"unknown":      "eng",
		"":             "eng",
	}
	for name, want := range tests {
		assert.Equal(t, want, LocaleFor(name), name)
	}
}

func TestCapability_Names(t *testing.T) {
	for _, c := range []Capability{CapabilityNone, CapabilityPaddle, CapabilityTesseract, CapabilityTesseractCLI} {
		parsed, err := ParseCapability(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	c, err := ParseCapability("  Tesseract-CLI ")
	require.NoError(t, err)
	assert.Equal(t, CapabilityTesseractCLI, c)

	_, err = ParseCapability("easyocr")
	assert.Error(t, err)

	assert.Equal(t, "capability(42)", Capability(42).String())
}

func TestChars(t *testing.T) {
	assert.Equal(t, []rune{}, Chars(""))
	assert.NotNil(t, Chars(""))
	assert.Equal(t, []rune{'1', '2', ':', '3'}, Chars("12:3"))
	assert.Equal(t, []rune{'日', '本'}, Chars("日本"))

	lists := CharLists([]string{"ab", "", "c"})
	require.Len(t, lists, 3)
	assert.Equal(t, []rune{'a', 'b'}, lists[0])
	assert.Equal(t, []rune{}, lists[1])
	assert.Equal(t, []rune{'c'}, lists[2])
	assert.Equal(t, [][]rune{}, CharLists(nil))
}

func TestCleanText(t *testing.T) {
	tests := map[string]string{
		"":                 "",
		"  hello  ":        "hello",
		"12:30\n\f":        "12:30",
		"line1\nline2":     "line1 line2",
		"a\r\nb":           "a  b",
		"\fform\ffeed\f":   "formfeed",
		"\n\n  spaced \n ": "spaced",
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanText(in), "%q", in)
	}
}

func TestFilterAlphabet(t *testing.T) {
	assert.Equal(t, "12 30", filterAlphabet("12x 30!", "0123456789"))
	assert.Equal(t, "anything", filterAlphabet("anything", ""))
}
