package textparse

import (
	"image"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// DurationAlphabet restricts recognition of timers such as 01:30:00.
	DurationAlphabet = "0123456789:IDSB"

	// DigitAlphabet restricts recognition of plain numbers.
	DigitAlphabet = "0123456789IDSB"

	// CounterAlphabet restricts recognition of counters such as 12/30.
	CounterAlphabet = "0123456789/IDSB"
)

// Recognizer reads text from an image restricted to an alphabet for that call
// only. *ocr.Facade satisfies it.
type Recognizer interface {
	AtomicOCR(img image.Image, alphabet string) string
}

var (
	letterFix     = strings.NewReplacer("I", "1", "D", "0", "S", "5", "B", "8")
	durationRegex = regexp.MustCompile(`(\d{1,2}):?(\d{2}):?(\d{2})`)
	counterRegex  = regexp.MustCompile(`(\d+)/(\d+)`)
)

// Logger receives warnings about unparsable text.
var Logger hclog.Logger = hclog.L().Named("textparse")

// FixLetters replaces letters commonly misread for digits.
func FixLetters(s string) string {
	return letterFix.Replace(s)
}

// ParseDuration parses H:MM:SS, HH:MM:SS or the same digits without colons.
func ParseDuration(s string) (time.Duration, bool) {
	m := durationRegex.FindStringSubmatch(FixLetters(s))
	if m == nil {
		Logger.Warn("invalid duration", "text", s)
		return 0, false
	}
	hours, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	secs, _ := strconv.Atoi(m[3])
	return time.Duration(hours)*time.Hour + time.Duration(mins)*time.Minute + time.Duration(secs)*time.Second, true
}

// ReadDuration recognizes a timer in img.
func ReadDuration(r Recognizer, img image.Image) (time.Duration, bool) {
	return ParseDuration(r.AtomicOCR(img, DurationAlphabet))
}

// ParseDigit keeps the digits of s and returns their value. Text with no
// digits is 0 and false.
func ParseDigit(s string) (int, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, FixLetters(s))
	if digits == "" {
		Logger.Warn("invalid digit", "text", s)
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		Logger.Warn("invalid digit", "text", s, "error", err)
		return 0, false
	}
	return n, true
}

// ReadDigit recognizes a number in img.
func ReadDigit(r Recognizer, img image.Image) (int, bool) {
	return ParseDigit(r.AtomicOCR(img, DigitAlphabet))
}

// ParseCounter parses "current/total", e.g. "12/30".
func ParseCounter(s string) (current, total int, ok bool) {
	m := counterRegex.FindStringSubmatch(strings.ReplaceAll(FixLetters(s), " ", ""))
	if m == nil {
		Logger.Warn("invalid counter", "text", s)
		return 0, 0, false
	}
	current, err1 := strconv.Atoi(m[1])
	total, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		Logger.Warn("invalid counter", "text", s)
		return 0, 0, false
	}
	return current, total, true
}

// ReadCounter recognizes a counter in img.
func ReadCounter(r Recognizer, img image.Image) (current, total int, ok bool) {
	return ParseCounter(r.AtomicOCR(img, CounterAlphabet))
}
