package ocr

import (
	"fmt"
	"strings"
)

// Capability identifies the recognition engine backing every Facade.
type Capability int

const (
	// CapabilityNone means no engine was found. Recognition returns "".
	CapabilityNone Capability = iota

	// CapabilityPaddle is a PaddleOCR-json child process.
	CapabilityPaddle

	// CapabilityTesseract is libtesseract through the gosseract binding.
	CapabilityTesseract

	// CapabilityTesseractCLI is the tesseract executable driven over stdin.
	CapabilityTesseractCLI
)

var capabilityNames = map[Capability]string{
	CapabilityNone:         "none",
	CapabilityPaddle:       "paddle",
	CapabilityTesseract:    "tesseract",
	CapabilityTesseractCLI: "tesseract-cli",
}

func (c Capability) String() string {
	if name, ok := capabilityNames[c]; ok {
		return name
	}
	return fmt.Sprintf("capability(%d)", int(c))
}

// ParseCapability maps a name produced by Capability.String back to its value.
// Matching ignores case and surrounding whitespace.
func ParseCapability(name string) (Capability, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range capabilityNames {
		if n == name {
			return c, nil
		}
	}
	return CapabilityNone, fmt.Errorf("unknown engine capability %q", name)
}
