// Package ocr recognizes text in small cropped images through whichever
// engine is installed.
//
// Callers ask a Registry for a Facade by profile name and call its
// recognition methods. They never see the engine. When no engine is
// installed every call returns "" and a single warning is logged.
//
// # Engines
//
// A Probe tries the candidate engines in priority order the first time it is
// needed and keeps the first one that opens:
//
//   - paddle: a PaddleOCR-json child process (general multi-language reader)
//   - tesseract: libtesseract through gosseract, only in builds tagged "tesseract"
//   - tesseract-cli: the tesseract executable, fed PNG data over stdin
//
// Installing tesseract:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-jpn tesseract-ocr-chi-sim
//   - macOS: brew install tesseract tesseract-lang
//
// # Profiles
//
// Profile names map to engine locales:
//
//   - "azur_lane" - eng
//   - "azur_lane_jp" - jpn+eng
//   - "cnocr" - chi_sim+eng
//   - "jp" - jpn
//   - "tw" - chi_tra+eng
//
// Any other name uses eng. The Registry returns the same Facade for the same
// name for its whole lifetime.
//
// # Character Restriction
//
// SetCandAlphabet changes a profile's persistent alphabet. The Atomic*
// methods restrict the alphabet for a single call without touching the
// profile: the narrowed EngineConfig is built locally and handed to the
// engine, so concurrent callers of the same profile never observe it.
//
// # Preprocessing
//
// Engines that report Preprocess() == true receive the output of
// preprocess.Pipeline: grayscale, upscaled to at least 32 px, Otsu-binarized,
// dark text on light background, padded with a white border.
//
// # Error Handling
//
// Facade methods never return errors or panic. Engine failures, panics and
// invalid images (nil, typed nil, zero area) are logged at Warn with the
// profile, engine and error, and the affected text is "".
package ocr
