// Package preprocess prepares small cropped UI text images for classical OCR engines.
//
// Tesseract-style engines are calibrated for dark glyphs on a light page and
// lose accuracy quickly on short, low-contrast crops. The Pipeline normalizes
// every crop into that shape before it reaches the engine.
//
// # Stages
//
//  1. Grayscale: color input is reduced to luminance with color.GrayModel.
//     When a letter color is configured, the luminance is replaced by the
//     perceptual distance to that color so only the glyph hue survives.
//  2. Upscale: crops shorter than MinHeight (32 px by default) are resized to
//     exactly MinHeight with Catmull-Rom interpolation, keeping aspect ratio.
//  3. Binarize: a global threshold is chosen with Otsu's method over the
//     256-bin histogram and pixels strictly above it become white.
//  4. Polarity: when fewer than half the pixels are white the crop is taken
//     to be light text on a dark background and is inverted.
//  5. Pad: a white border (5 px by default) is added on every side, since
//     engines often drop glyphs that touch the image edge.
//
// # Determinism
//
// Every stage is a pure function of its input. Running the pipeline twice on
// the same image yields pixel-identical output.
//
// # Degenerate Input
//
// A nil image or an image with zero width or height is returned unchanged.
// Callers are expected to apply their own guard afterwards.
package preprocess
