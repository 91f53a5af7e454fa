// Package detection locates lines of text in a screenshot so each line can be
// cropped and recognized on its own.
//
// # Algorithm Overview
//
//  1. Binarize: the image goes through the preprocess pipeline without
//     upscaling or padding, giving dark ink on a light background whatever
//     the original polarity.
//  2. Row profile: rows containing at least one ink pixel are grouped into
//     bands. Gaps of up to MaxGap blank rows are bridged so accents and
//     punctuation stay attached to their line.
//  3. Filtering: bands shorter than MinHeight are dropped as noise.
//  4. Extent: each band is trimmed horizontally to its ink and grown by
//     Margin pixels, clamped to the image.
//
// # Coordinate System
//
// Returned rectangles are in the coordinate space of the input image,
// ordered top to bottom. Bounding boxes use inclusive top-left and exclusive
// bottom-right.
//
// # Limitations
//
// Lines are found by horizontal projection, which assumes one column of
// horizontal text. Side-by-side labels on the same rows come back as a
// single line.
package detection
