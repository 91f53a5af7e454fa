// Package textparse turns recognized UI text into typed values.
//
// Game counters and timers are read with a narrow alphabet that still lets
// the engine emit the letters it most often confuses with digits (I, D, S, B).
// The parsers map those back (I→1, D→0, S→5, B→8) before interpreting the
// text. Unparsable input yields a zero value and false rather than an error.
package textparse
