package ocr

// Chars splits text into its characters. It never returns nil.
func Chars(text string) []rune {
	out := []rune(text)
	if out == nil {
		out = []rune{}
	}
	return out
}

// CharLists applies Chars to every text, preserving order.
func CharLists(texts []string) [][]rune {
	out := make([][]rune, len(texts))
	for i, t := range texts {
		out[i] = Chars(t)
	}
	return out
}
