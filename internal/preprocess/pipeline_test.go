package preprocess

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// textImage renders text with basicfont onto a solid background.
func textImage(text string, fg, bg color.Color, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(2), Y: fixed.I(height - 3)},
	}
	d.DrawString(text)
	return img
}

func TestProcess_UpscalesShortImages(t *testing.T) {
	p := New()
	cases := []struct {
		name          string
		width, height int
	}{
		{"tiny", 10, 4},
		{"wide strip", 120, 16},
		{"just below", 45, 31},
		{"single row", 7, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := textImage("A1", color.Black, color.White, tc.width, tc.height)
			tr := p.Run(src)
			require.NotNil(t, tr)

			assert.Equal(t, DefaultMinHeight, tr.Scaled.Bounds().Dy())
			wantWidth := int(math.Round(float64(tc.width) * float64(DefaultMinHeight) / float64(tc.height)))
			assert.Equal(t, wantWidth, tr.Scaled.Bounds().Dx(), "aspect ratio")

			out := tr.Output.Bounds()
			assert.GreaterOrEqual(t, out.Dy(), DefaultMinHeight)
			assert.Equal(t, tr.Scaled.Bounds().Dx()+2*DefaultBorder, out.Dx())
			assert.Equal(t, tr.Scaled.Bounds().Dy()+2*DefaultBorder, out.Dy())
		})
	}
}

func TestProcess_KeepsTallImageSize(t *testing.T) {
	src := textImage("HELLO", color.Black, color.White, 60, 40)
	tr := New().Run(src)
	require.NotNil(t, tr)
	assert.Equal(t, image.Rect(0, 0, 60, 40), tr.Scaled.Bounds())
}

func TestProcess_Deterministic(t *testing.T) {
	p := New()
	src := textImage("12:30:05", color.RGBA{200, 180, 40, 255}, color.RGBA{30, 30, 60, 255}, 70, 18)

	first, ok := p.Process(src).(*image.Gray)
	require.True(t, ok)
	second, ok := p.Process(src).(*image.Gray)
	require.True(t, ok)

	assert.Equal(t, first.Rect, second.Rect)
	assert.Equal(t, first.Pix, second.Pix)
}

func TestProcess_InvertsLightTextOnDark(t *testing.T) {
	src := textImage("STAGE 3-4", color.White, color.Black, 80, 20)
	tr := New().Run(src)
	require.NotNil(t, tr)
	require.True(t, tr.Inverted, "light text on dark should be inverted")

	b := tr.Binary.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			before := tr.Binary.GrayAt(x, y).Y
			after := tr.Output.GrayAt(x+DefaultBorder, y+DefaultBorder).Y
			if before == after {
				t.Fatalf("pixel (%d,%d) not inverted: binary=%d output=%d", x, y, before, after)
			}
		}
	}
}

func TestProcess_KeepsDarkTextOnLight(t *testing.T) {
	src := textImage("STAGE 3-4", color.Black, color.White, 80, 20)
	tr := New().Run(src)
	require.NotNil(t, tr)
	assert.False(t, tr.Inverted)
	assert.Greater(t, whiteRatio(tr.Output), 0.5)
}

func TestProcess_BorderIsWhite(t *testing.T) {
	src := textImage("X", color.White, color.Black, 20, 40)
	out := New().Process(src).(*image.Gray)
	b := out.Bounds()
	for x := 0; x < b.Dx(); x++ {
		for y := 0; y < DefaultBorder; y++ {
			assert.Equal(t, uint8(255), out.GrayAt(x, y).Y)
			assert.Equal(t, uint8(255), out.GrayAt(x, b.Dy()-1-y).Y)
		}
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < DefaultBorder; x++ {
			assert.Equal(t, uint8(255), out.GrayAt(x, y).Y)
			assert.Equal(t, uint8(255), out.GrayAt(b.Dx()-1-x, y).Y)
		}
	}
}

func TestProcess_OutputIsBinary(t *testing.T) {
	src := textImage("Lv.120", color.RGBA{90, 90, 90, 255}, color.RGBA{140, 140, 140, 255}, 50, 14)
	out := New().Process(src).(*image.Gray)
	for _, v := range out.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("unexpected gray level %d in binarized output", v)
		}
	}
}

func TestProcess_DegenerateInput(t *testing.T) {
	p := New()

	assert.Nil(t, p.Process(nil))
	assert.Nil(t, p.Run(nil))

	empty := image.NewRGBA(image.Rect(0, 0, 0, 0))
	assert.Same(t, empty, p.Process(empty))

	flat := image.NewGray(image.Rect(0, 0, 10, 0))
	assert.Same(t, flat, p.Process(flat))

	var typedNil *image.RGBA
	assert.NotPanics(t, func() {
		out := p.Process(typedNil)
		assert.Equal(t, image.Image(typedNil), out)
	})
}

func TestProcess_NonZeroOrigin(t *testing.T) {
	src := textImage("42", color.Black, color.White, 40, 40)
	sub := src.SubImage(image.Rect(5, 10, 35, 30))
	tr := New().Run(sub)
	require.NotNil(t, tr)
	assert.Equal(t, image.Rect(0, 0, 30, 20), tr.Gray.Bounds())
}

func TestOtsuThreshold_Bimodal(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range gray.Pix {
		if i%2 == 0 {
			gray.Pix[i] = 40
		} else {
			gray.Pix[i] = 210
		}
	}
	th := OtsuThreshold(gray)
	assert.GreaterOrEqual(t, th, uint8(40))
	assert.Less(t, th, uint8(210))

	bin := Binarize(gray, th)
	for i, v := range bin.Pix {
		if i%2 == 0 {
			assert.Equal(t, uint8(0), v)
		} else {
			assert.Equal(t, uint8(255), v)
		}
	}
}

func TestOtsuThreshold_Uniform(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range gray.Pix {
		gray.Pix[i] = 128
	}
	assert.Equal(t, uint8(0), OtsuThreshold(gray))
}

func TestBinarize_SubImage(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range gray.Pix {
		gray.Pix[i] = 200
	}
	sub := gray.SubImage(image.Rect(2, 2, 6, 5)).(*image.Gray)
	bin := Binarize(sub, 100)
	assert.Equal(t, image.Rect(0, 0, 4, 3), bin.Bounds())
	for _, v := range bin.Pix {
		assert.Equal(t, uint8(255), v)
	}
}

func TestLetterColorIsolation(t *testing.T) {
	gold := color.RGBA{235, 200, 60, 255}
	// Glyph colour on a background that is brighter than the glyph in luminance.
	src := textImage("88", gold, color.RGBA{250, 250, 250, 255}, 30, 20)

	tr := New(WithLetterColor(gold, 0)).Run(src)
	require.NotNil(t, tr)
	assert.Equal(t, DefaultLetterTolerance, New(WithLetterColor(gold, 0)).Options().LetterTolerance)

	dark := 0
	for _, v := range tr.Gray.Pix {
		if v == 0 {
			dark++
		}
	}
	assert.Greater(t, dark, 0, "letter pixels should map to black")
	assert.False(t, tr.Inverted)
}

func TestOptions(t *testing.T) {
	p := New(WithMinHeight(48), WithBorder(0))
	src := textImage("7", color.Black, color.White, 12, 16)
	out := p.Process(src)
	assert.Equal(t, 48, out.Bounds().Dy())
	assert.Equal(t, 36, out.Bounds().Dx())

	p = New(WithMinHeight(-1), WithBorder(-3))
	assert.Equal(t, 0, p.Options().MinHeight)
	assert.Equal(t, 0, p.Options().Border)
}
