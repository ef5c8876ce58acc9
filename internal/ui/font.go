package ui

import (
	"bytes"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/hailam/simplechess/internal/obslog"
)

const lineSpacing = 1.3

var fonts struct {
	once                 sync.Once
	regular, bold, title *text.GoTextFace
}

// loadFonts parses the Go fonts on first use, after logging is set up.
func loadFonts() {
	fonts.once.Do(func() {
		source := func(name string, ttf []byte) *text.GoTextFaceSource {
			s, err := text.NewGoTextFaceSource(bytes.NewReader(ttf))
			if err != nil {
				obslog.L().Error("font_load_failed", zap.String("font", name), zap.Error(err))
			}
			return s
		}
		if s := source("goregular", goregular.TTF); s != nil {
			fonts.regular = &text.GoTextFace{Source: s, Size: 14}
		}
		if s := source("gobold", gobold.TTF); s != nil {
			fonts.bold = &text.GoTextFace{Source: s, Size: 16}
			fonts.title = &text.GoTextFace{Source: s, Size: 36}
		}
	})
}

// GetRegularFace returns the body text face, or nil if it failed to load.
func GetRegularFace() *text.GoTextFace {
	loadFonts()
	return fonts.regular
}

// GetBoldFace returns the bold face used for labels and turn text.
func GetBoldFace() *text.GoTextFace {
	loadFonts()
	return fonts.bold
}

// GetTitleFace returns the large face used for the title and results.
func GetTitleFace() *text.GoTextFace {
	loadFonts()
	return fonts.title
}

// MeasureText returns the size of s, including every line of a
// multi-line string.
func MeasureText(s string, face *text.GoTextFace) (width, height float64) {
	if face == nil {
		return 0, 0
	}
	return text.Measure(s, face, face.Size*lineSpacing)
}

// drawText draws s with its top-left corner at x, y.
func drawText(dst *ebiten.Image, s string, face *text.GoTextFace, x, y float64, c color.Color) {
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.LineSpacing = face.Size * lineSpacing
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, face, op)
}

func drawTextCentered(dst *ebiten.Image, s string, face *text.GoTextFace, cx, cy float64, c color.Color) {
	w, h := MeasureText(s, face)
	drawText(dst, s, face, cx-w/2, cy-h/2, c)
}
