package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/kuramoto/internal/oscillator"
)

const groupGlyphs = "0123456789abcdefghijklmnopqrstuvwxyz"

// GroupGlyph is the character used for a label in text plots; labels past
// the glyph table share '*'.
func GroupGlyph(g int) rune {
	if g >= 0 && g < len(groupGlyphs) {
		return rune(groupGlyphs[g])
	}
	return '*'
}

// GlyphGroup inverts GroupGlyph. It returns -1 for runes that are not a
// group glyph, including the shared '*'.
func GlyphGroup(ch rune) int {
	return strings.IndexRune(groupGlyphs, ch)
}

// CircleASCII draws every oscillator on the unit circle at its phase, marked
// with its group glyph, plus the mean-field vector r·e^{iψ} as '+' marks.
// Height is in rows; columns are doubled to look round in a terminal.
func CircleASCII(pop oscillator.Population, height int) string {
	if height < 5 {
		height = 5
	}
	width := 2*height + 1

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	plot := func(x, y float64, ch rune) {
		col := int(math.Round((x + 1) / 2 * float64(width-1)))
		row := int(math.Round((1 - y) / 2 * float64(height-1)))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = ch
		}
	}

	for k := 0; k < 64; k++ {
		s, c := math.Sincos(2 * math.Pi * float64(k) / 64)
		plot(c, s, '·')
	}

	r, psi := OrderParameter(pop.Phases())
	s, c := math.Sincos(psi)
	for f := 0.25; f <= 1; f += 0.25 {
		plot(f*r*c, f*r*s, '+')
	}

	for _, o := range pop {
		if math.IsNaN(o.Phase) || math.IsInf(o.Phase, 0) {
			continue
		}
		s, c := math.Sincos(o.Phase)
		plot(c, s, GroupGlyph(o.Group))
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteRune('\n')
	}
	return sb.String()
}
