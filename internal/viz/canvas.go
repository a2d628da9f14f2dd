package viz

import (
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Mask previews a dissolve on a Braille canvas. Each sub-pixel carries a
// fixed noise threshold and stays lit while the amount is below it.
type Mask struct {
	Width, Height int
	Grid          [][]rune
}

func NewMask(w, h int) *Mask {
	m := &Mask{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range m.Grid {
		m.Grid[i] = make([]rune, w)
	}
	m.Clear()
	return m
}

// Set lights the sub-pixel at (x, y). The canvas is (Width*2) x (Height*4)
// sub-pixels.
func (m *Mask) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= m.Width || row >= m.Height {
		return
	}

	m.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (m *Mask) Clear() {
	for i := range m.Grid {
		for j := range m.Grid[i] {
			m.Grid[i][j] = blank
		}
	}
}

// Render redraws the mask for amount in [0,1]: 0 is fully solid, 1 fully
// dissolved.
func (m *Mask) Render(amount float64) {
	m.Clear()
	for y := 0; y < m.Height*4; y++ {
		for x := 0; x < m.Width*2; x++ {
			if noise(x, y) >= amount {
				m.Set(x, y)
			}
		}
	}
}

// Lit counts lit sub-pixels.
func (m *Mask) Lit() int {
	n := 0
	for _, row := range m.Grid {
		for _, r := range row {
			bits := int(r - blank)
			for bits != 0 {
				n += bits & 1
				bits >>= 1
			}
		}
	}
	return n
}

func (m *Mask) String() string {
	var b strings.Builder
	for _, row := range m.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// noise hashes a sub-pixel coordinate to [0,1).
func noise(x, y int) float64 {
	h := uint32(x)*374761393 + uint32(y)*668265263
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	return float64(h) / (1 << 32)
}
