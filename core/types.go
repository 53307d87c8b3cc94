package core

type Color struct {
	R, G, B, A float32
}

var ColorFire = Color{1.0, 0.55, 0.1, 0.8}

// RGBA returns the colour as a packed quadruple in upload order.
func (c Color) RGBA() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// ColorFromRGBA is the inverse of RGBA.
func ColorFromRGBA(v [4]float32) Color {
	return Color{R: v[0], G: v[1], B: v[2], A: v[3]}
}
