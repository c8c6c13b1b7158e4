package protocol

// Approximate RGB values for the Novation MK3 palette entries this
// package emits. Only used by the terminal monitor; the hardware
// interprets the raw palette index itself.
var paletteRGB = map[byte][3]uint8{
	0:   {0, 0, 0},
	8:   {180, 80, 40},
	9:   {255, 100, 0},
	28:  {0, 100, 0},
	35:  {0, 100, 255},
	40:  {40, 60, 120},
	44:  {60, 60, 200},
	45:  {0, 100, 255},
	47:  {80, 80, 255},
	63:  {255, 200, 80},
	67:  {0, 80, 255},
	79:  {0, 200, 120},
	81:  {150, 0, 200},
	90:  {100, 255, 100},
	94:  {80, 120, 255},
	95:  {200, 120, 255},
	104: {255, 120, 80},
	105: {255, 80, 40},
	120: {255, 0, 0},
	123: {255, 200, 0},
	126: {200, 140, 40},
}

// ColorRGB returns a displayable approximation of a device palette
// index. Unknown entries render mid-gray.
func ColorRGB(index byte) [3]uint8 {
	if rgb, ok := paletteRGB[index]; ok {
		return rgb
	}
	return [3]uint8{128, 128, 128}
}
