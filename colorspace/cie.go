package colorspace

// cieWavelengths, cieX, cieY and cieZ hold the CIE 1931 standard observer color matching
// functions, sampled every 20nm from 380nm to 780nm. A finer table
// would integrate more accurately, but 20nm steps plus linear
// interpolation keep the render loop's per-bin cost low while staying
// well within the noise floor of path-traced images.
var cieWavelengths = []float32{
	380, 400, 420, 440, 460, 480, 500, 520, 540, 560,
	580, 600, 620, 640, 660, 680, 700, 720, 740, 760, 780,
}

var cieX = []float32{
	0.0014, 0.0143, 0.1344, 0.3483, 0.2908, 0.0956, 0.0049, 0.0633, 0.2904, 0.5945,
	0.9163, 1.0622, 0.8544, 0.4479, 0.1649, 0.0468, 0.0114, 0.0029, 0.0007, 0.0002, 0.0000,
}

var cieY = []float32{
	0.0000, 0.0004, 0.0040, 0.0230, 0.0600, 0.1390, 0.3230, 0.7100, 0.9540, 0.9950,
	0.8700, 0.6310, 0.3810, 0.1750, 0.0610, 0.0170, 0.0041, 0.0010, 0.0002, 0.0001, 0.0000,
}

var cieZ = []float32{
	0.0065, 0.0679, 0.6456, 1.7826, 1.6692, 0.8130, 0.2720, 0.0782, 0.0203, 0.0039,
	0.0017, 0.0008, 0.0002, 0.0000, 0.0000, 0.0000, 0.0000, 0.0000, 0.0000, 0.0000, 0.0000,
}

// cieMatch interpolates (xbar, ybar, zbar) at wavelength, clamping to
// the table's ends outside [380, 780].
func cieMatch(wavelength float32) (x, y, z float32) {
	if wavelength <= cieWavelengths[0] {
		return cieX[0], cieY[0], cieZ[0]
	}
	last := len(cieWavelengths) - 1
	if wavelength >= cieWavelengths[last] {
		return cieX[last], cieY[last], cieZ[last]
	}

	for i := 0; i < last; i++ {
		if wavelength >= cieWavelengths[i] && wavelength <= cieWavelengths[i+1] {
			t := (wavelength - cieWavelengths[i]) / (cieWavelengths[i+1] - cieWavelengths[i])
			lerp := func(a, b float32) float32 { return a + (b-a)*t }
			return lerp(cieX[i], cieX[i+1]), lerp(cieY[i], cieY[i+1]), lerp(cieZ[i], cieZ[i+1])
		}
	}
	return cieX[last], cieY[last], cieZ[last]
}

// cieYIntegral is the integral of ybar over the table's range, used to
// normalize an integrated spectrum back to luminance units.
var cieYIntegral = func() float32 {
	sum := float32(0)
	for i := 0; i < len(cieWavelengths)-1; i++ {
		width := cieWavelengths[i+1] - cieWavelengths[i]
		sum += width * (cieY[i] + cieY[i+1]) / 2
	}
	return sum
}()
