package apu

var (
	pulseMix [31]float32
	tndMix   [203]float32
)

func init() {
	for i := 1; i < len(pulseMix); i++ {
		pulseMix[i] = float32(95.52 / (8128.0/float64(i) + 100))
	}
	for i := 1; i < len(tndMix); i++ {
		tndMix[i] = float32(163.67 / (24329.0/float64(i) + 100))
	}
}

// mix combines the channels with the non-linear DAC approximation.
// The result is in [0, 1).
func (a *APU) mix() float32 {
	p := a.pulse1.output() + a.pulse2.output()
	tnd := 3*int(a.triangle.output()) + 2*int(a.noise.output()) + int(a.dmc.level)
	return pulseMix[p] + tndMix[tnd]
}

// highPass removes the DC offset and maps the mixer output to [-1, 1].
type highPass struct {
	prevIn, prevOut float32
}

func (h *highPass) apply(in float32) float32 {
	const alpha = 0.996
	out := alpha * (h.prevOut + in - h.prevIn)
	h.prevIn, h.prevOut = in, out
	return max(-1, min(1, out*2))
}
