package main

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// signalNames lists the generated test signals.
var signalNames = []string{"impulse", "sweep", "saw", "noise"}

// generate returns n samples of the named test signal at amplitude amp.
func generate(name string, sampleRate, amp float64, n int) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative signal length: %d", n)
	}

	out := make([]float64, n)
	if n == 0 {
		return out, nil
	}

	switch name {
	case "impulse":
		out[0] = amp
	case "sweep":
		const f0, f1 = 20.0, 20000.0

		f1eff := math.Min(f1, 0.45*sampleRate)
		duration := float64(n) / sampleRate
		rate := math.Log(f1eff/f0) / duration
		scale := 2 * math.Pi * f0 / rate

		for i := range out {
			t := float64(i) / sampleRate
			out[i] = amp * math.Sin(scale*(math.Exp(rate*t)-1))
		}
	case "saw":
		const freq = 110.0

		phase := 0.0
		inc := freq / sampleRate
		for i := range out {
			out[i] = amp * (2*phase - 1)
			phase += inc
			if phase >= 1 {
				phase--
			}
		}
	case "noise":
		rng := rand.New(rand.NewPCG(1, 2))
		for i := range out {
			out[i] = amp * (rng.Float64()*2 - 1)
		}
	default:
		return nil, fmt.Errorf("unknown signal %q (one of %v)", name, signalNames)
	}

	return out, nil
}
