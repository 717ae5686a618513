package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Deinterleave splits frames of channels interleaved samples into planar
// buffers. Each planar buffer is resized with EnsureLen.
func Deinterleave(planar [][]float64, interleaved []float64) [][]float64 {
	channels := len(planar)
	if channels == 0 {
		return planar
	}

	frames := len(interleaved) / channels
	for ch := range planar {
		planar[ch] = EnsureLen(planar[ch], frames)
	}

	for i := range frames {
		for ch := range planar {
			planar[ch][i] = interleaved[i*channels+ch]
		}
	}

	return planar
}

// Interleave writes planar buffers into dst as interleaved frames and returns
// the number of frames written.
func Interleave(dst []float64, planar [][]float64) int {
	channels := len(planar)
	if channels == 0 {
		return 0
	}

	frames := len(dst) / channels
	for _, ch := range planar {
		frames = min(frames, len(ch))
	}

	for i := range frames {
		for ch, buf := range planar {
			dst[i*channels+ch] = buf[i]
		}
	}

	return frames
}
