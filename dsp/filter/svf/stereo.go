package svf

// Stereo is a helper that runs one filter state per channel.
type Stereo struct {
	left  *Filter
	right *Filter
}

// NewStereo constructs a stereo helper with independent left/right state.
func NewStereo(sampleRate float64, opts ...Option) (*Stereo, error) {
	left, err := New(sampleRate, opts...)
	if err != nil {
		return nil, err
	}

	right, err := New(sampleRate, opts...)
	if err != nil {
		return nil, err
	}

	return &Stereo{left: left, right: right}, nil
}

// Left returns the left-channel filter.
func (s *Stereo) Left() *Filter { return s.left }

// Right returns the right-channel filter.
func (s *Stereo) Right() *Filter { return s.right }

// Reset clears both channel states.
func (s *Stereo) Reset() {
	s.left.Reset()
	s.right.Reset()
}

// SetCutoffHz updates both channels.
func (s *Stereo) SetCutoffHz(cutoffHz float64) error {
	if err := s.left.SetCutoffHz(cutoffHz); err != nil {
		return err
	}

	return s.right.SetCutoffHz(cutoffHz)
}

// SetResonance updates both channels.
func (s *Stereo) SetResonance(resonance float64) error {
	if err := s.left.SetResonance(resonance); err != nil {
		return err
	}

	return s.right.SetResonance(resonance)
}

// ProcessSample processes one stereo sample frame.
func (s *Stereo) ProcessSample(leftIn, rightIn float64) (leftOut, rightOut Outputs) {
	return s.left.ProcessSample(leftIn), s.right.ProcessSample(rightIn)
}

// ProcessInPlace processes stereo planar buffers in place, keeping the
// selected response.
func (s *Stereo) ProcessInPlace(left, right []float64, out Output) {
	n := len(left)
	if n == 0 {
		return
	}

	_ = right[n-1]

	for i := range n {
		left[i] = s.left.ProcessSample(left[i]).Select(out)
		right[i] = s.right.ProcessSample(right[i]).Select(out)
	}
}

// ProcessFramesInPlace processes interleaved [left,right] frames in place.
func (s *Stereo) ProcessFramesInPlace(frames [][2]float64, out Output) {
	for i := range frames {
		frames[i][0] = s.left.ProcessSample(frames[i][0]).Select(out)
		frames[i][1] = s.right.ProcessSample(frames[i][1]).Select(out)
	}
}
