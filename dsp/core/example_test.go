package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-vafilter/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg, err := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithBlockSize(256),
	)
	if err != nil {
		panic(err)
	}

	fmt.Printf("sampleRate=%.0f blockSize=%d bits=%d blocks=%d\n",
		cfg.SampleRate, cfg.BlockSize, cfg.BitDepth, cfg.Blocks(44100))

	// Output:
	// sampleRate=44100 blockSize=256 bits=24 blocks=173
}

func ExampleQuantizer() {
	q, err := core.NewQuantizer(16, false, 0)
	if err != nil {
		panic(err)
	}

	pcm := make([]int, 3)
	q.QuantizeTo(pcm, []float64{-1, 0, 0.5})
	fmt.Println(pcm)

	// Output:
	// [-32767 0 16384]
}
