package core

import (
	"fmt"
	"math"
)

// ProcessorConfig defines the block processing settings of offline renders.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
	BitDepth   int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig) error

// DefaultProcessorConfig returns 48 kHz, 512-sample blocks and 24-bit output.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 48000,
		BlockSize:  512,
		BitDepth:   24,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) error {
		if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
			return fmt.Errorf("core: sample rate must be > 0 and finite: %v", sampleRate)
		}

		cfg.SampleRate = sampleRate

		return nil
	}
}

// WithBlockSize sets the processing block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) error {
		if blockSize <= 0 {
			return fmt.Errorf("core: block size must be > 0: %d", blockSize)
		}

		cfg.BlockSize = blockSize

		return nil
	}
}

// WithBitDepth sets the PCM output bit depth (16, 24 or 32).
func WithBitDepth(bits int) ProcessorOption {
	return func(cfg *ProcessorConfig) error {
		if bits != 16 && bits != 24 && bits != 32 {
			return fmt.Errorf("core: bit depth must be one of {16,24,32}: %d", bits)
		}

		cfg.BitDepth = bits

		return nil
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) (ProcessorConfig, error) {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return ProcessorConfig{}, err
		}
	}

	return cfg, nil
}

// Blocks returns the number of blocks needed to cover n samples.
func (c ProcessorConfig) Blocks(n int) int {
	if n <= 0 {
		return 0
	}

	return (n + c.BlockSize - 1) / c.BlockSize
}
