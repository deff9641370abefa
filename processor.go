package pixconv

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Processor options
type Processor struct {
	// Effects are applied in order. Empty means the image is copied unchanged.
	Effects []string
	// Workers is the number of row bands every convolution is split into.
	Workers int
	// NoWrite runs the effects without encoding the result.
	NoWrite bool
	// Timings holds the duration of the last processed image phases.
	Timings Timings
}

// Timings records the time spent in every phase of the processing.
type Timings struct {
	Decode  time.Duration
	Process time.Duration
	Encode  time.Duration
}

// Total returns the overall duration.
func (t Timings) Total() time.Duration {
	return t.Decode + t.Process + t.Encode
}

// Pipeline builds the effect pipeline configured on the processor.
func (p *Processor) Pipeline() (*Pipeline, error) {
	return EffectPipeline(NewEngine(p.Workers), p.Effects...)
}

// Apply runs the configured effects over the grid and returns the resulting grid.
func (p *Processor) Apply(g *Grid) (*Grid, error) {
	pipe, err := p.Pipeline()
	if err != nil {
		return nil, err
	}
	return pipe.Run(g)
}

// Process is the main entry point for the image filtering operation.
// It decodes the source, runs the effects and encodes the result into the destination.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	if r == nil {
		return errors.New("missing image source")
	}
	pipe, err := p.Pipeline()
	if err != nil {
		return err
	}

	now := time.Now()
	src, err := decodeImage(r)
	if err != nil {
		return err
	}
	p.Timings.Decode = time.Since(now)
	Logger().Debug("image decoded", "width", src.Width, "height", src.Height, "elapsed", p.Timings.Decode)

	now = time.Now()
	res, err := pipe.Run(src)
	if err != nil {
		return fmt.Errorf("could not apply the effects: %w", err)
	}
	p.Timings.Process = time.Since(now)

	if p.NoWrite || w == nil {
		p.Timings.Encode = 0
		return nil
	}

	now = time.Now()
	if err := encodeImage(w, res); err != nil {
		return fmt.Errorf("could not encode the image: %w", err)
	}
	p.Timings.Encode = time.Since(now)

	return nil
}
