package pixconv

import (
	"fmt"
	"sort"
	"time"
)

// Stage is a single named step of a filter pipeline. Pointwise stages
// mutate the current grid, convolution stages replace it with a new one.
type Stage struct {
	Name  string
	apply func(*Engine, *Grid) (*Grid, error)
}

// PointStage wraps a pointwise transform into a pipeline stage.
func PointStage(name string, fn Transform) Stage {
	return Stage{
		Name: name,
		apply: func(_ *Engine, g *Grid) (*Grid, error) {
			fn(g)
			return g, nil
		},
	}
}

// ConvolveStage returns a stage convolving the current grid with k.
func ConvolveStage(k Kernel) Stage {
	return Stage{
		Name: k.Name(),
		apply: func(e *Engine, g *Grid) (*Grid, error) {
			return e.Convolve(g, k)
		},
	}
}

// GradientStage returns a stage running the canny gradient combiner.
func GradientStage() Stage {
	return Stage{
		Name: "canny-gradient",
		apply: func(e *Engine, g *Grid) (*Grid, error) {
			return e.CannyGradient(g)
		},
	}
}

// Pipeline is a fixed, linear sequence of stages.
type Pipeline struct {
	engine *Engine
	stages []Stage
}

// NewPipeline creates a pipeline running its convolution stages on the engine.
// A nil engine is replaced with the default one.
func NewPipeline(e *Engine, stages ...Stage) *Pipeline {
	if e == nil {
		e = defaultEngine
	}
	return &Pipeline{engine: e, stages: stages}
}

// Stages returns the stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Then returns a new pipeline running the stages of p followed by the stages of next.
func (p *Pipeline) Then(next *Pipeline) *Pipeline {
	stages := make([]Stage, 0, len(p.stages)+len(next.stages))
	stages = append(stages, p.stages...)
	stages = append(stages, next.stages...)
	return &Pipeline{engine: p.engine, stages: stages}
}

// Run executes the stages in order. The pipeline takes ownership of g:
// pointwise stages modify it in place. On failure the remaining stages are
// skipped and no grid is returned.
func (p *Pipeline) Run(g *Grid) (*Grid, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}

	current := g
	for _, s := range p.stages {
		now := time.Now()
		next, err := s.apply(p.engine, current)
		if err != nil {
			Logger().Warn("pipeline aborted", "stage", s.Name, "error", err)
			return nil, fmt.Errorf("stage %s: %w", s.Name, err)
		}
		// The replaced grid is dropped here and left to the garbage collector.
		current = next
		Logger().Debug("stage done", "stage", s.Name, "elapsed", time.Since(now))
	}
	return current, nil
}

// SimpleEdgeDetect returns the pipeline:
// grayscale, gaussian blur, edge detection kernel, dim pixels to black.
func SimpleEdgeDetect(e *Engine) *Pipeline {
	return NewPipeline(e,
		PointStage("grayscale", Grayscale),
		ConvolveStage(GaussianBlur),
		ConvolveStage(EdgeDetect),
		PointStage("dim-to-black", DimToBlack),
	)
}

// CannyEdgeDetect returns the pipeline:
// grayscale, gaussian blur, canny gradient, dim pixels to black.
//
// Only the first part of the canny algorithm is performed; there is no
// non-maximum suppression nor hysteresis.
func CannyEdgeDetect(e *Engine) *Pipeline {
	return NewPipeline(e,
		PointStage("grayscale", Grayscale),
		ConvolveStage(GaussianBlur),
		GradientStage(),
		PointStage("dim-to-black", DimToBlack),
	)
}

// SimpleEdgeDetect runs the simple edge detection pipeline over g.
func (e *Engine) SimpleEdgeDetect(g *Grid) (*Grid, error) {
	return SimpleEdgeDetect(e).Run(g)
}

// CannyEdgeDetect runs the canny-style edge detection pipeline over g.
func (e *Engine) CannyEdgeDetect(g *Grid) (*Grid, error) {
	return CannyEdgeDetect(e).Run(g)
}

// effects maps the effect names accepted by the CLI to their pipeline builders.
var effects = map[string]func(*Engine) *Pipeline{
	"grayscale":       pointEffect("grayscale", Grayscale),
	"invert":          pointEffect("invert", Invert),
	"saturate":        pointEffect("saturate", Saturate),
	"desaturate":      pointEffect("desaturate", Desaturate),
	"brighten":        pointEffect("brighten", Brighten),
	"darken":          pointEffect("darken", Darken),
	"dim-to-black":    pointEffect("dim-to-black", DimToBlack),
	"bright-to-white": pointEffect("bright-to-white", BrightToWhite),
	"red-only":        pointEffect("red-only", RedOnly),
	"green-only":      pointEffect("green-only", GreenOnly),
	"blue-only":       pointEffect("blue-only", BlueOnly),
	"swap-rg":         pointEffect("swap-rg", SwapRG),
	"swap-rb":         pointEffect("swap-rb", SwapRB),
	"swap-gb":         pointEffect("swap-gb", SwapGB),
	"identity":        kernelEffect(Identity),
	"box-blur":        kernelEffect(BoxBlur),
	"gaussian-blur":   kernelEffect(GaussianBlur),
	"sharpen":         kernelEffect(Sharpen),
	"emboss":          kernelEffect(Emboss),
	"edge-detect":     kernelEffect(EdgeDetect),
	"simple-edge":     SimpleEdgeDetect,
	"canny":           CannyEdgeDetect,
}

func pointEffect(name string, fn Transform) func(*Engine) *Pipeline {
	return func(e *Engine) *Pipeline {
		return NewPipeline(e, PointStage(name, fn))
	}
}

func kernelEffect(k Kernel) func(*Engine) *Pipeline {
	return func(e *Engine) *Pipeline {
		return NewPipeline(e, ConvolveStage(k))
	}
}

// Effects returns the sorted list of the supported effect names.
func Effects() []string {
	names := make([]string, 0, len(effects))
	for name := range effects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EffectPipeline chains the named effects into a single pipeline.
func EffectPipeline(e *Engine, names ...string) (*Pipeline, error) {
	p := NewPipeline(e)
	for _, name := range names {
		build, ok := effects[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
		}
		p = p.Then(build(p.engine))
	}
	return p, nil
}
