package imagegen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Image contract shared by every generator.
const (
	// DefaultWidth and DefaultHeight are the fixed output dimensions.
	DefaultWidth  = 1024
	DefaultHeight = 1024

	// DefaultFormat is the fixed output format.
	DefaultFormat = "webp"
)

// ErrNoGenerator is returned when no generator in the chain is available.
var ErrNoGenerator = errors.New("no image generator available")

// Request describes one image to generate.
type Request struct {
	// Prompt is the generation prompt.
	Prompt string

	// Width and Height are output dimensions in pixels. Zero means the
	// defaults.
	Width  int
	Height int

	// Format is the output format. Empty means webp.
	Format string

	// OutputPath is the destination file path.
	OutputPath string
}

// withDefaults fills unset fields with the image contract defaults.
func (r Request) withDefaults() Request {
	if r.Width <= 0 {
		r.Width = DefaultWidth
	}
	if r.Height <= 0 {
		r.Height = DefaultHeight
	}
	if r.Format == "" {
		r.Format = DefaultFormat
	}
	return r
}

// Generator is one image-generation capability.
type Generator interface {
	// Name identifies the generator in logs.
	Name() string

	// Available reports whether the generator can be invoked. This is a
	// cheap local probe (binary lookup, binding presence).
	Available() bool

	// Generate writes the image to req.OutputPath.
	Generate(ctx context.Context, req Request) error
}

// Chain selects the first available generator and delegates to it.
type Chain struct {
	// generators are probed in order.
	generators []Generator

	// logger for structured logging.
	logger *slog.Logger
}

// NewChain creates a chain over the given generators. Nil entries are
// dropped so callers can pass optional bindings unconditionally.
func NewChain(logger *slog.Logger, generators ...Generator) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	kept := make([]Generator, 0, len(generators))
	for _, g := range generators {
		if g != nil {
			kept = append(kept, g)
		}
	}
	return &Chain{generators: kept, logger: logger}
}

// Generate probes the chain and invokes the first available generator.
// When a generator fails, the chain falls through to the next available
// one; ErrNoGenerator is returned only when every candidate was
// unavailable or failed.
func (c *Chain) Generate(ctx context.Context, req Request) error {
	req = req.withDefaults()

	var lastErr error
	for _, g := range c.generators {
		if !g.Available() {
			c.logger.Debug("image generator unavailable", "generator", g.Name())
			continue
		}

		c.logger.Info("generating image",
			"generator", g.Name(),
			"output", req.OutputPath,
		)
		if err := g.Generate(ctx, req); err != nil {
			c.logger.Warn("image generator failed, trying next",
				"generator", g.Name(),
				"error", err,
			)
			lastErr = err
			continue
		}
		return nil
	}

	if lastErr != nil {
		return fmt.Errorf("%w: last failure: %v", ErrNoGenerator, lastErr)
	}
	return ErrNoGenerator
}

// FuncGenerator adapts an in-process generation function to the Generator
// interface. This is the preferred binding when the host application links
// a generation library directly; a nil function means not available.
type FuncGenerator struct {
	// name identifies the binding.
	name string

	// fn performs the generation.
	fn func(ctx context.Context, req Request) error
}

// NewFuncGenerator wraps fn as a Generator.
func NewFuncGenerator(name string, fn func(ctx context.Context, req Request) error) *FuncGenerator {
	return &FuncGenerator{name: name, fn: fn}
}

// Name implements Generator.
func (g *FuncGenerator) Name() string {
	return "func:" + g.name
}

// Available implements Generator.
func (g *FuncGenerator) Available() bool {
	return g != nil && g.fn != nil
}

// Generate implements Generator.
func (g *FuncGenerator) Generate(ctx context.Context, req Request) error {
	return g.fn(ctx, req)
}

// placeholderWebP is a minimal valid lossless WebP (1x1). The degraded
// generator writes it verbatim so the publish stage always has an image
// artifact to stage, clearly replaceable later by a real generation run.
var placeholderWebP = []byte{
	'R', 'I', 'F', 'F', 0x1a, 0x00, 0x00, 0x00,
	'W', 'E', 'B', 'P', 'V', 'P', '8', 'L',
	0x0d, 0x00, 0x00, 0x00, 0x2f, 0x00, 0x00, 0x00,
	0x10, 0x07, 0x10, 0x11, 0x11, 0x88, 0x88, 0xfe,
	0x07, 0x00,
}

// PlaceholderGenerator is the degraded terminal element of the chain.
// It is always available and writes a static minimal WebP.
type PlaceholderGenerator struct{}

// NewPlaceholderGenerator creates the degraded generator.
func NewPlaceholderGenerator() *PlaceholderGenerator {
	return &PlaceholderGenerator{}
}

// Name implements Generator.
func (g *PlaceholderGenerator) Name() string {
	return "placeholder"
}

// Available implements Generator.
func (g *PlaceholderGenerator) Available() bool {
	return true
}

// Generate writes the placeholder image.
func (g *PlaceholderGenerator) Generate(_ context.Context, req Request) error {
	if err := os.MkdirAll(filepath.Dir(req.OutputPath), 0750); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}
	if err := os.WriteFile(req.OutputPath, placeholderWebP, 0600); err != nil {
		return fmt.Errorf("failed to write placeholder image: %w", err)
	}
	return nil
}
