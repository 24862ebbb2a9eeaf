// Package chart renders the five static report charts as PNG files using
// go-chart.
package chart

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Default render settings.
const (
	DefaultWidth  = 1280
	DefaultHeight = 800
)

// Palette holds the chart color scheme.
type Palette struct {
	Primary   drawing.Color
	Secondary drawing.Color
	Success   drawing.Color
	Warning   drawing.Color
	Danger    drawing.Color
}

// DefaultPalette returns the standard report colors.
func DefaultPalette() Palette {
	return Palette{
		Primary:   drawing.ColorFromHex("2E86AB"),
		Secondary: drawing.ColorFromHex("A23B72"),
		Success:   drawing.ColorFromHex("06A77D"),
		Warning:   drawing.ColorFromHex("F18F01"),
		Danger:    drawing.ColorFromHex("C73E1D"),
	}
}

// PaletteFromHex overrides default colors with the configured hex values,
// keyed by primary/secondary/success/warning/danger. A leading '#' is
// accepted.
func PaletteFromHex(colors map[string]string) Palette {
	p := DefaultPalette()
	for key, hex := range colors {
		c := drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
		switch strings.ToLower(key) {
		case "primary":
			p.Primary = c
		case "secondary":
			p.Secondary = c
		case "success":
			p.Success = c
		case "warning":
			p.Warning = c
		case "danger":
			p.Danger = c
		}
	}
	return p
}

// Generator renders report charts into a per-person output directory.
type Generator struct {
	outputDir string
	width     int
	height    int
	palette   Palette
	logger    *slog.Logger

	// now is a hook for deterministic directory names in tests.
	now func() time.Time
}

// Config holds generator settings.
type Config struct {
	OutputDir string
	Width     int
	Height    int
	Palette   Palette
	Logger    *slog.Logger
}

// NewGenerator creates a chart generator.
func NewGenerator(cfg Config) *Generator {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	var zero Palette
	if cfg.Palette == zero {
		cfg.Palette = DefaultPalette()
	}
	return &Generator{
		outputDir: cfg.OutputDir,
		width:     cfg.Width,
		height:    cfg.Height,
		palette:   cfg.Palette,
		logger:    cfg.Logger,
		now:       time.Now,
	}
}

// ensureDir creates the per-person output directory, named
// <safe_name>_<yyyy-mm-dd>.
func (g *Generator) ensureDir(personName string) (string, error) {
	dir := filepath.Join(g.outputDir, fmt.Sprintf("%s_%s", SafeName(personName), g.now().Format("2006-01-02")))
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create chart directory: %w", err)
	}
	return dir, nil
}

// SafeName converts a person name into a filesystem-safe directory prefix.
func SafeName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case r == ' ' || r == '_' || r == '-':
			b.WriteRune('_')
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// save renders a chart into the directory and returns the file path.
func (g *Generator) save(dir, filename string, render func(f *os.File) error) (string, error) {
	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := render(f); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", filename, err)
	}
	g.logger.Debug("chart rendered", "path", path)
	return path, nil
}
