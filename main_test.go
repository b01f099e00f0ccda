package main

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		{"two spheres", "two-spheres", false},
		{"three spheres", "three-spheres", false},
		{"random world", "random-world", false},
		{"palette", "palette", false},
		{"unknown scene", "nonexistent", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := createScene(options{scene: tt.sceneType, depth: -1})

			if tt.expectError {
				if !errors.Is(err, scene.ErrUnknownScene) {
					t.Errorf("Expected ErrUnknownScene for '%s', got %v", tt.sceneType, err)
				}
				if s != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s'", tt.sceneType)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if s.Image.Width <= 0 || s.Image.Height <= 0 {
				t.Errorf("Scene image should be positive, got %dx%d", s.Image.Width, s.Image.Height)
			}
		})
	}
}

func TestCreateScene_Overrides(t *testing.T) {
	s, err := createScene(options{scene: "two-spheres", width: 200, samples: 7, depth: 0, workers: 3, seed: 9})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Image.Width != 200 || s.Image.Height != 113 {
		t.Errorf("Expected 200x113, got %dx%d", s.Image.Width, s.Image.Height)
	}
	config := s.RenderConfig
	if config.SamplesPerPixel != 7 || config.MaxDepth != 0 || config.Workers != 3 || config.Seed != 9 {
		t.Errorf("Overrides not applied: %+v", config)
	}

	// Unset flags keep the scene's defaults
	s, _ = createScene(options{scene: "two-spheres", depth: -1})
	if s.RenderConfig != renderer.DefaultRenderConfig() {
		t.Errorf("Expected scene defaults, got %+v", s.RenderConfig)
	}
}

func TestCreateOutputDir(t *testing.T) {
	if got := createOutputDir("palette"); got != filepath.Join("output", "palette") {
		t.Errorf("Unexpected output dir %q", got)
	}
}

func TestRun_RendersFile(t *testing.T) {
	for _, sequential := range []bool{false, true} {
		path := filepath.Join(t.TempDir(), "out.ppm")
		args := []string{"-scene", "two-spheres", "-width", "16", "-samples", "2", "-depth", "3", "-out", path, "-progress"}
		if sequential {
			args = append(args, "-sequential")
		}

		var stdout, stderr bytes.Buffer
		if err := run(args, &stdout, &stderr); err != nil {
			t.Fatalf("run failed: %v\n%s", err, stderr.String())
		}

		pixels, width, height, err := output.Load(path)
		if err != nil {
			t.Fatalf("Failed to read render: %v", err)
		}
		if width != 16 || height != 9 || len(pixels) != 144 {
			t.Errorf("Expected 16x9 render, got %dx%d (%d pixels)", width, height, len(pixels))
		}
		if !strings.Contains(stdout.String(), "Render saved as "+path) {
			t.Errorf("Missing summary in output: %q", stdout.String())
		}
		if !strings.Contains(stderr.String(), "render finished") {
			t.Errorf("Expected render log in stderr: %q", stderr.String())
		}
	}
}

func TestRun_CompareAgainstReference(t *testing.T) {
	dir := t.TempDir()
	reference := filepath.Join(dir, "reference.ppm")
	base := []string{"-scene", "two-spheres", "-width", "16", "-samples", "2", "-depth", "3"}

	if err := run(append(base, "-out", reference), io.Discard, io.Discard); err != nil {
		t.Fatalf("Reference render failed: %v", err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"same seed matches", []string{"-seed", "42"}, "0 of 144 pixels differ"},
		{"sequential matches", []string{"-sequential"}, "0 of 144 pixels differ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			args := append(append([]string{}, base...), tt.args...)
			args = append(args, "-out", filepath.Join(t.TempDir(), "render.png"), "-compare", reference)
			if err := run(args, &stdout, io.Discard); err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("Expected %q in output: %q", tt.want, stdout.String())
			}
		})
	}

	// A different resolution cannot be compared
	args := append(append([]string{}, base...), "-width", "20", "-out", filepath.Join(dir, "wide.png"), "-compare", reference)
	if err := run(args, io.Discard, io.Discard); err == nil {
		t.Error("Expected a size mismatch error")
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown scene", []string{"-scene", "nope"}},
		{"unsupported format", []string{"-scene", "two-spheres", "-out", "render.gif"}},
		{"too small", []string{"-scene", "two-spheres", "-width", "1", "-out", filepath.Join(t.TempDir(), "x.png")}},
		{"bad flag", []string{"-bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(tt.args, io.Discard, io.Discard); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestRun_HelpAndList(t *testing.T) {
	if err := run([]string{"-h"}, io.Discard, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("Expected flag.ErrHelp, got %v", err)
	}

	var stdout bytes.Buffer
	if err := run([]string{"-list"}, &stdout, io.Discard); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, name := range scene.Names() {
		if !strings.Contains(stdout.String(), name) {
			t.Errorf("Scene %q missing from listing", name)
		}
	}
}

func TestPrintSummary_GroupsThousands(t *testing.T) {
	var buf bytes.Buffer
	stats := renderer.RenderStats{
		TotalPixels:     90000,
		TotalSamples:    9000000,
		SamplesPerPixel: 100,
		Workers:         8,
		Duration:        3 * time.Second,
	}
	printSummary(&buf, stats, "out.png")

	for _, want := range []string{"90,000", "9,000,000", "3,000,000 samples/s", "Render saved as out.png"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Expected %q in summary, got %q", want, buf.String())
		}
	}
}
