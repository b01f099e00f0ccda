package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string        // Scene name (e.g., "three-spheres")
	Width   int           // Image width; 0 keeps the scene's width
	Samples int           // Samples per pixel; 0 keeps the scene's setting
	Depth   int           // Max bounces; -1 keeps the scene's setting
	Seed    int           // Sampling and layout seed
	Format  output.Format // Response image format
}

// Stats represents render statistics
type Stats struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	TotalPixels     int     `json:"totalPixels"`
	TotalSamples    int64   `json:"totalSamples"`
	SamplesPerPixel int     `json:"samplesPerPixel"`
	MaxDepth        int     `json:"maxDepth"`
	Workers         int     `json:"workers"`
	ElapsedMs       int64   `json:"elapsedMs"`
	SamplesPerSec   float64 `json:"samplesPerSecond"`
}

// ProgressUpdate is sent periodically while a streamed render runs
type ProgressUpdate struct {
	Done     int64   `json:"done"`
	Total    int64   `json:"total"`
	Fraction float64 `json:"fraction"`
}

// CompleteUpdate carries the finished image of a streamed render
type CompleteUpdate struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: "three-spheres", Format: output.PNG}

	if name := query.Get("scene"); name != "" {
		req.Scene = name
	}
	if format := query.Get("format"); format != "" {
		f, err := output.ParseFormat(format)
		if err != nil {
			return nil, err
		}
		req.Format = f
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 2, 2000); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "samples", 0, 1, 10000); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(query, "depth", -1, 0, 1000); err != nil {
		return nil, err
	}
	if req.Seed, err = parseIntParam(query, "seed", 42, 0, 1<<31-1); err != nil {
		return nil, err
	}

	return req, nil
}

// createScene builds the requested scene and applies the request's overrides
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sc, err := scene.New(req.Scene, uint64(req.Seed))
	if err != nil {
		return nil, err
	}
	if req.Width > 0 {
		sc.Resize(req.Width)
	}
	if req.Samples > 0 {
		sc.RenderConfig.SamplesPerPixel = req.Samples
	}
	if req.Depth >= 0 {
		sc.RenderConfig.MaxDepth = req.Depth
	}
	sc.RenderConfig.Seed = uint64(req.Seed)

	// Performance warning
	if sc.Image.Pixels() > 800*600 && sc.RenderConfig.SamplesPerPixel > 100 {
		s.logger.Warn("large image with high samples may render slowly",
			"scene", sc.Name, "pixels", sc.Image.Pixels(), "samples", sc.RenderConfig.SamplesPerPixel)
	}
	return sc, nil
}

// requestStatus maps scene and validation errors to 400 and everything else to 500
func requestStatus(err error) int {
	if errors.Is(err, scene.ErrUnknownScene) ||
		errors.Is(err, renderer.ErrImageTooSmall) ||
		errors.Is(err, renderer.ErrNoSamples) ||
		errors.Is(err, renderer.ErrNegativeDepth) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// handleRender renders a scene and responds with the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.logger.Warn("invalid render request", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	sc, err := s.createScene(req)
	if err != nil {
		writeError(w, requestStatus(err), err.Error())
		return
	}

	pixels, stats, err := sc.NewRaytracer().Render()
	if err != nil {
		writeError(w, requestStatus(err), "Render error: "+err.Error())
		return
	}

	var buf bytes.Buffer
	if err := output.Encode(&buf, req.Format, pixels, sc.Image.Width, sc.Image.Height); err != nil {
		s.logger.Error("failed to encode render", "format", req.Format, "error", err)
		writeError(w, http.StatusInternalServerError, "Encode error: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", req.Format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Render-Width", strconv.Itoa(sc.Image.Width))
	w.Header().Set("X-Render-Height", strconv.Itoa(sc.Image.Height))
	w.Header().Set("X-Render-Duration-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

type renderOutcome struct {
	pixels []renderer.Pixel
	stats  renderer.RenderStats
	err    error
}

// handleRenderStream renders a scene while streaming progress and console
// messages as server-sent events, finishing with a "complete" event that
// carries the image as a base64 PNG. The render always runs to completion;
// a disconnected client only stops the event stream.
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	sc, err := s.createScene(req)
	if err != nil {
		s.sendSSEError(w, err.Error())
		return
	}

	// The render's own records go to the browser console
	consoleChan := make(chan ConsoleMessage, 64)
	console := slog.New(NewConsoleHandler(consoleChan, slog.LevelDebug))

	raytracer := sc.NewRaytracer()
	raytracer.SetLogger(console)
	progress := renderer.NewProgress(sc.Image.Pixels())
	raytracer.SetProgress(progress)

	console.Info("render requested", "scene", sc.Name)

	done := make(chan renderOutcome, 1)
	go func() {
		pixels, stats, err := raytracer.Render()
		done <- renderOutcome{pixels: pixels, stats: stats, err: err}
	}()

	ticker := time.NewTicker(s.progressInterval)
	defer ticker.Stop()
	ctx := r.Context()

	for {
		select {
		case <-ctx.Done():
			return

		case msg := <-consoleChan:
			s.sendSSEJSON(w, "console", msg)

		case <-ticker.C:
			s.sendSSEJSON(w, "progress", progressUpdate(progress))

		case outcome := <-done:
			if outcome.err != nil {
				s.sendSSEError(w, fmt.Sprintf("Render error: %v", outcome.err))
				return
			}
			s.drainConsole(w, consoleChan)
			s.sendSSEJSON(w, "progress", progressUpdate(progress))

			imageData, err := s.imageToBase64PNG(outcome.pixels, sc.Image.Width, sc.Image.Height)
			if err != nil {
				s.sendSSEError(w, fmt.Sprintf("Encode error: %v", err))
				return
			}
			s.sendSSEJSON(w, "complete", CompleteUpdate{
				ImageData: imageData,
				Stats:     toStats(sc, outcome.stats),
			})
			return
		}
	}
}

func progressUpdate(p *renderer.Progress) ProgressUpdate {
	return ProgressUpdate{Done: p.Done(), Total: p.Total(), Fraction: p.Fraction()}
}

func toStats(sc *scene.Scene, stats renderer.RenderStats) Stats {
	return Stats{
		Width:           sc.Image.Width,
		Height:          sc.Image.Height,
		TotalPixels:     stats.TotalPixels,
		TotalSamples:    int64(stats.TotalSamples),
		SamplesPerPixel: stats.SamplesPerPixel,
		MaxDepth:        stats.MaxDepth,
		Workers:         stats.Workers,
		ElapsedMs:       stats.Duration.Milliseconds(),
		SamplesPerSec:   stats.SamplesPerSecond(),
	}
}

func (s *Server) drainConsole(w http.ResponseWriter, consoleChan chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			s.sendSSEJSON(w, "console", msg)
		default:
			return
		}
	}
}

// setSSEHeaders sets the headers for a server-sent event stream
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// imageToBase64PNG encodes a raster as a base64 PNG
func (s *Server) imageToBase64PNG(pixels []renderer.Pixel, width, height int) (string, error) {
	var buf bytes.Buffer
	if err := output.Encode(&buf, output.PNG, pixels, width, height); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// sendSSEJSON sends v as the JSON payload of an event
func (s *Server) sendSSEJSON(w http.ResponseWriter, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, event, string(data))
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	s.logger.Warn("render stream failed", "error", message)
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if flusher, ok := w.(http.Flusher); ok {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}
