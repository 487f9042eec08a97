package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene           string  `json:"scene"`           // Built-in scene name
	Width           int     `json:"width"`           // Image width
	AspectRatio     float64 `json:"aspectRatio"`     // 0 keeps the scene's aspect ratio
	SamplesPerPixel int     `json:"samplesPerPixel"` // Samples per pixel
	MaxDepth        int     `json:"maxDepth"`        // Maximum bounce depth
}

// RenderResult is the final SSE payload of a render
type RenderResult struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels  int   `json:"totalPixels"`
	TotalSamples int64 `json:"totalSamples"`
	Tiles        int   `json:"tiles"`
	Workers      int   `json:"workers"`
}

// parseRenderRequest parses and validates query parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", defaultWidth, minWidth, maxWidth); err != nil {
		return nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(query, "samplesPerPixel", defaultSamplesPerPixel, minSamples, maxSamples); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", defaultMaxDepth, minDepth, maxDepth); err != nil {
		return nil, err
	}
	if query.Get("aspectRatio") != "" {
		if req.AspectRatio, err = parseFloatParam(query, "aspectRatio", 0, minAspect, maxAspect); err != nil {
			return nil, err
		}
	}

	return req, nil
}

// buildScene creates the requested scene with the request's overrides applied
func buildScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := scene.New(req.Scene)
	if err != nil {
		return nil, err
	}
	sceneObj.Resize(req.Width)
	if req.AspectRatio > 0 {
		sceneObj.SetAspectRatio(req.AspectRatio)
	}
	if req.SamplesPerPixel > 0 {
		sceneObj.Config.SamplesPerPixel = req.SamplesPerPixel
	}
	if req.MaxDepth > 0 {
		sceneObj.Config.MaxDepth = req.MaxDepth
	}
	sceneObj.Config.NumWorkers = 0 // Auto-detect

	if pixels := sceneObj.Config.Width * sceneObj.Config.Height; pixels*sceneObj.Config.SamplesPerPixel > largeRenderSampleWarning {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}
	return sceneObj, nil
}

// renderScene renders req and encodes the result as PNG
func (s *Server) renderScene(req *RenderRequest, logger core.Logger) ([]byte, *scene.Scene, renderer.RenderStats, error) {
	sceneObj, err := buildScene(req)
	if err != nil {
		return nil, nil, renderer.RenderStats{}, err
	}
	raytracer, err := sceneObj.NewRaytracer(logger)
	if err != nil {
		return nil, nil, renderer.RenderStats{}, err
	}

	buffer, stats, err := raytracer.Render()
	if err != nil {
		return nil, nil, renderer.RenderStats{}, err
	}

	var png bytes.Buffer
	if err := output.WritePNG(&png, buffer, sceneObj.Config.Width, sceneObj.Config.Height); err != nil {
		return nil, nil, renderer.RenderStats{}, fmt.Errorf("failed to encode image: %w", err)
	}
	return png.Bytes(), sceneObj, stats, nil
}

// nextRenderID returns a unique identifier for log prefixes
func (s *Server) nextRenderID() string {
	return "render-" + strconv.FormatInt(s.renderSeq.Add(1), 10)
}

// handleImage renders synchronously and responds with the PNG
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	png, _, _, err := s.renderScene(req, NewWebLogger(s.nextRenderID(), nil))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Render error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

type renderOutcome struct {
	png   []byte
	scene *scene.Scene
	stats renderer.RenderStats
	err   error
}

// handleRender renders in the background and streams console messages followed
// by the finished image as server-sent events
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	consoleChan := make(chan ConsoleMessage, consoleBufferSize)
	logger := NewWebLogger(s.nextRenderID(), consoleChan)
	startTime := time.Now()

	done := make(chan renderOutcome, 1)
	go func() {
		png, sceneObj, stats, err := s.renderScene(req, logger)
		done <- renderOutcome{png: png, scene: sceneObj, stats: stats, err: err}
	}()

	// Renders cannot be cancelled; a disconnect only stops the stream
	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-consoleChan:
			s.sendConsoleMessage(w, msg)
		case outcome := <-done:
			s.drainConsole(w, consoleChan)
			if outcome.err != nil {
				s.sendSSEError(w, fmt.Sprintf("Render error: %v", outcome.err))
				return
			}
			s.sendRenderResult(w, outcome, startTime)
			return
		}
	}
}

func (s *Server) drainConsole(w http.ResponseWriter, consoleChan chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			s.sendConsoleMessage(w, msg)
		default:
			return
		}
	}
}

func (s *Server) sendConsoleMessage(w http.ResponseWriter, msg ConsoleMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.sendSSEEvent(w, "console", string(data))
}

func (s *Server) sendRenderResult(w http.ResponseWriter, outcome renderOutcome, startTime time.Time) {
	result := RenderResult{
		Width:     outcome.scene.Config.Width,
		Height:    outcome.scene.Config.Height,
		ImageData: base64.StdEncoding.EncodeToString(outcome.png),
		Stats: Stats{
			TotalPixels:  outcome.stats.TotalPixels,
			TotalSamples: int64(outcome.stats.TotalSamples),
			Tiles:        outcome.stats.Tiles,
			Workers:      outcome.stats.Workers,
		},
		ElapsedMs: time.Since(startTime).Milliseconds(),
	}

	data, err := json.Marshal(result)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("failed to encode result: %v", err))
		return
	}
	s.sendSSEEvent(w, "complete", string(data))
}

func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
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
