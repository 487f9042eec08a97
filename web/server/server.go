package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Request parameter limits
const (
	minWidth, maxWidth       = 16, 2000
	minSamples, maxSamples   = 1, 10000
	minDepth, maxDepth       = 1, 200
	minAspect, maxAspect     = 0.25, 4.0
	defaultWidth             = 400
	defaultSamplesPerPixel   = 20
	defaultMaxDepth          = 50
	consoleBufferSize        = 100
	largeRenderSampleWarning = 800 * 600 * 100
)

// Server handles web requests for the path tracer
type Server struct {
	port      int
	renderSeq atomic.Int64 // Source of render IDs for log prefixes
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port}
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/image", s.handleImage)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// writeJSON writes v with the given status code
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeError writes a JSON error body
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"scenes": scene.List()})
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := scene.New(sceneName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bounds := core.EmptyAABB()
	for _, obj := range sceneObj.Objects {
		bounds = bounds.Union(obj.BoundingBox())
	}

	cam := sceneObj.CameraConfig
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"width":           sceneObj.Config.Width,
			"height":          sceneObj.Config.Height,
			"aspectRatio":     cam.AspectRatio,
			"samplesPerPixel": sceneObj.Config.SamplesPerPixel,
			"maxDepth":        sceneObj.Config.MaxDepth,
			"useBVH":          sceneObj.UseBVH,
		},
		"camera": map[string]interface{}{
			"lookFrom":      vecArray(cam.LookFrom),
			"lookAt":        vecArray(cam.LookAt),
			"vfov":          cam.VFov,
			"aperture":      cam.Aperture,
			"focusDistance": cam.FocusDistance,
		},
		"limits": map[string]interface{}{
			"width":           map[string]int{"min": minWidth, "max": maxWidth},
			"samplesPerPixel": map[string]int{"min": minSamples, "max": maxSamples},
			"maxDepth":        map[string]int{"min": minDepth, "max": maxDepth},
			"aspectRatio":     map[string]float64{"min": minAspect, "max": maxAspect},
		},
	}

	if bounds.IsValid() {
		response["bounds"] = map[string]interface{}{
			"min":    vecArray(bounds.Min),
			"max":    vecArray(bounds.Max),
			"center": vecArray(bounds.Center()),
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
