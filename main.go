package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-pathtracer/pkg/config"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// cliOptions holds the parsed command line
type cliOptions struct {
	scene      string
	configPath string
	out        string
	width      int
	spp        int
	depth      int
	workers    int
	seed       uint64
	list       bool
	help       bool

	set map[string]bool // Flags given explicitly on the command line
}

// parseFlags parses args (without the program name) into cliOptions
func parseFlags(fs *flag.FlagSet, args []string) (*cliOptions, error) {
	opts := &cliOptions{set: make(map[string]bool)}
	fs.StringVar(&opts.scene, "scene", config.DefaultScene, "Scene name (see -list)")
	fs.StringVar(&opts.configPath, "config", "", "JSON config file; explicit flags override its values")
	fs.StringVar(&opts.out, "out", "", "Output file (.png, .tif, .tiff or .ppm); default output/<scene>/render_<timestamp>.png")
	fs.IntVar(&opts.width, "width", config.DefaultWidth, "Image width; height follows the aspect ratio")
	fs.IntVar(&opts.spp, "spp", config.DefaultSamplesPerPixel, "Samples per pixel")
	fs.IntVar(&opts.depth, "depth", config.DefaultMaxDepth, "Maximum ray bounce depth")
	fs.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	fs.Uint64Var(&opts.seed, "seed", 17, "Base seed for the per-pixel random generators")
	fs.BoolVar(&opts.list, "list", false, "List available scenes")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// buildConfig merges the optional config file with explicitly set flags
func buildConfig(opts *cliOptions) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// Without a config file every flag value applies, defaults included
	useFlag := func(name string) bool { return opts.configPath == "" || opts.set[name] }

	if useFlag("scene") {
		cfg.Scene = opts.scene
	}
	if useFlag("out") && opts.out != "" {
		cfg.Output = opts.out
	}
	if useFlag("width") {
		cfg.Width = opts.width
	}
	if useFlag("spp") {
		cfg.SamplesPerPixel = opts.spp
	}
	if useFlag("depth") {
		cfg.MaxDepth = opts.depth
	}
	if useFlag("workers") {
		cfg.Workers = opts.workers
	}
	if opts.set["seed"] {
		seed := opts.seed
		cfg.SeedState = &seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// outputPath returns the configured output file or a timestamped PNG under output/<scene>
func outputPath(cfg *config.Config, now time.Time) string {
	if cfg.Output != "" {
		return cfg.Output
	}
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", cfg.Scene, fmt.Sprintf("render_%s.png", timestamp))
}

func printHelp(fs *flag.FlagSet) {
	fmt.Println("Path Tracer")
	fmt.Println("Usage: pathtracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	fs.PrintDefaults()
	fmt.Println()
	printScenes()
}

func printScenes() {
	fmt.Println("Available scenes:")
	for _, info := range scene.List() {
		fmt.Printf("  %-10s - %s\n", info.ID, info.Description)
	}
}

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	opts, err := parseFlags(fs, os.Args[1:])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(2)
	}

	if opts.help {
		printHelp(fs)
		return
	}
	if opts.list {
		printScenes()
		return
	}

	if err := run(opts, renderer.NewDefaultLogger()); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// run renders the configured scene and writes the image
func run(opts *cliOptions, logger core.Logger) error {
	cfg, err := buildConfig(opts)
	if err != nil {
		return err
	}

	selectedScene, err := cfg.BuildScene()
	if err != nil {
		return err
	}

	logger.Printf("Starting Path Tracer: scene %q, %d objects\n", selectedScene.Name, len(selectedScene.Objects))
	if err := selectedScene.Preprocess(); err != nil {
		return err
	}
	if stats, ok := selectedScene.BVHStats(); ok {
		logger.Printf("BVH: %d nodes, %d leaves, depth %d\n", stats.Nodes, stats.Leaves, stats.MaxDepth)
	}

	raytracer, err := selectedScene.NewRaytracer(logger)
	if err != nil {
		return err
	}

	buffer, _, err := raytracer.Render()
	if err != nil {
		return err
	}

	filename := outputPath(cfg, time.Now())
	if err := output.Save(filename, buffer, selectedScene.Config.Width, selectedScene.Config.Height); err != nil {
		return err
	}

	logger.Printf("Render saved as %s\n", filename)
	return nil
}
