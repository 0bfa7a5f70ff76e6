package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/fracterm/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	themeName  string
	workers    int
	seed       int64

	// rule
	power       string
	radius      float64
	transform   string
	mandel      bool
	burningShip bool
	tricorn     bool

	// window
	position string
	window   string

	// escape-time
	julia      string
	iterations int
	screenshot string
	dimensions string
	continuous bool
	schemeName string

	// buddhabrot
	maxIters        int
	minIters        int
	gamma           float64
	samplesPerFrame int

	// render
	output    string
	gifFrames int
	zoom      float64
	iterStep  int
	gifDelay  int

	// accumulate
	totalSamples int
	batchSize    int
	sessionName  string
	pngOut       string
)

func addRuleFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&power, "power", "p", "2", "power z is raised to, REAL[,IMAG]")
	cmd.Flags().Float64VarP(&radius, "radius", "r", 0, "escape radius (default 2, or 100 with continuous coloring)")
	cmd.Flags().StringVar(&transform, "transform", "", "mandelbrot, burning-ship or tricorn")
	cmd.Flags().BoolVarP(&mandel, "mandel", "M", false, "z' = z^p + c")
	cmd.Flags().BoolVarP(&burningShip, "burning-ship", "B", false, "z' = (|Re z| + i|Im z|)^p + c")
	cmd.Flags().BoolVarP(&tricorn, "tricorn", "T", false, "z' = conj(z)^p + c")
	cmd.Flags().StringVarP(&position, "position", "z", "0,0", "centre of the window, REAL[,IMAG]")
	cmd.Flags().StringVarP(&window, "window", "w", "", "window size in the plane, WIDTH,HEIGHT")
}

func addFractalFlags(cmd *cobra.Command) {
	addRuleFlags(cmd)
	cmd.Flags().StringVarP(&julia, "julia", "j", "", "draw the Julia set for REAL[,IMAG]")
	cmd.Flags().IntVarP(&iterations, "iter", "n", 100, "iterations before a point counts as bounded")
	cmd.Flags().StringVarP(&screenshot, "screenshot", "s", "fractal_screenshot.png", "screenshot path")
	cmd.Flags().StringVarP(&dimensions, "dimensions", "d", "1000,1000", "screenshot size in pixels, WIDTH,HEIGHT")
	cmd.Flags().BoolVarP(&continuous, "continuous", "c", false, "smooth colors by escape distance")
	cmd.Flags().StringVarP(&schemeName, "scheme", "m", "starry", "color scheme (see 'fracterm schemes')")
}

func addBuddhaFlags(cmd *cobra.Command) {
	addRuleFlags(cmd)
	cmd.Flags().IntVarP(&maxIters, "max-iters", "n", 100, "longest orbit to follow")
	cmd.Flags().IntVarP(&minIters, "min-iters", "m", 10, "orbits must be longer than this to be plotted")
	cmd.Flags().Float64VarP(&gamma, "gamma", "g", 0.5, "brightness exponent")
	cmd.Flags().StringVarP(&screenshot, "screenshot", "s", "buddha_screenshot.png", "screenshot path")
	cmd.Flags().StringVarP(&dimensions, "dimensions", "d", "1000,1000", "plot resolution, COLUMNS,ROWS")
	cmd.Flags().IntVar(&samplesPerFrame, "samples", 10000, "orbits drawn per frame")
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "fracterm",
		Short:        "escape-time fractals and Buddhabrots in the terminal",
		SilenceUsage: true,
		RunE:         runExplore,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fracterm", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "start from a preset, FAMILY[/NAME]")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "classic",
		"status line theme ("+strings.Join(tui.ThemeNames(), ", ")+")")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "worker goroutines (0 = one per CPU)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 = fresh)")
	addFractalFlags(rootCmd)

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "navigate the Mandelbrot or a Julia set",
		RunE:  runExplore,
	}
	addFractalFlags(exploreCmd)

	buddhaCmd := &cobra.Command{
		Use:   "buddha",
		Short: "watch a Buddhabrot accumulate",
		RunE:  runBuddha,
	}
	addBuddhaFlags(buddhaCmd)

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render an escape-time image without the terminal UI",
		RunE:  runRender,
	}
	addFractalFlags(renderCmd)
	renderCmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: screenshot path)")
	renderCmd.Flags().IntVar(&gifFrames, "frames", 0, "render a zoom animation with this many frames")
	renderCmd.Flags().Float64Var(&zoom, "zoom", 0.9, "zoom factor per animation frame")
	renderCmd.Flags().IntVar(&iterStep, "iter-step", 5, "extra iterations per animation frame")
	renderCmd.Flags().IntVar(&gifDelay, "delay", 8, "animation frame delay in 1/100 s")

	accumulateCmd := &cobra.Command{
		Use:   "accumulate",
		Short: "accumulate a Buddhabrot headless and store the session",
		RunE:  runAccumulate,
	}
	addBuddhaFlags(accumulateCmd)
	accumulateCmd.Flags().IntVar(&totalSamples, "total", 1000000, "orbits to draw")
	accumulateCmd.Flags().IntVar(&batchSize, "batch", 50000, "orbits per batch")
	accumulateCmd.Flags().StringVar(&sessionName, "name", "buddha", "session name")
	accumulateCmd.Flags().StringVar(&pngOut, "png", "", "also write the plot to this PNG")

	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "list stored Buddhabrot sessions",
		RunE:  listSessions,
	}

	rmCmd := &cobra.Command{
		Use:   "rm [session_id]...",
		Short: "delete stored sessions",
		Args:  cobra.MinimumNArgs(1),
		RunE:  removeSessions,
	}
	sessionsCmd.AddCommand(rmCmd)

	exportCmd := &cobra.Command{
		Use:   "export [session_id]",
		Short: "write a stored session as a PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSession,
	}
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: <session_id>.png)")
	exportCmd.Flags().Float64VarP(&gamma, "gamma", "g", 0, "brightness exponent (default: the session's)")

	presetsCmd := &cobra.Command{
		Use:   "presets [family]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	schemesCmd := &cobra.Command{
		Use:   "schemes",
		Short: "list color schemes",
		RunE:  listSchemes,
	}

	rootCmd.AddCommand(exploreCmd, buddhaCmd, renderCmd, accumulateCmd, sessionsCmd, exportCmd, presetsCmd, schemesCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
