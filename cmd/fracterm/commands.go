package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/fracterm/internal/config"
	"github.com/san-kum/fracterm/internal/density"
	"github.com/san-kum/fracterm/internal/export"
	"github.com/san-kum/fracterm/internal/palette"
	"github.com/san-kum/fracterm/internal/render"
	"github.com/san-kum/fracterm/internal/storage"
	"github.com/san-kum/fracterm/internal/tui"
)

func runExplore(cmd *cobra.Command, args []string) error {
	cfg, err := fractalConfig(cmd.Flags())
	if err != nil {
		return err
	}
	m, err := tui.NewExplorer(cfg, tui.GetTheme(themeName))
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

func runBuddha(cmd *cobra.Command, args []string) error {
	cfg, err := buddhaConfig(cmd.Flags())
	if err != nil {
		return err
	}
	m, err := tui.NewBuddha(cfg, tui.GetTheme(themeName))
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := fractalConfig(cmd.Flags())
	if err != nil {
		return err
	}
	rule, err := cfg.GetRule()
	if err != nil {
		return err
	}
	scheme, err := cfg.GetScheme()
	if err != nil {
		return err
	}
	view, err := cfg.Viewport(cfg.Screenshot.Height, cfg.Screenshot.Width)
	if err != nil {
		return err
	}
	opts := render.Options{Mode: cfg.Mode(), Iterations: cfg.Iterations, Smooth: scheme.Continuous, Workers: cfg.Workers}

	path := output
	if path == "" {
		path = cfg.Screenshot.Path
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if gifFrames > 0 {
		if !strings.HasSuffix(path, ".gif") && output == "" {
			path = strings.TrimSuffix(path, ".png") + ".gif"
		}
		start := time.Now()
		frames, err := render.ZoomSequence(ctx, view, rule, opts, scheme, gifFrames, zoom, iterStep)
		if err != nil {
			return err
		}
		if err := export.WriteGIF(path, frames, gifDelay); err != nil {
			return err
		}
		fmt.Printf("%d frames written to %s in %v\n", len(frames), path, time.Since(start).Round(time.Millisecond))
		return nil
	}

	start := time.Now()
	field, err := render.Escape(ctx, view, rule, opts)
	if err != nil {
		return err
	}
	if err := export.WritePNG(path, render.Colorize(field, scheme)); err != nil {
		return err
	}

	fmt.Printf("%s %s, %dx%d, %d iterations, %v\n", opts.Mode, rule, view.Columns, view.Rows, cfg.Iterations, time.Since(start).Round(time.Millisecond))
	fmt.Printf("written to %s\n\n", path)

	if hist := field.Histogram(80, cfg.Iterations); len(hist) > 0 {
		graph := asciigraph.Plot(hist,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("escape iterations"),
		)
		fmt.Println(graph)
	}
	return nil
}

func runAccumulate(cmd *cobra.Command, args []string) error {
	cfg, err := buddhaConfig(cmd.Flags())
	if err != nil {
		return err
	}
	if totalSamples <= 0 || batchSize <= 0 {
		return fmt.Errorf("--total and --batch must be positive")
	}
	if cfg.Buddha.MinIters >= cfg.Buddha.MaxIters {
		return fmt.Errorf("min iterations (%d) must be below max iterations (%d)", cfg.Buddha.MinIters, cfg.Buddha.MaxIters)
	}
	rule, err := cfg.GetRule()
	if err != nil {
		return err
	}
	view, err := cfg.PlotView()
	if err != nil {
		return err
	}
	farm, err := cfg.Farm()
	if err != nil {
		return err
	}
	grid, err := density.NewGrid(view)
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = density.NewSeed()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	b := cfg.Buddha
	sampler := density.NewSampler(cfg.Workers, cfg.Seed)
	var (
		drawn, plotted int64
		yields         []float64
	)
	start := time.Now()
	for drawn < int64(totalSamples) {
		n := min(int64(batchSize), int64(totalSamples)-drawn)
		got, err := sampler.Accumulate(ctx, grid, farm, rule, b.MinIters, b.MaxIters, int(n))
		plotted += got
		drawn += sampler.LastDrawn()
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				return err
			}
			log.Printf("interrupted after %d samples, saving what we have", drawn)
			break
		}
		yields = append(yields, float64(got)/float64(n))
		log.Printf("%d/%d samples, %d points plotted", drawn, totalSamples, plotted)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(grid, storage.Session{
		Name:     sessionName,
		Rule:     rule,
		Farm:     farm,
		MinIters: b.MinIters,
		MaxIters: b.MaxIters,
		Samples:  drawn,
		Plotted:  plotted,
		Seed:     cfg.Seed,
		Gamma:    b.Gamma,
	})
	if err != nil {
		return err
	}

	stats := grid.Stats()
	fmt.Printf("session: %s\n", id)
	fmt.Printf("samples: %d  plotted: %d  peak: %d  coverage: %.1f%%  time: %v\n\n",
		drawn, plotted, stats.Max, 100*stats.Coverage, time.Since(start).Round(time.Millisecond))

	if len(yields) > 1 {
		graph := asciigraph.Plot(yields,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("points plotted per sample, by batch"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if pngOut != "" {
		if err := export.WritePNG(pngOut, render.Density(grid, view, b.Gamma)); err != nil {
			return err
		}
		fmt.Printf("written to %s\n", pngOut)
	}
	return nil
}

func listSessions(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	sessions, err := st.List()
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("no sessions found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tRULE\tSIZE\tITERS\tSAMPLES\tPEAK\tCOVERAGE")

	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d-%d\t%d\t%d\t%.1f%%\n",
			s.ID,
			s.Timestamp.Format("2006-01-02 15:04:05"),
			s.Rule.Transform,
			s.Plot.Columns, s.Plot.Rows,
			s.MinIters, s.MaxIters,
			s.Samples,
			s.Max,
			100*s.Coverage,
		)
	}

	return w.Flush()
}

func removeSessions(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	for _, id := range args {
		if err := st.Delete(id); err != nil {
			return fmt.Errorf("remove %s: %w", id, err)
		}
		fmt.Printf("removed %s\n", id)
	}
	return nil
}

func exportSession(cmd *cobra.Command, args []string) error {
	id := args[0]

	st := storage.New(dataDir)
	grid, meta, err := st.LoadGrid(id)
	if err != nil {
		return err
	}

	g := meta.Gamma
	if cmd.Flags().Changed("gamma") {
		g = gamma
	}
	if g <= 0 {
		g = config.DefaultGamma
	}

	path := output
	if path == "" {
		path = id + ".png"
	}
	if err := export.WritePNG(path, render.Density(grid, grid.View(), g)); err != nil {
		return err
	}
	fmt.Printf("written to %s\n", path)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	families := config.Families()
	if len(args) > 0 {
		families = args
	}
	for _, family := range families {
		presets := config.ListPresets(family)
		if len(presets) == 0 {
			fmt.Printf("no presets for: %s\n", family)
			continue
		}
		fmt.Printf("presets for %s:\n", family)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

func listSchemes(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCYCLE\tCOLORS\tDESCRIPTION")

	for _, name := range palette.Names() {
		s, err := palette.Lookup(name)
		if err != nil {
			return err
		}
		hexes := make([]string, len(s.Colors))
		for i, c := range s.Colors {
			hexes[i] = palette.Hex(c)
		}
		fmt.Fprintf(w, "%s\t%g\t%s\t%s\n", name, s.ItersPerCycle, strings.Join(hexes, " "), palette.Describe(name))
	}

	return w.Flush()
}
