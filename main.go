package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/drumvis/internal/analyser"
	"github.com/olivier-w/drumvis/internal/config"
	"github.com/olivier-w/drumvis/internal/easing"
	"github.com/olivier-w/drumvis/internal/media"
	"github.com/olivier-w/drumvis/internal/player"
	"github.com/olivier-w/drumvis/internal/render"
	"github.com/olivier-w/drumvis/internal/termview"
	"github.com/olivier-w/drumvis/internal/ui"
)

type cliFlags struct {
	fs         *flag.FlagSet
	configFile string
	size       int
	fps        int
	exportDir  string
	frames     int
	mirror     bool
	easing     string
	blend      string
	color      string
	smoothing  float64
	minDB      float64
	maxDB      float64
	list       bool

	blendMode render.BlendMode
	colorMode termview.Mode
}

func newFlags() *cliFlags {
	f := &cliFlags{fs: flag.NewFlagSet("drumvis", flag.ContinueOnError)}
	fs := f.fs
	fs.StringVar(&f.configFile, "config", "", "Path to config file (default: ~/.config/drumvis/config.yaml)")
	fs.IntVar(&f.size, "size", 400, "Drum surface size in pixels")
	fs.IntVar(&f.fps, "fps", 30, "Frames per second")
	fs.StringVar(&f.exportDir, "export", "", "Render frames as PNG files into this directory instead of playing")
	fs.IntVar(&f.frames, "frames", 0, "Number of frames to export (default: whole track)")
	fs.BoolVar(&f.mirror, "mirror", true, "Reflect the right half of the waveform onto the left")
	fs.StringVar(&f.easing, "easing", "", "Easing curve applied to each sample (see -list)")
	fs.StringVar(&f.blend, "blend", render.BlendAdditive.String(), "Bloom composite: additive, screen or over")
	fs.StringVar(&f.color, "color", "auto", "Terminal colors: auto, truecolor, ansi256, ansi16 or off")
	fs.Float64Var(&f.smoothing, "smoothing", analyser.DefaultSmoothing, "Spectrum smoothing time constant (0-1)")
	fs.Float64Var(&f.minDB, "min-db", analyser.DefaultMinDB, "Spectrum level drawn as silence, in dB")
	fs.Float64Var(&f.maxDB, "max-db", analyser.DefaultMaxDB, "Spectrum level drawn at full height, in dB")
	fs.BoolVar(&f.list, "list", false, "List easing curves and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: drumvis [flags] <file.mp3|.wav|.flac|.ogg|playlist>\n")
		fs.PrintDefaults()
	}
	return f
}

// parse reads args and checks the values that have no config-file home.
func (f *cliFlags) parse(args []string) error {
	if err := f.fs.Parse(args); err != nil {
		return err
	}
	if f.size < 16 || f.fps < 1 {
		return errors.New("-size must be at least 16 and -fps at least 1")
	}
	if f.smoothing < 0 || f.smoothing > 1 {
		return errors.New("-smoothing must be within 0..1")
	}
	if f.minDB >= f.maxDB {
		return errors.New("-min-db must be below -max-db")
	}
	var err error
	if f.blendMode, err = render.ParseBlendMode(f.blend); err != nil {
		return err
	}
	if f.colorMode, err = termview.ParseMode(f.color); err != nil {
		return err
	}
	return nil
}

// apply overrides cfg with the config-backed flags given on the command line.
func (f *cliFlags) apply(cfg config.RenderConfig) config.RenderConfig {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "mirror":
			cfg.Mirror = f.mirror
		case "easing":
			cfg.Easing = f.easing
		}
	})
	return cfg
}

func (f *cliFlags) analyserOptions() []analyser.Option {
	return []analyser.Option{
		analyser.WithSmoothing(f.smoothing),
		analyser.WithDecibelRange(f.minDB, f.maxDB),
	}
}

func main() {
	flags := newFlags()
	if err := flags.parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if flags.list {
		for _, name := range easing.Names() {
			fmt.Println(name)
		}
		return
	}
	if flags.fs.NArg() != 1 {
		flags.fs.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(flags.configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg = flags.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	path, err := media.Resolve(flags.fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flags.exportDir != "" {
		opts := exportOptions{
			dir:      flags.exportDir,
			frames:   flags.frames,
			fps:      flags.fps,
			size:     flags.size,
			blend:    flags.blendMode,
			analyser: flags.analyserOptions(),
		}
		if err := runExport(path, cfg, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	meta := player.ReadMetadata(path)
	spectrum := analyser.New(2, flags.analyserOptions()...)
	p, err := player.Open(path, player.WithTap(spectrum), player.WithVolume(cfg.Volume))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating player: %v\n", err)
		os.Exit(1)
	}
	defer p.Close()

	model := ui.New(p, meta, spectrum, config.NewStore(cfg), ui.Options{
		FPS:        flags.fps,
		DrumSize:   flags.size,
		ConfigPath: flags.configFile,
		Renderer:   termview.NewRendererMode(flags.colorMode),
		Blend:      flags.blendMode,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads an explicit config file strictly, or the default one
// leniently.
func loadConfig(path string) (config.RenderConfig, error) {
	if path == "" {
		return config.TryLoadDefault(), nil
	}
	return config.Load(path)
}
