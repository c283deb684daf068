package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tableheatmap/pkg/heatmap"
	"github.com/matzehuels/tableheatmap/pkg/render/sink"
	"github.com/matzehuels/tableheatmap/pkg/surface"
	"github.com/matzehuels/tableheatmap/pkg/table"
)

// defaultDebounce coalesces the burst of events editors emit on save.
const defaultDebounce = 150 * time.Millisecond

type watchOpts struct {
	output   string
	width    float64
	height   float64
	animate  bool
	duration time.Duration
	debounce time.Duration
}

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var in inputFlags
	opts := watchOpts{debounce: defaultDebounce}

	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-render an SVG whenever the input or schema changes",
		Long: `Watch renders the input once and then again on every change to the
input file or the --schema file. A change that fails to read keeps the
last good image.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), args[0], &in, &opts)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output SVG (default: input name with .svg)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "viewport width (default from config, 800)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "viewport height (default from config, 600)")
	cmd.Flags().BoolVar(&opts.animate, "animate", true, "animate cells to their new colors")
	cmd.Flags().DurationVar(&opts.duration, "duration", time.Second, "length of the color transition")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", opts.debounce, "wait this long after a change before re-rendering")

	return cmd
}

// watcher keeps one visual alive across updates, the way a host re-feeds
// the same visual on every data change.
type watcher struct {
	input  string
	output string
	in     *inputFlags
	vp     heatmap.Viewport
	svg    []sink.SVGOption
	visual *heatmap.Visual
	cfg    *Config
	logger *log.Logger
}

func (c *CLI) runWatch(ctx context.Context, input string, in *inputFlags, opts *watchOpts) error {
	logger := loggerFromContext(ctx)
	cfg := c.config()

	var rendererOpts []heatmap.Option
	if cfg.Margin != nil {
		rendererOpts = append(rendererOpts, heatmap.WithMargin(*cfg.Margin))
	}
	var svgOpts []sink.SVGOption
	if opts.animate {
		rendererOpts = append(rendererOpts, heatmap.WithAnimationDuration(opts.duration))
		svgOpts = append(svgOpts, sink.WithAnimations())
	} else {
		rendererOpts = append(rendererOpts, heatmap.WithSuppressAnimations())
	}

	w := &watcher{
		input:  input,
		output: outputPath(opts.output, input, "svg", false),
		in:     in,
		vp:     cfg.viewport(opts.width, opts.height),
		svg:    svgOpts,
		visual: heatmap.NewVisual(surface.New(), rendererOpts...),
		cfg:    cfg,
		logger: logger,
	}

	if err := w.update(); err != nil {
		return err
	}
	printFile(w.output)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	// Directories are watched so editors that replace the file on save
	// keep being seen.
	watched := map[string]bool{filepath.Clean(input): true}
	if in.schema != "" {
		watched[filepath.Clean(in.schema)] = true
	}
	dirs := map[string]bool{}
	for p := range watched {
		dirs[filepath.Dir(p)] = true
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}

	printInfo("Watching %s (ctrl+c to stop)", input)

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(ev.Name)] {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				logger.Debug("change", "file", ev.Name, "op", ev.Op.String())
				fire = time.After(opts.debounce)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		case <-fire:
			fire = nil
			if err := w.update(); err != nil {
				printError("%s", err)
			}
		}
	}
}

// update reads the input, feeds it to the visual and writes the SVG. On
// error the previous output stays in place.
func (w *watcher) update() error {
	prog := newProgress(w.logger, "input", filepath.Base(w.input))
	readOpts, err := w.in.readOptions()
	if err != nil {
		return err
	}
	objects, err := w.cfg.objects(w.in.set)
	if err != nil {
		return err
	}
	t, err := table.Read(w.input, readOpts)
	if err != nil {
		return err
	}
	prog.step("read")
	if _, err := w.visual.Update(t, w.vp, objects); err != nil {
		return err
	}
	prog.step("drawn")
	if err := writeFileAtomic(w.output, sink.RenderSVG(w.visual.Surface(), w.svg...)); err != nil {
		return err
	}

	m := w.visual.Model()
	printSuccess("Updated %s", filepath.Base(w.output))
	printStats(len(t.Rows), len(m.Groups), m.PointCount(), false)
	prog.done("update complete")
	return nil
}

// writeFileAtomic writes through a temp file so viewers never see a
// partial SVG.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tableheatmap-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
