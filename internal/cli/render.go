package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tableheatmap/pkg/errors"
	"github.com/matzehuels/tableheatmap/pkg/pipeline"
	"github.com/matzehuels/tableheatmap/pkg/table"
)

// inputFlags maps input columns to roles and carries settings overrides.
// They are shared by render, watch and preview.
type inputFlags struct {
	x, y, group string
	values      []string
	valueFormat string
	schema      string
	sheet       string
	set         []string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.x, "x", "", "column for the X axis (CategoryX)")
	fs.StringVar(&f.y, "y", "", "column for the Y axis (CategoryY)")
	fs.StringVar(&f.group, "group", "", "column that splits the chart into groups")
	fs.StringSliceVar(&f.values, "value", nil, "value column(s), the first is drawn")
	fs.StringVar(&f.valueFormat, "value-format", "", "display format of the value columns (e.g. \"#,0.00\")")
	fs.StringVar(&f.schema, "schema", "", "TOML column schema (instead of --x/--y/--group/--value)")
	fs.StringVar(&f.sheet, "sheet", "", "XLSX sheet (default first sheet)")
	fs.StringArrayVar(&f.set, "set", nil, "override a setting, e.g. --set general.colorbrewer=Blues (repeatable)")
}

// resolveSchema returns the column schema from --schema or the role flags,
// or nil when neither is given (JSON input carries its own roles).
func (f *inputFlags) resolveSchema() (*table.Schema, error) {
	inline := f.x != "" || f.y != "" || f.group != "" || len(f.values) > 0
	if f.schema != "" {
		if inline {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--schema cannot be combined with --x, --y, --group or --value")
		}
		return table.LoadSchema(f.schema)
	}
	if !inline {
		return nil, nil
	}
	s := table.NewSchema(f.x, f.y, f.group, f.values, f.valueFormat)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (f *inputFlags) readOptions() (table.ReadOptions, error) {
	s, err := f.resolveSchema()
	if err != nil {
		return table.ReadOptions{}, err
	}
	return table.ReadOptions{Schema: s, Sheet: f.sheet}, nil
}

// renderOpts holds the output flags of the render command.
type renderOpts struct {
	output    string
	formats   []string
	width     float64
	height    float64
	animate   bool
	embedFont bool
	scale     float64
	noCache   bool
	refresh   bool

	background string
	rsvg       bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var in inputFlags
	var opts renderOpts
	var formatsStr string

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a table to a heat map (SVG, PNG, PDF, JSON)",
		Long: `Render a table to a grouped heat map.

CSV, TSV and XLSX input need a column mapping, either inline
(--x, --y, --group, --value) or from a TOML schema (--schema). JSON input
in the {"columns": [...], "rows": [...]} shape carries its roles.`,
		Example: `  tableheatmap render sales.csv --x Month --y Region --group Team --value Revenue
  tableheatmap render sales.xlsx --schema sales.toml -f svg,png --set general.colorbrewer=Blues`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := errors.ValidateOutputFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &in, &opts)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "viewport width (default from config, 800)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "viewport height (default from config, 600)")
	cmd.Flags().BoolVar(&opts.animate, "animate", false, "keep the fill transitions in SVG output")
	cmd.Flags().BoolVar(&opts.embedFont, "embed-font", false, "embed the font in SVG and PDF output")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().StringVar(&opts.background, "background", "", "PNG background color (default white)")
	cmd.Flags().BoolVar(&opts.rsvg, "rsvg", false, "rasterise PNG with rsvg-convert instead of the built-in rasteriser")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when the cache has the artifacts")

	return cmd
}

// runRender reads input, renders every requested format and writes the
// artifacts next to the input unless -o says otherwise.
func (c *CLI) runRender(ctx context.Context, input string, in *inputFlags, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	cfg := c.config()

	data, err := readInput(input)
	if err != nil {
		return err
	}
	readOpts, err := in.readOptions()
	if err != nil {
		return err
	}
	objects, err := cfg.objects(in.set)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	vp := cfg.viewport(opts.width, opts.height)
	prog := newProgress(logger, "input", filepath.Base(input), "formats", strings.Join(opts.formats, ","))
	spinner := newSpinnerWithContext(ctx, "Rendering "+filepath.Base(input))
	spinner.Start()

	res, err := runner.Execute(ctx, pipeline.Options{
		Source:     input,
		Data:       data,
		Sheet:      readOpts.Sheet,
		Schema:     readOpts.Schema,
		Width:      vp.Width,
		Height:     vp.Height,
		Margin:     cfg.Margin,
		Objects:    objects,
		Formats:    opts.formats,
		Animate:    opts.animate,
		EmbedFont:  opts.embedFont,
		Scale:      opts.scale,
		Background: opts.background,
		RSVG:       opts.rsvg,
		Refresh:    opts.refresh,
		Logger:     logger,
	})
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	prog.step("rendered")

	paths, err := writeArtifacts(res.Artifacts, opts.output, input)
	if err != nil {
		spinner.StopWithError("Write failed")
		return err
	}
	prog.step("written")
	prog.done("render complete")

	spinner.StopWithSuccess("Rendered " + filepath.Base(input))
	printStats(res.Stats.Rows, res.Stats.Groups, res.Stats.Points, res.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	if res.Model != nil && res.Model.IsEmpty() {
		printWarning("Not enough data to draw: a CategoryX, CategoryY and Value column with data are required")
	}
	return nil
}

// readInput reads the whole input file.
func readInput(path string) ([]byte, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// writeArtifacts writes each artifact and returns the paths in format order.
func writeArtifacts(artifacts map[string][]byte, output, input string) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := outputPath(output, input, f, len(formats) > 1)
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath names the file for one format. A single format writes to
// output as given; several formats share output as a base path.
func outputPath(output, input, format string, multi bool) string {
	if output != "" && !multi {
		return output
	}
	return basePath(output, input) + "." + format
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. A known format
// extension on output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if errors.ValidateOutputFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
