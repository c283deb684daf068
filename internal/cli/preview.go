package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tableheatmap/pkg/chart"
	"github.com/matzehuels/tableheatmap/pkg/heatmap"
	"github.com/matzehuels/tableheatmap/pkg/palette"
	"github.com/matzehuels/tableheatmap/pkg/pipeline"
	"github.com/matzehuels/tableheatmap/pkg/settings"
)

// Terminal cell geometry.
const (
	previewCellWidth  = 6
	previewLabelWidth = 12
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Preview the heat map in the terminal",
		Long: `Preview draws the grid in the terminal with the same per-group color
scales as the rendered chart.

Keys: ←/→ palette, +/- buckets, l labels, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0], &in)
		},
	}
	in.register(cmd)
	return cmd
}

func (c *CLI) runPreview(ctx context.Context, input string, in *inputFlags) error {
	readOpts, err := in.readOptions()
	if err != nil {
		return err
	}
	objects, err := c.config().objects(in.set)
	if err != nil {
		return err
	}
	s, err := settings.Parse(objects)
	if err != nil {
		return err
	}
	data, err := readInput(input)
	if err != nil {
		return err
	}

	// Reading through the runner shares the decoded-table cache with render.
	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return err
	}
	defer runner.Close()
	t, err := runner.Read(ctx, pipeline.Options{
		Source: input,
		Data:   data,
		Sheet:  readOpts.Sheet,
		Schema: readOpts.Schema,
		Logger: loggerFromContext(ctx),
	})
	if err != nil {
		return err
	}

	m := newPreviewModel(input, chart.Shape(t), s)
	final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	if pm, ok := final.(previewModel); ok {
		printNextStep("Render with these settings", pm.renderHint())
	}
	return nil
}

// =============================================================================
// previewModel - interactive grid
// =============================================================================

type previewModel struct {
	source   string
	chart    *chart.Model
	settings settings.Settings
	palettes []string
	width    int
}

func newPreviewModel(source string, m *chart.Model, s settings.Settings) previewModel {
	return previewModel{
		source:   source,
		chart:    m,
		settings: s,
		palettes: palette.Names(),
		width:    80,
	}
}

func (m previewModel) Init() tea.Cmd { return nil }

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "n":
			m.settings.General.Colorbrewer = m.cyclePalette(1)
		case "left", "p":
			m.settings.General.Colorbrewer = m.cyclePalette(-1)
		case "+", "=":
			m.settings.General.Buckets++
		case "-":
			if m.settings.General.Buckets > 1 {
				m.settings.General.Buckets--
			}
		case "l":
			m.settings.Labels.Show = !m.settings.Labels.Show
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

// cyclePalette returns the palette step places away from the current one.
func (m previewModel) cyclePalette(step int) string {
	cur := m.settings.General.Colorbrewer
	if cur == "" {
		cur = palette.Default
	}
	i := slices.Index(m.palettes, cur)
	if i < 0 {
		i = 0
	}
	n := len(m.palettes)
	return m.palettes[((i+step)%n+n)%n]
}

func (m previewModel) View() string {
	var b strings.Builder

	name, buckets := palette.Resolve(m.settings.General.Colorbrewer, m.settings.General.Buckets)
	b.WriteString(StyleTitle.Render(m.source))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%s · %d buckets", name, buckets)))
	if asked := m.settings.General.Colorbrewer; (asked != "" && asked != name) || buckets != m.settings.General.Buckets {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("  (asked %s/%d)", m.settings.General.Colorbrewer, m.settings.General.Buckets)))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ palette  +/- buckets  l labels  q quit"))
	b.WriteString("\n\n")

	if m.chart.IsEmpty() {
		b.WriteString(StyleWarning.Render("Not enough data to draw."))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(m.grid())
	return b.String()
}

// grid lays the groups out side by side, wrapping when they exceed the
// terminal width.
func (m previewModel) grid() string {
	blocks := make([]string, 0, len(m.chart.Groups))
	for _, g := range m.chart.Groups {
		blocks = append(blocks, m.groupBlock(g))
	}

	yLabels := make([]string, 0, len(m.chart.CategoryY)+2)
	yLabels = append(yLabels, "", "")
	for _, y := range m.chart.CategoryY {
		yLabels = append(yLabels, fit(y, previewLabelWidth))
	}
	labelCol := lipgloss.NewStyle().Width(previewLabelWidth + 1).Render(strings.Join(yLabels, "\n"))

	var rows []string
	line := []string{labelCol}
	used := previewLabelWidth + 1
	for _, blk := range blocks {
		w := lipgloss.Width(blk) + 2
		if used+w > m.width && len(line) > 1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, line...))
			line, used = []string{labelCol}, previewLabelWidth+1
		}
		line = append(line, blk, "  ")
		used += w
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, line...))
	return strings.Join(rows, "\n\n") + "\n"
}

// groupBlock renders one group: its name, X labels and colored cells.
func (m previewModel) groupBlock(g *chart.Group) string {
	gs := heatmap.NewGroupScale(g, m.settings)
	width := len(g.CategoryX) * previewCellWidth

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Width(width).Render(fit(g.Name, width)))
	b.WriteString("\n")
	for _, x := range g.CategoryX {
		b.WriteString(StyleDim.Render(pad(fit(x, previewCellWidth-1), previewCellWidth)))
	}

	cells := make(map[[2]int]chart.DataPoint, len(g.DataPoints))
	for _, p := range g.DataPoints {
		cells[[2]int{g.IndexX(p.CategoryX), m.chart.IndexY(p.CategoryY)}] = p
	}
	for yi := range m.chart.CategoryY {
		b.WriteString("\n")
		for xi := range g.CategoryX {
			p, ok := cells[[2]int{xi, yi}]
			if !ok {
				b.WriteString(strings.Repeat(" ", previewCellWidth))
				continue
			}
			text := ""
			if m.settings.Labels.Show {
				text = fit(p.Text(), previewCellWidth-1)
			}
			b.WriteString(swatch(gs.Color(xi), pad(text, previewCellWidth-1)))
			b.WriteString(" ")
		}
	}
	return b.String()
}

// renderHint returns the render command reproducing the preview's settings.
func (m previewModel) renderHint() string {
	args := []string{appName, "render", m.source}
	if m.settings.General.Colorbrewer != "" {
		args = append(args, "--set", "general.colorbrewer="+m.settings.General.Colorbrewer)
	}
	args = append(args, "--set", fmt.Sprintf("general.buckets=%d", m.settings.General.Buckets))
	if m.settings.Labels.Show {
		args = append(args, "--set", "labels.show=true")
	}
	return strings.Join(args, " ")
}

// fit truncates s to n runes with a trailing ellipsis.
func fit(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func pad(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}
