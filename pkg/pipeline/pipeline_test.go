package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/tableheatmap/pkg/cache"
	"github.com/matzehuels/tableheatmap/pkg/errors"
	"github.com/matzehuels/tableheatmap/pkg/settings"
	"github.com/matzehuels/tableheatmap/pkg/table"
)

const salesCSV = `Month,Region,Team,Revenue
Jan,North,A,10
Feb,North,A,20
Jan,South,A,30
Feb,South,A,40
Jan,North,B,5
Feb,North,B,6
`

func salesOptions() Options {
	return Options{
		Source: "sales.csv",
		Data:   []byte(salesCSV),
		Schema: table.NewSchema("Month", "Region", "Team", []string{"Revenue"}, ""),
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := salesOptions()
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, table.FormatCSV, opts.InputFormat)
	assert.Equal(t, DefaultWidth, opts.Width)
	assert.Equal(t, DefaultHeight, opts.Height)
	assert.Equal(t, DefaultScale, opts.Scale)
	assert.Equal(t, []string{FormatSVG}, opts.Formats)
	assert.NotNil(t, opts.Logger)

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no input", Options{}, errors.ErrCodeInvalidInput},
		{"unknown extension", Options{Source: "sales.ods", Data: []byte("x")}, errors.ErrCodeUnsupported},
		{"bad format", Options{Table: &table.Table{}, Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			assert.True(t, errors.Is(err, tt.code), "got %v, want %s", err, tt.code)
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := salesOptions()
	opts.Animate = true
	require.NoError(t, opts.ValidateAndSetDefaults())

	svg := opts.ArtifactKeyOpts(FormatSVG, "s", "v1")
	png := opts.ArtifactKeyOpts(FormatPNG, "s", "v1")
	assert.True(t, svg.Animate)
	assert.Zero(t, svg.Scale)
	assert.False(t, png.Animate)
	assert.Equal(t, DefaultScale, png.Scale)
	assert.Empty(t, png.Rasterizer)

	opts.Background = "#000000"
	dark := opts.ArtifactKeyOpts(FormatPNG, "s", "v1")
	assert.Equal(t, "#000000", dark.Background)
	assert.Empty(t, opts.ArtifactKeyOpts(FormatSVG, "s", "v1").Background)
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRunner(c, nil, nil)
	defer r.Close()

	opts := salesOptions()
	opts.Formats = []string{FormatSVG, FormatJSON}
	res, err := r.Execute(ctx, opts)
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.False(t, res.CacheInfo.TableHit)
	assert.False(t, res.CacheInfo.RenderHit)
	assert.Equal(t, 6, res.Stats.Rows)
	assert.Equal(t, 2, res.Stats.Groups)
	assert.Equal(t, 6, res.Stats.Points)
	require.NotNil(t, res.Layout)
	assert.Len(t, res.Layout.Groups, 2)

	svg := string(res.Artifacts[FormatSVG])
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Equal(t, 6, strings.Count(svg, "<title>"))
	assert.NotContains(t, svg, "<animate")

	var doc struct {
		Width  float64 `json:"width"`
		Layout struct {
			Groups []struct {
				Name string `json:"name"`
			} `json:"groups"`
		} `json:"layout"`
	}
	require.NoError(t, json.Unmarshal(res.Artifacts[FormatJSON], &doc))
	assert.Greater(t, doc.Width, 0.0)
	assert.Equal(t, "A", doc.Layout.Groups[0].Name)

	again, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.True(t, again.CacheInfo.TableHit)
	assert.True(t, again.CacheInfo.RenderHit)
	assert.Equal(t, res.Artifacts[FormatSVG], again.Artifacts[FormatSVG])
	assert.NotEqual(t, res.ID, again.ID)

	opts.Objects = settings.Objects{"general": {"buckets": 3}}
	changed, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.False(t, changed.CacheInfo.RenderHit, "new settings must miss the artifact cache")
}

func TestExecuteRefresh(t *testing.T) {
	ctx := context.Background()
	c, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(c, nil, nil)

	opts := salesOptions()
	_, err := r.Execute(ctx, opts)
	require.NoError(t, err)

	opts.Refresh = true
	res, err := r.Execute(ctx, opts)
	require.NoError(t, err)
	assert.False(t, res.CacheInfo.TableHit)
	assert.False(t, res.CacheInfo.RenderHit)
}

func TestExecuteAnimated(t *testing.T) {
	opts := salesOptions()
	opts.Animate = true
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 6, strings.Count(string(res.Artifacts[FormatSVG]), "<animate "))
}

func TestExecuteEmptyChart(t *testing.T) {
	tbl := &table.Table{
		Columns: []table.Column{
			{Name: "x", Roles: []table.Role{table.RoleCategoryX}},
			{Name: "y", Roles: []table.Role{table.RoleCategoryY}},
		},
		Rows: [][]any{{"a", "b"}},
	}
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{
		Table:   tbl,
		Formats: []string{FormatSVG, FormatPNG, FormatJSON},
	})
	require.NoError(t, err)
	assert.Nil(t, res.Layout)
	assert.True(t, res.Model.IsEmpty())
	assert.NotContains(t, string(res.Artifacts[FormatSVG]), "<rect")
	assert.NotEmpty(t, res.Artifacts[FormatPNG])
	assert.Contains(t, string(res.Artifacts[FormatJSON]), `"empty": true`)
}

func TestExecuteInvalidSettings(t *testing.T) {
	opts := salesOptions()
	opts.Objects = settings.Objects{"general": {"buckets": "many"}}
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidSettings), "got %v", err)
}

func TestExecuteReadError(t *testing.T) {
	opts := salesOptions()
	opts.Schema = table.NewSchema("Missing", "", "", nil, "")
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidRole), "got %v", err)
}

func TestExecuteConcurrent(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := r.Execute(ctx, salesOptions())
			if err == nil {
				results[i] = res.Artifacts[FormatSVG]
			}
		}(i)
	}
	wg.Wait()

	for i, svg := range results {
		require.NotEmpty(t, svg, "run %d failed", i)
		assert.Equal(t, results[0], svg)
	}
}
