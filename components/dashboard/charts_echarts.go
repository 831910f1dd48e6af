package dashboard

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "320px"

var sharedChartCache = NewChartCache(5 * time.Minute)

// ChartHTMLRenderer turns chart instances into embeddable HTML.
type ChartHTMLRenderer interface {
	RenderChart(chart ChartInstance) (string, error)
}

// EChartsRenderer renders chart instances server side with go-echarts.
type EChartsRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
	height     string
}

// EChartsOption customizes renderer behavior.
type EChartsOption func(*EChartsRenderer)

// WithChartCache injects a render cache.
func WithChartCache(cache RenderCache) EChartsOption {
	return func(r *EChartsRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets the chart theme (defaults to Essos).
func WithChartTheme(theme string) EChartsOption {
	return func(r *EChartsRenderer) {
		if theme != "" {
			r.theme = theme
		}
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) EChartsOption {
	return func(r *EChartsRenderer) {
		r.assetsHost = host
	}
}

// WithChartHeight overrides the rendered chart height.
func WithChartHeight(height string) EChartsOption {
	return func(r *EChartsRenderer) {
		if height != "" {
			r.height = height
		}
	}
}

// NewEChartsRenderer builds a renderer with the shared cache.
func NewEChartsRenderer(opts ...EChartsOption) *EChartsRenderer {
	r := &EChartsRenderer{
		cache:  sharedChartCache,
		theme:  types.ThemeEssos,
		height: defaultChartHeight,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderChart returns the chart markup, memoized on the chart content.
func (r *EChartsRenderer) RenderChart(chart ChartInstance) (string, error) {
	renderFn := func() (string, error) {
		return r.render(chart)
	}
	if r.cache == nil {
		return renderFn()
	}
	key := fmt.Sprintf("%s:%s:%s:%s", chart.Name, chart.Kind, r.theme, contentHash(chart.ChartDefinition))
	return r.cache.GetOrRender(key, renderFn)
}

func (r *EChartsRenderer) render(chart ChartInstance) (string, error) {
	switch chart.Kind {
	case ChartBar:
		return r.renderBarChart(chart, false)
	case ChartHorizontalBar:
		return r.renderBarChart(chart, true)
	case ChartLine:
		return r.renderLineChart(chart)
	case ChartPie:
		return r.renderPieChart(chart, nil)
	case ChartDoughnut:
		return r.renderPieChart(chart, []string{"40%", "70%"})
	default:
		return "", fmt.Errorf("unsupported chart type: %s", chart.Kind)
	}
}

func (r *EChartsRenderer) renderBarChart(chart ChartInstance, horizontal bool) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalChartOptions(chart, false)...)
	bar.SetXAxis(chart.Labels)
	for _, ds := range chart.Datasets {
		bar.AddSeries(ds.Label, toBarData(chart.Labels, ds))
	}
	if horizontal {
		bar.XYReversal()
	}
	return renderChart(bar)
}

func (r *EChartsRenderer) renderLineChart(chart ChartInstance) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(r.globalChartOptions(chart, false)...)
	line.SetXAxis(chart.Labels)
	for _, ds := range chart.Datasets {
		series := []charts.SeriesOpts{charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)})}
		if len(ds.Colors) > 0 {
			series = append(series, charts.WithItemStyleOpts(opts.ItemStyle{Color: ds.Colors[0]}))
		}
		line.AddSeries(ds.Label, toLineData(chart.Labels, ds.Data), series...)
	}
	return renderChart(line)
}

func (r *EChartsRenderer) renderPieChart(chart ChartInstance, radius []string) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(r.globalChartOptions(chart, true)...)
	for _, ds := range chart.Datasets {
		var series []charts.SeriesOpts
		if radius != nil {
			series = append(series, charts.WithPieChartOpts(opts.PieChart{Radius: radius}))
		}
		pie.AddSeries(ds.Label, toPieData(chart.Labels, ds), series...)
	}
	return renderChart(pie)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *EChartsRenderer) globalChartOptions(chart ChartInstance, legend bool) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:   r.theme,
		Width:   "100%",
		Height:  r.height,
		ChartID: string(chart.Mount),
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	subtitle := ""
	if chart.Unit != "" {
		subtitle = "Values in " + chart.Unit
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: chart.Title, Subtitle: subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(legend)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func colorAt(colors []string, i int) string {
	if len(colors) == 0 {
		return ""
	}
	return colors[i%len(colors)]
}

func labelAt(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return fmt.Sprintf("Item %d", i+1)
}

func toBarData(labels []string, ds ChartDataset) []opts.BarData {
	data := make([]opts.BarData, len(ds.Data))
	for i, value := range ds.Data {
		data[i] = opts.BarData{
			Name:  labelAt(labels, i),
			Value: value,
		}
		if color := colorAt(ds.Colors, i); color != "" {
			data[i].ItemStyle = &opts.ItemStyle{Color: color}
		}
	}
	return data
}

func toLineData(labels []string, values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, value := range values {
		data[i] = opts.LineData{
			Name:  labelAt(labels, i),
			Value: value,
		}
	}
	return data
}

func toPieData(labels []string, ds ChartDataset) []opts.PieData {
	data := make([]opts.PieData, len(ds.Data))
	for i, value := range ds.Data {
		data[i] = opts.PieData{
			Name:  labelAt(labels, i),
			Value: value,
		}
		if color := colorAt(ds.Colors, i); color != "" {
			data[i].ItemStyle = &opts.ItemStyle{Color: color}
		}
	}
	return data
}

// contentHash returns a deterministic hash for a chart configuration.
func contentHash(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
