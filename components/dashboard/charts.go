package dashboard

// Chart instance names.
const (
	ChartDecade          = "decade"
	ChartUseType         = "useType"
	ChartPopulation      = "population"
	ChartMigration       = "migration"
	ChartEconomicSectors = "economicSectors"
)

// ChartKind selects how a chart instance is drawn.
type ChartKind string

const (
	ChartBar           ChartKind = "bar"
	ChartHorizontalBar ChartKind = "horizontal_bar"
	ChartLine          ChartKind = "line"
	ChartDoughnut      ChartKind = "doughnut"
	ChartPie           ChartKind = "pie"
)

var earthColors = struct {
	Primary, Secondary, Accent, Light, Dark string
}{
	Primary:   "#8b6f47",
	Secondary: "#7a8c5e",
	Accent:    "#c85a36",
	Light:     "#d4c9ba",
	Dark:      "#2a1f17",
}

// ChartDataset is one series of a chart.
type ChartDataset struct {
	Label  string    `json:"label"`
	Data   []float64 `json:"data"`
	Colors []string  `json:"colors,omitempty"`
}

// ChartDefinition is the static configuration a chart instance starts from.
type ChartDefinition struct {
	Name     string         `json:"name"`
	Kind     ChartKind      `json:"kind"`
	Title    string         `json:"title"`
	Mount    MountID        `json:"mount"`
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
	Unit     string         `json:"unit,omitempty"`
}

// ChartInstance is a live chart. Its configuration never changes after
// creation; only dataset numbers are replaced.
type ChartInstance struct {
	ChartDefinition
	Revision uint64 `json:"revision"`
}

// ChartSet owns the chart instances of a workspace. Access is serialised by
// the workspace dispatcher.
type ChartSet struct {
	charts map[string]*ChartInstance
	order  []string
}

// NewChartSet creates one instance per definition.
func NewChartSet(defs ...ChartDefinition) *ChartSet {
	set := &ChartSet{charts: make(map[string]*ChartInstance, len(defs))}
	for _, def := range defs {
		if _, exists := set.charts[def.Name]; !exists {
			set.order = append(set.order, def.Name)
		}
		set.charts[def.Name] = &ChartInstance{ChartDefinition: cloneChartDefinition(def)}
	}
	return set
}

// UpdateChart replaces the numbers of the first len(values) datasets and
// requests a redraw. Unknown charts are ignored.
func (s *ChartSet) UpdateChart(name string, values ...[]float64) bool {
	chart, ok := s.charts[name]
	if !ok || len(values) == 0 {
		return false
	}
	for i, data := range values {
		if i >= len(chart.Datasets) {
			break
		}
		chart.Datasets[i].Data = append([]float64(nil), data...)
	}
	chart.Revision++
	return true
}

// SetLabels replaces the category labels of a chart whose categories come
// from data rather than static configuration.
func (s *ChartSet) SetLabels(name string, labels []string) bool {
	chart, ok := s.charts[name]
	if !ok {
		return false
	}
	chart.Labels = append([]string(nil), labels...)
	chart.Revision++
	return true
}

// Chart returns a copy of a chart instance.
func (s *ChartSet) Chart(name string) (ChartInstance, bool) {
	chart, ok := s.charts[name]
	if !ok {
		return ChartInstance{}, false
	}
	return ChartInstance{ChartDefinition: cloneChartDefinition(chart.ChartDefinition), Revision: chart.Revision}, true
}

// Charts copies every instance in creation order.
func (s *ChartSet) Charts() []ChartInstance {
	out := make([]ChartInstance, 0, len(s.order))
	for _, name := range s.order {
		chart, _ := s.Chart(name)
		out = append(out, chart)
	}
	return out
}

func cloneChartDefinition(def ChartDefinition) ChartDefinition {
	out := def
	out.Labels = append([]string(nil), def.Labels...)
	out.Datasets = make([]ChartDataset, len(def.Datasets))
	for i, ds := range def.Datasets {
		out.Datasets[i] = ChartDataset{
			Label:  ds.Label,
			Data:   append([]float64(nil), ds.Data...),
			Colors: append([]string(nil), ds.Colors...),
		}
	}
	return out
}

// DefaultChartDefinitions returns the static placeholder charts.
func DefaultChartDefinitions() []ChartDefinition {
	return []ChartDefinition{
		{
			Name:   ChartDecade,
			Kind:   ChartBar,
			Title:  "Layouts Approved by Decade",
			Mount:  "decadeChart",
			Labels: []string{"1970s", "1980s", "1990s", "2000s", "2010s", "2020s"},
			Datasets: []ChartDataset{{
				Label:  "Layouts Approved",
				Data:   []float64{48, 195, 287, 245, 156, 86},
				Colors: []string{earthColors.Primary},
			}},
		},
		{
			Name:   ChartUseType,
			Kind:   ChartDoughnut,
			Title:  "Layouts by Use Type",
			Mount:  "useTypeChart",
			Labels: []string{"Residential", "Industrial", "Commercial"},
			Datasets: []ChartDataset{{
				Label:  "Layouts",
				Data:   []float64{934, 51, 32},
				Colors: []string{earthColors.Primary, earthColors.Secondary, earthColors.Accent},
			}},
		},
		{
			Name:   ChartPopulation,
			Kind:   ChartLine,
			Title:  "Population Growth",
			Mount:  "populationChart",
			Labels: []string{"1971", "1981", "1991", "2001", "2011", "2021", "2031"},
			Datasets: []ChartDataset{{
				Label:  "Population (Millions)",
				Data:   []float64{1.7, 2.9, 4.1, 5.7, 8.5, 13.6, 20.0},
				Colors: []string{earthColors.Accent},
			}},
			Unit: "millions",
		},
		{
			Name:   ChartMigration,
			Kind:   ChartHorizontalBar,
			Title:  "Reasons for Migration",
			Mount:  "migrationChart",
			Labels: []string{"Work/Employment", "Marriage", "Family Move", "Education", "Other"},
			Datasets: []ChartDataset{{
				Label:  "Percentage",
				Data:   []float64{35, 25, 15, 12, 13},
				Colors: []string{earthColors.Secondary},
			}},
			Unit: "%",
		},
		{
			Name:   ChartEconomicSectors,
			Kind:   ChartPie,
			Title:  "Economic Sectors",
			Mount:  "economicSectorsChart",
			Labels: []string{"Services", "Industry", "Agriculture"},
			Datasets: []ChartDataset{{
				Label:  "Share (%)",
				Data:   []float64{65, 30, 5},
				Colors: []string{earthColors.Primary, earthColors.Secondary, earthColors.Accent, earthColors.Light, earthColors.Dark},
			}},
			Unit: "%",
		},
	}
}
