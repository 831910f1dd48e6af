package dashboard

// Layer group names.
const (
	LayerCityBounds       = "city-bounds"
	LayerJurisdiction     = "jurisdiction"
	LayerCorporations     = "corporations"
	LayerLayoutBoundaries = "layout-boundaries"
	LayerLayoutMarkers    = "layout-markers"
)

// LayoutRow is one rendered row of the layouts table.
type LayoutRow struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Location     string `json:"location"`
	Extent       string `json:"extent"`
	ApprovalDate string `json:"approval_date"`
	UseType      string `json:"use_type"`
	BadgeClass   string `json:"badge_class"`
}

// LayoutFiltersView holds the current filter inputs and their choices.
type LayoutFiltersView struct {
	Predicate Predicate     `json:"predicate"`
	Options   FilterOptions `json:"options"`
}

// DepartmentCard summarises a department.
type DepartmentCard struct {
	Name       string `json:"name"`
	Head       string `json:"head"`
	Functions  int    `json:"functions"`
	Strengths  int    `json:"strengths"`
	Weaknesses int    `json:"weaknesses"`
}

// DepartmentAnalysis is the detailed view of a department.
type DepartmentAnalysis struct {
	Name       string              `json:"name"`
	Head       string              `json:"head"`
	Functions  []StatutoryFunction `json:"functions"`
	Strengths  []string            `json:"strengths"`
	Weaknesses []string            `json:"weaknesses"`
}

// PlanToggleView is the state of the plan version switch.
type PlanToggleView struct {
	Active   string   `json:"active"`
	Versions []string `json:"versions"`
}

// PlanningDistrictsView lists the districts of the selected plan.
type PlanningDistrictsView struct {
	Version    string             `json:"version"`
	Label      string             `json:"label"`
	Districts  []PlanningDistrict `json:"districts"`
	Comparison map[string]any     `json:"comparison,omitempty"`
}

// KeyValue is a labelled value.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// BuildLayoutRows formats layouts for the table. A malformed field only
// affects its own cell.
func BuildLayoutRows(layouts []LayoutRecord) []LayoutRow {
	rows := make([]LayoutRow, len(layouts))
	for i, layout := range layouts {
		rows[i] = LayoutRow{
			ID:           layout.ID.String(),
			Name:         layout.Name.String(),
			Location:     layout.Village.String() + ", " + layout.Taluk.String(),
			Extent:       layout.ExtentOriginal.String(),
			ApprovalDate: FormatDate(layout.ApprovalDate.String()),
			UseType:      layout.UseTypeCategory.String(),
			BadgeClass:   UseBadgeClass(layout.UseTypeCategory.String()),
		}
	}
	return rows
}

func renderOverview(ws *Workspace) {
	doc, ok := Lookup[*LayoutsDocument](ws.store, SourceLayouts)
	if !ok || doc == nil || doc.Summary == nil {
		return
	}
	if doc.Summary.ByDecade.Len() > 0 {
		ws.charts.UpdateChart(ChartDecade, doc.Summary.ByDecade.Numbers())
	}
	if doc.Summary.ByUseType.Len() > 0 {
		ws.charts.UpdateChart(ChartUseType, doc.Summary.ByUseType.Numbers())
	}
}

func renderLayouts(ws *Workspace) {
	doc, ok := Lookup[*LayoutsDocument](ws.store, SourceLayouts)
	if !ok || doc == nil {
		return
	}
	if ws.page.HasMount(MountLayoutsTable) {
		rows := BuildLayoutRows(FilterLayouts(doc.Layouts, ws.predicate))
		ws.page.Replace(MountLayoutsTable, rows)
		ws.page.Replace(MountLayoutCount, len(rows))
	}
	ws.page.Replace(MountLayoutFilters, LayoutFiltersView{
		Predicate: ws.predicate,
		Options:   CollectFilterOptions(doc.Layouts),
	})
}

func renderMasterPlan(ws *Workspace) {
	if !ws.maps.Initialized(MapOverview) {
		return
	}
	ws.maps.SetLayerGroup(MapOverview, LayerCityBounds, []Shape{CityBoundsShape()})

	admin, _ := Lookup[*AdministrativeBoundaries](ws.store, SourceAdministrativeBoundaries)
	if features, ok := Lookup[*BoundaryFeatures](ws.store, SourceJurisdictionBoundary); ok {
		meta := func(string) (RegionMeta, bool) {
			if admin == nil {
				return RegionMeta{}, false
			}
			return admin.Jurisdiction, true
		}
		ws.maps.SetLayerGroup(MapOverview, LayerJurisdiction, BoundaryShapes(features, meta, ShapeStyle{
			Color:       earthColors.Dark,
			Weight:      3,
			FillOpacity: 0.05,
			Opacity:     1,
		}))
	}
	if features, ok := Lookup[*BoundaryFeatures](ws.store, SourceCorporationBoundaries); ok {
		meta := func(name string) (RegionMeta, bool) {
			if admin == nil {
				return RegionMeta{}, false
			}
			return admin.Corporation(name)
		}
		ws.maps.SetLayerGroup(MapOverview, LayerCorporations, BoundaryShapes(features, meta, ShapeStyle{
			Color:       earthColors.Accent,
			Weight:      2,
			FillColor:   earthColors.Accent,
			FillOpacity: 0.2,
			Opacity:     1,
		}))
	}
}

func renderLayoutBoundaries(ws *Workspace) {
	if !ws.maps.Initialized(MapLayouts) {
		return
	}
	boundaries, ok := Lookup[*LayoutBoundariesDocument](ws.store, SourceLayoutBoundaries)
	if !ok {
		return
	}
	layouts, _ := Lookup[*LayoutsDocument](ws.store, SourceLayouts)
	ws.maps.SetLayerGroup(MapLayouts, LayerLayoutBoundaries, LayoutBoundaryShapes(boundaries))
	ws.maps.SetLayerGroup(MapLayouts, LayerLayoutMarkers, LayoutMarkerShapes(boundaries, layouts))
}

func renderPlanningDistricts(ws *Workspace) {
	ws.page.Replace(MountPlanToggle, PlanToggleView{
		Active:   ws.plan,
		Versions: []string{PlanVersion2015, PlanVersion2031},
	})
	doc, ok := Lookup[*PlanningDistricts](ws.store, SourcePlanningDistricts)
	if !ok || doc == nil {
		return
	}
	plan, ok := doc.Version(ws.plan)
	if !ok {
		return
	}
	label := plan.Label
	if label == "" {
		label = "RMP " + ws.plan
	}
	ws.page.Replace(MountPlanningDistricts, PlanningDistrictsView{
		Version:    ws.plan,
		Label:      label,
		Districts:  plan.Districts,
		Comparison: doc.Comparison,
	})
}

func renderDepartments(ws *Workspace) {
	doc, ok := Lookup[*DepartmentsDocument](ws.store, SourceDepartments)
	if !ok || doc == nil {
		return
	}
	if ws.page.HasMount(MountDepartmentCards) {
		cards := make([]DepartmentCard, len(doc.Departments))
		for i, dept := range doc.Departments {
			card := DepartmentCard{Name: dept.Name, Head: dept.Head, Functions: len(dept.StatutoryFunctions)}
			if dept.PerformanceGap != nil {
				card.Strengths = len(dept.PerformanceGap.Strengths)
				card.Weaknesses = len(dept.PerformanceGap.Weaknesses)
			}
			cards[i] = card
		}
		ws.page.Replace(MountDepartmentCards, cards)
	}
	if ws.page.HasMount(MountDepartmentAnalysis) {
		analysis := make([]DepartmentAnalysis, len(doc.Departments))
		for i, dept := range doc.Departments {
			entry := DepartmentAnalysis{Name: dept.Name, Head: dept.Head, Functions: dept.StatutoryFunctions}
			if dept.PerformanceGap != nil {
				entry.Strengths = dept.PerformanceGap.Strengths
				entry.Weaknesses = dept.PerformanceGap.Weaknesses
			}
			analysis[i] = entry
		}
		ws.page.Replace(MountDepartmentAnalysis, analysis)
	}
	if assessment := doc.OverallAssessment; assessment != nil {
		ws.page.Replace(MountPerformanceHighlights, assessment.PerformanceHighlights)
		ws.page.Replace(MountCriticalGaps, assessment.CriticalGaps)
		ws.page.Replace(MountComplianceRating, assessment.StatutoryCompliance.Rating.String())
		ws.page.Replace(MountComplianceExplanation, assessment.StatutoryCompliance.Explanation)
		ws.page.Replace(MountRecommendations, assessment.Recommendations)
	}
	if doc.Sources != nil {
		ws.page.Replace(MountDepartmentSources, doc.Sources)
	}
}

func renderCitations(ws *Workspace) {
	doc, ok := Lookup[*CitationsDocument](ws.store, SourceCitations)
	if !ok || doc == nil {
		return
	}
	ws.page.Replace(MountSourceCitations, doc.Categories)
	ws.page.Replace(MountSourceCount, doc.Count())
}

func renderEconomic(ws *Workspace) {
	doc, ok := Lookup[*EconomicDevelopment](ws.store, SourceEconomic)
	if !ok || doc == nil {
		return
	}
	if doc.SectorPercentages.Len() > 0 {
		ws.charts.SetLabels(ChartEconomicSectors, doc.SectorPercentages.Keys)
		ws.charts.UpdateChart(ChartEconomicSectors, doc.SectorPercentages.Numbers())
	}
	ws.page.Replace(MountEconomicProjects, doc.Projects)
}

func renderAuction(ws *Workspace) {
	doc, ok := Lookup[*AuctionDocument](ws.store, SourceAuction)
	if !ok || doc == nil {
		return
	}
	ws.page.Replace(MountAuctionListings, doc.Auctions)
	summary := make([]KeyValue, 0, doc.Summary.Len())
	for _, key := range doc.Summary.Keys {
		var value Text
		if raw, ok := doc.Summary.Get(key); ok {
			_ = value.UnmarshalJSON(raw)
		}
		summary = append(summary, KeyValue{Key: labelFromID(key), Value: value.String()})
	}
	ws.page.Replace(MountAuctionSummary, summary)
}

func renderInfrastructure(ws *Workspace) {
	doc, ok := Lookup[*InfrastructureDocument](ws.store, SourceInfrastructure)
	if !ok || doc == nil {
		return
	}
	ws.page.Replace(MountInfraProjects, doc.Projects)
	ws.page.Replace(MountInfraDepartments, doc.Departments)
}
