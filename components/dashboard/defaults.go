package dashboard

import (
	"strings"

	"github.com/ettle/strcase"
)

// Section identifiers.
const (
	SectionOverview          SectionID = "overview"
	SectionLayouts           SectionID = "layouts"
	SectionMasterPlan        SectionID = "master-plan"
	SectionPlanningDistricts SectionID = "planning-districts"
	SectionLayoutBoundaries  SectionID = "layout-boundaries"
	SectionDepartments       SectionID = "departments"
	SectionSources           SectionID = "sources"
	SectionEconomic          SectionID = "economic"
	SectionAuction           SectionID = "e-auction"
	SectionInfrastructure    SectionID = "infrastructure"
)

// Category identifiers.
const (
	CategoryPlanning   CategoryID = "planning"
	CategoryGovernance CategoryID = "governance"
	CategoryEconomy    CategoryID = "economy"
)

// Mount identifiers.
const (
	MountLayoutsTable          MountID = "layoutsTableBody"
	MountLayoutCount           MountID = "layoutCount"
	MountLayoutFilters         MountID = "layoutFilters"
	MountOverviewMap           MountID = "map"
	MountLayoutsMap            MountID = "layoutsMap"
	MountPlanToggle            MountID = "planToggle"
	MountPlanningDistricts     MountID = "planningDistricts"
	MountDepartmentCards       MountID = "departmentCardsContainer"
	MountPerformanceHighlights MountID = "performanceHighlights"
	MountCriticalGaps          MountID = "criticalGaps"
	MountDepartmentAnalysis    MountID = "departmentAnalysisContainer"
	MountComplianceRating      MountID = "complianceRating"
	MountComplianceExplanation MountID = "complianceExplanation"
	MountRecommendations       MountID = "recommendations"
	MountDepartmentSources     MountID = "departmentSources"
	MountSourceCitations       MountID = "sourceCitations"
	MountSourceCount           MountID = "sourceCount"
	MountEconomicProjects      MountID = "economicProjects"
	MountAuctionListings       MountID = "auctionListings"
	MountAuctionSummary        MountID = "auctionSummary"
	MountInfraProjects         MountID = "infrastructureProjects"
	MountInfraDepartments      MountID = "infrastructureDepartments"
)

// Base map defaults.
var (
	DefaultMapCenter = LatLng{12.9716, 77.5946}
	DefaultTileLayer = TileLayer{
		URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: "© OpenStreetMap contributors",
		MaxZoom:     18,
	}
)

const defaultMapZoom = 11

// DefaultMapDefinitions declares the overview and layouts maps.
func DefaultMapDefinitions() []MapDefinition {
	return []MapDefinition{
		{ID: MapOverview, Mount: MountOverviewMap, Center: DefaultMapCenter, Zoom: defaultMapZoom, Tiles: DefaultTileLayer},
		{ID: MapLayouts, Mount: MountLayoutsMap, Center: DefaultMapCenter, Zoom: defaultMapZoom, Tiles: DefaultTileLayer},
	}
}

// DefaultPageManifest returns the built-in page layout.
func DefaultPageManifest() *PageManifest {
	doc := &PageManifest{
		Version:        manifestVersionV1,
		Title:          "BDA Planning Dashboard",
		DefaultSection: SectionOverview,
		Categories: []ManifestCategory{
			{ID: CategoryPlanning, Label: "Planning"},
			{ID: CategoryGovernance, Label: "Governance"},
			{ID: CategoryEconomy, Label: "Economy"},
		},
		Sections: []ManifestSection{
			{ID: SectionOverview, Label: "Overview", Mounts: []MountID{"decadeChart", "useTypeChart", "populationChart", "migrationChart"}},
			{ID: SectionLayouts, Label: "Layouts", Mounts: []MountID{MountLayoutFilters, MountLayoutsTable, MountLayoutCount}},
			{ID: SectionMasterPlan, Label: "Master Plan", Category: CategoryPlanning, Mounts: []MountID{MountOverviewMap}},
			{ID: SectionPlanningDistricts, Label: "Planning Districts", Category: CategoryPlanning, Mounts: []MountID{MountPlanToggle, MountPlanningDistricts}},
			{ID: SectionLayoutBoundaries, Label: "Layout Boundaries", Category: CategoryPlanning, Mounts: []MountID{MountLayoutsMap}},
			{ID: SectionDepartments, Label: "Departments", Category: CategoryGovernance, Mounts: []MountID{
				MountDepartmentCards,
				MountPerformanceHighlights,
				MountCriticalGaps,
				MountDepartmentAnalysis,
				MountComplianceRating,
				MountComplianceExplanation,
				MountRecommendations,
				MountDepartmentSources,
			}},
			{ID: SectionSources, Label: "Data Sources", Category: CategoryGovernance, Mounts: []MountID{MountSourceCitations, MountSourceCount}},
			{ID: SectionEconomic, Label: "Economic Development", Category: CategoryEconomy, Mounts: []MountID{"economicSectorsChart", MountEconomicProjects}},
			{ID: SectionAuction, Label: "E-Auction", Category: CategoryEconomy, Mounts: []MountID{MountAuctionListings, MountAuctionSummary}},
			{ID: SectionInfrastructure, Label: "Infrastructure", Category: CategoryEconomy, Mounts: []MountID{MountInfraProjects, MountInfraDepartments}},
		},
	}
	return doc
}

// labelFromID turns "master-plan" into "Master Plan".
func labelFromID(id string) string {
	return strings.TrimSpace(strcase.ToCase(id, strcase.TitleCase, ' '))
}
