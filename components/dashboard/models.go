package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LayoutRecord is one approved layout.
type LayoutRecord struct {
	ID              Text `json:"id"`
	Name            Text `json:"name"`
	Village         Text `json:"village"`
	Taluk           Text `json:"taluk"`
	ExtentOriginal  Text `json:"extent_original"`
	ApprovalDate    Text `json:"approval_date"`
	ApprovalYear    Text `json:"approval_year"`
	UseTypeCategory Text `json:"use_type_category"`

	// Fields keeps every key of the source record in document order.
	Fields OrderedObject `json:"-"`
}

// UnmarshalJSON decodes the typed fields and keeps the ordered original.
func (r *LayoutRecord) UnmarshalJSON(data []byte) error {
	type plain LayoutRecord
	var typed plain
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}
	var fields OrderedObject
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*r = LayoutRecord(typed)
	r.Fields = fields
	return nil
}

// LayoutSummary carries the precomputed aggregates of the layouts source.
type LayoutSummary struct {
	TotalLayouts Text          `json:"total_layouts"`
	ByDecade     OrderedObject `json:"by_decade"`
	ByUseType    OrderedObject `json:"by_use_type"`
}

// LayoutsDocument is the layouts source (all or sample variant).
type LayoutsDocument struct {
	Metadata map[string]any `json:"metadata,omitempty"`
	Summary  *LayoutSummary `json:"summary,omitempty"`
	Layouts  []LayoutRecord `json:"layouts"`
}

// LayoutBoundary is a layout polygon. Coordinates are [lat, lng] pairs.
type LayoutBoundary struct {
	Name        string       `json:"layout_name"`
	Number      Text         `json:"layout_number"`
	Coordinates [][2]float64 `json:"coordinates"`
	Area        Text         `json:"area,omitempty"`
	Taluk       string       `json:"taluk,omitempty"`
}

// LayoutBoundariesDocument accepts either a bare array or an object wrapping it.
type LayoutBoundariesDocument struct {
	Boundaries []LayoutBoundary `json:"boundaries"`
}

// UnmarshalJSON supports `[...]`, `{"boundaries": [...]}` and `{"layouts": [...]}`.
func (d *LayoutBoundariesDocument) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &d.Boundaries)
	}
	var wrapped struct {
		Boundaries []LayoutBoundary `json:"boundaries"`
		Layouts    []LayoutBoundary `json:"layouts"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	d.Boundaries = wrapped.Boundaries
	if len(d.Boundaries) == 0 {
		d.Boundaries = wrapped.Layouts
	}
	return nil
}

// RegionMeta is the display metadata of an administrative region.
type RegionMeta struct {
	Name        string         `json:"name"`
	Color       string         `json:"color"`
	Description string         `json:"description,omitempty"`
	AreaSqKm    Text           `json:"area_sq_km,omitempty"`
	Wards       Text           `json:"wards,omitempty"`
	Population  Text           `json:"population,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
}

// AdministrativeBoundaries holds the outer jurisdiction and the inner
// corporations. Geometry lives in the two GeoJSON sources.
type AdministrativeBoundaries struct {
	Jurisdiction RegionMeta   `json:"jurisdiction"`
	Corporations []RegionMeta `json:"corporations"`
}

// Corporation returns the metadata for a corporation by name.
func (b AdministrativeBoundaries) Corporation(name string) (RegionMeta, bool) {
	for _, corp := range b.Corporations {
		if corp.Name == name {
			return corp, true
		}
	}
	return RegionMeta{}, false
}

// PlanningDistrict is one district of a plan version.
type PlanningDistrict struct {
	ID       Text     `json:"id"`
	Name     string   `json:"name"`
	Wards    []Text   `json:"wards,omitempty"`
	Villages []string `json:"villages,omitempty"`
}

// PlanVersion is one revised master plan.
type PlanVersion struct {
	Label      string             `json:"label,omitempty"`
	Districts  []PlanningDistrict `json:"districts"`
	Categories map[string]any     `json:"ring_categories,omitempty"`
}

// PlanningDistricts holds both plan versions and their comparison.
type PlanningDistricts struct {
	RMP2015    PlanVersion    `json:"rmp_2015"`
	RMP2031    PlanVersion    `json:"rmp_2031"`
	Comparison map[string]any `json:"comparison,omitempty"`
}

// Version returns the plan for "2015" or "2031".
func (p PlanningDistricts) Version(version string) (PlanVersion, bool) {
	switch version {
	case PlanVersion2015:
		return p.RMP2015, true
	case PlanVersion2031:
		return p.RMP2031, true
	default:
		return PlanVersion{}, false
	}
}

const (
	PlanVersion2015 = "2015"
	PlanVersion2031 = "2031"
)

// StatutoryFunction is one function a department performs under the Act.
type StatutoryFunction struct {
	Function    string `json:"function"`
	Description string `json:"description"`
	ActSection  Text   `json:"act_section"`
}

// PerformanceGap lists strengths and weaknesses of a department.
type PerformanceGap struct {
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// Department is one BDA department.
type Department struct {
	Name               string              `json:"name"`
	Head               string              `json:"head"`
	StatutoryFunctions []StatutoryFunction `json:"statutory_functions"`
	PerformanceGap     *PerformanceGap     `json:"performance_gap,omitempty"`
}

// ComplianceRating is the aggregate statutory compliance rating.
type ComplianceRating struct {
	Rating      Text   `json:"rating"`
	Explanation string `json:"explanation"`
}

// OverallAssessment summarises the departments.
type OverallAssessment struct {
	StatutoryCompliance   ComplianceRating `json:"statutory_compliance"`
	PerformanceHighlights []string         `json:"performance_highlights"`
	CriticalGaps          []string         `json:"critical_gaps"`
	Recommendations       []string         `json:"recommendations"`
}

// DepartmentSource is a reference cited by the departments document.
type DepartmentSource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// DepartmentsDocument is the departments source.
type DepartmentsDocument struct {
	Departments       []Department       `json:"departments"`
	OverallAssessment *OverallAssessment `json:"overall_assessment,omitempty"`
	Sources           []DepartmentSource `json:"sources,omitempty"`
}

// Citation is one data source used by the dashboard.
type Citation struct {
	Title        string   `json:"title"`
	Organization string   `json:"organization"`
	Coverage     string   `json:"coverage"`
	Year         Text     `json:"year,omitempty"`
	Note         string   `json:"note,omitempty"`
	URL          string   `json:"url"`
	UsedIn       []string `json:"used_in,omitempty"`
}

// CitationCategory groups citations.
type CitationCategory struct {
	Name    string     `json:"name"`
	Sources []Citation `json:"sources"`
}

// CitationsDocument is the sources source. It accepts either
// `{"categories": [{"name", "sources"}]}` or an object keyed by category.
type CitationsDocument struct {
	Categories []CitationCategory `json:"categories"`
}

// UnmarshalJSON decodes both supported layouts of the sources document.
func (d *CitationsDocument) UnmarshalJSON(data []byte) error {
	var listed struct {
		Categories []CitationCategory `json:"categories"`
	}
	if err := json.Unmarshal(data, &listed); err == nil && len(listed.Categories) > 0 {
		d.Categories = listed.Categories
		return nil
	}
	var keyed OrderedObject
	if err := json.Unmarshal(data, &keyed); err != nil {
		return err
	}
	d.Categories = d.Categories[:0]
	for _, key := range keyed.Keys {
		raw := keyed.Values[key]
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '[' {
			continue
		}
		var citations []Citation
		if err := json.Unmarshal(raw, &citations); err != nil {
			return fmt.Errorf("dashboard: decode citations %q: %w", key, err)
		}
		d.Categories = append(d.Categories, CitationCategory{Name: key, Sources: citations})
	}
	return nil
}

// Count returns the number of citations across categories.
func (d CitationsDocument) Count() int {
	total := 0
	for _, cat := range d.Categories {
		total += len(cat.Sources)
	}
	return total
}

// Project is a development or infrastructure project.
type Project struct {
	Name        string `json:"name"`
	Department  string `json:"department,omitempty"`
	Status      string `json:"status,omitempty"`
	Budget      Text   `json:"budget,omitempty"`
	Investment  Text   `json:"investment,omitempty"`
	Completion  Text   `json:"completion,omitempty"`
	Description string `json:"description,omitempty"`
}

// EconomicDevelopment is the economic-development source.
type EconomicDevelopment struct {
	SectorPercentages OrderedObject `json:"sector_percentages"`
	Projects          []Project     `json:"projects"`
	Highlights        []string      `json:"highlights,omitempty"`
}

// AuctionListing is one e-auction site.
type AuctionListing struct {
	ID           Text   `json:"id"`
	Site         string `json:"site"`
	Location     string `json:"location"`
	Area         Text   `json:"area"`
	ReservePrice Text   `json:"reserve_price"`
	Status       string `json:"status"`
	Date         string `json:"date"`
}

// AuctionDocument is the e-auction source.
type AuctionDocument struct {
	Auctions []AuctionListing `json:"auctions"`
	Summary  OrderedObject    `json:"summary"`
}

// DepartmentFunctions lists the functions an infrastructure department runs.
type DepartmentFunctions struct {
	Name      string   `json:"name"`
	Functions []string `json:"functions"`
}

// InfrastructureDocument is the infrastructure source.
type InfrastructureDocument struct {
	Projects    []Project             `json:"projects"`
	Departments []DepartmentFunctions `json:"departments"`
}
