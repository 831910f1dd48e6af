package dashboard

import "strings"

// Predicate is the combination of layout filter inputs. Empty fields do not
// constrain the result.
type Predicate struct {
	Text    string `json:"text" query:"q"`
	Taluk   string `json:"taluk" query:"taluk"`
	UseType string `json:"use_type" query:"use_type"`
	Year    string `json:"year" query:"year"`
}

// IsZero reports whether the predicate matches everything.
func (p Predicate) IsZero() bool {
	return p.Text == "" && p.Taluk == "" && p.UseType == "" && p.Year == ""
}

// Matches applies the predicate to a single record.
func (p Predicate) Matches(layout LayoutRecord) bool {
	if p.Text != "" {
		needle := strings.ToLower(p.Text)
		if !strings.Contains(strings.ToLower(layout.Name.String()), needle) &&
			!strings.Contains(strings.ToLower(layout.Village.String()), needle) {
			return false
		}
	}
	if p.Taluk != "" && layout.Taluk.String() != p.Taluk {
		return false
	}
	if p.UseType != "" && layout.UseTypeCategory.String() != p.UseType {
		return false
	}
	if p.Year != "" && layout.ApprovalYear.String() != p.Year {
		return false
	}
	return true
}

// FilterLayouts returns the records matching p in input order. The input is
// never modified.
func FilterLayouts(layouts []LayoutRecord, p Predicate) []LayoutRecord {
	out := make([]LayoutRecord, 0, len(layouts))
	for _, layout := range layouts {
		if p.Matches(layout) {
			out = append(out, layout)
		}
	}
	return out
}

// FilterOptions lists the distinct taluks, use types and years present in
// layouts, in first-seen order, for populating the filter selects.
type FilterOptions struct {
	Taluks   []string `json:"taluks"`
	UseTypes []string `json:"use_types"`
	Years    []string `json:"years"`
}

// CollectFilterOptions scans layouts once.
func CollectFilterOptions(layouts []LayoutRecord) FilterOptions {
	var opts FilterOptions
	seen := map[string]map[string]bool{"taluk": {}, "use": {}, "year": {}}
	add := func(kind, value string, into *[]string) {
		if value == "" || seen[kind][value] {
			return
		}
		seen[kind][value] = true
		*into = append(*into, value)
	}
	for _, layout := range layouts {
		add("taluk", layout.Taluk.String(), &opts.Taluks)
		add("use", layout.UseTypeCategory.String(), &opts.UseTypes)
		add("year", layout.ApprovalYear.String(), &opts.Years)
	}
	return opts
}
