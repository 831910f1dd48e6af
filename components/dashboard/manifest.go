package dashboard

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// PageManifest describes the dashboard page: categories, sections and the
// mount points each section owns.
type PageManifest struct {
	Version        string             `json:"version" yaml:"version"`
	Title          string             `json:"title,omitempty" yaml:"title,omitempty"`
	DefaultSection SectionID          `json:"default_section" yaml:"default_section"`
	Categories     []ManifestCategory `json:"categories" yaml:"categories"`
	Sections       []ManifestSection  `json:"sections" yaml:"sections"`
	Source         string             `json:"-" yaml:"-"`
}

// ManifestCategory is a navigation dropdown grouping sections.
type ManifestCategory struct {
	ID     CategoryID        `json:"id" yaml:"id"`
	Label  string            `json:"label" yaml:"label"`
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// ManifestSection is one exclusively shown view.
type ManifestSection struct {
	ID       SectionID  `json:"id" yaml:"id"`
	Label    string     `json:"label" yaml:"label"`
	Category CategoryID `json:"category,omitempty" yaml:"category,omitempty"`
	Mounts   []MountID  `json:"mounts,omitempty" yaml:"mounts,omitempty"`
	// Labels holds translations keyed by locale.
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// ReadManifest loads a manifest file from disk.
func ReadManifest(path string) (*PageManifest, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*PageManifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc PageManifest
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("dashboard: manifest is empty")
		}
		return nil, fmt.Errorf("dashboard: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EncodeManifest writes the manifest as YAML.
func EncodeManifest(w io.Writer, doc *PageManifest) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("dashboard: encode manifest: %w", err)
	}
	return enc.Close()
}

// Validate ensures the manifest satisfies required fields.
func (doc *PageManifest) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("dashboard: unsupported manifest version %q", doc.Version)
	}
	categories := make(map[CategoryID]struct{}, len(doc.Categories))
	for idx, cat := range doc.Categories {
		if cat.ID == "" {
			return fmt.Errorf("dashboard: manifest category at index %d is missing id", idx)
		}
		if _, exists := categories[cat.ID]; exists {
			return fmt.Errorf("dashboard: manifest duplicates category %s", cat.ID)
		}
		categories[cat.ID] = struct{}{}
	}
	sections := make(map[SectionID]struct{}, len(doc.Sections))
	mounts := make(map[MountID]SectionID)
	for idx, section := range doc.Sections {
		if section.ID == "" {
			return fmt.Errorf("dashboard: manifest section at index %d is missing id", idx)
		}
		if _, exists := sections[section.ID]; exists {
			return fmt.Errorf("dashboard: manifest duplicates section %s", section.ID)
		}
		sections[section.ID] = struct{}{}
		if section.Category != "" {
			if _, ok := categories[section.Category]; !ok {
				return fmt.Errorf("dashboard: section %s references unknown category %s", section.ID, section.Category)
			}
		}
		for _, mount := range section.Mounts {
			if owner, taken := mounts[mount]; taken {
				return fmt.Errorf("dashboard: mount %s declared by both %s and %s", mount, owner, section.ID)
			}
			mounts[mount] = section.ID
		}
	}
	if len(doc.Sections) == 0 {
		return fmt.Errorf("dashboard: manifest declares no sections")
	}
	if _, ok := sections[doc.DefaultSection]; !ok {
		return fmt.Errorf("dashboard: default section %q is not declared", doc.DefaultSection)
	}
	return nil
}

func (doc *PageManifest) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	if doc.DefaultSection == "" && len(doc.Sections) > 0 {
		doc.DefaultSection = doc.Sections[0].ID
	}
	for i := range doc.Sections {
		if doc.Sections[i].Label == "" {
			doc.Sections[i].Label = labelFromID(string(doc.Sections[i].ID))
		}
		doc.Sections[i].Labels = normalizeLocaleMap(doc.Sections[i].Labels)
	}
	for i := range doc.Categories {
		if doc.Categories[i].Label == "" {
			doc.Categories[i].Label = labelFromID(string(doc.Categories[i].ID))
		}
		doc.Categories[i].Labels = normalizeLocaleMap(doc.Categories[i].Labels)
	}
}

// CategoryOf resolves a section's category by static membership.
func (doc *PageManifest) CategoryOf(id SectionID) (CategoryID, bool) {
	for _, section := range doc.Sections {
		if section.ID == id {
			return section.Category, true
		}
	}
	return "", false
}

// Section returns the manifest entry for id.
func (doc *PageManifest) Section(id SectionID) (ManifestSection, bool) {
	for _, section := range doc.Sections {
		if section.ID == id {
			return section, true
		}
	}
	return ManifestSection{}, false
}
