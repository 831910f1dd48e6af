package dashboard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLocalizedValueFallbacks(t *testing.T) {
	values := map[string]string{
		"kn":      "ಅವಲೋಕನ",
		"default": "Summary",
	}
	assert.Equal(t, "ಅವಲೋಕನ", ResolveLocalizedValue(values, "kn-IN", "Overview"))
	assert.Equal(t, "ಅವಲೋಕನ", ResolveLocalizedValue(values, " KN ", "Overview"))
	assert.Equal(t, "Summary", ResolveLocalizedValue(values, "fr", "Overview"))
	assert.Equal(t, "Overview", ResolveLocalizedValue(nil, "kn", "Overview"))
}

func TestManifestLocalizeResolvesLabels(t *testing.T) {
	doc, err := DecodeManifest(strings.NewReader(`
version: "1"
default_section: overview
categories:
  - id: planning
    label: Planning
    labels: {KN: ಯೋಜನೆ}
sections:
  - id: overview
    label: Overview
    labels: {kn: ಅವಲೋಕನ}
    mounts: [decadeChart]
  - id: master-plan
    category: planning
    mounts: [overviewMap]
`))
	require.NoError(t, err)

	localized := doc.Localize("kn-IN")
	assert.Equal(t, "ಅವಲೋಕನ", localized.Sections[0].Label)
	assert.Equal(t, "Master Plan", localized.Sections[1].Label)
	assert.Equal(t, "ಯೋಜನೆ", localized.Categories[0].Label)

	if doc.Sections[0].Label != "Overview" {
		t.Fatalf("expected source manifest to keep its label, got %q", doc.Sections[0].Label)
	}
	assert.Same(t, doc, doc.Localize(""))
}

func TestWorkspaceUsesViewerLocale(t *testing.T) {
	manifest := DefaultPageManifest()
	manifest.Sections[0].Labels = map[string]string{"kn": "ಅವಲೋಕನ"}

	ws := NewWorkspace(WorkspaceOptions{ID: "kn-viewer", Locale: "kn", Manifest: manifest})
	view := ws.Page().View()
	assert.Equal(t, "ಅವಲೋಕನ", view.Sections[0].Label)
}
