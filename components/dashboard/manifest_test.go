package dashboard

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeManifest(t *testing.T) {
	const payload = `
version: "1"
title: Planning Desk
categories:
  - id: planning
sections:
  - id: overview
    mounts: [decadeChart]
  - id: master-plan
    label: Master Plan
    category: planning
    mounts: [map]
`
	doc, err := DecodeManifest(strings.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, "Planning Desk", doc.Title)
	assert.Equal(t, SectionOverview, doc.DefaultSection, "first section is the default")
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "Overview", doc.Sections[0].Label)
	assert.Equal(t, "Planning", doc.Categories[0].Label)

	category, ok := doc.CategoryOf(SectionMasterPlan)
	require.True(t, ok)
	assert.Equal(t, CategoryPlanning, category)

	category, ok = doc.CategoryOf(SectionOverview)
	require.True(t, ok)
	assert.Empty(t, category)

	_, ok = doc.CategoryOf("missing")
	assert.False(t, ok)
}

func TestDecodeManifestRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"empty":            ``,
		"unknown field":    "version: \"1\"\nwidgets: []\n",
		"no sections":      "version: \"1\"\n",
		"bad version":      "version: \"2\"\nsections: [{id: overview}]\n",
		"duplicate":        "sections: [{id: overview}, {id: overview}]\n",
		"unknown category": "sections: [{id: overview, category: planning}]\n",
		"shared mount":     "sections: [{id: a, mounts: [map]}, {id: b, mounts: [map]}]\n",
		"missing default":  "default_section: nowhere\nsections: [{id: overview}]\n",
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeManifest(strings.NewReader(payload)); err == nil {
				t.Fatalf("expected %s manifest to fail", name)
			}
		})
	}
}

func TestDefaultManifestIsValid(t *testing.T) {
	doc := DefaultPageManifest()
	require.NoError(t, doc.Validate())
	assert.Equal(t, SectionOverview, doc.DefaultSection)

	for _, def := range NewViewRegistry().Sections() {
		_, ok := doc.Section(def.ID)
		assert.True(t, ok, "section %s has no manifest entry", def.ID)
	}
}

func TestEncodeManifestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeManifest(&buf, DefaultPageManifest()))

	dir := t.TempDir()
	path := filepath.Join(dir, "page.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	doc, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Source)
	assert.Equal(t, DefaultPageManifest().Sections, doc.Sections)
}

func TestReadManifestMissingFile(t *testing.T) {
	_, err := ReadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open manifest")
}
