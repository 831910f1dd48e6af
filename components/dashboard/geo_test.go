package dashboard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBoundaryFeatures(t *testing.T) {
	payload, err := decodeBoundaryFeatures([]byte(fixtureCorporations))
	require.NoError(t, err)
	features, ok := payload.(*BoundaryFeatures)
	require.True(t, ok)
	require.Len(t, features.Features, 2)
	assert.Equal(t, "Bengaluru Central", features.Features[0].Name)
	assert.Equal(t, "feature-0", features.Features[0].ID)

	rings := Rings(features.Features[0].Geometry)
	require.Len(t, rings, 1)
	assert.Equal(t, LatLng{12.95, 77.55}, rings[0][0], "GeoJSON lng/lat is flipped to lat/lng")
}

func TestBoundaryShapesUseRegionMeta(t *testing.T) {
	payload, err := decodeBoundaryFeatures([]byte(fixtureCorporations))
	require.NoError(t, err)
	meta := func(name string) (RegionMeta, bool) {
		if name == "Bengaluru Central" {
			return RegionMeta{Name: name, Color: "#123456", Wards: "63"}, true
		}
		return RegionMeta{}, false
	}
	shapes := BoundaryShapes(payload.(*BoundaryFeatures), meta, ShapeStyle{Color: "#999", FillOpacity: 0.2})
	require.Len(t, shapes, 2)
	assert.Equal(t, "#123456", shapes[0].Style.Color)
	assert.Equal(t, "#123456", shapes[0].Style.FillColor)
	assert.Contains(t, shapes[0].Popup.Lines, "Wards: 63")
	assert.Equal(t, "#999", shapes[1].Style.Color, "regions without metadata keep the fallback style")
	assert.Equal(t, "Bengaluru North", shapes[1].Popup.Title)
}

func TestCentroid(t *testing.T) {
	centre, ok := Centroid([]LatLng{{0, 0}, {0, 2}, {2, 2}, {2, 0}})
	require.True(t, ok)
	assert.InDelta(t, 1, centre.Lat(), 1e-9)
	assert.InDelta(t, 1, centre.Lng(), 1e-9)

	_, ok = Centroid(nil)
	assert.False(t, ok)
}

func TestLayoutMarkerShapesColourByUseType(t *testing.T) {
	var boundaries LayoutBoundariesDocument
	require.NoError(t, json.Unmarshal(fixtureFS()["layouts-boundaries.json"].Data, &boundaries))
	var layouts LayoutsDocument
	require.NoError(t, json.Unmarshal([]byte(fixtureLayouts), &layouts))

	markers := LayoutMarkerShapes(&boundaries, &layouts)
	require.Len(t, markers, 2)
	assert.Equal(t, ShapeCircleMarker, markers[0].Kind)
	assert.Equal(t, "blue", markers[0].Style.FillColor)
	assert.Equal(t, "red", markers[1].Style.FillColor)
	assert.Equal(t, 6.0, markers[1].Style.Radius)
	assert.Equal(t, "#fff", markers[1].Style.Color)
	assert.Equal(t, 0.8, markers[1].Style.FillOpacity)

	withoutLayouts := LayoutMarkerShapes(&boundaries, nil)
	assert.Equal(t, "blue", withoutLayouts[1].Style.FillColor)

	polygons := LayoutBoundaryShapes(&boundaries)
	require.Len(t, polygons, 2)
	assert.Equal(t, "layout-L1", polygons[0].ID)
	assert.Equal(t, 0.3, polygons[0].Style.FillOpacity)
}

func TestMapGeoJSON(t *testing.T) {
	maps := NewMapSet(DefaultMapDefinitions()...)
	require.NoError(t, maps.Initialize(MapOverview))
	maps.SetLayerGroup(MapOverview, LayerCityBounds, []Shape{CityBoundsShape()})
	view, _ := maps.View(MapOverview)

	raw, err := MapGeoJSON(view)
	require.NoError(t, err)
	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			ID         string         `json:"id"`
			Geometry   map[string]any `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 1)
	assert.Equal(t, "city-bounds:city-bounds", doc.Features[0].ID)
	assert.Equal(t, "Polygon", doc.Features[0].Geometry["type"])
	assert.Equal(t, "rectangle", doc.Features[0].Properties["kind"])
}
