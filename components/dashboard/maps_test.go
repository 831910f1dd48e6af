package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareShape(id string) Shape {
	return Shape{
		ID:     id,
		Kind:   ShapePolygon,
		Points: []LatLng{{12.9, 77.5}, {12.9, 77.6}, {13.0, 77.6}, {13.0, 77.5}},
		Style:  ShapeStyle{Color: "#000", Weight: 2, FillOpacity: 0.3},
	}
}

func TestMapSetInitialize(t *testing.T) {
	maps := NewMapSet(DefaultMapDefinitions()...)
	assert.False(t, maps.Initialized(MapOverview))
	assert.False(t, maps.SetLayerGroup(MapOverview, LayerCityBounds, []Shape{CityBoundsShape()}), "no-op before init")

	require.NoError(t, maps.Initialize(MapOverview))
	assert.True(t, maps.Initialized(MapOverview))
	assert.ErrorIs(t, maps.Initialize(MapOverview), ErrMapAlreadyInitialized)
	assert.ErrorIs(t, maps.Initialize("nope"), ErrUnknownMap)
	assert.False(t, maps.Initialized(MapLayouts), "maps initialize independently")

	def, ok := maps.Definition(MapOverview)
	require.True(t, ok)
	assert.Equal(t, DefaultMapCenter, def.Center)
	assert.Equal(t, 11, def.Zoom)
}

func TestMapSetLayerGroupReplacesShapes(t *testing.T) {
	maps := NewMapSet(DefaultMapDefinitions()...)
	require.NoError(t, maps.Initialize(MapLayouts))

	require.True(t, maps.SetLayerGroup(MapLayouts, LayerLayoutBoundaries, []Shape{squareShape("a"), squareShape("b")}))
	require.True(t, maps.SetLayerGroup(MapLayouts, LayerLayoutBoundaries, []Shape{squareShape("c")}))

	shapes := maps.Shapes(MapLayouts, LayerLayoutBoundaries)
	require.Len(t, shapes, 1, "the group holds exactly the second set")
	assert.Equal(t, "c", shapes[0].ID)

	view, ok := maps.View(MapLayouts)
	require.True(t, ok)
	require.Len(t, view.Layers, 1)
	assert.Equal(t, uint64(2), view.Layers[0].Revision)
}

func TestMapSetHoverDoesNotMutateShape(t *testing.T) {
	maps := NewMapSet(DefaultMapDefinitions()...)
	require.NoError(t, maps.Initialize(MapOverview))
	maps.SetLayerGroup(MapOverview, LayerCorporations, []Shape{squareShape("central")})

	assert.False(t, maps.PointerEnter(MapOverview, LayerCorporations, "missing"))
	require.True(t, maps.PointerEnter(MapOverview, LayerCorporations, "central"))

	style, ok := maps.StyleOf(MapOverview, LayerCorporations, "central")
	require.True(t, ok)
	assert.InDelta(t, 0.5, style.FillOpacity, 1e-9)
	assert.InDelta(t, 3, style.Weight, 1e-9)
	assert.Equal(t, 0.3, maps.Shapes(MapOverview, LayerCorporations)[0].Style.FillOpacity)

	view, _ := maps.View(MapOverview)
	assert.InDelta(t, 0.5, view.Layers[0].Shapes[0].Style.FillOpacity, 1e-9)

	require.True(t, maps.PointerLeave(MapOverview, LayerCorporations, "central"))
	style, _ = maps.StyleOf(MapOverview, LayerCorporations, "central")
	assert.Equal(t, 0.3, style.FillOpacity)

	maps.PointerEnter(MapOverview, LayerCorporations, "central")
	maps.SetLayerGroup(MapOverview, LayerCorporations, []Shape{squareShape("central")})
	style, _ = maps.StyleOf(MapOverview, LayerCorporations, "central")
	assert.Equal(t, 0.3, style.FillOpacity, "replacing a group clears its hover state")
}

func TestShapeStyleHoveredClampsOpacity(t *testing.T) {
	style := ShapeStyle{FillOpacity: 0.9, Weight: 1}.Hovered()
	assert.Equal(t, 1.0, style.FillOpacity)
	assert.Equal(t, 2.0, style.Weight)
}

func TestMapSetScheduleResize(t *testing.T) {
	maps := NewMapSet(DefaultMapDefinitions()...)
	d := NewDispatcher()

	require.True(t, maps.ScheduleResize(d, MapOverview))
	d.RunPending()
	view, _ := maps.View(MapOverview)
	assert.Zero(t, view.SizeRevision, "resizing an uninitialized map is a no-op")

	require.NoError(t, maps.Initialize(MapOverview))
	require.True(t, maps.ScheduleResize(d, MapOverview))
	view, _ = maps.View(MapOverview)
	assert.Zero(t, view.SizeRevision, "resize waits for the dispatcher")
	d.RunPending()
	view, _ = maps.View(MapOverview)
	assert.Equal(t, uint64(1), view.SizeRevision)

	assert.False(t, maps.ScheduleResize(d, "nope"))
	assert.Equal(t, []MapID{MapOverview, MapLayouts}, maps.IDs())
}
