package dashboard

import (
	"errors"
	"fmt"
	"math"
)

// Map instance identifiers.
const (
	MapOverview MapID = "overview"
	MapLayouts  MapID = "layouts"
)

// Hover deltas applied on pointer-enter.
const (
	hoverFillOpacityDelta = 0.2
	hoverWeightDelta      = 1
)

var (
	// ErrMapAlreadyInitialized is returned by a second Initialize call.
	ErrMapAlreadyInitialized = errors.New("dashboard: map already initialized")
	// ErrUnknownMap is returned for map ids that were never declared.
	ErrUnknownMap = errors.New("dashboard: unknown map")
)

// LatLng is a latitude/longitude pair.
type LatLng [2]float64

// Lat returns the latitude.
func (p LatLng) Lat() float64 { return p[0] }

// Lng returns the longitude.
func (p LatLng) Lng() float64 { return p[1] }

// ShapeKind enumerates the vector shapes a layer group can hold.
type ShapeKind string

const (
	ShapePolygon      ShapeKind = "polygon"
	ShapeCircleMarker ShapeKind = "circle_marker"
	ShapeRectangle    ShapeKind = "rectangle"
)

// ShapeStyle mirrors the path options understood by the browser map.
type ShapeStyle struct {
	Color       string  `json:"color,omitempty"`
	Weight      float64 `json:"weight"`
	FillColor   string  `json:"fillColor,omitempty"`
	FillOpacity float64 `json:"fillOpacity"`
	Opacity     float64 `json:"opacity,omitempty"`
	Radius      float64 `json:"radius,omitempty"`
}

// Hovered returns the style shown while the pointer is over the shape.
func (s ShapeStyle) Hovered() ShapeStyle {
	out := s
	out.FillOpacity = math.Min(1, s.FillOpacity+hoverFillOpacityDelta)
	out.Weight = s.Weight + hoverWeightDelta
	return out
}

// Popup is the content bound to a shape.
type Popup struct {
	Title string   `json:"title"`
	Lines []string `json:"lines,omitempty"`
}

// Shape is one vector feature of a layer group. Rectangles hold the two
// corner points; circle markers hold their centre.
type Shape struct {
	ID         string         `json:"id"`
	Kind       ShapeKind      `json:"kind"`
	Points     []LatLng       `json:"points"`
	Style      ShapeStyle     `json:"style"`
	Popup      *Popup         `json:"popup,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// TileLayer is the base layer of a map.
type TileLayer struct {
	URL         string `json:"url" yaml:"url"`
	Attribution string `json:"attribution" yaml:"attribution"`
	MaxZoom     int    `json:"max_zoom" yaml:"max_zoom"`
}

// MapDefinition is the static configuration of a map instance.
type MapDefinition struct {
	ID     MapID     `json:"id" yaml:"id"`
	Mount  MountID   `json:"mount" yaml:"mount"`
	Center LatLng    `json:"center" yaml:"center"`
	Zoom   int       `json:"zoom" yaml:"zoom"`
	Tiles  TileLayer `json:"tiles" yaml:"tiles"`
}

// LayerGroup is an atomically replaceable set of shapes.
type LayerGroup struct {
	ID       string  `json:"id"`
	Shapes   []Shape `json:"shapes"`
	Revision uint64  `json:"revision"`
}

// MapInstance is the server-side state of one browser map.
type MapInstance struct {
	def          MapDefinition
	initialized  bool
	groups       map[string]*LayerGroup
	order        []string
	hovered      map[string]map[string]bool
	sizeRevision uint64
}

// MapView is a read-only copy of a map instance.
type MapView struct {
	ID           MapID        `json:"id"`
	Mount        MountID      `json:"mount"`
	Center       LatLng       `json:"center"`
	Zoom         int          `json:"zoom"`
	Tiles        TileLayer    `json:"tiles"`
	Initialized  bool         `json:"initialized"`
	SizeRevision uint64       `json:"size_revision"`
	Layers       []LayerGroup `json:"layers"`
}

// MapSet owns the map instances of a workspace. It is not safe for concurrent
// use; the workspace dispatcher serialises access.
type MapSet struct {
	instances map[MapID]*MapInstance
	order     []MapID
}

// NewMapSet declares the map instances. None is initialized yet.
func NewMapSet(defs ...MapDefinition) *MapSet {
	set := &MapSet{instances: make(map[MapID]*MapInstance, len(defs))}
	for _, def := range defs {
		if _, exists := set.instances[def.ID]; !exists {
			set.order = append(set.order, def.ID)
		}
		set.instances[def.ID] = &MapInstance{def: def}
	}
	return set
}

// Definition returns the static configuration of a map.
func (m *MapSet) Definition(id MapID) (MapDefinition, bool) {
	inst, ok := m.instances[id]
	if !ok {
		return MapDefinition{}, false
	}
	return inst.def, true
}

// Initialize creates the base layer. Initializing twice is an error; callers
// guard with Initialized.
func (m *MapSet) Initialize(id MapID) error {
	inst, ok := m.instances[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMap, id)
	}
	if inst.initialized {
		return fmt.Errorf("%w: %s", ErrMapAlreadyInitialized, id)
	}
	inst.initialized = true
	inst.groups = make(map[string]*LayerGroup)
	inst.hovered = make(map[string]map[string]bool)
	return nil
}

// Initialized reports whether Initialize has run for id.
func (m *MapSet) Initialized(id MapID) bool {
	inst, ok := m.instances[id]
	return ok && inst.initialized
}

// SetLayerGroup clears every shape previously added under group and adds
// shapes. It is a no-op before the map is initialized and reports whether
// the group was replaced.
func (m *MapSet) SetLayerGroup(id MapID, group string, shapes []Shape) bool {
	inst, ok := m.instances[id]
	if !ok || !inst.initialized {
		return false
	}
	layer, exists := inst.groups[group]
	if !exists {
		layer = &LayerGroup{ID: group}
		inst.groups[group] = layer
		inst.order = append(inst.order, group)
	}
	layer.Shapes = append([]Shape(nil), shapes...)
	layer.Revision++
	delete(inst.hovered, group)
	return true
}

// Shapes returns the shapes currently in a layer group.
func (m *MapSet) Shapes(id MapID, group string) []Shape {
	inst, ok := m.instances[id]
	if !ok || !inst.initialized {
		return nil
	}
	layer, ok := inst.groups[group]
	if !ok {
		return nil
	}
	return append([]Shape(nil), layer.Shapes...)
}

// PointerEnter highlights a shape.
func (m *MapSet) PointerEnter(id MapID, group, shapeID string) bool {
	return m.setHover(id, group, shapeID, true)
}

// PointerLeave restores the base style of a shape.
func (m *MapSet) PointerLeave(id MapID, group, shapeID string) bool {
	return m.setHover(id, group, shapeID, false)
}

func (m *MapSet) setHover(id MapID, group, shapeID string, on bool) bool {
	inst, ok := m.instances[id]
	if !ok || !inst.initialized {
		return false
	}
	if _, ok := findShape(inst, group, shapeID); !ok {
		return false
	}
	if !on {
		delete(inst.hovered[group], shapeID)
		return true
	}
	if inst.hovered[group] == nil {
		inst.hovered[group] = make(map[string]bool)
	}
	inst.hovered[group][shapeID] = true
	return true
}

// StyleOf returns the effective style of a shape, including hover.
func (m *MapSet) StyleOf(id MapID, group, shapeID string) (ShapeStyle, bool) {
	inst, ok := m.instances[id]
	if !ok || !inst.initialized {
		return ShapeStyle{}, false
	}
	shape, ok := findShape(inst, group, shapeID)
	if !ok {
		return ShapeStyle{}, false
	}
	if inst.hovered[group][shapeID] {
		return shape.Style.Hovered(), true
	}
	return shape.Style, true
}

func findShape(inst *MapInstance, group, shapeID string) (Shape, bool) {
	layer, ok := inst.groups[group]
	if !ok {
		return Shape{}, false
	}
	for _, shape := range layer.Shapes {
		if shape.ID == shapeID {
			return shape, true
		}
	}
	return Shape{}, false
}

// ScheduleResize asks the map to recompute its size once the current
// visibility change has been applied.
func (m *MapSet) ScheduleResize(d *Dispatcher, id MapID) bool {
	inst, ok := m.instances[id]
	if !ok {
		return false
	}
	resize := func() {
		if inst.initialized {
			inst.sizeRevision++
		}
	}
	if d == nil {
		resize()
		return true
	}
	return d.Post(resize)
}

// View copies a map instance, applying hover styles.
func (m *MapSet) View(id MapID) (MapView, bool) {
	inst, ok := m.instances[id]
	if !ok {
		return MapView{}, false
	}
	view := MapView{
		ID:           inst.def.ID,
		Mount:        inst.def.Mount,
		Center:       inst.def.Center,
		Zoom:         inst.def.Zoom,
		Tiles:        inst.def.Tiles,
		Initialized:  inst.initialized,
		SizeRevision: inst.sizeRevision,
	}
	for _, name := range inst.order {
		layer := inst.groups[name]
		copied := LayerGroup{ID: layer.ID, Revision: layer.Revision, Shapes: make([]Shape, len(layer.Shapes))}
		for i, shape := range layer.Shapes {
			if inst.hovered[name][shape.ID] {
				shape.Style = shape.Style.Hovered()
			}
			copied.Shapes[i] = shape
		}
		view.Layers = append(view.Layers, copied)
	}
	return view, true
}

// Views copies every map in declaration order.
func (m *MapSet) Views() []MapView {
	out := make([]MapView, 0, len(m.order))
	for _, id := range m.order {
		view, _ := m.View(id)
		out = append(out, view)
	}
	return out
}

// IDs lists the declared maps.
func (m *MapSet) IDs() []MapID {
	return append([]MapID(nil), m.order...)
}
