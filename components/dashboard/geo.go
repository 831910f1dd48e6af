package dashboard

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/xy"
)

// BoundaryFeature is one named region of a GeoJSON boundary source.
type BoundaryFeature struct {
	ID         string
	Name       string
	Geometry   geom.T
	Properties map[string]any
}

// BoundaryFeatures is the decoded payload of a GeoJSON boundary source.
type BoundaryFeatures struct {
	Features []BoundaryFeature
}

func decodeBoundaryFeatures(raw []byte) (any, error) {
	var fc gjson.FeatureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, err
	}
	out := &BoundaryFeatures{Features: make([]BoundaryFeature, 0, len(fc.Features))}
	for i, feature := range fc.Features {
		if feature == nil || feature.Geometry == nil {
			continue
		}
		name := featureName(feature.Properties)
		id := feature.ID
		if id == "" {
			id = fmt.Sprintf("feature-%d", i)
		}
		out.Features = append(out.Features, BoundaryFeature{
			ID:         id,
			Name:       name,
			Geometry:   feature.Geometry,
			Properties: feature.Properties,
		})
	}
	return out, nil
}

func featureName(props map[string]any) string {
	for _, key := range []string{"name", "Name", "NAME", "corporation", "CORPORATION"} {
		if v, ok := props[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// Rings returns the outer rings of a polygonal geometry as [lat, lng] points.
func Rings(g geom.T) [][]LatLng {
	switch geometry := g.(type) {
	case *geom.Polygon:
		if geometry.NumLinearRings() == 0 {
			return nil
		}
		return [][]LatLng{ringLatLng(geometry.LinearRing(0).Coords())}
	case *geom.MultiPolygon:
		out := make([][]LatLng, 0, geometry.NumPolygons())
		for i := 0; i < geometry.NumPolygons(); i++ {
			poly := geometry.Polygon(i)
			if poly.NumLinearRings() == 0 {
				continue
			}
			out = append(out, ringLatLng(poly.LinearRing(0).Coords()))
		}
		return out
	default:
		return nil
	}
}

func ringLatLng(coords []geom.Coord) []LatLng {
	out := make([]LatLng, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		out = append(out, LatLng{c[1], c[0]})
	}
	return out
}

// PolygonFromLatLng builds a closed polygon from [lat, lng] points.
func PolygonFromLatLng(points []LatLng) (*geom.Polygon, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("dashboard: polygon needs at least 3 points, got %d", len(points))
	}
	ring := make([]geom.Coord, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, geom.Coord{p.Lng(), p.Lat()})
	}
	if first, last := points[0], points[len(points)-1]; first != last {
		ring = append(ring, geom.Coord{first.Lng(), first.Lat()})
	}
	return geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{ring})
}

// Centroid returns the centroid of a [lat, lng] polygon.
func Centroid(points []LatLng) (LatLng, bool) {
	poly, err := PolygonFromLatLng(points)
	if err == nil {
		if c, err := xy.Centroid(poly); err == nil && len(c) >= 2 {
			return LatLng{c[1], c[0]}, true
		}
	}
	if len(points) == 0 {
		return LatLng{}, false
	}
	var lat, lng float64
	for _, p := range points {
		lat += p.Lat()
		lng += p.Lng()
	}
	n := float64(len(points))
	return LatLng{lat / n, lng / n}, true
}

// BoundaryShapes converts boundary features into polygon shapes. meta
// supplies colour and popup data by region name when present.
func BoundaryShapes(features *BoundaryFeatures, meta func(name string) (RegionMeta, bool), fallback ShapeStyle) []Shape {
	if features == nil {
		return nil
	}
	var shapes []Shape
	for _, feature := range features.Features {
		style := fallback
		popup := &Popup{Title: feature.Name}
		if meta != nil {
			if region, ok := meta(feature.Name); ok {
				if region.Color != "" {
					style.Color = region.Color
					style.FillColor = region.Color
				}
				popup = regionPopup(region)
			}
		}
		for i, ring := range Rings(feature.Geometry) {
			id := feature.ID
			if i > 0 {
				id = fmt.Sprintf("%s-%d", feature.ID, i)
			}
			shapes = append(shapes, Shape{
				ID:         id,
				Kind:       ShapePolygon,
				Points:     ring,
				Style:      style,
				Popup:      popup,
				Properties: map[string]any{"name": feature.Name},
			})
		}
	}
	return shapes
}

func regionPopup(region RegionMeta) *Popup {
	popup := &Popup{Title: region.Name}
	if region.Description != "" {
		popup.Lines = append(popup.Lines, region.Description)
	}
	if region.AreaSqKm != "" {
		popup.Lines = append(popup.Lines, "Area: "+region.AreaSqKm.String()+" sq km")
	}
	if region.Wards != "" {
		popup.Lines = append(popup.Lines, "Wards: "+region.Wards.String())
	}
	if region.Population != "" {
		popup.Lines = append(popup.Lines, "Population: "+region.Population.String())
	}
	return popup
}

// LayoutBoundaryShapes draws every layout polygon.
func LayoutBoundaryShapes(doc *LayoutBoundariesDocument) []Shape {
	if doc == nil {
		return nil
	}
	shapes := make([]Shape, 0, len(doc.Boundaries))
	for i, boundary := range doc.Boundaries {
		points := boundaryPoints(boundary)
		if len(points) < 3 {
			continue
		}
		popup := &Popup{Title: boundary.Name}
		if boundary.Number != "" {
			popup.Lines = append(popup.Lines, "Layout No: "+boundary.Number.String())
		}
		if boundary.Area != "" {
			popup.Lines = append(popup.Lines, "Area: "+boundary.Area.String())
		}
		if boundary.Taluk != "" {
			popup.Lines = append(popup.Lines, "Taluk: "+boundary.Taluk)
		}
		shapes = append(shapes, Shape{
			ID:     layoutShapeID(boundary, i),
			Kind:   ShapePolygon,
			Points: points,
			Style: ShapeStyle{
				Color:       earthColors.Primary,
				Weight:      2,
				FillColor:   earthColors.Secondary,
				FillOpacity: 0.3,
				Opacity:     1,
			},
			Popup:      popup,
			Properties: map[string]any{"layout_name": boundary.Name},
		})
	}
	return shapes
}

// LayoutMarkerShapes places a circle marker at every layout centroid. The
// marker is red for Industrial layouts and blue otherwise; use types come from
// layouts joined by name when that source is loaded.
func LayoutMarkerShapes(doc *LayoutBoundariesDocument, layouts *LayoutsDocument) []Shape {
	if doc == nil {
		return nil
	}
	useTypes := map[string]string{}
	if layouts != nil {
		for _, layout := range layouts.Layouts {
			useTypes[strings.ToLower(strings.TrimSpace(layout.Name.String()))] = layout.UseTypeCategory.String()
		}
	}
	shapes := make([]Shape, 0, len(doc.Boundaries))
	for i, boundary := range doc.Boundaries {
		centre, ok := Centroid(boundaryPoints(boundary))
		if !ok {
			continue
		}
		useType := useTypes[strings.ToLower(strings.TrimSpace(boundary.Name))]
		fill := "blue"
		if useType == "Industrial" {
			fill = "red"
		}
		popup := &Popup{Title: boundary.Name}
		if useType != "" {
			popup.Lines = []string{useType}
		}
		shapes = append(shapes, Shape{
			ID:     layoutShapeID(boundary, i),
			Kind:   ShapeCircleMarker,
			Points: []LatLng{centre},
			Style: ShapeStyle{
				Color:       "#fff",
				Weight:      1,
				FillColor:   fill,
				FillOpacity: 0.8,
				Opacity:     1,
				Radius:      6,
			},
			Popup:      popup,
			Properties: map[string]any{"layout_name": boundary.Name, "use_type": useType},
		})
	}
	return shapes
}

func boundaryPoints(boundary LayoutBoundary) []LatLng {
	points := make([]LatLng, len(boundary.Coordinates))
	for i, pair := range boundary.Coordinates {
		points[i] = LatLng(pair)
	}
	return points
}

func layoutShapeID(boundary LayoutBoundary, index int) string {
	if boundary.Number != "" {
		return "layout-" + boundary.Number.String()
	}
	return fmt.Sprintf("layout-%d", index)
}

// CityBoundsShape is the approximate city rectangle drawn on the overview map.
func CityBoundsShape() Shape {
	return Shape{
		ID:     "city-bounds",
		Kind:   ShapeRectangle,
		Points: []LatLng{{12.7342, 77.3791}, {13.1734, 77.8746}},
		Style: ShapeStyle{
			Color:       "#000",
			Weight:      2,
			FillOpacity: 0.05,
			Opacity:     1,
		},
	}
}

// MapGeoJSON exports the layers of a map as a FeatureCollection.
func MapGeoJSON(view MapView) ([]byte, error) {
	fc := gjson.FeatureCollection{Features: []*gjson.Feature{}}
	for _, layer := range view.Layers {
		for _, shape := range layer.Shapes {
			geometry, err := shapeGeometry(shape)
			if err != nil {
				return nil, fmt.Errorf("dashboard: export shape %s/%s: %w", layer.ID, shape.ID, err)
			}
			props := map[string]any{
				"layer":       layer.ID,
				"kind":        string(shape.Kind),
				"color":       shape.Style.Color,
				"weight":      shape.Style.Weight,
				"fillColor":   shape.Style.FillColor,
				"fillOpacity": shape.Style.FillOpacity,
			}
			if shape.Style.Radius > 0 {
				props["radius"] = shape.Style.Radius
			}
			if shape.Popup != nil {
				props["popup"] = shape.Popup.Title
			}
			for k, v := range shape.Properties {
				props[k] = v
			}
			fc.Features = append(fc.Features, &gjson.Feature{
				ID:         layer.ID + ":" + shape.ID,
				Geometry:   geometry,
				Properties: props,
			})
		}
	}
	return json.Marshal(&fc)
}

func shapeGeometry(shape Shape) (geom.T, error) {
	switch shape.Kind {
	case ShapePolygon:
		return PolygonFromLatLng(shape.Points)
	case ShapeRectangle:
		if len(shape.Points) != 2 {
			return nil, fmt.Errorf("rectangle needs 2 corners, got %d", len(shape.Points))
		}
		sw, ne := shape.Points[0], shape.Points[1]
		return PolygonFromLatLng([]LatLng{
			{sw.Lat(), sw.Lng()},
			{sw.Lat(), ne.Lng()},
			{ne.Lat(), ne.Lng()},
			{ne.Lat(), sw.Lng()},
		})
	case ShapeCircleMarker:
		if len(shape.Points) != 1 {
			return nil, fmt.Errorf("circle marker needs a centre")
		}
		return geom.NewPoint(geom.XY).SetCoords(geom.Coord{shape.Points[0].Lng(), shape.Points[0].Lat()})
	default:
		return nil, fmt.Errorf("unsupported shape kind %q", shape.Kind)
	}
}
