package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultWasteFactor is the material overage markup applied when a
// measurement session does not specify one.
const DefaultWasteFactor = 0.10

// Point is a 2-D canvas point in pixel space
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is an ordered list of points traced over a project image
type Polygon struct {
	Points []Point `json:"points"`
	Label  string  `json:"label,omitempty"`
}

// MeasurementData is the validated shape of a measurement session payload
type MeasurementData struct {
	Polygons    []Polygon `json:"polygons"`
	Scale       float64   `json:"scale,omitempty"`        // pixels per foot
	WasteFactor float64   `json:"waste_factor,omitempty"` // default 0.10
	Pitch       string    `json:"pitch,omitempty"`        // e.g. "6/12"
}

// Validate checks the payload shape at the system boundary
func (m *MeasurementData) Validate() error {
	if len(m.Polygons) == 0 {
		return errors.New("measurement needs at least one polygon")
	}
	if m.Scale < 0 {
		return errors.New("scale must not be negative")
	}
	if m.WasteFactor < 0 {
		return errors.New("waste factor must not be negative")
	}
	return nil
}

// PolygonArea computes the area of a polygon using the shoelace formula.
// The polygon is assumed non-self-intersecting; fewer than 3 points is area 0.
func PolygonArea(points []Point) float64 {
	if len(points) < 3 {
		return 0
	}

	area := 0.0
	for i := range points {
		j := (i + 1) % len(points)
		area += points[i].X * points[j].Y
		area -= points[j].X * points[i].Y
	}

	return math.Abs(area / 2)
}

// PolygonPerimeter computes the summed Euclidean edge length of a polygon
func PolygonPerimeter(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}

	perimeter := 0.0
	for i := range points {
		j := (i + 1) % len(points)
		perimeter += Distance(points[i], points[j])
	}

	return perimeter
}

// Distance is the Euclidean distance between two points
func Distance(p1, p2 Point) float64 {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// PixelsToSquareFeet converts a pixel area to square feet given a
// pixels-per-foot scale. A non-positive scale yields 0.
func PixelsToSquareFeet(pixelArea, scale float64) float64 {
	if scale <= 0 {
		return 0
	}
	return pixelArea / (scale * scale)
}

// PixelsToFeet converts a pixel distance to feet
func PixelsToFeet(pixels, scale float64) float64 {
	if scale <= 0 {
		return 0
	}
	return pixels / scale
}

// CalculateTotalSquareFeet sums all polygon areas in a session, converts to
// square feet, then applies the waste factor (default 10%).
func CalculateTotalSquareFeet(data MeasurementData) float64 {
	scale := data.Scale
	if scale == 0 {
		scale = 1
	}

	total := 0.0
	for _, polygon := range data.Polygons {
		total += PixelsToSquareFeet(PolygonArea(polygon.Points), scale)
	}

	waste := data.WasteFactor
	if waste == 0 {
		waste = DefaultWasteFactor
	}
	return total * (1 + waste)
}

// PitchFromRiseRun formats a roof pitch as "N/12" from rise over run
func PitchFromRiseRun(rise, run float64) string {
	if run == 0 {
		return "0/12"
	}
	normalized := (rise / run) * 12
	return fmt.Sprintf("%.1f/12", normalized)
}

// AdjustForPitch scales a flat square footage by the slope correction factor
// sqrt(1 + (rise/12)²) for a pitch given as "rise/12". An unparseable or
// zero-rise pitch leaves the area unchanged.
func AdjustForPitch(sqft float64, pitch string) float64 {
	parts := strings.SplitN(pitch, "/", 2)
	rise, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || rise == 0 {
		return sqft
	}
	factor := math.Sqrt(1 + math.Pow(rise/12, 2))
	return sqft * factor
}

// SnapToGrid rounds a point to the nearest grid intersection
func SnapToGrid(p Point, gridSize float64) Point {
	return Point{
		X: math.Round(p.X/gridSize) * gridSize,
		Y: math.Round(p.Y/gridSize) * gridSize,
	}
}

// IsPointInPolygon checks if a point is inside a polygon using ray casting
func IsPointInPolygon(point Point, polygon []Point) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		xi, yi := polygon[i].X, polygon[i].Y
		xj, yj := polygon[j].X, polygon[j].Y

		intersect := ((yi > point.Y) != (yj > point.Y)) &&
			(point.X < (xj-xi)*(point.Y-yi)/(yj-yi)+xi)

		if intersect {
			inside = !inside
		}
		j = i
	}

	return inside
}
