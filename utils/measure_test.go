package utils

import (
	"math"
	"testing"
)

func square(size float64) []Point {
	return []Point{{0, 0}, {size, 0}, {size, size}, {0, size}}
}

func TestPolygonArea(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   float64
	}{
		{"empty", nil, 0},
		{"single point", []Point{{1, 1}}, 0},
		{"two points", []Point{{0, 0}, {10, 0}}, 0},
		{"unit triangle", []Point{{0, 0}, {1, 0}, {0, 1}}, 0.5},
		{"10x10 square", square(10), 100},
		{"concave L-shape", []Point{{0, 0}, {4, 0}, {4, 2}, {2, 2}, {2, 4}, {0, 4}}, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolygonArea(tt.points); got != tt.want {
				t.Errorf("PolygonArea() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolygonAreaInvariantUnderRotationAndReversal(t *testing.T) {
	points := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	want := PolygonArea(points)

	// cyclic rotations
	for shift := 1; shift < len(points); shift++ {
		rotated := append(append([]Point{}, points[shift:]...), points[:shift]...)
		if got := PolygonArea(rotated); got != want {
			t.Errorf("rotation by %d: area = %v, want %v", shift, got, want)
		}
	}

	// reversal
	reversed := make([]Point, len(points))
	for i, p := range points {
		reversed[len(points)-1-i] = p
	}
	if got := PolygonArea(reversed); got != want {
		t.Errorf("reversed: area = %v, want %v", got, want)
	}
}

func TestPolygonPerimeter(t *testing.T) {
	if got := PolygonPerimeter(square(10)); got != 40 {
		t.Errorf("square perimeter = %v, want 40", got)
	}
	if got := PolygonPerimeter([]Point{{0, 0}}); got != 0 {
		t.Errorf("single point perimeter = %v, want 0", got)
	}
}

func TestPixelsToSquareFeet(t *testing.T) {
	tests := []struct {
		name      string
		pixelArea float64
		scale     float64
		want      float64
	}{
		{"10 px per foot", 10000, 10, 100},
		{"zero scale", 10000, 0, 0},
		{"negative scale", 10000, -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PixelsToSquareFeet(tt.pixelArea, tt.scale); got != tt.want {
				t.Errorf("PixelsToSquareFeet() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalculateTotalSquareFeet(t *testing.T) {
	// one 100x100 px square at 10 px/ft with default 10% waste:
	// 10000 px² → 100 ft² → 110 ft²
	data := MeasurementData{
		Polygons: []Polygon{{Points: square(100)}},
		Scale:    10,
	}
	if got := CalculateTotalSquareFeet(data); math.Abs(got-110) > 1e-9 {
		t.Errorf("CalculateTotalSquareFeet() = %v, want 110", got)
	}

	// explicit waste factor
	data.WasteFactor = 0.15
	if got := CalculateTotalSquareFeet(data); math.Abs(got-115) > 1e-9 {
		t.Errorf("with 15%% waste = %v, want 115", got)
	}

	// two polygons sum before waste
	data = MeasurementData{
		Polygons:    []Polygon{{Points: square(100)}, {Points: square(100)}},
		Scale:       10,
		WasteFactor: 0.10,
	}
	if got := CalculateTotalSquareFeet(data); math.Abs(got-220) > 1e-9 {
		t.Errorf("two squares = %v, want 220", got)
	}
}

func TestAdjustForPitch(t *testing.T) {
	tests := []struct {
		name  string
		sqft  float64
		pitch string
		want  float64
	}{
		{"flat 0/12", 100, "0/12", 100},
		{"6/12 pitch", 100, "6/12", 100 * math.Sqrt(1.25)},
		{"12/12 pitch", 100, "12/12", 100 * math.Sqrt2},
		{"garbage pitch unchanged", 100, "steep", 100},
		{"empty pitch unchanged", 100, "", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdjustForPitch(tt.sqft, tt.pitch); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AdjustForPitch() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPitchFromRiseRun(t *testing.T) {
	if got := PitchFromRiseRun(6, 12); got != "6.0/12" {
		t.Errorf("PitchFromRiseRun(6,12) = %q, want 6.0/12", got)
	}
	if got := PitchFromRiseRun(4, 0); got != "0/12" {
		t.Errorf("zero run = %q, want 0/12", got)
	}
}

func TestIsPointInPolygon(t *testing.T) {
	poly := square(10)

	tests := []struct {
		name  string
		point Point
		want  bool
	}{
		{"center is inside", Point{5, 5}, true},
		{"outside right", Point{15, 5}, false},
		{"outside above", Point{5, -1}, false},
		{"near corner inside", Point{0.5, 0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPointInPolygon(tt.point, poly); got != tt.want {
				t.Errorf("IsPointInPolygon(%v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}

	if IsPointInPolygon(Point{1, 1}, []Point{{0, 0}, {1, 0}}) {
		t.Error("two-point polygon should contain nothing")
	}
}

func TestSnapToGrid(t *testing.T) {
	got := SnapToGrid(Point{13, 27}, 10)
	if got.X != 10 || got.Y != 30 {
		t.Errorf("SnapToGrid = %+v, want {10 30}", got)
	}
}
