package callrouter

import (
	"testing"
	"time"
)

// at returns a clock pinned to the given local weekday and hour
func at(day time.Weekday, hour int) func() time.Time {
	// 2025-06-01 is a Sunday
	base := time.Date(2025, 6, 1, hour, 0, 0, 0, time.Local)
	return func() time.Time {
		return base.AddDate(0, 0, int(day))
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		now  func() time.Time
		want Route
	}{
		{"always_ai at midday", ModeAlwaysAI, at(time.Wednesday, 10), RouteAI},
		{"always_ai at night", ModeAlwaysAI, at(time.Wednesday, 3), RouteAI},
		{"always_human at night", ModeAlwaysHuman, at(time.Saturday, 3), RouteHuman},
		{"smart wednesday 10am routes human", ModeSmart, at(time.Wednesday, 10), RouteHuman},
		{"smart saturday 10am routes ai", ModeSmart, at(time.Saturday, 10), RouteAI},
		{"smart wednesday 8am routes ai", ModeSmart, at(time.Wednesday, 8), RouteAI},
		{"smart wednesday 5pm routes ai (end exclusive)", ModeSmart, at(time.Wednesday, 17), RouteAI},
		{"smart wednesday 9am routes human (start inclusive)", ModeSmart, at(time.Wednesday, 9), RouteHuman},
		{"smart sunday midday routes ai", ModeSmart, at(time.Sunday, 12), RouteAI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Router{Mode: tt.mode, Hours: DefaultHours(), Now: tt.now}
			if got := r.Decide(); got != tt.want {
				t.Errorf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInBusinessHoursCustomWindow(t *testing.T) {
	r := &Router{
		Mode: ModeSmart,
		Hours: BusinessHours{
			StartHour: 7,
			EndHour:   19,
			Weekdays:  map[time.Weekday]bool{time.Saturday: true},
		},
	}

	if !r.InBusinessHours(at(time.Saturday, 8)()) {
		t.Error("saturday 8am should be inside a saturday-only window")
	}
	if r.InBusinessHours(at(time.Monday, 8)()) {
		t.Error("monday should be outside a saturday-only window")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("CALL_ROUTING_MODE", "")
	t.Setenv("BUSINESS_HOURS_START", "")
	t.Setenv("BUSINESS_HOURS_END", "")
	t.Setenv("BUSINESS_DAYS", "")

	r := FromEnv()
	if r.Mode != ModeSmart {
		t.Errorf("default mode = %v, want smart", r.Mode)
	}
	if r.Hours.StartHour != 9 || r.Hours.EndHour != 17 {
		t.Errorf("default window = [%d,%d), want [9,17)", r.Hours.StartHour, r.Hours.EndHour)
	}
	if r.Hours.Weekdays[time.Sunday] || !r.Hours.Weekdays[time.Friday] {
		t.Error("default weekdays should be Monday-Friday")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CALL_ROUTING_MODE", "always_ai")
	t.Setenv("BUSINESS_HOURS_START", "8")
	t.Setenv("BUSINESS_HOURS_END", "18")
	t.Setenv("BUSINESS_DAYS", "1,2,3,4,5,6")

	r := FromEnv()
	if r.Mode != ModeAlwaysAI {
		t.Errorf("mode = %v, want always_ai", r.Mode)
	}
	if r.Hours.StartHour != 8 || r.Hours.EndHour != 18 {
		t.Errorf("window = [%d,%d), want [8,18)", r.Hours.StartHour, r.Hours.EndHour)
	}
	if !r.Hours.Weekdays[time.Saturday] {
		t.Error("saturday should be enabled")
	}
}
