// Package callrouter decides whether an inbound call is handled by the AI
// assistant or bridged to a human, per call, based on the configured routing
// mode and business hours.
package callrouter

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Mode is the configured routing policy
type Mode string

const (
	ModeAlwaysAI    Mode = "always_ai"
	ModeAlwaysHuman Mode = "always_human"
	ModeSmart       Mode = "smart"
)

// Route is the per-call decision
type Route string

const (
	RouteAI    Route = "ai"
	RouteHuman Route = "human"
)

// BusinessHours is the wall-clock window during which smart mode routes to a
// human. Weekdays follow time.Weekday numbering (Sunday = 0).
type BusinessHours struct {
	StartHour int
	EndHour   int
	Weekdays  map[time.Weekday]bool
}

// Router selects a route for each inbound call. Now is injectable for tests
// and defaults to time.Now.
type Router struct {
	Mode  Mode
	Hours BusinessHours
	Now   func() time.Time
}

// DefaultHours is Monday-Friday 9:00-17:00
func DefaultHours() BusinessHours {
	return BusinessHours{
		StartHour: 9,
		EndHour:   17,
		Weekdays: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
		},
	}
}

// FromEnv builds a router from CALL_ROUTING_MODE, BUSINESS_HOURS_START,
// BUSINESS_HOURS_END and BUSINESS_DAYS (comma-separated weekday numbers,
// Sunday = 0). Missing values fall back to smart routing over default hours.
func FromEnv() *Router {
	r := &Router{
		Mode:  ModeSmart,
		Hours: DefaultHours(),
		Now:   time.Now,
	}

	switch Mode(os.Getenv("CALL_ROUTING_MODE")) {
	case ModeAlwaysAI:
		r.Mode = ModeAlwaysAI
	case ModeAlwaysHuman:
		r.Mode = ModeAlwaysHuman
	}

	if v, err := strconv.Atoi(os.Getenv("BUSINESS_HOURS_START")); err == nil {
		r.Hours.StartHour = v
	}
	if v, err := strconv.Atoi(os.Getenv("BUSINESS_HOURS_END")); err == nil {
		r.Hours.EndHour = v
	}
	if days := os.Getenv("BUSINESS_DAYS"); days != "" {
		weekdays := map[time.Weekday]bool{}
		for _, part := range strings.Split(days, ",") {
			if d, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && d >= 0 && d <= 6 {
				weekdays[time.Weekday(d)] = true
			}
		}
		if len(weekdays) > 0 {
			r.Hours.Weekdays = weekdays
		}
	}

	return r
}

// InBusinessHours reports whether t falls inside the configured window.
// The end hour is exclusive: a [9,17) window covers 9:00 through 16:59.
func (r *Router) InBusinessHours(t time.Time) bool {
	if !r.Hours.Weekdays[t.Weekday()] {
		return false
	}
	hour := t.Hour()
	return hour >= r.Hours.StartHour && hour < r.Hours.EndHour
}

// Decide picks the route for one inbound call. Smart mode sends callers to a
// human during business hours and to the AI otherwise.
func (r *Router) Decide() Route {
	switch r.Mode {
	case ModeAlwaysAI:
		return RouteAI
	case ModeAlwaysHuman:
		return RouteHuman
	default:
		now := time.Now
		if r.Now != nil {
			now = r.Now
		}
		if r.InBusinessHours(now()) {
			return RouteHuman
		}
		return RouteAI
	}
}
