package recipe

import "strings"

// Option is an entry of the goal or preparation-time catalog. The catalogs
// are fixed and shared between the HTTP layer and the access gate, so a UI
// label change cannot silently break gating.
type Option struct {
	Label string
	Free  bool
}

// GoalOptions is the dietary goal catalog. Only Low Carb is included in the
// free tier.
var GoalOptions = []Option{
	{Label: "Low Carb", Free: true},
	{Label: "Emagrecimento", Free: false},
	{Label: "Ganho de massa", Free: false},
	{Label: "Manutenção", Free: false},
}

// TimeOptions is the preparation time catalog. The free tier includes the
// "30 min" window only.
var TimeOptions = []Option{
	{Label: "15 min (Express)", Free: false},
	{Label: "30 min (Rápido)", Free: true},
	{Label: "45 min (Completo)", Free: false},
	{Label: "1h+ (Gourmet)", Free: false},
}

// freeTimeMarker is the substring that identifies the free preparation-time
// window. Kept alongside the catalog for accounts created before the labels
// were versioned.
const freeTimeMarker = "30 min"

// ValidGoal reports whether the label is a catalog goal.
func ValidGoal(label string) bool {
	return lookup(GoalOptions, label) != nil
}

// ValidTime reports whether the label is a catalog time option.
func ValidTime(label string) bool {
	return lookup(TimeOptions, label) != nil
}

// FreeGoal reports whether the goal is included in the free tier.
func FreeGoal(label string) bool {
	if opt := lookup(GoalOptions, label); opt != nil {
		return opt.Free
	}
	return false
}

// FreeTime reports whether the time label falls in the free tier window.
func FreeTime(label string) bool {
	if opt := lookup(TimeOptions, label); opt != nil && opt.Free {
		return true
	}
	return strings.Contains(label, freeTimeMarker)
}

func lookup(opts []Option, label string) *Option {
	for i := range opts {
		if opts[i].Label == label {
			return &opts[i]
		}
	}
	return nil
}
