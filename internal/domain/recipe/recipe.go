// Package recipe defines the generated recipe and menu value objects
// together with the fixed goal/time option catalogs used for gating.
package recipe

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Mode selects between a single recipe and a full-day menu.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeDaily  Mode = "daily"
)

// ValidMode reports whether the mode is one of the two supported values.
func ValidMode(m Mode) bool {
	return m == ModeSingle || m == ModeDaily
}

// Recipe is a single generated recipe as returned to the caller.
type Recipe struct {
	Type         string   `json:"type"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Time         string   `json:"time"`
	Calories     string   `json:"calories"`
	Protein      string   `json:"protein"`
	ImagePrompt  string   `json:"imagePrompt"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	ImageURL     string   `json:"imageUrl"`
}

// Meal is one of the four meals in a daily menu.
type Meal struct {
	Name         string   `json:"name"`
	Title        string   `json:"title"`
	Calories     string   `json:"calories"`
	Protein      string   `json:"protein"`
	Instructions []string `json:"instructions"`
}

// MealsPerDay is the fixed meal count of a daily menu
// (breakfast, lunch, snack, dinner).
const MealsPerDay = 4

// DailyMenu is a generated full-day menu. ShoppingList is present only for
// entitled accounts.
type DailyMenu struct {
	Type          string              `json:"type"`
	Title         string              `json:"title"`
	Meals         []Meal              `json:"meals"`
	TotalCalories string              `json:"total_calories"`
	TotalProtein  string              `json:"total_protein"`
	ImagePrompt   string              `json:"imagePrompt"`
	ShoppingList  map[string][]string `json:"shopping_list,omitempty"`
	ImageURL      string              `json:"imageUrl"`
}

// Generation holds the outcome of one AI call: exactly one of Recipe or Menu
// is set, matching Mode.
type Generation struct {
	Mode   Mode
	Recipe *Recipe
	Menu   *DailyMenu
}

// Title returns the title of the generated content.
func (g *Generation) Title() string {
	if g.Mode == ModeDaily && g.Menu != nil {
		return g.Menu.Title
	}
	if g.Recipe != nil {
		return g.Recipe.Title
	}
	return ""
}

// ImagePrompt returns the AI-provided image prompt, which may be empty.
func (g *Generation) ImagePrompt() string {
	if g.Mode == ModeDaily && g.Menu != nil {
		return g.Menu.ImagePrompt
	}
	if g.Recipe != nil {
		return g.Recipe.ImagePrompt
	}
	return ""
}

// SetImageURL stamps the computed image URL onto the generated content.
func (g *Generation) SetImageURL(u string) {
	if g.Mode == ModeDaily && g.Menu != nil {
		g.Menu.ImageURL = u
		return
	}
	if g.Recipe != nil {
		g.Recipe.ImageURL = u
	}
}

// Payload returns the JSON-serializable object to send to the caller.
func (g *Generation) Payload() interface{} {
	if g.Mode == ModeDaily {
		return g.Menu
	}
	return g.Recipe
}

// Saved is a history entry: the exact payload that was returned at
// generation time, preserved byte-for-byte so that reloads reproduce the
// original imageUrl and title.
type Saved struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"-"`
	Title     string          `json:"title"`
	Data      json.RawMessage `json:"recipe"`
	CreatedAt time.Time       `json:"created_at"`
}
