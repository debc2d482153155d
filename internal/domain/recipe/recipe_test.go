package recipe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageURLIsDeterministic(t *testing.T) {
	first := ImageURL("grilled chicken with vegetables", "Frango Grelhado")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ImageURL("grilled chicken with vegetables", "Frango Grelhado"))
	}
}

func TestImageURLFallsBackToTitle(t *testing.T) {
	u := ImageURL("", "Omelete Fit")
	assert.Contains(t, u, "delicious%20food%20photography%20of%20Omelete%20Fit")
	assert.True(t, strings.HasPrefix(u, "https://image.pollinations.ai/prompt/"))
}

func TestImageURLEncodesPrompt(t *testing.T) {
	u := ImageURL("prato fit com arroz & feijão?", "x")
	assert.NotContains(t, u[len("https://"):strings.Index(u, "?width")], " ")
	assert.Contains(t, u, "width=800")
	assert.Contains(t, u, "height=600")
	assert.Contains(t, u, "nologo=true")
	assert.Contains(t, u, "seed=")
}

func TestImageURLDifferentPromptsDiffer(t *testing.T) {
	assert.NotEqual(t, ImageURL("a", ""), ImageURL("b", ""))
}

func TestValidMode(t *testing.T) {
	assert.True(t, ValidMode(ModeSingle))
	assert.True(t, ValidMode(ModeDaily))
	assert.False(t, ValidMode(Mode("weekly")))
	assert.False(t, ValidMode(Mode("")))
}

func TestGoalCatalog(t *testing.T) {
	assert.True(t, ValidGoal("Low Carb"))
	assert.True(t, ValidGoal("Ganho de massa"))
	assert.False(t, ValidGoal("Keto"))

	assert.True(t, FreeGoal("Low Carb"))
	assert.False(t, FreeGoal("Ganho de massa"))
	assert.False(t, FreeGoal("Keto"))
}

func TestTimeCatalog(t *testing.T) {
	assert.True(t, ValidTime("30 min (Rápido)"))
	assert.True(t, ValidTime("1h+ (Gourmet)"))
	assert.False(t, ValidTime("2h (Banquete)"))

	assert.True(t, FreeTime("30 min (Rápido)"))
	assert.False(t, FreeTime("15 min (Express)"))

	// Legacy labels outside the catalog still match on the marker substring.
	assert.True(t, FreeTime("30 min"))
	assert.False(t, FreeTime("45 min"))
}

func TestGenerationAccessors(t *testing.T) {
	g := &Generation{Mode: ModeSingle, Recipe: &Recipe{Title: "Frango", ImagePrompt: "p"}}
	assert.Equal(t, "Frango", g.Title())
	assert.Equal(t, "p", g.ImagePrompt())
	g.SetImageURL("http://img")
	assert.Equal(t, "http://img", g.Recipe.ImageURL)
	assert.Equal(t, g.Recipe, g.Payload())

	d := &Generation{Mode: ModeDaily, Menu: &DailyMenu{Title: "Cardápio"}}
	assert.Equal(t, "Cardápio", d.Title())
	d.SetImageURL("http://img2")
	assert.Equal(t, "http://img2", d.Menu.ImageURL)
	assert.Equal(t, d.Menu, d.Payload())
}
