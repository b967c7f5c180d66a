package dietary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlatten(t *testing.T) {
	p := Default()
	p, _ = p.Toggle(CategoryHealthGoals, "highProtein")
	p, _ = p.Toggle(CategoryPreferences, "kosher")
	p, _ = p.Toggle(CategoryAllergens, "eggs")
	p, _ = p.AddCustomAllergen("kiwi")

	assert.Equal(t, []string{
		"allergens:eggs",
		"allergens:kiwi",
		"preferences:kosher",
		"healthGoals:highProtein",
	}, Flatten(p))

	assert.Equal(t, []string{}, Flatten(Default()))
}

func TestUnflattenRoundTrip(t *testing.T) {
	p := Default()
	p, _ = p.Toggle(CategoryAllergens, "shellfish")
	p, _ = p.Toggle(CategoryPreferences, "vegan")
	p, _ = p.AddCustomAllergen("kiwi")
	p, _ = p.AddCustomAllergen("star anise")

	assert.Equal(t, p, Unflatten(Flatten(p)))
}

func TestCustomAllergenNamingFixedItemRoundTrips(t *testing.T) {
	p, changed := Default().AddCustomAllergen(" nuts ")
	assert.True(t, changed)
	assert.True(t, p.Allergens["nuts"])
	assert.Empty(t, p.CustomAllergens)

	assert.Equal(t, []string{"allergens:nuts"}, Flatten(p))
	assert.Equal(t, p, Unflatten(Flatten(p)))

	same, changed := p.AddCustomAllergen("nuts")
	assert.False(t, changed)
	assert.Equal(t, p, same)

	// Case differs from the fixed key, so it stays custom.
	p, _ = p.AddCustomAllergen("Nuts")
	assert.Equal(t, []string{"Nuts"}, p.CustomAllergens)
	assert.Equal(t, p, Unflatten(Flatten(p)))
}

func TestUnflattenSkipsMalformed(t *testing.T) {
	p := Unflatten([]string{
		"gluten",
		"mood:happy",
		"preferences:",
		"preferences:pescatarian",
		"healthGoals:lowSugar",
		"allergens:ratio:1:2",
	})

	assert.True(t, p.HealthGoals["lowSugar"])
	assert.Equal(t, []string{"ratio:1:2"}, p.CustomAllergens)
	assert.NotContains(t, p.Preferences, "pescatarian")
	assert.Equal(t, []string{"ratio:1:2"}, p.Restrictions())
}
