// Package dietary holds the normalized dietary profile and the pure
// operations the API applies to it.
package dietary

import (
	"errors"
	"slices"
	"strings"
)

// Category names a group of fixed dietary flags.
type Category string

const (
	CategoryAllergens   Category = "allergens"
	CategoryPreferences Category = "preferences"
	CategoryHealthGoals Category = "healthGoals"
)

// customAllergensKey is where the legacy browser shape nested custom allergens.
const customAllergensKey = "customAllergens"

var (
	ErrUnknownCategory = errors.New("unknown dietary category")
	ErrUnknownItem     = errors.New("unknown dietary item")
)

// Fixed enumerations in display order. Prompt and flattening order follow these.
var (
	AllergenItems   = []string{"gluten", "dairy", "nuts", "eggs", "soy", "shellfish"}
	PreferenceItems = []string{"vegetarian", "vegan", "kosher", "halal"}
	HealthGoalItems = []string{"lowSodium", "lowSugar", "highProtein", "lowCarb"}
)

// Categories lists the fixed categories in flattening order.
var Categories = []Category{CategoryAllergens, CategoryPreferences, CategoryHealthGoals}

// Items returns the fixed items of a category.
func Items(c Category) ([]string, error) {
	switch c {
	case CategoryAllergens:
		return AllergenItems, nil
	case CategoryPreferences:
		return PreferenceItems, nil
	case CategoryHealthGoals:
		return HealthGoalItems, nil
	}
	return nil, ErrUnknownCategory
}

// Flags maps the items of one category to their selection.
type Flags map[string]bool

// Profile is a user's dietary restrictions. After normalization every fixed
// key is present in each Flags map.
type Profile struct {
	Allergens       Flags    `json:"allergens"`
	CustomAllergens []string `json:"customAllergens"`
	Preferences     Flags    `json:"preferences"`
	HealthGoals     Flags    `json:"healthGoals"`
}

// Default returns the profile of a user who has selected nothing.
func Default() Profile {
	return Profile{
		Allergens:       falseFlags(AllergenItems),
		CustomAllergens: []string{},
		Preferences:     falseFlags(PreferenceItems),
		HealthGoals:     falseFlags(HealthGoalItems),
	}
}

func falseFlags(items []string) Flags {
	f := make(Flags, len(items))
	for _, item := range items {
		f[item] = false
	}
	return f
}

// Normalize builds a profile from untrusted decoded JSON. Missing or
// non-boolean flags read as false, unknown keys are dropped and custom
// allergens may sit either at the top level or inside "allergens".
func Normalize(raw map[string]any) Profile {
	p := Default()
	if raw == nil {
		return p
	}
	for _, c := range Categories {
		obj, _ := raw[string(c)].(map[string]any)
		items, _ := Items(c)
		flags := p.flags(c)
		for _, item := range items {
			if v, ok := obj[item].(bool); ok {
				flags[item] = v
			}
		}
		if c == CategoryAllergens {
			p.CustomAllergens = appendCustom(p.CustomAllergens, obj[customAllergensKey])
		}
	}
	p.CustomAllergens = appendCustom(p.CustomAllergens, raw[customAllergensKey])
	foldFixedAllergens(&p)
	return p
}

// foldFixedAllergens turns custom entries naming a fixed allergen into that
// flag. Both encode as the same remote entry.
func foldFixedAllergens(p *Profile) {
	p.CustomAllergens = slices.DeleteFunc(p.CustomAllergens, func(a string) bool {
		if slices.Contains(AllergenItems, a) {
			p.Allergens[a] = true
			return true
		}
		return false
	})
}

func appendCustom(dst []string, v any) []string {
	switch list := v.(type) {
	case []any:
		for _, e := range list {
			if s, ok := e.(string); ok {
				dst = addUnique(dst, s)
			}
		}
	case []string:
		for _, s := range list {
			dst = addUnique(dst, s)
		}
	}
	return dst
}

func addUnique(dst []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || slices.Contains(dst, s) {
		return dst
	}
	return append(dst, s)
}

// Normalized returns a deep copy with every fixed key present, unknown keys
// removed and custom allergens deduplicated.
func (p Profile) Normalized() Profile {
	n := Default()
	for _, c := range Categories {
		items, _ := Items(c)
		src, dst := p.flags(c), n.flags(c)
		for _, item := range items {
			dst[item] = src[item]
		}
	}
	n.CustomAllergens = appendCustom(n.CustomAllergens, p.CustomAllergens)
	foldFixedAllergens(&n)
	return n
}

func (p Profile) flags(c Category) Flags {
	switch c {
	case CategoryAllergens:
		return p.Allergens
	case CategoryPreferences:
		return p.Preferences
	case CategoryHealthGoals:
		return p.HealthGoals
	}
	return nil
}

// Clone returns a copy sharing no maps or slices with p.
func (p Profile) Clone() Profile {
	return Profile{
		Allergens:       cloneFlags(p.Allergens),
		CustomAllergens: append([]string{}, p.CustomAllergens...),
		Preferences:     cloneFlags(p.Preferences),
		HealthGoals:     cloneFlags(p.HealthGoals),
	}
}

func cloneFlags(f Flags) Flags {
	out := make(Flags, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Toggle returns a new profile with exactly one flag flipped.
func (p Profile) Toggle(c Category, item string) (Profile, error) {
	items, err := Items(c)
	if err != nil {
		return p, err
	}
	if !slices.Contains(items, item) {
		return p, ErrUnknownItem
	}
	next := p.Normalized()
	flags := next.flags(c)
	flags[item] = !flags[item]
	return next, nil
}

// AddCustomAllergen appends value unless it is blank or already present
// (exact match after trimming). A value naming a fixed allergen sets that
// flag instead. The bool reports whether anything changed.
func (p Profile) AddCustomAllergen(value string) (Profile, bool) {
	value = strings.TrimSpace(value)
	if value == "" || slices.Contains(p.CustomAllergens, value) {
		return p, false
	}
	if slices.Contains(AllergenItems, value) {
		if p.Allergens[value] {
			return p, false
		}
		next := p.Clone()
		next.Allergens[value] = true
		return next, true
	}
	next := p.Clone()
	next.CustomAllergens = append(next.CustomAllergens, value)
	return next, true
}

// RemoveCustomAllergen drops every exact match of value.
func (p Profile) RemoveCustomAllergen(value string) Profile {
	next := p.Clone()
	next.CustomAllergens = slices.DeleteFunc(next.CustomAllergens, func(a string) bool {
		return a == value
	})
	return next
}

// Restrictions lists selected allergens, then custom allergens, then
// selected preferences.
func (p Profile) Restrictions() []string {
	out := selected(p.Allergens, AllergenItems)
	out = append(out, p.CustomAllergens...)
	return append(out, selected(p.Preferences, PreferenceItems)...)
}

// HealthConsiderations lists selected health goals.
func (p Profile) HealthConsiderations() []string {
	return selected(p.HealthGoals, HealthGoalItems)
}

func selected(f Flags, items []string) []string {
	out := []string{}
	for _, item := range items {
		if f[item] {
			out = append(out, item)
		}
	}
	return out
}
