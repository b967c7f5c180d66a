package dietary

import (
	"slices"
	"strings"
)

// Flatten encodes p as the ordered "<category>:<item>" list stored in the
// profile document. Custom allergens are encoded as "allergens:<value>".
func Flatten(p Profile) []string {
	out := []string{}
	for _, c := range Categories {
		items, _ := Items(c)
		flags := p.flags(c)
		for _, item := range items {
			if flags[item] {
				out = append(out, string(c)+":"+item)
			}
		}
		if c == CategoryAllergens {
			for _, custom := range p.CustomAllergens {
				out = append(out, string(CategoryAllergens)+":"+custom)
			}
		}
	}
	return out
}

// Unflatten decodes a stored preference list. Entries without a known
// category prefix are skipped.
func Unflatten(entries []string) Profile {
	p := Default()
	for _, e := range entries {
		cat, item, ok := strings.Cut(e, ":")
		if !ok || item == "" {
			continue
		}
		c := Category(cat)
		items, err := Items(c)
		if err != nil {
			continue
		}
		if slices.Contains(items, item) {
			p.flags(c)[item] = true
			continue
		}
		if c == CategoryAllergens {
			p.CustomAllergens = addUnique(p.CustomAllergens, item)
		}
	}
	return p
}
