package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/pantrychef/backend/internal/cache"
)

// Theme is one of the app's colour palettes.
type Theme struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// Themes in cycling order.
var Themes = []string{"Burgundy", "Green", "Orange", "B&W", "Dark"}

// ThemeService persists the selected theme index in the local cache.
type ThemeService struct {
	cache *cache.LocalCache
}

func NewThemeService(lc *cache.LocalCache) *ThemeService {
	return &ThemeService{cache: lc}
}

// Current returns the selected theme. Absent or unreadable values read as
// the first theme.
func (s *ThemeService) Current(ctx context.Context, user uuid.UUID) Theme {
	idx, err := s.cache.ThemeIndex(ctx, user)
	if err != nil || idx < 0 || idx >= len(Themes) {
		idx = 0
	}
	return Theme{Index: idx, Name: Themes[idx]}
}

// Next advances to the following theme, wrapping after the last.
func (s *ThemeService) Next(ctx context.Context, user uuid.UUID) (Theme, error) {
	idx := (s.Current(ctx, user).Index + 1) % len(Themes)
	if err := s.cache.SetThemeIndex(ctx, user, idx); err != nil {
		return Theme{}, err
	}
	return Theme{Index: idx, Name: Themes[idx]}, nil
}
