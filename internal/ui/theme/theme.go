package theme

import (
	"fmt"
	"image/color"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	fynetheme "fyne.io/fyne/v2/theme"
)

// Variant is the process-wide colour scheme.
type Variant string

const (
	Light Variant = "light"
	Dark  Variant = "dark"
)

// ParseVariant converts "light" or "dark" to a Variant.
func ParseVariant(value string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(value))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	}
	return "", fmt.Errorf("unknown theme %q (want light or dark)", value)
}

// Toggled returns the opposite variant.
func (variant Variant) Toggled() Variant {
	if variant == Dark {
		return Light
	}
	return Dark
}

func (variant Variant) fyneVariant() fyne.ThemeVariant {
	if variant == Dark {
		return fynetheme.VariantDark
	}
	return fynetheme.VariantLight
}

// Theme forces one variant on top of the default fyne theme and adds
// a tomato accent.
type Theme struct {
	fyne.Theme
	variant Variant
}

// New returns a theme fixed to variant.
func New(variant Variant) *Theme {
	return &Theme{Theme: fynetheme.DefaultTheme(), variant: variant}
}

// Variant returns the forced variant.
func (t *Theme) Variant() Variant {
	return t.variant
}

// Color ignores the system variant in favour of the forced one.
func (t *Theme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	if name == fynetheme.ColorNamePrimary {
		if t.variant == Dark {
			return color.NRGBA{R: 0xff, G: 0x7a, B: 0x6b, A: 0xff}
		}
		return color.NRGBA{R: 0xe5, G: 0x4b, B: 0x3c, A: 0xff}
	}
	return t.Theme.Color(name, t.variant.fyneVariant())
}

// Settings is the slice of fyne.Settings the Switcher needs.
type Settings interface {
	SetTheme(fyne.Theme)
}

// Switcher owns the current variant and applies it app-wide.
type Switcher struct {
	mu       sync.Mutex
	settings Settings
	variant  Variant
	onChange []func(Variant)
}

// NewSwitcher applies variant to settings immediately.
func NewSwitcher(settings Settings, variant Variant) *Switcher {
	switcher := &Switcher{settings: settings, variant: variant}
	settings.SetTheme(New(variant))
	return switcher
}

// Variant returns the active variant.
func (switcher *Switcher) Variant() Variant {
	switcher.mu.Lock()
	defer switcher.mu.Unlock()
	return switcher.variant
}

// OnChange registers a callback invoked after every switch.
func (switcher *Switcher) OnChange(callback func(Variant)) {
	switcher.mu.Lock()
	defer switcher.mu.Unlock()
	switcher.onChange = append(switcher.onChange, callback)
}

// Set applies variant.
func (switcher *Switcher) Set(variant Variant) {
	switcher.mu.Lock()
	switcher.variant = variant
	callbacks := append([]func(Variant){}, switcher.onChange...)
	switcher.mu.Unlock()

	switcher.settings.SetTheme(New(variant))
	for _, callback := range callbacks {
		callback(variant)
	}
}

// Toggle flips between light and dark and returns the new variant.
func (switcher *Switcher) Toggle() Variant {
	next := switcher.Variant().Toggled()
	switcher.Set(next)
	return next
}
