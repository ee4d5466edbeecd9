package wallpaper

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// ThemeSpec is a palette as hex strings, the form themes are declared and configured in.
type ThemeSpec struct {
	BG           string `json:"bg" yaml:"bg"`
	Card         string `json:"card" yaml:"card"`
	TextMain     string `json:"text_main" yaml:"text_main"`
	TextSub      string `json:"text_sub" yaml:"text_sub"`
	Accent       string `json:"accent" yaml:"accent"`
	GridActive   string `json:"grid_active" yaml:"grid_active"`
	GridInactive string `json:"grid_inactive" yaml:"grid_inactive"`
}

type Palette struct {
	ID           string
	BG           color.RGBA
	Card         color.RGBA
	TextMain     color.RGBA
	TextSub      color.RGBA
	Accent       color.RGBA
	GridActive   color.RGBA
	GridInactive color.RGBA
}

const FallbackTheme = "dark-minimal"

var builtinThemes = map[string]ThemeSpec{
	"dark-minimal": {
		BG: "#0D0D0F", Card: "#1C1C21", TextMain: "#F5F5F7", TextSub: "#8E8E93",
		Accent: "#FF9F0A", GridActive: "#E5E5EA", GridInactive: "#2C2C2E",
	},
	"light-minimal": {
		BG: "#F5F5F7", Card: "#E3E3E8", TextMain: "#1C1C1E", TextSub: "#6E6E73",
		Accent: "#FF3B30", GridActive: "#3A3A3C", GridInactive: "#D1D1D6",
	},
	"midnight-blue": {
		BG: "#0B1026", Card: "#1A2150", TextMain: "#E6E9FF", TextSub: "#8A93C2",
		Accent: "#5AC8FA", GridActive: "#7B8CFF", GridInactive: "#1F2650",
	},
	"forest": {
		BG: "#0F1A14", Card: "#1D3326", TextMain: "#E8F5EC", TextSub: "#8DAA97",
		Accent: "#34C759", GridActive: "#A3D9A5", GridInactive: "#22352A",
	},
	"sunset": {
		BG: "#1F0F1A", Card: "#45203A", TextMain: "#FFE9E0", TextSub: "#C79A9A",
		Accent: "#FF6B3D", GridActive: "#FFB38A", GridInactive: "#3A1D2E",
	},
	"ocean": {
		BG: "#04202B", Card: "#0B3A4A", TextMain: "#E0F7FA", TextSub: "#7FB3C0",
		Accent: "#00D1B2", GridActive: "#80DEEA", GridInactive: "#0E3442",
	},
}

// ThemeResolver maps theme ids to palettes. Resolve never fails: unknown ids
// get the dark-minimal palette.
type ThemeResolver struct {
	mu       sync.RWMutex
	palettes map[string]Palette
	fallback Palette
}

func NewThemeResolver() *ThemeResolver {
	r := &ThemeResolver{palettes: make(map[string]Palette, len(builtinThemes))}
	for id, spec := range builtinThemes {
		p, err := spec.Palette(id)
		if err != nil {
			panic(fmt.Sprintf("builtin theme %s: %v", id, err))
		}
		r.palettes[id] = p
	}
	r.fallback = r.palettes[FallbackTheme]
	return r
}

// Register adds or replaces a theme. A palette with an unparsable color is rejected
// as a whole rather than partially applied.
func (r *ThemeResolver) Register(id string, spec ThemeSpec) error {
	id = normalizeThemeID(id)
	if id == "" {
		return fmt.Errorf("theme id cannot be empty")
	}
	p, err := spec.Palette(id)
	if err != nil {
		return fmt.Errorf("theme %s: %w", id, err)
	}

	r.mu.Lock()
	r.palettes[id] = p
	r.mu.Unlock()
	return nil
}

func (r *ThemeResolver) Resolve(id string) Palette {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.palettes[normalizeThemeID(id)]; ok {
		return p
	}
	return r.fallback
}

func (r *ThemeResolver) Known(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.palettes[normalizeThemeID(id)]
	return ok
}

func (r *ThemeResolver) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.palettes))
	for id := range r.palettes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s ThemeSpec) Palette(id string) (Palette, error) {
	p := Palette{ID: id}
	fields := []struct {
		name string
		hex  string
		dst  *color.RGBA
	}{
		{"bg", s.BG, &p.BG},
		{"card", s.Card, &p.Card},
		{"text_main", s.TextMain, &p.TextMain},
		{"text_sub", s.TextSub, &p.TextSub},
		{"accent", s.Accent, &p.Accent},
		{"grid_active", s.GridActive, &p.GridActive},
		{"grid_inactive", s.GridInactive, &p.GridInactive},
	}
	for _, f := range fields {
		c, err := ParseHexColor(f.hex)
		if err != nil {
			return Palette{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = c
	}
	return p, nil
}

func ParseHexColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(strings.TrimSpace(hex))
	if err != nil {
		return color.RGBA{}, err
	}
	return toRGBA(c), nil
}

// LevelColor is the heatmap shade of an intensity level 0..4.
func (p Palette) LevelColor(level int) color.RGBA {
	if level <= 0 {
		return p.GridInactive
	}
	return Blend(p.GridInactive, p.Accent, float64(clampInt(level, 0, 4))/4)
}

// Blend mixes a toward b in Lab space; t=0 is a, t=1 is b.
func Blend(a, b color.RGBA, t float64) color.RGBA {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	ca, _ := colorful.MakeColor(opaque(a))
	cb, _ := colorful.MakeColor(opaque(b))
	return toRGBA(ca.BlendLab(cb, t).Clamped())
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func opaque(c color.RGBA) color.RGBA {
	c.A = 0xff
	return c
}

func normalizeThemeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
