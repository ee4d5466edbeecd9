package wallpaper

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeResolver(t *testing.T) {
	r := NewThemeResolver()

	t.Run("Builtin theme", func(t *testing.T) {
		p := r.Resolve("light-minimal")
		assert.Equal(t, "light-minimal", p.ID)
		assert.Equal(t, color.RGBA{R: 0xF5, G: 0xF5, B: 0xF7, A: 0xff}, p.BG)
	})

	t.Run("Case and spaces are ignored", func(t *testing.T) {
		assert.Equal(t, "forest", r.Resolve("  Forest ").ID)
	})

	t.Run("Unknown falls back to dark-minimal", func(t *testing.T) {
		assert.Equal(t, FallbackTheme, r.Resolve("neon-dreams").ID)
		assert.Equal(t, FallbackTheme, r.Resolve("").ID)
		assert.False(t, r.Known("neon-dreams"))
	})

	t.Run("Register custom theme", func(t *testing.T) {
		err := r.Register("Paper", ThemeSpec{
			BG: "#ffffff", Card: "#eeeeee", TextMain: "#000000", TextSub: "#555555",
			Accent: "#0055ff", GridActive: "#222222", GridInactive: "#dddddd",
		})
		require.NoError(t, err)
		assert.True(t, r.Known("paper"))
		assert.Equal(t, color.RGBA{R: 0x00, G: 0x55, B: 0xff, A: 0xff}, r.Resolve("paper").Accent)
		assert.Contains(t, r.IDs(), "paper")
	})

	t.Run("Invalid custom theme is rejected whole", func(t *testing.T) {
		err := r.Register("broken", ThemeSpec{BG: "#fff000"})
		assert.Error(t, err)
		assert.False(t, r.Known("broken"))

		assert.Error(t, r.Register(" ", ThemeSpec{}))
	})
}

func TestBlend(t *testing.T) {
	black := color.RGBA{A: 0xff}
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	assert.Equal(t, black, Blend(black, white, 0))
	assert.Equal(t, white, Blend(black, white, 1))

	mid := Blend(black, white, 0.5)
	assert.Greater(t, mid.R, uint8(0x20))
	assert.Less(t, mid.R, uint8(0xe0))
	assert.Equal(t, uint8(0xff), mid.A)
}
