// Package theme describes the editor's colour palette and loads named
// palettes from disk or the embedded defaults.
package theme

import (
	"image/color"
)

// Theme defines the color palette for the editor UI.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window background around the canvas
	Foreground color.RGBA // Status line text
	Accent     color.RGBA // Selected tool and active layer highlight

	// Toolbar
	ToolbarBackground     color.RGBA
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA

	// Layer and frame panels
	PanelBackground color.RGBA
	PanelText       color.RGBA
	HiddenText      color.RGBA // Hidden layers
	StaleText       color.RGBA // Frames that can no longer be restored

	// Prompt overlay
	PromptBackground color.RGBA
	PromptText       color.RGBA

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
}

// Default returns the hardcoded light theme used when nothing else loads.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{232, 232, 240, 255},
		Foreground:            color.RGBA{30, 30, 40, 255},
		Accent:                color.RGBA{0x6c, 0x5c, 0xe7, 255},
		ToolbarBackground:     color.RGBA{220, 220, 228, 255},
		ButtonBackground:      color.RGBA{200, 200, 210, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 195, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 170, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonBorder:          color.RGBA{90, 90, 110, 255},
		PanelBackground:       color.RGBA{240, 240, 246, 255},
		PanelText:             color.RGBA{20, 20, 30, 255},
		HiddenText:            color.RGBA{150, 150, 160, 255},
		StaleText:             color.RGBA{200, 60, 60, 255},
		PromptBackground:      color.RGBA{255, 255, 255, 240},
		PromptText:            color.RGBA{0, 0, 0, 255},
		CheckerLight:          color.RGBA{220, 220, 220, 255},
		CheckerDark:           color.RGBA{192, 192, 192, 255},
	}
}
