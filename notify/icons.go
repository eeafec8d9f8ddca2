package notify

import (
	"github.com/BeatGlow/oled/draw"
	"github.com/BeatGlow/oled/pixel"
)

// BellIcon is the generic notification icon.
func BellIcon() *pixel.Canvas {
	return draw.MustIcon(
		"........................",
		"...........##...........",
		"..........####..........",
		"........########........",
		".......##########.......",
		"......###......###......",
		"......##........##......",
		".....###........###.....",
		".....##..........##.....",
		".....##..........##.....",
		".....##..........##.....",
		".....##..........##.....",
		".....##..........##.....",
		"....###..........###....",
		"....##............##....",
		"...###............###...",
		"..###..............###..",
		"..####################..",
		"..####################..",
		"..........####..........",
		"..........####..........",
		"...........##...........",
		"........................",
		"........................",
	)
}

// ChatIcon is used for messages from chat applications.
func ChatIcon() *pixel.Canvas {
	return draw.MustIcon(
		"........................",
		"........................",
		"..####################..",
		".######################.",
		".##..................##.",
		".##..................##.",
		".##..####......####..##.",
		".##..####......####..##.",
		".##..................##.",
		".##..................##.",
		".##...##........##...##.",
		".##....##......##....##.",
		".##.....########.....##.",
		".##..................##.",
		".######################.",
		"..####################..",
		"......####..............",
		".....###................",
		"....###.................",
		"...##...................",
		"........................",
		"........................",
		"........................",
		"........................",
	)
}

// ClipboardIcon is used for clipboard changes.
func ClipboardIcon() *pixel.Canvas {
	return draw.MustIcon(
		"........................",
		".........######.........",
		"....#####......#####....",
		"...##...##....##...##...",
		"...##....######....##...",
		"...##..............##...",
		"...##..##########..##...",
		"...##..............##...",
		"...##..##########..##...",
		"...##..............##...",
		"...##..##########..##...",
		"...##..............##...",
		"...##..######......##...",
		"...##..............##...",
		"...##..............##...",
		"...##..............##...",
		"...##..............##...",
		"...##..............##...",
		"...##..............##...",
		"...##..............##...",
		"...##..............##...",
		"...##################...",
		"....################....",
		"........................",
	)
}
