package domain

import (
	"fmt"
	"math"

	"github.com/cespare/xxhash"
)

// ColorFromName 由目录名确定性生成粉彩色（HSL：色相取哈希，S=0.4、L=0.9）。
// 同名必同色，跨运行一致；交互层据此给整理目录着色。
func ColorFromName(name string) string {
	if name == "" {
		return ""
	}
	hue := float64(xxhash.Sum64String(name) % 360)
	r, g, b := hslToRGB(hue, 0.4, 0.9)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hslToRGB(h, s, l float64) (uint8, uint8, uint8) {
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return uint8((r + m) * 255), uint8((g + m) * 255), uint8((b + m) * 255)
}
