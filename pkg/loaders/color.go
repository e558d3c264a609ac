package loaders

import (
	"errors"
	"fmt"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// ErrUnknownColor is returned for color strings that are neither a CSS name nor hex
var ErrUnknownColor = errors.New("unknown color")

// ParseColor parses a CSS color name ("red", "cornflowerblue") or a hex
// string ("#ff0000", "#f00") into an opaque color
func ParseColor(s string) (core.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return core.Color{}, fmt.Errorf("%w: %q: %v", ErrUnknownColor, s, err)
		}
		r, g, b := c.RGB255()
		return core.NewColor(r, g, b), nil
	}
	if c, ok := colornames.Map[s]; ok {
		return core.ColorFromStd(c), nil
	}
	return core.Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
}

// ColorValue is a color in a scene file. It accepts a name or hex string,
// or a sequence of 3 or 4 channel values in [0, 255].
type ColorValue struct {
	core.Color
}

// UnmarshalYAML implements yaml.Unmarshaler
func (c *ColorValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseColor(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		c.Color = parsed
		return nil
	case yaml.SequenceNode:
		var channels []int
		if err := node.Decode(&channels); err != nil {
			return err
		}
		if len(channels) != 3 && len(channels) != 4 {
			return fmt.Errorf("line %d: color needs 3 or 4 channels, got %d", node.Line, len(channels))
		}
		for _, ch := range channels {
			if ch < 0 || ch > 255 {
				return fmt.Errorf("line %d: color channel %d out of range", node.Line, ch)
			}
		}
		c.Color = core.NewColor(uint8(channels[0]), uint8(channels[1]), uint8(channels[2]))
		if len(channels) == 4 {
			c.A = uint8(channels[3])
		}
		return nil
	default:
		return fmt.Errorf("line %d: color must be a string or a list", node.Line)
	}
}
