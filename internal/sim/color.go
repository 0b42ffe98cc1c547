package sim

import colorful "github.com/lucasb-eyer/go-colorful"

// MustHex parses a "#rrggbb" colour and panics on malformed input. Meant for
// package-level colour constants.
func MustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
