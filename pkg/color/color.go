package color

import (
	"os"

	"github.com/fatih/color"
)

// Tone is the badge palette shared by the console and the CLI.
type Tone string

const (
	ToneGreen  Tone = "green"
	ToneYellow Tone = "yellow"
	ToneRed    Tone = "red"
	ToneBlue   Tone = "blue"
	ToneGray   Tone = "gray"
)

var toneAttrs = map[Tone][]color.Attribute{
	ToneGreen:  {color.FgGreen},
	ToneYellow: {color.FgYellow},
	ToneRed:    {color.FgRed, color.Bold},
	ToneBlue:   {color.FgBlue},
	ToneGray:   {color.FgHiBlack},
}

// Enabled reports whether terminal output should be colored. NO_COLOR wins,
// FORCE_COLOR overrides the tty detection fatih/color does at startup.
func Enabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return !color.NoColor
}

// Badge renders text in the tone's color.
func Badge(tone Tone, text string) string {
	attrs, ok := toneAttrs[tone]
	if !ok {
		return text
	}
	c := color.New(attrs...)
	if Enabled() {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(text)
}
