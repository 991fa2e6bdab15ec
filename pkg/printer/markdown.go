package printer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jlrickert/dexview/pkg/catalog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown renders a profile as a markdown document.
func Markdown(pr catalog.Profile) string {
	var b strings.Builder
	c := pr.Card
	fmt.Fprintf(&b, "# %s %s\n\n", c.Title(), c.IDLabel())
	if c.Artwork != "" {
		fmt.Fprintf(&b, "![%s](%s)\n\n", c.Name, c.Artwork)
	}
	if len(c.Types) > 0 {
		fmt.Fprintf(&b, "**Types:** %s\n\n", strings.Join(c.Types, ", "))
	}
	if pr.Flavor != "" {
		fmt.Fprintf(&b, "> %s\n\n", pr.Flavor)
	}

	b.WriteString("| Height | Weight | Base Exp | BST | Catch Rate | Growth |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %.1f m | %.1f kg | %s | %d | %d | %s |\n\n",
		c.HeightM, c.WeightKg, baseExp(pr.BaseExperience), pr.BaseStatTotal, pr.CaptureRate, orDash(pr.GrowthRate))

	if len(pr.Abilities) > 0 {
		b.WriteString("## Abilities\n\n")
		for _, a := range pr.Abilities {
			fmt.Fprintf(&b, "- %s\n", a.Label())
		}
		b.WriteString("\n")
	}

	if len(pr.Stats) > 0 {
		b.WriteString("## Base Stats\n\n")
		b.WriteString("| Stat | Value | % |\n|---|---|---|\n")
		for _, s := range pr.Stats {
			fmt.Fprintf(&b, "| %s | %d | %d |\n", s.Label, s.Value, s.Percent)
		}
		b.WriteString("\n")
	}

	if len(pr.Evolution) > 0 {
		b.WriteString("## Evolution Chain\n\n")
		b.WriteString(strings.Join(pr.Evolution, " → "))
		b.WriteString("\n")
	}
	return b.String()
}

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML renders the markdown form of a profile to HTML.
func HTML(pr catalog.Profile) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(pr)), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
