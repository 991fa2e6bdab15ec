package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/jlrickert/dexview/pkg/catalog"
	"github.com/jlrickert/dexview/pkg/dex"
	"github.com/muesli/reflow/wordwrap"
)

// DefaultWidth is the wrap width used when the terminal width is unknown.
const DefaultWidth = 80

// Printer writes human readable output.
type Printer struct {
	out   io.Writer
	color bool
	width int
}

// New returns a Printer writing to out. Colors are emitted only when color is
// set.
func New(out io.Writer, color bool) *Printer {
	return &Printer{out: out, color: color, width: DefaultWidth}
}

// WithWidth sets the wrap width for prose.
func (p *Printer) WithWidth(w int) *Printer {
	if w > 20 {
		p.width = w
	}
	return p
}

func (p *Printer) style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (p *Printer) bold(s string) string  { return p.style(color.Bold).Sprint(s) }
func (p *Printer) faint(s string) string { return p.style(color.Faint).Sprint(s) }

var typeColors = map[string]color.Attribute{
	"normal":   color.FgWhite,
	"fire":     color.FgRed,
	"water":    color.FgBlue,
	"electric": color.FgYellow,
	"grass":    color.FgGreen,
	"ice":      color.FgHiCyan,
	"fighting": color.FgHiRed,
	"poison":   color.FgMagenta,
	"ground":   color.FgHiYellow,
	"flying":   color.FgHiBlue,
	"psychic":  color.FgHiMagenta,
	"bug":      color.FgHiGreen,
	"rock":     color.FgYellow,
	"ghost":    color.FgMagenta,
	"dragon":   color.FgHiBlue,
	"dark":     color.FgHiBlack,
	"steel":    color.FgCyan,
	"fairy":    color.FgHiMagenta,
}

// Types renders type names joined by "/", colored per type.
func (p *Printer) Types(types []string) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		attr, ok := typeColors[t]
		if !ok {
			attr = color.Reset
		}
		parts = append(parts, p.style(attr).Sprint(t))
	}
	return strings.Join(parts, "/")
}

// View prints the page table followed by the pager line.
func (p *Printer) View(v dex.View) error {
	if len(v.Rows) == 0 {
		_, err := fmt.Fprintln(p.out, p.style(color.Faint, color.Italic).Sprint(" no matches"))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(p.out, p.faint(PagerLine(v)))
		return err
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(p.bold("ID"), p.bold("Name"), p.bold("Types"), p.bold("Gen"))
	for _, r := range v.Rows {
		types := p.Types(r.Types)
		if types == "" {
			types = p.faint("?")
		}
		gen := strings.TrimPrefix(r.Generation, "Gen ")
		if gen == "" {
			gen = p.faint("?")
		}
		tbl.AddRow(r.IDLabel, catalog.Capitalize(r.Name), types, gen)
	}
	if _, err := fmt.Fprintln(p.out, tbl); err != nil {
		return err
	}
	_, err := fmt.Fprintln(p.out, p.faint(PagerLine(v)))
	return err
}

// PagerLine renders the page window, e.g. "1 … 4 [5] 6 … 10 · page 5/10 · 243 results".
func PagerLine(v dex.View) string {
	var b strings.Builder
	for i, n := range v.Window {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch {
		case n == 0:
			b.WriteString("…")
		case n == v.Page:
			b.WriteString("[" + strconv.Itoa(n) + "]")
		default:
			b.WriteString(strconv.Itoa(n))
		}
	}
	noun := "results"
	if v.Count == 1 {
		noun = "result"
	}
	fmt.Fprintf(&b, " · page %d/%d · %d %s", v.Page, v.TotalPages, v.Count, noun)
	return b.String()
}

// Card prints a search or random result.
func (p *Printer) Card(c catalog.Card) error {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(p.faint(c.IDLabel()), p.bold(c.Title()))
	tbl.AddRow(p.faint("Types"), p.Types(c.Types))
	tbl.AddRow(p.faint("Height"), fmt.Sprintf("%.1f m", c.HeightM))
	tbl.AddRow(p.faint("Weight"), fmt.Sprintf("%.1f kg", c.WeightKg))
	if c.Artwork != "" {
		tbl.AddRow(p.faint("Artwork"), c.Artwork)
	}
	_, err := fmt.Fprintln(p.out, tbl)
	return err
}

// Profile prints the full detail view.
func (p *Printer) Profile(pr catalog.Profile) error {
	if err := p.Card(pr.Card); err != nil {
		return err
	}
	var b strings.Builder
	if pr.Flavor != "" {
		b.WriteString("\n")
		b.WriteString(wordwrap.String(pr.Flavor, p.width))
		b.WriteString("\n")
	}

	facts := uitable.New()
	facts.Separator = "  "
	facts.AddRow(p.faint("Base Exp"), baseExp(pr.BaseExperience))
	facts.AddRow(p.faint("BST"), strconv.Itoa(pr.BaseStatTotal))
	facts.AddRow(p.faint("Catch Rate"), strconv.Itoa(pr.CaptureRate))
	facts.AddRow(p.faint("Growth"), orDash(pr.GrowthRate))
	if pr.Generation != "" {
		facts.AddRow(p.faint("Generation"), pr.Generation)
	}
	b.WriteString("\n")
	b.WriteString(facts.String())
	b.WriteString("\n")

	b.WriteString("\n" + p.style(color.Bold, color.Underline).Sprint("Abilities") + "\n")
	abilities := make([]string, 0, len(pr.Abilities))
	for _, a := range pr.Abilities {
		abilities = append(abilities, a.Label())
	}
	b.WriteString(wordwrap.String(strings.Join(abilities, ", "), p.width) + "\n")

	b.WriteString("\n" + p.style(color.Bold, color.Underline).Sprint("Base Stats") + "\n")
	stats := uitable.New()
	stats.Separator = "  "
	for _, s := range pr.Stats {
		stats.AddRow(s.Label, strconv.Itoa(s.Value), p.style(color.FgGreen).Sprint(StatBar(s.Percent, 20)))
	}
	b.WriteString(stats.String() + "\n")

	if len(pr.Evolution) > 0 {
		b.WriteString("\n" + p.style(color.Bold, color.Underline).Sprint("Evolution Chain") + "\n")
		b.WriteString(wordwrap.String(strings.Join(pr.Evolution, " → "), p.width) + "\n")
	}
	_, err := io.WriteString(p.out, b.String())
	return err
}

// StatBar draws a bar width cells wide filled to percent.
func StatBar(percent, width int) string {
	percent = min(100, max(0, percent))
	filled := (percent*width + 50) / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func baseExp(v *int) string {
	if v == nil {
		return "—"
	}
	return strconv.Itoa(*v)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
