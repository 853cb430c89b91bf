package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"

	"github.com/planetexplorer/planetexplorer/internal/model"
)

// unknownText is shown for values the planets API reports as unknown.
const unknownText = "unknown"

// printer writes human-oriented command output, colored when the
// destination is a terminal.
type printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// resolveColors decides whether to color output written to w.
func resolveColors(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "", "auto":
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false, nil
		}
		if os.Getenv("TERM") == "dumb" {
			return false, nil
		}
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	default:
		return false, fmt.Errorf("invalid color mode %q: must be auto, always, or never", mode)
	}
}

// newPrinter creates a printer bound to the command's output streams.
func newPrinter(out, errOut io.Writer) (*printer, error) {
	useColors, err := resolveColors(colorFlag, out)
	if err != nil {
		return nil, err
	}
	return &printer{out: out, err: errOut, useColors: useColors}, nil
}

// Info prints an informational message.
func (p *printer) Info(format string, args ...any) {
	if p.useColors {
		color.New(color.FgCyan).Fprintf(p.out, format+"\n", args...)
	} else {
		fmt.Fprintf(p.out, format+"\n", args...)
	}
}

// Success prints a success message.
func (p *printer) Success(format string, args ...any) {
	if p.useColors {
		color.New(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
	}
}

// Warning prints a warning message.
func (p *printer) Warning(format string, args ...any) {
	if p.useColors {
		color.New(color.FgYellow).Fprintf(p.err, "⚠ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.err, "[WARN] "+format+"\n", args...)
	}
}

// Error prints an error message.
func (p *printer) Error(format string, args ...any) {
	if p.useColors {
		color.New(color.FgRed).Fprintf(p.err, "✗ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.err, "[ERROR] "+format+"\n", args...)
	}
}

// Bold returns text in bold.
func (p *printer) Bold(text string) string {
	if p.useColors {
		return color.New(color.Bold).Sprint(text)
	}
	return text
}

// Dim returns dimmed text.
func (p *printer) Dim(text string) string {
	if p.useColors {
		return color.New(color.Faint).Sprint(text)
	}
	return text
}

// optional renders a nullable value, dimming the unknown placeholder.
func (p *printer) optional(s *string) string {
	if s == nil {
		return p.Dim(unknownText)
	}
	return *s
}

func (p *printer) optionalInt(n *int) string {
	if n == nil {
		return p.Dim(unknownText)
	}
	return strconv.Itoa(*n)
}

// PlanetTable renders planets as a borderless table.
func (p *printer) PlanetTable(planets []model.Planet) error {
	table := tablewriter.NewTable(p.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	table.Header([]string{"ID", "Name", "Climate", "Orbital Period", "Gravity"})
	for _, pl := range planets {
		if err := table.Append([]string{
			strconv.Itoa(pl.ID),
			pl.Name,
			p.optional(pl.Climate),
			p.optionalInt(pl.OrbitalPeriod),
			p.optional(pl.Gravity),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

// PlanetDetail renders one planet as labelled lines.
func (p *printer) PlanetDetail(pl model.Planet) {
	fmt.Fprintf(p.out, "%s\n", p.Bold(pl.Name))
	fmt.Fprintf(p.out, "  ID:             %d\n", pl.ID)
	fmt.Fprintf(p.out, "  Climate:        %s\n", p.optional(pl.Climate))
	fmt.Fprintf(p.out, "  Orbital period: %s\n", p.optionalInt(pl.OrbitalPeriod))
	fmt.Fprintf(p.out, "  Gravity:        %s\n", p.optional(pl.Gravity))
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
