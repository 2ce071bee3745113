// internal/platform/ui/console.go
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"webfigscan/internal/core/domain"
	"webfigscan/internal/core/ports"
)

// ConsoleReporter implementa ports.Reporter con pterm: cabecera, una
// línea por resultado y tabla resumen al final. Lo alimenta un único
// consumidor, no necesita locks.
type ConsoleReporter struct {
	opts    Options
	out     io.Writer
	info    ports.ScanInfo
	matches []domain.Result
}

// NewConsoleReporter crea el reporter pterm.
func NewConsoleReporter(opts Options) *ConsoleReporter {
	return &ConsoleReporter{opts: opts, out: opts.Out}
}

// Start imprime el banner y la configuración del escaneo
func (c *ConsoleReporter) Start(info ports.ScanInfo) {
	c.info = info

	fmt.Fprint(c.out, StylePrimary.Sprint(GetBanner(pterm.GetTerminalWidth())))
	fmt.Fprintln(c.out)

	var b strings.Builder
	fmt.Fprintf(&b, "%s Target:      %s\n", IconTarget, pterm.Cyan(info.Target))
	if info.Prefixes > 0 {
		fmt.Fprintf(&b, "   Prefixes:    %d\n", info.Prefixes)
	}
	fmt.Fprintf(&b, "   Addresses:   %s\n", formatCount(info.Addresses))
	fmt.Fprintf(&b, "   Ports/IP:    %d\n", info.PortsPerIP)
	fmt.Fprintf(&b, "   Probes:      %s\n", formatCount(info.Total))
	fmt.Fprintf(&b, "%s Concurrency: %d\n", IconWorkers, info.Concurrency)
	fmt.Fprintf(&b, "%s Timeout:     %s\n", IconTime, formatDuration(info.Timeout))
	fmt.Fprintf(&b, "   Scan ID:     %s", StyleSecondary.Sprint(info.ScanID))

	fmt.Fprintln(c.out, pterm.DefaultBox.
		WithTitle("Scan").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).
		Sprint(b.String()))
	fmt.Fprintln(c.out)
}

// Warn imprime una advertencia no fatal
func (c *ConsoleReporter) Warn(msg string) {
	fmt.Fprintln(c.out, StyleWarning.Sprint(IconWarning+"  "+msg))
}

// Result imprime la línea del resultado si corresponde
func (c *ConsoleReporter) Result(r domain.Result) {
	if r.IsMatch() {
		c.matches = append(c.matches, r)
	}
	if !shouldPrint(c.opts, r.IsMatch()) {
		return
	}
	fmt.Fprintln(c.out, c.line(r))
}

func (c *ConsoleReporter) line(r domain.Result) string {
	k := r.Outcome.Kind
	parts := []string{
		Style(k).Sprint(Symbol(k)),
		fmt.Sprintf("%-21s", r.Target.String()),
		Style(k).Sprint(fmt.Sprintf("%-7s", k.String())),
	}
	switch k {
	case domain.OutcomeServiceMatch:
		if r.Outcome.Version != "" {
			parts = append(parts, StyleSuccess.Sprint("RouterOS "+r.Outcome.Version))
		}
		if r.Title != "" {
			parts = append(parts, StyleSecondary.Sprint(fmt.Sprintf("%q", r.Title)))
		}
	case domain.OutcomeOpenNoMatch:
		if r.Server != "" {
			parts = append(parts, StyleSecondary.Sprint(r.Server))
		}
	case domain.OutcomeClosed, domain.OutcomeConnectionError:
		if r.Outcome.Detail != "" {
			parts = append(parts, StyleSecondary.Sprint(r.Outcome.Detail))
		}
	}
	return strings.Join(parts, "  ")
}

// Finish imprime el resumen por outcome y la tabla de matches
func (c *ConsoleReporter) Finish(summary *domain.ScanSummary) {
	if summary == nil {
		return
	}
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, pterm.LightBlue(SeparatorHeavy))
	fmt.Fprintf(c.out, "%s %s\n\n", IconStats, StylePrimary.Sprint("Summary"))

	data := pterm.TableData{{"Outcome", "Count"}}
	for _, k := range domain.OutcomeKinds {
		data = append(data, []string{
			Style(k).Sprint(Symbol(k) + " " + k.String()),
			formatCount(summary.ByOutcome[k]),
		})
	}
	data = append(data,
		[]string{"completed", fmt.Sprintf("%s / %s", formatCount(summary.Completed), formatCount(summary.Total))},
		[]string{"peak in-flight", fmt.Sprintf("%d", summary.PeakActive)},
		[]string{"elapsed", formatDuration(summary.Duration())},
	)
	if table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender(); err == nil {
		fmt.Fprintln(c.out, table)
	}

	if len(c.matches) == 0 {
		fmt.Fprintln(c.out, StyleSecondary.Sprint("No WebFig services found."))
		return
	}

	fmt.Fprintln(c.out)
	rows := pterm.TableData{{"Target", "Scheme", "Version", "Status", "Server", "Title"}}
	for _, m := range c.matches {
		status := "-"
		if m.Status > 0 {
			status = fmt.Sprintf("%d", m.Status)
		}
		rows = append(rows, []string{
			m.Target.String(),
			orDash(m.Scheme),
			orDash(m.Outcome.Version),
			status,
			orDash(m.Server),
			orDash(m.Title),
		})
	}
	if table, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender(); err == nil {
		fmt.Fprintln(c.out, table)
	}
}

// Close no retiene recursos
func (c *ConsoleReporter) Close() error {
	return nil
}
