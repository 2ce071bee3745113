// internal/platform/ui/presenter.go
package ui

import (
	"io"
	"os"

	"github.com/pterm/pterm"

	"webfigscan/internal/core/ports"
)

// Mode define el modo de visualización
type Mode string

const (
	ModePretty Mode = "pretty" // pterm con colores y tablas (terminal)
	ModeRaw    Mode = "raw"    // una línea logfmt por evento (pipes, ficheros)
)

// Options configura el reporter de consola.
type Options struct {
	Mode Mode

	// Quiet suprime las líneas por resultado; el resumen se imprime igual
	Quiet bool

	// ShowAll imprime también los outcomes que no son match
	ShowAll bool

	NoColor bool

	// Out es el destino; nil = os.Stdout
	Out io.Writer
}

// NewReporter crea el reporter de consola del modo pedido.
func NewReporter(opts Options) ports.Reporter {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.NoColor {
		pterm.DisableColor()
	}
	if opts.Mode == ModeRaw {
		return NewRawReporter(opts)
	}
	return NewConsoleReporter(opts)
}

// DetectMode elige pretty si stdout es un terminal.
func DetectMode() Mode {
	fi, err := os.Stdout.Stat()
	if err != nil || fi.Mode()&os.ModeCharDevice == 0 {
		return ModeRaw
	}
	return ModePretty
}

// shouldPrint decide si un resultado merece línea propia.
func shouldPrint(opts Options, match bool) bool {
	if opts.Quiet {
		return false
	}
	return match || opts.ShowAll
}
