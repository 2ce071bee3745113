// internal/platform/ui/symbols.go
package ui

import (
	"github.com/pterm/pterm"

	"webfigscan/internal/core/domain"
)

// Symbol retorna el símbolo Unicode de cada outcome
func Symbol(k domain.OutcomeKind) string {
	switch k {
	case domain.OutcomeServiceMatch:
		return "✓"
	case domain.OutcomeOpenNoMatch:
		return "○"
	case domain.OutcomeClosed:
		return "⊘"
	case domain.OutcomeTimedOut:
		return "⏱"
	case domain.OutcomeConnectionError:
		return "✗"
	default:
		return "?"
	}
}

// Color retorna el color pterm de cada outcome
func Color(k domain.OutcomeKind) pterm.Color {
	switch k {
	case domain.OutcomeServiceMatch:
		return pterm.FgGreen
	case domain.OutcomeOpenNoMatch:
		return pterm.FgYellow
	case domain.OutcomeClosed, domain.OutcomeTimedOut:
		return pterm.FgGray
	case domain.OutcomeConnectionError:
		return pterm.FgRed
	default:
		return pterm.FgDefault
	}
}

// Style retorna un pterm.Style configurado para el outcome
func Style(k domain.OutcomeKind) *pterm.Style {
	return pterm.NewStyle(Color(k))
}

// Iconos de la cabecera
var (
	IconTarget  = "🎯"
	IconWarning = "⚠"
	IconStats   = "📊"
	IconTime    = "⏱"
	IconWorkers = "⚙️"
)

// Separadores
var (
	SeparatorHeavy = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
	SeparatorLight = "────────────────────────────────────────────"
)
