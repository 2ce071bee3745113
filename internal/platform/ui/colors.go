// internal/platform/ui/colors.go
package ui

import "github.com/pterm/pterm"

// Paleta inspirada en la interfaz de WebFig: azul RouterOS, verde de
// servicio encontrado y ámbar para lo que merece atención.
var (
	// RouterBlue - headers y elementos principales
	RouterBlue = pterm.NewRGB(41, 121, 255)

	// SignalGreen - servicio reconocido
	SignalGreen = pterm.NewRGB(46, 204, 113)

	// AmberWarn - advertencias, puertos abiertos sin firma
	AmberWarn = pterm.NewRGB(255, 182, 39)

	// FaultRed - errores de conexión
	FaultRed = pterm.NewRGB(215, 38, 56)

	// CableGray - texto secundario, puertos cerrados
	CableGray = pterm.NewRGB(120, 120, 120)

	// PanelWhite - texto principal
	PanelWhite = pterm.NewRGB(232, 232, 232)
)

// Estilos preconfigurados
var (
	StylePrimary   = RouterBlue.ToRGBStyle()
	StyleSuccess   = SignalGreen.ToRGBStyle()
	StyleWarning   = AmberWarn.ToRGBStyle()
	StyleError     = FaultRed.ToRGBStyle()
	StyleSecondary = CableGray.ToRGBStyle()
	StyleText      = PanelWhite.ToRGBStyle()
)
