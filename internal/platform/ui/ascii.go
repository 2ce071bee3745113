// internal/platform/ui/ascii.go
package ui

// BannerWide - cabecera para terminales anchas
const BannerWide = `
 ╦ ╦╔═╗╔╗ ╔═╗╦╔═╗  ╔═╗╔═╗╔═╗╔╗╔
 ║║║║╣ ╠╩╗╠╣ ║║ ╦  ╚═╗║  ╠═╣║║║
 ╚╩╝╚═╝╚═╝╚  ╩╚═╝  ╚═╝╚═╝╩ ╩╝╚╝
   MikroTik WebFig reconnaissance
`

// BannerNarrow - para terminales de menos de 60 columnas
const BannerNarrow = `
 WEBFIGSCAN
 MikroTik WebFig reconnaissance
`

// GetBanner retorna el banner apropiado según el ancho del terminal
func GetBanner(terminalWidth int) string {
	if terminalWidth > 0 && terminalWidth < 60 {
		return BannerNarrow
	}
	return BannerWide
}
