// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio comunes.
var (
	// ErrSpecParse agrupa los fallos de especificación de objetivo o puertos
	ErrSpecParse = errors.New("invalid scan specification")

	// ErrAsnResolution indica que ningún proveedor resolvió el ASN
	ErrAsnResolution = errors.New("asn resolution failed")

	// ErrNoProviders indica que no hay proveedores de prefijos configurados
	ErrNoProviders = errors.New("no prefix providers configured")
)

// SpecParseError describe una entrada mal formada. Es fatal: aborta antes
// de escanear.
type SpecParseError struct {
	Field  string // flag o argumento afectado
	Input  string // texto recibido
	Reason string
}

func (e *SpecParseError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Input, e.Reason)
}

// Is permite errors.Is(err, ErrSpecParse).
func (e *SpecParseError) Is(target error) bool {
	return target == ErrSpecParse
}

func specErr(field, input, reason string) error {
	return &SpecParseError{Field: field, Input: input, Reason: reason}
}

// AsnResolutionError se devuelve cuando todos los proveedores fallan.
// Provider y Err corresponden al último intento.
type AsnResolutionError struct {
	ASN      uint32
	Provider string
	Err      error
}

func (e *AsnResolutionError) Error() string {
	return fmt.Sprintf("resolve AS%d: all providers failed (last %s): %v", e.ASN, e.Provider, e.Err)
}

func (e *AsnResolutionError) Unwrap() error {
	return e.Err
}

// Is permite errors.Is(err, ErrAsnResolution).
func (e *AsnResolutionError) Is(target error) bool {
	return target == ErrAsnResolution
}
