// internal/core/domain/target.go
package domain

import (
	"fmt"
	"net/netip"
)

// TargetSpec es la especificación de objetivo de una invocación. Solo los
// campos de la variante indicada por Kind son significativos.
type TargetSpec struct {
	Kind TargetKind

	// Addr para TargetSingle
	Addr netip.Addr

	// Start y End para TargetRange (Start <= End)
	Start netip.Addr
	End   netip.Addr

	// Prefix para TargetCIDR
	Prefix netip.Prefix

	// ASN para TargetASN, ya normalizado a número
	ASN uint32

	// Path para TargetPrefixFile
	Path string
}

// SingleTarget crea un TargetSpec de una sola dirección.
func SingleTarget(addr netip.Addr) TargetSpec {
	return TargetSpec{Kind: TargetSingle, Addr: addr}
}

// RangeTarget crea un TargetSpec de rango inclusivo.
func RangeTarget(start, end netip.Addr) (TargetSpec, error) {
	if !start.Is4() || !end.Is4() {
		return TargetSpec{}, specErr("ip-range", start.String()+"-"+end.String(), "both endpoints must be IPv4")
	}
	if end.Less(start) {
		return TargetSpec{}, specErr("ip-range", start.String()+"-"+end.String(), "start is greater than end")
	}
	return TargetSpec{Kind: TargetRange, Start: start, End: end}, nil
}

// CIDRTarget crea un TargetSpec de bloque. El prefijo se enmascara.
func CIDRTarget(p netip.Prefix) TargetSpec {
	return TargetSpec{Kind: TargetCIDR, Prefix: p.Masked()}
}

// ASNTarget crea un TargetSpec de sistema autónomo.
func ASNTarget(asn uint32) TargetSpec {
	return TargetSpec{Kind: TargetASN, ASN: asn}
}

// PrefixFileTarget crea un TargetSpec leído de fichero.
func PrefixFileTarget(path string) TargetSpec {
	return TargetSpec{Kind: TargetPrefixFile, Path: path}
}

// String retorna una representación legible del objetivo.
func (t TargetSpec) String() string {
	switch t.Kind {
	case TargetSingle:
		return t.Addr.String()
	case TargetRange:
		return t.Start.String() + "-" + t.End.String()
	case TargetCIDR:
		return t.Prefix.String()
	case TargetASN:
		return fmt.Sprintf("AS%d", t.ASN)
	case TargetPrefixFile:
		return "file:" + t.Path
	default:
		return "<invalid target>"
	}
}

// ProbeTarget es la unidad de trabajo: una dirección y un puerto.
type ProbeTarget struct {
	Addr netip.Addr
	Port uint16
}

// AddrPort devuelve el destino como netip.AddrPort.
func (p ProbeTarget) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(p.Addr, p.Port)
}

// String retorna "a.b.c.d:port".
func (p ProbeTarget) String() string {
	return p.AddrPort().String()
}
