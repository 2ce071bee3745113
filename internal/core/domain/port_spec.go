// internal/core/domain/port_spec.go
package domain

import "strconv"

// MaxPort es el último puerto TCP.
const MaxPort = 65535

// PortSpec es una lista explícita de puertos sin duplicados o el centinela
// "todos los puertos" (1..65535).
type PortSpec struct {
	All   bool
	Ports []uint16
}

// AllPorts devuelve el centinela de todos los puertos.
func AllPorts() PortSpec {
	return PortSpec{All: true}
}

// ExplicitPorts valida y envuelve una lista ordenada de puertos.
func ExplicitPorts(ports []uint16) (PortSpec, error) {
	if len(ports) == 0 {
		return PortSpec{}, specErr("ports", "", "empty port list")
	}
	seen := make(map[uint16]struct{}, len(ports))
	for _, p := range ports {
		if p == 0 {
			return PortSpec{}, specErr("ports", "0", "port must be in 1..65535")
		}
		if _, dup := seen[p]; dup {
			return PortSpec{}, specErr("ports", strconv.Itoa(int(p)), "duplicate port")
		}
		seen[p] = struct{}{}
	}
	return PortSpec{Ports: append([]uint16(nil), ports...)}, nil
}

// Count devuelve cuántos puertos se prueban por dirección.
func (s PortSpec) Count() int {
	if s.All {
		return MaxPort
	}
	return len(s.Ports)
}
