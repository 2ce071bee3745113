// Package targets turns target and port specifications into the lazy
// stream of ProbeTargets consumed by the scanner.
package targets

import (
	"iter"

	"webfigscan/internal/core/domain"
)

// Ports returns the ports to probe for one address. The sequence is
// restartable: every range over it starts again from the first port.
func Ports(spec domain.PortSpec) iter.Seq[uint16] {
	if spec.All {
		return func(yield func(uint16) bool) {
			for p := 1; p <= domain.MaxPort; p++ {
				if !yield(uint16(p)) {
					return
				}
			}
		}
	}

	ports := spec.Ports
	return func(yield func(uint16) bool) {
		for _, p := range ports {
			if !yield(p) {
				return
			}
		}
	}
}
