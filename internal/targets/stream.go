package targets

import (
	"iter"
	"net/netip"

	"go4.org/netipx"

	"webfigscan/internal/core/domain"
	"webfigscan/internal/platform/errors"
)

// Stream is the Cartesian product of expanded addresses and ports. It is
// lazy: nothing is materialised beyond the block list, and every call to
// Targets starts a fresh pass.
type Stream struct {
	blocks []Block
	ports  domain.PortSpec
	policy domain.ExpansionPolicy

	// dedupe is set when several sampled blocks may overlap; the seen-set
	// is bounded by blocks*sample.
	dedupe bool
}

// FromTarget builds the stream for a single, range or CIDR target.
func FromTarget(spec domain.TargetSpec, ports domain.PortSpec, policy domain.ExpansionPolicy) (*Stream, error) {
	var b Block
	switch spec.Kind {
	case domain.TargetSingle:
		b = AddrBlock(spec.Addr)
	case domain.TargetRange:
		if spec.End.Less(spec.Start) {
			return nil, &domain.SpecParseError{Field: "ip-range", Input: spec.String(), Reason: "start is greater than end"}
		}
		b = RangeBlock(spec.Start, spec.End)
	case domain.TargetCIDR:
		b = PrefixBlock(spec.Prefix)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "target kind %s needs prefix resolution", spec.Kind)
	}
	return &Stream{blocks: []Block{b}, ports: ports, policy: policy}, nil
}

// FromPrefixes builds the stream for resolved ASN or file prefixes. With
// ExpandAll the prefixes are coalesced into disjoint ranges so that no
// address is probed twice; otherwise each prefix is sampled on its own.
func FromPrefixes(prefixes []netip.Prefix, ports domain.PortSpec, policy domain.ExpansionPolicy) (*Stream, error) {
	s := &Stream{ports: ports, policy: policy}
	if len(prefixes) == 0 {
		return s, nil
	}

	if !policy.ExpandAll {
		s.blocks = make([]Block, 0, len(prefixes))
		for _, p := range prefixes {
			s.blocks = append(s.blocks, PrefixBlock(p))
		}
		s.dedupe = len(s.blocks) > 1
		return s, nil
	}

	var sb netipx.IPSetBuilder
	for _, p := range prefixes {
		sb.AddPrefix(p.Masked())
	}
	set, err := sb.IPSet()
	if err != nil {
		return nil, errors.Wrap(err, "coalesce prefixes")
	}
	for _, r := range set.Ranges() {
		s.blocks = append(s.blocks, Block{Range: r})
	}
	return s, nil
}

// Blocks returns the number of address blocks behind the stream.
func (s *Stream) Blocks() int { return len(s.blocks) }

// PortsPerAddress returns how many ports each address is probed on.
func (s *Stream) PortsPerAddress() int { return s.ports.Count() }

// Addresses yields every address once, block by block, ascending within
// a block.
func (s *Stream) Addresses() iter.Seq[netip.Addr] {
	return func(yield func(netip.Addr) bool) {
		var seen map[netip.Addr]struct{}
		if s.dedupe {
			seen = make(map[netip.Addr]struct{})
		}
		for _, b := range s.blocks {
			for a := range b.Addresses(s.policy) {
				if seen != nil {
					if _, dup := seen[a]; dup {
						continue
					}
					seen[a] = struct{}{}
				}
				if !yield(a) {
					return
				}
			}
		}
	}
}

// Targets yields ProbeTargets address-major: every port of an address is
// emitted before moving to the next address.
func (s *Stream) Targets() iter.Seq[domain.ProbeTarget] {
	ports := Ports(s.ports)
	return func(yield func(domain.ProbeTarget) bool) {
		for a := range s.Addresses() {
			for p := range ports {
				if !yield(domain.ProbeTarget{Addr: a, Port: p}) {
					return
				}
			}
		}
	}
}

// AddressCount is the exact number of addresses Addresses yields. Without
// dedupe it is computed from block sizes; with dedupe the sampled set is
// small enough to walk.
func (s *Stream) AddressCount() uint64 {
	if s.dedupe {
		var n uint64
		for range s.Addresses() {
			n++
		}
		return n
	}
	var n uint64
	for _, b := range s.blocks {
		n += b.Emitted(s.policy)
	}
	return n
}

// Count is the total number of ProbeTargets. It fits in uint64 even for
// the whole IPv4 space times every port.
func (s *Stream) Count() uint64 {
	return s.AddressCount() * uint64(s.ports.Count())
}

// ExceedsThreshold reports whether the scan is large enough to warn about.
// It is advisory only: the stream is never truncated.
func (s *Stream) ExceedsThreshold(threshold uint64) bool {
	return threshold > 0 && s.Count() > threshold
}
