package targets

import (
	"encoding/binary"
	"iter"
	"net/netip"

	"go4.org/netipx"

	"webfigscan/internal/core/domain"
)

// Block is an inclusive IPv4 address range. Sampled blocks come from CIDR
// notation and honour the per-prefix sample; explicit ranges never do.
type Block struct {
	Range   netipx.IPRange
	Sampled bool
}

// PrefixBlock covers network .. network|^mask. For /31 and /32 that is
// simply the literal range.
func PrefixBlock(p netip.Prefix) Block {
	return Block{Range: netipx.RangeOfPrefix(p.Masked()), Sampled: true}
}

// RangeBlock covers start..end inclusive.
func RangeBlock(start, end netip.Addr) Block {
	return Block{Range: netipx.IPRangeFrom(start, end)}
}

// AddrBlock is the one-address block.
func AddrBlock(a netip.Addr) Block {
	return Block{Range: netipx.IPRangeFrom(a, a)}
}

// Size is the number of addresses in the block; a /0 yields 1<<32.
func (b Block) Size() uint64 {
	if !b.Range.IsValid() {
		return 0
	}
	return uint64(u32(b.Range.To())) - uint64(u32(b.Range.From())) + 1
}

// Emitted is how many addresses Addresses yields under policy.
func (b Block) Emitted(policy domain.ExpansionPolicy) uint64 {
	size := b.Size()
	if !b.Sampled || policy.ExpandAll {
		return size
	}
	return min(size, uint64(policy.Sample()))
}

// Addresses yields the block's addresses in ascending order, truncated to
// the first policy.Sample() when the block is sampled and ExpandAll is off.
func (b Block) Addresses(policy domain.ExpansionPolicy) iter.Seq[netip.Addr] {
	n := b.Emitted(policy)
	first := b.Range.From()
	return func(yield func(netip.Addr) bool) {
		a := first
		for i := uint64(0); i < n; i++ {
			if !yield(a) {
				return
			}
			// Next() wraps to the zero Addr after 255.255.255.255; the
			// counter stops us before that matters.
			a = a.Next()
		}
	}
}

func u32(a netip.Addr) uint32 {
	b := a.As4()
	return binary.BigEndian.Uint32(b[:])
}
