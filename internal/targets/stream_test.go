package targets

import (
	"net/netip"
	"slices"
	"testing"

	"webfigscan/internal/core/domain"
	"webfigscan/internal/testutil"
)

func mustPorts(t *testing.T, ports ...uint16) domain.PortSpec {
	t.Helper()
	spec, err := domain.ExplicitPorts(ports)
	testutil.RequireNoError(t, err, "port spec")
	return spec
}

func TestStream_SingleAddressTwoPorts(t *testing.T) {
	spec := domain.SingleTarget(netip.MustParseAddr("192.168.1.1"))
	s, err := FromTarget(spec, mustPorts(t, 80, 8291), domain.DefaultExpansionPolicy())
	testutil.RequireNoError(t, err, "stream")

	got := slices.Collect(s.Targets())
	testutil.AssertEqual(t, len(got), 2, "two probe targets")
	testutil.AssertEqual(t, got[0].String(), "192.168.1.1:80", "first target")
	testutil.AssertEqual(t, got[1].String(), "192.168.1.1:8291", "second target")
	testutil.AssertEqual(t, s.Count(), uint64(2), "count matches")
}

func TestStream_CIDRSampledOnePort(t *testing.T) {
	spec := domain.CIDRTarget(netip.MustParsePrefix("192.168.1.0/30"))
	s, err := FromTarget(spec, mustPorts(t, 80), domain.ExpansionPolicy{PerPrefixSample: 1})
	testutil.RequireNoError(t, err, "stream")

	got := slices.Collect(s.Targets())
	testutil.AssertEqual(t, len(got), 1, "one probe target")
	testutil.AssertEqual(t, got[0].String(), "192.168.1.0:80", "first address in block")
}

func TestStream_AddressMajorOrder(t *testing.T) {
	start := netip.MustParseAddr("10.0.0.1")
	end := netip.MustParseAddr("10.0.0.2")
	spec, err := domain.RangeTarget(start, end)
	testutil.RequireNoError(t, err, "range")

	s, err := FromTarget(spec, mustPorts(t, 80, 443), domain.DefaultExpansionPolicy())
	testutil.RequireNoError(t, err, "stream")

	var got []string
	for pt := range s.Targets() {
		got = append(got, pt.String())
	}
	want := []string{"10.0.0.1:80", "10.0.0.1:443", "10.0.0.2:80", "10.0.0.2:443"}
	testutil.AssertEqual(t, len(got), len(want), "target count")
	for i := range want {
		testutil.AssertEqual(t, got[i], want[i], "address-major order")
	}
}

func TestStream_Restartable(t *testing.T) {
	spec := domain.CIDRTarget(netip.MustParsePrefix("10.9.0.0/29"))
	s, err := FromTarget(spec, mustPorts(t, 80), domain.ExpansionPolicy{ExpandAll: true})
	testutil.RequireNoError(t, err, "stream")

	first := slices.Collect(s.Targets())
	second := slices.Collect(s.Targets())
	testutil.AssertEqual(t, len(first), 8, "first pass")
	testutil.AssertEqual(t, len(second), 8, "second pass")
}

func TestStream_AllPortsCountIsLazy(t *testing.T) {
	spec := domain.CIDRTarget(netip.MustParsePrefix("0.0.0.0/0"))
	s, err := FromTarget(spec, domain.AllPorts(), domain.ExpansionPolicy{ExpandAll: true})
	testutil.RequireNoError(t, err, "stream")

	testutil.AssertEqual(t, s.Count(), uint64(1<<32)*65535, "whole space times all ports")
	testutil.AssertTrue(t, s.ExceedsThreshold(16777216), "threshold exceeded")

	var n int
	for range s.Targets() {
		n++
		if n == 3 {
			break
		}
	}
	testutil.AssertEqual(t, n, 3, "stream can be consumed partially")
}

func TestFromPrefixes_ExpandAllCoalescesOverlap(t *testing.T) {
	prefixes := []netip.Prefix{
		netip.MustParsePrefix("203.0.113.0/24"),
		netip.MustParsePrefix("203.0.113.128/25"),
		netip.MustParsePrefix("198.51.100.0/30"),
	}
	s, err := FromPrefixes(prefixes, mustPorts(t, 80), domain.ExpansionPolicy{ExpandAll: true})
	testutil.RequireNoError(t, err, "stream")

	testutil.AssertEqual(t, s.AddressCount(), uint64(256+4), "overlap counted once")

	seen := make(map[netip.Addr]int)
	for a := range s.Addresses() {
		seen[a]++
	}
	testutil.AssertEqual(t, len(seen), 260, "distinct addresses")
	for a, n := range seen {
		if n != 1 {
			t.Errorf("address %s emitted %d times", a, n)
		}
	}
}

func TestFromPrefixes_SampledDedupe(t *testing.T) {
	prefixes := []netip.Prefix{
		netip.MustParsePrefix("203.0.113.0/24"),
		netip.MustParsePrefix("203.0.113.0/25"),
		netip.MustParsePrefix("192.0.2.0/24"),
	}
	s, err := FromPrefixes(prefixes, mustPorts(t, 80, 8080), domain.ExpansionPolicy{PerPrefixSample: 2})
	testutil.RequireNoError(t, err, "stream")

	addrs := slices.Collect(s.Addresses())
	testutil.AssertEqual(t, len(addrs), 4, "shared first addresses emitted once")
	testutil.AssertEqual(t, s.AddressCount(), uint64(4), "count agrees with iteration")
	testutil.AssertEqual(t, s.Count(), uint64(8), "targets = addresses * ports")
}

func TestFromPrefixes_Empty(t *testing.T) {
	s, err := FromPrefixes(nil, mustPorts(t, 80), domain.DefaultExpansionPolicy())
	testutil.RequireNoError(t, err, "stream")
	testutil.AssertEqual(t, s.Count(), uint64(0), "no targets")
	testutil.AssertEqual(t, len(slices.Collect(s.Targets())), 0, "nothing emitted")
}

func TestFromTarget_RejectsASN(t *testing.T) {
	_, err := FromTarget(domain.ASNTarget(13335), mustPorts(t, 80), domain.DefaultExpansionPolicy())
	testutil.AssertError(t, err, "ASN targets need resolution first")
}
