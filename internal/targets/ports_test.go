package targets

import (
	"slices"
	"testing"

	"webfigscan/internal/core/domain"
	"webfigscan/internal/testutil"
)

func TestPorts_Explicit(t *testing.T) {
	spec, err := domain.ExplicitPorts([]uint16{8291, 80, 443})
	testutil.RequireNoError(t, err, "explicit ports")

	got := slices.Collect(Ports(spec))
	testutil.AssertEqual(t, len(got), 3, "port count")
	testutil.AssertEqual(t, got[0], uint16(8291), "order preserved")
	testutil.AssertEqual(t, got[2], uint16(443), "order preserved")
}

func TestPorts_AllIsRestartable(t *testing.T) {
	seq := Ports(domain.AllPorts())

	for pass := 0; pass < 2; pass++ {
		var n int
		var first, last uint16
		for p := range seq {
			if n == 0 {
				first = p
			}
			last = p
			n++
		}
		testutil.AssertEqual(t, n, domain.MaxPort, "all ports count")
		testutil.AssertEqual(t, first, uint16(1), "first port")
		testutil.AssertEqual(t, last, uint16(65535), "last port")
	}
}

func TestPorts_EarlyStop(t *testing.T) {
	var n int
	for range Ports(domain.AllPorts()) {
		n++
		if n == 10 {
			break
		}
	}
	testutil.AssertEqual(t, n, 10, "consumer can stop early")
}
