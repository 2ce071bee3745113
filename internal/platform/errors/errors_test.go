package errors

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
	"testing"
)

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		if Wrap(nil, "ctx") != nil {
			t.Error("Wrap(nil) should be nil")
		}
		if Wrapf(nil, "ctx %d", 1) != nil {
			t.Error("Wrapf(nil) should be nil")
		}
	})

	t.Run("keeps cause reachable", func(t *testing.T) {
		err := Wrapf(ErrInvalidResponse, "provider %s", "ripestat")
		if err.Error() != "provider ripestat: invalid response" {
			t.Errorf("unexpected message %q", err.Error())
		}
		if !IsInvalidResponse(err) {
			t.Error("wrapped sentinel should match")
		}
	})
}

func TestMark(t *testing.T) {
	cause := &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}
	err := Mark(cause, ErrConnectionFailed)

	if !IsConnectionFailed(err) {
		t.Error("marked error should match sentinel")
	}
	var opErr *net.OpError
	if !As(err, &opErr) {
		t.Error("marked error should keep the original cause")
	}
	if Mark(nil, ErrConnectionFailed) != nil {
		t.Error("Mark(nil) should be nil")
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsTimeout(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", ErrTimeout, true},
		{"context deadline", fmt.Errorf("dial: %w", context.DeadlineExceeded), true},
		{"socket deadline", &net.OpError{Op: "read", Err: os.ErrDeadlineExceeded}, true},
		{"net.Error timeout", timeoutErr{}, true},
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, false},
		{"canceled", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTimeout(tt.err); got != tt.want {
				t.Errorf("IsTimeout(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsRefusedAndReset(t *testing.T) {
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: &os.SyscallError{Syscall: "connect", Err: syscall.ECONNREFUSED}}
	if !IsRefused(refused) {
		t.Error("ECONNREFUSED inside SyscallError should be detected")
	}
	if IsRefused(io.EOF) {
		t.Error("EOF is not a refusal")
	}

	reset := &net.OpError{Op: "read", Net: "tcp", Err: &os.SyscallError{Syscall: "read", Err: syscall.ECONNRESET}}
	if !IsReset(reset) {
		t.Error("ECONNRESET should be detected")
	}
	if !IsReset(io.EOF) {
		t.Error("EOF before any data counts as a reset")
	}
	if IsReset(ErrTimeout) {
		t.Error("timeout is not a reset")
	}
}
