package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Op:     OpUpsert,
				Kind:   KindInvalidInput,
				ID:     "btn",
				Detail: "parent id equals node id",
			},
			contains: []string{"[upsert]", "invalid_input", "[node btn]", "parent id equals node id"},
		},
		{
			name: "minimal error",
			err: &Error{
				Op:   OpDecode,
				Kind: KindTruncated,
			},
			contains: []string{"[decode]", "truncated"},
		},
		{
			name: "error with cause",
			err: &Error{
				Op:     OpBackend,
				Kind:   KindBackend,
				Detail: "AddNode",
				Cause:  errors.New("RPC_E_DISCONNECTED"),
			},
			contains: []string{"[backend]", "backend", "AddNode", "caused by", "RPC_E_DISCONNECTED"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Backend("RemoveNode", "x", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := Allocation(OpUpsert, "n1", 4)

	if !errors.Is(err, ErrAllocation) {
		t.Error("allocation error should match ErrAllocation")
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Error("allocation error should not match ErrInvalidInput")
	}
	if !errors.Is(err, &Error{Op: OpUpsert, Kind: KindAllocation}) {
		t.Error("should match same op and kind")
	}
	if errors.Is(err, &Error{Op: OpRemove, Kind: KindAllocation}) {
		t.Error("should not match a different op")
	}
}

func TestError_As(t *testing.T) {
	var wrapped error = InvalidEnum(OpDecode, uint32(99), "role")

	var e *Error
	if !errors.As(wrapped, &e) {
		t.Fatal("errors.As failed")
	}
	if e.Kind != KindInvalidEnum {
		t.Errorf("kind = %s, want %s", e.Kind, KindInvalidEnum)
	}
	if e.Value != uint32(99) {
		t.Errorf("value = %v, want 99", e.Value)
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("boom")
	err := New(OpFocus, KindNotFound).
		ID("ghost").
		Value(7).
		Detail("focus target %s missing", "ghost").
		Cause(cause).
		Build()

	if err.Op != OpFocus || err.Kind != KindNotFound {
		t.Errorf("op/kind = %s/%s", err.Op, err.Kind)
	}
	if err.ID != "ghost" {
		t.Errorf("id = %q", err.ID)
	}
	if err.Detail != "focus target ghost missing" {
		t.Errorf("detail = %q", err.Detail)
	}
	if err.Value != 7 {
		t.Errorf("value = %v", err.Value)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not chained")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
	}{
		{"invalid input", InvalidInput(OpUpsert, "a", "bad %d", 1), KindInvalidInput},
		{"allocation", Allocation(OpUpsert, "a", 10), KindAllocation},
		{"not found", NotFound(OpRemove, "a"), KindNotFound},
		{"initialization", Initialization("windows", errors.New("x")), KindInitialization},
		{"backend", Backend("Tick", "", errors.New("x")), KindBackend},
		{"truncated", Truncated("id", 4, 1), KindTruncated},
		{"invalid enum", InvalidEnum(OpDecode, 200, "live"), KindInvalidEnum},
		{"unsupported", Unsupported(OpAction, "drag"), KindUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", tt.err.Kind, tt.kind)
			}
			if tt.err.Error() == "" {
				t.Error("empty message")
			}
		})
	}
}
