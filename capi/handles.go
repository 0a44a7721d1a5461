package main

import (
	stderrors "errors"
	"math"
	"sync"

	"github.com/mj1618/a11y-bridge/internal/bridge"
	"github.com/mj1618/a11y-bridge/internal/errors"
	"github.com/mj1618/a11y-bridge/internal/model"
)

// Status codes returned across the C boundary. Non-negative values are
// success; upsert reports what changed.
const (
	statusOK             = 0
	statusCreated        = 1
	statusUpdated        = 2
	statusInvalidInput   = -1
	statusAllocation     = -2
	statusNotFound       = -3
	statusInitialization = -4
	statusBackend        = -5
	statusTruncated      = -6
	statusInvalidEnum    = -7
	statusUnsupported    = -8
	statusBadHandle      = -9
	statusInternal       = -100
)

// lengthOK reports whether a C length fits the int that GoBytes and
// GoStringN take.
func lengthOK(n uint64) bool { return n <= math.MaxInt32 }

var kindStatus = map[errors.Kind]int32{
	errors.KindInvalidInput:   statusInvalidInput,
	errors.KindAllocation:     statusAllocation,
	errors.KindNotFound:       statusNotFound,
	errors.KindInitialization: statusInitialization,
	errors.KindBackend:        statusBackend,
	errors.KindTruncated:      statusTruncated,
	errors.KindInvalidEnum:    statusInvalidEnum,
	errors.KindUnsupported:    statusUnsupported,
}

// status maps err to a C status code.
func status(err error) int32 {
	if err == nil {
		return statusOK
	}
	var e *errors.Error
	if stderrors.As(err, &e) {
		if s, ok := kindStatus[e.Kind]; ok {
			return s
		}
	}
	return statusInternal
}

// upsertStatus maps an upsert result to a C status code.
func upsertStatus(change model.ChangeType, err error) int32 {
	if err != nil {
		return status(err)
	}
	switch change {
	case model.ChangeAdded:
		return statusCreated
	case model.ChangeChanged:
		return statusUpdated
	}
	return statusOK
}

// registry hands out integer handles for bridges so C never holds a Go
// pointer. Handle 0 is never issued.
type registry struct {
	mu      sync.Mutex
	next    uintptr
	bridges map[uintptr]*bridge.Bridge
}

func newRegistry() *registry {
	return &registry{bridges: make(map[uintptr]*bridge.Bridge)}
}

func (r *registry) put(b *bridge.Bridge) uintptr {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.bridges[r.next] = b
	return r.next
}

func (r *registry) get(h uintptr) (*bridge.Bridge, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bridges[h]
	return b, ok
}

// take removes h and returns its bridge.
func (r *registry) take(h uintptr) (*bridge.Bridge, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bridges[h]
	delete(r.bridges, h)
	return b, ok
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bridges)
}

// copyName writes as much of name as fits into out and returns the full
// length, so a caller with a short buffer can retry. The copy is not
// NUL-terminated.
func copyName(out []byte, name string) int {
	copy(out, name)
	return len(name)
}
