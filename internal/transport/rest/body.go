package rest

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

const (
	// DefaultMaxBodyBytes bounds a request body when no limit is configured.
	DefaultMaxBodyBytes = 16 * 1024

	// readChunkSize is the size of each read from the request body.
	readChunkSize = 4 * 1024

	// maxPooledCap keeps oversized buffers out of the pool.
	maxPooledCap = 64 * 1024
)

// PendingRequest accumulates a request body that may arrive in several
// chunks. It is obtained with acquirePending and must be released exactly
// once with Release, usually via defer right after acquisition.
type PendingRequest struct {
	buf       []byte
	limit     int
	finalized bool
	aborted   bool
}

var pendingPool = sync.Pool{
	New: func() any {
		return &PendingRequest{buf: make([]byte, 0, readChunkSize)}
	},
}

// acquirePending returns an empty PendingRequest bounded by limit bytes.
// A non-positive limit selects DefaultMaxBodyBytes.
func acquirePending(limit int) *PendingRequest {
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	p := pendingPool.Get().(*PendingRequest)
	p.buf = p.buf[:0]
	p.limit = limit
	p.finalized = false
	p.aborted = false
	return p
}

// Append adds chunk to the body. It fails with ErrPayloadTooLarge when the
// body would grow past the limit; the accumulation is then aborted and every
// later Append fails the same way. Append after Finalize fails with
// ErrBodyFinalized.
func (p *PendingRequest) Append(chunk []byte) error {
	if p.finalized {
		return ErrBodyFinalized
	}
	if p.aborted {
		return ErrPayloadTooLarge
	}
	if len(p.buf)+len(chunk) > p.limit {
		p.aborted = true
		return ErrPayloadTooLarge
	}
	p.buf = append(p.buf, chunk...)
	return nil
}

// Finalize marks the body complete and returns it with its length. The
// returned slice is only valid until Release.
func (p *PendingRequest) Finalize() ([]byte, int) {
	p.finalized = true
	return p.buf, len(p.buf)
}

// Len returns the number of bytes accumulated so far.
func (p *PendingRequest) Len() int {
	return len(p.buf)
}

// Limit returns the maximum body size in bytes.
func (p *PendingRequest) Limit() int {
	return p.limit
}

// Release returns the PendingRequest to the pool. p must not be used afterwards.
func (p *PendingRequest) Release() {
	if cap(p.buf) > maxPooledCap {
		return
	}
	p.buf = p.buf[:0]
	pendingPool.Put(p)
}

// readBody pumps r into p in fixed-size chunks until EOF.
func readBody(r io.Reader, p *PendingRequest) error {
	if r == nil {
		return nil
	}

	var chunk [readChunkSize]byte
	for {
		n, err := r.Read(chunk[:])
		if n > 0 {
			if appendErr := p.Append(chunk[:n]); appendErr != nil {
				return appendErr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBodyRead, err)
		}
	}
}
