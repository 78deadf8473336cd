package http

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"sync"
)

// ErrBodyConsumed is returned when a body is read after it was consumed or
// closed.
var ErrBodyConsumed = errors.New("response body already consumed")

// Body is a response body with a single consumer. ReadAll returns it once;
// every later read fails with ErrBodyConsumed and never yields the original
// bytes. Close is idempotent and releases the underlying stream.
type Body struct {
	mu       sync.Mutex
	rc       io.ReadCloser
	br       *bufio.Reader
	consumed bool
	closed   bool
	closeErr error
}

// NewBody wraps a stream.
func NewBody(rc io.ReadCloser) *Body {
	return &Body{rc: rc, br: bufio.NewReader(rc)}
}

// NewBytesBody wraps data that has already been read.
func NewBytesBody(data []byte) *Body {
	return NewBody(io.NopCloser(bytes.NewReader(data)))
}

// Peek returns up to n bytes without consuming them.
func (b *Body) Peek(n int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.consumed || b.closed {
		return nil, ErrBodyConsumed
	}
	data, err := b.br.Peek(n)
	if err == io.EOF || err == bufio.ErrBufferFull {
		err = nil
	}
	return data, err
}

// Read implements io.Reader. Reading to EOF consumes the body.
func (b *Body) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.consumed || b.closed {
		return 0, ErrBodyConsumed
	}
	n, err := b.br.Read(p)
	if err == io.EOF {
		b.consumed = true
	}
	return n, err
}

// ReadAll reads the whole body and releases the stream.
func (b *Body) ReadAll() ([]byte, error) {
	b.mu.Lock()
	if b.consumed || b.closed {
		b.mu.Unlock()
		return nil, ErrBodyConsumed
	}
	b.consumed = true
	data, err := io.ReadAll(b.br)
	b.mu.Unlock()

	closeErr := b.Close()
	if err != nil {
		return nil, err
	}
	return data, closeErr
}

// String reads the whole body as text.
func (b *Body) String() (string, error) {
	data, err := b.ReadAll()
	return string(data), err
}

// Close releases the stream. Calling it more than once is safe.
func (b *Body) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return b.closeErr
	}
	b.closed = true
	b.br = nil
	b.closeErr = b.rc.Close()
	return b.closeErr
}

// Consumed reports whether the body was read or released.
func (b *Body) Consumed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.consumed || b.closed
}
