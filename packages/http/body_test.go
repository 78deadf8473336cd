package http

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackingCloser struct {
	io.Reader
	closes int
}

func (t *trackingCloser) Close() error {
	t.closes++
	return nil
}

func TestBody_ReadOnce(t *testing.T) {
	rc := &trackingCloser{Reader: strings.NewReader("payload")}
	body := NewBody(rc)

	data, err := body.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	assert.True(t, body.Consumed())
	assert.Equal(t, 1, rc.closes)

	again, err := body.ReadAll()
	assert.ErrorIs(t, err, ErrBodyConsumed)
	assert.Empty(t, again)

	n, err := body.Read(make([]byte, 10))
	assert.ErrorIs(t, err, ErrBodyConsumed)
	assert.Zero(t, n)
}

func TestBody_CloseIsIdempotent(t *testing.T) {
	rc := &trackingCloser{Reader: strings.NewReader("payload")}
	body := NewBody(rc)

	require.NoError(t, body.Close())
	require.NoError(t, body.Close())
	assert.Equal(t, 1, rc.closes)

	_, err := body.ReadAll()
	assert.ErrorIs(t, err, ErrBodyConsumed)
	_, err = body.Peek(1)
	assert.ErrorIs(t, err, ErrBodyConsumed)
}

func TestBody_StreamingRead(t *testing.T) {
	body := NewBody(io.NopCloser(strings.NewReader("abc")))

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	_, err = body.ReadAll()
	assert.ErrorIs(t, err, ErrBodyConsumed)
	require.NoError(t, body.Close())
}

func TestBody_PeekDoesNotConsume(t *testing.T) {
	body := NewBytesBody([]byte("<xml/>"))

	head, err := body.Peek(100)
	require.NoError(t, err)
	assert.Equal(t, "<xml/>", string(head))
	assert.False(t, body.Consumed())

	s, err := body.String()
	require.NoError(t, err)
	assert.Equal(t, "<xml/>", s)
}
