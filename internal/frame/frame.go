// Package frame implements the length-prefixed wire framing used by
// both peers: a 4-byte little-endian payload length followed by the
// payload itself.
package frame

import (
	"encoding/binary"
	"errors"
	"io"

	sockerr "gosock/internal/errors"
)

const (
	// HeaderSize is the size of the length prefix.
	HeaderSize = 4

	// MaxFrameBytes caps the payload of a single frame (1 MiB).
	MaxFrameBytes = 1 << 20
)

// WriteFrame writes the length prefix and payload to w with a single
// Write call, so that concurrent writers on a net.Conn never interleave
// a header with someone else's payload.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) == 0 || len(payload) > MaxFrameBytes {
		return sockerr.Protocol("invalid length", uint32(len(payload)))
	}

	buf := make([]byte, HeaderSize+len(payload))
	binary.LittleEndian.PutUint32(buf[:HeaderSize], uint32(len(payload)))
	copy(buf[HeaderSize:], payload)

	n, err := w.Write(buf)
	if err != nil {
		return sockerr.Transport("write", "", err)
	}
	if n != len(buf) {
		return sockerr.Transport("write", "", io.ErrShortWrite)
	}
	return nil
}

// ReadFrame reads one frame from r and returns its payload.
//
// A stream that ends before the first header byte, or in the middle of
// the payload, yields [sockerr.ErrEndOfStream].  A partial header or a
// declared length outside (0, MaxFrameBytes] is a protocol error; the
// declared length is checked before anything is allocated.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return nil, sockerr.ErrEndOfStream
		case errors.Is(err, io.ErrUnexpectedEOF):
			return nil, sockerr.Protocol("truncated length prefix", 0)
		default:
			return nil, sockerr.Transport("read", "", err)
		}
	}

	length := binary.LittleEndian.Uint32(header[:])
	if length == 0 || length > MaxFrameBytes {
		return nil, sockerr.Protocol("invalid length", length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, sockerr.ErrEndOfStream
		}
		return nil, sockerr.Transport("read", "", err)
	}
	return payload, nil
}
