package daemon

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"

	"go.trai.ch/vimasm/internal/core/domain"
	"go.trai.ch/zerr"
)

// HeaderSize is the length of the frame header.
const HeaderSize = 4

// Response is the answer to one request.
type Response struct {
	FilePath string `json:"filepath"`
	Asm      string `json:"asm"`
	Digest   string `json:"digest,omitempty"`
	Error    string `json:"error,omitempty"`
}

// FormatDigest renders an assembly digest the way responses carry it.
func FormatDigest(digest uint64) string {
	return fmt.Sprintf("%016x", digest)
}

// Encode renders the payload of resp in the given format.
// In raw format an error response is an empty payload.
func Encode(format domain.ResponseFormat, resp Response) ([]byte, error) {
	if format != domain.FormatJSON {
		if resp.Error != "" {
			return nil, nil
		}
		return []byte(resp.Asm), nil
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode response")
	}
	return data, nil
}

// WriteFrame writes a length header in host byte order followed by payload.
func WriteFrame(w io.Writer, payload []byte) error {
	if uint64(len(payload)) > math.MaxUint32 {
		return zerr.With(zerr.Wrap(domain.ErrPayloadTooLarge, "cannot frame payload"), "size", len(payload))
	}

	var header [HeaderSize]byte
	binary.NativeEndian.PutUint32(header[:], uint32(len(payload)))

	bufs := net.Buffers{header[:], payload}
	if _, err := bufs.WriteTo(w); err != nil {
		return errors.Join(domain.ErrTransportFailed, err)
	}
	return nil
}

// ReadFrame reads one frame written by WriteFrame and returns its payload.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, errors.Join(domain.ErrTransportFailed, err)
	}

	payload := make([]byte, binary.NativeEndian.Uint32(header[:]))
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, errors.Join(domain.ErrTransportFailed, err)
	}
	return payload, nil
}
