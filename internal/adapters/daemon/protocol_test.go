package daemon_test

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vimasm/internal/adapters/daemon"
	"go.trai.ch/vimasm/internal/core/domain"
)

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("\nmain:\n\tret\n")

	require.NoError(t, daemon.WriteFrame(&buf, payload))

	out := buf.Bytes()
	require.Len(t, out, daemon.HeaderSize+len(payload))
	assert.Equal(t, uint32(len(payload)), binary.NativeEndian.Uint32(out[:daemon.HeaderSize]))
	assert.Equal(t, payload, out[daemon.HeaderSize:])
}

func TestReadFrame(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, daemon.WriteFrame(&buf, []byte("first")))
	require.NoError(t, daemon.WriteFrame(&buf, nil))
	require.NoError(t, daemon.WriteFrame(&buf, []byte("third")))

	for _, want := range []string{"first", "", "third"} {
		got, err := daemon.ReadFrame(&buf)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}

	_, err := daemon.ReadFrame(&buf)
	require.ErrorIs(t, err, domain.ErrTransportFailed)
}

func TestReadFrame_Truncated(t *testing.T) {
	var header [daemon.HeaderSize]byte
	binary.NativeEndian.PutUint32(header[:], 10)
	r := bytes.NewReader(append(header[:], "short"...))

	_, err := daemon.ReadFrame(r)
	require.ErrorIs(t, err, domain.ErrTransportFailed)
}

func TestEncode(t *testing.T) {
	resp := daemon.Response{FilePath: "/src/a.c", Asm: "\nf:\n\tret\n", Digest: daemon.FormatDigest(0xabc)}

	raw, err := daemon.Encode(domain.FormatRaw, resp)
	require.NoError(t, err)
	assert.Equal(t, resp.Asm, string(raw))

	data, err := daemon.Encode(domain.FormatJSON, resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"filepath":"/src/a.c","asm":"\nf:\n\tret\n","digest":"0000000000000abc"}`, string(data))
}

func TestFormatDigest(t *testing.T) {
	assert.Equal(t, "0000000000000000", daemon.FormatDigest(0))
	assert.Equal(t, "00000000000000ff", daemon.FormatDigest(0xff))
	assert.Equal(t, "ffffffffffffffff", daemon.FormatDigest(math.MaxUint64))
}

func TestEncode_Error(t *testing.T) {
	resp := daemon.Response{FilePath: "/src/a.c", Error: "label not found"}

	raw, err := daemon.Encode(domain.FormatRaw, resp)
	require.NoError(t, err)
	assert.Empty(t, raw)

	data, err := daemon.Encode(domain.FormatJSON, resp)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "/src/a.c", decoded["filepath"])
	assert.Empty(t, decoded["asm"])
	assert.Equal(t, "label not found", decoded["error"])
}
