package audio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeil/twtw/internal/errors"
)

func TestHeader(t *testing.T) {
	h := NewHeader()
	data, err := h.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, HeaderSize)
	assert.Equal(t, "Speex   1.2rc1", string(bytes.TrimRight(data[:28], "\x00")))
	// rate at offset 36
	assert.Equal(t, []byte{0x40, 0x1f, 0, 0}, data[36:40])

	h2, err := ParseHeader(data)
	require.NoError(t, err)
	assert.Equal(t, h, h2)

	h.Rate = 16000
	data, _ = h.MarshalBinary()
	_, err = ParseHeader(data)
	assert.True(t, errors.IsInvalidFormat(err))

	_, err = ParseHeader(data[:40])
	assert.True(t, errors.IsInvalidFormat(err))

	_, err = ParseHeader([]byte("OggS"))
	assert.True(t, errors.IsInvalidFormat(err))
}

func TestStream(t *testing.T) {
	s := NewStream(nil)
	assert.True(t, s.Empty())

	buf := []byte{1, 2, 3}
	s.Append(buf, 1760)
	buf[0] = 9
	s.Append([]byte{4, 5}, 3360)

	assert.False(t, s.Empty())
	assert.Equal(t, byte(1), s.Packets[0].Data[0])
	assert.Equal(t, 5, s.Size())
	assert.Equal(t, int64(3360), s.Samples())
	assert.Equal(t, int64(6720), s.PCMSize())

	c := s.Clone()
	c.Packets[0].Data[0] = 7
	c.Header.Rate = 1
	assert.Equal(t, byte(1), s.Packets[0].Data[0])
	assert.Equal(t, int32(SampleRate), s.Header.Rate)
}

func TestDuration(t *testing.T) {
	assert.Equal(t, 0, Duration(0))
	assert.Equal(t, 1, Duration(1))
	assert.Equal(t, 1, Duration(16000))
	assert.Equal(t, 2, Duration(16001))

	assert.Equal(t, 1, PCMDuration(16044))
	assert.Equal(t, 2, PCMDuration(16045))
	assert.Equal(t, 1, PCMDuration(40))
}

type fakeCodec struct{}

func (fakeCodec) Encode(path string, h *Header) ([]Packet, error) {
	return []Packet{{Data: []byte{1}, Granule: 160}}, nil
}

func (fakeCodec) Decode(s *Stream, path string) (int64, error) {
	return s.PCMSize(), nil
}

func TestEncode(t *testing.T) {
	s, err := Encode(fakeCodec{}, "clip.wav")
	require.NoError(t, err)
	assert.Equal(t, int64(160), s.Samples())
	assert.Equal(t, int32(FramesPerPacket), s.Header.FramesPerPacket)

	_, err = Encode(nil, "clip.wav")
	assert.True(t, errors.IsParamError(err))
}

func TestWAVHeader(t *testing.T) {
	var buf bytes.Buffer
	info := WAVInfo{Rate: SampleRate, Channels: 1, Bits: 16, DataSize: 32000}
	require.NoError(t, WriteWAVHeader(&buf, info))
	require.Equal(t, WAVHeaderSize, buf.Len())

	out, err := ReadWAVHeader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, info, *out)
	assert.Equal(t, 2, PCMDuration(int64(buf.Len())+out.DataSize))
}

func TestWAVHeaderExtraChunks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWAVHeader(&buf, WAVInfo{Rate: 16000, Channels: 2, Bits: 16, DataSize: 8}))
	raw := buf.Bytes()

	// insert a LIST chunk between fmt and data
	var mod []byte
	mod = append(mod, raw[:36]...)
	mod = append(mod, 'L', 'I', 'S', 'T', 4, 0, 0, 0, 'a', 'b', 'c', 'd')
	mod = append(mod, raw[36:]...)

	out, err := ReadWAVHeader(bytes.NewReader(mod))
	require.NoError(t, err)
	assert.Equal(t, 16000, out.Rate)
	assert.Equal(t, 2, out.Channels)
	assert.Equal(t, int64(8), out.DataSize)
}

func TestWAVHeaderInvalid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWAVHeader(&buf, WAVInfo{Rate: 12345, Channels: 1, Bits: 16}))
	_, err := ReadWAVHeader(bytes.NewReader(buf.Bytes()))
	assert.True(t, errors.IsInvalidFormat(err))

	_, err = ReadWAVHeader(bytes.NewReader([]byte("RIFF")))
	assert.True(t, errors.IsInvalidFormat(err))

	raw := make([]byte, WAVHeaderSize)
	copy(raw, "RIFX")
	_, err = ReadWAVHeader(bytes.NewReader(raw))
	assert.True(t, errors.IsInvalidFormat(err))
}

func TestReadWAVFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.wav")

	_, err := ReadWAVFile(path)
	assert.True(t, errors.IsFileError(err))

	var buf bytes.Buffer
	require.NoError(t, WriteWAVHeader(&buf, WAVInfo{Rate: SampleRate, Channels: 1, Bits: 16, DataSize: 4}))
	buf.Write([]byte{0, 0, 0, 0})
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	info, err := ReadWAVFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(4), info.DataSize)
}
