package ogg

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type received struct {
	serial uint32
	packet Packet
}

func collect(t *testing.T, data []byte) []received {
	r := NewReader(bytes.NewReader(data))
	var out []received
	r.SetReadCallback(AllStreams, func(serial uint32, p Packet) Result {
		out = append(out, received{serial, p})
		return Continue
	})
	err := r.Read()
	require.Equal(t, io.EOF, err)
	return out
}

func TestCRC(t *testing.T) {
	// check value for the non-reflected CRC-32 with zero init and no xorout
	assert.Equal(t, uint32(0x89a1897f), crcUpdate(0, []byte("123456789")))
}

func TestPageLayout(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WritePacket(0x1234, Packet{Data: []byte("hello"), Granule: 7}, FlushAfter))

	raw := buf.Bytes()
	require.Len(t, raw, headerSize+1+5)
	assert.Equal(t, "OggS", string(raw[:4]))
	assert.Equal(t, byte(0), raw[4])
	assert.Equal(t, byte(flagBOS), raw[5])
	assert.Equal(t, uint64(7), endianess.Uint64(raw[6:]))
	assert.Equal(t, uint32(0x1234), endianess.Uint32(raw[14:]))
	assert.Equal(t, uint32(0), endianess.Uint32(raw[18:]))
	assert.Equal(t, byte(1), raw[26])
	assert.Equal(t, byte(5), raw[27])
	assert.Equal(t, "hello", string(raw[28:]))
}

func TestRoundTripInterleaved(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	a := w.NewSerial()
	b := w.NewSerial()
	require.NotEqual(t, a, b)

	require.NoError(t, w.WritePacket(a, Packet{Data: []byte("head a")}, FlushAfter))
	require.NoError(t, w.WritePacket(b, Packet{Data: []byte("head b")}, FlushAfter))
	require.NoError(t, w.WritePacket(a, Packet{Data: []byte("a1"), Granule: 10}, FlushAfter))
	require.NoError(t, w.WritePacket(b, Packet{Data: []byte("b1")}, NoFlush))
	require.NoError(t, w.WritePacket(b, Packet{Data: []byte("b2"), Granule: 20}, FlushAfter))
	require.NoError(t, w.WritePacket(a, Packet{EOS: true}, FlushAfter))
	require.NoError(t, w.WritePacket(b, Packet{Data: []byte("b3"), EOS: true}, FlushAfter))
	require.NoError(t, w.Close())

	out := collect(t, buf.Bytes())
	require.Len(t, out, 7)

	var gotA, gotB []string
	for _, r := range out {
		switch r.serial {
		case a:
			gotA = append(gotA, string(r.packet.Data))
		case b:
			gotB = append(gotB, string(r.packet.Data))
		}
	}
	assert.Equal(t, []string{"head a", "a1", ""}, gotA)
	assert.Equal(t, []string{"head b", "b1", "b2", "b3"}, gotB)

	assert.True(t, out[0].packet.BOS)
	assert.True(t, out[1].packet.BOS)
	assert.False(t, out[2].packet.BOS)
	assert.Equal(t, int64(10), out[2].packet.Granule)

	// b1 and b2 share a page, only the last packet carries the granule
	assert.Equal(t, "b1", string(out[3].packet.Data))
	assert.Equal(t, NoGranule, out[3].packet.Granule)
	assert.Equal(t, int64(20), out[4].packet.Granule)
	assert.Equal(t, int64(2), out[4].packet.Number)

	assert.Equal(t, a, out[5].serial)
	assert.True(t, out[5].packet.EOS)
	assert.True(t, out[6].packet.EOS)
}

func TestLargePacket(t *testing.T) {
	// spans several pages and ends on a segment boundary
	data := bytes.Repeat([]byte{0xab}, maxSegments*maxSegmentSize*2+maxSegmentSize)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WritePacket(1, Packet{Data: []byte("bos")}, FlushAfter))
	require.NoError(t, w.WritePacket(1, Packet{Data: data}, FlushAfter))
	require.NoError(t, w.WritePacket(1, Packet{Data: []byte("tail"), EOS: true}, FlushAfter))

	out := collect(t, buf.Bytes())
	require.Len(t, out, 3)
	assert.Equal(t, data, out[1].packet.Data)
	assert.Equal(t, "tail", string(out[2].packet.Data))
	assert.True(t, out[2].packet.EOS)
}

func TestPacketsBeyondBuffer(t *testing.T) {
	// pages straddle the read buffer at varying offsets
	sizes := []int{288684, 3, 70001, 177, 150000, 5, 131072, 9}
	var packets [][]byte
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WritePacket(1, Packet{Data: []byte("bos")}, FlushAfter))
	for i, n := range sizes {
		data := make([]byte, n)
		for j := range data {
			data[j] = byte(j*7 + j/251 + i)
		}
		packets = append(packets, data)
		require.NoError(t, w.WritePacket(1, Packet{Data: data}, FlushAfter))
	}
	require.NoError(t, w.WritePacket(1, Packet{Data: []byte("tail"), EOS: true}, FlushAfter))
	require.True(t, buf.Len() > 1<<19)

	out := collect(t, buf.Bytes())
	require.Len(t, out, len(sizes)+2)
	for i, data := range packets {
		got := out[i+1].packet.Data
		if !assert.Equal(t, len(data), len(got), "packet %d", i) {
			continue
		}
		assert.True(t, bytes.Equal(data, got), "packet %d differs", i)
	}
	assert.Equal(t, "tail", string(out[len(out)-1].packet.Data))
}

func TestStopAndResume(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for i := 0; i < 5; i++ {
		require.NoError(t, w.WritePacket(9, Packet{Data: []byte{byte(i)}}, FlushAfter))
	}

	r := NewReader(bytes.NewReader(buf.Bytes()))
	var seen []byte
	r.SetReadCallback(9, func(serial uint32, p Packet) Result {
		seen = append(seen, p.Data[0])
		if p.Data[0] == 1 {
			return StopOK
		}
		if p.Data[0] == 3 {
			return StopErr
		}
		return Continue
	})

	assert.NoError(t, r.Read())
	assert.Equal(t, []byte{0, 1}, seen)

	assert.Equal(t, ErrStopped, r.Read())
	assert.Equal(t, []byte{0, 1, 2, 3}, seen)

	// without a callback the remaining packets are discarded
	r.SetReadCallback(9, nil)
	assert.Equal(t, io.EOF, r.Read())
	assert.Equal(t, []byte{0, 1, 2, 3}, seen)
}

func TestCallbackPrecedence(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WritePacket(1, Packet{Data: []byte("one")}, FlushAfter))
	require.NoError(t, w.WritePacket(2, Packet{Data: []byte("two")}, FlushAfter))

	r := NewReader(bytes.NewReader(buf.Bytes()))
	var specific, all []uint32
	r.SetReadCallback(1, func(serial uint32, p Packet) Result {
		specific = append(specific, serial)
		return Continue
	})
	r.SetReadCallback(AllStreams, func(serial uint32, p Packet) Result {
		all = append(all, serial)
		return Continue
	})
	assert.Equal(t, io.EOF, r.Read())
	assert.Equal(t, []uint32{1}, specific)
	assert.Equal(t, []uint32{2}, all)
}

func TestResyncAfterCorruption(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("garbage before the first page")
	w := NewWriter(&buf)
	require.NoError(t, w.WritePacket(1, Packet{Data: []byte("first")}, FlushAfter))
	mark := buf.Len()
	require.NoError(t, w.WritePacket(1, Packet{Data: []byte("second")}, FlushAfter))
	require.NoError(t, w.WritePacket(1, Packet{Data: []byte("third")}, FlushAfter))

	data := buf.Bytes()
	// break the body of the second page
	data[mark+headerSize+1] ^= 0xff

	r := NewReader(bytes.NewReader(data))
	var got []string
	r.SetReadCallback(AllStreams, func(serial uint32, p Packet) Result {
		got = append(got, string(p.Data))
		return Continue
	})
	assert.Equal(t, io.EOF, r.Read())
	assert.Equal(t, []string{"first", "third"}, got)
	assert.True(t, r.Skipped() > 0)
}

func TestTruncatedTail(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WritePacket(1, Packet{Data: []byte("complete")}, FlushAfter))
	require.NoError(t, w.WritePacket(1, Packet{Data: []byte("cut off here")}, FlushAfter))

	data := buf.Bytes()
	out := collect(t, data[:len(data)-4])
	require.Len(t, out, 1)
	assert.Equal(t, "complete", string(out[0].packet.Data))
}

func TestWriterErrors(t *testing.T) {
	w := NewWriter(io.Discard)
	assert.Error(t, w.WritePacket(AllStreams, Packet{}, FlushAfter))

	require.NoError(t, w.WritePacket(5, Packet{Data: []byte("x")}, FlushAfter))
	assert.Error(t, w.WritePacket(5, Packet{Data: []byte("y"), BOS: true}, FlushAfter))

	require.NoError(t, w.WritePacket(5, Packet{EOS: true}, FlushAfter))
	assert.Error(t, w.WritePacket(5, Packet{Data: []byte("z")}, FlushAfter))
}

func TestSerials(t *testing.T) {
	w := NewWriter(io.Discard)
	w.Reserve(42)
	seen := make(map[uint32]bool)
	for i := 0; i < 1000; i++ {
		s := w.NewSerial()
		assert.NotEqual(t, AllStreams, s)
		assert.NotEqual(t, uint32(42), s)
		assert.False(t, seen[s], "serial %#x returned twice", s)
		seen[s] = true
	}

	assert.NotEqual(t, int32(0), NextSerial(0))
	assert.NotEqual(t, AllStreams, RandomSerial())
}
