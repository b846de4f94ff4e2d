package audio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/akeil/twtw/internal/errors"
)

// WAVHeaderSize is the size of a canonical WAV header as written by
// WriteWAVHeader.
const WAVHeaderSize = 44

// WAVInfo describes the PCM data of a WAV file.
type WAVInfo struct {
	Rate     int
	Channels int
	Bits     int
	DataSize int64
}

// Validate checks for the linear PCM formats a clip may be recorded in.
// Returns an error if invalid data is found, nil if everything is fine.
func (w *WAVInfo) Validate() error {
	switch w.Rate {
	case 8000, 11025, 16000, 22050, 32000, 44100, 48000:
	default:
		return fmt.Errorf("unsupported sample rate %d", w.Rate)
	}
	if w.Channels < 1 || w.Channels > 2 {
		return fmt.Errorf("unsupported channel count %d", w.Channels)
	}
	if w.Bits != 8 && w.Bits != 16 {
		return fmt.Errorf("unsupported sample size %d", w.Bits)
	}
	return nil
}

// WriteWAVHeader writes a canonical 44-byte header for linear PCM.
func WriteWAVHeader(w io.Writer, info WAVInfo) error {
	blockAlign := info.Channels * info.Bits / 8
	hdr := []interface{}{
		[4]byte{'R', 'I', 'F', 'F'},
		uint32(info.DataSize + WAVHeaderSize - 8),
		[8]byte{'W', 'A', 'V', 'E', 'f', 'm', 't', ' '},
		uint32(16),
		uint16(1),
		uint16(info.Channels),
		uint32(info.Rate),
		uint32(info.Rate * blockAlign),
		uint16(blockAlign),
		uint16(info.Bits),
		[4]byte{'d', 'a', 't', 'a'},
		uint32(info.DataSize),
	}
	for _, v := range hdr {
		err := binary.Write(w, endianess, v)
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadWAVHeader reads a RIFF header up to the start of the sample data.
// Chunks other than "fmt " and "data" are skipped.
func ReadWAVHeader(r io.Reader) (*WAVInfo, error) {
	var riff [12]byte
	_, err := io.ReadFull(r, riff[:])
	if err != nil {
		return nil, errors.AsInvalidFormat(err, "read RIFF header")
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, errors.NewInvalidFormat("not a WAVE file")
	}

	info := &WAVInfo{}
	haveFmt := false
	for {
		id, size, err := readChunk(r)
		if err != nil {
			return nil, errors.AsInvalidFormat(err, "read WAVE chunk")
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, errors.NewInvalidFormat("fmt chunk too short: %d", size)
			}
			var f struct {
				Format     uint16
				Channels   uint16
				Rate       uint32
				ByteRate   uint32
				BlockAlign uint16
				Bits       uint16
			}
			err = binary.Read(r, endianess, &f)
			if err != nil {
				return nil, errors.AsInvalidFormat(err, "read fmt chunk")
			}
			if f.Format != 1 {
				return nil, errors.NewInvalidFormat("only PCM encoding is supported")
			}
			info.Rate = int(f.Rate)
			info.Channels = int(f.Channels)
			info.Bits = int(f.Bits)
			if int(f.ByteRate) != info.Rate*info.Channels*info.Bits/8 {
				return nil, errors.NewInvalidFormat("byte rate mismatch")
			}
			if int(f.BlockAlign) != info.Channels*info.Bits/8 {
				return nil, errors.NewInvalidFormat("block align mismatch")
			}
			err = skip(r, int64(size)-16)
			if err != nil {
				return nil, errors.AsInvalidFormat(err, "skip fmt chunk")
			}
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, errors.NewInvalidFormat("no fmt chunk before data")
			}
			info.DataSize = int64(size)
			err = info.Validate()
			if err != nil {
				return nil, errors.AsInvalidFormat(err, "WAVE format")
			}
			return info, nil
		default:
			err = skip(r, int64(size))
			if err != nil {
				return nil, errors.AsInvalidFormat(err, "skip %q chunk", id)
			}
		}
	}
}

// ReadWAVFile reads the header of the WAV file at path.
func ReadWAVFile(path string) (*WAVInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewFileError(err, "open %q", path)
	}
	defer f.Close()
	return ReadWAVHeader(bufio.NewReader(f))
}

func readChunk(r io.Reader) (string, uint32, error) {
	var hdr [8]byte
	_, err := io.ReadFull(r, hdr[:])
	if err != nil {
		return "", 0, err
	}
	return string(hdr[:4]), endianess.Uint32(hdr[4:]), nil
}

func skip(r io.Reader, n int64) error {
	if n <= 0 {
		return nil
	}
	_, err := io.CopyN(io.Discard, r, n)
	return err
}
