package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// HeaderSize is the fixed number of bytes consumed from the front of a
// container before sample data begins.
const HeaderSize = 44

// Header parsing errors
var (
	ErrShortHeader         = errors.New("container header shorter than 44 bytes")
	ErrUnsupportedBitDepth = errors.New("only 16-bit samples are supported")
)

// ContainerHeader holds the three fields the playback engine needs from a
// WAV-style container prefix. Everything else in the header is ignored.
type ContainerHeader struct {
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
}

// Stereo reports whether the stream carries two interleaved channels.
func (h *ContainerHeader) Stereo() bool {
	return h.Channels == 2
}

// ParseHeader reads exactly HeaderSize bytes from r and extracts the channel
// count (offset 22), sample rate (offset 24) and bit depth (offset 34), all
// little-endian. Bytes 0-21, 28-33 and 36-43 are deliberately not validated,
// so streams with unusual RIFF chunk layouts still parse as long as the fixed
// offsets hold. Only 16-bit streams are accepted.
func ParseHeader(r io.Reader) (*ContainerHeader, error) {
	slog.Debug("parsing container header")

	var raw [HeaderSize]byte
	n, err := io.ReadFull(r, raw[:])
	if err != nil {
		slog.Error("failed to read container header", "bytes_read", n, "error", err)
		return nil, fmt.Errorf("%w: got %d bytes", ErrShortHeader, n)
	}

	header := &ContainerHeader{
		Channels:      binary.LittleEndian.Uint16(raw[22:24]),
		SampleRate:    binary.LittleEndian.Uint32(raw[24:28]),
		BitsPerSample: binary.LittleEndian.Uint16(raw[34:36]),
	}

	slog.Debug("container header parsed",
		"channels", header.Channels,
		"sample_rate", header.SampleRate,
		"bits_per_sample", header.BitsPerSample)

	if header.BitsPerSample != 16 {
		slog.Error("unsupported bit depth", "bits_per_sample", header.BitsPerSample)
		return nil, fmt.Errorf("%w: got %d-bit", ErrUnsupportedBitDepth, header.BitsPerSample)
	}

	return header, nil
}
