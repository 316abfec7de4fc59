// Package audio provides audio file reading for uncompressed WAVE input.
//
// Rendered artifacts and source recordings are decoded to mono float64
// buffers in [-1, 1]; multi-channel content is mixed down by averaging.
// Buffers from two different files may differ in length — the validator
// owns the truncation policy, not the reader.
package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// Metadata describes the decoded stream.
type Metadata struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Frames     int
	Duration   float64 // seconds
}

// wave format codes
const (
	formatPCM        = 1
	formatIEEEFloat  = 3
	formatExtensible = 0xFFFE
)

// ReadMono decodes a RIFF/WAVE file into a mono float64 buffer.
// Supported encodings: PCM 16/24/32-bit integer and 32/64-bit float.
func ReadMono(path string) ([]float64, *Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	samples, meta, err := decodeWave(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return samples, meta, nil
}

func decodeWave(raw []byte) ([]float64, *Metadata, error) {
	if len(raw) < 12 || string(raw[0:4]) != "RIFF" || string(raw[8:12]) != "WAVE" {
		return nil, nil, fmt.Errorf("not a RIFF/WAVE stream")
	}

	var (
		format     uint16
		channels   int
		sampleRate int
		bitDepth   int
		data       []byte
		haveFmt    bool
	)

	// Walk the chunk list. Chunks are word-aligned; odd sizes carry a
	// pad byte that is not counted in the chunk size.
	off := 12
	for off+8 <= len(raw) {
		id := string(raw[off : off+4])
		size := int(binary.LittleEndian.Uint32(raw[off+4 : off+8]))
		body := off + 8
		if body+size > len(raw) {
			return nil, nil, fmt.Errorf("chunk %q overruns file", id)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, nil, fmt.Errorf("fmt chunk too short (%d bytes)", size)
			}
			format = binary.LittleEndian.Uint16(raw[body : body+2])
			channels = int(binary.LittleEndian.Uint16(raw[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(raw[body+4 : body+8]))
			bitDepth = int(binary.LittleEndian.Uint16(raw[body+14 : body+16]))
			if format == formatExtensible {
				// The real format code lives in the extension's GUID.
				if size < 40 {
					return nil, nil, fmt.Errorf("extensible fmt chunk too short (%d bytes)", size)
				}
				format = binary.LittleEndian.Uint16(raw[body+24 : body+26])
			}
			haveFmt = true
		case "data":
			data = raw[body : body+size]
		}

		off = body + size
		if size%2 == 1 {
			off++
		}
	}

	if !haveFmt {
		return nil, nil, fmt.Errorf("missing fmt chunk")
	}
	if data == nil {
		return nil, nil, fmt.Errorf("missing data chunk")
	}
	if channels < 1 {
		return nil, nil, fmt.Errorf("invalid channel count %d", channels)
	}

	decode, bytesPerSample, err := sampleDecoder(format, bitDepth)
	if err != nil {
		return nil, nil, err
	}

	frameSize := bytesPerSample * channels
	frames := len(data) / frameSize
	samples := make([]float64, frames)
	for f := 0; f < frames; f++ {
		var sum float64
		base := f * frameSize
		for c := 0; c < channels; c++ {
			sum += decode(data[base+c*bytesPerSample:])
		}
		samples[f] = sum / float64(channels)
	}

	meta := &Metadata{
		SampleRate: sampleRate,
		Channels:   channels,
		BitDepth:   bitDepth,
		Frames:     frames,
	}
	if sampleRate > 0 {
		meta.Duration = float64(frames) / float64(sampleRate)
	}
	return samples, meta, nil
}

// sampleDecoder returns a decoder reading one normalised sample from a
// little-endian byte slice, plus the sample width in bytes.
func sampleDecoder(format uint16, bitDepth int) (func([]byte) float64, int, error) {
	switch {
	case format == formatPCM && bitDepth == 16:
		return func(b []byte) float64 {
			return float64(int16(binary.LittleEndian.Uint16(b))) / 32768.0
		}, 2, nil
	case format == formatPCM && bitDepth == 24:
		return func(b []byte) float64 {
			v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
			// sign-extend from 24 bits
			v = v << 8 >> 8
			return float64(v) / 8388608.0
		}, 3, nil
	case format == formatPCM && bitDepth == 32:
		return func(b []byte) float64 {
			return float64(int32(binary.LittleEndian.Uint32(b))) / 2147483648.0
		}, 4, nil
	case format == formatIEEEFloat && bitDepth == 32:
		return func(b []byte) float64 {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		}, 4, nil
	case format == formatIEEEFloat && bitDepth == 64:
		return func(b []byte) float64 {
			return math.Float64frombits(binary.LittleEndian.Uint64(b))
		}, 8, nil
	default:
		return nil, 0, fmt.Errorf("unsupported format %d with %d-bit samples", format, bitDepth)
	}
}
