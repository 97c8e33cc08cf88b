package internal

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
)

// WAVMimeType is the MIME type attached to encoded audio assets.
const WAVMimeType = "audio/wav"

// AudioClip is a decoded, playable audio track: interleaved float samples in
// [-1, 1] at a fixed sample rate and channel count.
type AudioClip struct {
	SampleRate int
	Channels   int
	Samples    []float64
}

// Frames returns the number of sample frames in the clip.
func (c *AudioClip) Frames() int {
	if c.Channels == 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

// Duration returns the clip length in seconds.
func (c *AudioClip) Duration() float64 {
	if c.SampleRate == 0 {
		return 0
	}
	return float64(c.Frames()) / float64(c.SampleRate)
}

// DecodeBase64 decodes the portable text transport used for audio payloads.
func DecodeBase64(text string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrDecode, err)
	}
	return data, nil
}

// DecodePCM interprets raw bytes as interleaved little-endian signed 16-bit
// samples at the given rate and channel count. The byte length must be a
// whole multiple of the sample frame size.
func DecodePCM(raw []byte, sampleRate, channels int) (*AudioClip, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: invalid pcm parameters (rate=%d, channels=%d)", ErrDecode, sampleRate, channels)
	}
	frameSize := 2 * channels
	if len(raw) == 0 || len(raw)%frameSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of %d-byte frames", ErrDecode, len(raw), frameSize)
	}

	samples := make([]float64, len(raw)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[2*i:]))
		samples[i] = float64(v) / 32768.0
	}

	return &AudioClip{SampleRate: sampleRate, Channels: channels, Samples: samples}, nil
}

// EncodeWAV encodes a clip as a self-contained uncompressed PCM WAV file:
// the standard 44-byte header followed by interleaved 16-bit samples.
// Samples are clamped to [-1, 1] before quantization.
func EncodeWAV(clip *AudioClip) []byte {
	dataSize := len(clip.Samples) * 2
	blockAlign := clip.Channels * 2
	byteRate := clip.SampleRate * blockAlign

	buf := make([]byte, 44+dataSize)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], uint16(clip.Channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(clip.SampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], 16) // bits per sample
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))

	for i, s := range clip.Samples {
		s = math.Max(-1, math.Min(1, s))
		var v int16
		if s < 0 {
			v = int16(s * 32768)
		} else {
			v = int16(s * 32767)
		}
		binary.LittleEndian.PutUint16(buf[44+2*i:], uint16(v))
	}

	return buf
}

// ClipToWAVHandle encodes a clip and registers the WAV payload as a transient
// asset, returning its mem:// handle.
func ClipToWAVHandle(assets *AssetRegistry, clip *AudioClip) string {
	return assets.Add(EncodeWAV(clip), WAVMimeType)
}
