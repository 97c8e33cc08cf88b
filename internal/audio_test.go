package internal

import (
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pcmBytes(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(s))
	}
	return buf
}

func TestDecodeBase64(t *testing.T) {
	data, err := DecodeBase64(base64.StdEncoding.EncodeToString([]byte("hello")))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	_, err = DecodeBase64("not*base64!")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecodePCM(t *testing.T) {
	raw := pcmBytes([]int16{0, 16384, -16384, 32767})
	clip, err := DecodePCM(raw, 24000, 1)
	require.NoError(t, err)

	assert.Equal(t, 24000, clip.SampleRate)
	assert.Equal(t, 1, clip.Channels)
	require.Len(t, clip.Samples, 4)
	assert.InDelta(t, 0.0, clip.Samples[0], 1e-9)
	assert.InDelta(t, 0.5, clip.Samples[1], 1e-4)
	assert.InDelta(t, -0.5, clip.Samples[2], 1e-4)
	assert.InDelta(t, 1.0, clip.Samples[3], 1e-3)
}

func TestDecodePCMRejectsPartialFrames(t *testing.T) {
	// 3 bytes is not a whole number of stereo (4-byte) frames
	_, err := DecodePCM([]byte{1, 2, 3}, 24000, 2)
	assert.ErrorIs(t, err, ErrDecode)

	_, err = DecodePCM([]byte{1, 2, 3}, 24000, 1)
	assert.ErrorIs(t, err, ErrDecode)

	_, err = DecodePCM(nil, 24000, 1)
	assert.ErrorIs(t, err, ErrDecode)

	_, err = DecodePCM([]byte{1, 2}, 0, 1)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestEncodeWAVHeader(t *testing.T) {
	clip := &AudioClip{SampleRate: 24000, Channels: 1, Samples: make([]float64, 24000)}
	wav := EncodeWAV(clip)

	require.Len(t, wav, 44+48000)
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, uint32(36+48000), binary.LittleEndian.Uint32(wav[4:8]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[20:22]), "format code should be PCM")
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]), "channels")
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(wav[24:28]), "sample rate")
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(wav[28:32]), "byte rate")
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(wav[32:34]), "block align")
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(wav[34:36]), "bits per sample")
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(wav[40:44]), "data size")
}

func TestEncodeWAVClampsSamples(t *testing.T) {
	clip := &AudioClip{SampleRate: 8000, Channels: 1, Samples: []float64{2.0, -3.0}}
	wav := EncodeWAV(clip)

	require.Len(t, wav, 48)
	assert.Equal(t, int16(32767), int16(binary.LittleEndian.Uint16(wav[44:46])))
	assert.Equal(t, int16(-32768), int16(binary.LittleEndian.Uint16(wav[46:48])))
}

func TestAudioRoundTrip(t *testing.T) {
	// decode -> encode-to-portable-text -> decode-portable-text must yield
	// byte-identical audio payload
	raw := pcmBytes([]int16{0, 100, -100, 32767, -32768, 12345})
	clip, err := DecodePCM(raw, 24000, 1)
	require.NoError(t, err)

	assets := NewAssetRegistry()
	handle := ClipToWAVHandle(assets, clip)
	original, mime, err := assets.Read(handle)
	require.NoError(t, err)
	assert.Equal(t, WAVMimeType, mime)

	text, err := assets.ToBase64(handle)
	require.NoError(t, err)

	restored, err := assets.FromBase64(text, WAVMimeType)
	require.NoError(t, err)
	assert.NotEqual(t, handle, restored, "handle identity is fresh per decode")

	data, _, err := assets.Read(restored)
	require.NoError(t, err)
	assert.Equal(t, original, data)
}

func TestClipDuration(t *testing.T) {
	clip := &AudioClip{SampleRate: 24000, Channels: 2, Samples: make([]float64, 48000)}
	assert.Equal(t, 24000, clip.Frames())
	assert.InDelta(t, 1.0, clip.Duration(), 1e-9)
}

func TestAssetRegistryRevoke(t *testing.T) {
	assets := NewAssetRegistry()
	handle := assets.Add([]byte("payload"), "application/octet-stream")
	require.True(t, assets.Has(handle))

	assets.Revoke(handle)
	assert.False(t, assets.Has(handle))

	_, _, err := assets.Read(handle)
	assert.ErrorIs(t, err, ErrHandleInvalid)

	_, err = assets.ToBase64(handle)
	assert.ErrorIs(t, err, ErrHandleInvalid)

	// revoking again is a no-op
	assets.Revoke(handle)
}
