package internal

import (
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// AssetRegistry hands out transient mem:// handles for in-process binary
// payloads, the way a browser hands out blob URLs. Handles are valid only
// for the lifetime of the process and become invalid once revoked.
type AssetRegistry struct {
	mu    sync.RWMutex
	blobs map[string]asset
}

type asset struct {
	data []byte
	mime string
}

// NewAssetRegistry creates an empty registry.
func NewAssetRegistry() *AssetRegistry {
	return &AssetRegistry{blobs: make(map[string]asset)}
}

// Add registers a payload and returns its handle. The registry keeps its own
// reference; callers may discard the slice afterwards.
func (r *AssetRegistry) Add(data []byte, mime string) string {
	buf := make([]byte, len(data))
	copy(buf, data)

	handle := "mem://" + uuid.NewString()
	r.mu.Lock()
	r.blobs[handle] = asset{data: buf, mime: mime}
	r.mu.Unlock()
	return handle
}

// Read returns the payload and MIME type for a handle.
func (r *AssetRegistry) Read(handle string) ([]byte, string, error) {
	r.mu.RLock()
	a, ok := r.blobs[handle]
	r.mu.RUnlock()
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrHandleInvalid, handle)
	}
	return a.data, a.mime, nil
}

// Has reports whether a handle currently resolves.
func (r *AssetRegistry) Has(handle string) bool {
	r.mu.RLock()
	_, ok := r.blobs[handle]
	r.mu.RUnlock()
	return ok
}

// Revoke releases the payload behind a handle. Revoking an unknown handle is
// a no-op.
func (r *AssetRegistry) Revoke(handle string) {
	r.mu.Lock()
	delete(r.blobs, handle)
	r.mu.Unlock()
}

// ToBase64 reads the payload behind a handle and returns its standard base64
// encoding, for storage and file export.
func (r *AssetRegistry) ToBase64(handle string) (string, error) {
	data, _, err := r.Read(handle)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// FromBase64 decodes portable text back into a registered payload and returns
// a fresh handle. The handle identity differs on every call but the payload
// bytes are identical for identical input.
func (r *AssetRegistry) FromBase64(text, mime string) (string, error) {
	data, err := DecodeBase64(text)
	if err != nil {
		return "", err
	}
	return r.Add(data, mime), nil
}
