// Package cache holds the persistent chunk cache used by ingestion and the
// in-process query result cache used by the assistant.
package cache

import (
	"fmt"

	"github.com/minio/highwayhash"
)

var key = []byte("legalrag-chunk-cache-key-0000001")

// Key derives the chunk cache key for a file's bytes read from source under
// the chunking parameters identified by signature. Chunks carry their source
// path and a law name that may come from the filename, so equal bytes under
// another path get another key.
func Key(data []byte, source, signature string) (string, error) {
	h, err := highwayhash.New64(key)
	if err != nil {
		return "", err
	}
	if _, err := h.Write(data); err != nil {
		return "", err
	}
	if _, err := h.Write([]byte{0}); err != nil {
		return "", err
	}
	for _, part := range []string{source, signature} {
		if _, err := h.Write([]byte(part)); err != nil {
			return "", err
		}
		if _, err := h.Write([]byte{0}); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
