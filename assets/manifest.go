// Package assets downloads the Drive images referenced by menu rows and
// derives the web variants served by the site.
package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Manifest records the sha256 of every raw image already processed, so
// reruns skip derivation when the Drive bytes have not changed.
type Manifest struct {
	Images map[string]ImageEntry `json:"images"`
}

// ImageEntry is the processing record for one source image, keyed by its
// Drive display name.
type ImageEntry struct {
	RawSHA256 string `json:"raw_sha256"`
	WebName   string `json:"web_name,omitempty"`
	WebBytes  int64  `json:"web_bytes,omitempty"`
}

// LoadManifest reads the manifest at path. A missing or unreadable
// manifest yields an empty one; the worst case is redoing work.
func LoadManifest(path string) *Manifest {
	m := &Manifest{Images: map[string]ImageEntry{}}
	data, err := os.ReadFile(path)
	if err != nil {
		return m
	}
	if err := json.Unmarshal(data, m); err != nil || m.Images == nil {
		m.Images = map[string]ImageEntry{}
	}
	return m
}

// Save writes the manifest to path.
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
