package cache

import (
	"fmt"
)

// Keyer builds cache keys for pipeline stages.
type Keyer interface {
	// TableKey identifies a decoded table by the hash of its source bytes
	// and the schema used to read it.
	TableKey(sourceHash string, opts TableKeyOpts) string
	// ArtifactKey identifies a rendered artifact of a table.
	ArtifactKey(tableHash string, opts ArtifactKeyOpts) string
}

// TableKeyOpts are the read options that change a decoded table.
type TableKeyOpts struct {
	Format string `json:"format"`
	Sheet  string `json:"sheet,omitempty"`
	Schema string `json:"schema,omitempty"`
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Settings   string  `json:"settings"`
	Animate    bool    `json:"animate,omitempty"`
	EmbedFont  bool    `json:"embed_font,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	Background string  `json:"background,omitempty"`
	Rasterizer string  `json:"rasterizer,omitempty"`
	Version    string  `json:"version,omitempty"`
}

// DefaultKeyer hashes the options of each stage into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TableKey returns "table:<sha256>".
func (DefaultKeyer) TableKey(sourceHash string, opts TableKeyOpts) string {
	return hashKey("table", sourceHash, opts)
}

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(tableHash string, opts ArtifactKeyOpts) string {
	return hashKey(fmt.Sprintf("artifact:%s", opts.Format), tableHash, opts)
}

var _ Keyer = DefaultKeyer{}
