package lightbox

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// PanAnchor is a sub-rectangle of the container, in unit coordinates, that
// a pan frames the image into. Its centre is where each keyframe's image
// point lands.
type PanAnchor struct {
	Left   float64 `json:"left" yaml:"left"`
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
}

// PanDescriptor is a resolution-independent start and end framing. X/Y are
// fractions of the image size, so one descriptor works for any image aspect
// ratio. Zooms are relative to the screen-fit scale.
type PanDescriptor struct {
	X1        float64    `json:"x1" yaml:"x1"`
	Y1        float64    `json:"y1" yaml:"y1"`
	X2        float64    `json:"x2" yaml:"x2"`
	Y2        float64    `json:"y2" yaml:"y2"`
	StartZoom float64    `json:"start_zoom" yaml:"start_zoom"`
	EndZoom   float64    `json:"end_zoom" yaml:"end_zoom"`
	Anchor    *PanAnchor `json:"anchor,omitempty" yaml:"anchor,omitempty"`
}

// AnchorPoint returns the container fraction keyframe points are placed at:
// the anchor's centre, or the container centre without an anchor.
func (d PanDescriptor) AnchorPoint() Vec2 {
	if d.Anchor == nil {
		return Vec2{0.5, 0.5}
	}
	return Vec2{(d.Anchor.Left + d.Anchor.Right) / 2, (d.Anchor.Top + d.Anchor.Bottom) / 2}
}

// Validate rejects descriptors that can't produce a finite animation.
func (d PanDescriptor) Validate() error {
	vals := []float64{d.X1, d.Y1, d.X2, d.Y2, d.StartZoom, d.EndZoom}
	if d.Anchor != nil {
		vals = append(vals, d.Anchor.Left, d.Anchor.Top, d.Anchor.Right, d.Anchor.Bottom)
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("lightbox: pan descriptor has a non-finite value")
		}
	}
	if d.StartZoom < 0 || d.EndZoom < 0 {
		return errors.New("lightbox: pan descriptor has a negative zoom")
	}
	return nil
}

// MarshalPan encodes a descriptor as JSON. A nil descriptor encodes as null.
func MarshalPan(d *PanDescriptor) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("lightbox: encode pan: %w", err)
	}
	return data, nil
}

// ParsePan decodes a JSON descriptor. null decodes to nil, meaning "use the
// default for the mode".
func ParsePan(data []byte) (*PanDescriptor, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, nil
	}
	var d PanDescriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("lightbox: parse pan: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// PanStore keeps edited pan descriptors by media ID and persists them as
// YAML.
type PanStore struct {
	Version string                   `yaml:"version"`
	Pans    map[string]PanDescriptor `yaml:"pans"`
}

// NewPanStore returns an empty store.
func NewPanStore() *PanStore {
	return &PanStore{Version: "1", Pans: make(map[string]PanDescriptor)}
}

// Get returns the descriptor saved for a media ID, or nil.
func (s *PanStore) Get(mediaID string) *PanDescriptor {
	d, ok := s.Pans[mediaID]
	if !ok {
		return nil
	}
	return &d
}

// Set saves a descriptor for a media ID. A nil descriptor removes it.
func (s *PanStore) Set(mediaID string, d *PanDescriptor) {
	if d == nil {
		delete(s.Pans, mediaID)
		return
	}
	s.Pans[mediaID] = *d
}

// IDs returns the stored media IDs in sorted order.
func (s *PanStore) IDs() []string {
	ids := make([]string, 0, len(s.Pans))
	for id := range s.Pans {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// WritePanStore writes a store to a YAML file.
func WritePanStore(s *PanStore, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("lightbox: encode pan store: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("lightbox: write pan store: %w", err)
	}
	return nil
}

// ReadPanStore reads a store from a YAML file. A missing file yields an
// empty store.
func ReadPanStore(path string) (*PanStore, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewPanStore(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("lightbox: read pan store: %w", err)
	}
	s := NewPanStore()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("lightbox: parse pan store %s: %w", path, err)
	}
	if s.Pans == nil {
		s.Pans = make(map[string]PanDescriptor)
	}
	for id, d := range s.Pans {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("lightbox: pan for %q: %w", id, err)
		}
	}
	return s, nil
}
