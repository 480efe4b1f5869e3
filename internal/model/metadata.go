package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// DefaultMetadata describes the Keras leaf model exported to ONNX: a single
// NHWC image in, one score per label out.
func DefaultMetadata() Metadata {
	return Metadata{
		InputName:   "input",
		OutputName:  "output",
		InputShape:  []int64{1, DefaultImageSize, DefaultImageSize, 3},
		OutputShape: []int64{1, int64(len(DefaultLabels))},
		Classes:     append([]string(nil), DefaultLabels...),
		ImageSize:   DefaultImageSize,
	}
}

// LoadMetadata reads the metadata sidecar at path. A missing file is not an
// error: the defaults for the published model are used instead. Fields left
// empty in the file fall back to the same defaults.
func LoadMetadata(path string) (Metadata, error) {
	meta := DefaultMetadata()
	if path == "" {
		return meta, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return meta, nil
	}
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}

	var loaded Metadata
	if err := json.Unmarshal(data, &loaded); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}
	meta.merge(loaded)

	if err := meta.Validate(); err != nil {
		return Metadata{}, err
	}
	return meta, nil
}

func (m *Metadata) merge(overlay Metadata) {
	if overlay.InputName != "" {
		m.InputName = overlay.InputName
	}
	if overlay.OutputName != "" {
		m.OutputName = overlay.OutputName
	}
	if len(overlay.InputShape) > 0 {
		m.InputShape = overlay.InputShape
		m.ImageSize = 0
	}
	if len(overlay.OutputShape) > 0 {
		m.OutputShape = overlay.OutputShape
	}
	if len(overlay.Classes) > 0 {
		m.Classes = overlay.Classes
	}
	if overlay.ImageSize > 0 {
		m.ImageSize = overlay.ImageSize
	}
	if m.ImageSize == 0 {
		m.ImageSize = m.spatialSize()
	}
}

// Validate checks that the input shape describes a single 3-channel square
// image whose side matches ImageSize.
func (m *Metadata) Validate() error {
	if len(m.InputShape) != 4 {
		return fmt.Errorf("input shape must have 4 dimensions, got %v", m.InputShape)
	}
	if m.InputShape[0] != 1 {
		return fmt.Errorf("input shape must have batch size 1, got %v", m.InputShape)
	}
	if m.InputShape[1] != 3 && m.InputShape[3] != 3 {
		return fmt.Errorf("input shape must have 3 channels, got %v", m.InputShape)
	}
	h, w := m.InputShape[1], m.InputShape[2]
	if m.ChannelsFirst() {
		h, w = m.InputShape[2], m.InputShape[3]
	}
	if h != w {
		return fmt.Errorf("input shape must be square, got %v", m.InputShape)
	}
	if int64(m.ImageSize) != h {
		return fmt.Errorf("image size %d does not match input shape %v", m.ImageSize, m.InputShape)
	}
	if len(m.OutputShape) == 0 {
		return errors.New("output shape is empty")
	}
	if len(m.Classes) == 0 {
		return errors.New("no classes defined")
	}
	return nil
}

// ChannelsFirst reports whether the model expects NCHW input.
func (m *Metadata) ChannelsFirst() bool {
	return len(m.InputShape) == 4 && m.InputShape[1] == 3 && m.InputShape[3] != 3
}

// InputSize is the number of float32 values in one input tensor.
func (m *Metadata) InputSize() int {
	size := 1
	for _, dim := range m.InputShape {
		size *= int(dim)
	}
	return size
}

func (m *Metadata) spatialSize() int {
	if len(m.InputShape) != 4 {
		return 0
	}
	if m.ChannelsFirst() {
		return int(m.InputShape[2])
	}
	return int(m.InputShape[1])
}
