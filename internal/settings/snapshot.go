package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"sound-mixer-engine/internal/audio"
)

// snapshotV1 is the on-disk volume snapshot. All three fields are required.
type snapshotV1 struct {
	MasterVolume      *float64                   `json:"masterVolume"`
	CategoryVolumes   *map[audio.Tag]float64     `json:"categoryVolumes"`
	IndividualVolumes *map[audio.SoundID]float64 `json:"individualVolumes"`
}

// EncodeSnapshot renders s as the JSON document persisted by every backend
func EncodeSnapshot(s audio.Snapshot) ([]byte, error) {
	c := s.Clone()
	rec := snapshotV1{
		MasterVolume:      &c.Master,
		CategoryVolumes:   &c.Categories,
		IndividualVolumes: &c.Sounds,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode volume snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a persisted document strictly: unknown or missing
// fields, unknown names and trailing data are errors.
func DecodeSnapshot(data []byte) (audio.Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var rec snapshotV1
	if err := dec.Decode(&rec); err != nil {
		return audio.Snapshot{}, fmt.Errorf("decode volume snapshot: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return audio.Snapshot{}, fmt.Errorf("decode volume snapshot: trailing data after document")
	}

	switch {
	case rec.MasterVolume == nil:
		return audio.Snapshot{}, fmt.Errorf("decode volume snapshot: missing masterVolume")
	case rec.CategoryVolumes == nil:
		return audio.Snapshot{}, fmt.Errorf("decode volume snapshot: missing categoryVolumes")
	case rec.IndividualVolumes == nil:
		return audio.Snapshot{}, fmt.Errorf("decode volume snapshot: missing individualVolumes")
	}

	return audio.Snapshot{
		Master:     *rec.MasterVolume,
		Categories: *rec.CategoryVolumes,
		Sounds:     *rec.IndividualVolumes,
	}.Clone(), nil
}
