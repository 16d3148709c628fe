package persistence

import (
	"encoding/json"
	"fmt"
)

// MarshalRootCheckpoint serializes a RootCheckpoint to JSON bytes.
func MarshalRootCheckpoint(rc *RootCheckpoint) ([]byte, error) {
	if rc == nil {
		return nil, fmt.Errorf("cannot marshal nil RootCheckpoint")
	}

	data, err := json.Marshal(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal RootCheckpoint to JSON: %w", err)
	}

	return data, nil
}

// UnmarshalRootCheckpoint deserializes a RootCheckpoint from JSON bytes.
func UnmarshalRootCheckpoint(data []byte) (*RootCheckpoint, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var rc RootCheckpoint
	if err := json.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to RootCheckpoint: %w", err)
	}

	return &rc, nil
}
