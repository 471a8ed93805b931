package badger

import (
	"encoding/json"
	"fmt"

	"github.com/marmos91/dataroom/pkg/dataroom"
)

// Records are stored as JSON. Metadata values are small, so readability and
// schema flexibility win over a binary encoding here.

func encodeRoom(room *dataroom.Room) ([]byte, error) {
	data, err := json.Marshal(room)
	if err != nil {
		return nil, fmt.Errorf("failed to encode room: %w", err)
	}
	return data, nil
}

func decodeRoom(data []byte) (*dataroom.Room, error) {
	var room dataroom.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, fmt.Errorf("failed to decode room: %w", err)
	}
	return &room, nil
}

func encodeContainer(container *dataroom.Container) ([]byte, error) {
	data, err := json.Marshal(container)
	if err != nil {
		return nil, fmt.Errorf("failed to encode container: %w", err)
	}
	return data, nil
}

func decodeContainer(data []byte) (*dataroom.Container, error) {
	var container dataroom.Container
	if err := json.Unmarshal(data, &container); err != nil {
		return nil, fmt.Errorf("failed to decode container: %w", err)
	}
	return &container, nil
}

func encodeLeaf(leaf *dataroom.Leaf) ([]byte, error) {
	data, err := json.Marshal(leaf)
	if err != nil {
		return nil, fmt.Errorf("failed to encode leaf: %w", err)
	}
	return data, nil
}

func decodeLeaf(data []byte) (*dataroom.Leaf, error) {
	var leaf dataroom.Leaf
	if err := json.Unmarshal(data, &leaf); err != nil {
		return nil, fmt.Errorf("failed to decode leaf: %w", err)
	}
	return &leaf, nil
}
