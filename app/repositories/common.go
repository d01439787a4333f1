package repositories

import (
	"encoding/json"
	"fmt"
)

const (
	// Key prefixes for different entity types
	SessionKeyPrefix = "session:"
	UploadKeyPrefix  = "upload:"
)

func sessionKey(id string) []byte {
	return []byte(SessionKeyPrefix + id)
}

func uploadMetaKey(ref string) []byte {
	return []byte(UploadKeyPrefix + ref + "/meta")
}

func uploadChunkKey(ref string, n int) []byte {
	return []byte(fmt.Sprintf("%s%s/%04d", UploadKeyPrefix, ref, n))
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}
