package util

import (
	"encoding/json"
	"fmt"
)

type typeExtractor struct {
	Type string `json:"$type"`
}

// Pulls the "$type" field out of a JSON object, without decoding the rest of it.
func TypeExtract(b []byte) (string, error) {
	var te typeExtractor
	if err := json.Unmarshal(b, &te); err != nil {
		return "", fmt.Errorf("extracting $type: %w", err)
	}
	return te.Type, nil
}
