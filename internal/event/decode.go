package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload returns the payload as T. In-process publishers hand over T or *T
// directly; payloads read back from the dead-letter file arrive as generic maps and
// go through a JSON round-trip.
func DecodePayload[T any](input interface{}) (T, error) {
	var result T
	switch v := input.(type) {
	case T:
		return v, nil
	case *T:
		if v == nil {
			return result, fmt.Errorf("nil %T payload", v)
		}
		return *v, nil
	case nil:
		return result, fmt.Errorf("missing payload, want %T", result)
	}

	data, err := json.Marshal(input)
	if err != nil {
		return result, fmt.Errorf("encode payload: %w", err)
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("decode payload into %T: %w", result, err)
	}
	return result, nil
}
