package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeResponse normalizes a backend body into an APIResponse.
//
// An empty body counts as success with no data. A JSON object carrying a
// "success" key is the envelope itself; anything else is a bare payload and is
// wrapped as a successful response. Data is dropped whenever success is false.
func DecodeResponse[T any](body []byte) (APIResponse[T], error) {
	var resp APIResponse[T]

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		resp.Success = true
		return resp, nil
	}

	if trimmed[0] == '{' {
		var head struct {
			Success *bool `json:"success"`
		}
		if err := json.Unmarshal(trimmed, &head); err != nil {
			return resp, fmt.Errorf("failed to decode response: %w", err)
		}
		if head.Success != nil {
			if err := json.Unmarshal(trimmed, &resp); err != nil {
				var env APIResponse[json.RawMessage]
				// Keep the message of a failed envelope even if its data is garbage.
				if json.Unmarshal(trimmed, &env) == nil && !env.Success {
					return APIResponse[T]{Success: false, Message: env.Message}, nil
				}
				return APIResponse[T]{}, fmt.Errorf("failed to decode response envelope: %w", err)
			}
			if !resp.Success {
				var zero T
				resp.Data = zero
			}
			return resp, nil
		}
	}

	if err := json.Unmarshal(trimmed, &resp.Data); err != nil {
		return APIResponse[T]{}, fmt.Errorf("failed to decode response payload: %w", err)
	}
	resp.Success = true
	return resp, nil
}
