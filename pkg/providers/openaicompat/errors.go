package openaicompat

import "encoding/json"

// ExtractErrorMessage returns the message of a Chat Completions error
// envelope, or "" when body is not one.
func ExtractErrorMessage(body string) string {
	if body == "" {
		return ""
	}

	var errResp ChatErrorResponse
	if err := json.Unmarshal([]byte(body), &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return ""
}
