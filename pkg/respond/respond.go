package respond

import (
	"encoding/json"
	"log"
	"net/http"
)

// Body is the uniform envelope wrapped around every API response.
type Body struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// Format wraps a payload into the envelope. Statuses below 400 report
// "success", everything else "error".
func Format(payload any, status int) Body {
	state := "success"
	if status >= http.StatusBadRequest {
		state = "error"
	}
	return Body{Status: state, Data: payload}
}

// JSON writes the enveloped payload with the given status code.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Format(payload, status)); err != nil {
		log.Printf("[respond] failed to encode response: %v", err)
	}
}
