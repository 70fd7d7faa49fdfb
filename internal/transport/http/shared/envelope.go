package shared

import (
	"net/http"

	respond "kyc-gateway/internal/transport/http/json"
)

// Envelope is the success wrapper every 2xx payload takes on the wire.
// Message is set on mutations, omitted on plain reads.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

// WriteSuccess writes a {success:true, message?, data} response.
func WriteSuccess(w http.ResponseWriter, status int, message string, data any) {
	respond.WriteJSON(w, status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}
