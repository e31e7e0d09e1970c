package httputil

import (
	"encoding/json"
	"net/http"
)

// The API uses two error shapes: auth routes answer {"msg": "..."} and
// report routes answer {"message": "..."}.

// MsgResponse is the error body of /auth routes.
type MsgResponse struct {
	Msg string `json:"msg"`
}

// MessageResponse is the error (and delete confirmation) body of /report routes.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// headers already sent
			return
		}
	}
}

// WriteMsg writes {"msg": message}.
func WriteMsg(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, MsgResponse{Msg: message})
}

// WriteMessage writes {"message": message}.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, MessageResponse{Message: message})
}

// WriteBadRequest writes a 400 in the report shape
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteMessage(w, http.StatusBadRequest, message)
}

// WriteUnauthorized writes a 401 in the report shape
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteMessage(w, http.StatusUnauthorized, message)
}

// WriteNotFound writes a 404 in the report shape
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteMessage(w, http.StatusNotFound, message)
}

// WriteInternalError writes a 500 in the report shape
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteMessage(w, http.StatusInternalServerError, message)
}
