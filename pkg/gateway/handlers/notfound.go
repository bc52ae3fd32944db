package handlers

import (
	"net/http"

	"github.com/Engineernoob/ai-interview-buddy/pkg/gateway/mw"
)

type NotFoundHandler struct{}

func (h NotFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reqID, _ := mw.RequestIDFrom(r.Context())
	writeJSON(w, http.StatusNotFound, struct {
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	}{Message: "not found", RequestID: reqID})
}
