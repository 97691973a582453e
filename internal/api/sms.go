package api

import (
	"net/http"
)

// sendSMSRequest is the body of POST /notifications/sms.
type sendSMSRequest struct {
	Number  string `json:"number"`
	Message string `json:"message"`
}

// handleSendSMS validates the number and hands the message to the gateway.
func (s *Server) handleSendSMS(w http.ResponseWriter, r *http.Request) {
	if s.sms == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "sms is not configured")
		return
	}

	var body sendSMSRequest
	if !decodeBody(w, r, &body) {
		return
	}

	resp, err := s.sms.Send(r.Context(), body.Number, body.Message)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
