package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rshade/ecoshopper/internal/cli/pagination"
	"github.com/rshade/ecoshopper/internal/shop"
)

// Error codes carried in the envelope.
const (
	codeInvalidRequest    = "invalid_request"
	codeProductNotFound   = "product_not_found"
	codeFeedbackNotFound  = "feedback_not_found"
	codeDangerAckRequired = "danger_ack_required"
	codeRequestTooLarge   = "request_too_large"
	codeRouteNotFound     = "route_not_found"
	codeMethodNotAllowed  = "method_not_allowed"
	codeInternal          = "internal_error"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// writeShopError maps domain errors onto HTTP statuses.
func writeShopError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, shop.ErrProductNotFound):
		writeError(w, http.StatusNotFound, codeProductNotFound, err.Error())
	case errors.Is(err, shop.ErrInvalidFeedback),
		errors.Is(err, shop.ErrInvalidPreference),
		errors.Is(err, pagination.ErrNegativeValue),
		errors.Is(err, pagination.ErrMixedModes),
		errors.Is(err, pagination.ErrInvalidSortFormat),
		errors.Is(err, pagination.ErrEmptySortField),
		errors.Is(err, pagination.ErrInvalidSortOrder),
		errors.Is(err, pagination.ErrInvalidSortField):
		writeError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, codeRequestTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
	default:
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

// decodeBody reads a size-limited JSON body into dst, rejecting unknown
// fields and trailing data.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	reader := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	defer reader.Close()

	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeShopError(w, err)
			return false
		}
		writeError(w, http.StatusBadRequest, codeInvalidRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	if decoder.More() {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "invalid request body: extraneous data")
		return false
	}
	return true
}
