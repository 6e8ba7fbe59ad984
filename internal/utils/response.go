package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"PROFILES_BACK-END/internal/dto"
)

// maxBodyBytes caps request bodies read by DecodeJSONObject.
const maxBodyBytes = 1 << 20

// ErrTrailingData is returned when a JSON body continues after its object.
var ErrTrailingData = errors.New("unexpected data after JSON object")

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteErrorResponse writes the {success:false, error} envelope
func WriteErrorResponse(w http.ResponseWriter, status int, message string) {
	WriteJSONResponse(w, status, dto.ErrorResponse{Success: false, Error: message})
}

// DecodeJSONObject reads the request body as a single JSON object and
// returns its fields undecoded. An empty body reads as an empty object.
// Bodies over maxBodyBytes fail with *http.MaxBytesError.
func DecodeJSONObject(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = ErrTrailingData
		}
		return nil, err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	return fields, nil
}
