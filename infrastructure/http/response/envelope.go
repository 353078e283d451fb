package response

import (
	"encoding/json"
	"errors"
	"net/http"

	apperror "github.com/storedesk/storedesk/domain/error"
)

type Envelope struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Code    string      `json:"code,omitempty"`
}

// ErrorBody is the error shape of the companion API
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, status bool, message string, data interface{}) {
	writeEnvelope(w, statusCode, Envelope{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

func writeEnvelope(w http.ResponseWriter, statusCode int, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(envelope)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	WriteJSON(w, statusCode, true, message, data)
}

func Error(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, false, message, nil)
}

// AppError maps err through the error catalog and writes the envelope with its code
func AppError(w http.ResponseWriter, err error) {
	envelope := Envelope{Status: false, Message: apperror.PublicMessage(err)}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		envelope.Code = string(appErr.Code)
	}
	writeEnvelope(w, apperror.GetHTTPStatusCode(err), envelope)
}

// CompanionError writes err in the companion API's {"error","message"} shape
func CompanionError(w http.ResponseWriter, err error) {
	body := ErrorBody{Error: apperror.PublicMessage(err)}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		body.Message = appErr.Details
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(apperror.GetHTTPStatusCode(err))
	_ = json.NewEncoder(w).Encode(body)
}

// Raw writes v as JSON without the envelope
func Raw(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

func InternalServerError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message)
}
