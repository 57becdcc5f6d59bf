package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/m04kA/SMC-ApartmentCalendar/internal/domain"
)

// Коды ошибок в теле ответа
const (
	CodeInvalidPayload = "invalid_payload"
	CodeNotFound       = "not_found"
	CodeConflict       = "conflict"
	CodeUnauthorized   = "unauthorized"
	CodeForbidden      = "forbidden"
	CodeBadGateway     = "bad_gateway"
	CodeInternal       = "internal"
)

const msgInternalError = "внутренняя ошибка сервера"

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Conflict *ConflictRange `json:"conflict,omitempty"`
}

// ConflictRange бронирование, с которым пересеклись даты
type ConflictRange struct {
	ID        string `json:"id"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondNoContent отвечает 204 без тела
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// RespondError отправляет ошибку с кодом по статусу
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Code: codeForStatus(status), Message: message})
}

// RespondBadRequest 400
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondNotFound 404
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

// RespondUnauthorized 401
func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

// RespondForbidden 403
func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

// RespondConflict 409 с диапазоном бронирования, мешающего операции
func RespondConflict(w http.ResponseWriter, message string, with domain.Booking) {
	RespondJSON(w, http.StatusConflict, ErrorResponse{
		Code:    CodeConflict,
		Message: message,
		Conflict: &ConflictRange{
			ID:        with.ID,
			StartDate: with.StartDate.String(),
			EndDate:   with.EndDate.String(),
		},
	})
}

// RespondInternalError 500 без подробностей
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeInvalidPayload
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusBadGateway:
		return CodeBadGateway
	default:
		return CodeInternal
	}
}
