package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-TherapySessions/internal/notice"
	"github.com/m04kA/SMC-TherapySessions/internal/validation"
)

const (
	msgValidationFailed = "validation failed"
	msgEmptyBody        = "request body is empty"
)

// ErrorResponse тело ответа при любой ошибке
type ErrorResponse struct {
	Success bool                `json:"success"`
	Error   string              `json:"error"`
	Fields  map[string][]string `json:"fields,omitempty"`
	Notice  *notice.Notice      `json:"notice,omitempty"`
}

// RespondJSON отправляет JSON ответ; nil payload - только статус
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError отправляет ошибку в формате {"success":false,"error":"..."}
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

// RespondErrorNotice отправляет ошибку вместе с уведомлением для пользователя
func RespondErrorNotice(w http.ResponseWriter, status int, message string, n notice.Notice) {
	RespondJSON(w, status, ErrorResponse{Error: message, Notice: &n})
}

// RespondValidation отправляет ошибки полей со статусом 422
func RespondValidation(w http.ResponseWriter, result validation.Result, n *notice.Notice) {
	RespondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error:  msgValidationFailed,
		Fields: result,
		Notice: n,
	})
}

// RespondValidationError отвечает 422, если в цепочке err есть ошибки полей
func RespondValidationError(w http.ResponseWriter, err error, op notice.Operation) bool {
	result, ok := validation.AsResult(err)
	if !ok {
		return false
	}
	n := notice.FromError(op, err)
	RespondValidation(w, result, &n)
	return true
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

// RespondInternalError скрывает детали ошибки от клиента
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, notice.GenericErrorMessage)
}

// DecodeJSON декодирует тело запроса; неизвестные поля отклоняются
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New(msgEmptyBody)
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New(msgEmptyBody)
		}
		return err
	}
	return nil
}
