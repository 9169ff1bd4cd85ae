// internal/webutil/response.go
package webutil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"word_wizard/internal/model"

	"github.com/go-playground/validator/v10"
)

// HandleError はエラーを解釈し、適切なJSONエラーレスポンスを返します。
func HandleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	statusCode := MapErrorToStatusCode(err)
	detail := ErrorDetailFor(err)

	if statusCode >= http.StatusInternalServerError {
		logger.Error("Unhandled error", slog.Any("error", err))
	} else {
		logger.Warn("Request rejected", slog.Int("status", statusCode), slog.String("code", detail.Code), slog.Any("error", err))
	}

	RespondWithJSON(w, statusCode, model.APIErrorResponse{Error: detail}, logger)
}

// ErrorDetailFor はクライアントに返すエラー内容を決めます。内部の原因は含めません。
func ErrorDetailFor(err error) model.ErrorDetail {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		return appErr.Detail
	}

	switch {
	case errors.Is(err, model.ErrInvalidTransition):
		return model.ErrorDetail{Code: "INVALID_TRANSITION", Message: "This action is not available on the current screen."}
	case errors.Is(err, model.ErrNoSelection):
		return model.ErrorDetail{Code: "NO_SELECTION", Message: "Select an option before continuing.", Field: "option"}
	case errors.Is(err, model.ErrInvalidInput):
		return model.ErrorDetail{Code: "INVALID_INPUT", Message: "The request is invalid."}
	default:
		return model.ErrorDetail{Code: "INTERNAL_SERVER_ERROR", Message: "An internal server error occurred."}
	}
}

// MapErrorToStatusCode はアプリケーションエラーをHTTPステータスコードにマッピングします
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrInvalidTransition), errors.Is(err, model.ErrNoSelection):
		return http.StatusConflict // 409 Conflict
	default:
		// ハンドリングされていないエラーは内部サーバーエラーとして扱う
		return http.StatusInternalServerError
	}
}

// RespondWithJSON はJSONレスポンスを返します
func RespondWithJSON(w http.ResponseWriter, code int, payload any, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error marshaling JSON response", slog.Any("error", err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":"INTERNAL_SERVER_ERROR","message":"Failed to build the response."}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		logger.Warn("Failed to write response", slog.Any("error", err))
	}
}

// NewValidationErrorResponse はバリデーションエラーを翻訳済みメッセージの AppError にします。
func NewValidationErrorResponse(errs validator.ValidationErrors) *model.AppError {
	fields := make([]string, 0, len(errs))
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fe.Field())
		messages = append(messages, fe.Translate(Trans))
	}

	return model.NewAppError(
		"VALIDATION_ERROR",
		strings.Join(messages, "; "),
		strings.Join(fields, ","),
		model.ErrInvalidInput,
	)
}
