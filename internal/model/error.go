// internal/model/error.go
package model

import "errors"

// アプリケーション固有のエラー
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternalServer = errors.New("internal server error")

	// 問題生成 (loading 中) のエラー
	ErrTransportFailure   = errors.New("question source transport failure")
	ErrMalformedResponse  = errors.New("malformed response from question source")
	ErrInvariantViolation = errors.New("question list invariant violated")

	// 画面遷移・クイズ進行のエラー
	ErrInvalidTransition = errors.New("invalid screen transition")
	ErrNoSelection       = errors.New("no option selected")
)

// LoadFailureMessage はロード失敗時にユーザーへ表示する唯一のメッセージです。
const LoadFailureMessage = "Failed to load questions. Please check your connection and try again."

// ErrorDetail はAPIエラーレスポンスの中身です。
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIErrorResponse はAPIエラーレスポンスの構造体
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// AppError はクライアントに返す情報と原因エラーを保持します。
type AppError struct {
	Detail ErrorDetail
	Err    error
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{
		Detail: ErrorDetail{Code: code, Message: message, Field: field},
		Err:    err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Detail.Code + ": " + e.Err.Error()
	}
	return e.Detail.Code + ": " + e.Detail.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
