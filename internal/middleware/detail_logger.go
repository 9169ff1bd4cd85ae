package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// maxLogBodySizeBytes を超えるボディは内容を出力しません。
const maxLogBodySizeBytes = 2048

// DetailLoggingMiddleware はJSON APIのリクエスト/レスポンスの中身をログに出力します。
// 正常系は Debug、4xx は Warn、5xx は Error です。
func DetailLoggingMiddleware(fallback *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := LoggerFrom(r.Context(), fallback)

			// リクエストBodyの読み取りと再セット
			var requestBody []byte
			if r.Body != nil && r.ContentLength > 0 && r.ContentLength <= maxLogBodySizeBytes {
				b, err := io.ReadAll(r.Body)
				if err != nil {
					logger.ErrorContext(r.Context(), "Failed to read request body in middleware", slog.Any("error", err))
				}
				requestBody = b
				r.Body = io.NopCloser(bytes.NewReader(b))
			}

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			var responseBody bytes.Buffer
			ww.Tee(&responseBody)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelDebug
			if status >= 500 {
				level = slog.LevelError
			} else if status >= 400 {
				level = slog.LevelWarn
			}
			if !logger.Enabled(r.Context(), level) {
				return
			}

			logger.LogAttrs(r.Context(), level, "HTTP exchange detail",
				slog.String("method", r.Method),
				slog.String("uri", r.RequestURI),
				slog.Int("status_code", status),
				slog.Any("request_headers", formatHeaders(r.Header)),
				bodyAttr("request_body", r.Header.Get("Content-Type"), requestBody),
				slog.Any("response_headers", formatHeaders(ww.Header())),
				bodyAttr("response_body", ww.Header().Get("Content-Type"), responseBody.Bytes()),
			)
		})
	}
}

// bodyAttr はボディをログ用の属性にします。JSON は構造化し、それ以外はサイズだけ出します。
func bodyAttr(key, contentType string, body []byte) slog.Attr {
	switch {
	case len(body) == 0:
		return slog.String(key, "(empty body)")
	case len(body) > maxLogBodySizeBytes:
		return slog.String(key, fmt.Sprintf("[body too large to log: %d bytes]", len(body)))
	case strings.HasPrefix(contentType, "application/json"):
		var data any
		if err := json.Unmarshal(body, &data); err != nil {
			return slog.String(key, fmt.Sprintf("[unparseable JSON body: %d bytes]", len(body)))
		}
		return slog.Any(key, data)
	default:
		return slog.String(key, fmt.Sprintf("[non-JSON body: %d bytes, Content-Type: %s]", len(body), contentType))
	}
}
