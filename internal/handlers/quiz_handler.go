// internal/handlers/quiz_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"word_wizard/internal/middleware"
	"word_wizard/internal/model"
	"word_wizard/internal/session"
	"word_wizard/internal/webutil"
)

// QuizHandler は /api/v1/quiz 配下のJSON APIです。
type QuizHandler struct {
	logger *slog.Logger
}

func NewQuizHandler(logger *slog.Logger) *QuizHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizHandler{logger: logger}
}

// GetState は現在の画面状態を返します。
func (h *QuizHandler) GetState(w http.ResponseWriter, r *http.Request) {
	logger := middleware.LoggerFrom(r.Context(), h.logger).With(slog.String("handler", "GetState"))

	controller, err := session.GetController(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, controller.View(), logger)
}

// PostStart は問題を取得してクイズを開始します。取得が終わるまで応答しません。
// 取得に失敗した場合も 200 で error 画面を返します。
func (h *QuizHandler) PostStart(w http.ResponseWriter, r *http.Request) {
	logger := middleware.LoggerFrom(r.Context(), h.logger).With(slog.String("handler", "PostStart"))

	controller, err := session.GetController(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := controller.Start(r.Context()); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	view := controller.View()
	logger.Info("Quiz start finished", slog.String("status", string(view.Status)))
	webutil.RespondWithJSON(w, http.StatusOK, view, logger)
}

// PostSelect は現在の問題の選択肢を選びます。
func (h *QuizHandler) PostSelect(w http.ResponseWriter, r *http.Request) {
	logger := middleware.LoggerFrom(r.Context(), h.logger).With(slog.String("handler", "PostSelect"))

	controller, err := session.GetController(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.SelectOptionRequest
	if err := webutil.DecodeAndValidate(w, r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := controller.SelectOption(*req.Option); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, controller.View(), logger)
}

// PostAdvance は選択を確定して次の問題 (または結果) に進みます。
func (h *QuizHandler) PostAdvance(w http.ResponseWriter, r *http.Request) {
	logger := middleware.LoggerFrom(r.Context(), h.logger).With(slog.String("handler", "PostAdvance"))

	controller, err := session.GetController(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := controller.Advance(); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, controller.View(), logger)
}

// PostRestart は result / error 画面から start に戻ります。
func (h *QuizHandler) PostRestart(w http.ResponseWriter, r *http.Request) {
	logger := middleware.LoggerFrom(r.Context(), h.logger).With(slog.String("handler", "PostRestart"))

	controller, err := session.GetController(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := controller.Restart(); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, controller.View(), logger)
}
