// internal/handlers/page_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"word_wizard/internal/middleware"
	"word_wizard/internal/model"
	"word_wizard/internal/screen"
	"word_wizard/internal/session"
	"word_wizard/internal/view"
	"word_wizard/internal/webutil"
)

// PageHandler はサーバー描画のHTML画面です。操作はすべて POST → 303 で / に戻します。
type PageHandler struct {
	renderer *view.Renderer
	logger   *slog.Logger
}

func NewPageHandler(renderer *view.Renderer, logger *slog.Logger) *PageHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageHandler{renderer: renderer, logger: logger}
}

// Show は現在の画面を描画します。
func (h *PageHandler) Show(w http.ResponseWriter, r *http.Request) {
	logger := middleware.LoggerFrom(r.Context(), h.logger).With(slog.String("handler", "Show"))

	controller, err := session.GetController(r.Context())
	if err != nil {
		h.fail(w, logger, err)
		return
	}
	if err := h.renderer.Render(w, http.StatusOK, controller.View()); err != nil {
		logger.Error("Failed to render page", slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Start は読み込みをバックグラウンドで開始し、読み込み画面へリダイレクトします。
func (h *PageHandler) Start(w http.ResponseWriter, r *http.Request) {
	logger := middleware.LoggerFrom(r.Context(), h.logger).With(slog.String("handler", "Start"))

	h.act(w, r, logger, func(c *screen.Controller) error {
		_, err := c.StartAsync(r.Context())
		return err
	})
}

// Select はフォームの option を選択します。
func (h *PageHandler) Select(w http.ResponseWriter, r *http.Request) {
	logger := middleware.LoggerFrom(r.Context(), h.logger).With(slog.String("handler", "Select"))

	option, ok, err := formOption(r)
	if err == nil && !ok {
		err = model.NewAppError("VALIDATION_ERROR", "option is required", "option", model.ErrInvalidInput)
	}
	if err != nil {
		h.fail(w, logger, err)
		return
	}
	h.act(w, r, logger, func(c *screen.Controller) error {
		return c.SelectOption(option)
	})
}

// Next は option があれば選択してから次に進みます。
func (h *PageHandler) Next(w http.ResponseWriter, r *http.Request) {
	logger := middleware.LoggerFrom(r.Context(), h.logger).With(slog.String("handler", "Next"))

	option, ok, err := formOption(r)
	if err != nil {
		h.fail(w, logger, err)
		return
	}
	h.act(w, r, logger, func(c *screen.Controller) error {
		if ok {
			if err := c.SelectOption(option); err != nil {
				return err
			}
		}
		return c.Advance()
	})
}

func (h *PageHandler) Restart(w http.ResponseWriter, r *http.Request) {
	logger := middleware.LoggerFrom(r.Context(), h.logger).With(slog.String("handler", "Restart"))

	h.act(w, r, logger, func(c *screen.Controller) error {
		return c.Restart()
	})
}

// act は操作を実行して / にリダイレクトします。
// 画面と合わない操作 (二重送信や無効なボタン) は現在の画面を表示し直すだけにします。
func (h *PageHandler) act(w http.ResponseWriter, r *http.Request, logger *slog.Logger, fn func(*screen.Controller) error) {
	controller, err := session.GetController(r.Context())
	if err != nil {
		h.fail(w, logger, err)
		return
	}

	if err := fn(controller); err != nil {
		if !errors.Is(err, model.ErrInvalidTransition) && !errors.Is(err, model.ErrNoSelection) {
			h.fail(w, logger, err)
			return
		}
		logger.Info("Action ignored on current screen", slog.String("status", string(controller.Status())), slog.Any("error", err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) fail(w http.ResponseWriter, logger *slog.Logger, err error) {
	code := webutil.MapErrorToStatusCode(err)
	detail := webutil.ErrorDetailFor(err)
	if code >= http.StatusInternalServerError {
		logger.Error("Page request failed", slog.Any("error", err))
	} else {
		logger.Warn("Page request rejected", slog.Int("status", code), slog.Any("error", err))
	}
	http.Error(w, detail.Message, code)
}

// formOption はフォームの option を読み取ります。ok は値が送られたかどうかです。
func formOption(r *http.Request) (int, bool, error) {
	if err := r.ParseForm(); err != nil {
		return 0, false, model.NewAppError("INVALID_FORM", "The form could not be read.", "", model.ErrInvalidInput)
	}
	raw := r.PostForm.Get("option")
	if raw == "" {
		return 0, false, nil
	}
	option, err := strconv.Atoi(raw)
	if err != nil || option < 0 {
		return 0, false, model.NewAppError("VALIDATION_ERROR", "option must be a non-negative integer", "option", model.ErrInvalidInput)
	}
	return option, true, nil
}
