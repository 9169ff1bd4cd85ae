package session

import (
	"context"
	"log/slog"
	"net/http"

	"word_wizard/internal/middleware"
	"word_wizard/internal/model"
	"word_wizard/internal/screen"

	"github.com/google/uuid"
)

type sessionCtxKey struct{}

// state はリクエストに紐づくセッションです。persisted が false ならストアに未登録です。
type state struct {
	id         uuid.UUID
	controller *screen.Controller
	persisted  bool
}

// CookieOptions はセッションCookieの属性です。
type CookieOptions struct {
	Name   string
	Secure bool
}

// Middleware はCookieのセッションIDからコントローラーを引き、コンテキストにセットします。
// Cookieがない、または未知のIDならストアに登録しないコントローラーをセットし、セッションは発行しません。
func Middleware(store *Store, opts CookieOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(opts.Name); err == nil {
				id = c.Value
			}

			ctx := r.Context()
			if sid, controller, ok := store.Lookup(id); ok {
				ctx = withState(ctx, &state{id: sid, controller: controller, persisted: true})
			} else {
				ctx = withState(ctx, &state{controller: store.Detached()})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Persist はセッションが未登録なら作成してCookieを発行します。クイズ開始のルートにだけ適用します。
// Middleware の後に置く必要があります。
func Persist(store *Store, opts CookieOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if st, ok := ctx.Value(sessionCtxKey{}).(*state); !ok || !st.persisted {
				sid, controller := store.Create()
				http.SetCookie(w, &http.Cookie{
					Name:     opts.Name,
					Value:    sid.String(),
					Path:     "/",
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
				ctx = withState(ctx, &state{id: sid, controller: controller, persisted: true})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func withState(ctx context.Context, st *state) context.Context {
	ctx = context.WithValue(ctx, sessionCtxKey{}, st)
	if st.persisted {
		logger := middleware.GetLogger(ctx).With(slog.String("session_id", st.id.String()))
		ctx = middleware.WithLogger(ctx, logger)
	}
	return ctx
}

// GetController はミドルウェアがセットしたコントローラーを取得します。
func GetController(ctx context.Context) (*screen.Controller, error) {
	st, ok := ctx.Value(sessionCtxKey{}).(*state)
	if !ok || st.controller == nil {
		// ミドルウェアが正しく動作していない等の内部エラー
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "Session is not available.", "", model.ErrInternalServer)
	}
	return st.controller, nil
}
