// Package session はブラウザセッションごとの画面コントローラーをメモリ上で管理します。
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"word_wizard/internal/model"
	"word_wizard/internal/screen"

	"github.com/google/uuid"
)

type entry struct {
	controller *screen.Controller
	lastSeen   time.Time
}

// Store はセッションID (UUID) からコントローラーへの対応表です。永続化はしません。
type Store struct {
	mu            sync.Mutex
	sessions      map[uuid.UUID]*entry
	newController func() *screen.Controller
	idleTTL       time.Duration
	now           func() time.Time
	logger        *slog.Logger
}

func NewStore(newController func() *screen.Controller, idleTTL time.Duration, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sessions:      make(map[uuid.UUID]*entry),
		newController: newController,
		idleTTL:       idleTTL,
		now:           time.Now,
		logger:        logger.With(slog.String("component", "SessionStore")),
	}
}

// Lookup は id のコントローラーを返し、最終アクセス時刻を更新します。
// id が不正または未知なら false を返し、セッションは作りません。
func (s *Store) Lookup(id string) (uuid.UUID, *screen.Controller, bool) {
	sid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sid]
	if !ok {
		return uuid.Nil, nil, false
	}
	e.lastSeen = s.now()
	return sid, e.controller, true
}

// Create は新しいセッションを登録します。
func (s *Store) Create() (uuid.UUID, *screen.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sid := uuid.New()
	e := &entry{controller: s.newController(), lastSeen: s.now()}
	s.sessions[sid] = e
	s.logger.Debug("Session created", slog.String("session_id", sid.String()))
	return sid, e.controller
}

// Detached は登録しないコントローラーを返します。セッションを持たないリクエスト用で、常に開始画面です。
func (s *Store) Detached() *screen.Controller {
	return s.newController()
}

// Get は既存セッションのコントローラーを返します。最終アクセス時刻は更新しません。
func (s *Store) Get(id uuid.UUID) (*screen.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return e.controller, true
}

// Sweep はアイドル時間が idleTTL を超えたセッションを削除し、削除件数を返します。
// 読み込み中のセッションは残します。
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) <= s.idleTTL {
			continue
		}
		if e.controller.Status() == model.StatusLoading {
			continue
		}
		delete(s.sessions, id)
		removed++
	}
	if removed > 0 {
		s.logger.Info("Expired sessions removed", slog.Int("removed", removed), slog.Int("remaining", len(s.sessions)))
	}
	return removed
}

// Run は ctx がキャンセルされるまで interval ごとに Sweep を実行します。
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Session sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
