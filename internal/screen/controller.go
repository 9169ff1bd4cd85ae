// Package screen は start → loading → quiz/error → result → start の画面遷移を管理します。
package screen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"word_wizard/internal/middleware"
	"word_wizard/internal/model"
	"word_wizard/internal/quiz"
	"word_wizard/internal/service"
)

// Screen は画面状態の直和型です。実装はこのパッケージ内の5種類だけです。
type Screen interface {
	Status() model.Status
	isScreen()
}

type StartScreen struct{}

type LoadingScreen struct{}

// QuizScreen は出題中の画面です。engine は必ず1問以上を持ちます。
type QuizScreen struct {
	engine *quiz.Engine
}

type ResultScreen struct {
	Result model.QuizResult
}

// ErrorScreen はユーザー向けメッセージだけを持ちます。内部の診断情報は含めません。
type ErrorScreen struct {
	Message string
}

func (StartScreen) Status() model.Status   { return model.StatusStart }
func (LoadingScreen) Status() model.Status { return model.StatusLoading }
func (QuizScreen) Status() model.Status    { return model.StatusQuiz }
func (ResultScreen) Status() model.Status  { return model.StatusResult }
func (ErrorScreen) Status() model.Status   { return model.StatusError }

func (StartScreen) isScreen()   {}
func (LoadingScreen) isScreen() {}
func (QuizScreen) isScreen()    {}
func (ResultScreen) isScreen()  {}
func (ErrorScreen) isScreen()   {}

// Controller は1ブラウザセッション分の画面状態を保持します。
// mu は外部APIの呼び出し中には保持しません。
type Controller struct {
	mu      sync.Mutex
	source  service.QuestionSource
	current Screen
	logger  *slog.Logger
}

func NewController(source service.QuestionSource, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		source:  source,
		current: StartScreen{},
		logger:  logger,
	}
}

// Start は start → loading に遷移し、問題を取得して quiz か error に遷移するまで待ちます。
// 取得の失敗は error 画面になるため、戻り値のエラーは不正な遷移のときだけです。
func (c *Controller) Start(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	c.load(ctx)
	return nil
}

// StartAsync は loading への遷移だけを同期で行い、取得はバックグラウンドで実行します。
// done は quiz か error に遷移した時点で閉じられます。
func (c *Controller) StartAsync(ctx context.Context) (<-chan struct{}, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.load(ctx)
	}()
	return done, nil
}

func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.current.(StartScreen); !ok {
		return fmt.Errorf("%w: cannot start from %s", model.ErrInvalidTransition, c.current.Status())
	}
	c.current = LoadingScreen{}
	return nil
}

func (c *Controller) load(ctx context.Context) {
	logger := middleware.LoggerFrom(ctx, c.logger).With(slog.String("component", "ScreenController"))

	// ユーザー側から発行済みリクエストは取り消せない
	questions, err := c.source.GenerateQuestions(context.WithoutCancel(ctx))

	var next Screen
	if err == nil {
		var engine *quiz.Engine
		engine, err = quiz.NewEngine(questions)
		if err == nil {
			next = QuizScreen{engine: engine}
		}
	}
	if err != nil {
		logger.Error("Failed to load questions",
			slog.Any("error", err),
			slog.Bool("transport", errors.Is(err, model.ErrTransportFailure)),
			slog.Bool("malformed", errors.Is(err, model.ErrMalformedResponse)),
		)
		next = ErrorScreen{Message: model.LoadFailureMessage}
	} else {
		logger.Info("Quiz started", slog.Int("questions", len(questions)))
	}

	c.mu.Lock()
	c.current = next
	c.mu.Unlock()
}

// SelectOption は現在の問題の選択肢を選びます。選び直しは上書きです。
func (c *Controller) SelectOption(idx int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	qs, ok := c.current.(QuizScreen)
	if !ok {
		return fmt.Errorf("%w: no question on %s screen", model.ErrInvalidTransition, c.current.Status())
	}
	return qs.engine.SelectOption(idx)
}

// Advance は選択中の回答を確定して次の問題へ進みます。最後の問題なら result に遷移します。
func (c *Controller) Advance() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	qs, ok := c.current.(QuizScreen)
	if !ok {
		return fmt.Errorf("%w: cannot advance on %s screen", model.ErrInvalidTransition, c.current.Status())
	}
	answers, done, err := qs.engine.Advance()
	if err != nil {
		return err
	}
	if done {
		result := quiz.BuildResult(qs.engine.Questions(), answers)
		c.current = ResultScreen{Result: result}
		c.logger.Info("Quiz completed",
			slog.Int("score", result.Score),
			slog.Int("total", result.Total),
			slog.String("tier", result.Tier.String()),
		)
	}
	return nil
}

// Restart は result または error から start に戻り、セッションの状態を破棄します。
func (c *Controller) Restart() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.current.(type) {
	case ResultScreen, ErrorScreen:
		c.current = StartScreen{}
		return nil
	default:
		return fmt.Errorf("%w: cannot restart from %s", model.ErrInvalidTransition, c.current.Status())
	}
}

// Current は現在の画面状態を返します。
func (c *Controller) Current() Screen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Controller) Status() model.Status {
	return c.Current().Status()
}

// View は描画用のスナップショットを返します。
func (c *Controller) View() model.ScreenView {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := model.ScreenView{Status: c.current.Status()}
	switch s := c.current.(type) {
	case QuizScreen:
		q, _ := s.engine.Current()
		qv := &model.QuestionView{
			Index:    s.engine.Index(),
			Total:    s.engine.Total(),
			Question: q,
			IsLast:   s.engine.Index() == s.engine.Total()-1,
		}
		if pending, ok := s.engine.Pending(); ok {
			qv.Selected = &pending
			qv.CanAdvance = true
		}
		view.Question = qv
	case ResultScreen:
		result := s.Result
		view.Result = &result
	case ErrorScreen:
		view.ErrorMessage = s.Message
	}
	return view
}
