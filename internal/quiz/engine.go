// Package quiz は問題リストと回答列を保持し、1問ずつ前に進めるクイズエンジンです。
package quiz

import (
	"fmt"
	"slices"

	"word_wizard/internal/model"
)

// Phase はエンジンの進行状態です。
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInProgress
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseInProgress:
		return "in_progress"
	case PhaseComplete:
		return "complete"
	default:
		return "idle"
	}
}

// Engine は前進のみ・1パスのクイズ進行を管理します。
// ゼロ値は Idle (問題なし) です。並行利用は呼び出し側で排他してください。
type Engine struct {
	questions  []model.QuizQuestion
	answers    []int
	index      int
	pending    int
	hasPending bool
}

// NewEngine は問題リストを固定してエンジンを作成します。空のリストは受け付けません。
func NewEngine(questions []model.QuizQuestion) (*Engine, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: quiz needs at least one question", model.ErrInvariantViolation)
	}
	return &Engine{
		questions: slices.Clone(questions),
		answers:   make([]int, 0, len(questions)),
	}, nil
}

func (e *Engine) Phase() Phase {
	switch {
	case len(e.questions) == 0:
		return PhaseIdle
	case len(e.answers) == len(e.questions):
		return PhaseComplete
	default:
		return PhaseInProgress
	}
}

// Index は現在の問題のインデックス (0始まり) です。
func (e *Engine) Index() int { return e.index }

func (e *Engine) Total() int { return len(e.questions) }

// Current は出題中の問題を返します。InProgress 以外では false を返します。
func (e *Engine) Current() (model.QuizQuestion, bool) {
	if e.Phase() != PhaseInProgress {
		return model.QuizQuestion{}, false
	}
	return e.questions[e.index], true
}

// Pending は現在の問題で選択中の選択肢を返します。
func (e *Engine) Pending() (int, bool) {
	return e.pending, e.hasPending
}

// SelectOption は現在の問題の仮回答を設定します。再選択すると上書きされ、インデックスは進みません。
func (e *Engine) SelectOption(idx int) error {
	q, ok := e.Current()
	if !ok {
		return fmt.Errorf("%w: select option while %s", model.ErrInvalidTransition, e.Phase())
	}
	if idx < 0 || idx >= len(q.Options) {
		return fmt.Errorf("%w: option %d out of range [0,%d)", model.ErrInvalidInput, idx, len(q.Options))
	}
	e.pending = idx
	e.hasPending = true
	return nil
}

// Advance は仮回答を確定して次の問題へ進みます。
// 最後の問題だった場合は done=true と全回答を返します。
// 未選択のときは model.ErrNoSelection で拒否します。
func (e *Engine) Advance() (answers []int, done bool, err error) {
	if e.Phase() != PhaseInProgress {
		return nil, false, fmt.Errorf("%w: advance while %s", model.ErrInvalidTransition, e.Phase())
	}
	if !e.hasPending {
		return nil, false, fmt.Errorf("%w: question %d", model.ErrNoSelection, e.index+1)
	}

	e.answers = append(e.answers, e.pending)
	e.hasPending = false
	e.pending = 0

	if len(e.answers) == len(e.questions) {
		return e.Answers(), true, nil
	}
	e.index++
	return nil, false, nil
}

// Answers は確定済みの回答列のコピーを返します。
func (e *Engine) Answers() []int {
	return slices.Clone(e.answers)
}

// Questions は問題リストのコピーを返します。
func (e *Engine) Questions() []model.QuizQuestion {
	return slices.Clone(e.questions)
}
