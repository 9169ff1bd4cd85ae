package screen_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"word_wizard/internal/model"
	"word_wizard/internal/screen"
	"word_wizard/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func catQuestion() model.QuizQuestion {
	return model.QuizQuestion{
		Word:               "cat",
		Options:            []string{"猫", "狗", "鸟", "鱼"},
		CorrectAnswerIndex: 0,
		ExampleSentence:    "The cat sleeps.",
	}
}

func startedController(t *testing.T, questions []model.QuizQuestion) *screen.Controller {
	t.Helper()
	source := mocks.NewQuestionSource(t)
	source.On("GenerateQuestions", mock.Anything).Return(questions, nil).Once()

	c := screen.NewController(source, discardLogger)
	require.NoError(t, c.Start(context.Background()))
	require.Equal(t, model.StatusQuiz, c.Status())
	return c
}

func TestController_InitialState(t *testing.T) {
	c := screen.NewController(mocks.NewQuestionSource(t), discardLogger)

	assert.Equal(t, model.StatusStart, c.Status())
	assert.Equal(t, model.ScreenView{Status: model.StatusStart}, c.View())
	assert.IsType(t, screen.StartScreen{}, c.Current())
}

func TestController_CatCorrect(t *testing.T) {
	c := startedController(t, []model.QuizQuestion{catQuestion()})

	view := c.View()
	require.NotNil(t, view.Question)
	assert.Equal(t, 1, view.Question.Number())
	assert.True(t, view.Question.IsLast)
	assert.False(t, view.Question.CanAdvance)
	assert.Nil(t, view.Question.Selected)

	require.NoError(t, c.SelectOption(0))
	view = c.View()
	require.NotNil(t, view.Question.Selected)
	assert.Equal(t, 0, *view.Question.Selected)
	assert.True(t, view.Question.CanAdvance)

	require.NoError(t, c.Advance())
	view = c.View()
	require.Equal(t, model.StatusResult, view.Status)
	require.NotNil(t, view.Result)
	assert.Equal(t, 1, view.Result.Score)
	assert.Equal(t, 100, view.Result.Percentage)
	assert.Equal(t, model.TierPerfect, view.Result.Tier)
	require.Len(t, view.Result.Review, 1)
	opt := view.Result.Review[0].Options[0]
	assert.True(t, opt.Chosen)
	assert.True(t, opt.Correct)
}

func TestController_CatWrong(t *testing.T) {
	c := startedController(t, []model.QuizQuestion{catQuestion()})

	require.NoError(t, c.SelectOption(1))
	require.NoError(t, c.Advance())

	view := c.View()
	require.Equal(t, model.StatusResult, view.Status)
	assert.Equal(t, 0, view.Result.Score)
	assert.Equal(t, 0, view.Result.Percentage)
	assert.Equal(t, model.TierGoodEffort, view.Result.Tier)

	opts := view.Result.Review[0].Options
	assert.True(t, opts[0].Correct)
	assert.False(t, opts[0].Chosen)
	assert.True(t, opts[1].Wrong())
}

func TestController_AdvanceWithoutSelection(t *testing.T) {
	c := startedController(t, []model.QuizQuestion{catQuestion(), catQuestion()})

	err := c.Advance()
	assert.ErrorIs(t, err, model.ErrNoSelection)
	assert.Equal(t, model.StatusQuiz, c.Status())
	assert.Equal(t, 0, c.View().Question.Index)
}

func TestController_SelectOutOfRange(t *testing.T) {
	c := startedController(t, []model.QuizQuestion{catQuestion()})

	assert.ErrorIs(t, c.SelectOption(4), model.ErrInvalidInput)
	assert.ErrorIs(t, c.SelectOption(-1), model.ErrInvalidInput)
	assert.Nil(t, c.View().Question.Selected)
}

func TestController_LoadFailures(t *testing.T) {
	tests := []struct {
		name      string
		questions []model.QuizQuestion
		err       error
	}{
		{name: "transport", err: fmt.Errorf("%w: dial tcp: refused", model.ErrTransportFailure)},
		{name: "malformed", err: fmt.Errorf("%w: not an array", model.ErrMalformedResponse)},
		{name: "empty list without error", questions: []model.QuizQuestion{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := mocks.NewQuestionSource(t)
			source.On("GenerateQuestions", mock.Anything).Return(tt.questions, tt.err).Once()

			c := screen.NewController(source, discardLogger)
			require.NoError(t, c.Start(context.Background()))

			view := c.View()
			assert.Equal(t, model.StatusError, view.Status)
			assert.Equal(t, model.LoadFailureMessage, view.ErrorMessage)
			assert.Nil(t, view.Question)
		})
	}
}

func TestController_InvalidTransitions(t *testing.T) {
	c := screen.NewController(mocks.NewQuestionSource(t), discardLogger)

	assert.ErrorIs(t, c.SelectOption(0), model.ErrInvalidTransition)
	assert.ErrorIs(t, c.Advance(), model.ErrInvalidTransition)
	assert.ErrorIs(t, c.Restart(), model.ErrInvalidTransition)

	q := startedController(t, []model.QuizQuestion{catQuestion()})
	assert.ErrorIs(t, q.Start(context.Background()), model.ErrInvalidTransition)
	assert.ErrorIs(t, q.Restart(), model.ErrInvalidTransition)
}

func TestController_RestartReturnsToInitialState(t *testing.T) {
	initial := screen.NewController(mocks.NewQuestionSource(t), discardLogger).View()

	t.Run("from result", func(t *testing.T) {
		c := startedController(t, []model.QuizQuestion{catQuestion()})
		require.NoError(t, c.SelectOption(0))
		require.NoError(t, c.Advance())
		require.Equal(t, model.StatusResult, c.Status())

		require.NoError(t, c.Restart())
		assert.Equal(t, initial, c.View())
		assert.ErrorIs(t, c.Advance(), model.ErrInvalidTransition)
	})

	t.Run("from error", func(t *testing.T) {
		source := mocks.NewQuestionSource(t)
		source.On("GenerateQuestions", mock.Anything).Return(nil, model.ErrTransportFailure).Once()
		source.On("GenerateQuestions", mock.Anything).Return([]model.QuizQuestion{catQuestion()}, nil).Once()

		c := screen.NewController(source, discardLogger)
		require.NoError(t, c.Start(context.Background()))
		require.Equal(t, model.StatusError, c.Status())

		require.NoError(t, c.Restart())
		assert.Equal(t, initial, c.View())

		require.NoError(t, c.Start(context.Background()))
		assert.Equal(t, model.StatusQuiz, c.Status())
	})
}

// blockingSource は release が閉じられるまで応答を返しません。
type blockingSource struct {
	entered chan struct{}
	release chan struct{}
	ctxErr  chan error
}

func (s *blockingSource) GenerateQuestions(ctx context.Context) ([]model.QuizQuestion, error) {
	close(s.entered)
	<-s.release
	s.ctxErr <- ctx.Err()
	return []model.QuizQuestion{catQuestion()}, nil
}

func TestController_ConcurrentStartWhileLoading(t *testing.T) {
	source := &blockingSource{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		ctxErr:  make(chan error, 1),
	}
	c := screen.NewController(source, discardLogger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	select {
	case <-source.entered:
	case <-time.After(time.Second):
		t.Fatal("question source was not called")
	}

	// 読み込み中はロックを保持していないので View は即座に返る
	assert.Equal(t, model.StatusLoading, c.View().Status)
	assert.ErrorIs(t, c.Start(context.Background()), model.ErrInvalidTransition)
	assert.ErrorIs(t, c.Restart(), model.ErrInvalidTransition)

	// 呼び出し元のキャンセルは発行済みリクエストに伝わらない
	cancel()
	close(source.release)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("start did not return")
	}
	assert.NoError(t, <-source.ctxErr)
	assert.Equal(t, model.StatusQuiz, c.Status())
}

func TestController_FullPass(t *testing.T) {
	questions := make([]model.QuizQuestion, 5)
	for i := range questions {
		questions[i] = catQuestion()
		questions[i].CorrectAnswerIndex = i % 4
	}
	c := startedController(t, questions)

	for i := range questions {
		view := c.View()
		require.Equal(t, model.StatusQuiz, view.Status)
		assert.Equal(t, i, view.Question.Index)
		assert.Equal(t, i == len(questions)-1, view.Question.IsLast)

		require.NoError(t, c.SelectOption(0))
		require.NoError(t, c.Advance())
	}

	view := c.View()
	require.Equal(t, model.StatusResult, view.Status)
	assert.Len(t, view.Result.Review, len(questions))
	assert.Equal(t, 2, view.Result.Score) // i=0 と i=4
	assert.Equal(t, 40, view.Result.Percentage)
	assert.False(t, errors.Is(c.Restart(), model.ErrInvalidTransition))
}

func TestController_StartAsync(t *testing.T) {
	source := &blockingSource{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		ctxErr:  make(chan error, 1),
	}
	c := screen.NewController(source, discardLogger)

	ctx, cancel := context.WithCancel(context.Background())
	done, err := c.StartAsync(ctx)
	require.NoError(t, err)
	// リクエスト終了相当
	cancel()

	assert.Equal(t, model.StatusLoading, c.Status())
	_, err = c.StartAsync(context.Background())
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	<-source.entered
	close(source.release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("background load did not finish")
	}
	assert.NoError(t, <-source.ctxErr)
	assert.Equal(t, model.StatusQuiz, c.Status())
}
