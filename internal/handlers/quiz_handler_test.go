// internal/handlers/quiz_handler_test.go
package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"word_wizard/internal/config"
	"word_wizard/internal/model"
	"word_wizard/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestQuizAPI_FullFlow(t *testing.T) {
	source := mocks.NewQuestionSource(t)
	source.On("GenerateQuestions", mock.Anything).
		Return([]model.QuizQuestion{catQuestion(), catQuestion()}, nil).Once()
	app := newTestApp(t, source)

	view := app.sendJSON(t, http.MethodGet, "/api/v1/quiz/", nil, http.StatusOK)
	assert.Equal(t, model.StatusStart, view.Status)
	assert.Equal(t, 0, app.store.Len())

	view = app.sendJSON(t, http.MethodPost, "/api/v1/quiz/start", nil, http.StatusOK)
	require.Equal(t, model.StatusQuiz, view.Status)
	require.NotNil(t, view.Question)
	assert.Equal(t, 2, view.Question.Total)
	assert.False(t, view.Question.CanAdvance)

	view = app.sendJSON(t, http.MethodPost, "/api/v1/quiz/select", map[string]int{"option": 0}, http.StatusOK)
	require.NotNil(t, view.Question.Selected)
	assert.Equal(t, 0, *view.Question.Selected)

	view = app.sendJSON(t, http.MethodPost, "/api/v1/quiz/advance", nil, http.StatusOK)
	assert.Equal(t, 1, view.Question.Index)
	assert.True(t, view.Question.IsLast)

	app.sendJSON(t, http.MethodPost, "/api/v1/quiz/select", map[string]int{"option": 3}, http.StatusOK)
	view = app.sendJSON(t, http.MethodPost, "/api/v1/quiz/advance", nil, http.StatusOK)
	require.Equal(t, model.StatusResult, view.Status)
	assert.Equal(t, 1, view.Result.Score)
	assert.Equal(t, 50, view.Result.Percentage)
	assert.Equal(t, model.TierGoodEffort, view.Result.Tier)

	view = app.sendJSON(t, http.MethodPost, "/api/v1/quiz/restart", nil, http.StatusOK)
	assert.Equal(t, model.ScreenView{Status: model.StatusStart}, view)
	assert.Equal(t, 1, app.store.Len())
}

func TestQuizAPI_LoadFailureShowsErrorScreen(t *testing.T) {
	source := mocks.NewQuestionSource(t)
	source.On("GenerateQuestions", mock.Anything).
		Return(nil, fmt.Errorf("%w: status 401", model.ErrTransportFailure)).Once()
	app := newTestApp(t, source)

	view := app.sendJSON(t, http.MethodPost, "/api/v1/quiz/start", nil, http.StatusOK)
	assert.Equal(t, model.StatusError, view.Status)
	assert.Equal(t, model.LoadFailureMessage, view.ErrorMessage)

	view = app.sendJSON(t, http.MethodPost, "/api/v1/quiz/restart", nil, http.StatusOK)
	assert.Equal(t, model.StatusStart, view.Status)
}

func TestQuizAPI_Errors(t *testing.T) {
	source := mocks.NewQuestionSource(t)
	source.On("GenerateQuestions", mock.Anything).
		Return([]model.QuizQuestion{catQuestion()}, nil).Maybe()

	tests := []struct {
		name         string
		started      bool
		method       string
		path         string
		body         any
		expectedCode int
		expectedErr  string
	}{
		{name: "advance before start", path: "/api/v1/quiz/advance", expectedCode: http.StatusConflict, expectedErr: "INVALID_TRANSITION"},
		{name: "select before start", path: "/api/v1/quiz/select", body: map[string]int{"option": 0}, expectedCode: http.StatusConflict, expectedErr: "INVALID_TRANSITION"},
		{name: "restart from start", path: "/api/v1/quiz/restart", expectedCode: http.StatusConflict, expectedErr: "INVALID_TRANSITION"},
		{name: "start twice", started: true, path: "/api/v1/quiz/start", expectedCode: http.StatusConflict, expectedErr: "INVALID_TRANSITION"},
		{name: "advance without selection", started: true, path: "/api/v1/quiz/advance", expectedCode: http.StatusConflict, expectedErr: "NO_SELECTION"},
		{name: "option out of range", started: true, path: "/api/v1/quiz/select", body: map[string]int{"option": 9}, expectedCode: http.StatusBadRequest, expectedErr: "INVALID_INPUT"},
		{name: "missing option", started: true, path: "/api/v1/quiz/select", body: map[string]any{}, expectedCode: http.StatusBadRequest, expectedErr: "VALIDATION_ERROR"},
		{name: "invalid json", started: true, path: "/api/v1/quiz/select", body: "{option", expectedCode: http.StatusBadRequest, expectedErr: "INVALID_JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, source)
			if tt.started {
				app.sendJSON(t, http.MethodPost, "/api/v1/quiz/start", nil, http.StatusOK)
			}

			resp := app.sendRequest(t, httpRequestDetails{Method: http.MethodPost, Path: tt.path, Body: tt.body}, tt.expectedCode)
			assert.Equal(t, tt.expectedErr, readErrorResponse(t, resp).Code)
			if !tt.started {
				assert.Equal(t, 0, app.store.Len(), "requests before start do not create sessions")
			}
		})
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, mocks.NewQuestionSource(t))
	resp := app.sendRequest(t, httpRequestDetails{Method: http.MethodGet, Path: "/health"}, http.StatusOK)
	assert.Equal(t, "OK", readBody(t, resp))
	assert.Equal(t, config.AppVersion, resp.Header.Get("X-App-Version"))
	assert.Equal(t, 0, app.store.Len(), "health check does not create sessions")
}
