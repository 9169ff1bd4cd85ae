// helpers_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"word_wizard/internal/config"
	"word_wizard/internal/handlers"
	"word_wizard/internal/model"
	"word_wizard/internal/screen"
	"word_wizard/internal/service"
	"word_wizard/internal/session"
	"word_wizard/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// httpRequestDetails はHTTPリクエストの送信に必要な情報をまとめます。
type httpRequestDetails struct {
	Method string
	Path   string
	Body   any
	Form   map[string]string
}

func testConfig() *config.Config {
	return &config.Config{
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Content-Type"},
		},
		LLM: config.LLMConfig{Timeout: 5 * time.Second},
		Session: config.SessionConfig{
			CookieName:    "word_wizard_session",
			IdleTTL:       time.Minute,
			SweepInterval: time.Minute,
		},
	}
}

// testApp はルーター全体を httptest.Server で起動し、Cookie を保持するクライアントで叩きます。
type testApp struct {
	server *httptest.Server
	client *http.Client
	store  *session.Store
}

func newTestApp(t *testing.T, source service.QuestionSource) *testApp {
	t.Helper()

	renderer, err := view.NewRenderer(time.Second)
	require.NoError(t, err)
	store := session.NewStore(func() *screen.Controller {
		return screen.NewController(source, testLogger)
	}, time.Minute, testLogger)

	server := httptest.NewServer(handlers.NewRouter(testConfig(), store, renderer, testLogger))
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := server.Client()
	client.Jar = jar
	// リダイレクトは自動で追わず、303 を検証する
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	return &testApp{server: server, client: client, store: store}
}

// sendRequest はHTTPリクエストを送信し、ステータスコードを検証してボディを返します。
func (a *testApp) sendRequest(t *testing.T, details httpRequestDetails, expectedCode int) *http.Response {
	t.Helper()

	var body io.Reader
	contentType := ""
	switch {
	case details.Form != nil:
		values := make([]string, 0, len(details.Form))
		for k, v := range details.Form {
			values = append(values, k+"="+v)
		}
		body = strings.NewReader(strings.Join(values, "&"))
		contentType = "application/x-www-form-urlencoded"
	case details.Body != nil:
		if s, ok := details.Body.(string); ok {
			body = strings.NewReader(s)
		} else {
			b, err := json.Marshal(details.Body)
			require.NoError(t, err, "Failed to marshal request body")
			body = bytes.NewReader(b)
		}
		contentType = "application/json"
	}

	req, err := http.NewRequest(details.Method, a.server.URL+details.Path, body)
	require.NoError(t, err, "Failed to create request")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := a.client.Do(req)
	require.NoError(t, err, "Failed to execute request")
	t.Cleanup(func() { resp.Body.Close() })

	assert.Equal(t, expectedCode, resp.StatusCode, "Status code mismatch for %s %s", details.Method, details.Path)
	return resp
}

func (a *testApp) sendJSON(t *testing.T, method, path string, body any, expectedCode int) model.ScreenView {
	t.Helper()
	resp := a.sendRequest(t, httpRequestDetails{Method: method, Path: path, Body: body}, expectedCode)

	var view model.ScreenView
	if expectedCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	}
	return view
}

func readErrorResponse(t *testing.T, resp *http.Response) model.ErrorDetail {
	t.Helper()
	var errResp model.APIErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp), "Failed to decode error response")
	return errResp.Error
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func catQuestion() model.QuizQuestion {
	return model.QuizQuestion{
		Word:               "cat",
		Options:            []string{"猫", "狗", "鸟", "鱼"},
		CorrectAnswerIndex: 0,
		ExampleSentence:    "The cat sleeps.",
	}
}
