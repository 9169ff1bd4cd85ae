// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "Word Wizard"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort = ":8080"
	DefaultLogLevel   = "info"

	DefaultLLMBaseURL     = "https://open.bigmodel.cn/api/paas/v4"
	DefaultLLMModel       = "glm-4"
	DefaultLLMTemperature = 0.9
	DefaultLLMTimeout     = 60 * time.Second

	DefaultMinQuestions = 8
	DefaultMaxQuestions = 11
	DefaultQuizLevel    = "high school entrance exam (zhongkao) level"
	DefaultQuizAudience = "Chinese middle school students preparing for high school entrance exams"

	DefaultSessionCookieName    = "word_wizard_session"
	DefaultSessionIdleTTL       = 30 * time.Minute
	DefaultSessionSweepInterval = time.Minute
)

// DefaultTopics は出題テーマの候補です。
var DefaultTopics = []string{
	"animals", "food", "colors", "numbers", "family",
	"school", "nature", "sports", "daily life", "weather",
}

// APIキーとして読み込む環境変数 (先頭が優先)
var apiKeyEnvVars = []string{"LLM_API_KEY", "ZHIPUAI_API_KEY", "VITE_ZHIPUAI_API_KEY"}
