// internal/service/prompt.go
package service

import (
	"fmt"
	"math/rand"
	"strings"

	"word_wizard/internal/config"

	"github.com/google/uuid"
)

// Prompt はチャット補完APIへ送る指示文と、その組み立てに使った値です。
type Prompt struct {
	Text  string
	Count int
	Topic string
	Seed  string
}

// PromptBuilder は出題数・テーマをランダムに選んで指示文を作ります。
type PromptBuilder struct {
	cfg  config.QuizConfig
	intN func(n int) int
	seed func() string
}

// NewPromptBuilder は設定からビルダーを作ります。乱数は math/rand のグローバル関数を使います。
func NewPromptBuilder(cfg config.QuizConfig) *PromptBuilder {
	return &PromptBuilder{
		cfg:  cfg,
		intN: rand.Intn,
		seed: randomSeed,
	}
}

// WithRandom はテスト用に乱数源とシード生成を差し替えます。
func (b *PromptBuilder) WithRandom(intN func(n int) int, seed func() string) *PromptBuilder {
	clone := *b
	if intN != nil {
		clone.intN = intN
	}
	if seed != nil {
		clone.seed = seed
	}
	return &clone
}

// Build は毎回異なる出題数・テーマ・シードで指示文を作ります。
func (b *PromptBuilder) Build() Prompt {
	count := b.cfg.MinQuestions
	if span := b.cfg.MaxQuestions - b.cfg.MinQuestions; span > 0 {
		count += b.intN(span + 1)
	}
	topic := "everyday life"
	if len(b.cfg.Topics) > 0 {
		topic = b.cfg.Topics[b.intN(len(b.cfg.Topics))]
	}
	seed := b.seed()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate %d %s English vocabulary quiz questions about %s. ", count, b.cfg.Level, topic)
	fmt.Fprintf(&sb, "The target audience is %s. ", b.cfg.Audience)
	sb.WriteString("Each question presents an English word, and the user must choose the correct Chinese meaning from 4 options (one correct, three distractors). ")
	sb.WriteString("Include a simple example sentence using the word. Make sure the questions are appropriate for the level and not too difficult. ")
	sb.WriteString("Return only the result as a JSON array with the following structure for each question: ")
	sb.WriteString(`{"word": string, "pronunciation": string (optional), "options": string[], "correctAnswerIndex": number, "exampleSentence": string}`)
	fmt.Fprintf(&sb, "\n\nRandom seed: %s", seed)

	return Prompt{
		Text:  sb.String(),
		Count: count,
		Topic: topic,
		Seed:  seed,
	}
}

func randomSeed() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}
