// Package normalizer はチャット補完APIの生の返答をクイズ問題のリストに変換します。
// モデル出力の揺れを吸収するのはこのパッケージだけで、他のコンポーネントは結果をそのまま信頼します。
package normalizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"word_wizard/internal/model"

	"github.com/samber/lo"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const fence = "```"

// questionListSchema は最低限の形だけを検査します。
// correctAnswerIndex の範囲チェックは行いません (表示側で扱う)。
const questionListSchema = `{
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["word", "options", "correctAnswerIndex", "exampleSentence"],
    "properties": {
      "word": {"type": "string", "minLength": 1},
      "pronunciation": {"type": ["string", "null"]},
      "options": {
        "type": "array",
        "minItems": 2,
        "items": {"type": "string"}
      },
      "correctAnswerIndex": {"type": "integer"},
      "exampleSentence": {"type": "string"}
    }
  }
}`

var questionSchema = jsonschema.MustCompileString("quiz_questions.json", questionListSchema)

// wireQuestion はスキーマを通過した値をそのまま受け取るための型です。
// スキーマの integer は 1.0 も許すため、インデックスは json.Number で受けます。
type wireQuestion struct {
	Word               string      `json:"word"`
	Pronunciation      *string     `json:"pronunciation"`
	Options            []string    `json:"options"`
	CorrectAnswerIndex json.Number `json:"correctAnswerIndex"`
	ExampleSentence    string      `json:"exampleSentence"`
}

func (w wireQuestion) toModel() (model.QuizQuestion, error) {
	index, err := integralIndex(w.CorrectAnswerIndex)
	if err != nil {
		return model.QuizQuestion{}, err
	}
	return model.QuizQuestion{
		Word:               w.Word,
		Pronunciation:      lo.FromPtr(w.Pronunciation),
		Options:            w.Options,
		CorrectAnswerIndex: index,
		ExampleSentence:    w.ExampleSentence,
	}, nil
}

// integralIndex は 1 や 1.0 のような整数値の数値を int に変換します。
func integralIndex(n json.Number) (int, error) {
	if i, err := n.Int64(); err == nil {
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("correctAnswerIndex %q: %w", n, err)
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("correctAnswerIndex %q is not an integer", n)
	}
	return int(f), nil
}

// MalformedResponseError は返答から使えるJSON配列を得られなかったことを表します。
// Raw は診断用でログにのみ出力し、ユーザーには表示しません。
type MalformedResponseError struct {
	Raw    string
	Reason error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %v", e.Reason)
}

// Unwrap により errors.Is(err, model.ErrMalformedResponse) と原因の両方が判定できます。
func (e *MalformedResponseError) Unwrap() []error {
	return []error{model.ErrMalformedResponse, e.Reason}
}

// Normalize は返答テキストから問題リストを取り出します。
func Normalize(raw string) ([]model.QuizQuestion, error) {
	text := StripFence(raw)

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, malformed(raw, fmt.Errorf("parse json: %w", err))
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, malformed(raw, errors.New("unexpected data after json value"))
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, malformed(raw, fmt.Errorf("expected json array, got %T", doc))
	}
	if len(items) == 0 {
		return nil, malformed(raw, fmt.Errorf("%w: empty question list", model.ErrInvariantViolation))
	}
	if err := questionSchema.Validate(doc); err != nil {
		return nil, malformed(raw, fmt.Errorf("validate question list: %w", err))
	}

	var wire []wireQuestion
	if err := json.NewDecoder(bytes.NewReader([]byte(text))).Decode(&wire); err != nil {
		return nil, malformed(raw, fmt.Errorf("decode question list: %w", err))
	}
	questions := make([]model.QuizQuestion, 0, len(wire))
	for i, w := range wire {
		q, err := w.toModel()
		if err != nil {
			return nil, malformed(raw, fmt.Errorf("question %d: %w", i, err))
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// StripFence はコードフェンス (```json ... ```) があれば中身だけを返します。
// フェンスとみなすのはテキストか行の先頭にある ``` だけで、JSON文字列中の ``` は無視します。
// フェンスがなければ入力をそのまま返します。
func StripFence(raw string) string {
	start := lineStartFence(raw)
	if start == -1 {
		return raw
	}
	body := raw[start+len(fence):]
	if nl := strings.IndexByte(body, '\n'); nl != -1 && isLanguageTag(body[:nl]) {
		body = body[nl+1:]
	}
	if end := lineStartFence(body); end != -1 {
		body = body[:end]
	} else if end := strings.LastIndex(body, fence); end != -1 {
		// 閉じフェンスが行末に付いている (```[...]```)
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// lineStartFence はテキストまたは行の先頭 (前置の空白は許容) にある最初の ``` の位置を返します。
func lineStartFence(s string) int {
	for offset := 0; offset < len(s); {
		line := s[offset:]
		if nl := strings.IndexByte(line, '\n'); nl != -1 {
			line = line[:nl+1]
		}
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, fence) {
			return offset + len(line) - len(trimmed)
		}
		offset += len(line)
	}
	return -1
}

// isLanguageTag はフェンス直後の行が言語タグ (空行を含む) かどうかを判定します。
func isLanguageTag(line string) bool {
	line = strings.TrimSpace(line)
	return !strings.ContainsAny(line, "[{\" \t")
}

func malformed(raw string, reason error) error {
	return &MalformedResponseError{Raw: raw, Reason: reason}
}
