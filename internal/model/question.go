// internal/model/question.go
package model

// QuizQuestion は1問分の語彙クイズです。生成後は変更しません。
type QuizQuestion struct {
	Word               string   `json:"word"`
	Pronunciation      string   `json:"pronunciation,omitempty"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	ExampleSentence    string   `json:"exampleSentence"`
}

// HasValidAnswer は CorrectAnswerIndex が Options の範囲内かどうかを返します。
// 範囲外の場合、どの選択肢も正解として表示しません。
func (q QuizQuestion) HasValidAnswer() bool {
	return q.CorrectAnswerIndex >= 0 && q.CorrectAnswerIndex < len(q.Options)
}

// IsCorrect は回答インデックスが正解かどうかを返します。
func (q QuizQuestion) IsCorrect(answer int) bool {
	return q.HasValidAnswer() && answer == q.CorrectAnswerIndex
}
