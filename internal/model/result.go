// internal/model/result.go
package model

import "fmt"

// FeedbackTier は得点率に応じた評価ランクです。値が大きいほど上位です。
type FeedbackTier int

const (
	TierGoodEffort FeedbackTier = iota
	TierWellDone
	TierExcellent
	TierPerfect
)

var tierLabels = map[FeedbackTier]string{
	TierGoodEffort: "Good Effort!",
	TierWellDone:   "Well Done! 👍",
	TierExcellent:  "Excellent! 🎉",
	TierPerfect:    "Perfect Score! 🌟",
}

func (t FeedbackTier) Label() string {
	if label, ok := tierLabels[t]; ok {
		return label
	}
	return tierLabels[TierGoodEffort]
}

func (t FeedbackTier) String() string {
	switch t {
	case TierPerfect:
		return "perfect"
	case TierExcellent:
		return "excellent"
	case TierWellDone:
		return "well_done"
	default:
		return "good_effort"
	}
}

func (t FeedbackTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *FeedbackTier) UnmarshalText(text []byte) error {
	for tier := TierGoodEffort; tier <= TierPerfect; tier++ {
		if tier.String() == string(text) {
			*t = tier
			return nil
		}
	}
	return fmt.Errorf("unknown feedback tier %q", text)
}

// QuizResult は結果画面に表示する採点結果です。
type QuizResult struct {
	Score      int          `json:"score"`
	Total      int          `json:"total"`
	Percentage int          `json:"percentage"`
	Tier       FeedbackTier `json:"tier"`
	Feedback   string       `json:"feedback"`
	Review     []ReviewItem `json:"review"`
}

// ReviewItem は1問分の答え合わせです。
type ReviewItem struct {
	Question        QuizQuestion   `json:"question"`
	UserAnswerIndex int            `json:"user_answer_index"`
	IsCorrect       bool           `json:"is_correct"`
	Options         []ReviewOption `json:"options"`
}

// ReviewOption は答え合わせ中の選択肢1つ分です。
type ReviewOption struct {
	Text    string `json:"text"`
	Chosen  bool   `json:"chosen"`
	Correct bool   `json:"correct"`
}

// Wrong は選んだが不正解だった選択肢かどうかを返します。
func (o ReviewOption) Wrong() bool {
	return o.Chosen && !o.Correct
}
