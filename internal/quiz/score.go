// internal/quiz/score.go
package quiz

import (
	"math"

	"word_wizard/internal/model"

	"github.com/samber/lo"
)

// Score は正解数を数えます。回答がない問題は不正解扱いです。
func Score(questions []model.QuizQuestion, answers []int) int {
	return lo.Reduce(answers, func(acc int, answer int, i int) int {
		if i < len(questions) && questions[i].IsCorrect(answer) {
			return acc + 1
		}
		return acc
	}, 0)
}

// Percentage は round(100 * score / total) を返します。
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}

// TierFor は得点率から評価ランクを決めます。得点率が高いほどランクが下がることはありません。
func TierFor(percentage int) model.FeedbackTier {
	switch {
	case percentage >= 100:
		return model.TierPerfect
	case percentage >= 80:
		return model.TierExcellent
	case percentage >= 60:
		return model.TierWellDone
	default:
		return model.TierGoodEffort
	}
}

// BuildResult は結果画面に入る時点で採点と答え合わせを作ります。
func BuildResult(questions []model.QuizQuestion, answers []int) model.QuizResult {
	score := Score(questions, answers)
	pct := Percentage(score, len(questions))
	tier := TierFor(pct)

	review := lo.Map(questions, func(q model.QuizQuestion, i int) model.ReviewItem {
		answer := -1
		if i < len(answers) {
			answer = answers[i]
		}
		return model.ReviewItem{
			Question:        q,
			UserAnswerIndex: answer,
			IsCorrect:       q.IsCorrect(answer),
			Options: lo.Map(q.Options, func(text string, optIdx int) model.ReviewOption {
				return model.ReviewOption{
					Text:    text,
					Chosen:  optIdx == answer,
					Correct: q.HasValidAnswer() && optIdx == q.CorrectAnswerIndex,
				}
			}),
		}
	})

	return model.QuizResult{
		Score:      score,
		Total:      len(questions),
		Percentage: pct,
		Tier:       tier,
		Feedback:   tier.Label(),
		Review:     review,
	}
}
