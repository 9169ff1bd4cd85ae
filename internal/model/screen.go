// internal/model/screen.go
package model

// Status は現在表示中の画面です。
type Status string

const (
	StatusStart   Status = "start"
	StatusLoading Status = "loading"
	StatusQuiz    Status = "quiz"
	StatusResult  Status = "result"
	StatusError   Status = "error"
)

// ScreenView は画面描画・APIレスポンス用のスナップショットです。
// Status に対応するフィールドだけが設定されます。
type ScreenView struct {
	Status       Status        `json:"status"`
	Question     *QuestionView `json:"question,omitempty"`
	Result       *QuizResult   `json:"result,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// QuestionView は出題中の1問と進捗です。
type QuestionView struct {
	Index      int          `json:"index"`
	Total      int          `json:"total"`
	Question   QuizQuestion `json:"question"`
	Selected   *int         `json:"selected,omitempty"`
	IsLast     bool         `json:"is_last"`
	CanAdvance bool         `json:"can_advance"`
}

// Number は1始まりの問題番号を返します。
func (v QuestionView) Number() int {
	return v.Index + 1
}

// Progress は進捗率 (0-100) を返します。
func (v QuestionView) Progress() int {
	if v.Total == 0 {
		return 0
	}
	return (v.Index + 1) * 100 / v.Total
}

// SelectOptionRequest は選択肢選択リクエストのDTO
type SelectOptionRequest struct {
	Option *int `json:"option" validate:"required,min=0"`
}
