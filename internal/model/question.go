package model

// OptionKeys are the labels a question must offer, in display order.
var OptionKeys = []string{"A", "B", "C", "D"}

// Option is one labeled choice of a multiple-choice question.
type Option struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Question is a normalized pool question. Answer holds the correct option
// key and is kept out of client payloads.
type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"question"`
	Options []Option `json:"options"`
	Answer  string   `json:"-"`
}

// View returns the client-facing shape of the question.
func (q Question) View() QuestionView {
	return QuestionView{
		ID:      q.ID,
		Prompt:  q.Prompt,
		Options: q.Options,
	}
}

// QuestionView is the question payload handed to clients when a game
// starts: prompt and options only.
type QuestionView struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"question"`
	Options []Option `json:"options"`
}

// CatalogEntry is the raw on-disk shape of one catalog record.
type CatalogEntry struct {
	Question string `json:"question"`
	A        string `json:"A"`
	B        string `json:"B"`
	C        string `json:"C"`
	D        string `json:"D"`
	Answer   string `json:"answer"`
}
