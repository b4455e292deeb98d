// ABOUTME: Answering and scoring a generated QCM
// ABOUTME: Tracks one answer per question and grades only once every question is answered

package quiz

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/client"
)

// Bounds for the number of questions requested from the backend
const (
	MinQuestions = 1
	MaxQuestions = 20
)

var (
	// ErrEmptyQuiz is returned for a QCM without questions
	ErrEmptyQuiz = errors.New("le QCM ne contient aucune question")

	// ErrIncomplete is returned by Submit while questions are unanswered
	ErrIncomplete = errors.New("veuillez répondre à toutes les questions")

	// ErrSubmitted is returned when answering after submission
	ErrSubmitted = errors.New("les réponses ont déjà été soumises")
)

// ValidateCount checks a requested question count
func ValidateCount(n int) error {
	if n < MinQuestions || n > MaxQuestions {
		return fmt.Errorf("le nombre de questions doit être entre %d et %d", MinQuestions, MaxQuestions)
	}
	return nil
}

// ParseCount parses a question count, falling back to the default on garbage
func ParseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return client.DefaultQuestionCount
	}
	return n
}

// Session is one attempt at a QCM
type Session struct {
	qcm       *client.QCM
	answers   []string // choice id per question, "" when unanswered
	cursor    int
	submitted bool
}

// NewSession starts an attempt
func NewSession(qcm *client.QCM) (*Session, error) {
	if qcm == nil || len(qcm.Questions) == 0 {
		return nil, ErrEmptyQuiz
	}
	return &Session{qcm: qcm, answers: make([]string, len(qcm.Questions))}, nil
}

// Title is the source document's title
func (s *Session) Title() string { return s.qcm.PDFTitle }

// Len is the number of questions
func (s *Session) Len() int { return len(s.qcm.Questions) }

// Index is the position of the current question
func (s *Session) Index() int { return s.cursor }

// Current returns the question under the cursor
func (s *Session) Current() client.Question { return s.qcm.Questions[s.cursor] }

// Question returns question i
func (s *Session) Question(i int) client.Question { return s.qcm.Questions[i] }

// Next moves forward, reporting whether the cursor moved
func (s *Session) Next() bool {
	if s.cursor < len(s.answers)-1 {
		s.cursor++
		return true
	}
	return false
}

// Prev moves back, reporting whether the cursor moved
func (s *Session) Prev() bool {
	if s.cursor > 0 {
		s.cursor--
		return true
	}
	return false
}

// Goto places the cursor on question i
func (s *Session) Goto(i int) {
	if i >= 0 && i < len(s.answers) {
		s.cursor = i
	}
}

// Answer records choiceID for the current question
func (s *Session) Answer(choiceID string) error {
	return s.AnswerAt(s.cursor, choiceID)
}

// AnswerAt records choiceID for question i. Choice ids match case-insensitively.
func (s *Session) AnswerAt(i int, choiceID string) error {
	if s.submitted {
		return ErrSubmitted
	}
	if i < 0 || i >= len(s.answers) {
		return fmt.Errorf("question %d inexistante", i+1)
	}
	q := s.qcm.Questions[i]
	for _, c := range q.Choices {
		if strings.EqualFold(c.ID, strings.TrimSpace(choiceID)) {
			s.answers[i] = c.ID
			return nil
		}
	}
	return fmt.Errorf("choix %q invalide pour la question %d", choiceID, i+1)
}

// Answered returns the recorded choice for question i
func (s *Session) Answered(i int) (string, bool) {
	if i < 0 || i >= len(s.answers) || s.answers[i] == "" {
		return "", false
	}
	return s.answers[i], true
}

// AnsweredCount is the number of questions with an answer
func (s *Session) AnsweredCount() int {
	n := 0
	for _, a := range s.answers {
		if a != "" {
			n++
		}
	}
	return n
}

// Complete reports whether every question has an answer
func (s *Session) Complete() bool {
	return s.AnsweredCount() == len(s.answers)
}

// Submitted reports whether the attempt was graded
func (s *Session) Submitted() bool { return s.submitted }

// Submit grades the attempt; it requires every question to be answered
func (s *Session) Submit() (Result, error) {
	if !s.Complete() {
		return Result{}, ErrIncomplete
	}
	s.submitted = true
	return s.Result(), nil
}

// Item is the grading of one question
type Item struct {
	Question client.Question
	Chosen   string
	Correct  bool
}

// Result is a graded attempt
type Result struct {
	Title string
	Score int
	Total int
	Items []Item
}

// Percent is the rounded score percentage
func (r Result) Percent() int {
	if r.Total == 0 {
		return 0
	}
	return int(math.Round(float64(r.Score) * 100 / float64(r.Total)))
}

// Fraction is the score in [0, 1]
func (r Result) Fraction() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.Total)
}

// Result grades the current answers; unanswered questions count as wrong
func (s *Session) Result() Result {
	res := Result{Title: s.qcm.PDFTitle, Total: len(s.answers), Items: make([]Item, len(s.answers))}
	for i, q := range s.qcm.Questions {
		ok := s.answers[i] != "" && strings.EqualFold(s.answers[i], q.CorrectAnswerID)
		if ok {
			res.Score++
		}
		res.Items[i] = Item{Question: q, Chosen: s.answers[i], Correct: ok}
	}
	return res
}

// ChoiceText returns the text of choice id in q
func ChoiceText(q client.Question, id string) string {
	for _, c := range q.Choices {
		if strings.EqualFold(c.ID, id) {
			return c.Text
		}
	}
	return ""
}

// ParseAnswers splits "a,b, C" into choice ids
func ParseAnswers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.ToUpper(strings.TrimSpace(p)))
	}
	return out
}

// AnswerAll records answers in question order
func (s *Session) AnswerAll(answers []string) error {
	if len(answers) != len(s.answers) {
		return fmt.Errorf("%d réponses fournies pour %d questions", len(answers), len(s.answers))
	}
	for i, a := range answers {
		if err := s.AnswerAt(i, a); err != nil {
			return err
		}
	}
	return nil
}
