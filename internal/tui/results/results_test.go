// ABOUTME: Tests for results view component
// ABOUTME: Validates score display, corrections and attempt trend

package results

import (
	"strings"
	"testing"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/client"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/quiz"
)

func sampleResult() *quiz.Result {
	choices := []client.Choice{{ID: "A", Text: "Paris"}, {ID: "B", Text: "Lyon"}}
	return &quiz.Result{
		Title: "Géographie",
		Score: 1,
		Total: 2,
		Items: []quiz.Item{
			{
				Question: client.Question{ID: 1, Text: "Capitale ?", Choices: choices, CorrectAnswerID: "A"},
				Chosen:   "A",
				Correct:  true,
			},
			{
				Question: client.Question{ID: 2, Text: "Ville des Gones ?", Choices: choices, CorrectAnswerID: "B", Explanation: "Lyon est surnommée la ville des Gones."},
				Chosen:   "A",
				Correct:  false,
			},
		},
	}
}

func TestResultsView(t *testing.T) {
	view := New(sampleResult(), nil, 80).View()

	for _, want := range []string{"Géographie", "1/2", "50%", "À revoir", "Correction", "Bonne réponse : B. Lyon", "ville des Gones."} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
	if strings.Contains(view, "Tentatives") {
		t.Error("expected no trend for a single attempt")
	}
}

func TestResultsViewNilResult(t *testing.T) {
	view := New(nil, nil, 80).View()

	if !strings.Contains(view, "Aucun résultat") {
		t.Error("expected placeholder for nil result")
	}
}

func TestResultsTrend(t *testing.T) {
	view := New(sampleResult(), []int{20, 50}, 80).View()

	if !strings.Contains(view, "Tentatives") {
		t.Error("expected attempt trend with two attempts")
	}
}

func TestResultsUnanswered(t *testing.T) {
	res := sampleResult()
	res.Items[1].Chosen = ""

	view := New(res, nil, 80).View()
	if !strings.Contains(view, "(sans réponse)") {
		t.Error("expected unanswered marker")
	}
}

func TestVerdict(t *testing.T) {
	tests := []struct {
		percent int
		want    string
	}{
		{100, "Réussi"},
		{70, "Réussi"},
		{69, "À revoir"},
		{40, "À revoir"},
		{39, "Insuffisant"},
		{0, "Insuffisant"},
	}
	for _, tc := range tests {
		if got := verdict(tc.percent); got != tc.want {
			t.Errorf("verdict(%d) = %q, want %q", tc.percent, got, tc.want)
		}
	}
}
