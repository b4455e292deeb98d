// ABOUTME: Results view for a graded quiz attempt
// ABOUTME: Score bar, trend across attempts, and the correction of each question

package results

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/quiz"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/styles"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/tui/widgets"
)

// Results displays a graded attempt
type Results struct {
	result  *quiz.Result
	history []int // percentages of earlier attempts at the same QCM, oldest first
	width   int
}

// New creates a new results view
func New(result *quiz.Result, history []int, width int) *Results {
	return &Results{
		result:  result,
		history: history,
		width:   width,
	}
}

// View renders the results
func (r *Results) View() string {
	if r.result == nil {
		return "Aucun résultat"
	}
	res := r.result

	var sb strings.Builder

	title := "Résultats"
	if res.Title != "" {
		title += " : " + res.Title
	}
	sb.WriteString(styles.Title.Render(title))
	sb.WriteString("\n\n")

	level := widgets.LevelFromScore(res.Percent())
	sb.WriteString(fmt.Sprintf("Score : %s  %s\n",
		lipgloss.NewStyle().Foreground(styles.ScoreColor(res.Percent())).Bold(true).Render(fmt.Sprintf("%d/%d", res.Score, res.Total)),
		widgets.Badge(verdict(res.Percent()), level)))

	bar := widgets.DefaultScoreBarConfig()
	bar.Width = max(10, min(40, r.width-20))
	sb.WriteString(widgets.ScoreBarWithLabel(float64(res.Percent()), bar))
	sb.WriteString("\n")

	if len(r.history) > 1 {
		sb.WriteString(styles.Help.Render("Tentatives : "))
		sb.WriteString(widgets.ScoreTrend(r.history, 20))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render("Correction"))
	sb.WriteString("\n")

	textWidth := max(r.width-6, 30)
	for i, item := range res.Items {
		sb.WriteString(r.renderItem(i, item, textWidth))
	}

	return lipgloss.NewStyle().Width(r.width).Render(strings.TrimRight(sb.String(), "\n"))
}

func (r *Results) renderItem(i int, item quiz.Item, width int) string {
	var sb strings.Builder
	q := item.Question

	mark := styles.StatusOK.Render("✓")
	if !item.Correct {
		mark = styles.StatusCritical.Render("✗")
	}
	sb.WriteString(fmt.Sprintf("\n%s %s\n", mark,
		lipgloss.NewStyle().Width(width).Render(fmt.Sprintf("%d. %s", i+1, q.Text))))

	chosen := "(sans réponse)"
	if item.Chosen != "" {
		chosen = item.Chosen + ". " + quiz.ChoiceText(q, item.Chosen)
	}
	sb.WriteString("  Votre réponse : " + chosen + "\n")

	if !item.Correct {
		sb.WriteString("  " + styles.StatusOK.Render("Bonne réponse : "+q.CorrectAnswerID+". "+quiz.ChoiceText(q, q.CorrectAnswerID)) + "\n")
	}
	if q.Explanation != "" {
		sb.WriteString("  " + lipgloss.NewStyle().Width(width).Foreground(styles.Muted).Render(q.Explanation) + "\n")
	}
	return sb.String()
}

func verdict(percent int) string {
	switch {
	case percent >= 70:
		return "Réussi"
	case percent >= 40:
		return "À revoir"
	default:
		return "Insuffisant"
	}
}
