// ABOUTME: QCM generation and answering commands
// ABOUTME: Quizzes come from the backend or a saved JSON file and are graded locally

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/client"
	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/quiz"
)

var (
	numQuestions int
	quizOut      string
	quizAnswers  string
)

var generateCmd = &cobra.Command{
	Use:   "generate <file_id>",
	Short: "Generate a QCM from an uploaded PDF",
	Long: `Generate a multiple-choice quiz from an uploaded PDF.

Examples:
  quizz generate 12 -n 10 --out cours.json
  quizz quiz cours.json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withDeps(os.Stdout, func(d *deps) int {
			return runGenerate(ctx, d, os.Stdout, args[0], numQuestions, quizOut)
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var quizCmd = &cobra.Command{
	Use:   "quiz <quiz.json|file_id>",
	Short: "Answer a QCM",
	Long: `Answer a quiz saved by "quizz generate --out", or generate one on the fly
from an uploaded document id.

With --answers the quiz is graded without prompting, one choice per question
in order, e.g. --answers a,c,b,d,a.

Exit codes:
  0  Quiz graded
  2  Error`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withDeps(os.Stdout, func(d *deps) int {
			return runQuiz(ctx, d, os.Stdin, os.Stdout, args[0], quizAnswers, numQuestions)
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	generateCmd.Flags().IntVarP(&numQuestions, "num-questions", "n", client.DefaultQuestionCount, "Number of questions")
	generateCmd.Flags().StringVar(&quizOut, "out", "", "Save the quiz to a JSON file")

	quizCmd.Flags().StringVar(&quizAnswers, "answers", "", "Comma-separated answers for non-interactive grading")
	quizCmd.Flags().IntVarP(&numQuestions, "num-questions", "n", client.DefaultQuestionCount, "Number of questions when generating from a file id")

	rootCmd.AddCommand(generateCmd, quizCmd)
}

// runGenerate asks the backend for a quiz and prints or saves it
func runGenerate(ctx context.Context, d *deps, w io.Writer, rawID string, n int, out string) int {
	fileID, err := client.ParseID(rawID)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if err := quiz.ValidateCount(n); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	qcm, err := d.client.GenerateQCM(ctx, fileID, n)
	if err != nil {
		return fail(w, err)
	}

	if out != "" {
		if err := quiz.Save(out, qcm); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}

	switch {
	case IsJSONOutput():
		fmt.Fprintln(w, jsonString(qcm))
	case out != "":
		fmt.Fprintf(w, "Generated %d question(s) for %s\nSaved to %s\n", len(qcm.Questions), qcm.PDFTitle, out)
	default:
		fmt.Fprintln(w, formatQCMHuman(qcm))
	}
	return 0
}

// formatQCMHuman lists the questions without revealing the answers
func formatQCMHuman(qcm *client.QCM) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d question(s))\n", qcm.PDFTitle, len(qcm.Questions))
	for i, q := range qcm.Questions {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, q.Text)
		for _, c := range q.Choices {
			fmt.Fprintf(&b, "   %s) %s\n", c.ID, c.Text)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// loadQuiz reads a saved quiz when source is an existing file, otherwise
// treats it as a document id to generate from
func loadQuiz(ctx context.Context, d *deps, source string, n int) (*client.QCM, error) {
	if _, err := os.Stat(source); err == nil {
		return quiz.Load(source)
	}
	fileID, err := client.ParseID(source)
	if err != nil {
		return nil, fmt.Errorf("%s is neither a quiz file nor a document id", source)
	}
	if err := quiz.ValidateCount(n); err != nil {
		return nil, err
	}
	return d.client.GenerateQCM(ctx, fileID, n)
}

// runQuiz answers and grades a quiz, prompting on in unless answers is set
func runQuiz(ctx context.Context, d *deps, in io.Reader, w io.Writer, source, answers string, n int) int {
	qcm, err := loadQuiz(ctx, d, source, n)
	if err != nil {
		return fail(w, err)
	}

	session, err := quiz.NewSession(qcm)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if answers != "" {
		err = session.AnswerAll(quiz.ParseAnswers(answers))
	} else {
		err = askAll(ctx, session, bufio.NewReader(in), w)
	}
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	result, err := session.Submit()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatResultJSON(result))
	} else {
		fmt.Fprintln(w, formatResultHuman(result))
	}
	return 0
}

// askAll prompts for each question until a valid choice is entered
func askAll(ctx context.Context, s *quiz.Session, in *bufio.Reader, w io.Writer) error {
	for i := 0; i < s.Len(); i++ {
		q := s.Question(i)
		fmt.Fprintf(w, "\nQuestion %d/%d: %s\n", i+1, s.Len(), q.Text)
		for _, c := range q.Choices {
			fmt.Fprintf(w, "  %s) %s\n", c.ID, c.Text)
		}

		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			fmt.Fprint(w, "> ")
			line, err := in.ReadString('\n')
			if strings.TrimSpace(line) == "" && err != nil {
				return fmt.Errorf("réponse manquante pour la question %d", i+1)
			}
			if aerr := s.AnswerAt(i, line); aerr != nil {
				fmt.Fprintf(w, "%v\n", aerr)
				if err != nil {
					return aerr
				}
				continue
			}
			break
		}
	}
	return nil
}

// formatResultHuman shows the score and a per-question correction
func formatResultHuman(r quiz.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Score: %d/%d (%d%%)\n", r.Score, r.Total, r.Percent())
	for i, item := range r.Items {
		symbol := "✓"
		if !item.Correct {
			symbol = "✗"
		}
		fmt.Fprintf(&b, "\n%s %d. %s\n", symbol, i+1, item.Question.Text)
		fmt.Fprintf(&b, "   Votre réponse: %s) %s\n", item.Chosen, quiz.ChoiceText(item.Question, item.Chosen))
		if !item.Correct {
			fmt.Fprintf(&b, "   Bonne réponse: %s) %s\n", item.Question.CorrectAnswerID,
				quiz.ChoiceText(item.Question, item.Question.CorrectAnswerID))
		}
		if item.Question.Explanation != "" {
			fmt.Fprintf(&b, "   %s\n", item.Question.Explanation)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatResultJSON formats a graded attempt as JSON
func formatResultJSON(r quiz.Result) string {
	items := make([]map[string]any, len(r.Items))
	for i, item := range r.Items {
		items[i] = map[string]any{
			"question_id": item.Question.ID,
			"chosen":      item.Chosen,
			"correct_id":  item.Question.CorrectAnswerID,
			"correct":     item.Correct,
		}
	}
	return jsonString(map[string]any{
		"title":   r.Title,
		"score":   r.Score,
		"total":   r.Total,
		"percent": r.Percent(),
		"items":   items,
	})
}
