package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ahrav/evalbuddy/internal/application"
	"github.com/ahrav/evalbuddy/internal/domain"
	"github.com/ahrav/evalbuddy/internal/ports"
)

func buildEvaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate <session-id>",
		Short: "Work through a session interactively",
		Long: `Steps through the session's items grouped by question. For each item the
question, reference answer, and submitted answer are shown together with the
rubric's options. Every judgment is persisted immediately, so the session can
be resumed later from where it was left off.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore()
			if err != nil {
				return err
			}
			session, err := store.GetSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return runEvaluationLoop(cmd.Context(), &session, store)
		},
	}
}

// runEvaluationLoop drives the engine from stdin commands until the session
// is fully evaluated or the evaluator quits.
func runEvaluationLoop(ctx context.Context, session *domain.EvaluationSession, store ports.SessionStore) error {
	evaluator := application.NewEvaluator(session, store)
	if evaluator.TotalItems() == 0 {
		return domain.ErrEmptyDataset
	}

	scanner := bufio.NewScanner(os.Stdin)
	printItem(evaluator)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		done, err := handleEvaluateInput(ctx, evaluator, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		if done {
			break
		}
		if session.IsCompleted {
			fmt.Printf("All %d items evaluated. Session complete.\n", evaluator.TotalItems())
			break
		}
		printItem(evaluator)
	}
	return scanner.Err()
}

func handleEvaluateInput(ctx context.Context, evaluator *application.Evaluator, input string) (done bool, err error) {
	fields := strings.SplitN(input, " ", 2)
	switch fields[0] {
	case "q", "quit":
		return true, nil

	case "n", "next":
		evaluator.Next()
		return false, nil

	case "p", "prev":
		evaluator.Previous()
		return false, nil

	case "g", "goto":
		if len(fields) < 2 {
			return false, fmt.Errorf("usage: g <item-number>")
		}
		n, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return false, fmt.Errorf("item number must be numeric")
		}
		return false, evaluator.NavigateToAbsolute(ctx, n-1)

	case "c", "comment":
		comment := ""
		if len(fields) == 2 {
			comment = fields[1]
		}
		if evaluator.IsCurrentItemEvaluated() {
			return false, evaluator.SaveCommentOnly(ctx, comment)
		}
		evaluator.SetDraftComment(comment)
		return false, nil

	default:
		option, err := selectOption(evaluator.Session().Config, fields[0])
		if err != nil {
			return false, err
		}
		return false, evaluator.EvaluateAndNext(ctx, option, evaluator.DraftComment())
	}
}

// selectOption maps the typed token to a judgment value under the config:
// an option number for mastery and boolean rubrics, a numeric value within
// range for score rubrics.
func selectOption(cfg domain.EvaluationConfig, token string) (any, error) {
	if cfg.Type == domain.TypeScore {
		value, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, fmt.Errorf("enter a score, or one of: n, p, g, c, q")
		}
		ss := cfg.Settings.ScoreSettings
		if ss != nil && (value < ss.MinValue || value > ss.MaxValue) {
			return nil, fmt.Errorf("score must be between %g and %g", ss.MinValue, ss.MaxValue)
		}
		return value, nil
	}

	options := cfg.Options()
	choice, err := strconv.Atoi(token)
	if err != nil || choice < 1 || choice > len(options) {
		return nil, fmt.Errorf("enter an option number 1-%d, or one of: n, p, g, c, q", len(options))
	}
	return options[choice-1].Value, nil
}

func printItem(evaluator *application.Evaluator) {
	item, ok := evaluator.CurrentItem()
	if !ok {
		return
	}
	question, _ := evaluator.CurrentQuestion()
	pos := evaluator.Position()

	fmt.Printf("\n[%d/%d] ", evaluator.AbsoluteIndex()+1, evaluator.TotalItems())
	if evaluator.SingleEvaluationMode() {
		fmt.Printf("Answer %d of %d\n", pos.Index+1, len(evaluator.CurrentGroup()))
	} else {
		fmt.Printf("Question group %d of %d, answer %d of %d\n",
			pos.Group+1, evaluator.GroupCount(), pos.Index+1, len(evaluator.CurrentGroup()))
	}
	fmt.Printf("Q: %s\n", question.Question)
	if question.ReferenceAnswer != "" {
		fmt.Printf("Reference: %s\n", question.ReferenceAnswer)
	}
	fmt.Printf("Submitted: %s\n", item.SubmittedAnswer)
	if question.ReferenceAnswer != "" {
		if application.IsExactMatch(item.SubmittedAnswer, question.ReferenceAnswer) {
			fmt.Println("Similarity to reference: exact match")
		} else {
			similarity := application.AnswerSimilarity(item.SubmittedAnswer, question.ReferenceAnswer)
			fmt.Printf("Similarity to reference: %.0f%%\n", similarity*100)
		}
	}

	if judgment, evaluated := evaluator.JudgmentFor(item.ID); evaluated {
		fmt.Printf("Already evaluated: %s\n", evaluator.Session().Config.FormatValue(judgment.Value))
	}

	cfg := evaluator.Session().Config
	if cfg.Type == domain.TypeScore {
		if ss := cfg.Settings.ScoreSettings; ss != nil {
			fmt.Printf("Enter a score %g-%g (step %g)\n", ss.MinValue, ss.MaxValue, ss.Step)
		}
	} else {
		for i, option := range cfg.Options() {
			fmt.Printf("  %d) %s\n", i+1, option.Label)
		}
	}
	fmt.Printf("Progress: %.0f%%  (n=next p=prev g=goto c=comment q=quit)\n", evaluator.Progress()*100)
}
