package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"hugo/internal/service"

	"github.com/spf13/cobra"
)

var (
	chatLang   string
	chatResume string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Take the assessment as an interactive chat",
	Long: `Walk through welcome, name, email, country, the twelve dimension
questions and three type questions. Sessions are stored, so an interrupted
chat can be picked up again with --resume <id>. Type "quit" to leave.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, _, err := openApp()
		if err != nil {
			return err
		}
		defer closeApp(a)
		svc := a.Service()
		if !svc.StoreEnabled() {
			return fmt.Errorf("chat needs the store; set store.disabled to false")
		}
		ctx := cmd.Context()

		var step service.SessionStep
		if chatResume != "" {
			step, err = svc.GetSession(ctx, chatResume)
		} else {
			step, err = svc.StartSession(ctx, chatLang)
		}
		if err != nil {
			return err
		}
		fmt.Println(gray("session " + step.Session.ID))

		in := bufio.NewScanner(os.Stdin)
		for !step.Reply.Done {
			printStep(step)
			fmt.Print(cyan("> "))
			if !in.Scan() {
				fmt.Println()
				fmt.Println(gray("resume later with: hugo chat --resume " + step.Session.ID))
				return in.Err()
			}
			line := in.Text()
			if strings.EqualFold(strings.TrimSpace(line), "quit") {
				fmt.Println(gray("resume later with: hugo chat --resume " + step.Session.ID))
				return nil
			}
			// correctable input comes back as a re-prompt
			next, err := svc.AdvanceSession(ctx, step.Session.ID, line)
			if err != nil && !service.IsInvalidInput(err) {
				return err
			}
			step = next
		}

		fmt.Println(green(step.Reply.Prompt))
		if step.Session.Profile != nil {
			p := step.Session.Profile
			fmt.Printf("%s %s (%s)\n", bold("Your type:"), green(typeLabel(p.FinalType)), p.PrimaryDimension.Title())
			if p.Confidence.LowConfidence {
				fmt.Println(yellow("low confidence: " + p.Confidence.Reason))
			}
		}
		return nil
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatLang, "lang", "", "de, en or da (default from config)")
	chatCmd.Flags().StringVar(&chatResume, "resume", "", "continue a stored session")
}

func printStep(step service.SessionStep) {
	if step.Progress.Total > 0 && step.Progress.Answered < step.Progress.Total && step.Reply.QuestionID != "" {
		fmt.Println(gray(fmt.Sprintf("[%d/%d]", step.Progress.Answered+1, step.Progress.Total)))
	}
	fmt.Println(bold(step.Reply.Prompt))
}

