package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grounder-ai/grounder/internal/app"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Printf("Grounder %s - interactive mode\n", AppVersion)
	fmt.Println("Type 'exit' or 'quit' to leave.")
	if turns := len(a.Agent.History()); turns > 0 {
		fmt.Printf("Restored %d turns from the previous session.\n", turns)
	}
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")

		if !scanner.Scan() {
			// EOF (Ctrl+D)
			fmt.Println("\nGoodbye!")
			break
		}

		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(input) {
		case "exit", "quit":
			fmt.Println("Goodbye!")
			return saveAndReport(a)
		}

		answer := <-a.Agent.AnswerAsync(ctx, input)
		fmt.Printf("Agent: %s\n\n", answer)

		if err := a.SaveSession(); err != nil {
			a.Logger.Error("saving session", "error", err)
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading input: %w", err)
	}
	return saveAndReport(a)
}

func saveAndReport(a *app.App) error {
	if err := a.SaveSession(); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	fmt.Println("Session saved.")
	return nil
}
