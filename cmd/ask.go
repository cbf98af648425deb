package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	question := strings.Join(args, " ")
	answer := a.Agent.Answer(ctx, question)
	fmt.Println(answer)

	if err := a.SaveSession(); err != nil {
		a.Logger.Error("saving session", "error", err)
	}
	return nil
}
