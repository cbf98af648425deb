package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [directory]",
	Short: "Load new documents from a directory into the knowledge base",
	Long: `Ingest embeds and stores every .txt and .pdf file in the directory
whose filename is not already present in the collection. Content changes to
an already-ingested file are not detected; remove and re-add the file under
a new name to update it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	dir := a.Config.KnowledgeDir
	if len(args) > 0 {
		dir = args[0]
	}

	added, err := a.Knowledge.Ingest(ctx, dir)
	if err != nil {
		return fmt.Errorf("ingesting %q: %w", dir, err)
	}

	fmt.Printf("Added %d new documents from %s\n", added, dir)
	return nil
}
