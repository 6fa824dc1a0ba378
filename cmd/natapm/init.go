package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Latif080790/NataCarePM-sub017/internal/storage"
)

var initCmd = &cobra.Command{
	Use:   "init [plan-name]",
	Short: "Initialize a new plan database in the current directory",
	Long: `Initialize a new plan database by creating a .natapm/ directory with a
SQLite database.

If no plan name is provided, the database is named natapm.db.

Example:
  cd ~/bridge-project
  natapm init            # Creates .natapm/natapm.db
  natapm init bridge     # Creates .natapm/bridge.db`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		planName := ""
		if len(args) > 0 {
			planName = args[0]
		}

		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to get current directory: %v\n", err)
			os.Exit(1)
		}

		dbPath, err := storage.InitProject(cwd, planName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		// Opening the database creates the file and applies the schema.
		ctx := context.Background()
		db, err := storage.NewStorage(ctx, &storage.Config{Path: dbPath})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to initialize database: %v\n", err)
			os.Exit(1)
		}
		_ = db.Close()

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s Initialized plan database\n\n", green("✓"))
		fmt.Printf("  Database: %s\n", cyan(dbPath))
		fmt.Printf("  Project root: %s\n", cyan(cwd))
		fmt.Println()
		fmt.Printf("%s Next steps:\n", gray("→"))
		fmt.Printf("  %s\n", gray("natapm task add --name 'Pour foundation' --start 2026-03-02 --end 2026-03-06"))
		fmt.Printf("  %s\n", gray("natapm dep add <pred-id> <succ-id>"))
		fmt.Printf("  %s\n", gray("natapm cpm"))
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
