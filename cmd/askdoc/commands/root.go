// ABOUTME: Root CLI command with global flags and subcommand wiring
// ABOUTME: askdoc answers questions about one ingested document over Telegram
package commands

import (
	"github.com/spf13/cobra"
)

var (
	quiet   bool
	verbose bool
)

const banner = `
 █████╗ ███████╗██╗  ██╗██████╗  ██████╗  ██████╗
██╔══██╗██╔════╝██║ ██╔╝██╔══██╗██╔═══██╗██╔════╝
███████║███████╗█████╔╝ ██║  ██║██║   ██║██║
██╔══██║╚════██║██╔═██╗ ██║  ██║██║   ██║██║
██║  ██║███████║██║  ██╗██████╔╝╚██████╔╝╚██████╗
╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚═════╝  ╚═════╝  ╚═════╝
`

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "askdoc",
		Short: "Grounded Q&A bot over a fixed text corpus",
		Long: banner + `
askdoc ingests one source document into a Postgres pgvector store and then
answers questions about it, over Telegram or MCP, using retrieval-augmented
generation. Answers are grounded in the most similar document fragments.

Run "askdoc ingest" once to load the corpus, then "askdoc serve" to start
the bot.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}
