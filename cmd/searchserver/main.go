// Command searchserver loads documents and queries from stdin into the
// in-memory search engine and prints ranked results.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return 0
}

// exitCode maps the error taxonomy onto process exit statuses.
func exitCode(err error) int {
	switch apperrors.Code(err) {
	case apperrors.CodeInvalidArgument:
		return 2
	case apperrors.CodeOutOfRange:
		return 3
	default:
		return 1
	}
}

type rootOptions struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "searchserver",
		Short: "In-memory TF-IDF document search",
		Long: `searchserver indexes documents read from stdin and answers queries against
them with TF-IDF ranking, stop words and minus terms.

Input format:
  line 1        stop words, space separated
  line 2        number of documents N
  next 2N lines document text, then "k r1 .. rk" ratings
  rest          one query per line

Example usage:
  searchserver run < input.txt
  searchserver run --page-size 3 --format plain < input.txt
  searchserver match --id 2 < input.txt`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			opts.cfg = cfg
			logger.Setup(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (YAML); defaults and SS_* env vars apply otherwise")
	cmd.AddCommand(newRunCmd(opts), newMatchCmd(opts))
	return cmd
}
