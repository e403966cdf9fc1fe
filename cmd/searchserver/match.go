package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newMatchCmd(root *rootOptions) *cobra.Command {
	var id int
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Show which query words each query line matches in one document",
		Long: `Index the documents given on stdin, then match each remaining line against
the document with the given id. A query with a minus word found in the
document matches nothing.

Examples:
  searchserver match --id 0 < input.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd.InOrStdin())
			if err != nil {
				return err
			}
			inf := startInfra(cmd.Context(), root.cfg)
			defer inf.Close()

			sess, err := newSession(root.cfg, in, inf)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, query := range in.Queries {
				words, status, err := sess.engine.MatchDocument(query, id)
				if err != nil {
					return fmt.Errorf("matching %q against document %d: %w", query, id, err)
				}
				fmt.Fprintf(out, "{ document_id = %d, status = %s, words = [%s] }\n",
					id, status, strings.Join(words, " "))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&id, "id", 0, "document id to match against (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
