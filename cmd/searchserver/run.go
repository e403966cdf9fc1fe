package main

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/document"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/paginator"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/tracing"
)

type runFlags struct {
	pageSize int
	status   string
	format   string
	topEmpty int
}

func newRunCmd(root *rootOptions) *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Index documents from stdin and answer every query line",
		Long: `Index the documents given on stdin, then run each remaining line as a query
through the request history. Results are printed in pages; the number of
queries that returned nothing within the history window is printed last,
optionally followed by the queries that most often returned nothing.

Examples:
  searchserver run < input.txt
  searchserver run --status BANNED --format plain < input.txt
  searchserver run --top-empty 3 < input.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueries(cmd, root, flags)
		},
	}
	cmd.Flags().IntVar(&flags.pageSize, "page-size", 0, "results per page (default from config)")
	cmd.Flags().StringVar(&flags.status, "status", document.StatusActual.String(), "only return documents with this status")
	cmd.Flags().StringVar(&flags.format, "format", formatTable, "output format: table or plain")
	cmd.Flags().IntVar(&flags.topEmpty, "top-empty", 0, "also list this many most frequent no-result queries")
	return cmd
}

func runQueries(cmd *cobra.Command, root *rootOptions, flags *runFlags) error {
	cfg := root.cfg
	if err := validateFormat(flags.format); err != nil {
		return err
	}
	status, err := document.ParseStatus(flags.status)
	if err != nil {
		return err
	}
	pageSize := cfg.Search.PageSize
	if flags.pageSize != 0 {
		pageSize = flags.pageSize
	}
	if pageSize <= 0 {
		return apperrors.Newf(apperrors.ErrInvalidArgument, "page size must be positive, got %d", pageSize)
	}
	if flags.topEmpty < 0 {
		return apperrors.Newf(apperrors.ErrInvalidArgument, "top-empty must not be negative, got %d", flags.topEmpty)
	}

	ctx, span := tracing.StartSpan(cmd.Context(), "run")
	defer func() {
		span.End()
		span.Log(slog.Default())
	}()

	_, loadSpan := tracing.StartSpan(ctx, "load")
	in, err := readInput(cmd.InOrStdin())
	if err != nil {
		return err
	}
	inf := startInfra(ctx, cfg)
	defer inf.Close()
	sess, err := newSession(cfg, in, inf)
	if err != nil {
		return err
	}
	loadSpan.SetAttr("documents", len(in.Documents))
	loadSpan.End()

	_, querySpan := tracing.StartSpan(ctx, "queries")
	defer querySpan.End()
	querySpan.SetAttr("queries", len(in.Queries))

	out := cmd.OutOrStdout()
	for _, query := range in.Queries {
		reqCtx := logger.WithRequestID(ctx, uuid.NewString())
		log := logger.FromContext(reqCtx).With("trace_id", tracing.TraceID(ctx))

		docs, err := sess.history.AddFindRequestByStatus(query, status)
		if err != nil {
			log.Warn("query rejected", "query", query, "error", err)
			fmt.Fprintf(out, "Error in query %q: %v\n", query, err)
			continue
		}
		log.Debug("query answered", "query", query, "results", len(docs))

		pages, err := paginator.Paginate(docs, pageSize)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Results for %q:\n", query)
		for _, page := range pages.All() {
			renderPage(out, flags.format, page.Items())
			fmt.Fprintln(out, "Page break")
		}
	}
	fmt.Fprintf(out, "Total empty requests: %d\n", sess.history.NoResultRequests())
	if flags.topEmpty > 0 {
		fmt.Fprintln(out, "Top empty queries:")
		for _, qc := range sess.history.TopNoResultQueries(flags.topEmpty) {
			fmt.Fprintf(out, "  %q: %d\n", qc.Query, qc.Count)
		}
	}
	slog.Info("request history summary",
		"requests", sess.history.Len(),
		"with_results", sess.history.ResultRequests(),
		"empty", sess.history.NoResultRequests(),
	)
	return nil
}
