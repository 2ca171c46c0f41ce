package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmcdole/photoviewer/internal/search"
	"github.com/mmcdole/photoviewer/internal/store"
)

type searchOpts struct {
	*rootOpts
	rank  bool
	limit int
}

func newSearch(parent *rootOpts) *searchOpts {
	return &searchOpts{rootOpts: parent}
}

func (opts *searchOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "search <query>",
		Short:   "Fuzzy search the titles of archived photos.",
		Example: "  photoviewer search sunset --rank",
		Args:    cobra.MinimumNArgs(1),
		RunE:    opts.RunE,
	}
	cmd.Flags().BoolVar(&opts.rank, "rank", false, "Order by edit distance instead of match quality")
	cmd.Flags().IntVarP(&opts.limit, "limit", "l", 0, "Maximum number of results (0 for all)")
	return cmd
}

func (opts *searchOpts) RunE(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	s, err := store.Open(opts.cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer s.Close()

	photos, err := s.Photos()
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}

	idx := search.NewIndex(photos)
	var results []search.Result
	if opts.rank {
		results = idx.Rank(query)
	} else {
		results = idx.Filter(query)
	}
	if opts.limit > 0 && len(results) > opts.limit {
		results = results[:opts.limit]
	}

	opts.logger.Debug("searched archive", "query", query, "photos", len(photos), "results", len(results))

	rows := make([]photoRow, len(results))
	for i, r := range results {
		score := r.Score
		rows[i] = newPhotoRow(r.Index, r.Photo)
		rows[i].Score = &score
	}
	return writeRows(cmd.OutOrStdout(), rows)
}
