package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type pagesOpts struct {
	*rootOpts
	count   int
	perPage int
}

func newPages(parent *rootOpts) *pagesOpts {
	return &pagesOpts{rootOpts: parent}
}

func (opts *pagesOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pages",
		Short:   "List recent photos, page by page.",
		Example: "  photoviewer pages --count 3 --per-page 50",
		RunE:    opts.RunE,
	}
	cmd.Flags().IntVarP(&opts.count, "count", "n", 1, "Number of pages to load")
	cmd.Flags().IntVar(&opts.perPage, "per-page", 0, "Photos per page (default from config)")
	return cmd
}

func (opts *pagesOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return errorWantedNoArgs
	}
	if err := opts.requireConfigured(); err != nil {
		return err
	}
	if opts.count < 1 {
		return newUsageError("--count must be at least 1")
	}

	feed := opts.newFeed(opts.perPage)
	photos, err := feed.LoadPages(cmd.Context(), opts.count)
	if err != nil {
		return fmt.Errorf("failed to load photos: %w", err)
	}

	rows := make([]photoRow, len(photos))
	for i, p := range photos {
		rows[i] = newPhotoRow(i, p)
	}
	return writeRows(cmd.OutOrStdout(), rows)
}
