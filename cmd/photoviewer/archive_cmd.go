package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmcdole/photoviewer/internal/domain"
	"github.com/mmcdole/photoviewer/internal/store"
)

type archiveOpts struct {
	*rootOpts
	pages      int
	clear      bool
	noPrefetch bool
}

func newArchive(parent *rootOpts) *archiveOpts {
	return &archiveOpts{rootOpts: parent}
}

func (opts *archiveOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Save listing pages to the local archive.",
		Long: "Loads listing pages in order and saves each one to the local archive. " +
			"Images of the archived photos are prefetched to report which ones are reachable; " +
			"image bytes are not archived.",
		Example: "  photoviewer archive --pages 5 --clear",
		RunE:    opts.RunE,
	}
	cmd.Flags().IntVarP(&opts.pages, "pages", "n", 1, "Number of pages to archive")
	cmd.Flags().BoolVar(&opts.clear, "clear", false, "Remove previously archived pages first")
	cmd.Flags().BoolVar(&opts.noPrefetch, "no-prefetch", false, "Skip the image reachability check")
	return cmd
}

// archiveObserver saves every applied page
type archiveObserver struct {
	domain.NoOpObserver
	store  *store.PhotoStore
	logger *slog.Logger
	saved  int
	err    error
}

func (o *archiveObserver) OnPage(page domain.PhotoResultsPage, _ []domain.Photo) {
	if err := o.store.SavePage(page); err != nil {
		o.logger.Error("failed to archive page", "page", page.Page, "error", err)
		if o.err == nil {
			o.err = err
		}
		return
	}
	o.saved++
}

func (opts *archiveOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return errorWantedNoArgs
	}
	if err := opts.requireConfigured(); err != nil {
		return err
	}
	if opts.pages < 1 {
		return newUsageError("--pages must be at least 1")
	}

	s, err := store.Open(opts.cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer s.Close()

	if opts.clear {
		if err := s.Clear(); err != nil {
			return fmt.Errorf("failed to clear archive: %w", err)
		}
	}

	ctx := cmd.Context()
	feed := opts.newFeed(0)
	observer := &archiveObserver{store: s, logger: opts.logger}
	feed.SetObserver(observer)

	photos, err := feed.LoadPages(ctx, opts.pages)
	if err != nil {
		return fmt.Errorf("failed to load photos: %w", err)
	}
	if observer.err != nil {
		return fmt.Errorf("failed to archive: %w", observer.err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "archived %d pages (%d photos)\n", observer.saved, len(photos))

	if opts.noPrefetch {
		return nil
	}
	stats, err := feed.Prefetch(ctx, photos)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "images: %d reachable, %d pending, %d failed\n", stats.Delivered, stats.Pending, stats.Failed)
	return nil
}
