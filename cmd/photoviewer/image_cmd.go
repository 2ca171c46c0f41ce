package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mmcdole/photoviewer/internal/domain"
)

type imageOpts struct {
	*rootOpts
	output  string
	perPage int
}

func newImage(parent *rootOpts) *imageOpts {
	return &imageOpts{rootOpts: parent}
}

func (opts *imageOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "image <page> <index>",
		Short:   "Fetch the image of a listed photo.",
		Example: "  photoviewer image 2 5 -o photo.jpg",
		Args:    cobra.ExactArgs(2),
		RunE:    opts.RunE,
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the image to this file, adding the sniffed extension when it has none (default stdout)")
	cmd.Flags().IntVar(&opts.perPage, "per-page", 0, "Photos per page (default from config)")
	return cmd
}

func (opts *imageOpts) RunE(cmd *cobra.Command, args []string) error {
	page, err := strconv.Atoi(args[0])
	if err != nil || page < 1 {
		return newUsageError("page must be a positive number")
	}
	index, err := strconv.Atoi(args[1])
	if err != nil || index < 0 {
		return newUsageError("index must be a non-negative number")
	}
	if err := opts.requireConfigured(); err != nil {
		return err
	}

	ctx := cmd.Context()
	feed := opts.newFeed(opts.perPage)

	// Pages are only served in order
	var photos []domain.Photo
	for n := 1; n <= page; n++ {
		photos, err = feed.LoadNextPage(ctx)
		if errors.Is(err, domain.ErrExhausted) {
			return fmt.Errorf("page %d is past the end of the listing (%d pages)", page, feed.Pagination().FetchedPages)
		}
		if err != nil {
			return fmt.Errorf("failed to load page %d: %w", n, err)
		}
	}
	if index >= len(photos) {
		return fmt.Errorf("page %d has %d photos", page, len(photos))
	}

	img, err := feed.LoadImage(ctx, photos[index])
	if err != nil {
		return fmt.Errorf("failed to fetch image: %w", err)
	}
	if img == nil {
		return fmt.Errorf("image of photo %s is already being fetched", photos[index].ID)
	}

	opts.logger.Info("fetched image", "photo", photos[index].ID, "mime", img.MIME, "width", img.Width(), "height", img.Height())

	if opts.output == "" {
		_, err = cmd.OutOrStdout().Write(img.Data)
		return err
	}
	path := outputPath(opts.output, img)
	if err := os.WriteFile(path, img.Data, 0644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %dx%d %s, %d bytes\n", path, img.Width(), img.Height(), img.MIME, len(img.Data))
	return nil
}

// outputPath adds the extension of the sniffed type when output has none
func outputPath(output string, img *domain.Image) string {
	if filepath.Ext(output) != "" || img.Ext == "" {
		return output
	}
	return output + img.Ext
}
