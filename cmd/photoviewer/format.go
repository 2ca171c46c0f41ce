package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/mmcdole/photoviewer/internal/domain"
	"github.com/mmcdole/photoviewer/internal/flickr"
)

// photoRow is one line of listing output
type photoRow struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Owner string `json:"owner"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Score *int   `json:"score,omitempty"`
}

func newPhotoRow(index int, photo domain.Photo) photoRow {
	return photoRow{
		Index: index,
		ID:    photo.ID,
		Owner: photo.Owner,
		Title: photo.Title,
		URL:   flickr.ImageURL(photo),
	}
}

func newTabwriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeRows prints a table on a terminal and JSON lines otherwise
func writeRows(w io.Writer, rows []photoRow) error {
	if !isTerminal(w) {
		enc := json.NewEncoder(w)
		for _, row := range rows {
			if err := enc.Encode(row); err != nil {
				return err
			}
		}
		return nil
	}

	out := newTabwriter(w)
	withScore := len(rows) > 0 && rows[0].Score != nil
	if withScore {
		fmt.Fprintln(out, "#\tID\tOWNER\tTITLE\tSCORE")
	} else {
		fmt.Fprintln(out, "#\tID\tOWNER\tTITLE")
	}
	for _, row := range rows {
		if withScore {
			fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%d\n", row.Index, row.ID, row.Owner, row.Title, *row.Score)
			continue
		}
		fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", row.Index, row.ID, row.Owner, row.Title)
	}
	return out.Flush()
}
