package domain

// Pagination tracks the highest metadata page applied and whether the
// listing is exhausted. FetchedPages never decreases and Exhausted never
// reverts once set.
type Pagination struct {
	FetchedPages int
	Exhausted    bool
}

// NextPage returns the page that should be requested next.
// ok is false once the listing is exhausted.
func (p Pagination) NextPage() (page int, ok bool) {
	if p.Exhausted {
		return 0, false
	}
	return p.FetchedPages + 1, true
}

// Apply advances the state with a successfully fetched page.
// Pages at or below FetchedPages are stale and rejected.
func (p *Pagination) Apply(page PhotoResultsPage) bool {
	if p.Exhausted || page.Page <= p.FetchedPages {
		return false
	}
	p.FetchedPages = page.Page
	// pages == 0 is an empty listing; >= keeps it from being requested forever
	if p.FetchedPages >= page.Pages {
		p.Exhausted = true
	}
	return true
}
