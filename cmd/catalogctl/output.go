package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/institut/vitrine/internal/browse"
)

const maxVisiblePages = 5

// listing is how a listing command asks for its page.
type listing struct {
	query  string
	filter string
	page   int
}

// load drives b to the requested page of the requested intent and returns the
// state it settled in.
func load[T any](ctx context.Context, b *browse.Browser[T], l listing) browse.State[T] {
	switch {
	case strings.TrimSpace(l.query) != "":
		b.SubmitSearch(ctx, l.query)
	case l.filter != "":
		b.SetFilter(ctx, l.filter)
	default:
		b.Mount(ctx)
	}
	if l.page > 0 && !b.GoToPage(ctx, l.page) {
		s := b.State()
		if s.Status == browse.StatusLoaded {
			s.Notice = fmt.Sprintf("Page %d hors limites (%d page(s)).", l.page+1, s.TotalPages)
			s.Items = nil
		}
		return s
	}
	return b.State()
}

// render prints the rows of s through row, then the pager line. It returns
// an error when the listing failed so the exit status reflects it.
func render[T any](out io.Writer, b *browse.Browser[T], s browse.State[T], header string, row func(T) string) error {
	if s.Status == browse.StatusErrored {
		return cli.Exit(s.ErrorMessage, 1)
	}
	if s.Notice != "" {
		fmt.Fprintln(out, s.Notice)
	}
	if len(s.Items) == 0 {
		if s.Notice == "" {
			fmt.Fprintln(out, "Aucun résultat.")
		}
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, item := range s.Items {
		fmt.Fprintln(tw, row(item))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d résultat(s)  %s\n", s.TotalElements, pager(b.VisiblePages(maxVisiblePages), s.PageNumber))
	return nil
}

// pager renders visible page numbers 1-based, the current one in brackets.
func pager(pages []int, current int) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		switch {
		case p == browse.Ellipsis:
			parts = append(parts, "…")
		case p == current:
			parts = append(parts, "["+strconv.Itoa(p+1)+"]")
		default:
			parts = append(parts, strconv.Itoa(p+1))
		}
	}
	return strings.Join(parts, " ")
}

func yesNo(b bool) string {
	if b {
		return "oui"
	}
	return "non"
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
