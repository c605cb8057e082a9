package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"classifieds_app_v1_202610/internal/view"
	"classifieds_app_v1_202610/pkg/utils"
)

// render --json 时输出 JSON，否则调用 text
func (a *app) render(v interface{}, text func()) error {
	if a.json {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text()
	return nil
}

// ==================== 文本输出 ====================

func printListings(w io.Writer, items []view.ListingView, now time.Time) {
	if len(items) == 0 {
		fmt.Fprintln(w, "(no listings)")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tCATEGORY\tCITY\tPOSTED")
	for _, l := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			l.ID, l.Title, l.Price, dash(l.CategoryPath), dash(l.CityName),
			dash(utils.FormatRelativeDate(l.CreatedAt, now)))
	}
	tw.Flush()
}

func printListingPage(w io.Writer, page view.ListingPage, now time.Time) {
	printListings(w, page.Items, now)
	fmt.Fprintf(w, "page %d of %d (%d total)\n", page.Meta.CurrentPage, page.Meta.LastPage, page.Meta.Total)
}

func printDetail(w io.Writer, d *view.ListingDetail, now time.Time) {
	l := d.Listing
	fmt.Fprintf(w, "%s\n%s\n", l.Title, l.Price)
	if l.CategoryPath != "" {
		fmt.Fprintf(w, "Category: %s\n", l.CategoryPath)
	}
	if l.CityName != "" {
		fmt.Fprintf(w, "City: %s", l.CityName)
		if l.HasCoordinates() {
			fmt.Fprintf(w, " (%.5f, %.5f)", *l.Latitude, *l.Longitude)
		}
		fmt.Fprintln(w)
	}
	if posted := utils.FormatRelativeDate(l.CreatedAt, now); posted != "" {
		fmt.Fprintf(w, "Posted: %s\n", posted)
	}
	fmt.Fprintf(w, "Views: %d  Likes: %d\n", l.Views, l.Likes)
	if l.Saved {
		fmt.Fprintln(w, "Saved to favorites")
	}

	if l.Description != "" {
		fmt.Fprintf(w, "\n%s\n", l.Description)
	}
	if len(l.Specs) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, s := range l.Specs {
			fmt.Fprintf(tw, "%s\t%s\n", s.Name, s.Value)
		}
		tw.Flush()
	}
	if len(l.Features) > 0 {
		fmt.Fprintf(w, "\nFeatures: %s\n", strings.Join(l.Features, ", "))
	}
	if l.HasImage {
		fmt.Fprintf(w, "\nImages:\n")
		for _, u := range l.ImageURLs {
			fmt.Fprintf(w, "  %s\n", u)
		}
	}

	fmt.Fprintf(w, "\nSimilar listings\n")
	printListings(w, d.Similar, now)
}

func printFavorites(w io.Writer, page *view.FavoritesPage, now time.Time) {
	items := make([]view.ListingView, 0, len(page.Items))
	for _, f := range page.Items {
		items = append(items, f.Listing)
	}
	printListings(w, items, now)
	if page.Dropped > 0 {
		fmt.Fprintf(w, "%d saved listing(s) are no longer available\n", page.Dropped)
	}
}

func printOverview(w io.Writer, o *view.AdsOverview, now time.Time) {
	printStats(w, o.Stats)
	for _, group := range []struct {
		title string
		items []view.ListingView
	}{
		{"Published", o.Published},
		{"Pending review", o.Pending},
		{"Archived", o.Archived},
	} {
		fmt.Fprintf(w, "\n%s (%d)\n", group.title, len(group.items))
		printListings(w, group.items, now)
	}
}

func printStats(w io.Writer, s view.UserStats) {
	fmt.Fprintf(w, "Published: %d  Pending: %d  Archived: %d  Visits: %d  Favourites: %d\n",
		s.Published, s.Pending, s.Archived, s.Visits, s.Favourites)
}

func printDashboard(w io.Writer, d *view.Dashboard, now time.Time) {
	printOverview(w, &d.Ads, now)
	fmt.Fprintf(w, "\nFavorites\n")
	printFavorites(w, &d.Favorites, now)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
