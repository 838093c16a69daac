package services

import (
	"testing"

	"github.com/cinefindr/cinefindr-backend/internal/types"
)

func availableOn(title *types.Title, providers ...string) *types.Title {
	for _, p := range providers {
		title.Availability = append(title.Availability, types.Availability{
			TitleID:      title.ID,
			Region:       "US",
			ProviderName: p,
		})
	}
	return title
}

func TestFilterByProviders(t *testing.T) {
	netflixOnly := availableOn(catalogTitle("A", 1), "Netflix")
	huluOnly := availableOn(catalogTitle("B", 2), "Hulu")
	both := availableOn(catalogTitle("C", 3), "Netflix", "Hulu")
	nowhere := catalogTitle("D", 4)

	titles := []*types.Title{netflixOnly, huluOnly, both, nowhere}

	got := FilterByProviders(titles, []string{"Netflix"})
	if len(got) != 2 {
		t.Fatalf("got %d titles, want 2", len(got))
	}
	if got[0].OriginalTitle != "A" || got[1].OriginalTitle != "C" {
		t.Fatalf("wrong titles kept: %q, %q", got[0].OriginalTitle, got[1].OriginalTitle)
	}
}

func TestFilterByProviders_NoMatches(t *testing.T) {
	titles := []*types.Title{availableOn(catalogTitle("A", 1), "Netflix")}
	if got := FilterByProviders(titles, []string{"Peacock"}); len(got) != 0 {
		t.Fatalf("got %d titles, want 0", len(got))
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{199, 20, 10},
		{10, 0, 0},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.total, tc.pageSize); got != tc.want {
			t.Fatalf("TotalPages(%d, %d) = %d, want %d", tc.total, tc.pageSize, got, tc.want)
		}
	}
}
