package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"classifieds_app_v1_202610/internal/view"
	"classifieds_app_v1_202610/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintListings(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	posted := now.Add(-3 * time.Hour)

	var buf bytes.Buffer
	printListings(&buf, []view.ListingView{
		{ID: 1, Title: "Corolla", Price: "1,500 UGX", CategoryPath: "Vehicles > Cars", CreatedAt: &posted},
		{ID: 2, Title: "Sofa", Price: "$20"},
	}, now)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Vehicles > Cars")
	assert.Contains(t, lines[1], "3 hours ago")
	assert.Contains(t, lines[2], "-", "缺失字段显示占位符")

	buf.Reset()
	printListings(&buf, nil, now)
	assert.Equal(t, "(no listings)\n", buf.String())
}

func TestPrintDetail(t *testing.T) {
	lat, lng := 0.3476, 32.5825
	d := &view.ListingDetail{
		Listing: view.ListingView{
			Title:     "Corolla",
			Price:     "1,500 UGX",
			CityName:  "Kampala",
			Latitude:  &lat,
			Longitude: &lng,
			Specs:     []utils.Spec{{Name: "Mileage", Value: "12000"}},
			Features:  []string{"ABS", "Airbags"},
			HasImage:  true,
			ImageURLs: []string{"https://cdn.test/1.jpg"},
			Saved:     true,
		},
	}

	var buf bytes.Buffer
	printDetail(&buf, d, time.Now())
	out := buf.String()
	assert.Contains(t, out, "City: Kampala (0.34760, 32.58250)")
	assert.Contains(t, out, "Mileage  12000")
	assert.Contains(t, out, "Features: ABS, Airbags")
	assert.Contains(t, out, "https://cdn.test/1.jpg")
	assert.Contains(t, out, "(no listings)")
	assert.Contains(t, out, "Saved to favorites")
}

func TestPrintFavorites_Dropped(t *testing.T) {
	var buf bytes.Buffer
	printFavorites(&buf, &view.FavoritesPage{
		Items:   []view.FavoriteItem{{Listing: view.ListingView{ID: 5, Title: "Bike"}}},
		Dropped: 2,
	}, time.Now())
	assert.Contains(t, buf.String(), "Bike")
	assert.Contains(t, buf.String(), "2 saved listing(s) are no longer available")
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	a := &app{out: &buf, json: true}
	called := false
	require.NoError(t, a.render(view.UserStats{Published: 2}, func() { called = true }))
	assert.False(t, called)
	assert.Contains(t, buf.String(), `"published": 2`)
}

func TestUserIDFromToken(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 42}).SignedString([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, int64(42), userIDFromToken(token))
	assert.Zero(t, userIDFromToken("garbage"))
}
