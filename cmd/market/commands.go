package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"classifieds_app_v1_202610/internal/middleware"
	"classifieds_app_v1_202610/internal/service"
	"classifieds_app_v1_202610/pkg/endpoint"

	"github.com/urfave/cli/v2"
)

func commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "listings",
			Usage: "list published listings",
			Flags: []cli.Flag{
				&cli.Int64Flag{Name: "category"},
				&cli.Int64Flag{Name: "owner", Usage: "only listings of this user"},
				&cli.IntFlag{Name: "page", Value: 1},
			},
			Action: listListings,
		},
		{
			Name:      "show",
			Usage:     "show a listing with similar listings",
			ArgsUsage: "<id>",
			Action:    showListing,
		},
		{
			Name:      "similar",
			Usage:     "listings similar to a listing",
			ArgsUsage: "<id>",
			Action:    similarListings,
		},
		{
			Name:   "favorites",
			Usage:  "saved listings",
			Flags:  []cli.Flag{&cli.IntFlag{Name: "page", Value: 1}},
			Action: listFavorites,
		},
		{
			Name:  "fav",
			Usage: "save or unsave a listing",
			Subcommands: []*cli.Command{
				{Name: "add", ArgsUsage: "<id>", Action: toggleFavorite(false)},
				{Name: "rm", ArgsUsage: "<id>", Action: toggleFavorite(true)},
			},
		},
		{
			Name:   "ads",
			Usage:  "my listings grouped by state",
			Action: myAds,
		},
		{
			Name:      "archive",
			Usage:     "archive one of my listings",
			ArgsUsage: "<id>",
			Action:    archiveListing(true),
		},
		{
			Name:      "restore",
			Usage:     "restore an archived listing",
			ArgsUsage: "<id>",
			Action:    archiveListing(false),
		},
		{
			Name:      "delete",
			Usage:     "delete my listings",
			ArgsUsage: "<id[,id...]>",
			Action:    deleteListings,
		},
		{
			Name:      "stats",
			Usage:     "listing statistics of a user",
			ArgsUsage: "[user id]",
			Action:    userStats,
		},
		{
			Name:   "dashboard",
			Usage:  "my listings and first page of favorites",
			Action: dashboard,
		},
		{
			Name:      "report",
			Usage:     "report a listing",
			ArgsUsage: "<id>",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "reason", Required: true},
				&cli.StringFlag{Name: "message"},
			},
			Action: reportListing,
		},
		{
			Name:  "token",
			Usage: "sign a sandbox token for a user (development only)",
			Flags: []cli.Flag{
				&cli.Int64Flag{Name: "user", Required: true},
				&cli.StringFlag{Name: "name", Value: "dev"},
			},
			Action: signToken,
		},
	}
}

// ==================== 浏览 ====================

func listListings(c *cli.Context) error {
	a := appFrom(c)
	published, active := true, false
	page, err := a.posts.List(c.Context, a.auth, service.ListFilter{
		UserID:     c.Int64("owner"),
		CategoryID: c.Int64("category"),
		Approved:   &published,
		Archived:   &active,
		Page:       c.Int("page"),
		PerPage:    a.cfg.Client.PerPage,
	})
	if err != nil {
		return err
	}
	v := service.ToListingPage(page, a.pf)
	return a.render(v, func() { printListingPage(a.out, v, time.Now()) })
}

func showListing(c *cli.Context) error {
	a := appFrom(c)
	id, err := argID(c)
	if err != nil {
		return err
	}
	detail, err := a.detail.Load(c.Context, a.auth, id, a.guard(c.Context))
	if err != nil {
		return err
	}
	return a.render(detail, func() { printDetail(a.out, detail, time.Now()) })
}

func similarListings(c *cli.Context) error {
	a := appFrom(c)
	id, err := argID(c)
	if err != nil {
		return err
	}
	items := a.detail.Similar(c.Context, a.auth, id)
	return a.render(items, func() { printListings(a.out, items, time.Now()) })
}

// ==================== 收藏 ====================

func listFavorites(c *cli.Context) error {
	a := appFrom(c)
	if err := a.requireAuth(); err != nil {
		return err
	}
	page, err := a.favorites.LoadPage(c.Context, a.auth, c.Int("page"), a.guard(c.Context))
	if err != nil {
		return err
	}
	return a.render(page, func() { printFavorites(a.out, page, time.Now()) })
}

func toggleFavorite(saved bool) cli.ActionFunc {
	return func(c *cli.Context) error {
		a := appFrom(c)
		if err := a.requireAuth(); err != nil {
			return err
		}
		id, err := argID(c)
		if err != nil {
			return err
		}
		if err := a.favorites.Toggle(c.Context, a.auth, id, saved); err != nil {
			return err
		}
		if saved {
			fmt.Fprintf(a.out, "Removed listing %d from favorites\n", id)
		} else {
			fmt.Fprintf(a.out, "Saved listing %d\n", id)
		}
		return nil
	}
}

// ==================== 我的广告 ====================

func myAds(c *cli.Context) error {
	a := appFrom(c)
	if err := a.requireAuth(); err != nil {
		return err
	}
	overview, err := a.ads.Load(c.Context, a.auth, a.auth.UserID, a.guard(c.Context))
	if err != nil {
		return err
	}
	return a.render(overview, func() { printOverview(a.out, overview, time.Now()) })
}

func archiveListing(archive bool) cli.ActionFunc {
	return func(c *cli.Context) error {
		a := appFrom(c)
		if err := a.requireAuth(); err != nil {
			return err
		}
		id, err := argID(c)
		if err != nil {
			return err
		}

		var v interface{}
		if archive {
			v, err = a.ads.Archive(c.Context, a.auth, id)
		} else {
			v, err = a.ads.Restore(c.Context, a.auth, id)
		}
		if err != nil {
			return err
		}
		return a.render(v, func() {
			if archive {
				fmt.Fprintf(a.out, "Archived listing %d\n", id)
			} else {
				fmt.Fprintf(a.out, "Restored listing %d\n", id)
			}
		})
	}
}

func deleteListings(c *cli.Context) error {
	a := appFrom(c)
	if err := a.requireAuth(); err != nil {
		return err
	}
	ids := endpoint.SplitIDs(c.Args().First())
	if len(ids) == 0 {
		return errors.New("usage: market delete <id[,id...]>")
	}
	if err := a.ads.Delete(c.Context, a.auth, ids...); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %d listing(s)\n", len(ids))
	return nil
}

func userStats(c *cli.Context) error {
	a := appFrom(c)
	userID := a.auth.UserID
	if c.Args().Present() {
		id, err := argID(c)
		if err != nil {
			return err
		}
		userID = id
	}
	if userID <= 0 {
		return errors.New("usage: market stats <user id>")
	}

	dto, err := a.posts.GetUserStats(c.Context, a.auth, userID)
	if err != nil {
		return err
	}
	stats := service.ToUserStats(dto)
	return a.render(stats, func() { printStats(a.out, stats) })
}

func dashboard(c *cli.Context) error {
	a := appFrom(c)
	if err := a.requireAuth(); err != nil {
		return err
	}
	d, err := a.dashboard.Load(c.Context, a.auth, a.guard(c.Context))
	if err != nil {
		return err
	}
	return a.render(d, func() { printDashboard(a.out, d, time.Now()) })
}

func reportListing(c *cli.Context) error {
	a := appFrom(c)
	if err := a.requireAuth(); err != nil {
		return err
	}
	id, err := argID(c)
	if err != nil {
		return err
	}
	if err := a.detail.Report(c.Context, a.auth, id, c.String("reason"), c.String("message")); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Reported listing %d\n", id)
	return nil
}

// ==================== 开发工具 ====================

func signToken(c *cli.Context) error {
	a := appFrom(c)
	tokens := middleware.NewTokenManager(&middleware.JWTConfig{
		SecretKey:      a.cfg.Sandbox.JWTSecret,
		AccessTokenTTL: a.cfg.Sandbox.TokenTTL,
		Issuer:         "classifieds-sandbox",
	})
	token, err := tokens.GenerateAccessToken(c.Int64("user"), c.String("name"))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, token)
	return nil
}

// ==================== 辅助函数 ====================

func argID(c *cli.Context) (int64, error) {
	raw := c.Args().First()
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
