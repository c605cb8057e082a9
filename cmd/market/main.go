package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "market",
		Usage: "classifieds API client",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "config file (default ./config.yaml)"},
			&cli.StringFlag{Name: "token", Usage: "bearer token, overrides api.token", EnvVars: []string{"MARKET_TOKEN"}},
			&cli.Int64Flag{Name: "user", Usage: "user id, read from the token when omitted"},
			&cli.BoolFlag{Name: "json", Usage: "print raw JSON instead of text"},
		},
		Before: func(c *cli.Context) error {
			a, err := newApp(c)
			if err != nil {
				return err
			}
			c.App.Metadata = map[string]interface{}{appKey: a}
			return nil
		},
		After: func(c *cli.Context) error {
			if a, ok := c.App.Metadata[appKey].(*app); ok {
				_ = a.log.Sync()
			}
			return nil
		},
		Commands: commands(),
	}

	// Ctrl-C 取消请求，并让尚未返回的结果不再输出
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
