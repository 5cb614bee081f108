// Command log-analyzer runs the streaming log analysis engine as a
// headless process: it loads a settings file, starts every configured
// log source, and blocks until interrupted.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/MrCasCode/log-analyzer-pro/internal/analyzer"
	"github.com/MrCasCode/log-analyzer-pro/internal/logging"
	"github.com/MrCasCode/log-analyzer-pro/internal/settings"
)

func main() {
	app := &cli.App{
		Name:  "log-analyzer",
		Usage: "stream and analyze log files and TCP log sources",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "settings",
				Usage: "path to a JSON settings file (formats, filters, primary_color)",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "path to write rotated application logs; defaults to stderr",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug-level application logging",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "E!", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logger := logging.New(logging.Config{
		Path:  c.String("log-file"),
		Debug: c.Bool("debug"),
	})

	a := analyzer.New()
	defer a.Close()

	if path := c.String("settings"); path != "" {
		doc, err := settings.Load(path)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		if err := doc.Apply(a); err != nil {
			return fmt.Errorf("apply settings: %w", err)
		}
		logger.Infof("loaded settings from %s", path)
	}

	logger.Info("log-analyzer started")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	return nil
}
