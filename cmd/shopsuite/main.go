package main

import (
	"fmt"
	"log"
	"os"

	"github.com/adyen/shopsuite/internal/browser"
	internalcli "github.com/adyen/shopsuite/internal/cli"
	"github.com/adyen/shopsuite/internal/config"
	"github.com/adyen/shopsuite/internal/driver"
	"github.com/adyen/shopsuite/internal/logging"
	"github.com/adyen/shopsuite/internal/testdata"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

var version = "0.1.0"

// loadSuiteConfig reads the properties file named by the --config flag
func loadSuiteConfig(c *cli.Context) (*config.SuiteConfig, error) {
	props, err := config.LoadProperties(c.String("config"))
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadSuiteConfig(props)
	if err != nil {
		return nil, fmt.Errorf("invalid suite configuration: %w", err)
	}
	return cfg, nil
}

// buildResolver creates a resolver over the configured test data directory
func buildResolver(c *cli.Context) (*testdata.Resolver, error) {
	cfg, err := loadSuiteConfig(c)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return testdata.NewResolver(cfg.TestDataDir, logger), nil
}

// DataCommand returns the data command
func DataCommand() *cli.Command {
	return &cli.Command{
		Name:  "data",
		Usage: "Inspect structured test data",
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Print the value at a path in a test data document",
				ArgsUsage: "<document> <path>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return cli.Exit("expected <document> <path>", 2)
					}
					resolver, err := buildResolver(c)
					if err != nil {
						return err
					}
					return internalcli.RunDataGet(c.App.Writer, resolver, c.Args().Get(0), c.Args().Get(1))
				},
			},
			{
				Name:      "records",
				Usage:     "Print a test data document as flattened records",
				ArgsUsage: "<document>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("expected <document>", 2)
					}
					resolver, err := buildResolver(c)
					if err != nil {
						return err
					}
					return internalcli.RunDataRecords(c.App.Writer, resolver, c.Args().First())
				},
			},
		},
	}
}

// BrowserCommand returns the browser command
func BrowserCommand() *cli.Command {
	return &cli.Command{
		Name:  "browser",
		Usage: "Manage and check browsers",
		Subcommands: []*cli.Command{
			{
				Name:  "smoke",
				Usage: "Open the shop's base URL in a browser and print its title",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "browser",
						Usage: "browser kind (CHROME, FIREFOX, EDGE); defaults to the configured one",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := loadSuiteConfig(c)
					if err != nil {
						return err
					}

					name := cfg.Browser
					if c.IsSet("browser") {
						name = c.String("browser")
					}
					kind, err := browser.ParseKind(name)
					if err != nil {
						return err
					}

					logger, err := logging.New(cfg.LogLevel)
					if err != nil {
						return err
					}
					defer logger.Sync()

					factory, err := browser.NewPlaywrightFactory(logger)
					if err != nil {
						return err
					}
					defer factory.Close()

					return internalcli.RunSmoke(c.Context, internalcli.SmokeDependencies{
						Registry:    driver.NewRegistry(factory, browser.DefaultOptions(cfg.Headless), logger),
						Kind:        kind,
						BaseURL:     cfg.BaseURL,
						WaitTimeout: cfg.WaitTimeout,
						Logger:      logger,
					}, c.App.Writer)
				},
			},
			{
				Name:  "install",
				Usage: "Install the playwright driver and browsers",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "browser",
						Usage: "browser kind to install, repeatable; all when omitted",
					},
				},
				Action: func(c *cli.Context) error {
					var kinds []browser.Kind
					for _, name := range c.StringSlice("browser") {
						kind, err := browser.ParseKind(name)
						if err != nil {
							return err
						}
						kinds = append(kinds, kind)
					}
					return browser.Install(kinds...)
				},
			},
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "shopsuite",
		Usage:   "UI test automation toolkit for the demo shop",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to the properties file",
				Value:   "config/config.properties",
				EnvVars: []string{"SHOPSUITE_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			DataCommand(),
			BrowserCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		log.Fatal(err)
	}
}
