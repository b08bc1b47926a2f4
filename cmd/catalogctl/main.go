package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matst80/gig-finder/pkg/api"
	"github.com/matst80/gig-finder/pkg/catalog"
	"github.com/matst80/gig-finder/pkg/config"
	"github.com/matst80/gig-finder/pkg/facet"
	"github.com/matst80/gig-finder/pkg/sorting"
	"github.com/matst80/gig-finder/pkg/view"
)

type app struct {
	configFile string
	apiUrl     string
	token      string
	locale     string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.apiUrl != "" {
		cfg.ApiUrl = a.apiUrl
	}
	if a.locale != "" {
		cfg.Locale = a.locale
	}
	if a.verbose {
		cfg.LogLevel = "debug"
		cfg.DevLog = true
	}
	a.cfg = cfg
	if a.logger, err = cfg.Logger(); err != nil {
		return err
	}
	return nil
}

func (a *app) client() (*api.Client, error) {
	c, err := api.New(a.cfg.ApiUrl,
		api.WithTimeout(a.cfg.RequestTimeout),
		api.WithRateLimit(a.cfg.ApiRateLimit),
		api.WithLogger(a.logger.Named("api")))
	if err != nil {
		return nil, err
	}
	if a.token != "" {
		c.SetToken(api.TokenFromString(a.token))
	}
	return c, nil
}

func (a *app) store() (*catalog.Store, error) {
	c, err := a.client()
	if err != nil {
		return nil, err
	}
	return catalog.NewStore(c, a.logger.Named("catalog")), nil
}

func (a *app) viewOptions() view.Options {
	mode := facet.CountLinks
	if a.cfg.CountMode == "groups" {
		mode = facet.CountGroups
	}
	return view.Options{Locale: sorting.ParseLocale(a.cfg.Locale), CountMode: mode}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Query the group catalog of the booking API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", os.Getenv("CONFIG_FILE"), "path to yaml config")
	root.PersistentFlags().StringVar(&a.apiUrl, "api", "", "booking api base url")
	root.PersistentFlags().StringVar(&a.token, "token", os.Getenv("API_TOKEN"), "bearer token")
	root.PersistentFlags().StringVar(&a.locale, "locale", "", "collation locale for name ordering")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newGroupsCmd(a), newBrowseCmd(a), newVocabularyCmd(a),
		newLoginCmd(a), newRegisterCmd(a), newProfileCmd(a), newAddressesCmd(a))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
