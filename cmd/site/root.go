package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bayshorebuild.com/site-web/content"
	"bayshorebuild.com/site-web/internal/cms"
	"bayshorebuild.com/site-web/internal/config"
	"bayshorebuild.com/site-web/internal/observability"
	"bayshorebuild.com/site-web/internal/render"
	"bayshorebuild.com/site-web/public"
	"bayshorebuild.com/site-web/templates"
)

// app is the state shared by every subcommand once the root has run.
type app struct {
	cfgFile string
	dev     bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "site",
		Short: "Bayshore Build marketing site",
		Long: `site renders the Bayshore Build marketing pages from the content
fixtures. It can write a static build, serve pages for local preview, or
audit the rendered HTML.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./config.yaml)")
	root.PersistentFlags().BoolVar(&a.dev, "dev", false, "development mode: console logs, template reparsing, uncached assets")

	root.AddCommand(newBuildCmd(a), newServeCmd(a), newAuditCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	var opts []config.Option
	if a.cfgFile != "" {
		opts = append(opts, config.WithConfigFile(a.cfgFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("dev") {
		cfg.Dev = a.dev
	}
	logger, err := observability.NewLogger(cfg.LogLevel, cfg.Dev)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger.Named(cfg.Site.Name)
	if cfg.ConfigFile != "" {
		a.logger.Debug("using config file", zap.String("path", cfg.ConfigFile))
	}
	return nil
}

// sources are the content, template and static trees, either embedded or
// read from the directories named in the config.
type sources struct {
	content   fs.FS
	templates fs.FS
	static    fs.FS
}

func (a *app) sources() (sources, error) {
	var s sources
	paths := a.cfg.Paths
	s.content = dirOr(paths.Content, content.FS())
	s.templates = dirOr(paths.Templates, templates.FS())
	if paths.Static != "" {
		s.static = os.DirFS(paths.Static)
	} else {
		static, err := public.StaticFS()
		if err != nil {
			return sources{}, fmt.Errorf("embed static: %w", err)
		}
		s.static = static
	}
	return s, nil
}

// sourceDirs lists the on-disk source trees a build must never clean.
func (a *app) sourceDirs() []string {
	var dirs []string
	for _, d := range []string{a.cfg.Paths.Content, a.cfg.Paths.Templates, a.cfg.Paths.Static} {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func dirOr(dir string, embedded fs.FS) fs.FS {
	if dir == "" {
		return embedded
	}
	return os.DirFS(dir)
}

func (a *app) renderer(templatesFS fs.FS) (*render.Renderer, error) {
	return render.New(render.Options{
		Templates: templatesFS,
		Dev:       a.cfg.Dev,
		BaseURL:   a.cfg.Site.BaseURL,
		Analytics: render.Analytics{GA4MeasurementID: a.cfg.Analytics.GA4MeasurementID},
	})
}

func (a *app) loadSite(contentFS fs.FS) (*cms.Site, error) {
	site, err := cms.Load(contentFS)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	return site, nil
}
