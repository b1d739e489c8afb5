package main

import (
	"github.com/spf13/cobra"

	"bayshorebuild.com/site-web/internal/build"
)

func newBuildCmd(a *app) *cobra.Command {
	var (
		output string
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render every page into the output directory",
		Long: `build renders every page to <output>/<route>/index.html, copies static
assets under <output>/assets, writes 404.html, sitemap.xml and robots.txt, and
audits the result.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := a.sources()
			if err != nil {
				return err
			}
			site, err := a.loadSite(src.content)
			if err != nil {
				return err
			}
			r, err := a.renderer(src.templates)
			if err != nil {
				return err
			}
			opts := build.Options{
				Site:        site,
				Renderer:    r,
				Static:      src.static,
				OutputDir:   a.cfg.Build.OutputDir,
				BaseURL:     a.cfg.Site.BaseURL,
				Disallow:    a.cfg.Site.Disallow,
				Protect:     a.sourceDirs(),
				Concurrency: a.cfg.Build.Concurrency,
				Strict:      a.cfg.Build.Strict,
				Logger:      a.logger,
			}
			if cmd.Flags().Changed("output") {
				opts.OutputDir = output
			}
			if cmd.Flags().Changed("strict") {
				opts.Strict = strict
			}
			_, err = build.Run(cmd.Context(), opts)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (overrides build.output_dir)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the audit reports findings")
	return cmd
}
