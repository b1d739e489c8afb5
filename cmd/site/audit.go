package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"bayshorebuild.com/site-web/internal/audit"
)

func newAuditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "audit [route...]",
		Short: "Render pages in memory and report audit findings",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			routes := args
			if len(routes) == 0 {
				routes = site.Routes()
			}
			auditor := audit.New(site.Routes()).WithAssets(src.static)
			out := cmd.OutOrStdout()
			total := 0
			for _, route := range routes {
				p, err := site.Page(route)
				if err != nil {
					return fmt.Errorf("audit %s: %w", route, err)
				}
				var buf bytes.Buffer
				if err := r.Page(&buf, site, p); err != nil {
					return err
				}
				findings, err := auditor.Check(p.Route, &buf)
				if err != nil {
					return err
				}
				for _, f := range findings {
					fmt.Fprintln(out, f.String())
				}
				total += len(findings)
			}
			fmt.Fprintf(out, "%d page(s) checked, %d finding(s)\n", len(routes), total)
			if total > 0 {
				return fmt.Errorf("audit found %d problem(s)", total)
			}
			return nil
		},
	}
}
