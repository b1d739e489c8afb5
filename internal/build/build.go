// Package build renders the whole site to a directory of static files.
package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bayshorebuild.com/site-web/internal/audit"
	"bayshorebuild.com/site-web/internal/cms"
	"bayshorebuild.com/site-web/internal/render"
	"bayshorebuild.com/site-web/internal/sitemap"
)

var (
	// ErrAuditFailed is returned in strict mode when the audit reports findings.
	ErrAuditFailed = errors.New("build: audit failed")
	// ErrRobotsBlocksPages is returned when a Disallow rule hides a page.
	ErrRobotsBlocksPages = errors.New("build: robots.txt blocks pages")
)

// Options configures Run.
type Options struct {
	Site     *cms.Site
	Renderer *render.Renderer
	// Static is copied to <OutputDir>/assets. Nil skips the copy.
	Static      fs.FS
	OutputDir   string
	BaseURL     string
	Concurrency int
	Strict      bool
	// Disallow becomes robots.txt Disallow rules. A rule that hides a page fails the build.
	Disallow []string
	// Protect lists source directories the output directory must not contain.
	Protect []string
	Logger  *zap.Logger
}

// Result summarises a build.
type Result struct {
	Pages    int
	Assets   int
	Findings []audit.Finding
	Duration time.Duration
}

// Run cleans OutputDir, writes every page, the 404 page, sitemap.xml and
// robots.txt, then audits the rendered pages.
func Run(ctx context.Context, opts Options) (Result, error) {
	start := time.Now()
	if opts.Site == nil || opts.Renderer == nil {
		return Result{}, errors.New("build: site and renderer are required")
	}
	out, err := safeOutputDir(opts.OutputDir, opts.Protect)
	if err != nil {
		return Result{}, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = opts.Site.Business.URL
	}
	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	robots := sitemap.Robots(baseURL, opts.Disallow...)
	blocked, err := sitemap.Blocked(robots, opts.Site.Routes())
	if err != nil {
		return Result{}, err
	}
	if len(blocked) > 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrRobotsBlocksPages, strings.Join(blocked, ", "))
	}

	if err := os.RemoveAll(out); err != nil {
		return Result{}, fmt.Errorf("build: clean %s: %w", out, err)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return Result{}, fmt.Errorf("build: create %s: %w", out, err)
	}

	var res Result
	if opts.Static != nil {
		n, err := copyStatic(opts.Static, filepath.Join(out, "assets"))
		if err != nil {
			return Result{}, err
		}
		res.Assets = n
	}

	pages := opts.Site.Pages()
	auditor := audit.New(opts.Site.Routes())
	if opts.Static != nil {
		auditor.WithAssets(opts.Static)
	}
	var (
		mu       sync.Mutex
		findings []audit.Finding
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, p := range pages {
		p := p // per-iteration copy (Go 1.22 loopvar semantics under go 1.21)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := opts.Renderer.Page(&buf, opts.Site, p); err != nil {
				return err
			}
			if err := writeFile(filepath.Join(out, routeFile(p.Route)), buf.Bytes()); err != nil {
				return err
			}
			found, err := auditor.Check(p.Route, bytes.NewReader(buf.Bytes()))
			if err != nil {
				return err
			}
			logger.Debug("page written", zap.String("route", p.Route), zap.Int("bytes", buf.Len()))
			if len(found) > 0 {
				mu.Lock()
				findings = append(findings, found...)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	res.Pages = len(pages)

	var notFound bytes.Buffer
	if err := opts.Renderer.NotFound(&notFound, opts.Site); err != nil {
		return Result{}, err
	}
	if err := writeFile(filepath.Join(out, "404.html"), notFound.Bytes()); err != nil {
		return Result{}, err
	}

	var sm bytes.Buffer
	if err := sitemap.Build(baseURL, pages).Encode(&sm); err != nil {
		return Result{}, err
	}
	if err := writeFile(filepath.Join(out, "sitemap.xml"), sm.Bytes()); err != nil {
		return Result{}, err
	}
	if err := writeFile(filepath.Join(out, "robots.txt"), []byte(robots)); err != nil {
		return Result{}, err
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Route != findings[j].Route {
			return findings[i].Route < findings[j].Route
		}
		return findings[i].Rule < findings[j].Rule
	})
	res.Findings = findings
	res.Duration = time.Since(start)

	for _, f := range findings {
		logger.Warn("audit finding", zap.String("route", f.Route), zap.String("rule", f.Rule), zap.String("detail", f.Message))
	}
	logger.Info("build complete",
		zap.String("output", out),
		zap.Int("pages", res.Pages),
		zap.Int("assets", res.Assets),
		zap.Int("findings", len(findings)),
		zap.Duration("duration", res.Duration),
	)

	if opts.Strict && len(findings) > 0 {
		return res, fmt.Errorf("%w: %d finding(s)", ErrAuditFailed, len(findings))
	}
	return res, nil
}

// routeFile maps /a/b/ to a/b/index.html.
func routeFile(route string) string {
	rel := strings.Trim(route, "/")
	if rel == "" {
		return "index.html"
	}
	return filepath.Join(filepath.FromSlash(rel), "index.html")
}

// safeOutputDir resolves dir and refuses any directory whose removal would
// take the working directory or a source tree with it.
func safeOutputDir(dir string, protect []string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "", errors.New("build: output directory is required")
	}
	out, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("build: resolve %s: %w", dir, err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("build: working directory: %w", err)
	}
	if within(wd, out) {
		return "", fmt.Errorf("build: refusing output directory %q: it contains the working directory", dir)
	}
	for _, p := range protect {
		if strings.TrimSpace(p) == "" {
			continue
		}
		src, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("build: resolve %s: %w", p, err)
		}
		if within(src, out) {
			return "", fmt.Errorf("build: refusing output directory %q: it contains source directory %s", dir, p)
		}
	}
	return out, nil
}

// within reports whether target is base or lies beneath it.
func within(target, base string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func writeFile(name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("build: mkdir for %s: %w", name, err)
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("build: write %s: %w", name, err)
	}
	return nil
}

func copyStatic(src fs.FS, dst string) (int, error) {
	count := 0
	err := fs.WalkDir(src, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		in, err := src.Open(name)
		if err != nil {
			return err
		}
		defer in.Close()
		target := filepath.Join(dst, filepath.FromSlash(path.Clean(name)))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		outFile, err := os.Create(target)
		if err != nil {
			return err
		}
		if _, err := io.Copy(outFile, in); err != nil {
			outFile.Close()
			return err
		}
		count++
		return outFile.Close()
	})
	if err != nil {
		return 0, fmt.Errorf("build: copy static assets: %w", err)
	}
	return count, nil
}
