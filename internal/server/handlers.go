package server

import (
	"bytes"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"bayshorebuild.com/site-web/internal/cms"
	"bayshorebuild.com/site-web/internal/observability"
	"bayshorebuild.com/site-web/internal/render"
	"bayshorebuild.com/site-web/internal/sitemap"
)

type siteHandler struct {
	store    *cms.Store
	renderer *render.Renderer
	baseURL  string
	disallow []string
}

func (h *siteHandler) base(site *cms.Site) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	return site.Business.URL
}

// page renders the route, redirecting /x to /x/ when only the latter exists.
func (h *siteHandler) page(w http.ResponseWriter, r *http.Request) {
	logger := observability.FromContext(r.Context())
	site := h.store.Site()
	reqPath := r.URL.Path
	canonical := cms.NormalizeRoute(reqPath)

	if canonical != reqPath {
		if site.Has(canonical) {
			target := canonical
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}
		h.notFound(w, r, site)
		return
	}

	p, err := site.Page(canonical)
	if errors.Is(err, cms.ErrNotFound) {
		h.notFound(w, r, site)
		return
	}
	if err != nil {
		logger.Error("page lookup failed", zap.String("route", canonical), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Page(&buf, site, p); err != nil {
		logger.Error("render page failed", zap.String("route", canonical), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

func (h *siteHandler) notFound(w http.ResponseWriter, r *http.Request, site *cms.Site) {
	var buf bytes.Buffer
	if err := h.renderer.NotFound(&buf, site); err != nil {
		observability.FromContext(r.Context()).Error("render 404 failed", zap.Error(err))
		http.NotFound(w, r)
		return
	}
	writeHTML(w, http.StatusNotFound, buf.Bytes())
}

func (h *siteHandler) sitemap(w http.ResponseWriter, r *http.Request) {
	site := h.store.Site()
	var buf bytes.Buffer
	if err := sitemap.Build(h.base(site), site.Pages()).Encode(&buf); err != nil {
		observability.FromContext(r.Context()).Error("encode sitemap failed", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *siteHandler) robots(w http.ResponseWriter, r *http.Request) {
	site := h.store.Site()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(sitemap.Robots(h.base(site), h.disallow...)))
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
