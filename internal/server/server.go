package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tpcpricelists/pricelist/internal/cache"
	"github.com/tpcpricelists/pricelist/internal/domain"
	"github.com/tpcpricelists/pricelist/internal/extract"
	"github.com/tpcpricelists/pricelist/internal/nonce"
	"github.com/tpcpricelists/pricelist/internal/pdf"
)

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

const (
	upstreamDownBody = "Can't connect to TPC at the moment. Please try again later."
	malformedBody    = "Invalid username, incomplete info (missing location/contact no) or no user items."
	timeoutBody      = "Timeout."
)

// Server wires the generation pipeline behind the two public routes:
// GET /<owner> serves the form, POST / generates and serves the PDF.
type Server struct {
	store   cache.Store
	guard   *nonce.Guard
	fetcher domain.Fetcher
	builder *pdf.Builder
	timeout time.Duration
	seed    []string // fallback owner list before anything is cached
	events  chan<- domain.Event

	group singleflight.Group
	now   func() time.Time
}

func New(store cache.Store, guard *nonce.Guard, fetcher domain.Fetcher, builder *pdf.Builder,
	timeout time.Duration, seed []string, events chan<- domain.Event) *Server {
	return &Server{
		store:   store,
		guard:   guard,
		fetcher: fetcher,
		builder: builder,
		timeout: timeout,
		seed:    seed,
		events:  events,
		now:     time.Now,
	}
}

// ServeHTTP mirrors the original catch-all route: any POST triggers
// generation, everything else renders the form for the path's owner.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		s.handleGenerate(w, r)
		return
	}
	s.handleForm(w, r)
}

type formData struct {
	Username string
	Nonce    string
	Owners   []string
	Example  string
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	owner := strings.Trim(r.URL.Path, "/")

	token, err := s.guard.Issue()
	if err != nil {
		slog.Error("nonce issuance failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	owners, err := s.store.Owners(r.Context())
	if err != nil {
		slog.Warn("owner list unavailable", "err", err)
	}
	if len(owners) == 0 {
		owners = s.seed
	}
	example := ""
	if len(owners) > 0 {
		example = owners[rand.Intn(len(owners))]
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, formData{
		Username: owner,
		Nonce:    token,
		Owners:   owners,
		Example:  example,
	}); err != nil {
		slog.Error("form render failed", "err", err)
	}
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")

	if !s.guard.Consume(r.FormValue("nonce")) {
		slog.Info("nonce rejected", "username", username)
		http.Redirect(w, r, "/"+url.PathEscape(username), http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	start := s.now()
	today := start.Format("2006-01-02")

	result, err := s.pricelist(ctx, username, today)
	if err != nil {
		s.fail(w, username, err)
		return
	}

	s.record(domain.Event{
		Username:   username,
		Items:      result.items,
		Pages:      result.pages,
		CacheHit:   result.hit,
		DurationMS: time.Since(start).Milliseconds(),
		CreatedUTC: float64(start.Unix()),
	})
	slog.Info("pricelist served", "username", username, "cache_hit", result.hit,
		"pages", result.pages, "bytes", len(result.pdf))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_pricelist_%s.pdf",
		username, strings.ReplaceAll(today, "-", "_")))
	w.Write(result.pdf)
}

type generated struct {
	pdf   []byte
	pages int
	items int
	hit   bool
}

// pricelist resolves the cache, collapsing concurrent misses for the same
// username into a single fetch+render.
func (s *Server) pricelist(ctx context.Context, username, today string) (generated, error) {
	if pdfBytes, err := s.store.Get(ctx, username); err == nil {
		return generated{pdf: pdfBytes, hit: true}, nil
	} else if !errors.Is(err, cache.ErrNotFound) {
		slog.Warn("cache read failed", "username", username, "err", err)
	}

	v, err, shared := s.group.Do(username, func() (any, error) {
		// Another request may have finished while we queued behind it.
		if pdfBytes, err := s.store.Get(ctx, username); err == nil {
			return generated{pdf: pdfBytes, hit: true}, nil
		}
		return s.regenerate(ctx, username, today)
	})
	if err != nil {
		return generated{}, err
	}
	result := v.(generated)
	if shared {
		result.hit = true
	}
	return result, nil
}

func (s *Server) regenerate(ctx context.Context, username, today string) (generated, error) {
	body, err := s.fetcher.FetchItems(ctx, username)
	if err != nil {
		return generated{}, err
	}
	defer body.Close()

	listing, err := extract.Extract(body)
	if err != nil {
		return generated{}, err
	}

	doc, err := s.builder.Build(username, today, listing)
	if err != nil {
		return generated{}, err
	}

	// A timed-out request must never leave a partial entry behind.
	if ctx.Err() != nil {
		return generated{}, ctx.Err()
	}
	if err := s.store.Put(ctx, username, doc.Bytes); err != nil {
		slog.Warn("cache write failed", "username", username, "err", err)
	}
	return generated{pdf: doc.Bytes, pages: doc.Pages, items: len(listing.Items)}, nil
}

func (s *Server) fail(w http.ResponseWriter, username string, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		slog.Error("generation timed out", "username", username)
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, timeoutBody)
	case errors.Is(err, domain.ErrMalformedSource):
		slog.Info("malformed seller page", "username", username, "err", err)
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, malformedBody)
	default:
		slog.Error("upstream fetch failed", "username", username, "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, upstreamDownBody)
	}
}

func (s *Server) record(event domain.Event) {
	select {
	case s.events <- event:
	default:
		// Never block a response on the audit log.
	}
}
