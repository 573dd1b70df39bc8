package web

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"clubhouse/internal/adapters/email"
	"clubhouse/internal/adapters/http/middleware"
	"clubhouse/internal/adapters/http/perf"
	"clubhouse/internal/adapters/textgen"
	"clubhouse/internal/application/syncstore"
)

// Deps holds everything the HTTP layer needs. All fields except Store are
// optional; nil disables the corresponding feature.
type Deps struct {
	Store        *syncstore.Store
	TextGen      textgen.Generator
	Email        email.Sender
	EmailFrom    string
	EmailReplyTo string
	Perf         *perf.Collector
}

// Server carries the injected dependencies for all handlers.
type Server struct {
	store        *syncstore.Store
	textGen      textgen.Generator
	email        email.Sender
	emailFrom    string
	emailReplyTo string
	perf         *perf.Collector
}

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderMarkdown converts markdown to HTML. On a conversion failure the
// raw text comes back unchanged; the client escapes it anyway.
func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return md
	}
	return buf.String()
}

// loadCSRFKey reads the CSRF secret from CLUBHOUSE_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("CLUBHOUSE_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("CLUBHOUSE_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("CLUBHOUSE_ENV") == "production" {
		log.Fatal("CLUBHOUSE_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key. Set CLUBHOUSE_CSRF_KEY for production.")
	return key
}

// NewMux wires HTTP handlers for the app.
func NewMux(deps Deps) http.Handler {
	s := &Server{
		store:        deps.Store,
		textGen:      deps.TextGen,
		email:        deps.Email,
		emailFrom:    deps.EmailFrom,
		emailReplyTo: deps.EmailReplyTo,
		perf:         deps.Perf,
	}
	middleware.SecureCookies = os.Getenv("CLUBHOUSE_ENV") == "production"

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	csrfKey := loadCSRFKey()
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(deps.Store.Restore),
		middleware.RateLimit(limiter),
		middleware.Timing(deps.Perf),
	)
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write_json_failed", "error", err.Error())
	}
}
