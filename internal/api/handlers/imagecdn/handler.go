// Package imagecdn provides HTTP handlers that rewrite image CDN URLs.
// Handlers never fetch images; they only compute URLs.
package imagecdn

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"Unpic"
	"Unpic/internal/api/handlers"
)

// Query parameter prefixes for extra operations and provider options.
const (
	operationPrefix = "op."
	optionPrefix    = "opt."
)

// Handler handles HTTP requests for URL rewriting.
type Handler struct {
	service unpic.Service
}

// NewHandler creates a new image CDN handler.
func NewHandler(service unpic.Service) *Handler {
	return &Handler{service: service}
}

// HandleTransform handles GET /transform
// It returns {"url": ...} for the rewritten URL, or 404 when no CDN applies.
func (h *Handler) HandleTransform(w http.ResponseWriter, r *http.Request) {
	out, ok := h.transform(w, r)
	if !ok {
		return
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]string{"url": out})
}

// HandleRedirect handles GET /img
// It redirects to the rewritten URL so it can be used directly as an image
// source.
func (h *Handler) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	out, ok := h.transform(w, r)
	if !ok {
		return
	}
	// http.Redirect cleans relative targets, which collapses the "//" of a
	// source URL embedded in the path.
	w.Header().Set("Location", out)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusFound)
}

// HandleParse handles GET /parse
func (h *Handler) HandleParse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw := q.Get("url")
	if raw == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "url is required")
		return
	}
	c, err := cdnParam(q, "cdn")
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}

	parsed, ok := h.service.ParseURL(raw, c)
	if !ok {
		handlers.WriteError(w, http.StatusNotFound, "UnrecognizedURL", "no image CDN recognizes the URL")
		return
	}

	operations := make(map[string]string)
	for _, p := range parsed.Operations.Params() {
		operations[p.Key] = p.Value.String()
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"cdn":        parsed.CDN,
		"src":        parsed.Src,
		"operations": operations,
		"options":    parsed.Options,
	})
}

// HandleCanonical handles GET /canonical
func (h *Handler) HandleCanonical(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw := q.Get("url")
	if raw == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "url is required")
		return
	}
	c, err := cdnParam(q, "default")
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}

	d, ok := h.service.CanonicalCDNForURL(raw, c)
	if !ok {
		handlers.WriteError(w, http.StatusNotFound, "UnrecognizedURL", "no image CDN recognizes the URL")
		return
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"cdn": d.CDN,
		"url": d.URL,
	})
}

// transform runs the request described by the query. It writes the error
// response and returns false on failure.
func (h *Handler) transform(w http.ResponseWriter, r *http.Request) (string, bool) {
	req, err := requestFromQuery(r.URL.Query())
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return "", false
	}

	out, err := h.service.TransformURL(req)
	if err != nil {
		handleServiceError(w, err)
		return "", false
	}
	if out == "" {
		handlers.WriteError(w, http.StatusNotFound, "UnrecognizedURL", "no image CDN recognizes the URL and no fallback is set")
		return "", false
	}
	return out, true
}

// requestFromQuery builds a request from url, cdn, fallback, width, height,
// format and quality parameters. "op.<key>" adds an extra operation and
// "opt.<key>" a provider option for the cdn or fallback.
func requestFromQuery(q url.Values) (unpic.Request, error) {
	req := unpic.Request{
		URL: q.Get("url"),
		Operations: unpic.Operations{
			Width:   unpic.ParseValue(q.Get("width")),
			Height:  unpic.ParseValue(q.Get("height")),
			Format:  q.Get("format"),
			Quality: unpic.ParseValue(q.Get("quality")),
		},
	}
	if req.URL == "" {
		return unpic.Request{}, errors.New("url is required")
	}

	var err error
	if req.CDN, err = cdnParam(q, "cdn"); err != nil {
		return unpic.Request{}, err
	}
	if req.Fallback, err = cdnParam(q, "fallback"); err != nil {
		return unpic.Request{}, err
	}

	// Extras are added in key order so the generated URL is stable.
	opts := unpic.Options{}
	for _, key := range slices.Sorted(maps.Keys(q)) {
		value := q.Get(key)
		switch {
		case strings.HasPrefix(key, operationPrefix) && len(key) > len(operationPrefix):
			req.Operations.Set(strings.TrimPrefix(key, operationPrefix), unpic.ParseValue(value))
		case strings.HasPrefix(key, optionPrefix) && len(key) > len(optionPrefix):
			opts[strings.TrimPrefix(key, optionPrefix)] = value
		}
	}

	if len(opts) > 0 {
		target := req.CDN
		if target == "" {
			target = req.Fallback
		}
		if target == "" {
			return unpic.Request{}, errors.New("provider options need cdn or fallback")
		}
		req.ProviderOptions = map[unpic.ImageCDN]unpic.Options{target: opts}
	}
	return req, nil
}

func cdnParam(q url.Values, name string) (unpic.ImageCDN, error) {
	value := q.Get(name)
	if value == "" {
		return "", nil
	}
	c, ok := unpic.ParseCDN(value)
	if !ok {
		return "", fmt.Errorf("unsupported %s: %s", name, value)
	}
	return c, nil
}

// handleServiceError converts service errors to appropriate HTTP responses.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, unpic.ErrUnknownProvider):
		handlers.WriteError(w, http.StatusBadRequest, "UnknownProvider", err.Error())
	case errors.Is(err, unpic.ErrMissingIdentifiers):
		handlers.WriteError(w, http.StatusBadRequest, "MissingIdentifiers", err.Error())
	case errors.Is(err, unpic.ErrInvalidSource):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidSource", err.Error())
	case errors.Is(err, unpic.ErrInvalidPreset):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidPreset", err.Error())
	case errors.Is(err, unpic.ErrUnrecognizedURL):
		handlers.WriteError(w, http.StatusUnprocessableEntity, "UnrecognizedURL", err.Error())
	default:
		slog.Error("[IMAGE-CDN] unhandled service error",
			"error", err,
		)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "internal server error")
	}
}
