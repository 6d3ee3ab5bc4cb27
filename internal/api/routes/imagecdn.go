package routes

import (
	"github.com/go-chi/chi/v5"

	imagecdnhandlers "Unpic/internal/api/handlers/imagecdn"
)

// RegisterImageCDNRoutes registers URL rewriting endpoints on the router.
//
// Routes:
//   - GET /transform: rewritten URL as JSON
//   - GET /img: redirect to the rewritten URL
//   - GET /parse: source image and operations of a CDN URL
//   - GET /canonical: the CDN and URL that actually serve an image
func RegisterImageCDNRoutes(r chi.Router, handler *imagecdnhandlers.Handler) {
	r.Get("/transform", handler.HandleTransform)
	r.Get("/img", handler.HandleRedirect)
	r.Get("/parse", handler.HandleParse)
	r.Get("/canonical", handler.HandleCanonical)
}
