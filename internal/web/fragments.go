package web

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/ManikantaChowdaryMusunuru/pethelp/internal/logging"
)

// renderComponent writes c as an HTML response with the given status.
func renderComponent(w http.ResponseWriter, r *http.Request, c templ.Component, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render fragment failed", "error", err)
	}
}
