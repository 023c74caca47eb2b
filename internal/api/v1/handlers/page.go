package handlers

import (
	"context"
	"net/http"

	"github.com/gabrieldfa/tia/internal/config"
	"github.com/gabrieldfa/tia/internal/services/session"
	"github.com/gabrieldfa/tia/internal/shell"
	"github.com/gabrieldfa/tia/internal/web"
	"github.com/rs/zerolog/log"
)

// sessionAsker answers on the thread of the request's session, creating the
// session on first use
type sessionAsker struct {
	assistant Assistant
	sessions  *session.Service
	w         http.ResponseWriter
	r         *http.Request
}

func (a *sessionAsker) Ask(ctx context.Context, text string) (string, error) {
	threadID, err := a.sessions.ResolveThread(a.w, a.r, newThreadFunc(a.assistant))
	if err != nil {
		return "", err
	}
	return a.assistant.Send(ctx, threadID, text)
}

func renderPage(w http.ResponseWriter, page *web.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	if err := web.Render(w, page); err != nil {
		log.Error().Err(err).Msg("Failed to render page")
	}
}

// HandlePage serves the empty chat page
func HandlePage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, web.NewPage(config.GetCourseName(), config.GetLogoURL()))
}

// HandleSubmit answers the submitted form and renders the page with the reply
func HandleSubmit(assistantService Assistant, sessionService *session.Service, w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Warn().Err(err).Msg("Client sent malformed form")
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	page := web.NewPage(config.GetCourseName(), config.GetLogoURL())
	formShell := web.NewFormShell(r.PostFormValue("query"), page)
	asker := &sessionAsker{assistant: assistantService, sessions: sessionService, w: w, r: r}

	if err := shell.Run(r.Context(), formShell, asker); err != nil {
		log.Error().Err(err).Msg("Failed to process form submission")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	log.Info().
		Str("client_ip", r.RemoteAddr).
		Bool("answered", page.Answer != "").
		Msg("Form submission processed")

	renderPage(w, page)
}

// HandleReset drops the session so the next question starts a new thread
func HandleReset(sessionService *session.Service, w http.ResponseWriter, r *http.Request) {
	sessionService.ClearSession(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
