package api

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/dennisdiepolder/callboard/internal/alerts"
	"github.com/dennisdiepolder/callboard/internal/chart"
	"github.com/dennisdiepolder/callboard/internal/dashboard"
	"github.com/dennisdiepolder/callboard/internal/types"
	"github.com/dennisdiepolder/callboard/internal/websocket"
	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"trend": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
}).ParseFS(templatesFS, "templates/*.html"))

// confirmCopy is the text of a confirmation overlay
type confirmCopy struct {
	Title   string
	Message string
	Kind    string // warning or danger
}

var confirmCopies = map[dashboard.Modal]confirmCopy{
	dashboard.ModalConfirmOverwrite: {
		Title:   "Overwrite Existing Data?",
		Message: "Previous data found for this email! Do you want to overwrite it?",
		Kind:    "warning",
	},
	dashboard.ModalConfirmDiscard: {
		Title:   "Discard Changes?",
		Message: "You have unsaved changes. Are you sure you want to discard them?",
		Kind:    "danger",
	},
}

// pageData feeds templates/dashboard.html
type pageData struct {
	View        dashboard.View
	Cards       []types.MetricCard
	Duration    template.HTML
	Volume      template.HTML
	Failures    template.HTML
	SuccessRate string
	Legend      []chart.Slice
	Alerts      []types.Alert
	Confirm     confirmCopy
	EmailTitle  string
	EmailValue  string
	Fingerprint string
}

// Index handles GET /, rendering the dashboard for the cookie session
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ctrl := h.cookieSession(w, r)
	view := ctrl.View()

	data, err := h.page(view)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to build page")
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTemplates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		h.logger.Error().Err(err).Msg("failed to render dashboard")
	}
}

// FormAction handles POST /ui/actions and redirects back to the dashboard
func (h *Handler) FormAction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	index, indexErr := strconv.Atoi(strings.TrimSpace(r.PostFormValue("index")))
	value, valueErr := strconv.Atoi(strings.TrimSpace(r.PostFormValue("value")))
	if r.PostFormValue("action") == "change_value" && (indexErr != nil || valueErr != nil) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	action, ok := dashboard.ParseAction(r.PostFormValue("action"), index, value, r.PostFormValue("email"))
	if !ok {
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}

	ctrl := h.cookieSession(w, r)
	ctrl.Dispatch(context.WithoutCancel(r.Context()), action)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Chart handles GET /charts/{name}.svg for the cookie session
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	ctrl := h.cookieSession(w, r)
	h.writeSVG(w, chi.URLParam(r, "name"), ctrl.View())
}

// cookieSession returns the session named by the cookie, starting a new one
// when the cookie is missing or stale
func (h *Handler) cookieSession(w http.ResponseWriter, r *http.Request) *dashboard.Controller {
	var id string
	if cookie, err := r.Cookie(websocket.SessionCookie); err == nil {
		id = cookie.Value
	}

	ctrl, created := h.sessions.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     websocket.SessionCookie,
			Value:    ctrl.ID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return ctrl
}

func (h *Handler) page(view dashboard.View) (pageData, error) {
	data := h.dataset(view)

	duration, err := chart.Inline(chart.NameDuration, data)
	if err != nil {
		return pageData{}, err
	}
	volume, err := chart.Inline(chart.NameVolume, data)
	if err != nil {
		return pageData{}, err
	}
	failures, err := chart.Inline(chart.NameFailures, data)
	if err != nil {
		return pageData{}, err
	}

	p := pageData{
		View:        view,
		Cards:       h.cards,
		Duration:    duration,
		Volume:      volume,
		Failures:    failures,
		SuccessRate: strconv.FormatFloat(chart.Volume(h.volume).SuccessRate, 'f', 1, 64),
		Legend:      chart.Donut(view.FailureReasons, chart.DefaultDonut).Slices,
		Alerts:      alerts.Check(h.volume, view.FailureReasons),
		Confirm:     confirmCopies[view.Modal],
		EmailValue:  view.PendingEmail,
		Fingerprint: Fingerprint(view),
	}

	if view.Modal == dashboard.ModalLoadEmail {
		p.EmailTitle = "Load Your Data"
	} else {
		p.EmailTitle = "Save Your Data"
	}
	if p.EmailValue == "" {
		p.EmailValue = view.ActiveEmail
	}

	return p, nil
}

// Fingerprint summarizes what the page shows so the browser can tell whether a
// pushed view needs a reload. The page script computes the same string.
func Fingerprint(v dashboard.View) string {
	toast := ""
	if v.Toast != nil {
		toast = v.Toast.Message
	}
	return fmt.Sprintf("%s|%s|%s|%d|%s", v.Status, v.Modal, v.ActiveEmail, v.TotalFailures, toast)
}
