package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"docsummarizer/internal/domain"
	"docsummarizer/internal/markdown"
	"docsummarizer/internal/pipeline"
	"docsummarizer/internal/upload"
)

const multipartMemory = 8 << 20

type handler struct {
	runner         Runner
	page           *template.Template
	maxUploadBytes int64
	uploadDir      string
	log            *slog.Logger
}

type kindOption struct {
	Kind   domain.SourceKind
	Label  string
	Accept string
}

//nolint:gochecknoglobals // Immutable form options.
var kindOptions = []kindOption{
	{Kind: domain.SourceKindWebPage, Label: "Website URL"},
	{Kind: domain.SourceKindPDF, Label: "Upload PDF", Accept: ".pdf"},
	{Kind: domain.SourceKindText, Label: "Upload Text File", Accept: ".txt"},
	{Kind: domain.SourceKindImage, Label: "Upload Image", Accept: ".png,.jpg,.jpeg"},
}

type pageView struct {
	Kinds    []kindOption
	Selected domain.SourceKind
	URL      string
	Title    string
	Summary  template.HTML
	Error    string
}

type apiResponse struct {
	Title   string `json:"title,omitempty"`
	Summary string `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

func newPageView(selected domain.SourceKind) pageView {
	if selected == "" {
		selected = domain.SourceKindWebPage
	}

	return pageView{Kinds: kindOptions, Selected: selected}
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, newPageView(""))
}

func (h *handler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (h *handler) summarizeForm(w http.ResponseWriter, r *http.Request) {
	src, cleanup, err := h.sourceFromRequest(w, r)
	defer cleanup()

	view := newPageView(src.Kind)
	view.URL = src.URL

	if err != nil {
		view.Error = pipeline.DisplayMessage(err)
		h.render(w, r, http.StatusBadRequest, view)

		return
	}

	res, err := h.runner.Run(r.Context(), src)
	if err != nil {
		view.Error = pipeline.DisplayMessage(err)
		h.render(w, r, http.StatusOK, view)

		return
	}

	summary, err := markdown.ToHTML(res.Summary)
	if err != nil {
		h.log.ErrorContext(r.Context(), "Failed to render summary",
			"error", err,
			"title", res.Document.Title)

		summary = template.HTML("<pre>" + template.HTMLEscapeString(res.Summary) + "</pre>") //nolint:gosec // Escaped.
	}

	view.Title = res.Document.Title
	view.Summary = summary
	h.render(w, r, http.StatusOK, view)
}

func (h *handler) summarizeAPI(w http.ResponseWriter, r *http.Request) {
	src, cleanup, err := h.sourceFromRequest(w, r)
	defer cleanup()

	if err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, apiResponse{Error: pipeline.DisplayMessage(err)})

		return
	}

	res, err := h.runner.Run(r.Context(), src)
	if err != nil {
		kind, _ := domain.KindOf(err)
		h.writeJSON(w, r, statusForKind(kind), apiResponse{
			Error: pipeline.DisplayMessage(err),
			Kind:  string(kind),
		})

		return
	}

	h.writeJSON(w, r, http.StatusOK, apiResponse{Title: res.Document.Title, Summary: res.Summary})
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.ErrorKindUpstream:
		return http.StatusBadGateway
	case domain.ErrorKindFetch, domain.ErrorKindParse, domain.ErrorKindRecognition:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// sourceFromRequest reads the form and saves an uploaded file. The
// returned cleanup is always safe to call.
func (h *handler) sourceFromRequest(w http.ResponseWriter, r *http.Request) (domain.Source, func(), error) {
	cleanup := func() {}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			return domain.Source{}, cleanup, fmt.Errorf("parse form: %w", err)
		}

		if err = r.ParseForm(); err != nil {
			return domain.Source{}, cleanup, fmt.Errorf("parse form: %w", err)
		}
	}

	if r.MultipartForm != nil {
		form := r.MultipartForm
		cleanup = func() {
			if err := form.RemoveAll(); err != nil {
				h.log.ErrorContext(r.Context(), "Failed to remove multipart files",
					"error", err)
			}
		}
	}

	kind, err := domain.ParseSourceKind(r.FormValue("kind"))
	if err != nil {
		return domain.Source{}, cleanup, err
	}

	if kind == domain.SourceKindWebPage {
		pageURL := strings.TrimSpace(r.FormValue("url"))
		if pageURL == "" {
			return domain.Source{Kind: kind}, cleanup, errors.New("URL is required")
		}

		return domain.Source{Kind: kind, URL: pageURL}, cleanup, nil
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return domain.Source{Kind: kind}, cleanup, fmt.Errorf("read uploaded file: %w", err)
	}
	defer func() {
		if err = file.Close(); err != nil {
			h.log.ErrorContext(r.Context(), "Failed to close uploaded file",
				"error", err,
				"filename", header.Filename)
		}
	}()

	ext, err := upload.Extension(kind, header.Filename)
	if err != nil {
		return domain.Source{Kind: kind}, cleanup, err
	}

	path, err := upload.Save(h.uploadDir, ext, file)
	if err != nil {
		return domain.Source{Kind: kind}, cleanup, fmt.Errorf("save upload: %w", err)
	}

	formCleanup := cleanup
	cleanup = func() {
		upload.Remove(r.Context(), h.log, path)
		formCleanup()
	}

	return domain.Source{Kind: kind, Path: path}, cleanup, nil
}

func (h *handler) render(w http.ResponseWriter, r *http.Request, status int, view pageView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := h.page.Execute(w, view); err != nil {
		h.log.ErrorContext(r.Context(), "Failed to render page",
			"error", err,
			"status", status)
	}
}

func (h *handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.ErrorContext(r.Context(), "Failed to write JSON response",
			"error", err,
			"status", status)
	}
}
