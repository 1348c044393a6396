package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gompdf/stylepdf/internal/enhance"
	"github.com/gompdf/stylepdf/internal/parser/html"
	"github.com/gompdf/stylepdf/pkg/api"
)

type claudeRequest struct {
	APIKey   string            `json:"apiKey"`
	Model    string            `json:"model"`
	System   string            `json:"system"`
	Messages []enhance.Message `json:"messages"`
}

// handleClaude relays a Messages API call made with the caller's own key.
func (s *Server) handleClaude(w http.ResponseWriter, r *http.Request) {
	var req claudeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.APIKey == "" || req.Messages == nil {
		jsonError(w, "Missing required parameters", http.StatusBadRequest)
		return
	}

	status, raw, err := s.enhancer.Send(r.Context(), req.APIKey, enhance.MessagesRequest{
		Model:     req.Model,
		MaxTokens: enhance.MaxTokens,
		System:    req.System,
		Messages:  req.Messages,
	})
	if err != nil {
		s.log.Error("proxy request failed", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		s.log.Error("proxy received a non-JSON response", "status", status, "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if status < 200 || status > 299 {
		upstream, ok := body["error"]
		if !ok || string(upstream) == "null" {
			upstream, _ = json.Marshal("Error calling Claude API")
		}
		writeJSON(w, status, map[string]json.RawMessage{"error": upstream})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(raw)
}

type enhanceRequest struct {
	Text         string `json:"text"`
	Level        string `json:"level"`
	DocumentType string `json:"documentType"`
}

type enhanceResponse struct {
	Enhanced string `json:"enhanced"`
	Title    string `json:"title"`
}

func (s *Server) handleEnhance(w http.ResponseWriter, r *http.Request) {
	var req enhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	out, err := s.enhance(r, req)
	if err != nil {
		s.enhanceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, enhanceResponse{Enhanced: out, Title: html.Title(out)})
}

func (s *Server) enhance(r *http.Request, req enhanceRequest) (string, error) {
	level, docType := req.Level, req.DocumentType
	if level == "" {
		level = s.cfg.Enhance.Level
	}
	if docType == "" {
		docType = s.cfg.Enhance.DocumentType
	}
	return s.enhancer.Enhance(r.Context(), enhance.Request{
		Text:         req.Text,
		Level:        enhance.ParseLevel(level),
		DocumentType: enhance.ParseDocumentType(docType),
	})
}

func (s *Server) enhanceError(w http.ResponseWriter, err error) {
	var apiErr *enhance.APIError
	switch {
	case errors.Is(err, enhance.ErrEmptyContent):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, enhance.ErrMissingAPIKey):
		jsonError(w, "enhancement is not configured", http.StatusServiceUnavailable)
	case errors.As(err, &apiErr):
		s.log.Warn("enhancement rejected", "status", apiErr.StatusCode, "error", apiErr.Message)
		jsonError(w, apiErr.Message, apiErr.StatusCode)
	default:
		s.log.Error("enhancement failed", "error", err)
		jsonError(w, "enhancement failed", http.StatusBadGateway)
	}
}

type renderRequest struct {
	Text        string `json:"text"`
	Format      string `json:"format"`
	Title       string `json:"title"`
	Template    string `json:"template"`
	ColorClass  string `json:"colorClass"`
	Font        string `json:"font"`
	PageSize    string `json:"pageSize"`
	Orientation string `json:"orientation"`

	// Enhance runs the text through the enhancement client first and
	// renders the result as markup.
	Enhance      bool   `json:"enhance"`
	Level        string `json:"level"`
	DocumentType string `json:"documentType"`
}

// handleRender returns the rendered document as a PDF attachment.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}
	in := api.Input{Format: api.ParseFormat(req.Format), Text: req.Text}
	if err := api.CheckInput(in); err != nil {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}

	if req.Enhance {
		out, err := s.enhance(r, enhanceRequest{Text: req.Text, Level: req.Level, DocumentType: req.DocumentType})
		if err != nil {
			s.enhanceError(w, err)
			return
		}
		in = api.Input{Format: api.FormatMarkup, Text: out}
	}

	conv := s.converter()
	for _, opt := range req.options() {
		conv = conv.WithOption(opt)
	}
	doc, err := conv.Document(in)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	var buf bytes.Buffer
	if err := conv.Render(r.Context(), doc, &buf); err != nil {
		s.log.Error("render failed", "error", err)
		jsonError(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", api.FileName(doc.Title)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (req renderRequest) options() []api.Option {
	var opts []api.Option
	if req.Title != "" {
		opts = append(opts, api.WithTitle(req.Title))
	}
	if req.Template != "" {
		opts = append(opts, api.WithTemplate(req.Template))
	}
	if req.ColorClass != "" {
		opts = append(opts, api.WithColorClass(req.ColorClass))
	}
	if req.Font != "" {
		opts = append(opts, api.WithFontFamily(req.Font))
	}
	if req.PageSize != "" {
		opts = append(opts, api.WithPageSizeNamed(req.PageSize))
	}
	if req.Orientation == string(api.PageOrientationLandscape) {
		opts = append(opts, api.WithPageOrientation(api.PageOrientationLandscape))
	}
	return opts
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
