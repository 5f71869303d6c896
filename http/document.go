package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fwojciec/servicedoc"
	"github.com/go-chi/chi/v5"
)

// Office document media types.
const (
	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	pptxContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

// bulletinRequest is the body of POST /api/generate-bulletin. Older clients
// send the items under "data".
type bulletinRequest struct {
	BulletinData []servicedoc.BulletinItem `json:"bulletinData"`
	Data         []servicedoc.BulletinItem `json:"data"`
	ServiceDate  string                    `json:"serviceDate"`
	Filename     string                    `json:"filename"`
}

// welcomeSlideRequest is the body of POST /api/generate-welcome-slide.
type welcomeSlideRequest struct {
	LeadPastor string `json:"lead_pastor"`
}

// slideTemplatesResponse is the body of GET /api/slides.
type slideTemplatesResponse struct {
	Templates []string `json:"templates"`
}

func (s *Server) handleGenerateBulletin(w http.ResponseWriter, r *http.Request) {
	if s.BulletinRenderer == nil {
		s.Error(w, r, servicedoc.Errorf(servicedoc.ENOTIMPLEMENTED, "bulletin rendering is not configured"))
		return
	}

	var body bulletinRequest
	if err := decodeJSON(r, &body); err != nil {
		s.Error(w, r, err)
		return
	}

	doc := &servicedoc.BulletinDocument{
		Items:       body.BulletinData,
		ServiceDate: body.ServiceDate,
		Filename:    body.Filename,
	}
	if len(doc.Items) == 0 {
		doc.Items = body.Data
	}
	if doc.ServiceDate == "" {
		doc.ServiceDate = s.Now().Format("2006-01-02")
	}
	if doc.Filename == "" {
		doc.Filename = fmt.Sprintf("bulletin_%s.docx", doc.ServiceDate)
	}

	var buf bytes.Buffer
	if err := s.BulletinRenderer.RenderBulletin(r.Context(), &buf, doc); err != nil {
		s.Error(w, r, err)
		return
	}

	writeAttachment(w, docxContentType, doc.Filename, buf.Bytes())
}

func (s *Server) handleGenerateWelcomeSlide(w http.ResponseWriter, r *http.Request) {
	var body welcomeSlideRequest
	if err := decodeJSON(r, &body); err != nil {
		s.Error(w, r, err)
		return
	}
	if body.LeadPastor == "" {
		s.Error(w, r, servicedoc.Errorf(servicedoc.EINVALID, "lead_pastor is required"))
		return
	}

	s.renderSlide(w, r, servicedoc.SlideWelcome, "welcome_slide.pptx", map[string]string{
		"lead_pastor": body.LeadPastor,
	})
}

// handleGenerateSlide fills any stored deck template with the placeholder
// values in the JSON body.
func (s *Server) handleGenerateSlide(w http.ResponseWriter, r *http.Request) {
	template := chi.URLParam(r, "template")

	replacements := map[string]string{}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&replacements); err != nil {
			s.Error(w, r, servicedoc.Errorf(servicedoc.EINVALID, "invalid JSON body: %v", err))
			return
		}
	}

	s.renderSlide(w, r, template, template+".pptx", replacements)
}

func (s *Server) handleListSlides(w http.ResponseWriter, r *http.Request) {
	if s.SlideRenderer == nil {
		s.Error(w, r, servicedoc.Errorf(servicedoc.ENOTIMPLEMENTED, "slide rendering is not configured"))
		return
	}

	templates, err := s.SlideRenderer.SlideTemplates(r.Context())
	if err != nil {
		s.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, slideTemplatesResponse{Templates: templates})
}

func (s *Server) renderSlide(w http.ResponseWriter, r *http.Request, template, filename string, replacements map[string]string) {
	if s.SlideRenderer == nil {
		s.Error(w, r, servicedoc.Errorf(servicedoc.ENOTIMPLEMENTED, "slide rendering is not configured"))
		return
	}

	var buf bytes.Buffer
	if err := s.SlideRenderer.RenderSlide(r.Context(), &buf, template, replacements); err != nil {
		s.Error(w, r, err)
		return
	}

	writeAttachment(w, pptxContentType, filename, buf.Bytes())
}

// writeAttachment sends data as a file download.
func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
