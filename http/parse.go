package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/fwojciec/servicedoc"
)

// Multipart field names of POST /api/parse-html.
const (
	fieldHTMLFile     = "htmlFile"
	fieldTemplates    = "templates"
	fieldPersonnel    = "personnel"
	fieldTemplateName = "templateName"
	fieldUseRoster    = "useRoster"
)

// handleParseHTML parses an uploaded planning-tool export.
//
// Templates and personnel come from JSON form fields. When templateName is
// set, the stored template of that name is used instead; when useRoster is
// true and no personnel field is sent, the stored roster is used.
func (s *Server) handleParseHTML(w http.ResponseWriter, r *http.Request) {
	if s.Parser == nil {
		s.Error(w, r, servicedoc.Errorf(servicedoc.ENOTIMPLEMENTED, "parsing is not configured"))
		return
	}

	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.Error(w, r, servicedoc.Errorf(servicedoc.EINVALID, "upload exceeds %d bytes", maxErr.Limit))
			return
		}
		s.Error(w, r, servicedoc.Errorf(servicedoc.EINVALID, "invalid multipart form: %v", err))
		return
	}

	file, header, err := r.FormFile(fieldHTMLFile)
	if err != nil {
		s.Error(w, r, servicedoc.Errorf(servicedoc.EINVALID, "%s is required", fieldHTMLFile))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if !utf8.Valid(content) {
		s.Error(w, r, servicedoc.Errorf(servicedoc.EINVALID, "%s must be UTF-8 encoded", fieldHTMLFile))
		return
	}

	req := &servicedoc.ParseRequest{
		HTML:     string(content),
		Filename: header.Filename,
	}

	if err := decodeFormJSON(r.FormValue(fieldTemplates), fieldTemplates, &req.Templates); err != nil {
		s.Error(w, r, err)
		return
	}
	if err := decodeFormJSON(r.FormValue(fieldPersonnel), fieldPersonnel, &req.Personnel); err != nil {
		s.Error(w, r, err)
		return
	}

	if name := r.FormValue(fieldTemplateName); name != "" {
		tmpl, err := s.findTemplateByName(r, name)
		if err != nil {
			s.Error(w, r, err)
			return
		}
		req.Templates = []*servicedoc.Template{tmpl}
	}

	if useRoster, _ := strconv.ParseBool(r.FormValue(fieldUseRoster)); useRoster && r.FormValue(fieldPersonnel) == "" {
		if s.PersonnelService == nil {
			s.Error(w, r, servicedoc.Errorf(servicedoc.ENOTIMPLEMENTED, "personnel storage is not configured"))
			return
		}
		roster, err := s.PersonnelService.Roster(r.Context())
		if err != nil {
			s.Error(w, r, err)
			return
		}
		req.Personnel = roster
	}

	res, err := s.Parser.Parse(r.Context(), req)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// decodeFormJSON decodes a JSON form value into v. An empty value leaves v
// untouched.
func decodeFormJSON(value, field string, v any) error {
	if value == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(value), v); err != nil {
		return servicedoc.Errorf(servicedoc.EINVALID, "invalid %s JSON: %v", field, err)
	}
	return nil
}

func (s *Server) findTemplateByName(r *http.Request, name string) (*servicedoc.Template, error) {
	if s.TemplateService == nil {
		return nil, servicedoc.Errorf(servicedoc.ENOTIMPLEMENTED, "template storage is not configured")
	}
	templates, err := s.TemplateService.FindTemplates(r.Context(), servicedoc.TemplateFilter{Name: &name, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, servicedoc.Errorf(servicedoc.ENOTFOUND, "template %q not found", name)
	}
	return templates[0], nil
}
