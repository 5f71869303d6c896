package http

import (
	"net/http"
	"strconv"

	"github.com/fwojciec/servicedoc"
	"github.com/go-chi/chi/v5"
)

// templateListResponse is the body of GET /api/templates.
type templateListResponse struct {
	Templates []*servicedoc.Template `json:"templates"`
}

// personnelBody is the body of GET and PUT /api/personnel.
type personnelBody struct {
	Personnel []string `json:"personnel"`
}

func (s *Server) templateService(w http.ResponseWriter, r *http.Request) (servicedoc.TemplateService, bool) {
	if s.TemplateService == nil {
		s.Error(w, r, servicedoc.Errorf(servicedoc.ENOTIMPLEMENTED, "template storage is not configured"))
		return nil, false
	}
	return s.TemplateService, true
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.templateService(w, r)
	if !ok {
		return
	}

	var filter servicedoc.TemplateFilter
	if name := r.URL.Query().Get("name"); name != "" {
		filter.Name = &name
	}
	var err error
	if filter.Limit, err = queryInt(r, "limit"); err != nil {
		s.Error(w, r, err)
		return
	}
	if filter.Offset, err = queryInt(r, "offset"); err != nil {
		s.Error(w, r, err)
		return
	}

	templates, err := svc.FindTemplates(r.Context(), filter)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	if templates == nil {
		templates = []*servicedoc.Template{}
	}

	writeJSON(w, http.StatusOK, templateListResponse{Templates: templates})
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.templateService(w, r)
	if !ok {
		return
	}

	var template servicedoc.Template
	if err := decodeJSON(r, &template); err != nil {
		s.Error(w, r, err)
		return
	}

	if err := svc.CreateTemplate(r.Context(), &template); err != nil {
		s.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, &template)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.templateService(w, r)
	if !ok {
		return
	}

	template, err := svc.FindTemplateByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, template)
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.templateService(w, r)
	if !ok {
		return
	}

	var upd servicedoc.TemplateUpdate
	if err := decodeJSON(r, &upd); err != nil {
		s.Error(w, r, err)
		return
	}

	template, err := svc.UpdateTemplate(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, template)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.templateService(w, r)
	if !ok {
		return
	}

	if err := svc.DeleteTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetPersonnel(w http.ResponseWriter, r *http.Request) {
	if s.PersonnelService == nil {
		s.Error(w, r, servicedoc.Errorf(servicedoc.ENOTIMPLEMENTED, "personnel storage is not configured"))
		return
	}

	roster, err := s.PersonnelService.Roster(r.Context())
	if err != nil {
		s.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, personnelBody{Personnel: roster})
}

func (s *Server) handleReplacePersonnel(w http.ResponseWriter, r *http.Request) {
	if s.PersonnelService == nil {
		s.Error(w, r, servicedoc.Errorf(servicedoc.ENOTIMPLEMENTED, "personnel storage is not configured"))
		return
	}

	var body personnelBody
	if err := decodeJSON(r, &body); err != nil {
		s.Error(w, r, err)
		return
	}

	if err := s.PersonnelService.ReplaceRoster(r.Context(), body.Personnel); err != nil {
		s.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, personnelBody{Personnel: servicedoc.NormalizeRoster(body.Personnel)})
}

// queryInt reads a non-negative integer query parameter, zero when absent.
func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, servicedoc.Errorf(servicedoc.EINVALID, "%s must be a non-negative integer", key)
	}
	return n, nil
}
