package server

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/goliatone/go-formbind/internal/pages"
	"github.com/goliatone/go-formbind/internal/people"
	"github.com/goliatone/go-formbind/internal/store"
	"github.com/goliatone/go-formbind/pkg/formfield"
	"github.com/goliatone/go-formbind/pkg/path"
	"github.com/goliatone/go-formbind/pkg/validation"
)

const apiVersion = "1.0.0"

const staleMessage = "This person was changed by someone else. Review the current values and submit again."

type addressForm struct {
	data  people.FormData
	index int
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	list, err := s.repo.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.page(w, r, http.StatusOK, "people", map[string]any{
		"title":  "People",
		"people": list,
		"flash":  flash(r),
	})
}

func (s *Server) newPerson(w http.ResponseWriter, r *http.Request) {
	s.registerPage(w, r, http.StatusOK, people.FormData{})
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.errorPage(w, r, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.binder.Register(r.PostForm)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	form := people.FormData{Person: result.Value()}
	if !result.IsValid() {
		form.Violations = result.Violations()
		s.registerPage(w, r, http.StatusUnprocessableEntity, form)
		return
	}

	saved, err := s.repo.Save(r.Context(), result.Value())
	if err != nil {
		if fields, messages, ok := rejected(err); ok {
			form.Violations, form.FormErrors = fields, messages
			s.registerPage(w, r, http.StatusUnprocessableEntity, form)
			return
		}
		s.fail(w, r, err)
		return
	}
	s.logger.LogAttrs(r.Context(), slog.LevelInfo, "person registered", slog.String("id", saved.ID))
	http.Redirect(w, r, personURL(saved.ID)+"?saved=1", http.StatusSeeOther)
}

func (s *Server) edit(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.find(w, r)
	if !ok {
		return
	}
	s.editPage(w, r, http.StatusOK, existing, people.FormData{Person: existing}, nil)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.find(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		s.errorPage(w, r, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.binder.Update(existing, r.PostForm)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	form := people.FormData{Person: result.Value()}
	if !result.IsValid() {
		form.Violations = result.Violations()
		s.editPage(w, r, http.StatusUnprocessableEntity, existing, form, nil)
		return
	}

	saved, err := s.repo.Save(r.Context(), result.Value())
	switch {
	case errors.Is(err, store.ErrStale):
		form.Person.Version = existing.Version
		form.FormErrors = []string{staleMessage}
		s.editPage(w, r, http.StatusConflict, existing, form, nil)
		return
	case err != nil:
		if fields, messages, ok := rejected(err); ok {
			form.Violations, form.FormErrors = fields, messages
			s.editPage(w, r, http.StatusUnprocessableEntity, existing, form, nil)
			return
		}
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, personURL(saved.ID)+"?saved=1", http.StatusSeeOther)
}

func (s *Server) appendAddress(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.find(w, r)
	if !ok {
		return
	}
	s.saveAddress(w, r, existing, len(existing.Addresses))
}

func (s *Server) putAddress(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.find(w, r)
	if !ok {
		return
	}
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 || index >= len(existing.Addresses) {
		s.fail(w, r, fmt.Errorf("server: %w: address %q of %d", path.ErrIndexOutOfRange, raw, len(existing.Addresses)))
		return
	}
	s.saveAddress(w, r, existing, index)
}

func (s *Server) saveAddress(w http.ResponseWriter, r *http.Request, existing people.Person, index int) {
	if err := r.ParseForm(); err != nil {
		s.errorPage(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if v := r.PostForm.Get(people.Version.Name()); v != "" && v != strconv.Itoa(existing.Version) {
		s.editPage(w, r, http.StatusConflict, existing, people.FormData{Person: existing, FormErrors: []string{staleMessage}}, nil)
		return
	}

	result, err := s.binder.PutAddress(existing, index, r.PostForm)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !result.IsValid() {
		violations := result.Violations()
		address := &addressForm{
			data: people.FormData{
				Person:     result.Value(),
				Violations: violations,
				FormErrors: violations.Messages(people.Addresses.Name()),
				Action:     r.URL.Path,
			},
			index: index,
		}
		s.editPage(w, r, http.StatusUnprocessableEntity, existing, people.FormData{Person: existing}, address)
		return
	}

	saved, err := s.repo.Save(r.Context(), result.Value())
	if err != nil {
		if errors.Is(err, store.ErrStale) {
			s.editPage(w, r, http.StatusConflict, existing, people.FormData{Person: existing, FormErrors: []string{staleMessage}}, nil)
			return
		}
		s.fail(w, r, err)
		return
	}
	s.logger.LogAttrs(r.Context(), slog.LevelInfo, "address saved",
		slog.String("id", saved.ID), slog.Int("index", index))
	http.Redirect(w, r, personURL(saved.ID)+"?saved=1", http.StatusSeeOther)
}

func (s *Server) schema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	doc, ok := people.SchemaDocs()[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown schema: " + name})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) openAPI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, people.OpenAPI(apiVersion))
}

// find loads the person named by the {id} parameter or answers 404.
func (s *Server) find(w http.ResponseWriter, r *http.Request) (people.Person, bool) {
	raw := chi.URLParam(r, "id")
	if _, err := uuid.Parse(raw); err != nil {
		s.errorPage(w, r, http.StatusNotFound, "no person with id "+raw)
		return people.Person{}, false
	}
	p, ok, err := s.repo.FindByID(r.Context(), raw)
	if err != nil {
		s.fail(w, r, err)
		return people.Person{}, false
	}
	if !ok {
		s.errorPage(w, r, http.StatusNotFound, "no person with id "+raw)
		return people.Person{}, false
	}
	return p, true
}

func (s *Server) registerPage(w http.ResponseWriter, r *http.Request, status int, form people.FormData) {
	form.Action = "/people"
	form.Submit = "Register"
	s.formPage(w, r, status, "Register", form, nil)
}

// editPage renders the edit form of existing. Without an address form, one
// for appending a new address is shown while the list has room.
func (s *Server) editPage(w http.ResponseWriter, r *http.Request, status int, existing people.Person, form people.FormData, address *addressForm) {
	form.Action = personURL(existing.ID)
	form.Hidden = append(form.Hidden, formfield.VersionField(people.Version.Name(), form.Person.Version))
	if address == nil && len(existing.Addresses) < people.MaxAddresses {
		address = &addressForm{
			data: people.FormData{
				Person: people.WithBlankAddress(existing),
				Action: personURL(existing.ID) + "/addresses",
			},
			index: len(existing.Addresses),
		}
	}
	if address != nil {
		address.data.Submit = "Save address"
		address.data.Hidden = append(address.data.Hidden, formfield.VersionField(people.Version.Name(), existing.Version))
	}
	title := "Edit " + existing.FirstName + " " + existing.LastName
	s.formPage(w, r, status, title, form, address)
}

func (s *Server) formPage(w http.ResponseWriter, r *http.Request, status int, title string, form people.FormData, address *addressForm) {
	ctx := r.Context()
	token := formfield.CSRFToken(csrfField, tokenFrom(ctx))

	form.Hidden = append(form.Hidden, token)
	markup, err := pages.Component(ctx, people.Form(form))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data := map[string]any{
		"title": title,
		"form":  markup,
		"flash": flash(r),
	}
	if address != nil {
		address.data.Hidden = append(address.data.Hidden, token)
		addressMarkup, err := pages.Component(ctx, people.AddressForm(address.data, address.index))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		data["addresses_url"] = address.data.Action
		data["address_form"] = addressMarkup
	}
	s.page(w, r, status, "form", data)
}

func (s *Server) page(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	var buf bytes.Buffer
	if err := s.pages.Render(&buf, name, data); err != nil {
		s.logger.LogAttrs(r.Context(), slog.LevelError, "page rendering failed",
			slog.String("page", name), slog.Any("error", err))
		http.Error(w, "page rendering failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// rejected maps a repository field error onto form violations.
func rejected(err error) (validation.Violations, []string, bool) {
	var fieldErr *store.FieldError
	if !errors.As(err, &fieldErr) {
		return nil, nil, false
	}
	mapping := validation.FromPayload(people.Schema.Describe(), fieldErr.Payload())
	return mapping.Fields, mapping.Form, true
}

func flash(r *http.Request) string {
	if r.URL.Query().Get("saved") != "" {
		return "Saved."
	}
	return ""
}

func personURL(id string) string {
	return "/people/" + id
}
