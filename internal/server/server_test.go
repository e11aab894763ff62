package server_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formbind/internal/pages"
	"github.com/goliatone/go-formbind/internal/people"
	"github.com/goliatone/go-formbind/internal/server"
	"github.com/goliatone/go-formbind/internal/store"
)

const token = "test-token"

type harness struct {
	handler http.Handler
	repo    *store.Memory
	srv     *server.Server
}

func newHarness(t *testing.T) harness {
	t.Helper()
	engine, err := pages.New(pages.WithGlobalData(map[string]any{"app_name": "formbind"}))
	require.NoError(t, err)
	repo := store.NewMemory()
	srv, err := server.New(server.Config{Repository: repo, Pages: engine})
	require.NoError(t, err)
	return harness{handler: srv.Handler(), repo: repo, srv: srv}
}

func (h harness) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.AddCookie(&http.Cookie{Name: "formbind_csrf", Value: token})
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func (h harness) post(t *testing.T, target string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{}
	for key, vals := range values {
		form[key] = vals
	}
	form.Set("_csrf", token)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "formbind_csrf", Value: token})
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func (h harness) seed(t *testing.T) people.Person {
	t.Helper()
	saved, err := h.repo.Save(context.Background(), people.Person{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
	})
	require.NoError(t, err)
	return saved
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	rec := h.get(t, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestNewPerson_IssuesToken(t *testing.T) {
	h := newHarness(t)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/people/new", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "formbind_csrf", cookies[0].Name)
	assert.Contains(t, rec.Body.String(), `<input type="hidden" name="_csrf" value="`+cookies[0].Value+`">`)
	assert.Contains(t, rec.Body.String(), `<form method="post" action="/people" class="person-form" novalidate>`)
}

func TestCreate_RequiresToken(t *testing.T) {
	h := newHarness(t)
	req := httptest.NewRequest(http.MethodPost, "/people", strings.NewReader("firstName=Jane"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreate_InvalidRerendersForm(t *testing.T) {
	h := newHarness(t)
	rec := h.post(t, "/people", url.Values{
		"firstName": {""},
		"lastName":  {"Doe"},
		"email":     {"bad-email"},
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<p class="field-error" data-field="firstName">must not be blank</p>`)
	assert.Contains(t, body, `<p class="field-error" data-field="email">must be a well-formed email address</p>`)
	assert.NotContains(t, body, `data-field="lastName"`)
	assert.Contains(t, body, `name="lastName" value="Doe"`)

	list, err := h.repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreate_SavesAndRedirects(t *testing.T) {
	h := newHarness(t)
	rec := h.post(t, "/people", url.Values{
		"firstName":            {"Jane"},
		"lastName":             {"Doe"},
		"email":                {"jane@example.com"},
		"preferences.language": {"en"},
	})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	list, err := h.repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "/people/"+list[0].ID+"?saved=1", rec.Header().Get("Location"))
	assert.Equal(t, "en", list[0].Preferences.Language)

	page := h.get(t, "/")
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "<td>Jane Doe</td>")
}

func TestCreate_DuplicateEmail(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	rec := h.post(t, "/people", url.Values{
		"firstName": {"Janet"},
		"lastName":  {"Doe"},
		"email":     {"JANE@example.com"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `<p class="field-error" data-field="email">is already registered</p>`)
}

func TestCreate_MalformedSubmissions(t *testing.T) {
	h := newHarness(t)
	tests := map[string]url.Values{
		"bad key":        {"addresses[x].city": {"Oslo"}},
		"conflict":       {"preferences": {"x"}, "preferences.language": {"en"}},
		"bad integer":    {"age": {"forty"}},
		"unknown choice": {"addresses[0].type": {"CASTLE"}},
		"index limit":    {"addresses[5000].city": {"Oslo"}},
	}
	for name, values := range tests {
		t.Run(name, func(t *testing.T) {
			rec := h.post(t, "/people", values)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestEdit_RendersVersionAndAddressForm(t *testing.T) {
	h := newHarness(t)
	p := h.seed(t)

	rec := h.get(t, "/people/"+p.ID+"?saved=1")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<input type="hidden" name="version" value="1">`)
	assert.Contains(t, body, `action="/people/`+p.ID+`/addresses"`)
	assert.Contains(t, body, `name="addresses[0].streetAddress"`)
	assert.Contains(t, body, `class="flash"`)
}

func TestEdit_NotFound(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, http.StatusNotFound, h.get(t, "/people/not-a-uuid").Code)
	assert.Equal(t, http.StatusNotFound, h.get(t, "/people/6b1f0c3e-1d7a-4a54-9a43-0f6d3a0b3c11").Code)
}

func TestUpdate_StaleVersion(t *testing.T) {
	h := newHarness(t)
	p := h.seed(t)

	values := url.Values{
		"version":   {"1"},
		"firstName": {"Jane"},
		"lastName":  {"Smith"},
		"email":     {"jane@example.com"},
	}
	rec := h.post(t, "/people/"+p.ID, values)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = h.post(t, "/people/"+p.ID, values)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "changed by someone else")
	assert.Contains(t, rec.Body.String(), `<input type="hidden" name="version" value="2">`)
}

func TestAppendAddress_FirstElement(t *testing.T) {
	h := newHarness(t)
	p := h.seed(t)

	rec := h.post(t, "/people/"+p.ID+"/addresses", url.Values{
		"version":                    {"1"},
		"addresses[0].type":          {"HOME"},
		"addresses[0].streetAddress": {"123 Main St"},
		"addresses[0].city":          {"Springfield"},
		"addresses[0].postalCode":    {"12345"},
		"addresses[0].country":       {"USA"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	saved, ok, err := h.repo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []people.Address{{
		Type:          people.AddressHome,
		StreetAddress: "123 Main St",
		City:          "Springfield",
		PostalCode:    "12345",
		Country:       "USA",
	}}, saved.Addresses)
	assert.Equal(t, 2, saved.Version)
}

func TestPutAddress_InvalidAndMissing(t *testing.T) {
	h := newHarness(t)
	p := h.seed(t)
	p.Addresses = []people.Address{{Type: people.AddressWork, StreetAddress: "1 A St", City: "Alpha", PostalCode: "11111", Country: "USA"}}
	p, err := h.repo.Save(context.Background(), p)
	require.NoError(t, err)

	rec := h.post(t, "/people/"+p.ID+"/addresses/0", url.Values{
		"addresses[0].type":          {"WORK"},
		"addresses[0].streetAddress": {"1 A St"},
		"addresses[0].city":          {""},
		"addresses[0].postalCode":    {"11111"},
		"addresses[0].country":       {"USA"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `<p class="field-error" data-field="addresses[0].city">must not be blank</p>`)

	rec = h.post(t, "/people/"+p.ID+"/addresses/3", url.Values{"addresses[3].city": {"x"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.post(t, "/people/"+p.ID+"/addresses/0", url.Values{"firstName": {"x"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.post(t, "/people/"+p.ID+"/addresses/0", url.Values{"version": {"1"}, "addresses[0].city": {"x"}})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSchemaAPI(t *testing.T) {
	h := newHarness(t)

	rec := h.get(t, "/api/schema/address")
	require.Equal(t, http.StatusOK, rec.Code)
	var schema map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schema))
	properties, ok := schema["properties"].(map[string]any)
	require.True(t, ok, "schema: %s", rec.Body.String())
	assert.Contains(t, properties, "city")
	assert.Contains(t, properties, "postalCode")

	assert.Equal(t, http.StatusNotFound, h.get(t, "/api/schema/invoice").Code)

	rec = h.get(t, "/api/openapi.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"openapi"`)
	assert.Contains(t, rec.Body.String(), `"person"`)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	h := newHarness(t)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.srv.Serve(ctx, listener) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + listener.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := server.New(server.Config{})
	assert.Error(t, err)
}
