package http_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/servicedoc"
	sdhttp "github.com/fwojciec/servicedoc/http"
	"github.com/fwojciec/servicedoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseForm builds a multipart parse-html request. A nil html omits the
// file part.
func parseForm(t *testing.T, html []byte, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if html != nil {
		fw, err := mw.CreateFormFile("htmlFile", "export.html")
		require.NoError(t, err)
		_, err = fw.Write(html)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/parse-html", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// recordingParser returns a parser that stores the request it receives.
func recordingParser(got **servicedoc.ParseRequest) *mock.BulletinParser {
	return &mock.BulletinParser{
		ParseFn: func(_ context.Context, req *servicedoc.ParseRequest) (*servicedoc.ParseResult, error) {
			*got = req
			return &servicedoc.ParseResult{
				Success:   true,
				Data:      []servicedoc.BulletinItem{{Text: "PRELUDE", Name: "Prelude", WasMatched: true}},
				SlideData: servicedoc.SlideData{Hymns: []servicedoc.Hymn{}},
				Filename:  req.Filename,
			}, nil
		},
	}
}

func TestServer_ParseHTML(t *testing.T) {
	t.Parallel()

	t.Run("passes form fields to the parser", func(t *testing.T) {
		t.Parallel()

		var got *servicedoc.ParseRequest
		s := sdhttp.NewServer()
		s.Parser = recordingParser(&got)

		rec := serve(s, parseForm(t, []byte("<html></html>"), map[string]string{
			"templates": `[{"name":"Base Service","items":[{"item_name":"Prelude","item_aliases":["prelude"]}]}]`,
			"personnel": `["Rev. Ann Lee"]`,
		}))

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, "<html></html>", got.HTML)
		assert.Equal(t, "export.html", got.Filename)
		require.Len(t, got.Templates, 1)
		assert.Equal(t, "Base Service", got.Templates[0].Name)
		assert.Equal(t, []string{"prelude"}, got.Templates[0].Items[0].ItemAliases)
		assert.Equal(t, []string{"Rev. Ann Lee"}, got.Personnel)

		var res servicedoc.ParseResult
		decodeBody(t, rec, &res)
		assert.True(t, res.Success)
		assert.Equal(t, "export.html", res.Filename)
		require.Len(t, res.Data, 1)
		assert.Equal(t, "Prelude", res.Data[0].Name)
	})

	t.Run("templates and personnel are optional", func(t *testing.T) {
		t.Parallel()

		var got *servicedoc.ParseRequest
		s := sdhttp.NewServer()
		s.Parser = recordingParser(&got)

		rec := serve(s, parseForm(t, []byte("<p></p>"), nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, got.Templates)
		assert.Empty(t, got.Personnel)
	})

	t.Run("requires the html file", func(t *testing.T) {
		t.Parallel()

		s := sdhttp.NewServer()
		s.Parser = recordingParser(new(*servicedoc.ParseRequest))

		rec := serve(s, parseForm(t, nil, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "htmlFile is required", errorDetail(t, rec))
	})

	t.Run("rejects non UTF-8 content", func(t *testing.T) {
		t.Parallel()

		s := sdhttp.NewServer()
		s.Parser = recordingParser(new(*servicedoc.ParseRequest))

		rec := serve(s, parseForm(t, []byte{0xff, 0xfe, 0x00}, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "htmlFile must be UTF-8 encoded", errorDetail(t, rec))
	})

	t.Run("rejects malformed templates JSON", func(t *testing.T) {
		t.Parallel()

		s := sdhttp.NewServer()
		s.Parser = recordingParser(new(*servicedoc.ParseRequest))

		rec := serve(s, parseForm(t, []byte("<p></p>"), map[string]string{"templates": "{not json"}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, errorDetail(t, rec), "invalid templates JSON")
	})

	t.Run("rejects malformed personnel JSON", func(t *testing.T) {
		t.Parallel()

		s := sdhttp.NewServer()
		s.Parser = recordingParser(new(*servicedoc.ParseRequest))

		rec := serve(s, parseForm(t, []byte("<p></p>"), map[string]string{"personnel": `{"a":1}`}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, errorDetail(t, rec), "invalid personnel JSON")
	})

	t.Run("rejects uploads over the size limit", func(t *testing.T) {
		t.Parallel()

		s := sdhttp.NewServer(sdhttp.WithMaxUploadBytes(64))
		s.Parser = recordingParser(new(*servicedoc.ParseRequest))

		rec := serve(s, parseForm(t, []byte(strings.Repeat("x", 1024)), nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("uses a stored template by name", func(t *testing.T) {
		t.Parallel()

		var got *servicedoc.ParseRequest
		var filter servicedoc.TemplateFilter
		s := sdhttp.NewServer()
		s.Parser = recordingParser(&got)
		s.TemplateService = &mock.TemplateService{
			FindTemplatesFn: func(_ context.Context, f servicedoc.TemplateFilter) ([]*servicedoc.Template, error) {
				filter = f
				return []*servicedoc.Template{{ID: "t1", Name: "Communion Sunday"}}, nil
			},
		}

		rec := serve(s, parseForm(t, []byte("<p></p>"), map[string]string{
			"templates":    `[{"name":"ignored"}]`,
			"templateName": "Communion Sunday",
		}))

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, filter.Name)
		assert.Equal(t, "Communion Sunday", *filter.Name)
		require.Len(t, got.Templates, 1)
		assert.Equal(t, "t1", got.Templates[0].ID)
	})

	t.Run("unknown stored template is not found", func(t *testing.T) {
		t.Parallel()

		s := sdhttp.NewServer()
		s.Parser = recordingParser(new(*servicedoc.ParseRequest))
		s.TemplateService = &mock.TemplateService{
			FindTemplatesFn: func(context.Context, servicedoc.TemplateFilter) ([]*servicedoc.Template, error) {
				return nil, nil
			},
		}

		rec := serve(s, parseForm(t, []byte("<p></p>"), map[string]string{"templateName": "Missing"}))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("uses the stored roster when asked", func(t *testing.T) {
		t.Parallel()

		var got *servicedoc.ParseRequest
		s := sdhttp.NewServer()
		s.Parser = recordingParser(&got)
		s.PersonnelService = &mock.PersonnelService{
			RosterFn: func(context.Context) ([]string, error) {
				return []string{"Jane Smith"}, nil
			},
		}

		rec := serve(s, parseForm(t, []byte("<p></p>"), map[string]string{"useRoster": "true"}))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"Jane Smith"}, got.Personnel)
	})

	t.Run("explicit personnel wins over the stored roster", func(t *testing.T) {
		t.Parallel()

		var got *servicedoc.ParseRequest
		s := sdhttp.NewServer()
		s.Parser = recordingParser(&got)
		s.PersonnelService = &mock.PersonnelService{
			RosterFn: func(context.Context) ([]string, error) {
				t.Fatal("roster should not be loaded")
				return nil, nil
			},
		}

		rec := serve(s, parseForm(t, []byte("<p></p>"), map[string]string{
			"useRoster": "true",
			"personnel": `["Bob Ray"]`,
		}))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"Bob Ray"}, got.Personnel)
	})

	t.Run("hides internal parser errors", func(t *testing.T) {
		t.Parallel()

		s := sdhttp.NewServer()
		s.Parser = &mock.BulletinParser{
			ParseFn: func(context.Context, *servicedoc.ParseRequest) (*servicedoc.ParseResult, error) {
				return nil, errors.New("disk on fire")
			},
		}

		rec := serve(s, parseForm(t, []byte("<p></p>"), nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal error.", errorDetail(t, rec))
	})

	t.Run("not implemented without a parser", func(t *testing.T) {
		t.Parallel()

		s := sdhttp.NewServer()

		rec := serve(s, parseForm(t, []byte("<p></p>"), nil))

		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})
}
