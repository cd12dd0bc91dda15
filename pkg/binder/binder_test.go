package binder_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/binder"
)

type signupRequest struct {
	Email    string   `form:"email" query:"email"`
	Age      int      `form:"age" query:"age"`
	Score    *float64 `form:"score"`
	Remember bool     `form:"remember"`
	Tags     []string `form:"tags" query:"tags"`
	Internal string   `form:"-" query:"-"`
	Nickname string
}

func formRequest(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/signup?email=query@example.com", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")
	return req
}

func TestForm(t *testing.T) {
	t.Run("binds urlencoded body", func(t *testing.T) {
		req := formRequest(url.Values{
			"email":    {"alice@example.com"},
			"age":      {"30"},
			"score":    {"4.5"},
			"remember": {"on"},
			"tags":     {"a,b", "c"},
			"Internal": {"x"},
			"nickname": {"ally"},
		})

		var got signupRequest
		require.NoError(t, binder.Form()(req, &got))

		assert.Equal(t, "alice@example.com", got.Email, "body wins, query is ignored")
		assert.Equal(t, 30, got.Age)
		require.NotNil(t, got.Score)
		assert.InDelta(t, 4.5, *got.Score, 0.0001)
		assert.True(t, got.Remember)
		assert.Equal(t, []string{"a", "b", "c"}, got.Tags)
		assert.Empty(t, got.Internal)
		assert.Equal(t, "ally", got.Nickname)
	})

	t.Run("missing fields keep zero values", func(t *testing.T) {
		var got signupRequest
		require.NoError(t, binder.Form()(formRequest(url.Values{}), &got))
		assert.Nil(t, got.Score)
		assert.Empty(t, got.Email)
	})

	t.Run("binds multipart body", func(t *testing.T) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("email", "bob@example.com"))
		require.NoError(t, mw.WriteField("age", "41"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/signup", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		var got signupRequest
		require.NoError(t, binder.Form()(req, &got))
		assert.Equal(t, "bob@example.com", got.Email)
		assert.Equal(t, 41, got.Age)
	})

	t.Run("content type errors", func(t *testing.T) {
		var got signupRequest

		req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader("{}"))
		assert.ErrorIs(t, binder.Form()(req, &got), binder.ErrMissingContentType)

		req.Header.Set("Content-Type", "application/json")
		assert.ErrorIs(t, binder.Form()(req, &got), binder.ErrUnsupportedMediaType)

		req.Header.Set("Content-Type", "multipart/form-data; boundary=\"bad\x01\"")
		assert.Error(t, binder.Form()(req, &got))
	})

	t.Run("invalid values", func(t *testing.T) {
		var got signupRequest
		err := binder.Form()(formRequest(url.Values{"age": {"old"}}), &got)
		assert.ErrorIs(t, err, binder.ErrInvalidForm)
		assert.Contains(t, err.Error(), "field Age")

		err = binder.Form()(formRequest(url.Values{"remember": {"maybe"}}), &got)
		assert.ErrorIs(t, err, binder.ErrInvalidForm)
	})

	t.Run("target must be a struct pointer", func(t *testing.T) {
		var got signupRequest
		assert.ErrorIs(t, binder.Form()(formRequest(url.Values{}), got), binder.ErrInvalidForm)

		var s string
		assert.ErrorIs(t, binder.Form()(formRequest(url.Values{}), &s), binder.ErrInvalidForm)
	})
}

func TestQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/login?email=alice%40example.com&age=7&tags=x&tags=y", nil)

	var got signupRequest
	require.NoError(t, binder.Query()(req, &got))
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, 7, got.Age)
	assert.Equal(t, []string{"x", "y"}, got.Tags)

	req = httptest.NewRequest(http.MethodGet, "/login?age=%zz", nil)
	assert.ErrorIs(t, binder.Query()(req, &got), binder.ErrInvalidQuery)
}
