package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pagemark/pagemark"
	pagemarkhttp "github.com/pagemark/pagemark/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	t.Run("ReturnsBodyAndStatus", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html><body><h1>Static</h1></body></html>"))
		}))
		t.Cleanup(srv.Close)

		r := pagemarkhttp.NewRenderer()
		t.Cleanup(func() { r.Close() })

		page, err := r.Render(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Contains(t, page.HTML, "<h1>Static</h1>")
		assert.Equal(t, http.StatusOK, page.StatusCode)
		assert.Equal(t, srv.URL, page.FinalURL)
		assert.Empty(t, page.Title)
	})

	t.Run("FollowsRedirects", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
		})
		mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<p>moved</p>"))
		})
		srv := httptest.NewServer(mux)
		t.Cleanup(srv.Close)

		r := pagemarkhttp.NewRenderer()
		page, err := r.Render(context.Background(), srv.URL+"/old")

		require.NoError(t, err)
		assert.Equal(t, srv.URL+"/new", page.FinalURL)
		assert.Contains(t, page.HTML, "moved")
	})

	t.Run("NonOKStatusIsReported", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("<p>missing</p>"))
		}))
		t.Cleanup(srv.Close)

		r := pagemarkhttp.NewRenderer()
		page, err := r.Render(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, page.StatusCode)
	})

	t.Run("TimeoutIsClassified", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		t.Cleanup(srv.Close)

		r := pagemarkhttp.NewRenderer(pagemarkhttp.WithRenderTimeout(20 * time.Millisecond))
		_, err := r.Render(context.Background(), srv.URL)

		require.Error(t, err)
		assert.Equal(t, pagemark.ETIMEOUT, pagemark.ErrorCode(err))
	})

	t.Run("ConnectionRefusedIsUnavailable", func(t *testing.T) {
		t.Parallel()

		r := pagemarkhttp.NewRenderer()
		_, err := r.Render(context.Background(), "http://127.0.0.1:1")

		require.Error(t, err)
		assert.Equal(t, pagemark.EUNAVAILABLE, pagemark.ErrorCode(err))
	})
}
