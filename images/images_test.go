// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

package images

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func newRouter(h *Handlers) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/images/banner/{appid}", h.Banner)
	router.HandleFunc("/api/v1/images/icon/{appid}/{hash}", h.Icon)
	return router
}

func TestBannerHeroServed(t *testing.T) {
	assert := assert.New(t)

	cdn := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		assert.Equal("/store_item_assets/steam/apps/440/library_hero.jpg", r.URL.Path)
		rw.Write([]byte("hero-bytes"))
	}))
	defer cdn.Close()

	h := New(Config{StoreAssetsAddress: cdn.URL, HTTPClient: cdn.Client()})

	recorder := httptest.NewRecorder()
	newRouter(h).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/images/banner/440", nil))

	assert.Equal(http.StatusOK, recorder.Code)
	assert.Equal(jpegContentType, recorder.Header().Get("Content-Type"))
	assert.Equal("hero-bytes", recorder.Body.String())
}

func TestBannerFallsBackToHeader(t *testing.T) {
	assert := assert.New(t)

	cdn := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/store_item_assets/steam/apps/440/header.jpg" {
			rw.Write([]byte("header-bytes"))
			return
		}
		rw.WriteHeader(http.StatusNotFound)
	}))
	defer cdn.Close()

	h := New(Config{StoreAssetsAddress: cdn.URL, HTTPClient: cdn.Client()})

	recorder := httptest.NewRecorder()
	newRouter(h).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/images/banner/440", nil))

	assert.Equal(http.StatusOK, recorder.Code)
	assert.Equal("header-bytes", recorder.Body.String())
}

func TestBannerPlaceholderWhenAllFail(t *testing.T) {
	assert := assert.New(t)

	cdn := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusNotFound)
	}))
	defer cdn.Close()

	h := New(Config{StoreAssetsAddress: cdn.URL, HTTPClient: cdn.Client()})

	recorder := httptest.NewRecorder()
	newRouter(h).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/images/banner/440", nil))

	assert.Equal(http.StatusOK, recorder.Code, "artwork failures still answer 200")
	assert.Equal(gifContentType, recorder.Header().Get("Content-Type"))
	assert.Equal(transparentGIF, recorder.Body.Bytes())
}

func TestBannerPlaceholderOnTransportFailure(t *testing.T) {
	assert := assert.New(t)

	// A closed server forces a transport error on every attempt.
	cdn := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	cdn.Close()

	h := New(Config{StoreAssetsAddress: cdn.URL})

	recorder := httptest.NewRecorder()
	newRouter(h).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/images/banner/440", nil))

	assert.Equal(http.StatusOK, recorder.Code)
	assert.Equal(transparentGIF, recorder.Body.Bytes())
}

func TestIconServed(t *testing.T) {
	assert := assert.New(t)

	cdn := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		assert.Equal("/steamcommunity/public/images/apps/440/abc123.jpg", r.URL.Path)
		rw.Write([]byte("icon-bytes"))
	}))
	defer cdn.Close()

	h := New(Config{MediaAddress: cdn.URL, HTTPClient: cdn.Client()})

	recorder := httptest.NewRecorder()
	newRouter(h).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/images/icon/440/abc123", nil))

	assert.Equal(http.StatusOK, recorder.Code)
	assert.Equal("icon-bytes", recorder.Body.String())
}

func TestIconPlaceholderOnFailure(t *testing.T) {
	assert := assert.New(t)

	cdn := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusForbidden)
	}))
	defer cdn.Close()

	h := New(Config{MediaAddress: cdn.URL, HTTPClient: cdn.Client()})

	recorder := httptest.NewRecorder()
	newRouter(h).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/images/icon/440/abc123", nil))

	assert.Equal(http.StatusOK, recorder.Code)
	assert.Equal(transparentGIF, recorder.Body.Bytes())
}
