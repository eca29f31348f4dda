// SPDX-FileCopyrightText: 2025 vigilproj
// SPDX-License-Identifier: Apache-2.0

// Package images passes game artwork through from Steam's CDNs. The
// handlers are stateless and sit outside the cache and the limiters; a
// broken upstream degrades to a placeholder pixel, never to an error page.
package images

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

const (
	defaultStoreAssetsAddress = "https://shared.akamai.steamstatic.com"
	defaultMediaAddress       = "https://media.steampowered.com"

	jpegContentType = "image/jpeg"
	gifContentType  = "image/gif"
)

// transparentGIF is a 1x1 transparent pixel served whenever the CDNs fail.
// Responding 200 with valid image bytes keeps broken artwork invisible
// instead of rendering as a broken image.
var transparentGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00, 0xFF, 0xFF, 0xFF,
	0x00, 0x00, 0x00, 0x21, 0xF9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3B,
}

// Config contains the settings for the artwork passthrough.
type Config struct {
	// StoreAssetsAddress is the base URL for store artwork. (Optional)
	StoreAssetsAddress string

	// MediaAddress is the base URL for community icons. (Optional)
	MediaAddress string

	// HTTPClient refers to the client used to reach the CDNs. (Optional)
	HTTPClient *http.Client

	// Logger to be used by the handlers. (Optional)
	Logger *zap.Logger
}

// Handlers serves banner and icon artwork.
type Handlers struct {
	client       *http.Client
	storeAssets  string
	mediaAddress string
	logger       *zap.Logger
}

func New(config Config) *Handlers {
	if config.StoreAssetsAddress == "" {
		config.StoreAssetsAddress = defaultStoreAssetsAddress
	}
	if config.MediaAddress == "" {
		config.MediaAddress = defaultMediaAddress
	}
	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}
	if config.Logger == nil {
		config.Logger = sallust.Default()
	}
	return &Handlers{
		client:       config.HTTPClient,
		storeAssets:  config.StoreAssetsAddress,
		mediaAddress: config.MediaAddress,
		logger:       config.Logger,
	}
}

// Banner serves the library hero artwork for a game, falling back to the
// store header and finally to the placeholder pixel.
func (h *Handlers) Banner(rw http.ResponseWriter, r *http.Request) {
	appID := mux.Vars(r)["appid"]

	candidates := []string{
		fmt.Sprintf("%s/store_item_assets/steam/apps/%s/library_hero.jpg", h.storeAssets, appID),
		fmt.Sprintf("%s/store_item_assets/steam/apps/%s/header.jpg", h.storeAssets, appID),
	}
	for _, candidate := range candidates {
		if h.stream(r, rw, candidate) {
			return
		}
	}
	h.placeholder(rw)
}

// Icon serves a community icon addressed by app id and image hash.
func (h *Handlers) Icon(rw http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	iconURL := fmt.Sprintf("%s/steamcommunity/public/images/apps/%s/%s.jpg",
		h.mediaAddress, vars["appid"], vars["hash"])

	if !h.stream(r, rw, iconURL) {
		h.placeholder(rw)
	}
}

// stream copies the upstream image to the caller. It reports false on any
// upstream failure so the caller can fall through; nothing has been
// written to rw at that point.
func (h *Handlers) stream(r *http.Request, rw http.ResponseWriter, imageURL string) bool {
	request, err := http.NewRequestWithContext(r.Context(), http.MethodGet, imageURL, nil)
	if err != nil {
		return false
	}
	resp, err := h.client.Do(request)
	if err != nil {
		h.logger.Debug("artwork fetch failed", zap.String("url", imageURL), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return false
	}

	rw.Header().Set("Content-Type", jpegContentType)
	_, _ = io.Copy(rw, resp.Body)
	return true
}

func (h *Handlers) placeholder(rw http.ResponseWriter) {
	rw.Header().Set("Content-Type", gifContentType)
	rw.Write(transparentGIF)
}
