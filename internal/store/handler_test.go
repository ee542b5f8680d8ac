package store

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clk-66/mrfxp/internal/protocol"
)

func TestHandler_Fetch(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()
	_, err := s.AddSite(ctx, AddSiteInput{Name: "alpha", Hostname: "h", Username: "u", Password: "pw"})
	require.NoError(t, err)
	_, err = s.AddSection(ctx, "TV")
	require.NoError(t, err)

	h := NewHandler(s)

	cases := []struct {
		name       string
		body       string
		wantStatus int
		check      func(t *testing.T, body []byte)
	}{
		{"sites", `{"Message":"SitesData"}`, http.StatusOK, func(t *testing.T, body []byte) {
			var sites []protocol.Site
			require.NoError(t, json.Unmarshal(body, &sites))
			require.Len(t, sites, 1)
			assert.Equal(t, protocol.MaskedPassword, sites[0].Password)
		}},
		{"settings", `{"Message":"SettingsData"}`, http.StatusOK, func(t *testing.T, body []byte) {
			assert.JSONEq(t, `[{"Id":1,"Name":"TV"}]`, string(body))
		}},
		{"unknown", `{"Message":"Other"}`, http.StatusBadRequest, func(t *testing.T, body []byte) {
			assert.JSONEq(t, `{"error":"unknown message"}`, string(body))
		}},
		{"malformed", `{`, http.StatusBadRequest, func(t *testing.T, body []byte) {
			assert.JSONEq(t, `{"error":"invalid request body"}`, string(body))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/mrfxp/fetch", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.Fetch(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			tc.check(t, rec.Body.Bytes())
		})
	}
}
