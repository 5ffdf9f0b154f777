// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package loglevel

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevelHandler(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		body          string
		status        int
		expectedLevel string
		expectedError string
	}{
		{"set debug", http.MethodPost, `{"level":"debug"}`, http.StatusOK, "debug", ""},
		{"set crit", http.MethodPost, `{"level":"CRIT"}`, http.StatusOK, "crit", ""},
		{"invalid level", http.MethodPost, `{"level":"loud"}`, http.StatusBadRequest, "", "Invalid verbosity level"},
		{"unknown field", http.MethodPost, `{"lvl":"info"}`, http.StatusBadRequest, "", "Invalid request body: json: unknown field \"lvl\""},
		{"get", http.MethodGet, "", http.StatusOK, "info", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logLevel slog.LevelVar
			logLevel.Set(slog.LevelInfo)

			router := mux.NewRouter()
			New(&logLevel).Mount(router, "/admin/loglevel")

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, "/admin/loglevel", strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, rr.Code)

			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, strings.TrimSpace(rr.Body.String()))
				return
			}
			var resp Response
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tt.expectedLevel, resp.CurrentLevel)
		})
	}
}
