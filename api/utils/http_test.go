// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eotlabs/staking-ledger/staking"
)

func serve(f HandlerFunc) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	WrapHandlerFunc(f)(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	return rr
}

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"ok", nil, http.StatusOK, ""},
		{"bad request", BadRequest(errors.New("bad")), http.StatusBadRequest, "bad\n"},
		{"not found", NotFound(errors.New("nope")), http.StatusNotFound, "nope\n"},
		{"wrapped", errors.WithMessage(HTTPError(errors.New("teapot"), http.StatusTeapot), "ctx"), http.StatusTeapot, "teapot\n"},
		{"no cause", &httpError{status: http.StatusConflict}, http.StatusConflict, ""},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "boom\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(func(http.ResponseWriter, *http.Request) error { return tt.err })
			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.body, rr.Body.String())
		})
	}
}

func TestJSON(t *testing.T) {
	rr := serve(func(w http.ResponseWriter, _ *http.Request) error {
		return WriteJSON(w, M{"a": 1})
	})
	assert.Equal(t, JSONContentType, rr.Header().Get("Content-Type"))
	assert.Equal(t, "{\"a\":1}\n", rr.Body.String())

	var v struct{ A int }
	require.NoError(t, ParseJSON(strings.NewReader(`{"A":2}`), &v))
	assert.Equal(t, 2, v.A)
	assert.Error(t, ParseJSON(strings.NewReader(`{"B":2}`), &v))
}

func TestParseAccount(t *testing.T) {
	want := staking.BytesToAccountID([]byte("alice"))
	id, err := ParseAccount(" " + want.String())
	require.NoError(t, err)
	assert.Equal(t, want, id)

	_, err = ParseAccount("0x12")
	var he *httpError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusBadRequest, he.status)
}
