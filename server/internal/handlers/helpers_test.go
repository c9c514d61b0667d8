package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maynagashev/gophboard/models"
	"github.com/maynagashev/gophboard/server/internal/auth"
	"github.com/maynagashev/gophboard/server/internal/middleware"
)

var testMember = &models.Member{ID: 1, Username: "alice"}

// newRequest создает запрос; если member не nil, кладет его в контекст,
// как это делает middleware.Authenticator.
func newRequest(method, target, body string, member *models.Member) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if member != nil {
		ctx := middleware.WithIdentity(req.Context(), &auth.Identity{Member: member, Token: "tok"})
		req = req.WithContext(ctx)
	}
	return req
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) any {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error
}
