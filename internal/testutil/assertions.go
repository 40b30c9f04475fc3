package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dom/kick-danila/internal/api/flash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies success
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertErrorResponse verifies a JSON error response with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	var body struct {
		Error string `json:"error"`
	}
	AssertJSONResponse(t, resp, &body)
	assert.Contains(t, body.Error, expectedMessage, "error message mismatch")
}

// RequireFlash checks a form response redirected home and returns its flash
func RequireFlash(t *testing.T, ts *TestServer, resp *http.Response) *flash.Message {
	t.Helper()

	require.Equal(t, http.StatusSeeOther, resp.StatusCode, "expected redirect")
	assert.Equal(t, "/", resp.Header.Get("Location"))

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == flash.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "flash cookie not set")

	req, err := http.NewRequest(http.MethodGet, ts.URL("/"), nil)
	require.NoError(t, err)
	req.AddCookie(cookie)

	msg, err := ts.Flashes.Pop(httptest.NewRecorder(), req)
	require.NoError(t, err)
	require.NotNil(t, msg)
	return msg
}

// AssertFlash checks the category and text of a form response's flash
func AssertFlash(t *testing.T, ts *TestServer, resp *http.Response, category flash.Category, text string) {
	t.Helper()

	msg := RequireFlash(t, ts, resp)
	assert.Equal(t, category, msg.Category, "unexpected flash category")
	assert.Contains(t, msg.Text, text, "unexpected flash text")
}
