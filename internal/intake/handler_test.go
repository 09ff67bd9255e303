package intake

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type intakeClient struct {
	t      *testing.T
	server *httptest.Server
	cookie *http.Cookie
}

func newIntakeServer(t *testing.T) (*intakeClient, *manualClock) {
	t.Helper()
	clock := newManualClock()
	sessions, err := NewSessions(SessionsConfig{KV: NewMemoryKV(), Clock: clock})
	require.NoError(t, err)

	srv := httptest.NewServer(NewHandler(sessions, false, nil).Routes())
	t.Cleanup(srv.Close)
	return &intakeClient{t: t, server: srv}, clock
}

func (c *intakeClient) do(method, path string, form url.Values) (*http.Response, string) {
	c.t.Helper()
	body := strings.NewReader("")
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, c.server.URL+path, body)
	require.NoError(c.t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	for _, ck := range resp.Cookies() {
		if ck.Name == VisitorCookie {
			c.cookie = ck
		}
	}
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, string(data)
}

func TestHandler_FullFunnel(t *testing.T) {
	c, clock := newIntakeServer(t)

	resp, body := c.do(http.MethodGet, "/dialog", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `aria-hidden="true"`)
	require.NotNil(t, c.cookie, "visitor cookie issued")
	assert.True(t, c.cookie.HttpOnly)

	resp, body = c.do(http.MethodPost, "/open", url.Values{"opener": {"hero-cta"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `aria-hidden="false"`)
	assert.Contains(t, body, `data-intake-scroll-lock="true"`)
	assert.Contains(t, body, "Step <span class=\"current-step\">1</span> of 3")

	resp, _ = c.do(http.MethodPost, "/description", url.Values{"description": {"Need <b>help</b> scaling"}})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = c.do(http.MethodPost, "/intent", url.Values{"intent": {"discuss"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	clock.Advance(DefaultDelays.Advance)

	resp, body = c.do(http.MethodPost, "/type", url.Values{"type": {"enterprise"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `option-card selected" data-type="enterprise"`)
	clock.Advance(DefaultDelays.Advance)

	_, body = c.do(http.MethodGet, "/dialog", nil)
	assert.Contains(t, body, "How AtomNext Can Scale Your Systems")
	assert.Contains(t, body, "Need &lt;b&gt;help&lt;/b&gt; scaling")
	assert.Contains(t, body, `width: 100%`)

	resp, body = c.do(http.MethodPost, "/action", url.Values{"action": {"call"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var action ActionResponse
	require.NoError(t, json.Unmarshal([]byte(body), &action))
	assert.Equal(t, "/book-call.html?intent=discuss&type=enterprise&description=Need+%3Cb%3Ehelp%3C%2Fb%3E+scaling", action.Location)
	assert.Equal(t, DefaultDelays.Navigate.Milliseconds(), action.DelayMS)

	clock.Advance(DefaultDelays.Navigate)
	resp, body = c.do(http.MethodGet, "/dialog", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `aria-hidden="true"`)
}

func TestHandler_PageLoadAfterHandoffStaysPut(t *testing.T) {
	c, clock := newIntakeServer(t)

	c.do(http.MethodPost, "/open", url.Values{"opener": {"hero-cta"}})
	c.do(http.MethodPost, "/intent", url.Values{"intent": {"discuss"}})
	clock.Advance(DefaultDelays.Advance)
	c.do(http.MethodPost, "/type", url.Values{"type": {"startup"}})
	clock.Advance(DefaultDelays.Advance)

	resp, _ := c.do(http.MethodPost, "/action", url.Values{"action": {"call"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Immediate refresh while the close animation plays, then the
	// destination page loading after the browser has navigated.
	resp, _ = c.do(http.MethodGet, "/dialog", nil)
	assert.Empty(t, resp.Header.Get("X-Intake-Navigate"))
	clock.Advance(DefaultDelays.Navigate)

	for i := 0; i < 2; i++ {
		resp, body := c.do(http.MethodGet, "/dialog", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, resp.Header.Get("X-Intake-Navigate"))
		assert.Contains(t, body, `aria-hidden="true"`)
	}
}

func TestHandler_DescriptionSurvivesQuickClose(t *testing.T) {
	c, _ := newIntakeServer(t)

	c.do(http.MethodPost, "/open", url.Values{"opener": {"hero-cta"}})
	resp, _ := c.do(http.MethodPost, "/close", url.Values{"via": {"escape"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = c.do(http.MethodPost, "/description", url.Values{"description": {"typed just before escape"}})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, body := c.do(http.MethodPost, "/open", url.Values{"opener": {"hero-cta"}})
	assert.Contains(t, body, "typed just before escape")
}

func TestHandler_CloseCarriesPendingDescription(t *testing.T) {
	c, _ := newIntakeServer(t)

	c.do(http.MethodPost, "/open", url.Values{"opener": {"hero-cta"}})
	c.do(http.MethodPost, "/description", url.Values{"description": {"first draft"}})
	resp, _ := c.do(http.MethodPost, "/close", url.Values{
		"via":         {"overlay"},
		"description": {"first draft, finished"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body := c.do(http.MethodPost, "/open", url.Values{"opener": {"hero-cta"}})
	assert.Contains(t, body, "first draft, finished")
}

func TestHandler_DescriptionAfterHandoffRejected(t *testing.T) {
	c, clock := newIntakeServer(t)

	resp, _ := c.do(http.MethodPost, "/description", url.Values{"description": {"never opened"}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	c.do(http.MethodPost, "/open", url.Values{"opener": {"hero-cta"}})
	c.do(http.MethodPost, "/intent", url.Values{"intent": {"request"}})
	clock.Advance(DefaultDelays.Advance)
	c.do(http.MethodPost, "/type", url.Values{"type": {"business"}})
	clock.Advance(DefaultDelays.Advance)
	c.do(http.MethodPost, "/action", url.Values{"action": {"request"}})

	resp, _ = c.do(http.MethodPost, "/description", url.Values{"description": {"too late"}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestHandler_RejectsBadInput(t *testing.T) {
	c, _ := newIntakeServer(t)

	resp, _ := c.do(http.MethodPost, "/intent", url.Values{"intent": {"discuss"}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "wizard is closed")

	c.do(http.MethodPost, "/open", url.Values{"opener": {"x"}})
	resp, _ = c.do(http.MethodPost, "/intent", url.Values{"intent": {"<script>"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = c.do(http.MethodPost, "/type", url.Values{"type": {"startup"}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = c.do(http.MethodPost, "/action", url.Values{"action": {"fax"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_CloseRestoresOpener(t *testing.T) {
	c, clock := newIntakeServer(t)
	c.do(http.MethodPost, "/open", url.Values{"opener": {"nav-cta"}})
	clock.Advance(DefaultDelays.Focus)

	_, body := c.do(http.MethodGet, "/dialog", nil)
	assert.Contains(t, body, `data-intake-focus="intake-dialog"`)

	resp, body := c.do(http.MethodPost, "/close", url.Values{"via": {"escape"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `data-intake-focus="nav-cta"`)
	assert.NotContains(t, body, "data-intake-scroll-lock")
}

func TestHandler_IgnoresForgedCookie(t *testing.T) {
	c, _ := newIntakeServer(t)
	c.cookie = &http.Cookie{Name: VisitorCookie, Value: "../../etc"}

	c.do(http.MethodGet, "/dialog", nil)
	require.NotNil(t, c.cookie)
	assert.NotEqual(t, "../../etc", c.cookie.Value)
}

func TestHandler_ServesClientScript(t *testing.T) {
	c, _ := newIntakeServer(t)
	resp, body := c.do(http.MethodGet, "/intake.js", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "javascript")
	assert.Contains(t, body, "data-intake-open")
	assert.Contains(t, body, `post("/description", { description: e.target.value });`, "every keystroke is posted")
	assert.Contains(t, body, "fields.description = textarea.value", "close flushes the textarea")
	assert.NotContains(t, body, "X-Intake-Navigate")
	assert.Nil(t, c.cookie, "static script does not start a session")
}
