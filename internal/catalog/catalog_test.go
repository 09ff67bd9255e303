package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	c := Default()
	assert.Len(t, c.Filter(""), len(defaultServices))

	got := c.Filter("  AUTOMATION ")
	require.Len(t, got, 3)
	assert.Equal(t, "n8n-workflows", got[0].Value)
	assert.Equal(t, "business-automation", got[1].Value)

	assert.Empty(t, c.Filter("blockchain"))
}

func TestLookupAndLabel(t *testing.T) {
	c := Default()
	s, ok := c.Lookup(AutomationService)
	require.True(t, ok)
	assert.Equal(t, "Business Process Automation", s.Label)
	assert.Equal(t, "CRM Solution", c.Label("crm"))
	assert.Equal(t, "quantum", c.Label("quantum"))
}

func TestNewIgnoresDuplicates(t *testing.T) {
	c := New([]Service{{Group: "A", Label: "One", Value: "x"}, {Group: "B", Label: "Two", Value: "x"}})
	assert.Len(t, c.All(), 1)
	assert.Equal(t, "One", c.Label("x"))
}

func TestGroupServices(t *testing.T) {
	groups := GroupServices(Default().Filter("saas"))
	require.Len(t, groups, 1)
	assert.Equal(t, "SaaS", groups[0].Name)
	assert.Len(t, groups[0].Services, 3)

	groups = GroupServices(Default().All())
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{"Development", "AI & Automation", "ERP & Business Systems", "SaaS", "Integration"}, names)
}

func TestHandlerSearch(t *testing.T) {
	h := NewHandler(nil)

	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/services?q=erp", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Count)
	require.Len(t, resp.Groups, 2)
	assert.Equal(t, "ERP & Business Systems", resp.Groups[0].Name)
	assert.Equal(t, "Integration", resp.Groups[1].Name)

	rec = httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodGet, "/api/services?q=zzz", nil))
	assert.JSONEq(t, `{"groups":[],"count":0}`, rec.Body.String())
}
