// Package catalog lists the services a visitor can request.
package catalog

import "strings"

// Service is one requestable offering.
type Service struct {
	Group string `json:"group"`
	Icon  string `json:"icon"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Group is a run of services sharing a heading, in catalog order.
type Group struct {
	Name     string    `json:"name"`
	Services []Service `json:"services"`
}

// Catalog is an ordered, read-only service list.
type Catalog struct {
	services []Service
	byValue  map[string]Service
}

var defaultServices = []Service{
	{Group: "Development", Icon: "fa-code", Label: "Web Development", Value: "web-development"},
	{Group: "Development", Icon: "fa-mobile-alt", Label: "Mobile App Development", Value: "mobile-app-development"},

	{Group: "AI & Automation", Icon: "fa-robot", Label: "AI Solutions & Chatbots", Value: "ai-solutions"},
	{Group: "AI & Automation", Icon: "fa-fire", Label: "n8n Workflow Automation", Value: "n8n-workflows"},
	{Group: "AI & Automation", Icon: "fa-cogs", Label: "Business Process Automation", Value: "business-automation"},
	{Group: "AI & Automation", Icon: "fa-magic", Label: "No-code/Low-code Automation", Value: "no-code-automation"},

	{Group: "ERP & Business Systems", Icon: "fa-building", Label: "ERPNext Implementation", Value: "erpnext"},
	{Group: "ERP & Business Systems", Icon: "fa-briefcase", Label: "Custom ERP Development", Value: "custom-erp"},
	{Group: "ERP & Business Systems", Icon: "fa-users", Label: "HRMS Solution", Value: "hrms"},
	{Group: "ERP & Business Systems", Icon: "fa-handshake", Label: "CRM Solution", Value: "crm"},
	{Group: "ERP & Business Systems", Icon: "fa-chart-line", Label: "Business Management Software", Value: "business-mgmt"},

	{Group: "SaaS", Icon: "fa-cloud", Label: "SaaS Product Development", Value: "saas-development"},
	{Group: "SaaS", Icon: "fa-server", Label: "Custom SaaS Platform", Value: "custom-saas"},
	{Group: "SaaS", Icon: "fa-network-wired", Label: "Cloud Infrastructure & DevOps", Value: "cloud-devops"},
	{Group: "SaaS", Icon: "fa-project-diagram", Label: "SaaS Architecture Consulting", Value: "saas-consulting"},

	{Group: "Integration", Icon: "fa-plug", Label: "API Integrations & Middleware", Value: "api-integration"},
	{Group: "Integration", Icon: "fa-exchange-alt", Label: "System Integrations (ERP ↔ CRM)", Value: "system-integration"},
}

// AutomationService is preselected when a visitor arrives from the
// wizard's automation path.
const AutomationService = "business-automation"

// Default returns the site's catalog.
func Default() *Catalog {
	return New(defaultServices)
}

// New builds a catalog. Later duplicates of a value are ignored.
func New(services []Service) *Catalog {
	c := &Catalog{byValue: make(map[string]Service, len(services))}
	for _, s := range services {
		if _, dup := c.byValue[s.Value]; dup {
			continue
		}
		c.byValue[s.Value] = s
		c.services = append(c.services, s)
	}
	return c
}

// All returns every service in order.
func (c *Catalog) All() []Service {
	return append([]Service(nil), c.services...)
}

// Filter returns services whose label contains query, ignoring case.
// A blank query matches everything.
func (c *Catalog) Filter(query string) []Service {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.All()
	}
	var out []Service
	for _, s := range c.services {
		if strings.Contains(strings.ToLower(s.Label), q) {
			out = append(out, s)
		}
	}
	return out
}

// Lookup finds a service by value.
func (c *Catalog) Lookup(value string) (Service, bool) {
	s, ok := c.byValue[value]
	return s, ok
}

// Label returns the display label for value, or value itself if unknown.
func (c *Catalog) Label(value string) string {
	if s, ok := c.byValue[value]; ok {
		return s.Label
	}
	return value
}

// GroupServices splits services into consecutive groups.
func GroupServices(services []Service) []Group {
	var groups []Group
	for _, s := range services {
		if n := len(groups); n > 0 && groups[n-1].Name == s.Group {
			groups[n-1].Services = append(groups[n-1].Services, s)
			continue
		}
		groups = append(groups, Group{Name: s.Group, Services: []Service{s}})
	}
	return groups
}
