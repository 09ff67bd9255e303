package intake

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// TotalSteps is the length of the funnel.
const TotalSteps = 3

type optionView struct {
	Value    string
	Title    string
	Blurb    string
	Icon     string
	Selected bool
}

type step1View struct {
	Options     []optionView
	Description string
}

type step2View struct {
	Options []optionView
}

type step3View struct {
	Title       string
	IntentLabel string
	TypeLabel   string
	Description string
	Primary     Action
	Secondary   Action
}

func intentOptions(selected Intent) []optionView {
	return []optionView{
		{Value: string(IntentDiscuss), Title: IntentDiscuss.Label(), Blurb: "Talk to our team about your project vision", Icon: "fa-comments", Selected: selected == IntentDiscuss},
		{Value: string(IntentRequest), Title: IntentRequest.Label(), Blurb: "Get a quote for a specific service", Icon: "fa-clipboard-list", Selected: selected == IntentRequest},
		{Value: string(IntentAutomate), Title: IntentAutomate.Label(), Blurb: "Streamline operations with automation", Icon: "fa-magic", Selected: selected == IntentAutomate},
	}
}

func companyTypeOptions(selected CompanyType) []optionView {
	return []optionView{
		{Value: string(CompanyTypeStartup), Title: CompanyTypeStartup.Label(), Blurb: "Early-stage, building an MVP", Icon: "fa-rocket", Selected: selected == CompanyTypeStartup},
		{Value: string(CompanyTypeBusiness), Title: CompanyTypeBusiness.Label(), Blurb: "Established company, growing fast", Icon: "fa-building", Selected: selected == CompanyTypeBusiness},
		{Value: string(CompanyTypeEnterprise), Title: CompanyTypeEnterprise.Label(), Blurb: "Large organization, complex needs", Icon: "fa-city", Selected: selected == CompanyTypeEnterprise},
	}
}

// RenderStep produces the body of one step. User text is escaped by
// html/template at every interpolation site.
func RenderStep(step int, uc UserContext) (template.HTML, error) {
	var (
		name string
		data any
	)
	switch step {
	case 1:
		name, data = "step1.html", step1View{Options: intentOptions(uc.Intent), Description: uc.Description}
	case 2:
		name, data = "step2.html", step2View{Options: companyTypeOptions(uc.CompanyType)}
	case 3:
		p := Resolve(uc.Intent, uc.CompanyType)
		name, data = "step3.html", step3View{
			Title:       p.Title,
			IntentLabel: uc.Intent.Label(),
			TypeLabel:   uc.CompanyType.Label(),
			Description: uc.Description,
			Primary:     p.Primary,
			Secondary:   p.Secondary,
		}
	default:
		return "", fmt.Errorf("intake: no step %d", step)
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("intake: render step %d: %w", step, err)
	}
	// Output of html/template is already escaped.
	return template.HTML(buf.String()), nil
}

type dialogView struct {
	Endpoint     string
	Visible      bool
	AriaHidden   string
	ScrollLocked bool
	Focus        string
	Step         int
	TotalSteps   int
	Progress     int
	Body         template.HTML
}

func renderDialog(w io.Writer, v dialogView) error {
	return templates.ExecuteTemplate(w, "dialog.html", v)
}
