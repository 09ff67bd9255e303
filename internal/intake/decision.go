package intake

// Destination is which downstream form an action routes to.
type Destination string

const (
	DestinationCall    Destination = "call"
	DestinationRequest Destination = "request"
)

// ParseDestination returns the destination for raw input and whether it is known.
func ParseDestination(raw string) (Destination, bool) {
	switch Destination(raw) {
	case DestinationCall:
		return DestinationCall, true
	case DestinationRequest:
		return DestinationRequest, true
	default:
		return "", false
	}
}

// Action is one call-to-action on step 3.
type Action struct {
	Label       string
	Destination Destination
}

// Presentation is the adaptive content of step 3.
type Presentation struct {
	Title     string
	Primary   Action
	Secondary Action
}

// Actions returns primary then secondary.
func (p Presentation) Actions() []Action {
	return []Action{p.Primary, p.Secondary}
}

// ActionFor finds the offered action routing to dest.
func (p Presentation) ActionFor(dest Destination) (Action, bool) {
	for _, a := range p.Actions() {
		if a.Destination == dest {
			return a, true
		}
	}
	return Action{}, false
}

var decisionTable = map[CompanyType]Presentation{
	CompanyTypeStartup: {
		Title:     "How AtomNext Can Help You Build and Validate",
		Primary:   Action{Label: "Book a Call - Get Guidance", Destination: DestinationCall},
		Secondary: Action{Label: "Explore Services", Destination: DestinationRequest},
	},
	CompanyTypeBusiness: {
		Title:     "How AtomNext Can Improve Your Operations",
		Primary:   Action{Label: "Request Service - Start Improving", Destination: DestinationRequest},
		Secondary: Action{Label: "Talk to Us First", Destination: DestinationCall},
	},
	CompanyTypeEnterprise: {
		Title:     "How AtomNext Can Scale Your Systems",
		Primary:   Action{Label: "Book a Call - Discuss Architecture", Destination: DestinationCall},
		Secondary: Action{Label: "Request Service", Destination: DestinationRequest},
	},
}

var fallbackPresentation = Presentation{
	Title:     "How AtomNext Can Help",
	Primary:   Action{Label: "Request a Service", Destination: DestinationRequest},
	Secondary: Action{Label: "Book a Call", Destination: DestinationCall},
}

// Resolve picks the step-3 presentation. Only the company type drives the
// lookup; intent is carried for display and handoff.
func Resolve(_ Intent, companyType CompanyType) Presentation {
	if p, ok := decisionTable[companyType]; ok {
		return p
	}
	return fallbackPresentation
}
