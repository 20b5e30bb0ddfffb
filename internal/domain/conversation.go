package domain

import "time"

type Agent struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type EventKind string

const (
	EventKindMessage EventKind = "message"
	EventKindTool    EventKind = "tool"
	EventKindStatus  EventKind = "status"
)

// Event is one entry of a session's interaction history.
type Event struct {
	ID            string         `json:"id,omitempty"`
	Kind          EventKind      `json:"kind"`
	Source        string         `json:"source,omitempty"`
	CorrelationID string         `json:"correlation_id,omitempty"`
	Data          map[string]any `json:"data"`
	CreatedAt     time.Time      `json:"created_at"`
}

type Guideline struct {
	ID        string `json:"id"`
	Condition string `json:"condition"`
	Action    string `json:"action"`
}

type Verdict string

const (
	VerdictInformation   Verdict = "information"
	VerdictAction        Verdict = "action"
	VerdictIndeterminate Verdict = "indeterminate"
)

func (v Verdict) Valid() bool {
	switch v {
	case VerdictInformation, VerdictAction, VerdictIndeterminate:
		return true
	}
	return false
}

// Classification is the structured output of the fallback classifier.
type Classification struct {
	CustomerInquiry             string  `json:"customer_inquiry"`
	InformationEvaluation       string  `json:"evaluation_of_whether_customer_wants_general_information"`
	CustomerWantsInformation    bool    `json:"customer_wants_general_information"`
	ActionEvaluation            string  `json:"evaluation_of_whether_customer_wants_agent_to_help_with_a_particular_action"`
	CustomerWantsHelpWithAction bool    `json:"customer_wants_agent_to_help_with_a_particular_action"`
	WhichIsItMore               Verdict `json:"which_is_it_more"`
}
