package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	"cardbot/internal/domain"
)

const classificationSection = `Classify the current state of the interaction into one of two classes:
1) The customer wants an informative answer about some topic.
2) The customer wants the agent to perform, or help with, a particular action that goes beyond general FAQ-style information.

Respond with a JSON object of this shape:
{
  "customer_inquiry": "<the customer's inquiry, in their own terms>",
  "evaluation_of_whether_customer_wants_general_information": "<your evaluation>",
  "customer_wants_general_information": <BOOL>,
  "evaluation_of_whether_customer_wants_agent_to_help_with_a_particular_action": "<your evaluation>",
  "customer_wants_agent_to_help_with_a_particular_action": <BOOL>,
  "which_is_it_more": <"information", "action", or "indeterminate" when you really cannot tell>
}`

// PromptBuilder assembles the classification prompt section by section.
type PromptBuilder struct {
	sections []string
}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

func (b *PromptBuilder) AddAgentIdentity(agent domain.Agent) *PromptBuilder {
	identity := fmt.Sprintf("You are an AI agent named %s.", agent.Name)
	if agent.Description != "" {
		identity += "\nHere is a description of you: " + agent.Description
	}
	b.sections = append(b.sections, identity)
	return b
}

func (b *PromptBuilder) AddSection(text string) *PromptBuilder {
	b.sections = append(b.sections, text)
	return b
}

func (b *PromptBuilder) AddInteractionHistory(events []domain.Event) *PromptBuilder {
	if len(events) == 0 {
		b.sections = append(b.sections, "The interaction with the customer has just begun; no events have been recorded yet.")
		return b
	}

	var sb strings.Builder
	sb.WriteString("The interaction so far:\n")
	for _, e := range events {
		data, err := json.Marshal(e.Data)
		if err != nil {
			data = []byte(fmt.Sprintf("%v", e.Data))
		}
		source := e.Source
		if source == "" {
			source = "unknown"
		}
		fmt.Fprintf(&sb, "- [%s from %s] %s\n", e.Kind, source, data)
	}
	b.sections = append(b.sections, strings.TrimRight(sb.String(), "\n"))
	return b
}

func (b *PromptBuilder) Build() string {
	return strings.Join(b.sections, "\n\n")
}

// BuildPrompt returns the full fallback classification prompt.
func BuildPrompt(agent domain.Agent, history []domain.Event) string {
	return NewPromptBuilder().
		AddAgentIdentity(agent).
		AddSection(classificationSection).
		AddInteractionHistory(history).
		Build()
}
