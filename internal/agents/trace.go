package agents

import "fmt"

// Step is one entry of the agent's visible thought process. Every
// presentation layer renders this shape without engine-specific knowledge.
type Step struct {
	Label       string `json:"step"`
	Thought     string `json:"thought,omitempty"`
	Action      string `json:"action,omitempty"`
	Observation string `json:"observation,omitempty"`
}

// newStep builds a numbered step ("Adım 1", "Adım 2", ...).
func newStep(n int, thought, action, observation string) Step {
	return Step{
		Label:       fmt.Sprintf("Adım %d", n),
		Thought:     thought,
		Action:      action,
		Observation: observation,
	}
}
