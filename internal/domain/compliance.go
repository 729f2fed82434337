package domain

// Axiom is a named compliance rule. Trigger phrases are matched as
// case-insensitive substrings.
type Axiom struct {
	ID                string        `json:"id" yaml:"id"`
	Description       string        `json:"description" yaml:"description"`
	Severity          Severity      `json:"severity" yaml:"severity"`
	ViolationPatterns []string      `json:"violation_patterns" yaml:"violation_patterns"`
	Explanation       string        `json:"explanation" yaml:"explanation"`
	Category          AxiomCategory `json:"category" yaml:"category"`
	Basis             string        `json:"basis,omitempty" yaml:"basis,omitempty"`
}

// RepairTemplate is a corrective instruction for one axiom.
// SuccessRate is informational only.
type RepairTemplate struct {
	ID             string  `json:"id"`
	ViolatedAxiom  string  `json:"violated_axiom"`
	TemplatePrompt string  `json:"template_prompt"`
	ExampleInput   string  `json:"example_input"`
	ExampleOutput  string  `json:"example_output"`
	SuccessRate    float64 `json:"success_rate"`
}

// ViolatedAxiom is one detected rule violation.
type ViolatedAxiom struct {
	AxiomID          string   `json:"axiom_id"`
	Description      string   `json:"description"`
	Severity         Severity `json:"severity"`
	ViolationDetails string   `json:"violation_details"`
}

// Resonance is reserved for a field-resonance metric; never computed.
type Resonance struct {
	ClientField         float64 `json:"client_field"`
	TherapistField      float64 `json:"therapist_field"`
	DyadResonance       float64 `json:"dyad_resonance"`
	AttachmentCoherence float64 `json:"attachment_coherence"`
}

// ValidationResult is the outcome of validating one Response.
type ValidationResult struct {
	Passed            bool            `json:"passed"`
	CoherenceScore    float64         `json:"coherence_score"`
	ViolatedAxioms    []ViolatedAxiom `json:"violated_axioms"`
	RepairSuggestions []string        `json:"repair_suggestions"`
	Resonance         *Resonance      `json:"resonance"`
}
