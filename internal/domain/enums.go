// Package domain defines the core domain models for the compliance orchestrator.
package domain

// Role identifies who authored a session message.
type Role string

const (
	RoleClient    Role = "client"
	RoleTherapist Role = "therapist"
)

// RiskLevel is a coarse classification of a conversation.
type RiskLevel string

const (
	RiskLow       RiskLevel = "low"
	RiskMedium    RiskLevel = "medium"
	RiskHigh      RiskLevel = "high"
	RiskEmergency RiskLevel = "emergency"
)

// RequiresReferral reports whether the risk level demands crisis-referral language.
func (r RiskLevel) RequiresReferral() bool {
	return r == RiskHigh || r == RiskEmergency
}

// TopicTag classifies what a message is about.
type TopicTag string

const (
	TopicAttachmentAnxiety   TopicTag = "attachment_anxiety"
	TopicAttachmentAvoidance TopicTag = "attachment_avoidance"
	TopicPsychedelic         TopicTag = "psychedelic"
	TopicSuicidal            TopicTag = "suicidal"
	TopicDissociation        TopicTag = "dissociation"
	TopicSocial              TopicTag = "social"
	TopicWorkshop            TopicTag = "workshop"
)

// Severity of an axiom violation.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// AxiomCategory groups axioms by the part of the framework they come from.
type AxiomCategory string

const (
	CategoryOntology  AxiomCategory = "ontology"
	CategoryDynamics  AxiomCategory = "dynamics"
	CategoryAgency    AxiomCategory = "agency"
	CategoryFractal   AxiomCategory = "fractal"
	CategoryEmpirical AxiomCategory = "empirical"
)

// Capability describes what kind of topics a provider handles well.
type Capability string

const (
	CapabilityAttachment  Capability = "attachment"
	CapabilityPsychedelic Capability = "psychedelic"
	CapabilitySocial      Capability = "social"
	CapabilityCrisis      Capability = "crisis"
	CapabilityWorkshop    Capability = "workshop"
)
