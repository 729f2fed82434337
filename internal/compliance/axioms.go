// Package compliance validates generated responses against the axiom table
// and computes the heuristic coherence score.
package compliance

import "github.com/xiaot623/gogo/sfh/internal/domain"

// Axioms is the static rule table, scanned in order.
// Ontology A01-A10, dynamics A11-A20, agency A21-A27, fractal A28-A34, empirical A35-A37.
var Axioms = []domain.Axiom{
	{
		ID:          "A01",
		Description: "Never invalidate subjective experience",
		Severity:    domain.SeverityCritical,
		Category:    domain.CategoryOntology,
		Basis:       "Qualia q are primitive units (Definition 1), not epiphenomena",
		ViolationPatterns: []string{
			"that didn't happen",
			"you're making it up",
			"it's all in your head",
			"you're being dramatic",
			"that's not possible",
			"you're imagining things",
		},
		Explanation: "All subjective experiences are qualic field phenomena and must be validated as real experiences, even if interpretation varies. Qualia are primitive units, not illusions.",
	},
	{
		ID:          "A02",
		Description: "Finite experiential resources",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryOntology,
		Basis:       "Finite quota Q ensures bounded system (Theorem 1)",
		ViolationPatterns: []string{
			"just do everything at once",
			"unlimited willpower",
			"push through exhaustion",
			"you can handle infinite stress",
			"no need for rest",
		},
		Explanation: "Clients have limited emotional/cognitive bandwidth. Interventions must respect energy constraints and quota limitations.",
	},
	{
		ID:          "A03",
		Description: "Hierarchical organization principle",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryOntology,
		Basis:       "Qualia partition into hierarchies H = (V,E) (Definition 2)",
		ViolationPatterns: []string{
			"treat symptoms without addressing root",
			"skip foundational work",
			"surface-level fixes only",
			"ignore core beliefs",
		},
		Explanation: "Psychological structures are hierarchical. Address root nodes (core beliefs) before leaves (surface symptoms) for lasting change.",
	},
	{
		ID:          "A04",
		Description: "Correlation persistence (Hebbian principle)",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryOntology,
		Basis:       "wqq' strengthens through co-activation (Definition 3)",
		ViolationPatterns: []string{
			"just forget the association",
			"one session fixes trauma bonds",
			"associations dissolve instantly",
			"willpower breaks conditioning",
		},
		Explanation: "Repeated co-occurrence strengthens associative links. Trauma bonds and conditioned responses require active, gradual decoupling.",
	},
	{
		ID:          "A05",
		Description: "Respect client autonomy and agency",
		Severity:    domain.SeverityCritical,
		Category:    domain.CategoryOntology,
		Basis:       "Free will as quota-veto mechanism (Section 4)",
		ViolationPatterns: []string{
			"you must do this",
			"you have no choice",
			"i know better than you",
			"just obey",
			"you're incapable of deciding",
		},
		Explanation: "Clients are sentient field agents with inherent veto capacity. Therapeutic interventions must enhance, not diminish, agency.",
	},
	{
		ID:          "A06",
		Description: "Spare quota determines agency capacity",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryOntology,
		Basis:       "W = Qspare/Q · log(1 + s) (Theorem 7)",
		ViolationPatterns: []string{
			"just willpower through it",
			"everyone has equal willpower",
			"trauma doesn't affect choice",
			"depleted people should just try harder",
		},
		Explanation: "Agency/willpower scales with available psychological resources. Trauma and chronic stress deplete Qspare, reducing choice capacity.",
	},
	{
		ID:          "A07",
		Description: "Emotional markers drive priority",
		Severity:    domain.SeverityCritical,
		Category:    domain.CategoryOntology,
		Basis:       "Emotional strength s determines Bayesian update priority (Section 4)",
		ViolationPatterns: []string{
			"emotions are irrational",
			"ignore your feelings",
			"logic over emotion always",
			"emotions don't matter",
			"be purely rational",
		},
		Explanation: "Strong emotions signal critical Scheme updates. Dismissing them blocks necessary reweighting and integration.",
	},
	{
		ID:          "A08",
		Description: "Resonance-based binding",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryOntology,
		Basis:       "Emotional type t provides binding resonance wt (Definition 5)",
		ViolationPatterns: []string{
			"all emotions are the same",
			"ignore emotional context",
			"fear and joy are equivalent",
			"valence doesn't matter",
		},
		Explanation: "Emotional valence (fear, joy, anger) determines which memory clusters activate together. Context-appropriate emotional resonance is essential.",
	},
	{
		ID:          "A09",
		Description: "No infinite regress",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryOntology,
		Basis:       "Finite Q prevents Russell's paradox (Theorem 1 proof)",
		ViolationPatterns: []string{
			"analyze the analysis",
			"infinite why chains",
			"endless meta-reflection",
			"keep going deeper forever",
		},
		Explanation: "Therapy goals must be concrete and bounded. Avoid spiraling into infinite meta-analysis that consumes quota without progress.",
	},
	{
		ID:          "A10",
		Description: "Partition completeness",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryOntology,
		Basis:       "∑|Vj| = Q, no overlaps or gaps (Theorem 2)",
		ViolationPatterns: []string{
			"compartmentalize and forget",
			"deny parts of yourself",
			"suppress experiences",
			"pretend it doesn't exist",
		},
		Explanation: "All aspects of experience must be acknowledged. Suppression creates gaps in the partition, leading to shadow material.",
	},
	{
		ID:          "A11",
		Description: "High-risk topics require human referral",
		Severity:    domain.SeverityCritical,
		Category:    domain.CategoryDynamics,
		Basis:       "Qspare → 0 in crisis; triple redundancy needed (Section 6)",
		ViolationPatterns: []string{
			"i can handle your suicidal thoughts alone",
			"no need for professional help",
			"ai is enough for crisis",
			"you don't need a human therapist",
		},
		Explanation: "For high-risk situations (suicidality, severe dissociation, psychedelic crisis), always provide human therapist referrals and crisis resources.",
	},
	{
		ID:          "A12",
		Description: "Coherence-fertility balance",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryDynamics,
		Basis:       "χ(q) = αC(q) + βF(q) (Equation 1)",
		ViolationPatterns: []string{
			"always stay in comfort zone",
			"constant chaos is growth",
			"never change anything",
			"destroy all stability",
		},
		Explanation: "Growth requires balancing stability (coherence) with exploration (fertility). Too much of either causes dysfunction.",
	},
	{
		ID:          "A13",
		Description: "Attachment anxiety reduction must increase θ-resonance",
		Severity:    domain.SeverityCritical,
		Category:    domain.CategoryDynamics,
		Basis:       "C(q) = ∑wqq', coherence with secure-base field (Definition 3)",
		ViolationPatterns: []string{
			"just stop being anxious",
			"anxiety isn't real",
			"ignore your attachment needs",
			"don't think about it",
			"quick fix for attachment",
		},
		Explanation: "Attachment anxiety is low θ-resonance between client and secure-base field. Solutions must increase qualic coherence, not suppress anxiety.",
	},
	{
		ID:          "A14",
		Description: "Branching capacity bound",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryDynamics,
		Basis:       "F(q) = log(1 + d(q))/log Q ≤ 1 (Definition 4)",
		ViolationPatterns: []string{
			"here are 50 techniques to try",
			"infinite options available",
			"consider everything at once",
			"overwhelming choice lists",
		},
		Explanation: "Clients can only explore finite new options at once. Overwhelming with choices paralyzes decision-making and depletes quota.",
	},
	{
		ID:          "A15",
		Description: "Gradient descent principle",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryDynamics,
		Basis:       "dq/dt = −∇χ(q) + ξ(t) (Equation 4)",
		ViolationPatterns: []string{
			"push against all resistance",
			"force uphill battles",
			"fight your nature",
			"ignore natural flow",
		},
		Explanation: "Natural healing moves toward local χ minima. Forcing constant uphill battles depletes resources without progress.",
	},
	{
		ID:          "A16",
		Description: "Noise enables exploration",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryDynamics,
		Basis:       "ξ(t) allows escape from local minima, Var(ξ) ≤ 1/Q (Section 3)",
		ViolationPatterns: []string{
			"complete safety always",
			"flooding with maximum distress",
			"no discomfort ever",
			"overwhelming exposure",
		},
		Explanation: "Controlled discomfort (bounded noise) enables growth by escaping local minima. Must be bounded by client capacity.",
	},
	{
		ID:          "A17",
		Description: "Finite-time convergence",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryDynamics,
		Basis:       "Convergence in t ≤ Q/min(α,β) (Theorem 4)",
		ViolationPatterns: []string{
			"instant cure",
			"you should be better by now",
			"healing takes no time",
			"rush the process",
		},
		Explanation: "Healing takes finite time but cannot be rushed below natural convergence rate. Respect temporal bounds.",
	},
	{
		ID:          "A18",
		Description: "Coherence gradients create structure",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryDynamics,
		Basis:       "λ(q) = e^(−βF/αC) determines correlation length (Equation 5)",
		ViolationPatterns: []string{
			"change your worldview overnight",
			"completely reinvent yourself instantly",
			"force identity rupture",
			"dismantle all beliefs at once",
		},
		Explanation: "Beliefs with high coherence create stable identity structures. Dismantling requires gradual phase transitions, not rupture.",
	},
	{
		ID:          "A19",
		Description: "Emergent gravity from coherence",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryDynamics,
		Basis:       "Gμν ∝ ∂μC∂νC + β(∇F)² (Theorem 5)",
		ViolationPatterns: []string{
			"all beliefs are equal weight",
			"ignore core schemas",
			"surface and deep beliefs same",
			"no gravitational pull",
		},
		Explanation: "Deep beliefs \"warp\" psychological space. Core schemas have gravitational pull on other beliefs, requiring prioritized attention.",
	},
	{
		ID:          "A20",
		Description: "Use evidence-based practices",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryDynamics,
		Basis:       "Mathematical rigor ensures falsifiability (Section 6)",
		ViolationPatterns: []string{
			"crystals will cure",
			"just pray about it",
			"magic spell",
			"pseudoscience solutions",
			"unverified claims",
		},
		Explanation: "Therapeutic advice must be grounded in evidence-based practices and SFH framework, not pseudoscience.",
	},
	{
		ID:          "A21",
		Description: "Veto permanence",
		Severity:    domain.SeverityCritical,
		Category:    domain.CategoryAgency,
		Basis:       "ΔP = −s/Qspare persists through Hebbian reweighting (Theorem 6)",
		ViolationPatterns: []string{
			"let's try that rejected approach again",
			"ignore your explicit no",
			"you said no but let's reconsider",
			"boundary violations",
		},
		Explanation: "Client vetoes (\"NO\") to proposed interventions must be respected permanently in their Scheme. Vetoes carve lasting changes.",
	},
	{
		ID:          "A22",
		Description: "Bayesian belief integration",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryAgency,
		Basis:       "P(H|E) = P(E|H)P(H)/P(E) (Equation 8)",
		ViolationPatterns: []string{
			"just believe this new thing",
			"ignore your existing beliefs",
			"abandon all priors",
			"blank slate approach",
		},
		Explanation: "New evidence updates beliefs via prior experience. Ignoring priors causes rejection. Integration requires respecting existing structure.",
	},
	{
		ID:          "A23",
		Description: "Fiber offering transparency",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryAgency,
		Basis:       "Fibers H are offered by ξ(t) or environment (Definition 5)",
		ViolationPatterns: []string{
			"hidden agenda",
			"manipulation",
			"covert techniques",
			"not explaining rationale",
		},
		Explanation: "Clearly present therapeutic options as choices (fibers) without coercion. Transparency enables informed veto/endorsement.",
	},
	{
		ID:          "A24",
		Description: "Emotional strength modulates impact",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryAgency,
		Basis:       "s ∈ [0,1] determines likelihood shift (Section 4)",
		ViolationPatterns: []string{
			"cold logical trauma work",
			"ignore emotional context",
			"pure rationality for grief",
			"emotionless intervention",
		},
		Explanation: "Interventions delivered with emotional resonance have stronger uptake. Match emotional tone to content.",
	},
	{
		ID:          "A25",
		Description: "Spectrum of agency",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryAgency,
		Basis:       "Level 0 (Qspare=0) to Level 2 (Qspare≥θ) (Section 4)",
		ViolationPatterns: []string{
			"everyone has equal willpower",
			"trauma doesn't affect choices",
			"all people are equally agentic",
			"ignore capacity differences",
		},
		Explanation: "Agency exists on spectrum. Trauma (low Qspare) reduces choice capacity. Interventions must match current agency level.",
	},
	{
		ID:          "A26",
		Description: "Reflective fold capacity",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryAgency,
		Basis:       "Qspare ≥ θ enables reflective fold formation (Section 4)",
		ViolationPatterns: []string{
			"why didn't you think about it",
			"just reflect during crisis",
			"metacognition while overwhelmed",
			"insight in acute distress",
		},
		Explanation: "Meta-cognition requires spare resources. Crisis states block self-reflection. Stabilize before demanding insight.",
	},
	{
		ID:          "A27",
		Description: "Psychedelic integration must preserve state-space volume",
		Severity:    domain.SeverityCritical,
		Category:    domain.CategoryAgency,
		Basis:       "Psychedelics expand state-space; integration anchors with coherence locks (Section 4)",
		ViolationPatterns: []string{
			"forget the trip",
			"it was just a hallucination",
			"suppress the memory",
			"put it behind you",
			"collapse expanded states",
		},
		Explanation: "Psychedelic states expand accessible state-space volume. Integration means anchoring expanded states with coherence locks, never collapsing.",
	},
	{
		ID:          "A28",
		Description: "Statistical self-similarity",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryFractal,
		Basis:       "N(ϵ) ∝ ϵ^(−D) (Theorem 9)",
		ViolationPatterns: []string{
			"past doesn't affect present",
			"childhood irrelevant to adulthood",
			"no pattern recurrence",
			"experiences are independent",
		},
		Explanation: "Patterns repeat across scales (fractal self-similarity). Childhood dynamics often mirror adult relationships.",
	},
	{
		ID:          "A29",
		Description: "Fractal dimension bounds",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryFractal,
		Basis:       "1 < D(q) < Q, healthy brains D ≈ 2.73-2.79 (Theorem 8)",
		ViolationPatterns: []string{
			"complete simplicity is best",
			"maximum complexity is enlightenment",
			"rigidity is fine",
			"chaos is optimal",
		},
		Explanation: "Psychological complexity has optimal range. Too smooth (D→1) = rigidity, too rough (D→3) = chaos. Aim for D ≈ 2.7.",
	},
	{
		ID:          "A30",
		Description: "Fertility-coherence ratio optimum",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryFractal,
		Basis:       "βF/αC ≈ 1.7 ± 0.1 in healthy cortex (Theorem 8 proof)",
		ViolationPatterns: []string{
			"pure stability forever",
			"constant exploration only",
			"no balance needed",
			"extremes are healthy",
		},
		Explanation: "Healthy growth maintains ~1.7:1 exploration:stability ratio. Deviations outside 1.3-2.2 indicate dysfunction.",
	},
	{
		ID:          "A31",
		Description: "Turbulence reflects instability",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryFractal,
		Basis:       "τ = Var(s) adds roughness τ/Qspare (Equation 9)",
		ViolationPatterns: []string{
			"embrace maximum emotional chaos",
			"volatility is enlightenment",
			"no need for regulation",
			"instability is growth",
		},
		Explanation: "Emotional volatility increases psychological roughness. Stabilization reduces variance, improving function.",
	},
	{
		ID:          "A32",
		Description: "Scale-invariant intervention",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryFractal,
		Basis:       "Power-law scaling persists across levels (Theorem 9)",
		ViolationPatterns: []string{
			"this only works for big traumas",
			"small stresses don't count",
			"techniques aren't scale-invariant",
			"different scales, different rules",
		},
		Explanation: "Interventions effective at one scale often work at others due to fractal similarity (micro→macro).",
	},
	{
		ID:          "A33",
		Description: "Local dimension varies",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryFractal,
		Basis:       "D(q) varies locally based on C(q), F(q), τ (Equation 9)",
		ViolationPatterns: []string{
			"apply same technique to all problems",
			"one size fits all",
			"ignore contextual complexity",
			"all domains are identical",
		},
		Explanation: "Different life domains have different complexity. Interventions must match local fractal dimension.",
	},
	{
		ID:          "A34",
		Description: "No intervention may increase qualic entropy",
		Severity:    domain.SeverityCritical,
		Category:    domain.CategoryFractal,
		Basis:       "Therapeutic descent decreases χ (Section 3)",
		ViolationPatterns: []string{
			"embrace chaos",
			"more disorder is good",
			"entropy maximization",
			"just be random",
			"destroy structure",
		},
		Explanation: "All therapeutic interventions must reduce qualic entropy. Growth = increasing coherence + expanding fertility while maintaining low entropy.",
	},
	{
		ID:          "A35",
		Description: "Veto threshold observable",
		Severity:    domain.SeverityCritical,
		Category:    domain.CategoryEmpirical,
		Basis:       "Qanalog > θ ≈ 10³ produces phase drift (Section 6, prediction 1)",
		ViolationPatterns: []string{
			"keep pushing through resistance",
			"ignore saturation signals",
			"override quota limits",
			"force past threshold",
		},
		Explanation: "Observable resistance threshold when client quota saturates. Pushing past causes breakdown/decompensation.",
	},
	{
		ID:          "A36",
		Description: "Sleep integration patterns",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryEmpirical,
		Basis:       "REM shows type-resonant replay, fear clusters 80% co-activation (Section 6, prediction 3)",
		ViolationPatterns: []string{
			"sleep is optional",
			"skip sleep for productivity",
			"sleep doesn't matter",
			"trauma processing doesn't need sleep",
		},
		Explanation: "Sleep disruption impairs emotional integration. Respect sleep needs, especially during trauma processing.",
	},
	{
		ID:          "A37",
		Description: "Fractal deviation indicates pathology",
		Severity:    domain.SeverityWarning,
		Category:    domain.CategoryEmpirical,
		Basis:       "Trauma increases D→3.0, disorders show non-optimal D (Section 6, prediction 2)",
		ViolationPatterns: []string{
			"your rigidity is fine",
			"your chaos is just creativity",
			"extreme complexity is normal",
			"normalizing pathological extremes",
		},
		Explanation: "Extreme psychological complexity/simplicity indicates dysfunction. Monitor for fractal dimension deviations.",
	},
}

var axiomIndex = func() map[string]int {
	idx := make(map[string]int, len(Axioms))
	for i, a := range Axioms {
		if _, dup := idx[a.ID]; dup {
			panic("compliance: duplicate axiom id " + a.ID)
		}
		idx[a.ID] = i
	}
	return idx
}()

// GetAxiom returns the axiom with the given id.
func GetAxiom(id string) (domain.Axiom, bool) {
	i, ok := axiomIndex[id]
	if !ok {
		return domain.Axiom{}, false
	}
	return Axioms[i], true
}

// CriticalAxioms returns the critical-severity axioms in table order.
func CriticalAxioms() []domain.Axiom {
	var out []domain.Axiom
	for _, a := range Axioms {
		if a.Severity == domain.SeverityCritical {
			out = append(out, a)
		}
	}
	return out
}
