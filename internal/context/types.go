// Package context implements the Context Assembler (spec §4.9):
// goal-driven node selection under a token budget via a seed/expand/
// fold/score-and-pack/stage/record pipeline, backed by session memory
// and per-context feedback counters. Grounded on
// original_source/repogenome/mcp/context_assembler.py's ContextAssembler
// — the teacher has no analogue for this component, so the algorithm
// follows the Python original while the code shape (struct-per-stage,
// explicit context.Context, table-driven tests) follows the teacher's
// own style elsewhere in the repo.
package context

import "repogenome/internal/genome"

// Request is the input to Build (spec §4.9 "Inputs").
type Request struct {
	Goal         string
	BudgetTokens int
	MustInclude  []genome.NodeId
	Exclude      []genome.NodeId
	SessionID    string
}

// Scope is the resolved interpretation of a goal: which domains it talks
// about and which optional tiers of the Genome it needs.
type Scope struct {
	Domains         []string
	IncludeFlows    bool
	IncludeHistory  bool
	IncludeContract bool
	PreferRecent    bool
}

// Item is one selected node carrying its relevance score and the reason
// it was pulled in, surfacing through to explain_context.
type Item struct {
	Id          genome.NodeId `json:"id"`
	Relevance   float64       `json:"relevance"`
	Criticality float64       `json:"criticality"`
	Reason      string        `json:"reason"`
}

// Cluster is a folded group of sibling nodes below the relevance floor,
// kept as one entry instead of many (spec §4.9 step 3).
type Cluster struct {
	Label string          `json:"label"`
	Nodes []genome.NodeId `json:"nodes"`
}

// Skeleton is the low-latency first page: entry points, top concepts,
// and folded clusters, without the full node/edge payload (spec §4.9
// step 5, get_context_skeleton).
type Skeleton struct {
	EntryPoints []genome.NodeId `json:"entry_points"`
	TopConcepts []string        `json:"top_concepts"`
	Clusters    []Cluster       `json:"clusters"`
}

// Context is the full build_context response.
type Context struct {
	ContextId   string          `json:"context_id"`
	Skeleton    Skeleton        `json:"skeleton"`
	Items       []Item          `json:"items"`
	Clusters    []Cluster       `json:"clusters"`
	Flows       []genome.Flow   `json:"flows,omitempty"`
	Contracts   []string        `json:"contracts,omitempty"`
	History     []genome.NodeId `json:"history,omitempty"`
	Warnings    []string        `json:"warnings,omitempty"`
	Fingerprint string          `json:"fingerprint"`
}

// Trace is the decision trace recorded under a ContextVersion id
// (spec §4.9 step 6, explain_context).
type Trace struct {
	ContextId    string          `json:"context_id"`
	Goal         string          `json:"goal"`
	Scope        Scope           `json:"scope"`
	Seeds        []Item          `json:"seeds"`
	Expanded     []Item          `json:"expanded"`
	Folded       []Cluster       `json:"folded"`
	Selected     []genome.NodeId `json:"selected"`
	BudgetTokens int             `json:"budget_tokens"`
	TokensUsed   int             `json:"tokens_used"`
	Warnings     []string        `json:"warnings,omitempty"`
}
