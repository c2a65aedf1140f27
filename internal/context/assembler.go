package context

import (
	"repogenome/internal/genome"
	"repogenome/internal/rgerrors"
)

// defaultBudgetTokens matches the original's own default (constraints.get("maxTokens", 2000)).
const defaultBudgetTokens = 2000

// expandDepth bounds the weighted BFS in step 2.
const expandDepth = 3

// seedLimit caps how many seeds step 1 hands to step 2, keeping the
// expansion bounded regardless of Genome size.
const seedLimit = 40

// Assembler implements the seed/expand/fold/score-and-pack/stage/record
// pipeline of spec §4.9 over a fixed Genome snapshot.
type Assembler struct {
	Genome   *genome.Genome
	Sessions *SessionMemory
	Recorder *Recorder
	Feedback *Feedback
}

// New returns an Assembler over g. Sessions/Recorder/Feedback may be nil
// if the caller does not need session memory, trace recording, or
// feedback tracking (e.g. a one-off CLI build_context call).
func New(g *genome.Genome, sessions *SessionMemory, recorder *Recorder, feedback *Feedback) *Assembler {
	return &Assembler{Genome: g, Sessions: sessions, Recorder: recorder, Feedback: feedback}
}

// Build runs the full pipeline and returns the assembled Context.
func (a *Assembler) Build(req Request) (Context, error) {
	if req.BudgetTokens <= 0 {
		req.BudgetTokens = defaultBudgetTokens
	}

	if a.Sessions != nil && req.SessionID != "" {
		state, err := a.Sessions.Get(req.SessionID)
		if err != nil {
			return Context{}, err
		}
		for _, pinned := range state.PinnedIds {
			id := genome.NodeId(pinned)
			if !isMustInclude(req.MustInclude, id) {
				req.MustInclude = append(req.MustInclude, id)
			}
		}
	}

	scope := resolveScope(a.Genome, req.Goal)

	seeds := seed(a.Genome, req, scope, seedLimit)
	expanded := expand(a.Genome, seeds, expandDepth)
	kept, clusters := fold(a.Genome, expanded)
	packed, tokensUsed := scoreAndPack(kept, req.BudgetTokens)

	var warnings []string
	if len(packed) < len(kept) {
		warnings = append(warnings, "context truncated to fit token budget")
	}

	skeleton := buildSkeleton(a.Genome, packed, clusters)

	var flows []genome.Flow
	if scope.IncludeFlows {
		flows = selectFlows(a.Genome, packed, 10)
	}
	var contracts []string
	if scope.IncludeContract {
		contracts = selectContracts(a.Genome, packed)
	}
	var history []genome.NodeId
	if scope.IncludeHistory {
		history = selectHistory(a.Genome, packed)
	}

	selectedIds := make([]genome.NodeId, 0, len(packed))
	for _, it := range packed {
		selectedIds = append(selectedIds, it.Id)
	}

	result := Context{
		Skeleton:  skeleton,
		Items:     packed,
		Clusters:  clusters,
		Flows:     flows,
		Contracts: contracts,
		History:   history,
		Warnings:  warnings,
	}
	result.Fingerprint = fingerprint(result)

	if a.Recorder != nil {
		trace := Trace{
			Goal:         req.Goal,
			Scope:        scope,
			Seeds:        seeds,
			Expanded:     expanded,
			Folded:       clusters,
			Selected:     selectedIds,
			BudgetTokens: req.BudgetTokens,
			TokensUsed:   tokensUsed,
			Warnings:     warnings,
		}
		contextID, err := a.Recorder.Record(trace)
		if err != nil {
			return Context{}, err
		}
		result.ContextId = contextID
	}

	return result, nil
}

// Skeleton returns only the low-latency first page (get_context_skeleton).
func (a *Assembler) Skeleton(req Request) (Skeleton, error) {
	full, err := a.Build(req)
	if err != nil {
		return Skeleton{}, err
	}
	return full.Skeleton, nil
}

// Explain returns the recorded decision trace for a prior Build call.
func (a *Assembler) Explain(contextID string) (Trace, error) {
	if a.Recorder == nil {
		return Trace{}, rgerrors.New(rgerrors.InvalidInput, "context recording is disabled")
	}
	return a.Recorder.Explain(contextID)
}

func selectFlows(g *genome.Genome, packed []Item, limit int) []genome.Flow {
	selected := map[genome.NodeId]bool{}
	for _, it := range packed {
		selected[it.Id] = true
	}
	var out []genome.Flow
	for _, flow := range g.Flows {
		if selected[flow.Entry] {
			out = append(out, flow)
			continue
		}
		for _, id := range flow.Path {
			if selected[id] {
				out = append(out, flow)
				break
			}
		}
		if len(out) >= limit {
			break
		}
	}
	return out
}

func selectContracts(g *genome.Genome, packed []Item) []string {
	selected := map[genome.NodeId]bool{}
	for _, it := range packed {
		selected[it.Id] = true
	}
	var out []string
	for sig, contract := range g.Contracts {
		for _, dep := range contract.DependsOn {
			if selected[dep] {
				out = append(out, sig)
				break
			}
		}
	}
	return out
}

func selectHistory(g *genome.Genome, packed []Item) []genome.NodeId {
	var out []genome.NodeId
	for _, it := range packed {
		if _, ok := g.History[it.Id]; ok {
			out = append(out, it.Id)
		}
	}
	return out
}
