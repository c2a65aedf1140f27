package genome

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/klauspost/compress/gzip"

	"repogenome/internal/rgerrors"
)

// Mode selects a serialization density (spec §7 "Compaction modes").
type Mode string

const (
	// ModeStandard emits every field with long, self-describing keys.
	ModeStandard Mode = "standard"
	// ModeCompact emits short field-alias keys, still fully round-trippable.
	ModeCompact Mode = "compact"
	// ModeLite drops everything except the minimum an agent needs to
	// orient itself: node type/file/summary and edges. Lite is
	// write-only from the engine's perspective — it is never loaded back
	// as a working Genome.
	ModeLite Mode = "lite"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Save serializes g in the given mode, gzip-wrapping the result if gzip
// is true, and returns the encoded bytes.
func Save(g *Genome, mode Mode, gz bool) ([]byte, error) {
	g.Metadata.CompactionMode = string(mode)

	var payload interface{}
	switch mode {
	case ModeStandard, "":
		payload = g
	case ModeCompact:
		payload = toCompact(g)
	case ModeLite:
		payload = toLite(g)
	default:
		return nil, rgerrors.New(rgerrors.InvalidInput, "unknown compaction mode: "+string(mode))
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, rgerrors.Wrap(rgerrors.IoError, "encoding genome", err)
	}
	if !gz {
		return raw, nil
	}

	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		return nil, rgerrors.Wrap(rgerrors.IoError, "gzip-compressing genome", err)
	}
	if err := w.Close(); err != nil {
		return nil, rgerrors.Wrap(rgerrors.IoError, "closing gzip writer", err)
	}
	return buf.Bytes(), nil
}

// Load decodes bytes produced by Save. It auto-detects gzip wrapping by
// magic number and the compaction mode from metadata.compaction_mode
// (defaulting to standard for pre-existing artifacts that omit it).
// ModeLite artifacts cannot be loaded back into a working Genome.
func Load(data []byte) (*Genome, error) {
	if len(data) >= 2 && bytes.Equal(data[:2], gzipMagic) {
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, rgerrors.Wrap(rgerrors.IoError, "opening gzip genome", err)
		}
		defer r.Close()
		decompressed, err := io.ReadAll(r)
		if err != nil {
			return nil, rgerrors.Wrap(rgerrors.IoError, "decompressing genome", err)
		}
		data = decompressed
	}

	var probe struct {
		Metadata struct {
			CompactionMode string `json:"compaction_mode"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, rgerrors.Wrap(rgerrors.InvalidInput, "genome is not valid JSON", err)
	}

	switch Mode(probe.Metadata.CompactionMode) {
	case ModeLite:
		return nil, rgerrors.New(rgerrors.InvalidInput, "lite-mode genomes cannot be loaded, only exported")
	case ModeCompact:
		var c compactGenome
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, rgerrors.Wrap(rgerrors.InvalidInput, "decoding compact genome", err)
		}
		return fromCompact(&c), nil
	default:
		g := New()
		if err := json.Unmarshal(data, g); err != nil {
			return nil, rgerrors.Wrap(rgerrors.InvalidInput, "decoding genome", err)
		}
		return g, nil
	}
}

// compactGenome mirrors Genome with short field-alias keys (spec §7).
type compactGenome struct {
	Meta  Metadata               `json:"m"`
	Summ  Summary                `json:"s"`
	Nodes map[NodeId]compactNode `json:"n"`
	Edges []compactEdge          `json:"e"`
	Flows []compactFlow          `json:"f,omitempty"`
	Con   map[NodeId]Concept     `json:"c,omitempty"`
	Hist  map[NodeId]History     `json:"h,omitempty"`
	Risk  map[NodeId]Risk        `json:"r,omitempty"`
	Ctr   map[string]Contract    `json:"k,omitempty"`
	Sec   map[NodeId]Security    `json:"x,omitempty"`
}

// compactNode's field keys are the normative short aliases (spec §6,
// reused verbatim by §7's compact compaction mode): t, f, lang, v, s, c.
type compactNode struct {
	T    NodeType   `json:"t"`
	F    string     `json:"f,omitempty"`
	Lang string     `json:"lang,omitempty"`
	V    Visibility `json:"v,omitempty"`
	S    string     `json:"s,omitempty"`
	C    float64    `json:"c"`
}

// compactEdge's field keys are spec §6's edge aliases: fr, to, type.
type compactEdge struct {
	Fr   string   `json:"fr"`
	To   string   `json:"to"`
	Type EdgeType `json:"type"`
}

type compactFlow struct {
	E  NodeId   `json:"e"`
	P  []NodeId `json:"p"`
	SE []string `json:"se,omitempty"`
	C  float64  `json:"c"`
}

func toCompact(g *Genome) *compactGenome {
	c := &compactGenome{
		Meta:  g.Metadata,
		Summ:  g.Summary,
		Nodes: make(map[NodeId]compactNode, len(g.Nodes)),
		Edges: make([]compactEdge, 0, len(g.Edges)),
		Con:   g.Concepts,
		Hist:  g.History,
		Risk:  g.Risk,
		Ctr:   g.Contracts,
		Sec:   g.Security,
	}
	for id, n := range g.Nodes {
		c.Nodes[id] = compactNode{T: n.Type, F: n.File, Lang: n.Language, V: n.Visibility, S: n.Summary, C: n.Criticality}
	}
	for _, e := range g.Edges {
		c.Edges = append(c.Edges, compactEdge{Fr: string(e.From), To: string(e.To), Type: e.Type})
	}
	for _, f := range g.Flows {
		c.Flows = append(c.Flows, compactFlow{E: f.Entry, P: f.Path, SE: f.SideEffects, C: f.Confidence})
	}
	return c
}

func fromCompact(c *compactGenome) *Genome {
	g := New()
	g.Metadata = c.Meta
	g.Summary = c.Summ
	for id, n := range c.Nodes {
		g.Nodes[id] = Node{Type: n.T, File: n.F, Language: n.Lang, Visibility: n.V, Summary: n.S, Criticality: n.C}
	}
	for _, e := range c.Edges {
		g.Edges = append(g.Edges, Edge{From: NodeId(e.Fr), To: NodeId(e.To), Type: e.Type})
	}
	for _, f := range c.Flows {
		g.Flows = append(g.Flows, Flow{Entry: f.E, Path: f.P, SideEffects: f.SE, Confidence: f.C})
	}
	if c.Con != nil {
		g.Concepts = c.Con
	}
	if c.Hist != nil {
		g.History = c.Hist
	}
	if c.Risk != nil {
		g.Risk = c.Risk
	}
	if c.Ctr != nil {
		g.Contracts = c.Ctr
	}
	if c.Sec != nil {
		g.Security = c.Sec
	}
	return g
}

// liteGenome retains only the required fields spec §3 names for the lite
// mode: metadata, summary, nodes.{id,type,file}, edges.{from,to,type} —
// no history, risk, contracts, security, flows, concepts, or per-node
// summary text.
type liteGenome struct {
	Metadata Metadata            `json:"metadata"`
	Summary  Summary             `json:"summary"`
	Nodes    map[NodeId]liteNode `json:"nodes"`
	Edges    []compactEdge       `json:"edges"`
}

type liteNode struct {
	Type NodeType `json:"type"`
	File string   `json:"file,omitempty"`
}

func toLite(g *Genome) *liteGenome {
	l := &liteGenome{
		Metadata: g.Metadata,
		Summary:  g.Summary,
		Nodes:    make(map[NodeId]liteNode, len(g.Nodes)),
		Edges:    make([]compactEdge, 0, len(g.Edges)),
	}
	for id, n := range g.Nodes {
		l.Nodes[id] = liteNode{Type: n.Type, File: n.File}
	}
	for _, e := range g.Edges {
		l.Edges = append(l.Edges, compactEdge{Fr: string(e.From), To: string(e.To), Type: e.Type})
	}
	return l
}
