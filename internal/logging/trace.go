package logging

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/danielpatrickdp/wayfinder/internal/graph"
	"github.com/danielpatrickdp/wayfinder/internal/probe"
)

// #endregion

// #region trace-types

// TraceNode is one node in a trace snapshot. Labels render as letters A–D.
type TraceNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// TraceEdge is one resolved door in a trace snapshot.
type TraceEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Door   int    `json:"door"`
}

// TraceState is one JSONL line: the full hypothesis graph after an
// iteration, in the shape the D3 viewer expects.
type TraceState struct {
	Timestamp        string     `json:"timestamp"`
	IterationNumber  int        `json:"iterationnumber"`
	CurrentQueryPath string     `json:"current_querypath"`
	CurrentGraph     TraceGraph `json:"current_graph"`
}

// TraceGraph holds the nodes and edges of a snapshot.
type TraceGraph struct {
	Nodes []TraceNode `json:"nodes"`
	Edges []TraceEdge `json:"edges"`
}

// #endregion trace-types

// #region writer

// TraceWriter appends one graph snapshot per line to a JSONL file.
type TraceWriter struct {
	f *os.File
}

// NewTraceWriter opens (appending) the JSONL trace file.
func NewTraceWriter(path string) (*TraceWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open trace %s: %w", path, err)
	}
	return &TraceWriter{f: f}, nil
}

// Close closes the trace file.
func (w *TraceWriter) Close() error { return w.f.Close() }

// #endregion writer

// #region write

// Write appends one snapshot of g. querypath is the last plan issued, empty
// before the first query.
func (w *TraceWriter) Write(iteration int, querypath probe.Plan, g *graph.Graph) error {
	state := TraceState{
		Timestamp:        time.Now().UTC().Format(time.RFC3339Nano),
		IterationNumber:  iteration,
		CurrentQueryPath: string(querypath),
		CurrentGraph:     Snapshot(g),
	}
	line, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal trace state: %w", err)
	}
	if _, err := w.f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write trace state: %w", err)
	}
	return nil
}

// #endregion write

// #region snapshot

// Snapshot renders the canonical nodes and resolved edges of g.
func Snapshot(g *graph.Graph) TraceGraph {
	var tg TraceGraph
	for _, id := range g.Canonical() {
		tg.Nodes = append(tg.Nodes, TraceNode{
			ID:    nodeName(g, id),
			Label: string(rune('A' + g.Label(id))),
		})
		for d := 0; d < probe.DoorCount; d++ {
			if t := g.Door(id, d); t != graph.Unset {
				tg.Edges = append(tg.Edges, TraceEdge{
					Source: nodeName(g, id),
					Target: nodeName(g, t),
					Door:   d,
				})
			}
		}
	}
	return tg
}

func nodeName(g *graph.Graph, id int) string {
	if g.Start() != graph.Unset && g.Resolve(g.Start()) == id {
		return "START"
	}
	return strconv.Itoa(id)
}

// #endregion snapshot
