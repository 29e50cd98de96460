package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/framegraph/pkg/cache"
	"github.com/matzehuels/framegraph/pkg/convert"
	"github.com/matzehuels/framegraph/pkg/dispatch"
	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/graph"
	"github.com/matzehuels/framegraph/pkg/render/dot"
	"github.com/matzehuels/framegraph/pkg/table"
	"github.com/matzehuels/framegraph/pkg/tablegraph"
	"github.com/matzehuels/framegraph/pkg/view"
)

// Runner executes algorithm calls and renderings with caching.
//
// The Runner is stateless except for its dependencies. Cache keys cover the
// table content, so a Runner can be shared across unrelated inputs.
type Runner struct {
	Dispatcher *dispatch.Dispatcher
	Cache      cache.Cache
	Keyer      cache.Keyer
	Logger     *log.Logger
}

// NewRunner creates a runner around d.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(d *dispatch.Dispatcher, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Dispatcher: d,
		Cache:      c,
		Keyer:      keyer,
		Logger:     logger,
	}
}

// cachedResult is the stored form of a Result.
type cachedResult struct {
	Graph bool   `json:"graph"`
	Value []byte `json:"value"`
}

// Run dispatches one algorithm call, serving it from the cache when an
// identical call was stored before.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	if r.Dispatcher == nil {
		return nil, errors.New(errors.ErrCodeInternal, "runner has no dispatcher")
	}
	start := time.Now()
	alg, err := r.Dispatcher.Lookup(opts.Algorithm)
	if err != nil {
		return nil, err
	}
	key, err := r.resultKey(opts)
	if err != nil {
		return nil, err
	}

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			r.Logger.Warn("cache read failed", "error", err)
		case hit:
			if res, err := decodeResult(data); err == nil {
				res.CacheHit = true
				res.Duration = time.Since(start)
				r.Logger.Debug("result from cache", "algorithm", alg.Name)
				return res, nil
			}
			// Undecodable entries are recomputed and overwritten.
		}
	}

	args, err := buildArgs(alg, opts)
	if err != nil {
		return nil, err
	}
	out, err := r.Dispatcher.Call(ctx, alg.Name, args)
	if err != nil {
		return nil, err
	}
	res, data, err := encodeResult(alg, out)
	if err != nil {
		return nil, fmt.Errorf("encode %s result: %w", alg.Name, err)
	}
	if err := r.Cache.Set(ctx, key, data, cache.ResultTTL); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	}
	res.Duration = time.Since(start)
	r.Logger.Info("ran algorithm", "algorithm", alg.Name, "duration", res.Duration)
	return res, nil
}

func (r *Runner) resultKey(opts RunOptions) (string, error) {
	var buf bytes.Buffer
	for i, tg := range opts.Inputs {
		if tg == nil {
			return "", errors.New(errors.ErrCodeInvalidInput, "input %d is nil", i)
		}
		h, err := TableHash(tg)
		if err != nil {
			return "", fmt.Errorf("hash input %d: %w", i, err)
		}
		r.Logger.Debug("input", "index", i, "table", tg.ID, "hash", h[:12])
		buf.WriteString(h)
	}
	ko := cache.ResultKeyOpts{Args: opts.Args, Priority: r.Dispatcher.Priority}
	if len(opts.Inputs) > 0 {
		m := metadataOf(opts.Inputs[0])
		ko.Source, ko.Target, ko.EdgeKey = m.Source, m.Target, m.EdgeKey
		ko.Directed, ko.Multigraph = m.Directed, m.Multigraph
	}
	return r.Keyer.ResultKey(opts.Algorithm, cache.Hash(buf.Bytes()), ko), nil
}

// buildArgs places the inputs at the algorithm's graph positions and types
// the textual keyword arguments.
func buildArgs(alg *dispatch.Algorithm, opts RunOptions) (dispatch.Args, error) {
	args := dispatch.Args{Keyword: make(map[string]any, len(opts.Args))}
	for k, v := range opts.Args {
		args.Keyword[k] = parseArg(v)
	}

	if len(alg.Graphs) == 0 {
		for _, tg := range opts.Inputs {
			args.Positional = append(args.Positional, tg.Table())
		}
		return args, nil
	}

	type param struct {
		name string
		pos  int
	}
	params := make([]param, 0, len(alg.Graphs))
	for name, pos := range alg.Graphs {
		params = append(params, param{name, pos})
	}
	slices.SortFunc(params, func(a, b param) int { return a.pos - b.pos })

	next := 0
	for _, p := range params {
		var val any
		if alg.ListGraphs[p.name] {
			val = opts.Inputs[next:]
			next = len(opts.Inputs)
		} else {
			if next >= len(opts.Inputs) {
				return dispatch.Args{}, errors.New(errors.ErrCodeInvalidInput, "%s needs an input graph for %q", alg.Name, p.name)
			}
			val = opts.Inputs[next]
			next++
		}
		for len(args.Positional) <= p.pos {
			args.Positional = append(args.Positional, nil)
		}
		args.Positional[p.pos] = val
	}
	if next < len(opts.Inputs) {
		return dispatch.Args{}, errors.New(errors.ErrCodeInvalidInput, "%s takes %d input graphs, got %d", alg.Name, next, len(opts.Inputs))
	}
	return args, nil
}

func encodeResult(alg *dispatch.Algorithm, out any) (*Result, []byte, error) {
	res := &Result{}
	var buf bytes.Buffer
	if g, ok := asGraph(out); ok || alg.ReturnsGraph {
		if !ok {
			var err error
			if g, err = convert.Graph(out); err != nil {
				return nil, nil, err
			}
		}
		if err := graph.WriteJSON(g, &buf); err != nil {
			return nil, nil, err
		}
		res.Graph = g
	} else {
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(jsonable(out)); err != nil {
			return nil, nil, err
		}
	}
	res.JSON = buf.Bytes()
	data, err := json.Marshal(cachedResult{Graph: res.Graph != nil, Value: res.JSON})
	if err != nil {
		return nil, nil, err
	}
	return res, data, nil
}

func decodeResult(data []byte) (*Result, error) {
	var cr cachedResult
	if err := json.Unmarshal(data, &cr); err != nil {
		return nil, err
	}
	res := &Result{JSON: cr.Value}
	if cr.Graph {
		g, err := graph.ReadJSON(bytes.NewReader(cr.Value))
		if err != nil {
			return nil, err
		}
		res.Graph = g
	}
	return res, nil
}

func asGraph(v any) (*graph.Graph, bool) {
	switch x := v.(type) {
	case *graph.Graph:
		return x, x != nil
	case *view.View:
		g, err := x.Canonical()
		return g, err == nil
	case *tablegraph.TableGraph:
		g, err := convert.Graph(x)
		return g, err == nil
	}
	return nil, false
}

// jsonable rewrites maps with non-string keys into string keyed maps so
// that node identifiers of any type survive JSON encoding.
func jsonable(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = jsonable(iter.Value().Interface())
		}
		return out
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{}
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = jsonable(rv.Index(i).Interface())
		}
		return out
	default:
		return v
	}
}

// Render produces the requested formats for tg. The bool result reports
// whether every artifact came from the cache.
func (r *Runner) Render(ctx context.Context, tg *tablegraph.TableGraph, opts RenderOptions) (map[string][]byte, bool, error) {
	if err := opts.validateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	g, err := convert.Graph(tg)
	if err != nil {
		return nil, false, err
	}
	hash, err := TableHash(tg)
	if err != nil {
		return nil, false, err
	}
	r.Logger.Debug("render", "table", tg.ID, "hash", hash[:12], "formats", opts.Formats)
	keyFor := func(format string) string {
		return r.Keyer.ArtifactKey(hash, cache.ArtifactKeyOpts{
			Format:    format,
			Detailed:  opts.Detailed,
			EdgeLabel: opts.EdgeLabel,
		})
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, keyFor(format))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	start := time.Now()
	src := dot.ToDOT(g, dot.Options{Detailed: opts.Detailed, EdgeLabel: opts.EdgeLabel})
	for _, format := range opts.Formats {
		var data []byte
		switch format {
		case FormatDOT:
			data = []byte(src)
		case FormatSVG:
			data, err = dot.RenderSVG(src)
		case FormatPNG:
			data, err = dot.RenderPNG(src, opts.Scale)
		case FormatPDF:
			data, err = dot.RenderPDF(src)
		}
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
		if err := r.Cache.Set(ctx, keyFor(format), data, cache.ArtifactTTL); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		}
	}
	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", time.Since(start))
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

type metadata struct {
	Source     string      `json:"source"`
	Target     string      `json:"target"`
	EdgeKey    string      `json:"edge_key,omitempty"`
	Directed   bool        `json:"directed"`
	Multigraph bool        `json:"multigraph"`
	Graph      graph.Attrs `json:"graph,omitempty"`
}

func metadataOf(tg *tablegraph.TableGraph) metadata {
	acc := tg.Accessor()
	m := metadata{Directed: acc.Directed(), Multigraph: acc.Multigraph(), Graph: acc.Graph()}
	m.Source, _ = acc.Source()
	m.Target, _ = acc.Target()
	if m.Multigraph {
		m.EdgeKey, _ = acc.EdgeKey()
	}
	return m
}

// TableHash returns a content hash of tg covering the edge table, the node
// table, the column roles, the graph flags and the graph attributes. Cells
// are hashed with their Go type, so 1, 1.0 and "1" differ. The instance ID is
// not part of it, so equal content hashes equally.
func TableHash(tg *tablegraph.TableGraph) (string, error) {
	var buf bytes.Buffer
	writeTyped(&buf, tg.Table())
	if nt := tg.Accessor().NodeTable(); nt != nil && nt.Len() > 0 {
		buf.WriteString("nodes\n")
		for _, id := range nt.Index() {
			writeCell(&buf, id)
		}
		writeTyped(&buf, nt.Attributes())
	}
	meta, err := json.Marshal(metadataOf(tg))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "graph attributes are not serializable")
	}
	buf.Write(meta)
	return cache.Hash(buf.Bytes()), nil
}

// writeTyped writes t column by column, one typed cell per line.
func writeTyped(buf *bytes.Buffer, t *table.Table) {
	fmt.Fprintf(buf, "rows %d\n", t.Len())
	for _, name := range t.Columns() {
		fmt.Fprintf(buf, "column %s\n", strconv.Quote(name))
		col, _ := t.Column(name)
		for _, v := range col {
			writeCell(buf, v)
		}
	}
}

func writeCell(buf *bytes.Buffer, v any) {
	fmt.Fprintf(buf, "%T:%s\n", v, strconv.Quote(fmt.Sprint(v)))
}
