// Package hierarchy builds merged class metadata for a set of Java sources.
//
// Analyze parses every file, creates one classmeta.Node per declared type,
// registers each type's own instance methods and accessors, resolves the
// declared supertypes and then merges ancestors into descendants in
// topological order, so every node ends up holding its whole hierarchy.
package hierarchy

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/panbanda/classmeta/internal/cache"
	"github.com/panbanda/classmeta/pkg/analyzer"
	"github.com/panbanda/classmeta/pkg/classmeta"
	"github.com/panbanda/classmeta/pkg/parser"
	"github.com/panbanda/classmeta/pkg/source"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// errTooLarge marks files skipped by the size limit.
var errTooLarge = errors.New("file exceeds max size")

// Analyzer builds hierarchy models.
type Analyzer struct {
	logger       *zap.Logger
	policy       AccessorPolicy
	signature    classmeta.SignatureFunc
	signatureKey string
	includeTests bool
	maxFileSize  int64
	workers      int
	cache        *cache.Cache
	memo         *Memo
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger for skipped files, unresolved supertypes and cycles.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithAccessorPolicy sets how getters, setters and instance methods are recognized.
func WithAccessorPolicy(p AccessorPolicy) Option {
	return func(a *Analyzer) {
		a.policy = p
	}
}

// DefaultSignatureKey names classmeta.DefaultSignature in memo fingerprints.
const DefaultSignatureKey = "name+params"

// WithSignature sets the instance method identity rule used by every node.
// key names the rule in memo fingerprints, so analyzers sharing a Memo only
// reuse models built under the same rule.
func WithSignature(key string, fn classmeta.SignatureFunc) Option {
	return func(a *Analyzer) {
		if fn != nil {
			a.signature = fn
			a.signatureKey = key
		}
	}
}

// WithIncludeTests includes test sources. By default they are skipped.
func WithIncludeTests(include bool) Option {
	return func(a *Analyzer) {
		a.includeTests = include
	}
}

// WithMaxFileSize sets the maximum file size to analyze (0 = no limit).
func WithMaxFileSize(maxSize int64) Option {
	return func(a *Analyzer) {
		a.maxFileSize = maxSize
	}
}

// WithWorkers sets the number of parse workers (0 = 2x NumCPU).
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// WithCache stores extracted declarations so unchanged files skip parsing.
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// WithMemo reuses models built from identical inputs.
func WithMemo(m *Memo) Option {
	return func(a *Analyzer) {
		a.memo = m
	}
}

// New creates a new hierarchy analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		logger:       zap.NewNop(),
		policy:       DefaultAccessorPolicy(),
		signature:    classmeta.DefaultSignature,
		signatureKey: DefaultSignatureKey,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// parsedFile is the per-file output of the parse phase.
type parsedFile struct {
	file   *parser.JavaFile
	digest uint64
}

// entry ties a node to the declaration it was built from.
type entry struct {
	file  *parser.JavaFile
	decl  parser.TypeDecl
	class *Class
}

// Analyze builds the model for files read through src. A nil src reads from
// the filesystem. Files that cannot be read or parsed are skipped and
// counted; only a cancelled context fails the analysis.
func (a *Analyzer) Analyze(ctx context.Context, files []string, src source.ContentSource) (*Model, error) {
	if src == nil {
		src = source.NewFilesystem()
	}

	var summary Summary
	selected := make([]string, 0, len(files))
	for _, f := range files {
		if !a.includeTests && analyzer.IsTestFile(f) {
			summary.Skipped++
			continue
		}
		selected = append(selected, f)
	}

	var cacheHits atomic.Int32
	results := analyzer.MapSources(ctx, selected, src, a.workers,
		func(psr *parser.Parser, path string, content []byte) (parsedFile, error) {
			if a.maxFileSize > 0 && int64(len(content)) > a.maxFileSize {
				return parsedFile{}, errTooLarge
			}
			jf, hit, err := a.declarations(ctx, psr, path, content)
			if err != nil {
				return parsedFile{}, err
			}
			if hit {
				cacheHits.Add(1)
			}
			return parsedFile{file: jf, digest: xxhash.Sum64(content)}, nil
		})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parsed := make([]*parser.JavaFile, 0, len(results))
	digests := make([]fileDigest, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			summary.Skipped++
			a.logger.Warn("skipping file", zap.String("path", r.Path), zap.Error(r.Err))
			continue
		}
		parsed = append(parsed, r.Value.file)
		digests = append(digests, fileDigest{path: r.Path, digest: r.Value.digest})
	}
	summary.Files = len(parsed)
	summary.CacheHits = int(cacheHits.Load())
	a.logger.Debug("parsed sources",
		zap.Int("files", summary.Files),
		zap.Int("skipped", summary.Skipped),
		zap.Int("cache_hits", summary.CacheHits))

	var key uint64
	if a.memo != nil {
		key = fingerprint(digests, a.policy, a.signatureKey)
		if m, ok := a.memo.Load(key); ok {
			a.logger.Debug("reusing memoized model", zap.Uint64("fingerprint", key))
			return m.withSummary(summary), nil
		}
	}

	model, err := a.build(parsed, summary)
	if err != nil {
		return nil, err
	}
	if a.memo != nil {
		model = a.memo.Store(key, model)
	}
	return model, nil
}

// declarations returns the types declared in content, from the cache when the
// content is unchanged.
func (a *Analyzer) declarations(ctx context.Context, psr *parser.Parser, path string, content []byte) (*parser.JavaFile, bool, error) {
	hash := cache.HashBytes(content)
	var cached parser.JavaFile
	if a.cache.Load(path, hash, &cached) {
		cached.Path = path
		return &cached, true, nil
	}

	result, err := psr.Parse(ctx, content, parser.LangJava, path)
	if err != nil {
		return nil, false, err
	}
	defer result.Tree.Close()

	jf, err := parser.ExtractJavaTypes(result)
	if err != nil {
		return nil, false, err
	}
	if err := a.cache.Store(path, hash, jf); err != nil {
		a.logger.Debug("cache store failed", zap.String("path", path), zap.Error(err))
	}
	return jf, false, nil
}

// build runs the single-threaded construction phase. Nodes are published
// through the returned model only after every merge has been applied.
func (a *Analyzer) build(files []*parser.JavaFile, summary Summary) (*Model, error) {
	res := newResolver()
	var entries []entry

	for _, jf := range files {
		for _, decl := range jf.Types {
			t := classmeta.Type{
				Name:    decl.Name,
				Package: jf.Package,
				Kind:    classmeta.Kind(decl.Kind),
				Path:    jf.Path,
				Line:    decl.Line,
			}
			qualified := t.QualifiedName()
			if !res.add(qualified, decl.Name, len(entries)) {
				a.logger.Warn("duplicate class declaration ignored",
					zap.String("class", qualified), zap.String("path", jf.Path))
				continue
			}
			node := classmeta.NewNode(t,
				convertMethods(qualified, decl.Methods),
				convertFields(qualified, decl.Fields),
				classmeta.WithSignature(a.signature))
			a.registerOwn(node)
			entries = append(entries, entry{file: jf, decl: decl, class: &Class{Node: node}})
		}
	}

	supers := a.resolveSupertypes(res, entries)

	order, merge, cycles, err := mergeOrder(entries, supers)
	if err != nil {
		return nil, err
	}
	for _, c := range cycles {
		a.logger.Warn("inheritance cycle", zap.Strings("classes", c.Classes))
	}

	for _, i := range order {
		for _, s := range supers[i] {
			if merge(s, i) {
				entries[s].class.Node.MergeInto(entries[i].class.Node)
			}
		}
	}

	classes := make([]*Class, len(entries))
	for i, e := range entries {
		classes[i] = e.class
	}
	return newModel(classes, cycles, summary), nil
}

// registerOwn registers the node's declared instance methods and accessors.
// It runs before any merge so a type's own declarations win over inherited
// ones and precede them in every ordered collection.
func (a *Analyzer) registerOwn(node *classmeta.Node) {
	for _, m := range node.OwnMethods() {
		if a.policy.IsInstanceMethod(m) {
			node.RegisterInstanceMethod(m)
		}
		switch kind, name := a.policy.Classify(m); kind {
		case Getter:
			node.ObtainProperty(name).AddGetter(m)
		case Setter:
			node.ObtainProperty(name).AddSetter(m)
		}
	}
}

// resolveSupertypes returns, per entry, the indexes of its direct supertypes in
// declaration order, and records unresolved names as external.
func (a *Analyzer) resolveSupertypes(res *resolver, entries []entry) [][]int {
	supers := make([][]int, len(entries))
	for i, e := range entries {
		for _, name := range e.decl.Supertypes {
			idx, ok := res.resolve(name, e.file, e.decl.Name)
			if !ok {
				if !slices.Contains(e.class.External, name) {
					e.class.External = append(e.class.External, name)
				}
				a.logger.Debug("unresolved supertype",
					zap.String("class", e.class.Name()), zap.String("supertype", name))
				continue
			}
			if slices.Contains(supers[i], idx) {
				continue
			}
			supers[i] = append(supers[i], idx)
			e.class.Supertypes = append(e.class.Supertypes, entries[idx].class.Name())
		}
	}
	return supers
}

// mergeOrder sorts entries ancestor-first. Edges inside an inheritance cycle
// are dropped from the graph and reported; merge tells whether the edge from
// supertype s to subtype i survived.
func mergeOrder(entries []entry, supers [][]int) ([]int, func(s, i int) bool, []CycleError, error) {
	g := simple.NewDirectedGraph()
	for i := range entries {
		g.AddNode(simple.Node(int64(i)))
	}

	var cycles []CycleError
	for i, ss := range supers {
		for _, s := range ss {
			if s == i {
				cycles = append(cycles, CycleError{Classes: []string{entries[i].class.Name()}})
				continue
			}
			g.SetEdge(g.NewEdge(simple.Node(int64(s)), simple.Node(int64(i))))
		}
	}

	sorted, err := topo.SortStabilized(g, byID)
	if err != nil {
		if _, ok := err.(topo.Unorderable); !ok {
			return nil, nil, nil, fmt.Errorf("order hierarchy: %w", err)
		}
		for _, component := range topo.TarjanSCC(g) {
			if len(component) < 2 {
				continue
			}
			names := make([]string, len(component))
			for k, from := range component {
				names[k] = entries[from.ID()].class.Name()
				for _, to := range component {
					if g.HasEdgeFromTo(from.ID(), to.ID()) {
						g.RemoveEdge(from.ID(), to.ID())
					}
				}
			}
			slices.Sort(names)
			cycles = append(cycles, CycleError{Classes: names})
		}
		if sorted, err = topo.SortStabilized(g, byID); err != nil {
			return nil, nil, nil, fmt.Errorf("order hierarchy: %w", err)
		}
	}
	slices.SortFunc(cycles, func(x, y CycleError) int {
		return cmp.Compare(x.Classes[0], y.Classes[0])
	})

	order := make([]int, len(sorted))
	for k, n := range sorted {
		order[k] = int(n.ID())
	}
	merge := func(s, i int) bool {
		return s != i && g.HasEdgeFromTo(int64(s), int64(i))
	}
	return order, merge, cycles, nil
}

// byID orders nodes by discovery order, keeping the merge order stable
// across runs.
func byID(nodes []graph.Node) {
	slices.SortFunc(nodes, func(x, y graph.Node) int {
		return cmp.Compare(x.ID(), y.ID())
	})
}

func convertMethods(declaring string, decls []parser.MethodDecl) []classmeta.Method {
	methods := make([]classmeta.Method, len(decls))
	for i, d := range decls {
		methods[i] = classmeta.Method{
			Name:           d.Name,
			DeclaringType:  declaring,
			ReturnType:     d.ReturnType,
			ParameterTypes: d.ParameterTypes,
			Modifiers:      d.Modifiers,
			Line:           d.Line,
		}
	}
	return methods
}

func convertFields(declaring string, decls []parser.FieldDecl) []classmeta.Field {
	fields := make([]classmeta.Field, len(decls))
	for i, d := range decls {
		fields[i] = classmeta.Field{
			Name:          d.Name,
			DeclaringType: declaring,
			Type:          d.Type,
			Modifiers:     d.Modifiers,
			Line:          d.Line,
		}
	}
	return fields
}
