package config

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies the variant of a Document node.
type Kind int

const (
	KindInvalid Kind = iota
	KindMapping
	KindSequence
	KindScalar
)

func (k Kind) String() string {
	switch k {
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	case KindScalar:
		return "scalar"
	default:
		return "invalid"
	}
}

// Document is an untyped configuration tree produced by parsing a single
// configuration source. A node is exactly one of: a mapping of string keys
// to child documents, a sequence of child documents, or a scalar value.
//
// Documents are ephemeral: they exist only between resolution and the typed
// decode into Config. Merging never mutates its inputs.
type Document struct {
	kind     Kind
	mapping  map[string]*Document
	sequence []*Document
	scalar   any
}

// Scalar wraps a plain value in a scalar document node.
func Scalar(v any) *Document {
	return &Document{kind: KindScalar, scalar: v}
}

// FromMap converts a parsed map (as produced by viper or a YAML decoder)
// into a Document tree. Non-string map keys are stringified.
func FromMap(m map[string]any) *Document {
	doc := &Document{kind: KindMapping, mapping: make(map[string]*Document, len(m))}
	for k, v := range m {
		doc.mapping[strings.ToLower(k)] = fromValue(v)
	}
	return doc
}

func fromValue(v any) *Document {
	switch val := v.(type) {
	case map[string]any:
		return FromMap(val)
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, vv := range val {
			m[fmt.Sprintf("%v", k)] = vv
		}
		return FromMap(m)
	case []any:
		doc := &Document{kind: KindSequence, sequence: make([]*Document, 0, len(val))}
		for _, item := range val {
			doc.sequence = append(doc.sequence, fromValue(item))
		}
		return doc
	default:
		return &Document{kind: KindScalar, scalar: v}
	}
}

// Kind returns the variant of this node.
func (d *Document) Kind() Kind {
	if d == nil {
		return KindInvalid
	}
	return d.kind
}

// Get returns the child document at the given dotted path, or nil if any
// segment is missing or a non-mapping node is traversed.
func (d *Document) Get(path string) *Document {
	cur := d
	for _, seg := range strings.Split(path, ".") {
		if cur == nil || cur.kind != KindMapping {
			return nil
		}
		cur = cur.mapping[seg]
	}
	return cur
}

// Set places a child document at the given dotted path, creating
// intermediate mappings as needed. Setting on a non-mapping root panics;
// the resolver only ever builds mapping roots.
func (d *Document) Set(path string, child *Document) {
	if d.kind != KindMapping {
		panic("config: Set on non-mapping document")
	}
	segs := strings.Split(path, ".")
	cur := d
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur.mapping[seg]
		if !ok || next.kind != KindMapping {
			next = &Document{kind: KindMapping, mapping: make(map[string]*Document)}
			cur.mapping[seg] = next
		}
		cur = next
	}
	cur.mapping[segs[len(segs)-1]] = child
}

// Interface converts the document tree back into plain Go values
// (map[string]any, []any, scalars) suitable for mapstructure decoding.
func (d *Document) Interface() any {
	if d == nil {
		return nil
	}
	switch d.kind {
	case KindMapping:
		m := make(map[string]any, len(d.mapping))
		for k, v := range d.mapping {
			m[k] = v.Interface()
		}
		return m
	case KindSequence:
		s := make([]any, 0, len(d.sequence))
		for _, v := range d.sequence {
			s = append(s, v.Interface())
		}
		return s
	default:
		return d.scalar
	}
}

// LeafPaths returns the dotted paths of every scalar and sequence leaf in
// the document, sorted. Used to discover which environment variables may
// override the merged document.
func (d *Document) LeafPaths() []string {
	var paths []string
	var walk func(prefix string, node *Document)
	walk = func(prefix string, node *Document) {
		if node == nil {
			return
		}
		if node.kind != KindMapping {
			paths = append(paths, prefix)
			return
		}
		for k, v := range node.mapping {
			p := k
			if prefix != "" {
				p = prefix + "." + k
			}
			walk(p, v)
		}
	}
	walk("", d)
	sort.Strings(paths)
	return paths
}

// Merge combines base and overlay with override semantics: mappings merge
// key by key recursively, while scalar and sequence nodes in the overlay
// fully replace the corresponding base node. A kind mismatch at any path is
// a MergeConflictError. Neither input is mutated.
func Merge(base, overlay *Document) (*Document, error) {
	return merge(base, overlay, "")
}

// MergeAll folds Merge over documents in ascending priority order
// (later documents override earlier ones).
func MergeAll(docs ...*Document) (*Document, error) {
	var out *Document
	for _, doc := range docs {
		merged, err := merge(out, doc, "")
		if err != nil {
			return nil, err
		}
		out = merged
	}
	return out, nil
}

func merge(base, overlay *Document, path string) (*Document, error) {
	if overlay == nil {
		return base.clone(), nil
	}
	if base == nil {
		return overlay.clone(), nil
	}

	if base.kind != overlay.kind {
		return nil, &MergeConflictError{Path: path, Base: base.kind, Overlay: overlay.kind}
	}

	if base.kind != KindMapping {
		// Scalars and sequences replace wholesale.
		return overlay.clone(), nil
	}

	out := &Document{kind: KindMapping, mapping: make(map[string]*Document, len(base.mapping))}
	for k, v := range base.mapping {
		out.mapping[k] = v.clone()
	}
	for k, v := range overlay.mapping {
		childPath := k
		if path != "" {
			childPath = path + "." + k
		}
		merged, err := merge(base.mapping[k], v, childPath)
		if err != nil {
			return nil, err
		}
		out.mapping[k] = merged
	}
	return out, nil
}

func (d *Document) clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{kind: d.kind, scalar: d.scalar}
	if d.mapping != nil {
		out.mapping = make(map[string]*Document, len(d.mapping))
		for k, v := range d.mapping {
			out.mapping[k] = v.clone()
		}
	}
	if d.sequence != nil {
		out.sequence = make([]*Document, 0, len(d.sequence))
		for _, v := range d.sequence {
			out.sequence = append(out.sequence, v.clone())
		}
	}
	return out
}
