// Package classmeta models the reflective facts of a class hierarchy: declared
// methods and fields, deduplicated instance methods, and bean-style properties,
// flattened across supertypes so queries never walk the hierarchy.
//
// Nodes are mutated only while a hierarchy is being built. Once the builder has
// applied every merge, nodes are read-only and may be shared between goroutines.
// There is no locking: publishing a finished node is the builder's job.
package classmeta

import (
	"iter"
	"slices"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"
)

var nextNodeID atomic.Uint32

// Node is the metadata for one class plus everything merged in from its supertypes.
type Node struct {
	id      uint32
	typ     Type
	methods []Method
	fields  []Field

	instanceMethods *MethodSet
	properties      map[string]*Property
	// names holds the keys of properties in sorted order.
	names []string

	ancestors   []*Node
	ancestorIDs *roaring.Bitmap
}

// NodeOption configures a Node.
type NodeOption func(*nodeOptions)

type nodeOptions struct {
	signature SignatureFunc
}

// WithSignature sets the identity rule for the node's instance methods.
func WithSignature(fn SignatureFunc) NodeOption {
	return func(o *nodeOptions) {
		o.signature = fn
	}
}

// NewNode creates the node for t. The declared methods and fields are copied
// and never change afterwards.
func NewNode(t Type, methods []Method, fields []Field, opts ...NodeOption) *Node {
	o := nodeOptions{signature: DefaultSignature}
	for _, opt := range opts {
		opt(&o)
	}
	return &Node{
		id:              nextNodeID.Add(1),
		typ:             t,
		methods:         slices.Clone(methods),
		fields:          slices.Clone(fields),
		instanceMethods: NewMethodSet(o.signature),
		properties:      make(map[string]*Property),
		ancestorIDs:     roaring.New(),
	}
}

// ID returns the process-unique identity of the node.
func (n *Node) ID() uint32 {
	return n.id
}

// Type returns the class this node describes.
func (n *Node) Type() Type {
	return n.typ
}

// OwnMethods returns a copy of the methods declared directly on the type.
func (n *Node) OwnMethods() []Method {
	return slices.Clone(n.methods)
}

// OwnFields returns a copy of the fields declared directly on the type.
func (n *Node) OwnFields() []Field {
	return slices.Clone(n.fields)
}

// Ancestors returns the flattened ancestor list in merge order.
func (n *Node) Ancestors() []*Node {
	return slices.Clone(n.ancestors)
}

// HasAncestor reports whether other is in the ancestor list.
func (n *Node) HasAncestor(other *Node) bool {
	return n.ancestorIDs.Contains(other.id)
}

// VisitAllMethods visits the node's declared methods, then each ancestor's
// declared methods in ancestor order. Nothing is deduplicated.
func (n *Node) VisitAllMethods(fn func(Method)) {
	for _, m := range n.methods {
		fn(m)
	}
	for _, a := range n.ancestors {
		for _, m := range a.methods {
			fn(m)
		}
	}
}

// VisitAllFields visits the node's declared fields, then each ancestor's
// declared fields in ancestor order.
func (n *Node) VisitAllFields(fn func(Field)) {
	for _, f := range n.fields {
		fn(f)
	}
	for _, a := range n.ancestors {
		for _, f := range a.fields {
			fn(f)
		}
	}
}

// VisitInstanceMethods visits the deduplicated instance methods.
func (n *Node) VisitInstanceMethods(fn func(Method)) {
	n.instanceMethods.Visit(fn)
}

// InstanceMethods returns an iterator over the deduplicated instance methods.
func (n *Node) InstanceMethods() iter.Seq[Method] {
	return n.instanceMethods.All()
}

// VisitTypes visits the node itself and then every ancestor.
func (n *Node) VisitTypes(fn func(*Node)) {
	fn(n)
	for _, a := range n.ancestors {
		fn(a)
	}
}

// PropertyNames returns the known property names, sorted. The slice is a fresh
// copy and holds no reference into the node.
func (n *Node) PropertyNames() []string {
	return slices.Clone(n.names)
}

// Properties returns the properties ordered by name.
func (n *Node) Properties() []*Property {
	out := make([]*Property, len(n.names))
	for i, name := range n.names {
		out[i] = n.properties[name]
	}
	return out
}

// Property returns the named property or a *NoSuchPropertyError.
func (n *Node) Property(name string) (*Property, error) {
	p, ok := n.properties[name]
	if !ok {
		return nil, &NoSuchPropertyError{Name: name, Type: n.typ}
	}
	return p, nil
}

// RegisterAncestor appends a to the ancestor list unless it is already there.
func (n *Node) RegisterAncestor(a *Node) {
	if n.ancestorIDs.Contains(a.id) {
		return
	}
	n.ancestorIDs.Add(a.id)
	n.ancestors = append(n.ancestors, a)
}

// RegisterInstanceMethod adds m to the instance methods. A method with an
// equivalent signature already present is kept and m is dropped.
func (n *Node) RegisterInstanceMethod(m Method) {
	n.instanceMethods.Add(m)
}

// ObtainProperty returns the named property, creating an empty one if needed.
func (n *Node) ObtainProperty(name string) *Property {
	p, ok := n.properties[name]
	if !ok {
		p = NewProperty(name)
		n.properties[name] = p
		i, _ := slices.BinarySearch(n.names, name)
		n.names = slices.Insert(n.names, i, name)
	}
	return p
}

// MergeInto folds this node's facts into descendant: the node itself and its
// ancestors become ancestors of descendant, its instance methods are
// registered on descendant, and its property accessors are appended to the
// same-named properties of descendant.
//
// The node must already hold every merge from its own supertypes, otherwise
// descendant receives an incomplete ancestor list.
func (n *Node) MergeInto(descendant *Node) {
	descendant.RegisterAncestor(n)
	for _, a := range n.ancestors {
		descendant.RegisterAncestor(a)
	}
	n.instanceMethods.Visit(descendant.RegisterInstanceMethod)
	for _, p := range n.Properties() {
		dest := descendant.ObtainProperty(p.name)
		for _, g := range p.getters {
			dest.AddGetter(g)
		}
		for _, s := range p.setters {
			dest.AddSetter(s)
		}
	}
}
