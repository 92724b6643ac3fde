package classmeta

// Property collects the getters and setters discovered for one property name.
// Accessors are kept in the order they were added; duplicates and conflicting
// signatures are not checked here.
type Property struct {
	name    string
	getters []Method
	setters []Method
}

// NewProperty creates an empty property.
func NewProperty(name string) *Property {
	return &Property{name: name}
}

// Name returns the property name.
func (p *Property) Name() string {
	return p.name
}

// Getters returns a copy of the getters in discovery order.
func (p *Property) Getters() []Method {
	return append([]Method(nil), p.getters...)
}

// Setters returns a copy of the setters in discovery order.
func (p *Property) Setters() []Method {
	return append([]Method(nil), p.setters...)
}

// AddGetter appends a getter.
func (p *Property) AddGetter(m Method) {
	p.getters = append(p.getters, m)
}

// AddSetter appends a setter.
func (p *Property) AddSetter(m Method) {
	p.setters = append(p.setters, m)
}

// Readable reports whether the property has at least one getter.
func (p *Property) Readable() bool {
	return len(p.getters) > 0
}

// Writable reports whether the property has at least one setter.
func (p *Property) Writable() bool {
	return len(p.setters) > 0
}
