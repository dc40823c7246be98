package value

// Property is one own property of an Object, modeling the host's property
// descriptor: a data value, or an accessor pair, plus the three descriptor
// flags spec.md §4.6 packs into the descriptor-object body's flag byte.
type Property struct {
	Key          string
	Value        Value // data value; nil when the property is accessor-only
	Getter       Value // *Function, present when HasGetter
	Setter       Value // *Function, present when HasSetter
	HasGetter    bool
	HasSetter    bool
	Enumerable   bool
	Writable     bool
	Configurable bool
}

// DefaultProperty builds a plain data property with the host's default
// descriptor flags (enumerable, writable, configurable all true).
func DefaultProperty(key string, v Value) Property {
	return Property{Key: key, Value: v, Enumerable: true, Writable: true, Configurable: true}
}

// HasDefaultDescriptor reports whether every descriptor flag is at its
// default and there is no accessor pair — the condition spec.md §4.5 uses
// to decide a property does NOT force OBJECT_WITH_DESCRIPTORS.
func (p Property) HasDefaultDescriptor() bool {
	return !p.HasGetter && !p.HasSetter && p.Enumerable && p.Writable && p.Configurable
}

// IsCallable reports whether the property's data value is a callable.
func (p Property) IsCallable() bool {
	_, ok := p.Value.(*Function)

	return ok
}

// Inaccessible reports whether this property failed to resolve (a getter
// that returned an error, or a property the host could not read). The
// writer driver swallows these per spec.md §4.6/§7: the key is simply
// omitted from the output.
func (p Property) Inaccessible() bool {
	_, ok := p.Value.(*Inaccessible)

	return ok
}

// Inaccessible is a placeholder value marking a property whose access
// failed. It never appears in encoded output — the writer drops the whole
// property when it sees one.
type Inaccessible struct{ Err error }

func (*Inaccessible) isValue() {}

// Object is a generic host object: an ordered bag of own properties plus
// enough shape information for the classifier to pick OBJ_EMPTY,
// OBJ_LITERAL, OBJ_CONSTRUCTOR, OBJ_WITH_DESCRIPTORS or OBJ_WITH_METHODS
// (§4.5). Native constructors (Date, RegExp, Map, Set, buffers, typed
// arrays, errors, blobs) are modeled as their own Value types, not as an
// Object, since the classifier dispatches them before ever inspecting
// property descriptors.
type Object struct {
	Props []Property

	// ConstructorName is the value emitted for OBJ_CONSTRUCTOR; only
	// meaningful when DefaultPrototype is false.
	ConstructorName string

	// DefaultPrototype is true for plain object literals (prototype is
	// the default object prototype) and false for instances of a named
	// constructor.
	DefaultPrototype bool
}

// NewObject returns an empty plain-object literal.
func NewObject() *Object {
	return &Object{DefaultPrototype: true}
}

// NewConstructedObject returns an empty object reporting name as its
// constructor, forcing OBJ_CONSTRUCTOR classification once non-empty.
func NewConstructedObject(name string) *Object {
	return &Object{ConstructorName: name}
}

func (*Object) isValue() {}

// Set appends a plain data property with default descriptor flags.
func (o *Object) Set(key string, v Value) *Object {
	o.Props = append(o.Props, DefaultProperty(key, v))

	return o
}

// SetProperty appends an arbitrary property descriptor.
func (o *Object) SetProperty(p Property) *Object {
	o.Props = append(o.Props, p)

	return o
}

// HasAnyAccessor reports whether any property has a getter or setter.
func (o *Object) HasAnyAccessor() bool {
	for _, p := range o.Props {
		if p.HasGetter || p.HasSetter {
			return true
		}
	}

	return false
}

// HasAnyNonDefaultDescriptor reports whether any property's descriptor
// flags deviate from the default triple (enumerable, writable,
// configurable all true), ignoring accessors (checked separately).
func (o *Object) HasAnyNonDefaultDescriptor() bool {
	for _, p := range o.Props {
		if !p.Enumerable || !p.Writable || !p.Configurable {
			return true
		}
	}

	return false
}

// HasAnyMethod reports whether any own property's value is callable.
func (o *Object) HasAnyMethod() bool {
	for _, p := range o.Props {
		if p.IsCallable() {
			return true
		}
	}

	return false
}

// Function represents a callable. Per spec.md §9's design notes, a
// reconstructed Function never gets an evaluated body: decode only ever
// restores the (Name, Source) pair the encoder captured, which is the
// faithful Go rendering of "reconstructing callables by evaluating
// source text is a host-trust decision" — this module stops short of
// calling any evaluator.
type Function struct {
	Name      string
	Source    string
	HasSource bool
}

func (*Function) isValue() {}
