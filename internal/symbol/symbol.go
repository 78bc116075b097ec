// Package symbol defines the read-only code model that the rest of beanlens
// queries. Instances are built once by an extractor (see internal/javasrc)
// and never mutated afterwards.
package symbol

import "strings"

// Kind classifies a class-like declaration.
type Kind string

const (
	ClassKind      Kind = "class"
	InterfaceKind  Kind = "interface"
	EnumKind       Kind = "enum"
	RecordKind     Kind = "record"
	AnnotationKind Kind = "annotation"
)

// Class describes a single class-like declaration found in a source file.
type Class struct {
	// Name is the simple name, e.g. "OrderProcessor".
	Name string `json:"name"`
	// FQN is the fully qualified name, e.g. "com.acme.OrderProcessor".
	// Nested classes use dotted nesting, e.g. "com.acme.Outer.Inner".
	FQN string `json:"fqn"`
	// Package is the declared package, empty for the default package.
	Package string `json:"package"`
	// Path is the source file path relative to the scan root.
	Path string `json:"path"`
	Kind Kind   `json:"kind"`
	// Annotations preserves source order.
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Annotation is one applied annotation together with its arguments.
type Annotation struct {
	// Name is the simple name as written, without the leading '@'.
	Name string `json:"name"`
	// FQN is the fully qualified name when it could be resolved through the
	// file's imports, otherwise it equals Name.
	FQN string `json:"fqn"`
	// Attributes preserves argument order. The single-element shorthand
	// @Foo("x") is recorded under the name "value".
	Attributes []Attribute `json:"attributes,omitempty"`
}

// Attribute is a single annotation argument. Raw holds the argument value's
// source text verbatim, surrounding quote characters included; interpreting
// it is the consumer's concern.
type Attribute struct {
	Name string `json:"name"`
	Raw  string `json:"raw"`
}

// Attribute returns the named attribute or nil.
func (a *Annotation) Attribute(name string) *Attribute {
	for i := range a.Attributes {
		if a.Attributes[i].Name == name {
			return &a.Attributes[i]
		}
	}
	return nil
}

// Matches reports whether the annotation refers to the given fully qualified
// name. An unresolved annotation matches on its simple name, mirroring how a
// host index behaves when the annotation's library is not on the classpath.
func (a *Annotation) Matches(fqn string) bool {
	if a.FQN == fqn {
		return true
	}
	if a.FQN == a.Name {
		return a.Name == simpleName(fqn)
	}
	return false
}

// Annotation returns the first applied annotation matching the given fully
// qualified name, or nil when the class does not carry it.
func (c *Class) Annotation(fqn string) *Annotation {
	for i := range c.Annotations {
		if c.Annotations[i].Matches(fqn) {
			return &c.Annotations[i]
		}
	}
	return nil
}

// Lookup finds a class by its fully qualified name.
type Lookup interface {
	FindClass(fqn string) (*Class, bool)
}

// AnnotatedSearch enumerates the classes in scope that carry the given
// annotation. Implementations return candidates in a deterministic order.
type AnnotatedSearch interface {
	ClassesAnnotatedWith(annotationFQN string) []*Class
}

func simpleName(fqn string) string {
	if i := strings.LastIndexByte(fqn, '.'); i >= 0 {
		return fqn[i+1:]
	}
	return fqn
}
