// Package beanname derives the effective bean name of a class under the
// standard stereotype annotation conventions, and resolves bean names back to
// classes.
package beanname

import (
	"strings"
	"unicode"

	"github.com/beanlens/beanlens/internal/symbol"
)

// Fully qualified names of the stereotype annotations consulted by Resolve,
// in priority order. The order is fixed; first present annotation wins.
const (
	ComponentFQN  = "org.springframework.stereotype.Component"
	ServiceFQN    = "org.springframework.stereotype.Service"
	RepositoryFQN = "org.springframework.stereotype.Repository"
)

// Resolver resolves bean names against an annotation priority list. The zero
// value is not usable; construct with New.
type Resolver struct {
	priority []string
}

// New returns a Resolver checking Component, Service and Repository in that
// order, followed by any extra annotation FQNs in the order given.
func New(extra ...string) *Resolver {
	priority := []string{ComponentFQN, ServiceFQN, RepositoryFQN}
	return &Resolver{priority: append(priority, extra...)}
}

// Priority returns the annotation FQNs the resolver consults, in order.
func (r *Resolver) Priority() []string {
	out := make([]string, len(r.priority))
	copy(out, r.priority)
	return out
}

// Resolve returns the effective bean name of the class: the first present
// stereotype annotation's value attribute when it holds a usable string
// literal, otherwise the decapitalized simple name. It never fails.
func (r *Resolver) Resolve(c *symbol.Class) string {
	for _, fqn := range r.priority {
		if name, ok := ResolveAgainst(c, fqn); ok {
			return name
		}
	}
	return Decapitalize(c.Name)
}

// ResolveAgainst resolves the bean name of the class against one specific
// annotation. It reports false when the class does not carry the annotation.
// A present annotation always yields a name: the value attribute's literal
// when usable, the decapitalized simple name otherwise.
func ResolveAgainst(c *symbol.Class, annotationFQN string) (string, bool) {
	ann := c.Annotation(annotationFQN)
	if ann == nil {
		return "", false
	}
	if attr := ann.Attribute("value"); attr != nil {
		if lit, ok := literalString(attr.Raw); ok {
			return lit, true
		}
	}
	return Decapitalize(c.Name), true
}

// Resolve is the package-level convenience using the default priority.
func Resolve(c *symbol.Class) string {
	return New().Resolve(c)
}

// FindClassByName searches the classes carrying annotationFQN for the one
// whose bean name matches beanName, returning the first match. A candidate
// with an explicit quoted value attribute matches on exact equality; one
// without falls back to a case-insensitive comparison of its decapitalized
// simple name. Not found is reported as false, never as an error.
func FindClassByName(search symbol.AnnotatedSearch, beanName, annotationFQN string) (*symbol.Class, bool) {
	want := StripDoubleQuotes(beanName)
	for _, c := range search.ClassesAnnotatedWith(annotationFQN) {
		ann := c.Annotation(annotationFQN)
		if ann == nil {
			continue
		}
		if attr := ann.Attribute("value"); attr != nil {
			if lit, ok := literalString(attr.Raw); ok {
				if lit == want {
					return c, true
				}
				continue
			}
		}
		if strings.EqualFold(Decapitalize(c.Name), want) {
			return c, true
		}
	}
	return nil, false
}

// Decapitalize lower-cases the first character of an identifier following the
// java.beans.Introspector convention: a name starting with two upper-case
// characters is left unchanged ("URL" stays "URL").
func Decapitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 || !unicode.IsUpper(r[0]) {
		return s
	}
	if len(r) > 1 && unicode.IsUpper(r[1]) {
		return s
	}
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// StripDoubleQuotes removes one pair of surrounding double quotes, if present.
func StripDoubleQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// literalString extracts the contents of a quoted, non-empty string literal.
// Anything else (constant references, concatenations, empty literals) is not
// usable as an explicit bean name and falls through to the decapitalization
// fallback.
func literalString(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 2 || !strings.HasPrefix(raw, `"`) || !strings.HasSuffix(raw, `"`) {
		return "", false
	}
	inner := raw[1 : len(raw)-1]
	if inner == "" || strings.Contains(inner, `"`) {
		return "", false
	}
	return inner, true
}
