package beanname

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beanlens/beanlens/internal/symbol"
)

func class(name string, anns ...symbol.Annotation) *symbol.Class {
	return &symbol.Class{
		Name:        name,
		FQN:         "com.example." + name,
		Package:     "com.example",
		Kind:        symbol.ClassKind,
		Annotations: anns,
	}
}

func stereotype(fqn string, attrs ...symbol.Attribute) symbol.Annotation {
	name := fqn
	if i := strings.LastIndexByte(fqn, '.'); i >= 0 {
		name = fqn[i+1:]
	}
	return symbol.Annotation{Name: name, FQN: fqn, Attributes: attrs}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		class    *symbol.Class
		expected string
	}{
		{
			name:     "component with explicit value",
			class:    class("Foo", stereotype(ComponentFQN, symbol.Attribute{Name: "value", Raw: `"x"`})),
			expected: "x",
		},
		{
			name:     "service without value falls back to decapitalized simple name",
			class:    class("OrderProcessor", stereotype(ServiceFQN)),
			expected: "orderProcessor",
		},
		{
			name: "component wins over service",
			class: class("Dual",
				stereotype(ServiceFQN, symbol.Attribute{Name: "value", Raw: `"fromService"`}),
				stereotype(ComponentFQN, symbol.Attribute{Name: "value", Raw: `"fromComponent"`})),
			expected: "fromComponent",
		},
		{
			name: "service wins over repository",
			class: class("Dual",
				stereotype(RepositoryFQN, symbol.Attribute{Name: "value", Raw: `"fromRepository"`}),
				stereotype(ServiceFQN)),
			expected: "dual",
		},
		{
			name:     "no stereotype annotation",
			class:    class("Foo"),
			expected: "foo",
		},
		{
			name:     "unrelated annotations are ignored",
			class:    class("Foo", stereotype("java.lang.Deprecated")),
			expected: "foo",
		},
		{
			name:     "empty value literal falls back",
			class:    class("Foo", stereotype(ComponentFQN, symbol.Attribute{Name: "value", Raw: `""`})),
			expected: "foo",
		},
		{
			name:     "constant reference is not a usable value",
			class:    class("Foo", stereotype(ComponentFQN, symbol.Attribute{Name: "value", Raw: "Names.FOO"})),
			expected: "foo",
		},
		{
			name:     "unresolved annotation matches on simple name",
			class:    class("Foo", symbol.Annotation{Name: "Component", FQN: "Component"}),
			expected: "foo",
		},
		{
			name: "named attribute other than value is ignored",
			class: class("Foo",
				stereotype(ComponentFQN, symbol.Attribute{Name: "lazy", Raw: "true"})),
			expected: "foo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(tt.class))
			// Resolution is a pure function of the class.
			assert.Equal(t, tt.expected, Resolve(tt.class))
		})
	}
}

func TestResolverExtraStereotypes(t *testing.T) {
	custom := "org.example.Bean"
	r := New(custom)
	require.Equal(t, []string{ComponentFQN, ServiceFQN, RepositoryFQN, custom}, r.Priority())

	c := class("Handler", stereotype(custom, symbol.Attribute{Name: "value", Raw: `"named"`}))
	assert.Equal(t, "named", r.Resolve(c))
	// Built-in stereotypes still take priority over extras.
	c = class("Handler",
		stereotype(custom, symbol.Attribute{Name: "value", Raw: `"named"`}),
		stereotype(ComponentFQN))
	assert.Equal(t, "handler", r.Resolve(c))
}

func TestResolveAgainst(t *testing.T) {
	c := class("Foo", stereotype(ServiceFQN, symbol.Attribute{Name: "value", Raw: `"svc"`}))

	name, ok := ResolveAgainst(c, ServiceFQN)
	require.True(t, ok)
	assert.Equal(t, "svc", name)

	_, ok = ResolveAgainst(c, ComponentFQN)
	assert.False(t, ok)
}

type fakeSearch map[string][]*symbol.Class

func (f fakeSearch) ClassesAnnotatedWith(fqn string) []*symbol.Class {
	return f[fqn]
}

func TestFindClassByName(t *testing.T) {
	named := class("PaymentGateway", stereotype(ComponentFQN, symbol.Attribute{Name: "value", Raw: `"gateway"`}))
	plain := class("OrderProcessor", stereotype(ComponentFQN))
	search := fakeSearch{ComponentFQN: {named, plain}}

	tests := []struct {
		name     string
		beanName string
		want     *symbol.Class
		found    bool
	}{
		{"explicit value exact match", "gateway", named, true},
		{"explicit value is case sensitive", "Gateway", nil, false},
		{"decapitalized fallback", "orderProcessor", plain, true},
		{"fallback is case insensitive", "ORDERPROCESSOR", plain, true},
		{"quoted search term is stripped", `"gateway"`, named, true},
		{"no match", "missing", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindClassByName(search, tt.beanName, ComponentFQN)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("empty scope", func(t *testing.T) {
		_, ok := FindClassByName(fakeSearch{}, "anything", ComponentFQN)
		assert.False(t, ok)
	})
}

func TestDecapitalize(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"FooBar", "fooBar"},
		{"Foo", "foo"},
		{"foo", "foo"},
		{"URL", "URL"},
		{"URLParser", "URLParser"},
		{"X", "x"},
		{"", ""},
		{"_Foo", "_Foo"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.out, Decapitalize(tt.in), "Decapitalize(%q)", tt.in)
	}
}

func TestStripDoubleQuotes(t *testing.T) {
	assert.Equal(t, "x", StripDoubleQuotes(`"x"`))
	assert.Equal(t, "x", StripDoubleQuotes("x"))
	assert.Equal(t, `"x`, StripDoubleQuotes(`"x`))
	assert.Equal(t, "", StripDoubleQuotes(`""`))
	assert.Equal(t, `"`, StripDoubleQuotes(`"`))
}
