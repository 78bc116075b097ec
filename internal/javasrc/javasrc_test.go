package javasrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beanlens/beanlens/internal/symbol"
)

func TestExtractClasses(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		src      string
		expected []symbol.Class
	}{
		{
			name: "component with explicit value",
			path: "com/acme/PaymentGateway.java",
			src: `
package com.acme;

import org.springframework.stereotype.Component;

@Component("gateway")
public class PaymentGateway {
}
`,
			expected: []symbol.Class{
				{
					Name:    "PaymentGateway",
					FQN:     "com.acme.PaymentGateway",
					Package: "com.acme",
					Path:    "com/acme/PaymentGateway.java",
					Kind:    symbol.ClassKind,
					Annotations: []symbol.Annotation{
						{
							Name:       "Component",
							FQN:        "org.springframework.stereotype.Component",
							Attributes: []symbol.Attribute{{Name: "value", Raw: `"gateway"`}},
						},
					},
				},
			},
		},
		{
			name: "marker annotation and named attributes",
			path: "OrderService.java",
			src: `
package com.acme.orders;

import org.springframework.stereotype.Service;

@Deprecated
@Service(value = "orders", lazy = true)
public class OrderService {
}
`,
			expected: []symbol.Class{
				{
					Name:    "OrderService",
					FQN:     "com.acme.orders.OrderService",
					Package: "com.acme.orders",
					Path:    "OrderService.java",
					Kind:    symbol.ClassKind,
					Annotations: []symbol.Annotation{
						{Name: "Deprecated", FQN: "Deprecated"},
						{
							Name: "Service",
							FQN:  "org.springframework.stereotype.Service",
							Attributes: []symbol.Attribute{
								{Name: "value", Raw: `"orders"`},
								{Name: "lazy", Raw: "true"},
							},
						},
					},
				},
			},
		},
		{
			name: "wildcard import of stereotype package",
			path: "Repo.java",
			src: `
package com.acme;

import org.springframework.stereotype.*;

@Repository
class Repo {
}
`,
			expected: []symbol.Class{
				{
					Name:    "Repo",
					FQN:     "com.acme.Repo",
					Package: "com.acme",
					Path:    "Repo.java",
					Kind:    symbol.ClassKind,
					Annotations: []symbol.Annotation{
						{Name: "Repository", FQN: "org.springframework.stereotype.Repository"},
					},
				},
			},
		},
		{
			name: "fully qualified annotation",
			path: "Qualified.java",
			src: `
@org.springframework.stereotype.Component
class Qualified {
}
`,
			expected: []symbol.Class{
				{
					Name: "Qualified",
					FQN:  "Qualified",
					Path: "Qualified.java",
					Kind: symbol.ClassKind,
					Annotations: []symbol.Annotation{
						{Name: "Component", FQN: "org.springframework.stereotype.Component"},
					},
				},
			},
		},
		{
			name: "nested classes keep dotted nesting",
			path: "Outer.java",
			src: `
package com.acme;

import org.springframework.stereotype.Component;

public class Outer {
    @Component
    static class Inner {
    }
}
`,
			expected: []symbol.Class{
				{
					Name:    "Outer",
					FQN:     "com.acme.Outer",
					Package: "com.acme",
					Path:    "Outer.java",
					Kind:    symbol.ClassKind,
				},
				{
					Name:    "Inner",
					FQN:     "com.acme.Outer.Inner",
					Package: "com.acme",
					Path:    "Outer.java",
					Kind:    symbol.ClassKind,
					Annotations: []symbol.Annotation{
						{Name: "Component", FQN: "org.springframework.stereotype.Component"},
					},
				},
			},
		},
		{
			name: "interface enum and record kinds",
			path: "Mixed.java",
			src: `
package com.acme;

interface Loader {
}

enum Mode {
    A, B
}

record Point(int x, int y) {
}
`,
			expected: []symbol.Class{
				{Name: "Loader", FQN: "com.acme.Loader", Package: "com.acme", Path: "Mixed.java", Kind: symbol.InterfaceKind},
				{Name: "Mode", FQN: "com.acme.Mode", Package: "com.acme", Path: "Mixed.java", Kind: symbol.EnumKind},
				{Name: "Point", FQN: "com.acme.Point", Package: "com.acme", Path: "Mixed.java", Kind: symbol.RecordKind},
			},
		},
		{
			name: "unimported annotation stays unresolved",
			path: "Plain.java",
			src: `
package com.acme;

@Component
class Plain {
}
`,
			expected: []symbol.Class{
				{
					Name:    "Plain",
					FQN:     "com.acme.Plain",
					Package: "com.acme",
					Path:    "Plain.java",
					Kind:    symbol.ClassKind,
					Annotations: []symbol.Annotation{
						{Name: "Component", FQN: "Component"},
					},
				},
			},
		},
		{
			name: "constant reference value kept as raw text",
			path: "Named.java",
			src: `
package com.acme;

import org.springframework.stereotype.Component;

@Component(Names.GATEWAY)
class Named {
}
`,
			expected: []symbol.Class{
				{
					Name:    "Named",
					FQN:     "com.acme.Named",
					Package: "com.acme",
					Path:    "Named.java",
					Kind:    symbol.ClassKind,
					Annotations: []symbol.Annotation{
						{
							Name:       "Component",
							FQN:        "org.springframework.stereotype.Component",
							Attributes: []symbol.Attribute{{Name: "value", Raw: "Names.GATEWAY"}},
						},
					},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classes, err := ExtractClasses(tt.path, []byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, classes)
		})
	}
}

func TestExtractClassesRejectsNonJava(t *testing.T) {
	_, err := ExtractClasses("main.go", []byte("package main"))
	assert.ErrorIs(t, err, ErrNotJava)
}

func TestExtractClassesToleratesBrokenSource(t *testing.T) {
	src := `
package com.acme;

import org.springframework.stereotype.Service;

@Service
public class Broken {
    void incomplete(
`
	classes, err := ExtractClasses("Broken.java", []byte(src))
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "Broken", classes[0].Name)
	assert.Equal(t, "com.acme.Broken", classes[0].FQN)
	assert.Equal(t, symbol.ClassKind, classes[0].Kind)
	require.Len(t, classes[0].Annotations, 1)
	assert.Equal(t, "org.springframework.stereotype.Service", classes[0].Annotations[0].FQN)
}
