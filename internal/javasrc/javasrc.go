// Package javasrc extracts the symbol model from Java sources using
// tree-sitter. Parsing is error-tolerant: broken files still yield the
// declarations tree-sitter can recover, the way an IDE's model does.
package javasrc

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/beanlens/beanlens/internal/symbol"
)

// ErrNotJava is returned for files without a .java extension.
var ErrNotJava = errors.New("not a java source file")

// Packages that may satisfy a wildcard import when resolving an annotation's
// fully qualified name without a classpath.
var wildcardAnnotationPackages = map[string]bool{
	"org.springframework.stereotype": true,
}

var declarationKinds = map[string]symbol.Kind{
	"class_declaration":           symbol.ClassKind,
	"interface_declaration":       symbol.InterfaceKind,
	"enum_declaration":            symbol.EnumKind,
	"record_declaration":          symbol.RecordKind,
	"annotation_type_declaration": symbol.AnnotationKind,
}

// Keyword tokens a broken declaration leaves behind inside an ERROR node.
var keywordKinds = map[string]symbol.Kind{
	"class":     symbol.ClassKind,
	"interface": symbol.InterfaceKind,
	"enum":      symbol.EnumKind,
	"record":    symbol.RecordKind,
}

// ExtractClasses parses one Java source file and returns every class-like
// declaration it contains, in source order. The path is recorded on each
// class and used only for the extension check and reporting.
func ExtractClasses(path string, src []byte) ([]symbol.Class, error) {
	if !strings.EqualFold(filepath.Ext(path), ".java") {
		return nil, fmt.Errorf("%s: %w", path, ErrNotJava)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	javaLang := sitter.NewLanguage(java.Language())
	if err := parser.SetLanguage(javaLang); err != nil {
		return nil, fmt.Errorf("failed to set java language: %w", err)
	}

	tree := parser.Parse(src, nil)
	defer tree.Close()
	root := tree.RootNode()

	f := &fileScope{path: path, imports: map[string]string{}}
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		switch child.Kind() {
		case "package_declaration":
			f.pkg = packageName(child, src)
		case "import_declaration":
			f.addImport(child.Utf8Text(src))
		}
	}

	var classes []symbol.Class
	f.collect(root, src, nil, &classes)
	return classes, nil
}

// fileScope carries the per-file context needed to qualify names.
type fileScope struct {
	path    string
	pkg     string
	imports map[string]string // simple name -> FQN
	wild    []string          // wildcard import package prefixes
}

func (f *fileScope) addImport(text string) {
	text = strings.TrimSuffix(strings.TrimSpace(text), ";")
	text = strings.TrimSpace(strings.TrimPrefix(text, "import"))
	// static imports bring in members, not annotation types
	if strings.HasPrefix(text, "static ") {
		return
	}
	if pkg, ok := strings.CutSuffix(text, ".*"); ok {
		f.wild = append(f.wild, pkg)
		return
	}
	if i := strings.LastIndexByte(text, '.'); i >= 0 {
		f.imports[text[i+1:]] = text
	}
}

// resolveAnnotation maps an annotation name as written to (simple, fqn).
// Explicit imports win; a wildcard import of a known annotation package is
// honored; an already-qualified name passes through; otherwise the name stays
// unresolved and downstream matching falls back to simple-name comparison.
func (f *fileScope) resolveAnnotation(written string) (string, string) {
	if i := strings.LastIndexByte(written, '.'); i >= 0 {
		return written[i+1:], written
	}
	if fqn, ok := f.imports[written]; ok {
		return written, fqn
	}
	for _, pkg := range f.wild {
		if wildcardAnnotationPackages[pkg] {
			return written, pkg + "." + written
		}
	}
	return written, written
}

func (f *fileScope) collect(node *sitter.Node, src []byte, enclosing []string, out *[]symbol.Class) {
	kind, isDecl := declarationKinds[node.Kind()]
	if !isDecl {
		if node.Kind() == "ERROR" {
			f.recoverDeclarations(node, src, enclosing, out)
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			f.collect(node.Child(i), src, enclosing, out)
		}
		return
	}

	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Utf8Text(src)

	*out = append(*out, symbol.Class{
		Name:        name,
		FQN:         joinName(f.pkg, append(enclosing, name)),
		Package:     f.pkg,
		Path:        f.path,
		Kind:        kind,
		Annotations: f.annotations(node, src),
	})

	if body := node.ChildByFieldName("body"); body != nil {
		f.collect(body, src, append(enclosing, name), out)
	}
}

// recoverDeclarations salvages class-like declarations the parser lumped
// into an ERROR node, so a syntax error does not hide a declaration that is
// plainly there. Inside the ERROR node the type keyword and the name survive
// as bare sibling tokens.
func (f *fileScope) recoverDeclarations(node *sitter.Node, src []byte, enclosing []string, out *[]symbol.Class) {
	for i := uint(0); i+1 < node.ChildCount(); i++ {
		kind, ok := keywordKinds[node.Child(i).Kind()]
		if !ok {
			continue
		}
		nameNode := node.Child(i + 1)
		if nameNode.Kind() != "identifier" {
			continue
		}
		name := nameNode.Utf8Text(src)
		*out = append(*out, symbol.Class{
			Name:        name,
			FQN:         joinName(f.pkg, append(enclosing, name)),
			Package:     f.pkg,
			Path:        f.path,
			Kind:        kind,
			Annotations: f.precedingAnnotations(node, i, src),
		})
	}
}

// precedingAnnotations reads the annotations written directly before the
// keyword token at index i of an ERROR node. Depending on how the parse
// broke they appear either under a modifiers sibling or as bare
// annotation siblings.
func (f *fileScope) precedingAnnotations(node *sitter.Node, i uint, src []byte) []symbol.Annotation {
	var anns []symbol.Annotation
	for j := i; j > 0; j-- {
		prev := node.Child(j - 1)
		switch prev.Kind() {
		case "modifiers":
			anns = append(f.annotationList(prev, src), anns...)
		case "marker_annotation", "annotation":
			anns = append([]symbol.Annotation{f.annotation(prev, src)}, anns...)
		case "public", "protected", "private", "static", "final", "abstract":
			// plain modifier tokens, keep looking back
		default:
			return anns
		}
	}
	return anns
}

// annotations reads a declaration's modifier list in source order.
func (f *fileScope) annotations(decl *sitter.Node, src []byte) []symbol.Annotation {
	for i := uint(0); i < decl.ChildCount(); i++ {
		if mods := decl.Child(i); mods.Kind() == "modifiers" {
			return f.annotationList(mods, src)
		}
	}
	return nil
}

func (f *fileScope) annotationList(mods *sitter.Node, src []byte) []symbol.Annotation {
	var anns []symbol.Annotation
	for i := uint(0); i < mods.ChildCount(); i++ {
		switch m := mods.Child(i); m.Kind() {
		case "marker_annotation", "annotation":
			anns = append(anns, f.annotation(m, src))
		}
	}
	return anns
}

func (f *fileScope) annotation(m *sitter.Node, src []byte) symbol.Annotation {
	simple, fqn := f.resolveAnnotation(fieldText(m, "name", src))
	return symbol.Annotation{
		Name:       simple,
		FQN:        fqn,
		Attributes: attributes(m.ChildByFieldName("arguments"), src),
	}
}

// attributes reads an annotation_argument_list. The single-element shorthand
// is recorded under the conventional name "value".
func attributes(args *sitter.Node, src []byte) []symbol.Attribute {
	if args == nil {
		return nil
	}
	var attrs []symbol.Attribute
	for i := uint(0); i < args.NamedChildCount(); i++ {
		arg := args.NamedChild(i)
		if arg.Kind() == "element_value_pair" {
			attrs = append(attrs, symbol.Attribute{
				Name: fieldText(arg, "key", src),
				Raw:  fieldText(arg, "value", src),
			})
			continue
		}
		attrs = append(attrs, symbol.Attribute{Name: "value", Raw: arg.Utf8Text(src)})
	}
	return attrs
}

func packageName(pkgDecl *sitter.Node, src []byte) string {
	for i := uint(0); i < pkgDecl.ChildCount(); i++ {
		child := pkgDecl.Child(i)
		switch child.Kind() {
		case "identifier", "scoped_identifier":
			return child.Utf8Text(src)
		}
	}
	return ""
}

func fieldText(node *sitter.Node, field string, src []byte) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return child.Utf8Text(src)
}

func joinName(pkg string, parts []string) string {
	name := strings.Join(parts, ".")
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
