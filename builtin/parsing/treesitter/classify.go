package treesitter

import (
	"github.com/spetr/code-chunker/pkg/syntax"
	"github.com/spetr/code-chunker/pkg/types"
)

func classifyGo(n syntax.Node, src []byte) (types.ElementKind, string, bool) {
	switch n.Kind() {
	case "function_declaration":
		return types.ElementFunction, findChildValue(n, "identifier", src), true
	case "method_declaration":
		return types.ElementMethod, findChildValue(n, "field_identifier", src), true
	case "type_declaration":
		if spec := findChild(n, "type_spec"); spec != nil {
			return types.ElementClass, findChildValue(spec, "type_identifier", src), true
		}
	}
	return "", "", false
}

func classifyPython(n syntax.Node, src []byte) (types.ElementKind, string, bool) {
	switch n.Kind() {
	case "function_definition":
		return types.ElementFunction, findChildValue(n, "identifier", src), true
	case "class_definition":
		return types.ElementClass, findChildValue(n, "identifier", src), true
	}
	return "", "", false
}

func classifyJS(n syntax.Node, src []byte) (types.ElementKind, string, bool) {
	switch n.Kind() {
	case "function_declaration", "function", "generator_function_declaration":
		return types.ElementFunction, findChildValue(n, "identifier", src), true
	case "class_declaration", "class":
		return types.ElementClass, findChildValue(n, "identifier", src), true
	case "method_definition":
		return types.ElementMethod, findChildValue(n, "property_identifier", src), true
	case "arrow_function":
		// Named only when assigned: const f = () => {}
		if p := n.Parent(); p != nil && p.Kind() == "variable_declarator" {
			return types.ElementFunction, findChildValue(p, "identifier", src), true
		}
	case "interface_declaration", "enum_declaration":
		// TypeScript-only node types, absent from plain JS grammars.
		return types.ElementClass, findChildValue(n, "type_identifier", src), true
	}
	return "", "", false
}

func classifyRust(n syntax.Node, src []byte) (types.ElementKind, string, bool) {
	switch n.Kind() {
	case "function_item":
		return types.ElementFunction, findChildValue(n, "identifier", src), true
	case "impl_item":
		if name := findChildValue(n, "type_identifier", src); name != "" {
			return types.ElementClass, "impl " + name, true
		}
	case "struct_item", "enum_item", "trait_item":
		return types.ElementClass, findChildValue(n, "type_identifier", src), true
	}
	return "", "", false
}

func classifyJava(n syntax.Node, src []byte) (types.ElementKind, string, bool) {
	switch n.Kind() {
	case "method_declaration", "constructor_declaration":
		return types.ElementMethod, findChildValue(n, "identifier", src), true
	case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
		return types.ElementClass, findChildValue(n, "identifier", src), true
	}
	return "", "", false
}

func classifyC(n syntax.Node, src []byte) (types.ElementKind, string, bool) {
	switch n.Kind() {
	case "function_definition":
		if decl := findChild(n, "function_declarator"); decl != nil {
			return types.ElementFunction, findChildValue(decl, "identifier", src), true
		}
	case "struct_specifier", "class_specifier":
		// Bare references ("struct foo x;") have no body child.
		if findChild(n, "field_declaration_list") != nil {
			return types.ElementClass, findChildValue(n, "type_identifier", src), true
		}
	}
	return "", "", false
}

func classifyRuby(n syntax.Node, src []byte) (types.ElementKind, string, bool) {
	switch n.Kind() {
	case "method":
		return types.ElementFunction, findChildValue(n, "identifier", src), true
	case "singleton_method":
		return types.ElementMethod, findChildValue(n, "identifier", src), true
	case "class", "module":
		return types.ElementClass, findChildValue(n, "constant", src), true
	}
	return "", "", false
}

func classifyPHP(n syntax.Node, src []byte) (types.ElementKind, string, bool) {
	switch n.Kind() {
	case "function_definition":
		return types.ElementFunction, findChildValue(n, "name", src), true
	case "method_declaration":
		return types.ElementMethod, findChildValue(n, "name", src), true
	case "class_declaration", "interface_declaration", "trait_declaration":
		return types.ElementClass, findChildValue(n, "name", src), true
	}
	return "", "", false
}

func classifyCSharp(n syntax.Node, src []byte) (types.ElementKind, string, bool) {
	switch n.Kind() {
	case "method_declaration", "constructor_declaration":
		return types.ElementMethod, findChildValue(n, "identifier", src), true
	case "class_declaration", "interface_declaration", "struct_declaration",
		"enum_declaration", "record_declaration":
		return types.ElementClass, findChildValue(n, "identifier", src), true
	}
	return "", "", false
}

func classifyKotlin(n syntax.Node, src []byte) (types.ElementKind, string, bool) {
	switch n.Kind() {
	case "function_declaration":
		return types.ElementFunction, findChildValue(n, "simple_identifier", src), true
	case "class_declaration", "object_declaration":
		return types.ElementClass, findChildValue(n, "type_identifier", src), true
	}
	return "", "", false
}

func classifyLua(n syntax.Node, src []byte) (types.ElementKind, string, bool) {
	switch n.Kind() {
	case "function_declaration", "local_function":
		return types.ElementFunction, findChildValue(n, "identifier", src), true
	}
	return "", "", false
}

func classifyBash(n syntax.Node, src []byte) (types.ElementKind, string, bool) {
	if n.Kind() == "function_definition" {
		return types.ElementFunction, findChildValue(n, "word", src), true
	}
	return "", "", false
}
