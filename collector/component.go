package collector

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/olafglad/react-state-map-sub000/ir"
)

// extractComponents finds every component declared at the top level of a
// parsed file: function declarations, arrow functions bound to capitalized
// names, and memo/forwardRef-wrapped functions, whenever the body renders
// JSX.
func extractComponents(root *sitter.Node, src []byte, path string) []*ir.Component {
	var components []*ir.Component
	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		if node.Type() == "export_statement" {
			if declaration := node.ChildByFieldName("declaration"); declaration != nil {
				node = declaration
			}
		}
		switch node.Type() {
		case "function_declaration":
			if component := componentFromFunction(node, src, path); component != nil {
				components = append(components, component)
			}
		case "lexical_declaration", "variable_declaration":
			for j := 0; j < int(node.NamedChildCount()); j++ {
				declarator := node.NamedChild(j)
				if declarator.Type() != "variable_declarator" {
					continue
				}
				if component := componentFromDeclarator(declarator, src, path); component != nil {
					components = append(components, component)
				}
			}
		}
	}
	return components
}

func componentFromFunction(node *sitter.Node, src []byte, path string) *ir.Component {
	name := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")
	params := node.ChildByFieldName("parameters")
	if name == nil || body == nil || !isComponentName(name.Content(src)) || !containsJSX(body) {
		return nil
	}
	return buildComponent(name.Content(src), node, params, body, src, path)
}

func componentFromDeclarator(declarator *sitter.Node, src []byte, path string) *ir.Component {
	name := declarator.ChildByFieldName("name")
	value := declarator.ChildByFieldName("value")
	if name == nil || value == nil || name.Type() != "identifier" || !isComponentName(name.Content(src)) {
		return nil
	}
	fn := unwrapComponentValue(value, src)
	if fn == nil {
		return nil
	}
	body := fn.ChildByFieldName("body")
	if body == nil || !containsJSX(body) {
		return nil
	}
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		params = fn.ChildByFieldName("parameter")
	}
	return buildComponent(name.Content(src), declarator, params, body, src, path)
}

// unwrapComponentValue accepts a plain function value or one wrapped in a
// memo/forwardRef call and returns the inner function node.
func unwrapComponentValue(value *sitter.Node, src []byte) *sitter.Node {
	switch value.Type() {
	case "arrow_function", "function", "function_expression":
		return value
	case "call_expression":
		callee := value.ChildByFieldName("function")
		if callee == nil {
			return nil
		}
		calleeName := callee.Content(src)
		if calleeName != "memo" && calleeName != "forwardRef" &&
			calleeName != "React.memo" && calleeName != "React.forwardRef" {
			return nil
		}
		arguments := value.ChildByFieldName("arguments")
		if arguments == nil {
			return nil
		}
		for i := 0; i < int(arguments.NamedChildCount()); i++ {
			argument := arguments.NamedChild(i)
			switch argument.Type() {
			case "arrow_function", "function", "function_expression":
				return argument
			}
		}
	}
	return nil
}

func isComponentName(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

// containsJSX walks the subtree looking for a JSX node.
func containsJSX(node *sitter.Node) bool {
	switch node.Type() {
	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return true
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if containsJSX(node.NamedChild(i)) {
			return true
		}
	}
	return false
}

// componentBuilder accumulates one component's IR while its body is walked.
type componentBuilder struct {
	src        []byte
	component  *ir.Component
	propsParam string          // whole-props parameter name, if any
	propSet    map[string]bool // declared prop names
	aliasRoot  map[string]bool // local alias names, excluded from consumption
	forwarded  map[string]bool
	consumed   map[string]bool
}

func buildComponent(name string, declaration, params, body *sitter.Node, src []byte, path string) *ir.Component {
	start := declaration.StartPoint()
	cb := &componentBuilder{
		src: src,
		component: &ir.Component{
			Name:      name,
			FilePath:  path,
			Line:      int(start.Row) + 1,
			Column:    int(start.Column),
			PropUsage: map[string]ir.PropUsage{},
		},
		propSet:   map[string]bool{},
		aliasRoot: map[string]bool{},
		forwarded: map[string]bool{},
		consumed:  map[string]bool{},
	}
	if params != nil {
		cb.collectParams(params)
	}
	cb.walk(body)
	cb.finalize()
	return cb.component
}

func (cb *componentBuilder) content(node *sitter.Node) string {
	return node.Content(cb.src)
}

func (cb *componentBuilder) line(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

func (cb *componentBuilder) declareProp(name string) {
	if name == "" || cb.propSet[name] {
		return
	}
	cb.propSet[name] = true
	cb.component.DeclaredProps = append(cb.component.DeclaredProps, ir.Prop{Name: name})
}

func (cb *componentBuilder) addAlias(from, to string, kind ir.RenameKind, line int) {
	cb.aliasRoot[to] = true
	cb.component.AliasSeeds = append(cb.component.AliasSeeds, ir.AliasSeed{
		FromName: from, ToName: to, Kind: kind, Line: line,
	})
}

// collectParams reads the first parameter: a bare identifier keeps the whole
// props object under one name, an object pattern declares one prop per
// member, with pair patterns doubling as destructure rename seeds.
func (cb *componentBuilder) collectParams(params *sitter.Node) {
	if params.Type() == "identifier" {
		cb.propsParam = cb.content(params)
		return
	}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		param := params.NamedChild(i)
		switch param.Type() {
		case "identifier":
			cb.propsParam = cb.content(param)
			return
		case "object_pattern":
			cb.collectPropsPattern(param)
			return
		}
	}
}

func (cb *componentBuilder) collectPropsPattern(pattern *sitter.Node) {
	for i := 0; i < int(pattern.NamedChildCount()); i++ {
		member := pattern.NamedChild(i)
		switch member.Type() {
		case "shorthand_property_identifier_pattern", "shorthand_property_identifier":
			cb.declareProp(cb.content(member))
		case "pair_pattern":
			key := member.ChildByFieldName("key")
			value := member.ChildByFieldName("value")
			if key == nil || value == nil {
				continue
			}
			cb.declareProp(cb.content(key))
			if value.Type() == "identifier" {
				cb.addAlias(cb.content(key), cb.content(value), ir.RenameDestructure, cb.line(member))
			}
		case "object_assignment_pattern":
			if left := member.ChildByFieldName("left"); left != nil {
				cb.declareProp(cb.content(left))
			}
		}
	}
}

// walk dispatches over the component body. Declarations and JSX get
// structured handling; any other identifier reference to a declared prop
// counts as consumption.
func (cb *componentBuilder) walk(node *sitter.Node) {
	switch node.Type() {
	case "lexical_declaration", "variable_declaration":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			declarator := node.NamedChild(i)
			if declarator.Type() == "variable_declarator" {
				cb.handleDeclarator(declarator)
			}
		}
	case "jsx_element":
		if opening := firstChildOfType(node, "jsx_opening_element"); opening != nil {
			cb.handleElement(opening)
		}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			switch child.Type() {
			case "jsx_opening_element", "jsx_closing_element":
				continue
			}
			cb.walk(child)
		}
	case "jsx_self_closing_element":
		cb.handleElement(node)
	case "jsx_expression":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			cb.walk(node.NamedChild(i))
		}
	case "identifier":
		cb.markConsumed(cb.content(node))
	case "member_expression":
		cb.handleMemberRead(node)
	default:
		for i := 0; i < int(node.NamedChildCount()); i++ {
			cb.walk(node.NamedChild(i))
		}
	}
}

func (cb *componentBuilder) markConsumed(name string) {
	if cb.propSet[name] {
		cb.consumed[name] = true
	}
}

// handleMemberRead treats props.x as a read of prop x when the component
// keeps the whole props object, and otherwise walks both sides.
func (cb *componentBuilder) handleMemberRead(node *sitter.Node) {
	object := node.ChildByFieldName("object")
	property := node.ChildByFieldName("property")
	if object != nil && property != nil &&
		object.Type() == "identifier" && cb.content(object) == cb.propsParam && cb.propsParam != "" {
		prop := cb.content(property)
		cb.declareProp(prop)
		cb.consumed[prop] = true
		return
	}
	if object != nil {
		cb.walk(object)
	}
}
