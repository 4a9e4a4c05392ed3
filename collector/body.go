package collector

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/olafglad/react-state-map-sub000/ir"
)

func firstChildOfType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}

// handleDeclarator classifies one `const x = ...` inside a component body:
// hook results become state declarations or context uses, prop-derived
// values become alias seeds, everything else is walked for prop reads.
func (cb *componentBuilder) handleDeclarator(declarator *sitter.Node) {
	name := declarator.ChildByFieldName("name")
	value := declarator.ChildByFieldName("value")
	if name == nil || value == nil {
		return
	}

	if value.Type() == "call_expression" {
		if cb.handleHookCall(name, value) {
			return
		}
		cb.walk(value)
		return
	}

	line := cb.line(declarator)
	switch {
	case value.Type() == "identifier":
		source := cb.content(value)
		switch {
		case source == cb.propsParam && cb.propsParam != "" && name.Type() == "object_pattern":
			cb.collectPropsPattern(name)
		case name.Type() == "identifier" && (cb.propSet[source] || cb.aliasRoot[source]):
			cb.addAlias(source, cb.content(name), ir.RenameAssignment, line)
		case name.Type() == "object_pattern" && (cb.propSet[source] || cb.aliasRoot[source]):
			// Chained destructure out of an already-aliased value.
			for i := 0; i < int(name.NamedChildCount()); i++ {
				member := name.NamedChild(i)
				switch member.Type() {
				case "shorthand_property_identifier_pattern", "shorthand_property_identifier":
					cb.addAlias(source, cb.content(member), ir.RenameDestructure, line)
				case "pair_pattern":
					if pairValue := member.ChildByFieldName("value"); pairValue != nil && pairValue.Type() == "identifier" {
						cb.addAlias(source, cb.content(pairValue), ir.RenameDestructure, line)
					}
				}
			}
		}
	case value.Type() == "member_expression":
		object := value.ChildByFieldName("object")
		property := value.ChildByFieldName("property")
		if object == nil || property == nil || name.Type() != "identifier" {
			cb.walk(value)
			return
		}
		objectName := cb.content(object)
		if object.Type() == "identifier" && objectName == cb.propsParam && cb.propsParam != "" {
			prop := cb.content(property)
			cb.declareProp(prop)
			cb.addAlias(prop, cb.content(name), ir.RenameAccessor, line)
			return
		}
		if object.Type() == "identifier" && (cb.propSet[objectName] || cb.aliasRoot[objectName]) {
			cb.addAlias(objectName, cb.content(name), ir.RenameAccessor, line)
			return
		}
		cb.walk(value)
	default:
		cb.walk(value)
	}
}

// handleHookCall recognizes the hook vocabulary. Returns false when the call
// is not a hook so the caller falls back to a plain walk.
func (cb *componentBuilder) handleHookCall(name, call *sitter.Node) bool {
	callee := call.ChildByFieldName("function")
	if callee == nil || callee.Type() != "identifier" {
		return false
	}
	hook := cb.content(callee)
	line := cb.line(call)

	switch hook {
	case "useState", "useReducer":
		kind := ir.OriginLocalState
		if hook == "useReducer" {
			kind = ir.OriginReducerState
		}
		if name.Type() == "array_pattern" && name.NamedChildCount() > 0 {
			first := name.NamedChild(0)
			if first.Type() == "identifier" {
				cb.declareState(cb.content(first), kind, line)
			}
		}
		cb.walkArguments(call)
		return true
	case "useContext":
		cb.handleContextUse(name, call, line)
		return true
	case "useSelector":
		if name.Type() == "identifier" {
			cb.declareState(cb.content(name), ir.OriginStoreSelector, line)
		}
		cb.walkArguments(call)
		return true
	}

	if len(hook) > 3 && strings.HasPrefix(hook, "use") && hook[3] >= 'A' && hook[3] <= 'Z' {
		switch name.Type() {
		case "identifier":
			cb.declareState(cb.content(name), ir.OriginCustomProvider, line)
		case "object_pattern":
			for i := 0; i < int(name.NamedChildCount()); i++ {
				member := name.NamedChild(i)
				switch member.Type() {
				case "shorthand_property_identifier_pattern", "shorthand_property_identifier":
					cb.declareState(cb.content(member), ir.OriginCustomProvider, line)
				}
			}
		}
		cb.walkArguments(call)
		return true
	}
	return false
}

func (cb *componentBuilder) declareState(name string, kind ir.OriginKind, line int) {
	cb.component.DeclaredState = append(cb.component.DeclaredState, ir.StateDecl{
		Name: name, Kind: kind, Line: line,
	})
}

func (cb *componentBuilder) handleContextUse(name, call *sitter.Node, line int) {
	use := ir.ContextUse{Line: line}
	if arguments := call.ChildByFieldName("arguments"); arguments != nil && arguments.NamedChildCount() > 0 {
		use.Name = cb.content(arguments.NamedChild(0))
	}
	switch name.Type() {
	case "identifier":
		use.LocalName = cb.content(name)
		cb.declareState(use.LocalName, ir.OriginContextValue, line)
	case "object_pattern":
		for i := 0; i < int(name.NamedChildCount()); i++ {
			member := name.NamedChild(i)
			switch member.Type() {
			case "shorthand_property_identifier_pattern", "shorthand_property_identifier":
				field := cb.content(member)
				use.Fields = append(use.Fields, field)
				cb.declareState(field, ir.OriginContextValue, line)
			case "pair_pattern":
				if value := member.ChildByFieldName("value"); value != nil && value.Type() == "identifier" {
					field := cb.content(value)
					use.Fields = append(use.Fields, field)
					cb.declareState(field, ir.OriginContextValue, line)
				}
			}
		}
	}
	if use.Name != "" {
		cb.component.ContextConsumers = append(cb.component.ContextConsumers, use)
	}
}

func (cb *componentBuilder) walkArguments(call *sitter.Node) {
	if arguments := call.ChildByFieldName("arguments"); arguments != nil {
		for i := 0; i < int(arguments.NamedChildCount()); i++ {
			cb.walk(arguments.NamedChild(i))
		}
	}
}

// handleElement processes one JSX opening or self-closing element. Provider
// elements register a context provider; capitalized elements become child
// invocations with classified arguments; host (lowercase) elements only
// contribute prop reads.
func (cb *componentBuilder) handleElement(element *sitter.Node) {
	name := element.ChildByFieldName("name")
	if name == nil {
		return
	}
	elementName := cb.content(name)

	if name.Type() == "member_expression" && strings.HasSuffix(elementName, ".Provider") {
		provider := ir.ContextProvider{
			Name: strings.TrimSuffix(elementName, ".Provider"),
			Line: cb.line(element),
		}
		if value := cb.attributeValue(element, "value"); value != "" {
			provider.ValueExpr = value
		}
		cb.component.ContextProviders = append(cb.component.ContextProviders, provider)
		cb.walkAttributeReads(element)
		return
	}

	if !isComponentName(elementName) {
		cb.walkAttributeReads(element)
		return
	}

	// A <ThemeProvider> style wrapper both provides a context and renders a
	// child component; it is recorded as both.
	if name.Type() == "identifier" && strings.HasSuffix(elementName, "Provider") && elementName != "Provider" {
		provider := ir.ContextProvider{Name: elementName, Line: cb.line(element)}
		if value := cb.attributeValue(element, "value"); value != "" {
			provider.ValueExpr = value
		}
		cb.component.ContextProviders = append(cb.component.ContextProviders, provider)
	}

	invocation := ir.ChildInvocation{Callee: elementName, Line: cb.line(element)}
	for i := 0; i < int(element.NamedChildCount()); i++ {
		child := element.NamedChild(i)
		switch child.Type() {
		case "jsx_attribute":
			if arg, ok := cb.classifyAttribute(child); ok {
				invocation.Args = append(invocation.Args, arg)
			}
		case "jsx_expression":
			// {...rest} spread attribute.
			if spread := firstChildOfType(child, "spread_element"); spread != nil && spread.NamedChildCount() > 0 {
				target := spread.NamedChild(0)
				if target.Type() == "identifier" {
					spreadName := cb.content(target)
					invocation.Args = append(invocation.Args, ir.Arg{
						Name: spreadName, Kind: ir.ArgSpread, Value: spreadName,
					})
					cb.markForwarded(spreadName)
				}
			}
		}
	}
	cb.component.ChildInvocations = append(cb.component.ChildInvocations, invocation)
}

func (cb *componentBuilder) markForwarded(name string) {
	if cb.propSet[name] {
		cb.forwarded[name] = true
	}
}

// classifyAttribute turns one jsx_attribute into an invocation argument.
// Returns false for attributes that carry no statically traceable value
// (string literals, computed expressions, bare boolean attributes).
func (cb *componentBuilder) classifyAttribute(attribute *sitter.Node) (ir.Arg, bool) {
	nameNode := firstChildOfType(attribute, "property_identifier")
	if nameNode == nil {
		return ir.Arg{}, false
	}
	argName := cb.content(nameNode)
	expression := firstChildOfType(attribute, "jsx_expression")
	if expression == nil || expression.NamedChildCount() == 0 {
		return ir.Arg{}, false
	}
	value := expression.NamedChild(0)

	switch value.Type() {
	case "identifier":
		identifier := cb.content(value)
		cb.markForwarded(identifier)
		return ir.Arg{Name: argName, Kind: ir.ArgIdentifier, Value: identifier}, true
	case "member_expression":
		object := value.ChildByFieldName("object")
		property := value.ChildByFieldName("property")
		if object != nil && property != nil &&
			object.Type() == "identifier" && cb.content(object) == cb.propsParam && cb.propsParam != "" {
			prop := cb.content(property)
			cb.declareProp(prop)
			cb.forwarded[prop] = true
			return ir.Arg{Name: argName, Kind: ir.ArgIdentifier, Value: prop}, true
		}
		cb.walk(value)
		return ir.Arg{}, false
	case "object":
		arg := ir.Arg{Name: argName, Kind: ir.ArgLiteralAggregate}
		for i := 0; i < int(value.NamedChildCount()); i++ {
			member := value.NamedChild(i)
			switch member.Type() {
			case "pair":
				if key := member.ChildByFieldName("key"); key != nil {
					arg.Fields = append(arg.Fields, cb.content(key))
				}
				if pairValue := member.ChildByFieldName("value"); pairValue != nil {
					cb.walk(pairValue)
				}
			case "shorthand_property_identifier":
				field := cb.content(member)
				arg.Fields = append(arg.Fields, field)
				cb.markForwarded(field)
			case "spread_element":
				arg.HasSpread = true
			}
		}
		return arg, true
	default:
		cb.walk(value)
		return ir.Arg{}, false
	}
}

func (cb *componentBuilder) attributeValue(element *sitter.Node, attributeName string) string {
	for i := 0; i < int(element.NamedChildCount()); i++ {
		child := element.NamedChild(i)
		if child.Type() != "jsx_attribute" {
			continue
		}
		nameNode := firstChildOfType(child, "property_identifier")
		if nameNode == nil || cb.content(nameNode) != attributeName {
			continue
		}
		if expression := firstChildOfType(child, "jsx_expression"); expression != nil {
			return cb.content(expression)
		}
	}
	return ""
}

func (cb *componentBuilder) walkAttributeReads(element *sitter.Node) {
	for i := 0; i < int(element.NamedChildCount()); i++ {
		child := element.NamedChild(i)
		if child.Type() == "jsx_attribute" || child.Type() == "jsx_expression" {
			if expression := firstChildOfType(child, "jsx_expression"); expression != nil {
				cb.walk(expression)
			} else if child.Type() == "jsx_expression" {
				cb.walk(child)
			}
		}
	}
}

// finalize translates the accumulated sets into per-prop usage facts. A prop
// is transformed when it anchors any alias seed; alias names themselves do
// not count as consumption of the original.
func (cb *componentBuilder) finalize() {
	transformed := map[string]bool{}
	roots := map[string]string{}
	for _, seed := range cb.component.AliasSeeds {
		root := seed.FromName
		if resolved, ok := roots[seed.FromName]; ok {
			root = resolved
		}
		roots[seed.ToName] = root
		if cb.propSet[root] {
			transformed[root] = true
		}
	}
	for _, prop := range cb.component.DeclaredProps {
		cb.component.PropUsage[prop.Name] = ir.PropUsage{
			Consumed:    cb.consumed[prop.Name],
			Forwarded:   cb.forwarded[prop.Name],
			Transformed: transformed[prop.Name],
		}
	}
}
