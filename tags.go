package components

import (
	"fmt"
	"maps"

	"github.com/flosch/pongo2/v6"
)

const (
	// renderStateKey is where a render's *renderState lives in the pongo2
	// context. It survives isolation so nested components can still find
	// the Engine and the Dependencies set.
	renderStateKey = "_component_render"

	// slotPlanKey is where the slotPlan of the component being rendered
	// lives in the pongo2 context.
	slotPlanKey = "_component_slots"
)

func init() {
	mustRegisterTag("component", tagComponentParser)
	mustRegisterTag("component_block", tagComponentBlockParser)
	mustRegisterTag("slot", tagSlotParser)
	mustRegisterTag("component_dependencies", placeholderTagParser("component_dependencies", CSSPlaceholder+JSPlaceholder))
	mustRegisterTag("component_css_dependencies", placeholderTagParser("component_css_dependencies", CSSPlaceholder))
	mustRegisterTag("component_js_dependencies", placeholderTagParser("component_js_dependencies", JSPlaceholder))
}

func mustRegisterTag(name string, parser pongo2.TagParser) {
	if err := pongo2.RegisterTag(name, parser); err != nil {
		panic(fmt.Sprintf("components: can't register %q tag: %v", name, err))
	}
}

// lookupContext finds key in the execution context the way pongo2 resolves
// variables: private values shadow public ones.
func lookupContext(ctx *pongo2.ExecutionContext, key string) any {
	if val, ok := ctx.Private[key]; ok {
		return val
	}
	return ctx.Public[key]
}

// flattenContext collapses an execution context into a single map, the way
// the template executing it sees its variables.
func flattenContext(ctx *pongo2.ExecutionContext) map[string]any {
	result := make(map[string]any, len(ctx.Public)+len(ctx.Private))
	maps.Copy(result, ctx.Public)
	for key, val := range ctx.Private {
		// pongo2's own metadata is set up fresh for every template
		if key == "pongo2" {
			continue
		}
		result[key] = val
	}
	return result
}

// tagComponentNode is a parsed component or component_block tag.
type tagComponentNode struct {
	position *pongo2.Token
	name     string
	args     []pongo2.IEvaluator
	kwargs   map[string]pongo2.IEvaluator
	fills    slotFills
	isolated bool
}

func (node *tagComponentNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	state, ok := lookupContext(ctx, renderStateKey).(*renderState)
	if !ok {
		return ctx.OrigError(ErrNoRenderState, node.position)
	}
	if err := state.engine.renderComponent(state, ctx, node, writer); err != nil {
		return ctx.OrigError(state.fail(err), node.position)
	}
	return nil
}

// resolve evaluates the node's arguments against the context it's executing
// in.
func (node *tagComponentNode) resolve(ctx *pongo2.ExecutionContext) ([]any, map[string]any, error) {
	args := make([]any, 0, len(node.args))
	for _, expr := range node.args {
		val, err := expr.Evaluate(ctx)
		if err != nil {
			return nil, nil, err
		}
		args = append(args, val.Interface())
	}
	kwargs := make(map[string]any, len(node.kwargs))
	for key, expr := range node.kwargs {
		val, err := expr.Evaluate(ctx)
		if err != nil {
			return nil, nil, err
		}
		kwargs[key] = val.Interface()
	}
	return args, kwargs, nil
}

// parseComponentArgs parses the arguments of a component or component_block
// tag:
//
//	"name" positional... keyword=value... [only]
//
// The name can also be passed as name="..." when there are no positional
// arguments, and must be a string literal either way.
func parseComponentArgs(tag string, start *pongo2.Token, arguments *pongo2.Parser) (*tagComponentNode, *pongo2.Error) {
	node := &tagComponentNode{
		position: start,
		kwargs:   map[string]pongo2.IEvaluator{},
		fills:    slotFills{},
	}
	var sawKeyword bool
	for arguments.Remaining() > 0 {
		if arguments.Remaining() == 1 && arguments.Peek(pongo2.TokenIdentifier, "only") != nil {
			arguments.Consume()
			node.isolated = true
			break
		}
		if key := arguments.PeekType(pongo2.TokenIdentifier); key != nil && arguments.PeekN(1, pongo2.TokenSymbol, "=") != nil {
			arguments.ConsumeN(2)
			if key.Val == "name" && node.name == "" && len(node.args) == 0 {
				name := arguments.MatchType(pongo2.TokenString)
				if name == nil {
					return nil, arguments.Error(fmt.Sprintf("Component name passed to '%s' should be in quotes.", tag), key)
				}
				node.name = name.Val
				continue
			}
			if _, ok := node.kwargs[key.Val]; ok {
				return nil, arguments.Error(fmt.Sprintf("'%s' received multiple values for keyword argument '%s'.", tag, key.Val), key)
			}
			expr, err := arguments.ParseExpression()
			if err != nil {
				return nil, err
			}
			node.kwargs[key.Val] = expr
			sawKeyword = true
			continue
		}
		if sawKeyword {
			return nil, arguments.Error(fmt.Sprintf("'%s' received a positional argument after keyword arguments.", tag), arguments.Current())
		}
		if node.name == "" {
			name := arguments.MatchType(pongo2.TokenString)
			if name == nil {
				return nil, arguments.Error(fmt.Sprintf("Component name passed to '%s' should be in quotes.", tag), arguments.Current())
			}
			node.name = name.Val
			continue
		}
		expr, err := arguments.ParseExpression()
		if err != nil {
			return nil, err
		}
		node.args = append(node.args, expr)
	}
	if node.name == "" {
		return nil, arguments.Error(fmt.Sprintf("Call the '%s' tag with a component name as the first parameter.", tag), start)
	}
	return node, nil
}

func tagComponentParser(_ *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	return parseComponentArgs("component", start, arguments)
}

// tagComponentBlockParser parses a component_block tag and the slot tags
// inside it. Anything between the slot tags is parsed, so it has to be valid,
// but isn't rendered.
func tagComponentBlockParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	node, err := parseComponentArgs("component_block", start, arguments)
	if err != nil {
		return nil, err
	}
	for {
		wrapper, endargs, err := doc.WrapUntilTag("slot", "endcomponent_block")
		if err != nil {
			return nil, err
		}
		if wrapper.Endtag == "endcomponent_block" {
			if endargs.Count() > 0 {
				return nil, endargs.Error("Arguments not allowed here.", nil)
			}
			return node, nil
		}
		name, err := parseSlotName(endargs)
		if err != nil {
			return nil, err
		}
		body, bodyEnd, err := doc.WrapUntilTag("endslot")
		if err != nil {
			return nil, err
		}
		if bodyEnd.Count() > 0 {
			return nil, bodyEnd.Error("Arguments not allowed here.", nil)
		}
		node.fills[name] = append(node.fills[name], body)
	}
}

func parseSlotName(arguments *pongo2.Parser) (string, *pongo2.Error) {
	if arguments.Count() != 1 {
		return "", arguments.Error("'slot' tag takes only one argument.", nil)
	}
	if name := arguments.MatchType(pongo2.TokenString); name != nil {
		return name.Val, nil
	}
	if name := arguments.MatchType(pongo2.TokenIdentifier); name != nil {
		return name.Val, nil
	}
	return "", arguments.Error("'slot' tag expects the slot name.", nil)
}

// tagSlotNode is a slot declared by a component's template, holding the
// content it renders when the call site doesn't fill it.
type tagSlotNode struct {
	name    string
	wrapper *pongo2.NodeWrapper
}

func (node *tagSlotNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	if plan, ok := lookupContext(ctx, slotPlanKey).(slotPlan); ok {
		if fills := plan[node.name]; len(fills) > 0 {
			for _, fill := range fills {
				if err := fill.Execute(ctx, writer); err != nil {
					return err
				}
			}
			return nil
		}
	}
	return node.wrapper.Execute(ctx, writer)
}

func tagSlotParser(doc *pongo2.Parser, _ *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	name, err := parseSlotName(arguments)
	if err != nil {
		return nil, err
	}
	wrapper, endargs, err := doc.WrapUntilTag("endslot")
	if err != nil {
		return nil, err
	}
	if endargs.Count() > 0 {
		return nil, endargs.Error("Arguments not allowed here.", nil)
	}
	return &tagSlotNode{name: name, wrapper: wrapper}, nil
}

// tagPlaceholderNode writes placeholder markup that the dependency pass
// replaces once rendering is done.
type tagPlaceholderNode struct {
	markup string
}

func (node tagPlaceholderNode) Execute(_ *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	// a failed write surfaces when the buffered output is flushed
	_, _ = writer.WriteString(node.markup)
	return nil
}

func placeholderTagParser(tag, markup string) pongo2.TagParser {
	return func(_ *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
		if arguments.Count() > 0 {
			return nil, arguments.Error(fmt.Sprintf("'%s' takes no arguments.", tag), start)
		}
		return tagPlaceholderNode{markup: markup}, nil
	}
}
