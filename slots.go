package components

import (
	"regexp"
	"slices"

	"github.com/flosch/pongo2/v6"
)

var (
	tagPattern      = regexp.MustCompile(`(?s)\{%-?\s*([A-Za-z_][A-Za-z0-9_]*)(.*?)-?%\}`)
	commentPattern  = regexp.MustCompile(`(?s)\{#.*?#\}`)
	tagNamePattern  = regexp.MustCompile(`^\s*(?:name\s*=\s*)?(?:"([^"\\]*)"|'([^'\\]*)')`)
	slotNamePattern = regexp.MustCompile(`^\s*(?:"([^"\\]*)"|'([^'\\]*)'|([A-Za-z_][A-Za-z0-9_]*))\s*$`)
)

// templateOutline is what the component layer needs to know about a template
// before running it: the slots it declares and the components it invokes.
type templateOutline struct {
	// slots holds the names of the slot tags that aren't inside a
	// component_block, in the order they first appear.
	slots []string

	// components holds the names passed to every component and
	// component_block tag in the template, in the order they first
	// appear.
	components []string
}

func (o templateOutline) declares(slot string) bool {
	return slices.Contains(o.slots, slot)
}

// outlineTemplate scans template source for component layer tags. Slot tags
// nested inside a component_block fill that block's slots rather than
// declaring slots of their own, so they're skipped. So is anything inside
// verbatim or comment blocks and {# #} comments.
//
// Slots inside if or for blocks are declared like any other.
func outlineTemplate(source string) templateOutline {
	var (
		outline  templateOutline
		depth    int
		skipping string
	)
	source = commentPattern.ReplaceAllString(source, "")
	for _, match := range tagPattern.FindAllStringSubmatch(source, -1) {
		tag, args := match[1], match[2]
		if skipping != "" {
			if tag == skipping {
				skipping = ""
			}
			continue
		}
		switch tag {
		case "verbatim", "comment":
			skipping = "end" + tag
		case "component", "component_block":
			if name, ok := quotedName(args); ok && !slices.Contains(outline.components, name) {
				outline.components = append(outline.components, name)
			}
			if tag == "component_block" {
				depth++
			}
		case "endcomponent_block":
			if depth > 0 {
				depth--
			}
		case "slot":
			if depth > 0 {
				continue
			}
			if name, ok := slotName(args); ok && !outline.declares(name) {
				outline.slots = append(outline.slots, name)
			}
		}
	}
	return outline
}

func quotedName(args string) (string, bool) {
	match := tagNamePattern.FindStringSubmatch(args)
	if match == nil {
		return "", false
	}
	if match[1] != "" {
		return match[1], true
	}
	return match[2], match[2] != ""
}

// slotName accepts the same slot names the slot tag does: a quoted string or
// a bare identifier.
func slotName(args string) (string, bool) {
	match := slotNamePattern.FindStringSubmatch(args)
	if match == nil {
		return "", false
	}
	for _, name := range match[1:] {
		if name != "" {
			return name, true
		}
	}
	return "", false
}

// slotFills is the content a call site supplied for each slot name. Filling
// the same slot more than once appends to it.
type slotFills map[string][]*pongo2.NodeWrapper

// slotPlan maps every slot a component template declares to the content it
// should render. A nil entry means the slot renders its own default content.
type slotPlan map[string][]*pongo2.NodeWrapper

// reconcile resolves the slots a call site filled against the slots the
// component's template declares. Fills for slots the template doesn't declare
// are dropped and their names returned, sorted, so the caller can warn about
// them.
func reconcile(outline templateOutline, fills slotFills) (slotPlan, []string) {
	plan := make(slotPlan, len(outline.slots))
	for _, name := range outline.slots {
		plan[name] = fills[name]
	}
	var unexpected []string
	for name := range fills {
		if !outline.declares(name) {
			unexpected = append(unexpected, name)
		}
	}
	slices.Sort(unexpected)
	return plan, unexpected
}
