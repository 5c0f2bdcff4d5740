package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/c360studio/brickshape/curie"
	"github.com/c360studio/brickshape/entity"
	"github.com/c360studio/brickshape/shape"
)

// Text renders a query result for a terminal. Lists print one item per line;
// descriptors print their facts followed by an indented property tree.
func Text(v any) string {
	var sb strings.Builder
	switch val := v.(type) {
	case []curie.Curie:
		for _, c := range val {
			sb.WriteString(c.String())
			sb.WriteString("\n")
		}
	case []string:
		for _, s := range val {
			sb.WriteString(s)
			sb.WriteString("\n")
		}
	case *entity.BrickEntity:
		writeEntity(&sb, val)
	case entity.BrickEntity:
		writeEntity(&sb, &val)
	case []*entity.BrickEntity:
		for i, e := range val {
			if i > 0 {
				sb.WriteString("\n")
			}
			writeEntity(&sb, e)
		}
	case []shape.BrickProperty:
		writeProperties(&sb, val, 0)
	case ClassProperties:
		sb.WriteString(val.Class.String())
		sb.WriteString("\n")
		writeProperties(&sb, val.Properties, 1)
	default:
		fmt.Fprintf(&sb, "%v\n", v)
	}
	return sb.String()
}

func writeEntity(sb *strings.Builder, e *entity.BrickEntity) {
	if e == nil {
		return
	}
	sb.WriteString(e.Curie().String())
	sb.WriteString("\n")

	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(sb, "  %-12s %s\n", name+":", value)
		}
	}
	field("label", e.Label)
	field("definition", e.Definition)
	field("types", strings.Join(e.Types, ", "))

	supers := make([]string, len(e.SuperClasses))
	for i, c := range e.SuperClasses {
		supers[i] = c.String()
	}
	field("superclass", strings.Join(supers, ", "))
	field("tags", strings.Join(e.Tags, ", "))

	if len(e.Properties) > 0 {
		sb.WriteString("  properties:\n")
		writeProperties(sb, e.Properties, 2)
	}
}

func writeProperties(sb *strings.Builder, props []shape.BrickProperty, depth int) {
	for _, p := range props {
		writeProperty(sb, p, depth)
	}
}

func writeProperty(sb *strings.Builder, p shape.BrickProperty, depth int) {
	indent := strings.Repeat("  ", depth)

	head := p.Path
	if head == "" {
		head = "(shape)"
	}
	var facts []string
	if p.Class != nil {
		facts = append(facts, "class="+p.Class.String())
	}
	if p.Datatype != nil {
		facts = append(facts, "datatype="+p.Datatype.String())
	}
	if p.NodeKind != nil {
		facts = append(facts, "nodeKind="+p.NodeKind.String())
	}
	for _, c := range p.SubclassOf {
		facts = append(facts, "subClassOf="+c.String())
	}
	facts = appendCount(facts, "min", p.MinCount)
	facts = appendCount(facts, "max", p.MaxCount)
	facts = appendCount(facts, "minLength", p.MinLength)
	facts = appendCount(facts, "maxLength", p.MaxLength)
	facts = appendBound(facts, ">=", p.MinInclusive)
	facts = appendBound(facts, "<=", p.MaxInclusive)
	facts = appendBound(facts, ">", p.MinExclusive)
	facts = appendBound(facts, "<", p.MaxExclusive)
	if p.Pattern != "" {
		facts = append(facts, "pattern="+strconv.Quote(p.Pattern))
	}
	for _, c := range p.Constraints {
		facts = append(facts, string(c.Kind)+"="+c.Property)
	}
	if p.OneOf != nil {
		facts = append(facts, "in=["+strings.Join(p.OneOf, " ")+"]")
	}
	if p.HasValue != "" {
		facts = append(facts, "hasValue="+p.HasValue)
	}

	sb.WriteString(indent)
	sb.WriteString(head)
	if len(facts) > 0 {
		sb.WriteString(" ")
		sb.WriteString(strings.Join(facts, " "))
	}
	sb.WriteString("\n")
	if p.Definition != "" {
		fmt.Fprintf(sb, "%s  # %s\n", indent, p.Definition)
	}

	for _, lc := range p.LogicalConstraints {
		fmt.Fprintf(sb, "%s  %s:\n", indent, lc.Operator)
		if len(lc.Properties) == 0 {
			fmt.Fprintf(sb, "%s    (empty)\n", indent)
		}
		writeProperties(sb, lc.Properties, depth+2)
	}
}

func appendCount(facts []string, name string, v *uint32) []string {
	if v == nil {
		return facts
	}
	return append(facts, name+"="+strconv.FormatUint(uint64(*v), 10))
}

func appendBound(facts []string, op string, v *float64) []string {
	if v == nil {
		return facts
	}
	return append(facts, op+strconv.FormatFloat(*v, 'g', -1, 64))
}
