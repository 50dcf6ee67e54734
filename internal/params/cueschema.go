package params

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"

	"github.com/roach88/graphsmith/internal/ir"
)

// CUEDefinition is the name of the definition rendered by Spec.CUE.
const CUEDefinition = "#Input"

var cueIdent = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// CUE renders the specification as a closed CUE definition so external
// tooling can validate input offline.
//
//	#Input: {
//		prompt!: string
//		width?:  *1024 | int & >=256 & <=2048 & math.MultipleOf(8)
//	}
func (s *Spec) CUE() string {
	var b strings.Builder
	for _, f := range s.fields {
		if f.Step != 0 {
			b.WriteString("import \"math\"\n\n")
			break
		}
	}

	fmt.Fprintf(&b, "%s: {\n", CUEDefinition)
	for _, f := range s.fields {
		if f.Description != "" {
			for _, line := range strings.Split(f.Description, "\n") {
				fmt.Fprintf(&b, "\t// %s\n", line)
			}
		}
		marker := "?"
		if f.Required {
			marker = "!"
		}
		fmt.Fprintf(&b, "\t%s%s: %s\n", cueLabel(f.Name), marker, cueConstraint(f))
	}
	b.WriteString("}\n")
	return b.String()
}

func cueLabel(name string) string {
	if cueIdent.MatchString(name) {
		return name
	}
	return strconv.Quote(name)
}

func cueConstraint(f Field) string {
	var def string
	if f.Default != nil {
		def = "*" + cueLiteral(f.Default)
	}

	if f.Kind == KindEnum {
		parts := make([]string, 0, len(f.Allowed)+1)
		if def != "" {
			parts = append(parts, def)
		}
		for _, c := range f.Allowed {
			if ir.String(c) == f.Default {
				continue
			}
			parts = append(parts, strconv.Quote(c))
		}
		return strings.Join(parts, " | ")
	}

	terms := []string{cueType(f.Kind)}
	if f.Min != nil {
		terms = append(terms, ">="+formatBound(*f.Min))
	}
	if f.Max != nil {
		terms = append(terms, "<="+formatBound(*f.Max))
	}
	if f.Step != 0 {
		terms = append(terms, "math.MultipleOf("+formatBound(f.Step)+")")
	}
	expr := strings.Join(terms, " & ")
	if def != "" {
		return def + " | " + expr
	}
	return expr
}

func cueType(k Kind) string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "string"
	}
}

func cueLiteral(v ir.Value) string {
	switch val := v.(type) {
	case ir.String:
		return strconv.Quote(string(val))
	case ir.Int:
		return strconv.FormatInt(int64(val), 10)
	case ir.Float:
		return formatBound(float64(val))
	case ir.Bool:
		return strconv.FormatBool(bool(val))
	}
	return "_"
}

// CheckCUE validates raw through the CUE evaluator using the definition
// rendered by CUE. It is a preview: Validate remains authoritative.
func (s *Spec) CheckCUE(raw map[string]any) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(s.CUE(), cue.Filename("input.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath(CUEDefinition))

	data := make(map[string]any, len(raw))
	for name, rv := range raw {
		if rv == nil {
			continue
		}
		v, err := ir.FromAny(rv)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if f, ok := s.Field(name); ok {
			if c, ok := coerce(f.Kind, v); ok {
				v = c
			}
		}
		data[name] = plain(v)
	}

	unified := def.Unify(ctx.Encode(data))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("cue check: %s", strings.Join(cueMessages(err), "; "))
	}
	return nil
}

func cueMessages(err error) []string {
	errs := errors.Errors(err)
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	if len(msgs) == 0 {
		msgs = append(msgs, err.Error())
	}
	return msgs
}
