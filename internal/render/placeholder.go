package render

import (
	"regexp"
	"sort"
	"strings"

	"github.com/zoobzio/dataset/internal/types"
)

// placeholderAppend substitutes literal values into a template. Named
// templates replace :key tokens; positional templates replace each ? in
// order, rendering NULL when arguments run out.
func (r *Renderer) placeholderAppend(sql *strings.Builder, p types.PlaceholderLiteral) error {
	if p.Parens {
		sql.WriteByte('(')
	}
	var err error
	if p.Named != nil {
		err = r.namedPlaceholderAppend(sql, p.Template, p.Named)
	} else {
		err = r.positionalPlaceholderAppend(sql, p.Template, p.Args)
	}
	if err != nil {
		return err
	}
	if p.Parens {
		sql.WriteByte(')')
	}
	return nil
}

func (r *Renderer) positionalPlaceholderAppend(sql *strings.Builder, tmpl string, args []any) error {
	segments := strings.Split(tmpl, "?")
	for i, seg := range segments {
		sql.WriteString(seg)
		if i == len(segments)-1 {
			break
		}
		var v any
		if i < len(args) {
			v = args[i]
		}
		if err := r.literalAppend(sql, v); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) namedPlaceholderAppend(sql *strings.Builder, tmpl string, named map[string]any) error {
	if len(named) == 0 {
		sql.WriteString(tmpl)
		return nil
	}
	re := namedPattern(named)
	last := 0
	for _, m := range re.FindAllStringSubmatchIndex(tmpl, -1) {
		sql.WriteString(tmpl[last:m[0]])
		if err := r.literalAppend(sql, named[tmpl[m[2]:m[3]]]); err != nil {
			return err
		}
		last = m[1]
	}
	sql.WriteString(tmpl[last:])
	return nil
}

// namedPattern matches :key for every key, longest keys first so that no key
// is matched as the prefix of another.
func namedPattern(named map[string]any) *regexp.Regexp {
	keys := make([]string, 0, len(named))
	for k := range named {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for i, k := range keys {
		keys[i] = regexp.QuoteMeta(k)
	}
	return regexp.MustCompile(`:(` + strings.Join(keys, "|") + `)\b`)
}
