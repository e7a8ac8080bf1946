package debugview

import (
	"slices"
	"strings"
)

const noFieldMarker = "nofield"

// parseProperty decomposes a property descriptor such as
//
//	Name (_name, string) Required MaxLength(50) Ansi
//
// It reports false when the line has no type group.
func parseProperty(entity, text string) (PropertyNode, bool) {
	normalized := strings.ReplaceAll(text, "(no field, ", "("+noFieldMarker+",")
	normalized = strings.ReplaceAll(normalized, ", ", ",")
	tokens := strings.Fields(normalized)
	if len(tokens) < 2 {
		return PropertyNode{}, false
	}

	field, typ := splitFieldAndType(tokens[1])
	flags := tokens[2:]
	has := func(flag string) bool { return slices.Contains(flags, flag) }

	p := PropertyNode{
		Entity:             entity,
		Name:               tokens[0],
		Type:               typ,
		Field:              field,
		MaxLength:          noneValue,
		ValueGenerated:     noneValue,
		AccessMode:         accessModeOf(flags),
		BeforeSave:         saveBehaviorOf(flags, "BeforeSave:"),
		AfterSave:          saveBehaviorOf(flags, "AfterSave:"),
		IsPrimaryKey:       has("PK"),
		IsForeignKey:       has("FK"),
		IsRequired:         has("Required"),
		IsIndexed:          has("Index"),
		IsShadow:           has("Shadow"),
		IsAlternateKey:     has("AlternateKey"),
		IsConcurrencyToken: has("Concurrency"),
		IsUnicode:          !has("Ansi"),
	}
	p.Category = categoryOf(p.IsPrimaryKey, p.IsForeignKey, p.IsRequired)

	for _, t := range flags {
		if bound, ok := strings.CutPrefix(t, "MaxLength"); ok {
			if bound = strings.Trim(bound, "():"); bound != "" {
				p.MaxLength = bound
			}
		}
		if strings.HasPrefix(t, "ValueGenerated.") {
			p.ValueGenerated = t
		}
	}
	return p, true
}

// splitFieldAndType splits "(field,type)" on its first top-level comma.
// Without a comma the whole group is the type.
func splitFieldAndType(group string) (field, typ string) {
	group = strings.TrimSuffix(strings.TrimPrefix(group, "("), ")")
	nesting := 0
	for i, r := range group {
		switch r {
		case '<', '[':
			nesting++
		case '>', ']':
			nesting--
		case ',':
			if nesting == 0 {
				return group[:i], group[i+1:]
			}
		}
	}
	return "", group
}

// parseNavigation decomposes a navigation descriptor such as
//
//	Quotes (<Quotes>k__BackingField, List<Quote>) Collection ToDependent Quote Inverse: Samurai
//
// The field may be omitted: "Horse (Horse) ToDependent Horse".
func parseNavigation(entity, text string) (NavigationNode, bool) {
	tokens := strings.Fields(text)
	if len(tokens) < 3 {
		return NavigationNode{}, false
	}

	field := strings.TrimRight(strings.TrimPrefix(tokens[1], "("), ",)")
	typ := strings.TrimSuffix(tokens[2], ")")
	if !strings.HasSuffix(tokens[2], ")") {
		typ, field = field, ""
	}

	flags := tokens[2:]
	n := NavigationNode{
		Entity:       entity,
		Name:         tokens[0],
		Field:        field,
		IsCollection: slices.Contains(flags, "Collection"),
		Dependent:    tokenAfter(flags, "ToDependent"),
		Principal:    tokenAfter(flags, "ToPrincipal"),
		Inverse:      tokenAfter(flags, "Inverse:"),
		AccessMode:   accessModeOf(flags),
	}
	n.Type = typ
	if n.IsCollection {
		n.Type = elementType(typ)
	}
	return n, true
}

// elementType unwraps a generic collection type: "List<Quote>" yields "Quote".
func elementType(typ string) string {
	open := strings.IndexByte(typ, '<')
	if open < 0 || !strings.HasSuffix(typ, ">") {
		return typ
	}
	return typ[open+1 : len(typ)-1]
}

// parseForeignKey decomposes a foreign key descriptor such as
//
//	OrderLine {'OrderId', 'LineNo'} -> Order {'Id', 'LineNo'} Unique ToPrincipal: Order Cascade
func parseForeignKey(text string) (ForeignKeyLink, bool) {
	normalized := strings.ReplaceAll(text, "', '", ",")
	normalized = strings.ReplaceAll(normalized, " (Dictionary<string, object>)", "")
	tokens := strings.Fields(normalized)
	if len(tokens) < 5 {
		return ForeignKeyLink{}, false
	}
	for i, t := range tokens {
		t = strings.TrimPrefix(t, "{'")
		if end := strings.Index(t, "'}"); end >= 0 {
			t = t[:end]
		}
		tokens[i] = t
	}

	return ForeignKeyLink{
		Source:        tokens[0],
		SourceColumns: strings.Split(tokens[1], ","),
		Target:        tokens[3],
		TargetColumns: strings.Split(tokens[4], ","),
		IsUnique:      slices.Contains(tokens[5:], "Unique"),
	}, true
}

// parseEntityHeader extracts the entity name and metadata from a header line.
// Only the name is read when withMetadata is false.
func parseEntityHeader(text string, withMetadata bool) EntityNode {
	tokens := strings.Fields(text)
	e := EntityNode{ChangeTracking: defaultChangeTracking}
	if len(tokens) > 1 {
		e.Name = tokens[1]
	}
	if !withMetadata {
		return e
	}
	for i, t := range tokens {
		switch {
		case t == "Abstract":
			e.IsAbstract = true
		case t == "Base:" && i+1 < len(tokens):
			e.BaseClass = tokens[i+1]
		case strings.HasPrefix(t, changeTrackingPrefix):
			e.ChangeTracking = t
		}
	}
	return e
}

func tokenAfter(tokens []string, marker string) string {
	i := slices.Index(tokens, marker)
	if i < 0 || i+1 >= len(tokens) {
		return ""
	}
	return tokens[i+1]
}
