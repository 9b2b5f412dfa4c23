package schema

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

type Section string

const (
	SectionTypes     Section = "types"
	SectionFunctions Section = "functions"
)

// TypeKind classifies a parameter type by how it is laid out on the wire.
type TypeKind int

const (
	TypeInt TypeKind = iota
	TypeLong
	TypeDouble
	TypeInt128
	TypeInt256
	TypeString
	TypeBytes
	TypeBool
	// TypeTrue is the zero-width `true` type used for flag-only booleans.
	TypeTrue
	// TypeFlags is a `#` bitmask.
	TypeFlags
	// TypeVector is boxed Vector<T>.
	TypeVector
	// TypeBareVector is vector<T>, a count and elements without identifier.
	TypeBareVector
	// TypeBare is a constructor written without its identifier: a lowercase
	// constructor name or %Type.
	TypeBare
	// TypeBoxed is any boxed value, including generic !X parameters.
	TypeBoxed
)

var primitiveTypes = map[string]TypeKind{
	"int":    TypeInt,
	"long":   TypeLong,
	"double": TypeDouble,
	"int128": TypeInt128,
	"int256": TypeInt256,
	"string": TypeString,
	"bytes":  TypeBytes,
	"Bool":   TypeBool,
	"true":   TypeTrue,
	"#":      TypeFlags,
}

// Type is a parsed parameter type.
type Type struct {
	Kind TypeKind
	// Name is the TL spelling for bare and boxed types ("future_salt",
	// "%Message", "!X", "InputPeer").
	Name string
	// Elem is the element type of vectors.
	Elem *Type
}

func (t *Type) String() string {
	switch t.Kind {
	case TypeVector:
		return "Vector<" + t.Elem.String() + ">"
	case TypeBareVector:
		return "vector<" + t.Elem.String() + ">"
	case TypeBare, TypeBoxed:
		return t.Name
	}
	for name, kind := range primitiveTypes {
		if kind == t.Kind {
			return name
		}
	}
	return "?"
}

// Param is one combinator argument.
type Param struct {
	Name string
	Type *Type
	// FlagField names the `#` parameter gating this one; empty when the
	// parameter is always present.
	FlagField string
	FlagBit   int
}

func (p Param) Optional() bool { return p.FlagField != "" }

// Combinator is one `name#id params = Result;` declaration.
type Combinator struct {
	Name    string
	ID      uint32
	Params  []Param
	Result  string
	Section Section
	Line    int
}

// Schema is a parsed TL schema.
type Schema struct {
	Layer       int
	Combinators []*Combinator

	byName map[string]*Combinator
	byID   map[uint32]*Combinator
}

// ParseError reports a combinator line the parser could not accept.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("schema: line %d: %s: %q", e.Line, e.Reason, e.Text)
}

var (
	sectionRE    = regexp.MustCompile(`^---(\w+)---$`)
	layerRE      = regexp.MustCompile(`^//\s*LAYER\s+(\d+)`)
	combinatorRE = regexp.MustCompile(`^([A-Za-z_][\w.]*)#([0-9a-fA-F]{1,8})((?:\s+\S+)*?)\s*=\s*([\w.<>%]+)\s*;$`)
	flagRE       = regexp.MustCompile(`^(\w+)\.(\d+)\?(.+)$`)
	identRE      = regexp.MustCompile(`^[A-Za-z_]\w*$`)
	typeNameRE   = regexp.MustCompile(`^[A-Za-z_][\w.]*$`)
)

func ParseFile(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("schema: open %s: %w", path, err)
	}
	defer f.Close()
	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("schema: %s: %w", path, err)
	}
	return s, nil
}

// Parse reads TL schema text. Declarations without an explicit #id, and
// built-in declarations whose result is not a plain type name (such as the
// vector definition), are skipped.
func Parse(r io.Reader) (*Schema, error) {
	s := &Schema{
		byName: make(map[string]*Combinator),
		byID:   make(map[uint32]*Combinator),
	}
	section := SectionTypes
	skipped := 0

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if m := layerRE.FindStringSubmatch(line); m != nil {
			s.Layer, _ = strconv.Atoi(m[1])
			continue
		}
		if i := strings.Index(line, "//"); i >= 0 {
			line = strings.TrimSpace(line[:i])
			if line == "" {
				continue
			}
		}
		if m := sectionRE.FindStringSubmatch(line); m != nil {
			switch Section(m[1]) {
			case SectionTypes, SectionFunctions:
				section = Section(m[1])
			default:
				return nil, &ParseError{Line: lineNo, Text: line, Reason: "unknown section"}
			}
			continue
		}
		head, _, _ := strings.Cut(line, " ")
		if !strings.Contains(head, "#") || strings.Contains(line, "[") {
			skipped++
			continue
		}

		c, err := parseCombinator(line, lineNo, section)
		if err != nil {
			return nil, err
		}
		if prev, ok := s.byID[c.ID]; ok {
			return nil, &ParseError{Line: lineNo, Text: line, Reason: fmt.Sprintf("id %#08x already declared by %s on line %d", c.ID, prev.Name, prev.Line)}
		}
		if prev, ok := s.byName[c.Name]; ok {
			return nil, &ParseError{Line: lineNo, Text: line, Reason: fmt.Sprintf("%s already declared on line %d", c.Name, prev.Line)}
		}
		s.byID[c.ID] = c
		s.byName[c.Name] = c
		s.Combinators = append(s.Combinators, c)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("schema: read: %w", err)
	}
	log.Debug().
		Int("layer", s.Layer).
		Int("combinators", len(s.Combinators)).
		Int("skipped", skipped).
		Msg("schema.Parse done")
	return s, nil
}

func parseCombinator(line string, lineNo int, section Section) (*Combinator, error) {
	fail := func(reason string) error {
		return &ParseError{Line: lineNo, Text: line, Reason: reason}
	}
	m := combinatorRE.FindStringSubmatch(line)
	if m == nil {
		return nil, fail("malformed combinator")
	}
	id, err := strconv.ParseUint(m[2], 16, 32)
	if err != nil {
		return nil, fail("invalid constructor id")
	}
	c := &Combinator{
		Name:    m[1],
		ID:      uint32(id),
		Result:  m[4],
		Section: section,
		Line:    lineNo,
	}

	generics := map[string]bool{}
	flagFields := map[string]bool{}
	for _, tok := range strings.Fields(m[3]) {
		if strings.HasPrefix(tok, "{") {
			name, kind, ok := strings.Cut(strings.Trim(tok, "{}"), ":")
			if !ok || !identRE.MatchString(name) || kind != "Type" {
				return nil, fail("malformed generic " + tok)
			}
			generics[name] = true
			continue
		}
		name, raw, ok := strings.Cut(tok, ":")
		if !ok || !identRE.MatchString(name) {
			return nil, fail("malformed parameter " + tok)
		}
		p := Param{Name: name, FlagBit: -1}
		if fm := flagRE.FindStringSubmatch(raw); fm != nil {
			if !flagFields[fm[1]] {
				return nil, fail(fmt.Sprintf("%s is gated by %s, which is not an earlier # parameter", name, fm[1]))
			}
			bit, err := strconv.Atoi(fm[2])
			if err != nil || bit > 31 {
				return nil, fail("flag bit out of range in " + tok)
			}
			p.FlagField, p.FlagBit = fm[1], bit
			raw = fm[3]
		}
		t, err := parseType(raw, generics)
		if err != nil {
			return nil, fail(err.Error())
		}
		if t.Kind == TypeFlags {
			if p.Optional() {
				return nil, fail("conditional # parameter " + name)
			}
			flagFields[name] = true
		}
		p.Type = t
		c.Params = append(c.Params, p)
	}
	return c, nil
}

func parseType(raw string, generics map[string]bool) (*Type, error) {
	if kind, ok := primitiveTypes[raw]; ok {
		return &Type{Kind: kind, Name: raw}, nil
	}
	for prefix, kind := range map[string]TypeKind{"Vector<": TypeVector, "vector<": TypeBareVector} {
		if strings.HasPrefix(raw, prefix) {
			if !strings.HasSuffix(raw, ">") {
				return nil, fmt.Errorf("unterminated %s", raw)
			}
			elem, err := parseType(raw[len(prefix):len(raw)-1], generics)
			if err != nil {
				return nil, err
			}
			if elem.Kind == TypeFlags || elem.Kind == TypeTrue {
				return nil, fmt.Errorf("invalid vector element %s", raw)
			}
			return &Type{Kind: kind, Name: raw, Elem: elem}, nil
		}
	}
	if strings.HasPrefix(raw, "!") {
		if !generics[raw[1:]] {
			return nil, fmt.Errorf("undeclared generic %s", raw)
		}
		return &Type{Kind: TypeBoxed, Name: raw}, nil
	}
	if strings.HasPrefix(raw, "%") {
		if !typeNameRE.MatchString(raw[1:]) {
			return nil, fmt.Errorf("malformed bare type %s", raw)
		}
		return &Type{Kind: TypeBare, Name: raw}, nil
	}
	if !typeNameRE.MatchString(raw) {
		return nil, fmt.Errorf("malformed type %s", raw)
	}
	if isBareName(raw) && !generics[raw] {
		return &Type{Kind: TypeBare, Name: raw}, nil
	}
	return &Type{Kind: TypeBoxed, Name: raw}, nil
}

// isBareName reports whether a type name refers to a constructor (lowercase
// after any namespace) rather than a boxed type.
func isBareName(name string) bool {
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name != "" && name[0] >= 'a' && name[0] <= 'z'
}

func (s *Schema) Lookup(name string) (*Combinator, bool) {
	c, ok := s.byName[name]
	return c, ok
}

func (s *Schema) ByID(id uint32) (*Combinator, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// Constructors returns the types-section combinators producing result.
func (s *Schema) Constructors(result string) []*Combinator {
	var out []*Combinator
	for _, c := range s.Combinators {
		if c.Section == SectionTypes && c.Result == result {
			out = append(out, c)
		}
	}
	return out
}
