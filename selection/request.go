package selection

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dolmen-go/jsonmap"
)

// WireDocument is a GraphQL request body ready to be sent.
type WireDocument struct {
	Query string
	// Operation is "query" or "mutation".
	Operation     string
	OperationName string
	// Variables is nil unless the document was built with UseVariables.
	Variables *jsonmap.Ordered
}

// MarshalJSON encodes the document as {"query", "operationName",
// "variables"}, omitting the members that are not set.
func (d WireDocument) MarshalJSON() ([]byte, error) {
	body := jsonmap.Ordered{Data: map[string]any{"query": d.Query}, Order: []string{"query"}}
	if d.OperationName != "" {
		body.Data["operationName"] = d.OperationName
		body.Order = append(body.Order, "operationName")
	}
	if d.Variables != nil {
		body.Data["variables"] = d.Variables
		body.Order = append(body.Order, "variables")
	}
	return json.Marshal(&body)
}

// BuildOptions configures Build.
type BuildOptions struct {
	UseVariables  bool
	OperationName string
}

// BuildOption configures Build.
type BuildOption func(*BuildOptions)

// UseVariables moves argument values out of the query text into the
// variables payload.
func UseVariables() BuildOption {
	return func(o *BuildOptions) { o.UseVariables = true }
}

// OperationName names the operation.
func OperationName(name string) BuildOption {
	return func(o *BuildOptions) { o.OperationName = name }
}

type variable struct {
	name  string
	typ   string
	deflt string
}

type builder struct {
	opts BuildOptions
	b    strings.Builder
	vars []variable
	used map[string]bool
	data *jsonmap.Ordered
}

// Build renders s as a document on the operation root O.
func Build[O Root, A any](s Selection[O, A], opts ...BuildOption) (WireDocument, error) {
	var o BuildOptions
	for _, opt := range opts {
		opt(&o)
	}
	if s.err != nil {
		return WireDocument{}, s.err
	}
	if len(s.nodes) == 0 {
		return WireDocument{}, errEmptySelection
	}
	if o.OperationName != "" && !nameRe.MatchString(o.OperationName) {
		return WireDocument{}, fmt.Errorf("selection: invalid operation name %q", o.OperationName)
	}

	var root O
	op := "query"
	if _, ok := any(root).(RootMutation); ok {
		op = "mutation"
	}

	bld := &builder{opts: o, used: map[string]bool{}}
	if o.UseVariables {
		bld.data = &jsonmap.Ordered{Data: map[string]any{}, Order: []string{}}
	}
	if err := bld.selectionSet(s.nodes); err != nil {
		return WireDocument{}, err
	}
	if err := checkConflicts(s.nodes); err != nil {
		return WireDocument{}, err
	}

	var q strings.Builder
	q.WriteString(op)
	if o.OperationName != "" {
		q.WriteByte(' ')
		q.WriteString(o.OperationName)
	}
	if len(bld.vars) > 0 {
		q.WriteByte('(')
		for i, v := range bld.vars {
			if i > 0 {
				q.WriteByte(',')
			}
			q.WriteByte('$')
			q.WriteString(v.name)
			q.WriteByte(':')
			q.WriteString(v.typ)
			if v.deflt != "" {
				q.WriteByte('=')
				q.WriteString(v.deflt)
			}
		}
		q.WriteByte(')')
	}
	q.WriteString(bld.b.String())

	return WireDocument{
		Query:         q.String(),
		Operation:     op,
		OperationName: o.OperationName,
		Variables:     bld.data,
	}, nil
}

func (bld *builder) selectionSet(nodes []*node) error {
	bld.b.WriteByte('{')
	for i, n := range nodes {
		if i > 0 {
			bld.b.WriteByte(' ')
		}
		if n.typeCondition != "" {
			bld.b.WriteString("... on ")
			bld.b.WriteString(n.typeCondition)
			if err := bld.selectionSet(n.children); err != nil {
				return err
			}
			continue
		}
		if n.alias != "" {
			bld.b.WriteString(n.alias)
			bld.b.WriteByte(':')
		}
		bld.b.WriteString(n.name)
		if err := bld.arguments(n.args); err != nil {
			return fmt.Errorf("field %s: %w", n.key(), err)
		}
		if len(n.children) > 0 {
			if err := bld.selectionSet(n.children); err != nil {
				return err
			}
		}
	}
	bld.b.WriteByte('}')
	return nil
}

func (bld *builder) arguments(args []Argument) error {
	wrote := false
	for _, arg := range args {
		t, err := parseType(arg.Type)
		if err != nil {
			return err
		}
		var v any
		if indirect(arg.Value) != nil || arg.Default == "" {
			enc := &encoder{arg: arg.Name, literal: !bld.opts.UseVariables}
			if v, err = enc.normalize("", t, arg.Value); err != nil {
				return err
			}
		}
		if v == nil && arg.Default == "" {
			continue
		}
		if !bld.opts.UseVariables {
			lit := arg.Default
			if v != nil {
				var sb strings.Builder
				renderLiteral(&sb, v)
				lit = sb.String()
			}
			bld.writeArg(&wrote, arg.Name, lit)
			continue
		}

		vr := variable{name: bld.varName(arg.Name), typ: t.String()}
		if v == nil {
			// A variable with a default may be omitted, so it is declared
			// nullable even where the argument is not.
			nullable := *t
			nullable.nonNull = false
			vr.typ = nullable.String()
			vr.deflt = arg.Default
		} else {
			bld.data.Data[vr.name] = v
			bld.data.Order = append(bld.data.Order, vr.name)
		}
		bld.vars = append(bld.vars, vr)
		bld.writeArg(&wrote, arg.Name, "$"+vr.name)
	}
	if wrote {
		bld.b.WriteByte(')')
	}
	return nil
}

func (bld *builder) writeArg(wrote *bool, name, value string) {
	if *wrote {
		bld.b.WriteByte(',')
	} else {
		bld.b.WriteByte('(')
		*wrote = true
	}
	bld.b.WriteString(name)
	bld.b.WriteByte(':')
	bld.b.WriteString(value)
}

func (bld *builder) varName(base string) string {
	name := base
	for i := 1; bld.used[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	bld.used[name] = true
	return name
}

// FieldConflictError reports two fields of one selection set that answer to
// the same response key but differ in field name or arguments. The server
// rejects such a document, and both would decode from the same member.
type FieldConflictError struct {
	Key    string
	First  string
	Second string
}

func (e *FieldConflictError) Error() string {
	return fmt.Sprintf("selection: fields %s and %s both answer to %q; alias one with WithAlias", e.First, e.Second, e.Key)
}

// checkConflicts walks the selection sets of nodes the way the server merges
// them: fields sharing a key are merged and their children checked together,
// and each inline fragment is checked along with the fields around it.
func checkConflicts(nodes []*node) error {
	var fields, fragments []*node
	for _, n := range nodes {
		if n.typeCondition != "" {
			fragments = append(fragments, n)
		} else {
			fields = append(fields, n)
		}
	}

	var keys []string
	groups := map[string][]*node{}
	for _, n := range fields {
		k := n.key()
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], n)
	}
	for _, k := range keys {
		group := groups[k]
		first, err := fieldSignature(group[0])
		if err != nil {
			return err
		}
		var children []*node
		for _, n := range group {
			sig, err := fieldSignature(n)
			if err != nil {
				return err
			}
			if sig != first {
				return &FieldConflictError{Key: k, First: first, Second: sig}
			}
			children = append(children, n.children...)
		}
		if err := checkConflicts(children); err != nil {
			return err
		}
	}

	for _, f := range fragments {
		merged := make([]*node, 0, len(fields)+len(f.children))
		merged = append(merged, fields...)
		merged = append(merged, f.children...)
		if err := checkConflicts(merged); err != nil {
			return err
		}
	}
	return nil
}

// fieldSignature renders the field name and its arguments as literals,
// sorted by argument name.
func fieldSignature(n *node) (string, error) {
	args := make([]string, 0, len(n.args))
	for _, arg := range n.args {
		t, err := parseType(arg.Type)
		if err != nil {
			return "", err
		}
		lit := arg.Default
		if indirect(arg.Value) != nil || arg.Default == "" {
			v, err := (&encoder{arg: arg.Name}).normalize("", t, arg.Value)
			if err != nil {
				return "", err
			}
			if v == nil && arg.Default == "" {
				continue
			}
			if v != nil {
				var sb strings.Builder
				renderLiteral(&sb, v)
				lit = sb.String()
			}
		}
		args = append(args, arg.Name+":"+lit)
	}
	if len(args) == 0 {
		return n.name, nil
	}
	sort.Strings(args)
	return n.name + "(" + strings.Join(args, ",") + ")", nil
}
