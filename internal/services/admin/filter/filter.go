// Package filter translates AIP-160 filter expressions and AIP-132 orderings
// over public field names into parameterised SQL fragments.
package filter

import (
	"fmt"
	"strings"

	"go.einride.tech/aip/filtering"
	"go.einride.tech/aip/ordering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// FieldType describes a supported filter field type.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldInt    FieldType = "int"
	FieldDouble FieldType = "double"
	FieldBool   FieldType = "bool"
)

// Field maps a public field name onto a SQL expression.
type Field struct {
	// Column is the SQL column or aggregate alias.
	Column string
	Type   FieldType
	// NoFilter keeps the field out of filter declarations, for aggregate
	// aliases that are only valid in ORDER BY.
	NoFilter bool
}

// Fields defines the filterable and sortable fields of one changelist.
type Fields map[string]Field

// Condition represents a SQL WHERE clause fragment with parameters.
type Condition struct {
	// Clause is the SQL WHERE clause (e.g., "h.is_immortal = ?").
	Clause string
	// Params are the positional parameters for the clause.
	Params []any
}

// Empty reports whether the condition selects everything.
func (c Condition) Empty() bool {
	return strings.TrimSpace(c.Clause) == ""
}

// Where renders the condition as a WHERE clause, or "" when empty.
func (c Condition) Where() string {
	if c.Empty() {
		return ""
	}
	return " WHERE " + c.Clause
}

// And joins non-empty conditions with AND.
func And(conditions ...Condition) Condition {
	var clauses []string
	var params []any
	for _, c := range conditions {
		if c.Empty() {
			continue
		}
		clauses = append(clauses, "("+c.Clause+")")
		params = append(params, c.Params...)
	}
	if len(clauses) == 0 {
		return Condition{}
	}
	return Condition{Clause: strings.Join(clauses, " AND "), Params: params}
}

// Not negates a condition. Negating an empty condition stays empty.
func Not(c Condition) Condition {
	if c.Empty() {
		return c
	}
	return Condition{Clause: "NOT (" + c.Clause + ")", Params: c.Params}
}

// In restricts column to ids. An empty id list yields an empty condition.
func In(column string, ids []int64) Condition {
	if len(ids) == 0 {
		return Condition{}
	}
	marks := make([]string, len(ids))
	params := make([]any, len(ids))
	for i, id := range ids {
		marks[i] = "?"
		params[i] = id
	}
	return Condition{
		Clause: fmt.Sprintf("%s IN (%s)", column, strings.Join(marks, ", ")),
		Params: params,
	}
}

// Contains matches column case-insensitively against a substring.
func Contains(column string, term string) Condition {
	term = strings.TrimSpace(term)
	if term == "" {
		return Condition{}
	}
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(term))
	return Condition{
		Clause: fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, column),
		Params: []any{"%" + escaped + "%"},
	}
}

var comparisonOps = map[string]string{
	"=":  "=",
	"!=": "!=",
	"<":  "<",
	"<=": "<=",
	">":  ">",
	">=": ">=",
}

// Compare builds a single comparison on a public field name.
func Compare(fields Fields, name string, op string, value any) (Condition, error) {
	field, ok := fields[name]
	if !ok || field.NoFilter {
		return Condition{}, fmt.Errorf("unknown field: %s", name)
	}
	sqlOp, ok := comparisonOps[op]
	if !ok {
		return Condition{}, fmt.Errorf("unsupported operator: %s", op)
	}
	if value == nil {
		switch sqlOp {
		case "=":
			return Condition{Clause: field.Column + " IS NULL"}, nil
		case "!=":
			return Condition{Clause: field.Column + " IS NOT NULL"}, nil
		default:
			return Condition{}, fmt.Errorf("operator %s does not accept null", op)
		}
	}
	return Condition{
		Clause: fmt.Sprintf("%s %s ?", field.Column, sqlOp),
		Params: []any{normalizeValue(value)},
	}, nil
}

// Parse parses an AIP-160 filter expression and returns a SQL condition.
// Returns an empty condition for an empty filter string.
func Parse(filterStr string, fields Fields) (Condition, error) {
	if strings.TrimSpace(filterStr) == "" {
		return Condition{}, nil
	}

	decls, err := declarations(fields)
	if err != nil {
		return Condition{}, fmt.Errorf("create declarations: %w", err)
	}

	parsed, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return Condition{}, fmt.Errorf("parse filter: %w", err)
	}

	t := translator{fields: fields}
	return t.expr(parsed.CheckedExpr.GetExpr())
}

// OrderBy parses an AIP-132 ordering and renders the SQL ORDER BY list.
// fallback is used when orderBy is empty.
func OrderBy(orderBy string, fields Fields, fallback string) (string, error) {
	if strings.TrimSpace(orderBy) == "" {
		return fallback, nil
	}
	var parsed ordering.OrderBy
	if err := parsed.UnmarshalString(orderBy); err != nil {
		return "", fmt.Errorf("parse order_by: %w", err)
	}
	parts := make([]string, 0, len(parsed.Fields)+1)
	for _, f := range parsed.Fields {
		field, ok := fields[f.Path]
		if !ok {
			return "", fmt.Errorf("unknown order field: %s", f.Path)
		}
		direction := "ASC"
		if f.Desc {
			direction = "DESC"
		}
		parts = append(parts, field.Column+" "+direction)
	}
	if fallback != "" {
		parts = append(parts, fallback)
	}
	return strings.Join(parts, ", "), nil
}

func declarations(fields Fields) (*filtering.Declarations, error) {
	decls := []filtering.DeclarationOption{filtering.DeclareStandardFunctions()}
	for name, field := range fields {
		if field.NoFilter {
			continue
		}
		switch field.Type {
		case FieldString:
			decls = append(decls, filtering.DeclareIdent(name, filtering.TypeString))
		case FieldInt:
			decls = append(decls, filtering.DeclareIdent(name, filtering.TypeInt))
		case FieldDouble:
			decls = append(decls, filtering.DeclareIdent(name, filtering.TypeFloat))
		case FieldBool:
			decls = append(decls, filtering.DeclareIdent(name, filtering.TypeBool))
		default:
			return nil, fmt.Errorf("unsupported field type for %s", name)
		}
	}
	return filtering.NewDeclarations(decls...)
}

type translator struct {
	fields Fields
}

func (t translator) expr(e *expr.Expr) (Condition, error) {
	if e == nil {
		return Condition{}, nil
	}
	switch kind := e.ExprKind.(type) {
	case *expr.Expr_CallExpr:
		return t.call(kind.CallExpr)
	default:
		return Condition{}, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

func (t translator) call(call *expr.Expr_Call) (Condition, error) {
	switch call.GetFunction() {
	case "AND", "_&&_":
		return t.binary(call.GetArgs(), "AND")
	case "OR", "_||_":
		return t.binary(call.GetArgs(), "OR")
	case "NOT", "-":
		if len(call.GetArgs()) != 1 {
			return Condition{}, fmt.Errorf("NOT requires 1 argument")
		}
		inner, err := t.expr(call.GetArgs()[0])
		if err != nil {
			return Condition{}, err
		}
		return Not(inner), nil
	case "=", "!=", "<", "<=", ">", ">=":
		return t.comparison(call.GetArgs(), call.GetFunction())
	default:
		return Condition{}, fmt.Errorf("unsupported function: %s", call.GetFunction())
	}
}

func (t translator) binary(args []*expr.Expr, op string) (Condition, error) {
	if len(args) != 2 {
		return Condition{}, fmt.Errorf("%s requires 2 arguments", op)
	}
	left, err := t.expr(args[0])
	if err != nil {
		return Condition{}, err
	}
	right, err := t.expr(args[1])
	if err != nil {
		return Condition{}, err
	}
	return Condition{
		Clause: fmt.Sprintf("(%s %s %s)", left.Clause, op, right.Clause),
		Params: append(append([]any{}, left.Params...), right.Params...),
	}, nil
}

func (t translator) comparison(args []*expr.Expr, op string) (Condition, error) {
	if len(args) != 2 {
		return Condition{}, fmt.Errorf("comparison requires 2 arguments")
	}
	ident, ok := args[0].ExprKind.(*expr.Expr_IdentExpr)
	if !ok {
		return Condition{}, fmt.Errorf("expected identifier, got %T", args[0].ExprKind)
	}
	value, err := constValue(args[1])
	if err != nil {
		return Condition{}, err
	}
	return Compare(t.fields, ident.IdentExpr.GetName(), op, value)
}

func constValue(e *expr.Expr) (any, error) {
	if e == nil {
		return nil, fmt.Errorf("nil expression")
	}
	switch kind := e.ExprKind.(type) {
	case *expr.Expr_ConstExpr:
		switch c := kind.ConstExpr.ConstantKind.(type) {
		case *expr.Constant_StringValue:
			return c.StringValue, nil
		case *expr.Constant_Int64Value:
			return c.Int64Value, nil
		case *expr.Constant_Uint64Value:
			return int64(c.Uint64Value), nil
		case *expr.Constant_DoubleValue:
			return c.DoubleValue, nil
		case *expr.Constant_BoolValue:
			return c.BoolValue, nil
		default:
			return nil, fmt.Errorf("unsupported constant type: %T", c)
		}
	case *expr.Expr_IdentExpr:
		// Bare true/false may surface as identifiers depending on declarations.
		switch kind.IdentExpr.GetName() {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("expected constant, got identifier %s", kind.IdentExpr.GetName())
	default:
		return nil, fmt.Errorf("expected constant, got %T", kind)
	}
}

// normalizeValue stores booleans the way SQLite columns hold them.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	case int:
		return int64(v)
	default:
		return value
	}
}
