package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// compiler accumulates SQL text and positional ($n) arguments.
type compiler struct {
	buf  strings.Builder
	args []any
}

func (c *compiler) bind(value any) {
	c.args = append(c.args, value)
	c.buf.WriteString("$")
	c.buf.WriteString(strconv.Itoa(len(c.args)))
}

// expand rewrites each '?' in expr to the next positional placeholder.
func (c *compiler) expand(expr string, values []any) {
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] != '?' || next >= len(values) {
			c.buf.WriteByte(expr[i])
			continue
		}
		c.bind(values[next])
		next++
	}
}

type Condition interface {
	build(c *compiler)
}

type compareCondition struct {
	column string
	op     string
	value  any
}

func (cond compareCondition) build(c *compiler) {
	c.buf.WriteString(cond.column)
	c.buf.WriteString(" ")
	c.buf.WriteString(cond.op)
	c.buf.WriteString(" ")
	c.bind(cond.value)
}

func Eq(column string, value any) Condition  { return compareCondition{column, "=", value} }
func Neq(column string, value any) Condition { return compareCondition{column, "<>", value} }
func Gt(column string, value any) Condition  { return compareCondition{column, ">", value} }
func Gte(column string, value any) Condition { return compareCondition{column, ">=", value} }
func Lt(column string, value any) Condition  { return compareCondition{column, "<", value} }
func Lte(column string, value any) Condition { return compareCondition{column, "<=", value} }

type betweenCondition struct {
	column   string
	from, to any
}

// Between is inclusive on both ends.
func Between(column string, from, to any) Condition {
	return betweenCondition{column: column, from: from, to: to}
}

func (cond betweenCondition) build(c *compiler) {
	c.buf.WriteString(cond.column)
	c.buf.WriteString(" BETWEEN ")
	c.bind(cond.from)
	c.buf.WriteString(" AND ")
	c.bind(cond.to)
}

type inCondition struct {
	column string
	values []any
}

func In(column string, values []any) Condition {
	return inCondition{column: column, values: values}
}

func (cond inCondition) build(c *compiler) {
	if len(cond.values) == 0 {
		c.buf.WriteString("1=0")
		return
	}
	c.buf.WriteString(cond.column)
	c.buf.WriteString(" IN (")
	for i, v := range cond.values {
		if i > 0 {
			c.buf.WriteString(", ")
		}
		c.bind(v)
	}
	c.buf.WriteString(")")
}

type nullCondition struct {
	column string
	not    bool
}

func IsNull(column string) Condition    { return nullCondition{column: column} }
func IsNotNull(column string) Condition { return nullCondition{column: column, not: true} }

func (cond nullCondition) build(c *compiler) {
	c.buf.WriteString(cond.column)
	if cond.not {
		c.buf.WriteString(" IS NOT NULL")
		return
	}
	c.buf.WriteString(" IS NULL")
}

type exprCondition struct {
	expr string
	args []any
}

// Expr embeds raw SQL; '?' marks are bound to args in order.
func Expr(expr string, args ...any) Condition {
	return exprCondition{expr: expr, args: args}
}

func (cond exprCondition) build(c *compiler) {
	c.expand(cond.expr, cond.args)
}

type SelectBuilder struct {
	columns []string
	table   string
	joins   []string
	where   []Condition
	groupBy []string
	orderBy []string
	limit   int
	suffix  string
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

// Join takes "table alias ON ..."; a leading JOIN keyword is tolerated.
func (b *SelectBuilder) Join(clause string) *SelectBuilder {
	b.joins = append(b.joins, joinClause("JOIN", clause))
	return b
}

func (b *SelectBuilder) LeftJoin(clause string) *SelectBuilder {
	b.joins = append(b.joins, joinClause("LEFT JOIN", clause))
	return b
}

func joinClause(keyword, clause string) string {
	clause = strings.TrimSpace(clause)
	if rest, ok := cutKeyword(clause, keyword); ok {
		clause = rest
	} else if rest, ok := cutKeyword(clause, "JOIN"); ok {
		clause = rest
	}
	return keyword + " " + clause
}

func cutKeyword(clause, keyword string) (string, bool) {
	if len(clause) <= len(keyword) || !strings.EqualFold(clause[:len(keyword)], keyword) {
		return clause, false
	}
	if clause[len(keyword)] != ' ' && clause[len(keyword)] != '\t' && clause[len(keyword)] != '\n' {
		return clause, false
	}
	return strings.TrimSpace(clause[len(keyword):]), true
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) GroupBy(parts ...string) *SelectBuilder {
	b.groupBy = append(b.groupBy, parts...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

// Suffix appends raw SQL such as "FOR UPDATE".
func (b *SelectBuilder) Suffix(sql string) *SelectBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	c := &compiler{}
	c.buf.WriteString("SELECT ")
	c.buf.WriteString(strings.Join(b.columns, ", "))
	c.buf.WriteString(" FROM ")
	c.buf.WriteString(b.table)
	for _, join := range b.joins {
		c.buf.WriteString(" ")
		c.buf.WriteString(join)
	}
	writeWhere(c, b.where)
	writeList(c, " GROUP BY ", b.groupBy)
	writeList(c, " ORDER BY ", b.orderBy)
	if b.limit > 0 {
		c.buf.WriteString(" LIMIT ")
		c.buf.WriteString(strconv.Itoa(b.limit))
	}
	if b.suffix != "" {
		c.buf.WriteString(" ")
		c.buf.WriteString(b.suffix)
	}
	return c.buf.String(), c.args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, fmt.Errorf("insert table is required")
	case len(b.columns) == 0:
		return "", nil, fmt.Errorf("insert columns are required")
	case len(b.rows) == 0:
		return "", nil, fmt.Errorf("insert values are required")
	}

	c := &compiler{}
	c.buf.WriteString("INSERT INTO ")
	c.buf.WriteString(b.table)
	c.buf.WriteString(" (")
	c.buf.WriteString(strings.Join(b.columns, ", "))
	c.buf.WriteString(") VALUES ")
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", i, len(row), len(b.columns))
		}
		if i > 0 {
			c.buf.WriteString(", ")
		}
		c.buf.WriteString("(")
		for j, value := range row {
			if j > 0 {
				c.buf.WriteString(", ")
			}
			c.bind(value)
		}
		c.buf.WriteString(")")
	}
	if b.suffix != "" {
		c.buf.WriteString(" ")
		c.buf.WriteString(b.suffix)
	}
	return c.buf.String(), c.args, nil
}

type assignment struct {
	column string
	value  any
	raw    *exprCondition
}

type UpdateBuilder struct {
	table  string
	sets   []assignment
	where  []Condition
	suffix string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, raw: &exprCondition{expr: expr, args: args}})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) Suffix(sql string) *UpdateBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}

	c := &compiler{}
	c.buf.WriteString("UPDATE ")
	c.buf.WriteString(b.table)
	c.buf.WriteString(" SET ")
	for i, set := range b.sets {
		if i > 0 {
			c.buf.WriteString(", ")
		}
		c.buf.WriteString(set.column)
		c.buf.WriteString(" = ")
		if set.raw != nil {
			set.raw.build(c)
			continue
		}
		c.bind(set.value)
	}
	writeWhere(c, b.where)
	if b.suffix != "" {
		c.buf.WriteString(" ")
		c.buf.WriteString(b.suffix)
	}
	return c.buf.String(), c.args, nil
}

func writeWhere(c *compiler, conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	c.buf.WriteString(" WHERE ")
	for i, cond := range conditions {
		if i > 0 {
			c.buf.WriteString(" AND ")
		}
		cond.build(c)
	}
}

func writeList(c *compiler, keyword string, parts []string) {
	if len(parts) == 0 {
		return
	}
	c.buf.WriteString(keyword)
	c.buf.WriteString(strings.Join(parts, ", "))
}
