package ginblog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type SQLRepository[T Document] struct {
	db        DBTX
	dialect   Dialect
	tableName string
	columns   []string
	fields    []int
	exprs     map[string]string
}

func NewSQLRepository[T Document](db DBTX, dialect Dialect) *SQLRepository[T] {
	var doc T
	typ := reflect.TypeOf(doc)

	r := &SQLRepository[T]{
		db:        db,
		dialect:   dialect,
		tableName: doc.GetTableName(),
		exprs:     make(map[string]string),
	}
	for i := 0; i < typ.NumField(); i++ {
		column := columnName(typ.Field(i))
		if column == "" {
			continue
		}
		r.columns = append(r.columns, column)
		r.fields = append(r.fields, i)
	}
	return r
}

func columnName(field reflect.StructField) string {
	if !field.IsExported() {
		return ""
	}
	tag := field.Tag.Get("db")
	if tag == "-" {
		return ""
	}
	if tag == "" {
		return strings.ToLower(field.Name)
	}
	return tag
}

// WithColumnExpr makes reads select expr in place of column, e.g. "NULL" for a
// column the live schema does not have yet.
func (r *SQLRepository[T]) WithColumnExpr(column, expr string) *SQLRepository[T] {
	r.exprs[column] = expr
	return r
}

func (r *SQLRepository[T]) TableName() string {
	return r.tableName
}

func (r *SQLRepository[T]) FindById(ctx context.Context, id interface{}) (T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", r.selectList(), r.tableName)
	return r.queryOne(ctx, query, id)
}

func (r *SQLRepository[T]) FindAllById(ctx context.Context, ids []interface{}) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}

	placeholders := make([]string, len(ids))
	for i := range ids {
		placeholders[i] = "?"
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE id IN (%s)",
		r.selectList(), r.tableName, strings.Join(placeholders, ","))
	return r.queryMany(ctx, query, ids...)
}

func (r *SQLRepository[T]) FindOneBy(ctx context.Context, field string, value interface{}) (T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", r.selectList(), r.tableName, field)
	return r.queryOne(ctx, query, value)
}

func (r *SQLRepository[T]) FindBy(ctx context.Context, field string, value interface{}, sort ...SortField) ([]T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?%s",
		r.selectList(), r.tableName, field, orderBy(sort))
	return r.queryMany(ctx, query, value)
}

func (r *SQLRepository[T]) FindAll(ctx context.Context, sort ...SortField) ([]T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s%s", r.selectList(), r.tableName, orderBy(sort))
	return r.queryMany(ctx, query)
}

// Save inserts doc and returns the generated id. A zero id column is left to
// the database, and columns replaced by WithColumnExpr are not written.
func (r *SQLRepository[T]) Save(ctx context.Context, doc T) (int64, error) {
	fields, values := r.extractFieldsAndValues(doc)

	var columns []string
	var args []interface{}
	for i, field := range fields {
		if field == "id" && isZero(values[i]) {
			continue
		}
		if _, overridden := r.exprs[field]; overridden {
			continue
		}
		columns = append(columns, field)
		args = append(args, values[i])
	}
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = "?"
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		r.tableName,
		strings.Join(columns, ","),
		strings.Join(placeholders, ","))

	var id int64
	if err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert into %s: %w", r.tableName, err)
	}
	return id, nil
}

func (r *SQLRepository[T]) Update(ctx context.Context, doc T) error {
	fields, values := r.extractFieldsAndValues(doc)

	var idValue interface{}
	var updateFields []string
	var updateValues []interface{}

	for i := 0; i < len(fields); i++ {
		if fields[i] == "id" {
			idValue = values[i]
			continue
		}
		if _, overridden := r.exprs[fields[i]]; overridden {
			continue
		}
		updateFields = append(updateFields, fields[i]+" = ?")
		updateValues = append(updateValues, values[i])
	}

	if idValue == nil {
		return fmt.Errorf("document must have an 'id' field for update operation")
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?",
		r.tableName, strings.Join(updateFields, ","))
	updateValues = append(updateValues, idValue)

	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), updateValues...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.tableName, err)
	}
	return r.expectRows(res, idValue)
}

func (r *SQLRepository[T]) Delete(ctx context.Context, id interface{}) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.tableName)
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", r.tableName, err)
	}
	return r.expectRows(res, id)
}

func (r *SQLRepository[T]) DeleteBy(ctx context.Context, field string, value interface{}) (int64, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", r.tableName, field)
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), value)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", r.tableName, err)
	}
	return res.RowsAffected()
}

func (r *SQLRepository[T]) Count(ctx context.Context) (int64, error) {
	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", r.tableName)
	err := r.db.QueryRowContext(ctx, query).Scan(&count)
	return count, err
}

func (r *SQLRepository[T]) CountBy(ctx context.Context, field string, value interface{}) (int64, error) {
	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?", r.tableName, field)
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), value).Scan(&count)
	return count, err
}

func (r *SQLRepository[T]) ExistsBy(ctx context.Context, field string, value interface{}) (bool, error) {
	count, err := r.CountBy(ctx, field, value)
	return count > 0, err
}

func (r *SQLRepository[T]) queryOne(ctx context.Context, query string, args ...interface{}) (T, error) {
	var result T
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), args...)
	if err := row.Scan(r.scanArgs(&result)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return result, ErrNotFound.New(r.tableName)
		}
		return result, fmt.Errorf("query %s: %w", r.tableName, err)
	}
	return result, nil
}

func (r *SQLRepository[T]) queryMany(ctx context.Context, query string, args ...interface{}) ([]T, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.tableName, err)
	}
	defer rows.Close()

	results := []T{}
	for rows.Next() {
		var item T
		if err := rows.Scan(r.scanArgs(&item)...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.tableName, err)
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", r.tableName, err)
	}
	return results, nil
}

func (r *SQLRepository[T]) scanArgs(dest *T) []interface{} {
	val := reflect.ValueOf(dest).Elem()
	args := make([]interface{}, len(r.fields))
	for i, idx := range r.fields {
		args[i] = val.Field(idx).Addr().Interface()
	}
	return args
}

func (r *SQLRepository[T]) selectList() string {
	list := make([]string, len(r.columns))
	for i, column := range r.columns {
		if expr, ok := r.exprs[column]; ok {
			list[i] = fmt.Sprintf("%s AS %s", expr, column)
			continue
		}
		list[i] = column
	}
	return strings.Join(list, ", ")
}

func (r *SQLRepository[T]) extractFieldsAndValues(doc T) ([]string, []interface{}) {
	v := reflect.ValueOf(doc)
	fields := make([]string, len(r.fields))
	values := make([]interface{}, len(r.fields))
	for i, idx := range r.fields {
		fields[i] = r.columns[i]
		values[i] = v.Field(idx).Interface()
	}
	return fields, values
}

func (r *SQLRepository[T]) expectRows(res sql.Result, id interface{}) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound.New(fmt.Sprintf("%s %v", r.tableName, id))
	}
	return nil
}

func orderBy(sort []SortField) string {
	if len(sort) == 0 {
		return ""
	}
	parts := make([]string, len(sort))
	for i, s := range sort {
		direction := "ASC"
		if s.Direction < 0 {
			direction = "DESC"
		}
		parts[i] = s.Field + " " + direction
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func isZero(value interface{}) bool {
	return value == nil || reflect.ValueOf(value).IsZero()
}
