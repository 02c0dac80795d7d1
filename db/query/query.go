package query

// Queryer is a filtered and ordered read over one table.
type Queryer interface {
	WhereMap() map[string]interface{}
	Orders() []*Order
	// Limit is the maximum number of rows, 0 means no limit.
	Limit() uint64
}

// Query holds the ordering and row limit shared by the entity queries.
type Query struct {
	limit  uint64
	orders []*Order
}

// First limits the result to the first n rows.
func (q *Query) First(n uint64) {
	q.limit = n
}

func (q *Query) Limit() uint64 {
	return q.limit
}

func (q *Query) WhereMap() map[string]interface{} {
	return nil
}

func (q *Query) Orders() []*Order {
	return q.orders
}

// Order appends a sort column, earlier calls take precedence.
func (q *Query) Order(column string, sort Sort) {
	q.orders = append(q.orders, &Order{Column: column, Sort: sort})
}
