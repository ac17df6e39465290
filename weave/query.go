package weave

import "fmt"

// Query modifiers, passed after "?" in the query path.
const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// Model is a single key value pair returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers queries against committed state.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister adds the query handlers of one extension.
type QueryRegister func(QueryRouter)

// QueryRouter maps exact query paths to handlers.
type QueryRouter struct {
	routes map[string]QueryHandler
}

func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: map[string]QueryHandler{}}
}

func (r QueryRouter) RegisterAll(regs ...QueryRegister) {
	for _, reg := range regs {
		reg(r)
	}
}

// Register panics if path already has a handler.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, taken := r.routes[path]; taken {
		panic(fmt.Sprintf("query path %s registered twice", path))
	}
	r.routes[path] = h
}

// Handler returns nil for an unknown path.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}
