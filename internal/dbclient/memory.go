package dbclient

import (
	"cmp"
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"gridedit/internal/normalize"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemoryStore is an in-process DocumentStore. Filters support equality on
// (dotted) field paths, $and, $or and $regex (with the "i" option); updates
// support $set and $unset. Used for dry runs and tests.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string][]map[string]any
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]map[string]any)}
}

func (s *MemoryStore) TestConnection(context.Context) error { return nil }

func (s *MemoryStore) InsertOne(_ context.Context, collection string, doc map[string]any) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := deepCopy(doc)
	id, ok := stored["_id"]
	if !ok {
		id = bson.NewObjectID()
		stored["_id"] = id
	}
	s.collections[collection] = append(s.collections[collection], stored)
	return id, nil
}

func (s *MemoryStore) UpdateOne(_ context.Context, collection string, filter, update map[string]any) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.findLocked(collection, filter)
	if doc == nil {
		return 0, fmt.Errorf("update matched 0 documents for filter %v: %w", filter, ErrNotFound)
	}
	before := deepCopy(doc)
	for op, arg := range update {
		fields, ok := arg.(map[string]any)
		if !ok {
			return 0, fmt.Errorf("update operator %s expects a document, got %T", op, arg)
		}
		switch op {
		case "$set":
			for path, v := range fields {
				normalize.SetPath(doc, normalize.ResolvePath(path, normalize.NestingAllowed), deepCopyValue(v))
			}
		case "$unset":
			for path := range fields {
				unsetPath(doc, normalize.ResolvePath(path, normalize.NestingAllowed))
			}
		default:
			return 0, fmt.Errorf("unsupported update operator: %s", op)
		}
	}
	if reflect.DeepEqual(before, doc) {
		return 0, nil
	}
	return 1, nil
}

func (s *MemoryStore) FindOne(_ context.Context, collection string, filter map[string]any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.findLocked(collection, filter)
	if doc == nil {
		return nil, ErrNotFound
	}
	return deepCopy(doc), nil
}

func (s *MemoryStore) DeleteOne(_ context.Context, collection string, filter map[string]any) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	for i, doc := range docs {
		if matches(doc, filter) {
			s.collections[collection] = append(docs[:i], docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Find(_ context.Context, collection string, filter map[string]any, opts FindOptions) ([]map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found []map[string]any
	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			found = append(found, doc)
		}
	}
	if len(opts.Sort) > 0 {
		sort.SliceStable(found, func(i, j int) bool {
			for _, f := range opts.Sort {
				segs := normalize.ResolvePath(f.Field, normalize.NestingAllowed)
				a, _ := normalize.GetPath(found[i], segs)
				b, _ := normalize.GetPath(found[j], segs)
				if c := compareValues(a, b); c != 0 {
					if f.Dir < 0 {
						return c > 0
					}
					return c < 0
				}
			}
			return false
		})
	}

	start := min(max(opts.Skip, 0), int64(len(found)))
	found = found[start:]
	if opts.Limit > 0 && opts.Limit < int64(len(found)) {
		found = found[:opts.Limit]
	}

	out := make([]map[string]any, 0, len(found))
	for _, doc := range found {
		out = append(out, project(deepCopy(doc), opts.Projection))
	}
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context, collection string, filter map[string]any) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			n++
		}
	}
	return n, nil
}

// Len returns the number of documents in a collection.
func (s *MemoryStore) Len(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[collection])
}

func (s *MemoryStore) findLocked(collection string, filter map[string]any) map[string]any {
	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			return doc
		}
	}
	return nil
}

func matches(doc, filter map[string]any) bool {
	for key, want := range filter {
		switch key {
		case "$and":
			for _, sub := range filterList(want) {
				if !matches(doc, sub) {
					return false
				}
			}
		case "$or":
			subs := filterList(want)
			hit := len(subs) == 0
			for _, sub := range subs {
				if matches(doc, sub) {
					hit = true
					break
				}
			}
			if !hit {
				return false
			}
		default:
			got, ok := normalize.GetPath(doc, normalize.ResolvePath(key, normalize.NestingAllowed))
			if cond, isOp := operatorDoc(want); isOp {
				if !matchOperators(got, ok, cond) {
					return false
				}
				continue
			}
			if !ok || !reflect.DeepEqual(got, want) {
				return false
			}
		}
	}
	return true
}

func filterList(v any) []map[string]any {
	switch t := v.(type) {
	case []map[string]any:
		return t
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, e := range t {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

// operatorDoc reports whether v is a {"$op": arg} condition document.
func operatorDoc(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
	}
	return m, true
}

func matchOperators(got any, present bool, cond map[string]any) bool {
	for op, arg := range cond {
		switch op {
		case "$options":
		case "$regex":
			pattern, _ := arg.(string)
			if opts, _ := cond["$options"].(string); strings.Contains(opts, "i") {
				pattern = "(?i)" + pattern
			}
			re, err := regexp.Compile(pattern)
			if err != nil {
				return false
			}
			str, isStr := got.(string)
			if !present || !isStr || !re.MatchString(str) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// compareValues orders nil < numbers < strings < documents < arrays <
// ObjectIDs < booleans < dates, then by value within a kind.
func compareValues(a, b any) int {
	ra, rb := sortRank(a), sortRank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch ra {
	case 1:
		return cmp.Compare(toFloat(a), toFloat(b))
	case 2:
		return strings.Compare(a.(string), b.(string))
	case 5:
		return strings.Compare(a.(bson.ObjectID).Hex(), b.(bson.ObjectID).Hex())
	case 6:
		x, y := a.(bool), b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	case 7:
		return a.(time.Time).Compare(b.(time.Time))
	}
	return 0
}

func sortRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case int, int32, int64, float32, float64:
		return 1
	case string:
		return 2
	case map[string]any:
		return 3
	case []any:
		return 4
	case bson.ObjectID:
		return 5
	case bool:
		return 6
	case time.Time:
		return 7
	}
	return 8
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

// project keeps _id and the listed top-level fields; no fields keeps all.
func project(doc map[string]any, fields []string) map[string]any {
	if len(fields) == 0 {
		return doc
	}
	out := map[string]any{}
	if id, ok := doc["_id"]; ok {
		out["_id"] = id
	}
	for _, f := range fields {
		if v, ok := doc[f]; ok {
			out[f] = v
		}
	}
	return out
}

func unsetPath(doc map[string]any, segments []string) {
	parent := doc
	for _, seg := range segments[:len(segments)-1] {
		next, ok := parent[seg].(map[string]any)
		if !ok {
			return
		}
		parent = next
	}
	delete(parent, segments[len(segments)-1])
}

func deepCopy(doc map[string]any) map[string]any {
	return deepCopyValue(doc).(map[string]any)
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = deepCopyValue(e)
		}
		return out
	case normalize.Document:
		return deepCopyValue(map[string]any(t))
	case normalize.UpdateMap:
		return deepCopyValue(map[string]any(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}
