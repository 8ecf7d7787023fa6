package listing

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rebeliceyang/lazymarv/internal/models"
)

// sortKey is the comparable form of a cell value
type sortKey struct {
	numeric bool
	num     float64
	str     string
}

// keyOf normalizes a value: arrays by length, null as "", objects by title
func keyOf(value interface{}) sortKey {
	switch v := value.(type) {
	case nil:
		return sortKey{}
	case []interface{}:
		return sortKey{numeric: true, num: float64(len(v))}
	case map[string]interface{}:
		return scalarKey(v["title"])
	default:
		return scalarKey(v)
	}
}

func scalarKey(value interface{}) sortKey {
	switch v := value.(type) {
	case string:
		return sortKey{str: v}
	case float64:
		return sortKey{numeric: true, num: v}
	case int:
		return sortKey{numeric: true, num: float64(v)}
	case int64:
		return sortKey{numeric: true, num: float64(v)}
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return sortKey{str: v.String()}
		}
		return sortKey{numeric: true, num: f}
	case bool:
		if v {
			return sortKey{numeric: true, num: 1}
		}
		return sortKey{numeric: true, num: 0}
	default:
		return sortKey{}
	}
}

// number converts a key for a mixed comparison: "" is 0, other text that is
// not a number is NaN
func (k sortKey) number() float64 {
	if k.numeric {
		return k.num
	}
	s := strings.TrimSpace(k.str)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// less reports l < r. Two strings compare as text, any other pair as numbers,
// and NaN is never less nor greater.
func (l sortKey) less(r sortKey) bool {
	if !l.numeric && !r.numeric {
		return l.str < r.str
	}
	return l.number() < r.number()
}

// SortRows returns the rows ordered by column col. Rows whose value at col is
// undefined always follow the sorted rows in their original order. Ascending
// orders by l < r, descending by l > r. Ascending ties keep their input order,
// descending ties come out in reverse input order.
func SortRows(rows []*models.Row, col int, ascending bool) []*models.Row {
	defined := make([]*models.Row, 0, len(rows))
	var undefined []*models.Row
	keys := make(map[*models.Row]sortKey, len(rows))
	pos := make(map[*models.Row]int, len(rows))

	for i, row := range rows {
		c := row.Column(col)
		if c == nil || !c.Defined {
			undefined = append(undefined, row)
			continue
		}
		keys[row] = keyOf(c.Value)
		pos[row] = i
		defined = append(defined, row)
	}

	sort.SliceStable(defined, func(i, j int) bool {
		l, r := keys[defined[i]], keys[defined[j]]
		if ascending {
			return l.less(r)
		}
		if r.less(l) {
			return true
		}
		if l.less(r) {
			return false
		}
		return pos[defined[i]] > pos[defined[j]]
	})

	return append(defined, undefined...)
}
