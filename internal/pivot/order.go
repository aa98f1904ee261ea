package pivot

import (
	"sort"
	"strconv"
	"strings"
)

// Unranked is the rank of a value that no priority table mentions.
const Unranked = 999

// ColumnKey identifies a grid column. It uses the raw ward identifier and is the only
// key used for cell lookups.
type ColumnKey struct {
	Role         string
	WidePeriod   string
	NarrowPeriod string
	Ward         string
	Subward      string
}

// ColumnHeader is the display projection of a ColumnKey.
type ColumnHeader struct {
	Role         string
	WidePeriod   string
	NarrowPeriod string
	Ward         string
	Subward      string
}

// Header builds the display tuple for k.
func (k ColumnKey) Header() ColumnHeader {
	return ColumnHeader{
		Role:         k.Role,
		WidePeriod:   k.WidePeriod,
		NarrowPeriod: k.NarrowPeriod,
		Ward:         NormalizeWard(k.Ward),
		Subward:      k.Subward,
	}
}

// Levels returns the header as top-to-bottom labels.
func (h ColumnHeader) Levels() [5]string {
	return [5]string{h.Role, h.WidePeriod, h.NarrowPeriod, h.Ward, h.Subward}
}

// RankEntry maps a pattern to its rank; lower ranks sort first.
type RankEntry struct {
	Pattern string
	Rank    int
}

// RankTable ranks values by exact match. Earlier entries win on duplicates.
type RankTable []RankEntry

// Rank returns the rank of v, or Unranked.
func (t RankTable) Rank(v string) int {
	for _, e := range t {
		if e.Pattern == v {
			return e.Rank
		}
	}
	return Unranked
}

// WardTable ranks ward identifiers by substring containment, evaluated top to bottom.
// The first pattern contained in the ward supplies the rank; later matches are ignored
// on purpose so that a department table can list specific labels before generic ones.
type WardTable []RankEntry

// Rank returns the rank of the first pattern contained in ward, or Unranked.
func (t WardTable) Rank(ward string) int {
	for _, e := range t {
		if strings.Contains(ward, e.Pattern) {
			return e.Rank
		}
	}
	return Unranked
}

// Matches returns every entry whose pattern is contained in ward, in table order.
func (t WardTable) Matches(ward string) []RankEntry {
	var out []RankEntry
	for _, e := range t {
		if strings.Contains(ward, e.Pattern) {
			out = append(out, e)
		}
	}
	return out
}

// WardOverlap is a pair of patterns where one contains the other, so any ward matching
// the longer one also matches the shorter.
type WardOverlap struct {
	First, Second RankEntry
}

// Overlaps lists pattern pairs that can both match one ward.
func (t WardTable) Overlaps() []WardOverlap {
	var out []WardOverlap
	for i := 0; i < len(t); i++ {
		for j := i + 1; j < len(t); j++ {
			if strings.Contains(t[i].Pattern, t[j].Pattern) || strings.Contains(t[j].Pattern, t[i].Pattern) {
				out = append(out, WardOverlap{First: t[i], Second: t[j]})
			}
		}
	}
	return out
}

// Priorities holds the ordering tables for one request.
type Priorities struct {
	Roles       RankTable
	WidePeriods RankTable
	Wards       WardTable
	// Subwards is optional; an empty table leaves subwards in lexical order.
	Subwards RankTable
}

type columnSortKey struct {
	role        int
	widePeriod  int
	narrowStart int
	ward        int
	wardLetters string
	wardNumber  int
	subward     int
	subwardRaw  string
}

func (p Priorities) sortKey(k ColumnKey) columnSortKey {
	return columnSortKey{
		role:        p.Roles.Rank(k.Role),
		widePeriod:  p.WidePeriods.Rank(k.WidePeriod),
		narrowStart: narrowPeriodStart(k.NarrowPeriod),
		ward:        p.Wards.Rank(k.Ward),
		wardLetters: asciiLetters(k.Ward),
		wardNumber:  leadingNumber(k.Ward),
		subward:     p.Subwards.Rank(k.Subward),
		subwardRaw:  k.Subward,
	}
}

func (a columnSortKey) less(b columnSortKey) bool {
	if a.role != b.role {
		return a.role < b.role
	}
	if a.widePeriod != b.widePeriod {
		return a.widePeriod < b.widePeriod
	}
	if a.narrowStart != b.narrowStart {
		return a.narrowStart < b.narrowStart
	}
	if a.ward != b.ward {
		return a.ward < b.ward
	}
	if a.wardLetters != b.wardLetters {
		return a.wardLetters < b.wardLetters
	}
	if a.wardNumber != b.wardNumber {
		return a.wardNumber < b.wardNumber
	}
	if a.subward != b.subward {
		return a.subward < b.subward
	}
	return a.subwardRaw < b.subwardRaw
}

// Order sorts columns by role, wide period, narrow period start, ward priority, ward
// letters, ward number and subward. Columns with equal keys keep their input order.
// The input slice is not modified.
func Order(columns []ColumnKey, p Priorities) []ColumnKey {
	type keyed struct {
		col ColumnKey
		key columnSortKey
	}
	items := make([]keyed, len(columns))
	for i, c := range columns {
		items[i] = keyed{col: c, key: p.sortKey(c)}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].key.less(items[j].key)
	})

	out := make([]ColumnKey, len(items))
	for i, it := range items {
		out[i] = it.col
	}
	return out
}

// narrowPeriodStart parses the hour before the hyphen of "8-12"; anything else is 0.
func narrowPeriodStart(period string) int {
	head, _, ok := strings.Cut(period, "-")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0
	}
	return n
}

func asciiLetters(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// leadingNumber returns the first run of digits in s, or 0.
func leadingNumber(s string) int {
	start := strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' })
	if start < 0 {
		return 0
	}
	end := start
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return 0
	}
	return n
}
