package pivot

import (
	"sort"

	"duty-calendar/internal/models"
)

// DefaultRole is used for every record when no record carries a role.
const DefaultRole = "Staff"

// Fallback describes the field substitutions applied to a record set. A field counts
// as present when at least one record carries a non-empty value for it.
type Fallback struct {
	RoleAbsent         bool
	WidePeriodAbsent   bool
	NarrowPeriodAbsent bool
	// WardFromRemark: no ward anywhere, remark values group as wards.
	WardFromRemark bool
	// WardAbsent: neither ward nor remark anywhere, every record sits under ward "".
	WardAbsent bool
	// SubwardFromRemark: ward and remark both present, a record's remark fills its
	// empty subward.
	SubwardFromRemark bool
	SubwardAbsent     bool
}

func detectFallback(records []models.DutyRecord) Fallback {
	var role, wide, narrow, ward, subward, remark bool
	for i := range records {
		r := &records[i]
		role = role || r.Role != ""
		wide = wide || r.WidePeriod != ""
		narrow = narrow || r.NarrowPeriod != ""
		ward = ward || r.Ward != ""
		subward = subward || r.Subward != ""
		remark = remark || r.Remark != ""
	}
	f := Fallback{
		RoleAbsent:         !role,
		WidePeriodAbsent:   !wide,
		NarrowPeriodAbsent: !narrow,
		WardFromRemark:     !ward && remark,
		WardAbsent:         !ward && !remark,
		SubwardFromRemark:  ward && remark,
	}
	f.SubwardAbsent = !subward && !f.SubwardFromRemark
	return f
}

// Diagnostics lists one MissingFieldFallback per substitution.
func (f Fallback) Diagnostics(defaultRole string) []Diagnostic {
	var out []Diagnostic
	add := func(msg string) {
		out = append(out, Diagnostic{Kind: MissingFieldFallback, Message: msg})
	}
	if f.RoleAbsent {
		add("role missing from all records, using " + defaultRole)
	}
	if f.WidePeriodAbsent {
		add("wide period missing from all records, using empty placeholder")
	}
	if f.NarrowPeriodAbsent {
		add("narrow period missing from all records, using empty placeholder")
	}
	switch {
	case f.WardFromRemark:
		add("ward missing from all records, grouping by remark")
	case f.WardAbsent:
		add("ward and remark missing from all records, using empty placeholder")
	}
	if f.SubwardFromRemark {
		add("remark present alongside ward, using remark as subward")
	} else if f.SubwardAbsent {
		add("subward missing from all records, using empty placeholder")
	}
	return out
}

// level is one tier of the column hierarchy with its values in enumeration order.
type level struct {
	order    []string
	children map[string]*level
}

func newLevel() *level {
	return &level{children: make(map[string]*level)}
}

func (l *level) child(v string) *level {
	c, ok := l.children[v]
	if !ok {
		c = newLevel()
		l.children[v] = c
		l.order = append(l.order, v)
	}
	return c
}

func (l *level) sortNatural() {
	sort.SliceStable(l.order, func(i, j int) bool {
		return NaturalLess(l.order[i], l.order[j])
	})
}

// Schema is the column hierarchy discovered from one record set:
// role > wide period > narrow period > ward > subward.
type Schema struct {
	fallback    Fallback
	defaultRole string
	roles       *level
}

// Discover scans records and builds the column hierarchy. Roles and wards enumerate in
// natural order, periods and subwards in first-seen order. A record with an empty value
// for a field that other records do carry does not open a group at that level.
func Discover(records []models.DutyRecord, opts Options) *Schema {
	s := &Schema{
		fallback:    detectFallback(records),
		defaultRole: opts.defaultRole(),
		roles:       newLevel(),
	}

	for i := range records {
		key, _ := s.Resolve(&records[i])
		if !s.placeable(key) {
			continue
		}
		wards := s.roles.child(key.Role).child(key.WidePeriod).child(key.NarrowPeriod)
		subwards := wards.child(key.Ward)
		if key.Subward != "" {
			subwards.child(key.Subward)
		}
	}

	s.roles.sortNatural()
	for _, role := range s.roles.order {
		for _, wide := range s.roles.children[role].order {
			narrows := s.roles.children[role].children[wide]
			for _, narrow := range narrows.order {
				narrows.children[narrow].sortNatural()
			}
		}
	}
	return s
}

// placeable reports whether every present field of key has a value.
func (s *Schema) placeable(key ColumnKey) bool {
	f := s.fallback
	if key.Role == "" {
		return false
	}
	if !f.WidePeriodAbsent && key.WidePeriod == "" {
		return false
	}
	if !f.NarrowPeriodAbsent && key.NarrowPeriod == "" {
		return false
	}
	if !f.WardAbsent && key.Ward == "" {
		return false
	}
	return true
}

// Resolve computes the raw column key of r with this schema's substitutions applied.
// A remark only stands in for a subward the record lacks; a record's own subward is
// never replaced. consumed reports whether r's remark was used as its ward or subward.
func (s *Schema) Resolve(r *models.DutyRecord) (key ColumnKey, consumed bool) {
	key = ColumnKey{
		Role:         r.Role,
		WidePeriod:   r.WidePeriod,
		NarrowPeriod: r.NarrowPeriod,
		Ward:         r.Ward,
		Subward:      r.Subward,
	}
	if s.fallback.RoleAbsent {
		key.Role = s.defaultRole
	}
	switch {
	case s.fallback.WardFromRemark:
		key.Ward = r.Remark
		consumed = r.Remark != ""
	case s.fallback.SubwardFromRemark && key.Subward == "" && r.Remark != "":
		key.Subward = r.Remark
		consumed = true
	}
	return key, consumed
}

// Fallback returns the field substitutions detected for this record set.
func (s *Schema) Fallback() Fallback {
	return s.fallback
}

func (s *Schema) lookup(path ...string) *level {
	l := s.roles
	for _, v := range path {
		next, ok := l.children[v]
		if !ok {
			return nil
		}
		l = next
	}
	return l
}

func (s *Schema) values(path ...string) []string {
	l := s.lookup(path...)
	if l == nil {
		return nil
	}
	return append([]string(nil), l.order...)
}

// Roles returns the discovered roles in natural order.
func (s *Schema) Roles() []string {
	return s.values()
}

func (s *Schema) WidePeriods(role string) []string {
	return s.values(role)
}

func (s *Schema) NarrowPeriods(role, wide string) []string {
	return s.values(role, wide)
}

func (s *Schema) Wards(role, wide, narrow string) []string {
	return s.values(role, wide, narrow)
}

// Subwards returns the named subwards of a ward; a ward without any yields [""].
func (s *Schema) Subwards(role, wide, narrow, ward string) []string {
	l := s.lookup(role, wide, narrow, ward)
	if l == nil {
		return nil
	}
	if len(l.order) == 0 {
		return []string{""}
	}
	return append([]string(nil), l.order...)
}

// Columns flattens the hierarchy in discovery order.
func (s *Schema) Columns() []ColumnKey {
	var cols []ColumnKey
	for _, role := range s.Roles() {
		for _, wide := range s.WidePeriods(role) {
			for _, narrow := range s.NarrowPeriods(role, wide) {
				for _, ward := range s.Wards(role, wide, narrow) {
					for _, sub := range s.Subwards(role, wide, narrow, ward) {
						cols = append(cols, ColumnKey{
							Role:         role,
							WidePeriod:   wide,
							NarrowPeriod: narrow,
							Ward:         ward,
							Subward:      sub,
						})
					}
				}
			}
		}
	}
	return cols
}
