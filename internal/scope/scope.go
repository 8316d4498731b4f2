// Package scope derives storage-layer filter predicates from the caller's
// identity plus raw query-string parameters. Every list surface goes through
// Compute so role scoping lives in one place instead of being repeated per
// page.
//
// Predicates are SQL fragments over fixed table aliases; each repository's
// FROM clause must use the aliases documented on the entity constants.
package scope

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/campushq/school-admin-api/internal/models"
)

// Entity identifies a list surface with its own filter rules.
type Entity string

// Alias contract per entity: exams/assignments join lessons as l and subjects
// as sub; results use r, st (students), ex/asg with their lessons as el/al;
// events use ev; classes c; subjects sub; parents p; students st; teachers t.
const (
	Exams       Entity = "exams"
	Assignments Entity = "assignments"
	Results     Entity = "results"
	Events      Entity = "events"
	Classes     Entity = "classes"
	Subjects    Entity = "subjects"
	Parents     Entity = "parents"
	Students    Entity = "students"
	Teachers    Entity = "teachers"
)

// PageSize is the fixed page length for every list surface.
const PageSize = 10

// Predicate is a composed filter ready for the storage layer. Count and page
// fetch must both run against the same predicate.
type Predicate struct {
	conds []string
	args  []interface{}
}

// Clause renders the predicate as a WHERE clause, or an empty string when
// unrestricted.
func (p Predicate) Clause() string {
	if len(p.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.conds, " AND ")
}

// Args returns the bind arguments in placeholder order.
func (p Predicate) Args() []interface{} {
	return p.args
}

// Restricted reports whether the predicate narrows the query at all.
func (p Predicate) Restricted() bool {
	return len(p.conds) > 0
}

type builder struct {
	conds []string
	args  []interface{}
}

func (b *builder) bind(v interface{}) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *builder) where(cond string) {
	b.conds = append(b.conds, cond)
}

func (b *builder) equals(column, value string) {
	b.where(column + " = " + b.bind(value))
}

func (b *builder) contains(column, value string) {
	b.where(fmt.Sprintf("LOWER(%s) LIKE %s", column, b.bind("%"+strings.ToLower(value)+"%")))
}

// deny makes the predicate match nothing. Used for roles outside the known
// set: an unrecognized role sees an empty list, never an unrestricted one.
func (b *builder) deny() {
	b.where("1=0")
}

type paramRule struct {
	key   string
	apply func(b *builder, value string)
}

type entityRules struct {
	params []paramRule
	scope  func(b *builder, id models.Identity)
}

var rules = map[Entity]entityRules{
	Exams:       {params: lessonParams, scope: lessonScope},
	Assignments: {params: lessonParams, scope: lessonScope},
	Results: {
		params: []paramRule{
			{"studentId", func(b *builder, v string) { b.equals("r.student_id", v) }},
			{"search", func(b *builder, v string) {
				ph := b.bind("%" + strings.ToLower(v) + "%")
				b.where(fmt.Sprintf("(LOWER(COALESCE(ex.title, asg.title)) LIKE %s OR LOWER(st.name) LIKE %s)", ph, ph))
			}},
		},
		scope: func(b *builder, id models.Identity) {
			switch id.Role {
			case models.RoleAdmin:
			case models.RoleTeacher:
				ph := b.bind(id.UserID)
				b.where(fmt.Sprintf("(el.teacher_id = %s OR al.teacher_id = %s)", ph, ph))
			case models.RoleStudent:
				b.equals("r.student_id", id.UserID)
			case models.RoleParent:
				b.equals("st.parent_id", id.UserID)
			default:
				b.deny()
			}
		},
	},
	Events: {
		params: []paramRule{
			{"search", func(b *builder, v string) { b.contains("ev.title", v) }},
		},
		scope: func(b *builder, id models.Identity) {
			// Global events (no class) stay visible to every role; the
			// scoping only narrows class-bound events.
			switch id.Role {
			case models.RoleAdmin:
			case models.RoleTeacher:
				b.where(fmt.Sprintf("(ev.class_id IS NULL OR EXISTS (SELECT 1 FROM lessons le WHERE le.class_id = ev.class_id AND le.teacher_id = %s))", b.bind(id.UserID)))
			case models.RoleStudent:
				b.where(fmt.Sprintf("(ev.class_id IS NULL OR EXISTS (SELECT 1 FROM students s WHERE s.class_id = ev.class_id AND s.id = %s))", b.bind(id.UserID)))
			case models.RoleParent:
				b.where(fmt.Sprintf("(ev.class_id IS NULL OR EXISTS (SELECT 1 FROM students s WHERE s.class_id = ev.class_id AND s.parent_id = %s))", b.bind(id.UserID)))
			default:
				b.deny()
			}
		},
	},
	Classes: {
		params: []paramRule{
			{"supervisorId", func(b *builder, v string) { b.equals("c.supervisor_id", v) }},
			{"search", func(b *builder, v string) { b.contains("c.name", v) }},
		},
		scope: rosterScope,
	},
	Subjects: {
		params: []paramRule{
			{"search", func(b *builder, v string) { b.contains("sub.name", v) }},
		},
		scope: rosterScope,
	},
	Parents: {
		params: []paramRule{
			{"search", func(b *builder, v string) { b.contains("p.name", v) }},
		},
		scope: rosterScope,
	},
	Students: {
		params: []paramRule{
			{"classId", func(b *builder, v string) { b.equals("st.class_id", v) }},
			{"teacherId", func(b *builder, v string) {
				b.where(fmt.Sprintf("EXISTS (SELECT 1 FROM lessons le WHERE le.class_id = st.class_id AND le.teacher_id = %s)", b.bind(v)))
			}},
			{"search", func(b *builder, v string) { b.contains("st.name", v) }},
		},
		scope: rosterScope,
	},
	Teachers: {
		params: []paramRule{
			{"classId", func(b *builder, v string) {
				b.where(fmt.Sprintf("EXISTS (SELECT 1 FROM lessons le WHERE le.teacher_id = t.id AND le.class_id = %s)", b.bind(v)))
			}},
			{"search", func(b *builder, v string) { b.contains("t.name", v) }},
		},
		scope: rosterScope,
	},
}

// lessonParams are shared by exams and assignments: both filter through the
// lesson they hang off.
var lessonParams = []paramRule{
	{"classId", func(b *builder, v string) { b.equals("l.class_id", v) }},
	{"teacherId", func(b *builder, v string) { b.equals("l.teacher_id", v) }},
	{"search", func(b *builder, v string) { b.contains("sub.name", v) }},
}

func lessonScope(b *builder, id models.Identity) {
	switch id.Role {
	case models.RoleAdmin:
	case models.RoleTeacher:
		b.equals("l.teacher_id", id.UserID)
	case models.RoleStudent:
		b.where(fmt.Sprintf("EXISTS (SELECT 1 FROM students s WHERE s.class_id = l.class_id AND s.id = %s)", b.bind(id.UserID)))
	case models.RoleParent:
		b.where(fmt.Sprintf("EXISTS (SELECT 1 FROM students s WHERE s.class_id = l.class_id AND s.parent_id = %s)", b.bind(id.UserID)))
	default:
		b.deny()
	}
}

// rosterScope applies to directory-style entities whose rows are not
// per-caller: any known role may list them, unknown roles see nothing.
func rosterScope(b *builder, id models.Identity) {
	switch id.Role {
	case models.RoleAdmin, models.RoleTeacher, models.RoleStudent, models.RoleParent:
	default:
		b.deny()
	}
}

// Compute builds the predicate for one list request: recognized refinement
// keys first, role scoping second, composed with AND. Unknown keys are
// ignored; empty values are ignored.
func Compute(entity Entity, id models.Identity, params map[string]string) Predicate {
	b := &builder{}
	er, ok := rules[entity]
	if !ok {
		b.deny()
		return Predicate{conds: b.conds, args: b.args}
	}
	for _, rule := range er.params {
		if value, present := params[rule.key]; present && value != "" {
			rule.apply(b, value)
		}
	}
	er.scope(b, id)
	return Predicate{conds: b.conds, args: b.args}
}

// Page extracts the 1-indexed page from raw params. Absent, non-numeric,
// zero, or negative values coerce to 1 so offsets can never go negative.
func Page(params map[string]string) int {
	page, err := strconv.Atoi(params["page"])
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Offset converts a page into the row offset for the fixed page size.
func Offset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize
}
