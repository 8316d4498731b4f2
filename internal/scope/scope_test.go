package scope

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/school-admin-api/internal/models"
)

func identity(role models.UserRole) models.Identity {
	return models.Identity{Role: role, UserID: "user-1"}
}

func TestPageCoercion(t *testing.T) {
	cases := map[string]struct {
		raw  string
		want int
	}{
		"absent":      {"", 1},
		"non-numeric": {"abc", 1},
		"zero":        {"0", 1},
		"negative":    {"-3", 1},
		"valid":       {"3", 3},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			params := map[string]string{}
			if tc.raw != "" {
				params["page"] = tc.raw
			}
			assert.Equal(t, tc.want, Page(params))
		})
	}
}

func TestOffsetNeverNegative(t *testing.T) {
	assert.Equal(t, 0, Offset(1))
	assert.Equal(t, 0, Offset(-5))
	assert.Equal(t, 20, Offset(3))
}

func TestAdminIsUnrestricted(t *testing.T) {
	for _, entity := range []Entity{Exams, Assignments, Results, Events, Classes, Subjects, Parents, Students, Teachers} {
		pred := Compute(entity, identity(models.RoleAdmin), nil)
		assert.False(t, pred.Restricted(), "entity %s", entity)
		assert.Empty(t, pred.Clause())
	}
}

func TestTeacherScopeNarrowsExams(t *testing.T) {
	admin := Compute(Exams, identity(models.RoleAdmin), map[string]string{"classId": "class-9"})
	teacher := Compute(Exams, identity(models.RoleTeacher), map[string]string{"classId": "class-9"})

	// The role-scoped predicate must carry every refinement the admin one
	// does, plus the ownership restriction: narrower, never broader.
	require.True(t, teacher.Restricted())
	assert.Contains(t, teacher.Clause(), "l.class_id = $1")
	assert.Contains(t, teacher.Clause(), "l.teacher_id = $2")
	assert.Contains(t, admin.Clause(), "l.class_id = $1")
	assert.NotContains(t, admin.Clause(), "teacher_id")
	assert.Equal(t, []interface{}{"class-9", "user-1"}, teacher.Args())
}

func TestStudentAndParentScopes(t *testing.T) {
	student := Compute(Assignments, identity(models.RoleStudent), nil)
	assert.Contains(t, student.Clause(), "s.class_id = l.class_id AND s.id = $1")

	parent := Compute(Assignments, identity(models.RoleParent), nil)
	assert.Contains(t, parent.Clause(), "s.parent_id = $1")
}

func TestUnknownRoleDeniedEverywhere(t *testing.T) {
	for _, entity := range []Entity{Exams, Assignments, Results, Events, Classes, Subjects, Parents, Students, Teachers} {
		pred := Compute(entity, models.Identity{Role: "visitor", UserID: "user-1"}, nil)
		assert.Contains(t, pred.Clause(), "1=0", "entity %s", entity)
	}
}

func TestUnknownEntityDenied(t *testing.T) {
	pred := Compute(Entity("grades"), identity(models.RoleAdmin), nil)
	assert.Contains(t, pred.Clause(), "1=0")
}

func TestUnrecognizedKeysIgnored(t *testing.T) {
	pred := Compute(Subjects, identity(models.RoleAdmin), map[string]string{
		"bogus": "x",
		"page":  "2",
	})
	assert.False(t, pred.Restricted())
}

func TestEmptyValuesIgnored(t *testing.T) {
	pred := Compute(Classes, identity(models.RoleAdmin), map[string]string{"supervisorId": ""})
	assert.False(t, pred.Restricted())
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	pred := Compute(Subjects, identity(models.RoleAdmin), map[string]string{"search": "MatH"})
	assert.Contains(t, pred.Clause(), "LOWER(sub.name) LIKE $1")
	require.Len(t, pred.Args(), 1)
	assert.Equal(t, "%math%", pred.Args()[0])
}

func TestResultSearchSpansTitleAndStudent(t *testing.T) {
	pred := Compute(Results, identity(models.RoleAdmin), map[string]string{"search": "midterm"})
	clause := pred.Clause()
	assert.Contains(t, clause, "COALESCE(ex.title, asg.title)")
	assert.Contains(t, clause, "LOWER(st.name) LIKE $1")
	// One bind serves both sides of the OR.
	assert.Len(t, pred.Args(), 1)
}

func TestResultTeacherScopeSpansBothAssessments(t *testing.T) {
	pred := Compute(Results, identity(models.RoleTeacher), nil)
	assert.Contains(t, pred.Clause(), "(el.teacher_id = $1 OR al.teacher_id = $1)")
	assert.Equal(t, []interface{}{"user-1"}, pred.Args())
}

func TestGlobalEventsVisibleToEveryRole(t *testing.T) {
	for _, role := range []models.UserRole{models.RoleTeacher, models.RoleStudent, models.RoleParent} {
		pred := Compute(Events, identity(role), nil)
		require.True(t, pred.Restricted(), "role %s", role)
		// The scoping is an OR against the unscoped case, so class-less
		// events always pass.
		assert.True(t, strings.Contains(pred.Clause(), "ev.class_id IS NULL OR"), "role %s", role)
	}
	admin := Compute(Events, identity(models.RoleAdmin), nil)
	assert.False(t, admin.Restricted())
}

func TestRefinementAndScopeComposeWithAnd(t *testing.T) {
	pred := Compute(Events, identity(models.RoleStudent), map[string]string{"search": "Sports"})
	clause := pred.Clause()
	assert.Contains(t, clause, "LOWER(ev.title) LIKE $1 AND (ev.class_id IS NULL OR")
	assert.Equal(t, []interface{}{"%sports%", "user-1"}, pred.Args())
}
