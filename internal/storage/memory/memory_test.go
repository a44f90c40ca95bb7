package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-crud/internal/storage"
	"github.com/aanand-mishra/student-crud/internal/types"
)

func seeded(t *testing.T) *Store {
	s := New()
	require.NoError(t, storage.Seed(s, storage.SeedStudents()))
	return s
}

func names(t *testing.T, s *Store) []string {
	students, err := s.GetStudents()
	require.NoError(t, err)

	out := make([]string, 0, len(students))
	for _, st := range students {
		out = append(out, st.Name)
	}
	return out
}

func TestCreateAppendsWithFreshID(t *testing.T) {
	s := seeded(t)

	id, err := s.CreateStudent(types.Student{ID: 1, Name: "Meera", Email: "meera@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), id, "caller-supplied id is ignored")

	students, err := s.GetStudents()
	require.NoError(t, err)
	require.Len(t, students, 3)
	assert.Equal(t, "Meera", students[2].Name)

	seen := map[int64]bool{}
	for _, st := range students {
		assert.False(t, seen[st.ID], "duplicate id %d", st.ID)
		seen[st.ID] = true
	}
}

func TestIDsNotReusedAfterDelete(t *testing.T) {
	s := seeded(t)

	require.NoError(t, s.DeleteStudentByID(2))
	id, err := s.CreateStudent(types.Student{Name: "Meera", Email: "meera@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
}

func TestUpdateKeepsPosition(t *testing.T) {
	s := seeded(t)
	_, err := s.CreateStudent(types.Student{Name: "Meera", Email: "meera@example.com"})
	require.NoError(t, err)

	updated, err := s.UpdateStudentByID(1, types.Student{ID: 99, Name: "New Name", Email: "asha@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.ID)

	assert.Equal(t, []string{"New Name", "Rahul Kumar", "Meera"}, names(t, s))
}

func TestUpdateUnknownID(t *testing.T) {
	s := seeded(t)

	_, err := s.UpdateStudentByID(42, types.Student{Name: "Ghost", Email: "g@example.com"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, []string{"Asha Rao", "Rahul Kumar"}, names(t, s))
}

func TestDeleteKeepsRelativeOrder(t *testing.T) {
	s := seeded(t)
	_, err := s.CreateStudent(types.Student{Name: "Meera", Email: "meera@example.com"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteStudentByID(2))
	assert.Equal(t, []string{"Asha Rao", "Meera"}, names(t, s))

	assert.ErrorIs(t, s.DeleteStudentByID(2), storage.ErrNotFound)
	assert.Equal(t, []string{"Asha Rao", "Meera"}, names(t, s))
}

func TestGetStudentsEmptyNotNil(t *testing.T) {
	students, err := New().GetStudents()
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}

func TestReturnedRecordsDoNotAliasStore(t *testing.T) {
	s := seeded(t)

	st, err := s.GetStudentByID(1)
	require.NoError(t, err)
	*st.Age = 99

	again, err := s.GetStudentByID(1)
	require.NoError(t, err)
	assert.Equal(t, 20, *again.Age)
}
