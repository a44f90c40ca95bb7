package form

import (
	"strconv"

	"github.com/aanand-mishra/student-crud/internal/types"
)

// Placeholder is the single cell shown when there are no students.
const Placeholder = "No students found"

// Columns of the student table, in display order.
var Columns = []string{"ID", "Name", "Email", "Phone", "Age", "Course", "File"}

// Table is the student list flattened into text cells for display.
// Empty is true when Rows holds only the placeholder row.
type Table struct {
	Columns []string
	Rows    [][]string
	Empty   bool
}

// Table builds the display table from the store.
func (s *Session) Table() (Table, error) {
	students, err := s.store.GetStudents()
	if err != nil {
		return Table{}, err
	}
	return BuildTable(students), nil
}

// BuildTable turns students into rows. An empty list yields one row
// holding Placeholder.
func BuildTable(students []types.Student) Table {
	t := Table{Columns: Columns}

	if len(students) == 0 {
		t.Rows = [][]string{{Placeholder}}
		t.Empty = true
		return t
	}

	t.Rows = make([][]string, 0, len(students))
	for _, st := range students {
		age := ""
		if st.Age != nil {
			age = strconv.Itoa(*st.Age)
		}
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(st.ID, 10),
			st.Name,
			st.Email,
			st.Phone,
			age,
			st.Course,
			st.FileRef,
		})
	}
	return t
}
