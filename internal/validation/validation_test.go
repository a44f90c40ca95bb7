package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-crud/internal/types"
)

func validDraft() types.Draft {
	return types.Draft{
		Name:  "Asha Rao",
		Email: "asha@example.com",
		Phone: "9876543210",
		Age:   "20",
	}
}

func TestParseProfile(t *testing.T) {
	tests := []struct {
		in      string
		want    Profile
		wantErr bool
	}{
		{"basic", ProfileBasic, false},
		{" EMAIL ", ProfileEmail, false},
		{"strict", ProfileStrict, false},
		{"", ProfileStrict, false},
		{"lenient", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseProfile(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDraftValid(t *testing.T) {
	for _, p := range []Profile{ProfileBasic, ProfileEmail, ProfileStrict} {
		errs := New(p).Draft(validDraft())
		assert.NotNil(t, errs, p)
		assert.Empty(t, errs, p)
	}
}

func TestDraftNameRequired(t *testing.T) {
	d := validDraft()
	d.Name = ""

	for _, p := range []Profile{ProfileBasic, ProfileEmail, ProfileStrict} {
		errs := New(p).Draft(d)
		assert.Equal(t, "Name is required", errs[types.FieldName], p)
	}
}

func TestDraftEmail(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		email   string
		wantMsg string
	}{
		{"basic accepts anything", ProfileBasic, "bad-email", ""},
		{"basic requires presence", ProfileBasic, "", "Email is required"},
		{"email rejects malformed", ProfileEmail, "bad-email", "Invalid email format"},
		{"email accepts short address", ProfileEmail, "a@b.com", ""},
		{"strict rejects malformed", ProfileStrict, "bad-email", "Invalid email format"},
		{"strict required before pattern", ProfileStrict, "", "Email is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			d.Email = tt.email
			errs := New(tt.profile).Draft(d)
			assert.Equal(t, tt.wantMsg, errs[types.FieldEmail])
		})
	}
}

func TestDraftPhone(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		phone   string
		wantMsg string
	}{
		{"starts with 1", ProfileStrict, "1234567890", "Enter a valid 10-digit mobile number"},
		{"valid mobile", ProfileStrict, "9876543210", ""},
		{"too short", ProfileStrict, "98765", "Enter a valid 10-digit mobile number"},
		{"missing", ProfileStrict, "", "Phone number is required"},
		{"email profile ignores phone", ProfileEmail, "", ""},
		{"basic profile ignores phone", ProfileBasic, "abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			d.Phone = tt.phone
			errs := New(tt.profile).Draft(d)
			assert.Equal(t, tt.wantMsg, errs[types.FieldPhone])
		})
	}
}

func TestDraftAge(t *testing.T) {
	v := New(ProfileStrict)

	d := validDraft()
	d.Age = ""
	assert.Empty(t, v.Draft(d), "age is optional")

	d.Age = "twenty"
	assert.Equal(t, "Age must be a whole number", v.Draft(d)[types.FieldAge])

	d.Age = " 21 "
	assert.Empty(t, v.Draft(d))

	d.Age = "   "
	assert.Empty(t, v.Draft(d), "blank age is the same as no age")
}

func TestDraftCourseAndFileUnconstrained(t *testing.T) {
	d := validDraft()
	d.Course = ""
	d.FileRef = ""
	assert.Empty(t, New(ProfileStrict).Draft(d))
}

func TestStudent(t *testing.T) {
	errs := New(ProfileStrict).Student(types.Student{Name: "Rahul", Email: "rahul@example.com", Phone: "1234567890"})
	assert.Len(t, errs, 1)
	assert.Contains(t, errs, types.FieldPhone)
}
