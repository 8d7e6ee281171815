package directory

// The directory holds the school's reference data: subjects, classrooms and
// teachers. It is managed elsewhere (admin tooling); the report core only
// reads it to populate defaults and validate references.

type Subject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

type Classroom struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Grade          string `json:"grade,omitempty"`
	ClassTeacherID string `json:"class_teacher_id,omitempty"`
}

type Teacher struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
