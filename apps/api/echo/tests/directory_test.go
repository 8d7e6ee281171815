package tests

import (
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core/directory"
)

func Test_directoryApi(t *testing.T) {
	resetDB(t)
	token := getToken(t, classTeacher)

	tests := []httpTest{
		{
			name:     "subjects: no token",
			path:     "/v1/subjects",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "subjects",
			path:     "/v1/subjects",
			token:    token,
			wantCode: http.StatusOK,
			extra:    []directory.Subject{{ID: "s-1", Name: "Mathematics", Code: "MATH"}},
		},
		{
			name:     "classrooms",
			path:     "/v1/classrooms",
			token:    token,
			wantCode: http.StatusOK,
			extra:    []directory.Classroom{{ID: "c-1", Name: "Grade 4 East", Grade: "4", ClassTeacherID: classTeacher.ID}},
		},
		{
			name:     "teachers",
			path:     "/v1/teachers",
			token:    token,
			wantCode: http.StatusOK,
			extra:    []directory.Teacher{classTeacher, otherTeacher},
		},
	}
	for _, tt := range tests {
		if tt.wantCode == http.StatusUnauthorized {
			tt.wantData = marchallObj(t, errMissingToken)
		} else {
			tt.wantData = marchallObj(t, tt.extra)
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
