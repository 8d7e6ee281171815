package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/report"
	"github.com/trezcool/darasa/tests"
)

func Test_reportApi_auth(t *testing.T) {
	resetDB(t)

	tests := []httpTest{
		{name: "query", method: http.MethodGet, path: "/v1/reports"},
		{name: "resolve", method: http.MethodGet, path: "/v1/reports/resolve"},
		{name: "saveDraft", method: http.MethodPut, path: "/v1/reports/draft"},
		{name: "retrieve", method: http.MethodGet, path: "/v1/reports/some-id"},
		{name: "signPeriod", method: http.MethodPatch, path: "/v1/reports/some-id/periods/1/signature"},
		{name: "submit", method: http.MethodPost, path: "/v1/reports/some-id/submit"},
	}
	for _, tt := range tests {
		tt.wantCode = http.StatusUnauthorized
		tt.wantData = marchallObj(t, errMissingToken)

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_reportApi_resolve(t *testing.T) {
	resetDB(t)
	token := getToken(t, otherTeacher)

	tests := []httpTest{
		{
			name:     "missing class_name",
			path:     "/v1/reports/resolve?date=2026-03-09",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"class_name":"this field is required"}`),
		},
		{
			name:     "missing date",
			path:     "/v1/reports/resolve?class_name=Grade+4+East",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"date":"a valid date is required"}`),
		},
		{
			name:     "malformed date",
			path:     "/v1/reports/resolve?class_name=Grade+4+East&date=09/03/2026",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"date":"a valid date is required"}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("creates a default draft", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/reports/resolve?class_name=Grade+4+East&date=2026-03-09", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want 200; body = %s", rec.Code, rec.Body.String())
		}
		rpt := decodeReport(t, rec)
		if rpt.ID == "" || rpt.Status != report.StatusDraft {
			t.Errorf("resolve did not create a draft: %+v", rpt)
		}
		if len(rpt.Periods) != 8 {
			t.Errorf("len(periods) = %d, want 8", len(rpt.Periods))
		}
		// classroom directory entry names the class teacher
		if rpt.ClassTeacherID != classTeacher.ID {
			t.Errorf("ClassTeacherID = %q, want %q", rpt.ClassTeacherID, classTeacher.ID)
		}

		// resolving again returns the same report
		req, rec2 := newAuthRequest(http.MethodGet, "/v1/reports/resolve?class_name=Grade+4+East&date=2026-03-09", token)
		app.ServeHTTP(rec2, req)
		if rec2.Code != http.StatusOK {
			t.Fatalf("code = %d, want 200", rec2.Code)
		}
		if again := decodeReport(t, rec2); again.ID != rpt.ID {
			t.Errorf("resolve created a second report: %q != %q", again.ID, rpt.ID)
		}
	})
}

func Test_reportApi_saveDraft(t *testing.T) {
	resetDB(t)
	token := getToken(t, classTeacher)

	tests := []httpTest{
		{
			name:     "class_name required",
			body:     []byte(`{"date":"2026-03-09"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"class_name":"this field is required"}`),
		},
		{
			name:     "date required",
			body:     []byte(`{"class_name":"Grade 4 East"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"date":"a valid date is required"}`),
		},
		{
			name:     "invalid signature status",
			body:     []byte(`{"date":"2026-03-09","class_name":"Grade 4 East","periods":[{"subject":"Math","signature_status":"maybe"}]}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"signature_status":"signature_status must be one of: absent, signed"}`),
		},
		{
			name:     "sparse period numbers",
			body:     []byte(`{"date":"2026-03-09","class_name":"Grade 4 East","periods":[{"period_number":1},{"period_number":5}]}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"periods":"period_number values must be 1..N in order with no gaps"}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, "/v1/reports/draft", token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("create then update in place", func(t *testing.T) {
		body := []byte(`{"date":"2026-03-09","class_name":"Grade 4 West","periods":[{"subject":"Math","topic":"Fractions","signature_status":"signed"},{"subject":"","topic":""}]}`)
		req, rec := newAuthRequest(http.MethodPut, "/v1/reports/draft", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want 200; body = %s", rec.Code, rec.Body.String())
		}
		created := decodeReport(t, rec)
		if created.ID == "" || created.Status != report.StatusDraft {
			t.Fatalf("unexpected report: %+v", created)
		}
		if len(created.Periods) != 2 {
			t.Fatalf("len(periods) = %d, want 2", len(created.Periods))
		}
		if created.Periods[1].Subject != report.PlaceholderText || created.Periods[1].Topic != report.PlaceholderText {
			t.Errorf("blank period not placeholdered: %+v", created.Periods[1])
		}
		if created.Periods[0].Number != 1 || created.Periods[1].Number != 2 {
			t.Errorf("period numbers not dense: %+v", created.Periods)
		}
		if created.TotalPeriodsTaught != 1 {
			t.Errorf("TotalPeriodsTaught = %d, want 1", created.TotalPeriodsTaught)
		}

		// same key again: updates the same row
		body = []byte(`{"date":"2026-03-09","class_name":"Grade 4 West","periods":[{"subject":"English","topic":"Nouns"}]}`)
		req, rec = newAuthRequest(http.MethodPut, "/v1/reports/draft", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want 200; body = %s", rec.Code, rec.Body.String())
		}
		updated := decodeReport(t, rec)
		if updated.ID != created.ID {
			t.Errorf("update created a new report: %q != %q", updated.ID, created.ID)
		}
		if len(updated.Periods) != 1 || updated.Periods[0].Subject != "English" {
			t.Errorf("periods not replaced: %+v", updated.Periods)
		}
		if updated.TotalPeriodsTaught != 0 {
			t.Errorf("TotalPeriodsTaught = %d, want 0", updated.TotalPeriodsTaught)
		}
	})
}

func Test_reportApi_retrieve(t *testing.T) {
	resetDB(t)
	token := getToken(t, classTeacher)

	rpt := testutil.CreateReport(t, rptRepo, "Grade 4 East", core.NewDate(2026, 3, 9), classTeacher.ID, nil, false)

	tests := []httpTest{
		{
			name:     "found",
			path:     "/v1/reports/" + rpt.ID,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, rpt),
		},
		{
			name:     "not found",
			path:     "/v1/reports/deadbeef",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "report not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_reportApi_signPeriod(t *testing.T) {
	resetDB(t)
	token := getToken(t, classTeacher)

	rpt := testutil.CreateReport(t, rptRepo, "Grade 4 East", core.NewDate(2026, 3, 9), classTeacher.ID,
		make([]report.Period, 3), false)
	submitted := testutil.CreateReport(t, rptRepo, "Grade 5 East", core.NewDate(2026, 3, 9), classTeacher.ID,
		make([]report.Period, 3), true)

	signBody := []byte(`{"signature_status":"signed"}`)

	tests := []httpTest{
		{
			name:     "period number not an int",
			path:     fmt.Sprintf("/v1/reports/%s/periods/abc/signature", rpt.ID),
			body:     signBody,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name:     "period out of range",
			path:     fmt.Sprintf("/v1/reports/%s/periods/9/signature", rpt.ID),
			body:     signBody,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "period not found"}),
		},
		{
			name:     "missing signature status",
			path:     fmt.Sprintf("/v1/reports/%s/periods/1/signature", rpt.ID),
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"signature_status":"this field is required"}`),
		},
		{
			name:     "invalid signature status",
			path:     fmt.Sprintf("/v1/reports/%s/periods/1/signature", rpt.ID),
			body:     []byte(`{"signature_status":"perhaps"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"signature_status":"signature_status must be one of: absent, signed"}`),
		},
		{
			name:     "report not found",
			path:     "/v1/reports/deadbeef/periods/1/signature",
			body:     signBody,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "report not found"}),
		},
		{
			name:     "submitted report is locked",
			path:     fmt.Sprintf("/v1/reports/%s/periods/1/signature", submitted.ID),
			body:     signBody,
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: "report already submitted"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPatch, tt.path, token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("only the subject teacher signs", func(t *testing.T) {
		path := fmt.Sprintf("/v1/reports/%s/periods/1/signature", rpt.ID)

		req, rec := newAuthRequest(http.MethodPatch, path, getToken(t, otherTeacher), signBody)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "you can only sign periods you teach"}),
		}, rec)

		// admins sign any period
		req, rec = newAuthRequest(http.MethodPatch, path, getAdminToken(t, otherTeacher), signBody)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("admin code = %d, want 200; body = %s", rec.Code, rec.Body.String())
		}

		// revert the admin signature so later subtests see a clean report
		req, rec = newAuthRequest(http.MethodPatch, path, getAdminToken(t, otherTeacher),
			[]byte(`{"signature_status":"absent"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("admin unsign code = %d, want 200; body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("sign then unsign", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPatch, fmt.Sprintf("/v1/reports/%s/periods/2/signature", rpt.ID), token, signBody)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want 200; body = %s", rec.Code, rec.Body.String())
		}
		got := decodeReport(t, rec)
		if got.Periods[1].Signature != report.SignatureSigned {
			t.Errorf("period 2 signature = %v, want signed", got.Periods[1].Signature)
		}
		if got.TotalPeriodsTaught != 1 {
			t.Errorf("TotalPeriodsTaught = %d, want 1", got.TotalPeriodsTaught)
		}

		req, rec = newAuthRequest(http.MethodPatch, fmt.Sprintf("/v1/reports/%s/periods/2/signature", rpt.ID), token,
			[]byte(`{"signature_status":"absent"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want 200; body = %s", rec.Code, rec.Body.String())
		}
		if got = decodeReport(t, rec); got.TotalPeriodsTaught != 0 {
			t.Errorf("TotalPeriodsTaught = %d, want 0", got.TotalPeriodsTaught)
		}
	})
}

func Test_reportApi_submit(t *testing.T) {
	resetDB(t)
	token := getToken(t, classTeacher)

	rpt := testutil.CreateReport(t, rptRepo, "Grade 4 East", core.NewDate(2026, 3, 9), classTeacher.ID,
		[]report.Period{{Subject: "Math", Signature: report.SignatureSigned}}, false)

	t.Run("not found", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "report not found"}),
		}
		req, rec := newAuthRequest(http.MethodPost, "/v1/reports/deadbeef/submit", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("submit is idempotent-tolerant", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/reports/%s/submit", rpt.ID), token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want 200; body = %s", rec.Code, rec.Body.String())
		}
		if got := decodeReport(t, rec); got.Status != report.StatusSubmitted {
			t.Errorf("status = %v, want submitted", got.Status)
		}

		// a retry re-returns the submitted report
		req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/reports/%s/submit", rpt.ID), token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("retry code = %d, want 200; body = %s", rec.Code, rec.Body.String())
		}
		if got := decodeReport(t, rec); got.Status != report.StatusSubmitted || got.ID != rpt.ID {
			t.Errorf("retry returned %+v, want the same submitted report", got)
		}
	})
}

func Test_reportApi_query(t *testing.T) {
	resetDB(t)
	token := getToken(t, classTeacher)

	east1 := testutil.CreateReport(t, rptRepo, "Grade 4 East", core.NewDate(2026, 3, 9), classTeacher.ID,
		[]report.Period{{Subject: "Math", SubjectTeacherID: otherTeacher.ID, Signature: report.SignatureSigned}}, false)
	east2 := testutil.CreateReport(t, rptRepo, "Grade 4 East", core.NewDate(2026, 3, 10), classTeacher.ID, nil, true)
	west := testutil.CreateReport(t, rptRepo, "Grade 4 West", core.NewDate(2026, 3, 8), otherTeacher.ID, nil, false)

	tests := []httpTest{
		{
			name:     "all; most recent first",
			path:     "/v1/reports",
			wantCode: http.StatusOK,
			extra:    []string{east2.ID, east1.ID, west.ID},
		},
		{
			name:     "filter by class name",
			path:     "/v1/reports?class_name=Grade+4+West",
			wantCode: http.StatusOK,
			extra:    []string{west.ID},
		},
		{
			name:     "filter by status",
			path:     "/v1/reports?status=submitted",
			wantCode: http.StatusOK,
			extra:    []string{east2.ID},
		},
		{
			name:     "filter by subject teacher",
			path:     "/v1/reports?subject_teacher_id=" + otherTeacher.ID,
			wantCode: http.StatusOK,
			extra:    []string{east1.ID},
		},
		{
			name:     "filter by date range",
			path:     "/v1/reports?date_from=2026-03-10&date_to=2026-03-10",
			wantCode: http.StatusOK,
			extra:    []string{east2.ID},
		},
		{
			name:     "ordering by date ascending",
			path:     "/v1/reports?class_name=Grade+4+East&ordering=date",
			wantCode: http.StatusOK,
			extra:    []string{east1.ID, east2.ID},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, token)
			app.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d; body = %s", rec.Code, tt.wantCode, rec.Body.String())
			}

			var reports []report.Report
			if err := json.Unmarshal(rec.Body.Bytes(), &reports); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			wantIDs := tt.extra.([]string)
			if len(reports) != len(wantIDs) {
				t.Fatalf("len(reports) = %d, want %d", len(reports), len(wantIDs))
			}
			for i, id := range wantIDs {
				if reports[i].ID != id {
					t.Errorf("reports[%d].ID = %q, want %q", i, reports[i].ID, id)
				}
			}
		})
	}
}
