package testutil

import (
	"context"
	"net/mail"
	"testing"
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/report"
)

// NewConfig returns a self-contained test configuration that never touches
// the environment.
func NewConfig() *core.Config {
	return &core.Config{
		Env:              "TEST",
		Build:            "test",
		Debug:            true,
		TestMode:         true,
		AppName:          "Darasa",
		SecretKey:        "s3cr3t-t3st-k3y",
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Address: "noreply@localhost"},
		Server: core.ServerConfig{
			Host:               "localhost",
			Addr:               ":0",
			ShutdownTimeout:    5 * time.Second,
			JWTExpirationDelta: time.Hour,
		},
		Report: core.ReportConfig{DefaultPeriodCount: 8},
	}
}

// CreateReport persists a report through the repository, failing the test on error.
func CreateReport(
	t *testing.T,
	repo report.Repository,
	className string,
	date core.Date,
	classTeacherID string,
	periods []report.Period,
	submitted bool,
) report.Report {
	t.Helper()

	now := time.Now().UTC()
	rpt := report.Report{
		Date:           date,
		ClassName:      className,
		ClassTeacherID: classTeacherID,
		Status:         report.StatusDraft,
		Periods:        report.NormalizePeriods(periods, classTeacherID),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if submitted {
		rpt.Status = report.StatusSubmitted
	}
	rpt.RecomputeTotal()

	rpt, err := repo.CreateReport(context.Background(), rpt)
	if err != nil {
		t.Fatalf("CreateReport(): %v", err)
	}
	return rpt
}
