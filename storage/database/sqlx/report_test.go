package sqlxrepos

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/report"
)

var errRowsAffected = errors.New("rows affected unavailable")

// rowsErrDriver backs a connection whose statements execute but whose results
// cannot report the affected row count.
type rowsErrDriver struct{}

func (rowsErrDriver) Open(string) (driver.Conn, error) { return rowsErrConn{}, nil }

type rowsErrConn struct{}

func (rowsErrConn) Prepare(string) (driver.Stmt, error) { return rowsErrStmt{}, nil }
func (rowsErrConn) Close() error                        { return nil }
func (rowsErrConn) Begin() (driver.Tx, error)           { return nil, driver.ErrSkip }

type rowsErrStmt struct{}

func (rowsErrStmt) Close() error                               { return nil }
func (rowsErrStmt) NumInput() int                              { return -1 }
func (rowsErrStmt) Exec([]driver.Value) (driver.Result, error) { return rowsErrResult{}, nil }
func (rowsErrStmt) Query([]driver.Value) (driver.Rows, error)  { return nil, driver.ErrSkip }

type rowsErrResult struct{}

func (rowsErrResult) LastInsertId() (int64, error) { return 0, nil }
func (rowsErrResult) RowsAffected() (int64, error) { return 0, errRowsAffected }

func Test_reportRepository_UpdateReport_rowsAffectedError(t *testing.T) {
	sql.Register("rowserr", rowsErrDriver{})
	db, err := sql.Open("rowserr", "")
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := NewReportRepository(db)
	_, err = repo.UpdateReport(context.Background(), report.Report{
		ID:        "r-1",
		Date:      core.NewDate(2026, 3, 9),
		ClassName: "Grade 4 East",
		Status:    report.StatusDraft,
	})
	if errors.Cause(err) != errRowsAffected {
		t.Errorf("UpdateReport() error = %v, wantErr %v", err, errRowsAffected)
	}
}
