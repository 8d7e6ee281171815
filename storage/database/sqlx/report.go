package sqlxrepos

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/report"
)

// pq error code for unique constraint violations
const uniqueViolation = "23505"

type reportRepository struct {
	db *sqlx.DB
}

var _ report.Repository = (*reportRepository)(nil)

func NewReportRepository(db *sql.DB) *reportRepository {
	return &reportRepository{db: sqlx.NewDb(db, "postgres")}
}

// periodsJSON maps a report's periods to a single JSONB column.
type periodsJSON []report.Period

func (p periodsJSON) Value() (driver.Value, error) { return json.Marshal(p) }

func (p *periodsJSON) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return errors.Errorf("cannot scan %T into periods", src)
	}
	return json.Unmarshal(b, p)
}

type reportRow struct {
	ID                 string      `db:"id"`
	Date               core.Date   `db:"date"`
	ClassName          string      `db:"class_name"`
	ClassTeacherID     string      `db:"class_teacher_id"`
	Status             string      `db:"status"`
	Periods            periodsJSON `db:"periods"`
	TotalPeriodsTaught int         `db:"total_periods_taught"`
	CreatedAt          time.Time   `db:"created_at"`
	UpdatedAt          time.Time   `db:"updated_at"`
}

func (row reportRow) report() report.Report {
	return report.Report{
		ID:                 row.ID,
		Date:               row.Date,
		ClassName:          row.ClassName,
		ClassTeacherID:     row.ClassTeacherID,
		Status:             report.Status(row.Status),
		Periods:            row.Periods,
		TotalPeriodsTaught: row.TotalPeriodsTaught,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

func newReportRow(rpt report.Report) reportRow {
	return reportRow{
		ID:                 rpt.ID,
		Date:               rpt.Date,
		ClassName:          rpt.ClassName,
		ClassTeacherID:     rpt.ClassTeacherID,
		Status:             string(rpt.Status),
		Periods:            rpt.Periods,
		TotalPeriodsTaught: rpt.TotalPeriodsTaught,
		CreatedAt:          rpt.CreatedAt.UTC(),
		UpdatedAt:          rpt.UpdatedAt.UTC(),
	}
}

func (repo *reportRepository) CreateReport(ctx context.Context, rpt report.Report) (report.Report, error) {
	rpt.ID = uuid.New().String()
	row := newReportRow(rpt)

	query := `
		INSERT INTO daily_report
			(id, date, class_name, class_teacher_id, status, periods, total_periods_taught, created_at, updated_at)
		VALUES
			(:id, :date, :class_name, :class_teacher_id, :status, :periods, :total_periods_taught, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, row); err != nil {
		// the UNIQUE (class_name, date) constraint is the duplicate-prevention
		// backstop; a losing concurrent insert lands here
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return report.Report{}, report.ErrDuplicateReport
		}
		return report.Report{}, errors.Wrap(err, "inserting report")
	}
	return rpt, nil
}

func (repo *reportRepository) GetReportByID(ctx context.Context, id string) (report.Report, error) {
	var row reportRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM daily_report WHERE id = $1`, id)
	if err != nil {
		return report.Report{}, repo.trapNoRowsErr(err, "getting report by id")
	}
	return row.report(), nil
}

func (repo *reportRepository) GetReportByKey(ctx context.Context, className string, date core.Date) (report.Report, error) {
	var row reportRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT * FROM daily_report WHERE class_name = $1 AND date = $2`, className, date)
	if err != nil {
		return report.Report{}, repo.trapNoRowsErr(err, "getting report by key")
	}
	return row.report(), nil
}

func (repo *reportRepository) FilterReports(ctx context.Context, filter report.QueryFilter, ordering ...core.DBOrdering) ([]report.Report, error) {
	query := `SELECT * FROM daily_report WHERE 1=1`
	args := make([]interface{}, 0)

	addArg := func(clause string, arg interface{}) {
		args = append(args, arg)
		query += fmt.Sprintf(clause, len(args))
	}

	if filter.ClassName != "" {
		addArg(" AND class_name = $%d", filter.ClassName)
	}
	if filter.ClassTeacherID != "" {
		addArg(" AND class_teacher_id = $%d", filter.ClassTeacherID)
	}
	if filter.Status != "" {
		addArg(" AND status = $%d", string(filter.Status))
	}
	if !filter.DateFrom.IsZero() {
		addArg(" AND date >= $%d", filter.DateFrom)
	}
	if !filter.DateTo.IsZero() {
		addArg(" AND date <= $%d", filter.DateTo)
	}
	if filter.SubjectTeacherID != "" {
		match, err := json.Marshal([]map[string]string{{"subject_teacher_id": filter.SubjectTeacherID}})
		if err != nil {
			return nil, errors.Wrap(err, "building periods filter")
		}
		addArg(" AND periods @> $%d::jsonb", string(match))
	}
	query += orderBy(ordering)

	rows := make([]reportRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering reports")
	}
	reports := make([]report.Report, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, row.report())
	}
	return reports, nil
}

// orderBy whitelists orderable columns; unknown fields are dropped.
func orderBy(ordering []core.DBOrdering) string {
	allowed := map[string]bool{"date": true, "class_name": true, "updated_at": true, "total_periods_taught": true}
	clauses := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		if allowed[ord.Field] {
			clauses = append(clauses, ord.String())
		}
	}
	if len(clauses) == 0 {
		return ` ORDER BY date DESC, class_name ASC`
	}
	return ` ORDER BY ` + strings.Join(clauses, ", ")
}

func (repo *reportRepository) UpdateReport(ctx context.Context, rpt report.Report) (report.Report, error) {
	row := newReportRow(rpt)
	query := `
		UPDATE daily_report
		SET class_teacher_id = :class_teacher_id,
			status = :status,
			periods = :periods,
			total_periods_taught = :total_periods_taught,
			updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return report.Report{}, errors.Wrap(err, "updating report")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return report.Report{}, errors.Wrap(err, "checking update result")
	}
	if n == 0 {
		return report.Report{}, report.ErrNotFound
	}
	return rpt, nil
}

// trapNoRowsErr maps psql "no rows" err to report.ErrNotFound
func (repo *reportRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return report.ErrNotFound
	}
	return errors.Wrap(err, msg)
}
