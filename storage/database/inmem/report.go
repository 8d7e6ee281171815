package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/report"
)

type reportRepository struct {
	db *reportTable
}

var _ report.Repository = (*reportRepository)(nil)

func NewReportRepository(db *DB) report.Repository {
	return &reportRepository{db: db.report}
}

func (repo *reportRepository) query() []report.Report {
	reports := make([]report.Report, 0, len(repo.db.table))
	for _, r := range repo.db.table {
		reports = append(reports, clone(*r))
	}
	return reports
}

// clone deep-copies periods so callers cannot mutate stored state.
func clone(rpt report.Report) report.Report {
	periods := make([]report.Period, len(rpt.Periods))
	copy(periods, rpt.Periods)
	rpt.Periods = periods
	return rpt
}

func (repo *reportRepository) CreateReport(_ context.Context, rpt report.Report) (report.Report, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// natural-key uniqueness: this check and the insert share the table lock,
	// so a losing concurrent insert always fails here
	for _, existing := range repo.db.table {
		if existing.ClassName == rpt.ClassName && existing.Date.Equal(rpt.Date) {
			return report.Report{}, report.ErrDuplicateReport
		}
	}

	rpt.ID = uuid.New().String()
	stored := clone(rpt)
	repo.db.table[rpt.ID] = &stored
	return rpt, nil
}

func (repo *reportRepository) GetReportByID(_ context.Context, id string) (report.Report, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if rpt, ok := repo.db.table[id]; ok {
		return clone(*rpt), nil
	}
	return report.Report{}, report.ErrNotFound
}

func (repo *reportRepository) GetReportByKey(_ context.Context, className string, date core.Date) (report.Report, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, rpt := range repo.db.table {
		if rpt.ClassName == className && rpt.Date.Equal(date) {
			return clone(*rpt), nil
		}
	}
	return report.Report{}, report.ErrNotFound
}

func (repo *reportRepository) FilterReports(_ context.Context, filter report.QueryFilter, ordering ...core.DBOrdering) ([]report.Report, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	reports := make([]report.Report, 0)
	for _, rpt := range repo.query() {
		if matches(rpt, filter) {
			reports = append(reports, rpt)
		}
	}
	sortReports(reports, ordering)
	return reports, nil
}

func matches(rpt report.Report, filter report.QueryFilter) bool {
	if filter.ClassName != "" && rpt.ClassName != filter.ClassName {
		return false
	}
	if filter.ClassTeacherID != "" && rpt.ClassTeacherID != filter.ClassTeacherID {
		return false
	}
	if filter.Status != "" && rpt.Status != filter.Status {
		return false
	}
	if !filter.DateFrom.IsZero() && rpt.Date.Before(filter.DateFrom.Time) {
		return false
	}
	if !filter.DateTo.IsZero() && rpt.Date.After(filter.DateTo.Time) {
		return false
	}
	if filter.SubjectTeacherID != "" {
		var taught bool
		for _, p := range rpt.Periods {
			if p.SubjectTeacherID == filter.SubjectTeacherID {
				taught = true
				break
			}
		}
		if !taught {
			return false
		}
	}
	return true
}

// sortReports orders by the first recognized ordering field;
// default is most recent date first.
func sortReports(reports []report.Report, ordering []core.DBOrdering) {
	ord := core.DBOrdering{Field: "date", Ascending: false}
	if len(ordering) > 0 {
		ord = ordering[0]
	}
	sort.SliceStable(reports, func(i, j int) bool {
		var less bool
		switch ord.Field {
		case "class_name":
			less = reports[i].ClassName < reports[j].ClassName
		case "updated_at":
			less = reports[i].UpdatedAt.Before(reports[j].UpdatedAt)
		default:
			less = reports[i].Date.Before(reports[j].Date.Time)
		}
		if ord.Ascending {
			return less
		}
		return !less
	})
}

func (repo *reportRepository) UpdateReport(_ context.Context, rpt report.Report) (report.Report, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[rpt.ID]; !ok {
		return report.Report{}, report.ErrNotFound
	}
	stored := clone(rpt)
	repo.db.table[rpt.ID] = &stored
	return rpt, nil
}
