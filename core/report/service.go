package report

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/directory"
)

var (
	// errors
	ErrNotFound         = errors.New("report not found")
	ErrPeriodNotFound   = errors.New("period not found")
	ErrAlreadySubmitted = errors.New("report already submitted")
	ErrDuplicateReport  = errors.New("a report already exists for this class and date")
	ErrSignForbidden    = errors.New("you can only sign periods you teach")
)

type (
	Repository interface {
		// CreateReport persists a new report, assigning its ID. It fails with
		// ErrDuplicateReport when a report already exists for the same
		// (class name, date) pair; this constraint is the duplicate-prevention
		// backstop and must hold under concurrent inserts.
		CreateReport(ctx context.Context, rpt Report) (Report, error)
		GetReportByID(ctx context.Context, id string) (Report, error)
		GetReportByKey(ctx context.Context, className string, date core.Date) (Report, error)
		// FilterReports applies AND operation on available QueryFilter fields.
		FilterReports(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Report, error)
		UpdateReport(ctx context.Context, rpt Report) (Report, error)
	}

	ServiceInterface interface {
		SaveDraft(ctx context.Context, dr DraftReport) (Report, error)
		Resolve(ctx context.Context, className string, date core.Date, actingTeacherID string) (Report, error)
		SignPeriod(ctx context.Context, id string, number int, status SignatureStatus, acting Actor) (Report, error)
		Submit(ctx context.Context, id string) (Report, error)
		GetByID(ctx context.Context, id string) (Report, error)
		GetByKey(ctx context.Context, className string, date core.Date) (Report, error)
		Filter(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Report, error)
	}

	service struct {
		repo    Repository
		dir     directory.ServiceInterface
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, dir directory.ServiceInterface, mailSvc core.EmailService, conf *core.Config) ServiceInterface {
	return &service{
		repo:    repo,
		dir:     dir,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

// SaveDraft creates or updates the report for (dr.ClassName, dr.Date).
// The caller-supplied periods replace the stored ones after normalization;
// an existing report keeps its ID, status and creation time. A create that
// loses a concurrent-insert race surfaces ErrDuplicateReport; the caller
// retries by re-fetching the key (see Resolve).
func (svc *service) SaveDraft(ctx context.Context, dr DraftReport) (Report, error) {
	now := time.Now().UTC()

	existing, err := svc.repo.GetReportByKey(ctx, dr.ClassName, dr.Date)
	switch errors.Cause(err) {
	case nil:
		if dr.ClassTeacherID != "" {
			existing.ClassTeacherID = dr.ClassTeacherID
		}
		if periods := dr.periods(); len(periods) > 0 {
			periods = NormalizePeriods(periods, dr.Acting.TeacherID)
			if err = checkSignedPeriods(periods, dr.Acting); err != nil {
				return Report{}, err
			}
			existing.Periods = periods
		} else {
			existing.Periods = NormalizePeriods(existing.Periods, dr.Acting.TeacherID)
		}
		existing.RecomputeTotal()
		existing.UpdatedAt = now
		rpt, err := svc.repo.UpdateReport(ctx, existing)
		return rpt, errors.Wrap(err, "updating report")

	case ErrNotFound:
		periods := dr.periods()
		if len(periods) == 0 {
			periods = make([]Period, svc.conf.Report.DefaultPeriodCount)
		}
		periods = NormalizePeriods(periods, dr.Acting.TeacherID)
		if err = checkSignedPeriods(periods, dr.Acting); err != nil {
			return Report{}, err
		}
		rpt := Report{
			Date:           dr.Date,
			ClassName:      dr.ClassName,
			ClassTeacherID: svc.defaultClassTeacher(ctx, dr),
			Status:         StatusDraft,
			Periods:        periods,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		rpt.RecomputeTotal()
		rpt, err = svc.repo.CreateReport(ctx, rpt)
		if errors.Cause(err) == ErrDuplicateReport {
			return Report{}, err
		}
		return rpt, errors.Wrap(err, "creating report")

	default:
		return Report{}, errors.Wrap(err, "finding report by key")
	}
}

// checkSignedPeriods rejects payload periods marked signed by an actor who
// does not teach them.
func checkSignedPeriods(periods []Period, acting Actor) error {
	for _, p := range periods {
		if p.Signature == SignatureSigned && !acting.MaySign(p) {
			return ErrSignForbidden
		}
	}
	return nil
}

// defaultClassTeacher resolves the class teacher of record for a new report:
// the explicit payload value wins, then the classroom directory entry, then
// the acting teacher.
func (svc *service) defaultClassTeacher(ctx context.Context, dr DraftReport) string {
	if dr.ClassTeacherID != "" {
		return dr.ClassTeacherID
	}
	if svc.dir != nil {
		if room, err := svc.dir.GetClassroomByName(ctx, dr.ClassName); err == nil && room.ClassTeacherID != "" {
			return room.ClassTeacherID
		}
	}
	return dr.Acting.TeacherID
}

// Resolve finds the report for (className, date), creating a default draft
// when none exists yet. A caller that loses the concurrent-create race adopts
// the winner's row instead of erroring; at most one report per key ever lives
// in storage.
func (svc *service) Resolve(ctx context.Context, className string, date core.Date, actingTeacherID string) (Report, error) {
	className = core.CleanString(className)

	rpt, err := svc.repo.GetReportByKey(ctx, className, date)
	if err == nil {
		return rpt, nil
	}
	if errors.Cause(err) != ErrNotFound {
		return Report{}, errors.Wrap(err, "finding report by key")
	}

	rpt, err = svc.SaveDraft(ctx, DraftReport{
		Date:      date,
		ClassName: className,
		Acting:    Actor{TeacherID: actingTeacherID},
	})
	if errors.Cause(err) == ErrDuplicateReport {
		// lost the insert race; adopt the winner's row
		rpt, err = svc.repo.GetReportByKey(ctx, className, date)
		return rpt, errors.Wrap(err, "adopting existing report")
	}
	return rpt, err
}

// SignPeriod toggles one period's signature. Marking a period signed is
// restricted to its subject teacher; admins may sign any period. Unsigning
// is not restricted.
func (svc *service) SignPeriod(ctx context.Context, id string, number int, status SignatureStatus, acting Actor) (Report, error) {
	rpt, err := svc.repo.GetReportByID(ctx, id)
	if err != nil {
		return Report{}, errors.Wrap(err, "finding report")
	}
	if rpt.IsSubmitted() {
		return Report{}, ErrAlreadySubmitted
	}
	if status == SignatureSigned && 1 <= number && number <= len(rpt.Periods) && !acting.MaySign(rpt.Periods[number-1]) {
		return Report{}, ErrSignForbidden
	}
	if err = rpt.SetPeriodSignature(number, status); err != nil {
		return Report{}, err
	}
	rpt.UpdatedAt = time.Now().UTC()
	rpt, err = svc.repo.UpdateReport(ctx, rpt)
	return rpt, errors.Wrap(err, "updating report")
}

// Submit finalizes the report. Submitting an already-submitted report
// re-returns its current state instead of erroring so a caller retrying
// after a timeout cannot get stuck.
func (svc *service) Submit(ctx context.Context, id string) (Report, error) {
	rpt, err := svc.repo.GetReportByID(ctx, id)
	if err != nil {
		return Report{}, errors.Wrap(err, "finding report")
	}
	if rpt.IsSubmitted() {
		return rpt, nil
	}
	if err = rpt.Submit(); err != nil {
		return Report{}, err
	}
	if rpt, err = svc.repo.UpdateReport(ctx, rpt); err != nil {
		return Report{}, errors.Wrap(err, "updating report")
	}
	svc.sendSubmissionReceipt(ctx, rpt)
	return rpt, nil
}

func (svc *service) GetByID(ctx context.Context, id string) (Report, error) {
	return svc.repo.GetReportByID(ctx, id)
}

func (svc *service) GetByKey(ctx context.Context, className string, date core.Date) (Report, error) {
	return svc.repo.GetReportByKey(ctx, core.CleanString(className), date)
}

func (svc *service) Filter(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Report, error) {
	filter.Clean()
	return svc.repo.FilterReports(ctx, filter, ordering...)
}

// sendSubmissionReceipt mails the class teacher of record. Best effort; a
// missing directory entry never fails the submission.
func (svc *service) sendSubmissionReceipt(ctx context.Context, rpt Report) {
	if svc.mailSvc == nil || svc.dir == nil {
		return
	}
	tch, err := svc.dir.GetTeacherByID(ctx, rpt.ClassTeacherID)
	if err != nil || tch.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: tch.Name, Address: tch.Email}},
		Subject:      fmt.Sprintf("Daily report submitted for %s on %s", rpt.ClassName, rpt.Date),
		TemplateName: "report-submitted",
		TemplateData: struct {
			TeacherName  string
			ClassName    string
			Date         string
			PeriodsTotal int
			PeriodCount  int
		}{
			TeacherName:  tch.Name,
			ClassName:    rpt.ClassName,
			Date:         rpt.Date.String(),
			PeriodsTotal: rpt.TotalPeriodsTaught,
			PeriodCount:  len(rpt.Periods),
		},
	})
}
