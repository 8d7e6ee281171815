package report

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

// SignatureStatus tells whether a period was confirmed as taught.
type SignatureStatus string

const (
	SignatureAbsent SignatureStatus = "absent"
	SignatureSigned SignatureStatus = "signed"
)

func (s SignatureStatus) Valid() bool {
	return s == SignatureAbsent || s == SignatureSigned
}

// Status is the lifecycle state of a daily report.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
)

// PlaceholderText fills subject/topic fields left empty by the teacher.
const PlaceholderText = "N/A"

type Period struct {
	Number           int             `json:"period_number"`
	Subject          string          `json:"subject"`
	Topic            string          `json:"topic"`
	SubjectTeacherID string          `json:"subject_teacher_id"`
	Signature        SignatureStatus `json:"signature_status"`
	Remarks          string          `json:"remarks,omitempty"`
}

// Report is one classroom's attendance/teaching log for one calendar date.
// (ClassName, Date) is the natural key; ID is a surrogate assigned on first save.
type Report struct {
	ID                 string    `json:"id"`
	Date               core.Date `json:"date"`
	ClassName          string    `json:"class_name"`
	ClassTeacherID     string    `json:"class_teacher_id"`
	Status             Status    `json:"status"`
	Periods            []Period  `json:"periods"`
	TotalPeriodsTaught int       `json:"total_periods_taught"`
	CreatedAt          time.Time `json:"created_at"` // UTC
	UpdatedAt          time.Time `json:"updated_at"` // UTC
}

func (r *Report) IsSubmitted() bool { return r.Status == StatusSubmitted }

// RecomputeTotal derives TotalPeriodsTaught from the periods; it is never
// trusted from caller input.
func (r *Report) RecomputeTotal() {
	var total int
	for _, p := range r.Periods {
		if p.Signature == SignatureSigned {
			total++
		}
	}
	r.TotalPeriodsTaught = total
}

// SetPeriodSignature replaces one period's signature status.
// Periods are addressed by their 1-based number.
func (r *Report) SetPeriodSignature(number int, status SignatureStatus) error {
	if number < 1 || number > len(r.Periods) {
		return ErrPeriodNotFound
	}
	r.Periods[number-1].Signature = status
	r.RecomputeTotal()
	return nil
}

// Submit transitions the report to its terminal submitted state.
func (r *Report) Submit() error {
	if r.IsSubmitted() {
		return ErrAlreadySubmitted
	}
	r.Status = StatusSubmitted
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// NormalizePeriods returns a corrected copy of the given periods: numbers are
// reassigned densely by position (1-based), empty subject/topic become
// PlaceholderText, a missing subject teacher defaults to fallbackTeacherID
// and a missing signature defaults to absent. Idempotent.
func NormalizePeriods(periods []Period, fallbackTeacherID string) []Period {
	out := make([]Period, len(periods))
	for i, p := range periods {
		p.Number = i + 1
		p.Subject = core.CleanString(p.Subject)
		p.Topic = core.CleanString(p.Topic)
		p.Remarks = core.CleanString(p.Remarks)
		if p.Subject == "" {
			p.Subject = PlaceholderText
		}
		if p.Topic == "" {
			p.Topic = PlaceholderText
		}
		if p.SubjectTeacherID == "" {
			p.SubjectTeacherID = fallbackTeacherID
		}
		if p.Signature == "" {
			p.Signature = SignatureAbsent
		}
		out[i] = p
	}
	return out
}

// DefaultPeriods returns count blank periods, all absent, taught by teacherID.
func DefaultPeriods(count int, teacherID string) []Period {
	return NormalizePeriods(make([]Period, count), teacherID)
}

// NewPeriod is one period entry within a draft save payload.
type NewPeriod struct {
	Number           int             `json:"period_number" validate:"omitempty,min=1"`
	Subject          string          `json:"subject"`
	Topic            string          `json:"topic"`
	SubjectTeacherID string          `json:"subject_teacher_id"`
	Signature        SignatureStatus `json:"signature_status" validate:"omitempty,sigstatus"`
	Remarks          string          `json:"remarks"`
}

func (np NewPeriod) period() Period {
	return Period{
		Number:           np.Number,
		Subject:          np.Subject,
		Topic:            np.Topic,
		SubjectTeacherID: np.SubjectTeacherID,
		Signature:        np.Signature,
		Remarks:          np.Remarks,
	}
}

// Actor identifies the authenticated teacher performing an operation.
// It always comes from the verified claims, never from the payload.
type Actor struct {
	TeacherID string
	IsAdmin   bool
}

// MaySign tells whether the actor may mark a period as signed.
// Only the period's subject teacher signs it; admins may sign any period.
func (a Actor) MaySign(p Period) bool {
	return a.IsAdmin || p.SubjectTeacherID == a.TeacherID
}

// DraftReport contains the information needed to create or update a draft
// report for a (class, date) pair.
type DraftReport struct {
	Date           core.Date   `json:"date"`
	ClassName      string      `json:"class_name" validate:"required"`
	ClassTeacherID string      `json:"class_teacher_id"`
	Periods        []NewPeriod `json:"periods" validate:"omitempty,max=12,dive"`

	Acting Actor `json:"-"`
}

func (dr *DraftReport) Validate(validate *validator.Validate) error {
	dr.ClassName = core.CleanString(dr.ClassName)
	return validate.Struct(dr)
}

func (dr DraftReport) periods() []Period {
	periods := make([]Period, 0, len(dr.Periods))
	for _, np := range dr.Periods {
		periods = append(periods, np.period())
	}
	return periods
}

// SignPeriodRequest sets one period's signature status.
type SignPeriodRequest struct {
	Signature SignatureStatus `json:"signature_status" validate:"required,sigstatus"`
}

func (sp SignPeriodRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(sp)
}

// QueryFilter narrows report listings. All set fields are ANDed.
type QueryFilter struct {
	ClassName        string    `query:"class_name"`
	ClassTeacherID   string    `query:"class_teacher_id"`
	SubjectTeacherID string    `query:"subject_teacher_id"`
	Status           Status    `query:"status"`
	DateFrom         core.Date `query:"date_from"`
	DateTo           core.Date `query:"date_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.ClassName == "" && qf.ClassTeacherID == "" && qf.SubjectTeacherID == "" &&
		qf.Status == "" && qf.DateFrom.IsZero() && qf.DateTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.ClassName = core.CleanString(qf.ClassName)
}
