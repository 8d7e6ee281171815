package report

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

var (
	sigStatusTag  = "sigstatus"
	sigStatusText = "signature_status must be one of: absent, signed"

	dateRequiredTag  = "datereq"
	dateRequiredText = "a valid date is required"

	densePeriodsTag  = "denseperiods"
	densePeriodsText = "period_number values must be 1..N in order with no gaps"
)

// InitValidators registers the report domain validators and their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(sigStatusTag, sigStatusValidation)
	core.RegisterCustomTranslation(validate, translator, sigStatusTag, sigStatusText)

	validate.RegisterStructValidation(draftReportStructValidation, DraftReport{})
	core.RegisterCustomTranslation(validate, translator, dateRequiredTag, dateRequiredText)
	core.RegisterCustomTranslation(validate, translator, densePeriodsTag, densePeriodsText)
}

// sigStatusValidation checks a SignatureStatus enum value.
func sigStatusValidation(fl validator.FieldLevel) bool {
	return SignatureStatus(fl.Field().String()).Valid()
}

// draftReportStructValidation rejects payloads whose explicitly supplied
// period numbers are not exactly 1..N by position. Unset numbers (0) are
// fine; normalization assigns them.
func draftReportStructValidation(sl validator.StructLevel) {
	dr := sl.Current().Interface().(DraftReport)

	if dr.Date.IsZero() {
		sl.ReportError(dr.Date, "date", "Date", dateRequiredTag, "")
	}

	for i, p := range dr.Periods {
		if p.Number != 0 && p.Number != i+1 {
			sl.ReportError(dr.Periods, "periods", "Periods", densePeriodsTag, "")
			return
		}
	}
}
