package deal

import (
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/startsmart/property/core"
)

// inputsValidate checks the deal figures with their own translations, eg. "must be 100 or less".
var inputsValidate, inputsTranslator = newInputsValidator()

func newInputsValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	core.InitValidators(validate, translator)
	core.RegisterParamTranslation(validate, translator, "gt", "must be greater than {0}")
	core.RegisterParamTranslation(validate, translator, "gte", "must be greater than or equal to {0}")
	core.RegisterParamTranslation(validate, translator, "lte", "must be {0} or less")
	return validate, translator
}

// toValidationError converts validator errors into a core.ValidationError with translated field messages.
func toValidationError(err error) error {
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	flds := make([]core.FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		flds = append(flds, core.FieldError{Field: fe.Field(), Error: fe.Translate(inputsTranslator)})
	}
	return core.NewValidationError(nil, flds...)
}

// checkVar validates a single value against tag, returning the translated message or "".
func checkVar(v interface{}, tag string) string {
	err := inputsValidate.Var(v, tag)
	if err == nil {
		return ""
	}
	if vErrs, ok := err.(validator.ValidationErrors); ok && len(vErrs) > 0 {
		return vErrs[0].Translate(inputsTranslator)
	}
	return err.Error()
}

var loanTermTag = "gt=0,lte=" + strconv.Itoa(MaxLoanTermYears)
