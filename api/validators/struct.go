package validators

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/validation"
)

var validate = validation.Shared()

// Field error messages, keyed by tag. %s receives the tag parameter.
var tagMessages = map[string]string{
	"required":       "est requis",
	"min":            "doit être au moins %s",
	"gte":            "doit être au moins %s",
	"max":            "doit être au plus %s",
	"lte":            "doit être au plus %s",
	"email":          "doit être un email valide",
	"exemplar_state": "doit être neuf, très bon, bon ou occasion",
	"sale_status":    "doit être en cours, finalisé ou annulé",
	"role":           "doit être admin ou gestionnaire",
}

// Struct validates an already decoded value. Failures come back as one
// VALIDATION_ERROR whose details map field names to messages.
func Struct(dest any) error {
	err := validate.Struct(dest)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "données invalides")
	}
	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = messageFor(fe)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "données invalides").WithDetails(details)
}

func messageFor(fe validator.FieldError) string {
	tmpl, ok := tagMessages[fe.Tag()]
	if !ok {
		return "est invalide"
	}
	if strings.Contains(tmpl, "%s") {
		return fmt.Sprintf(tmpl, fe.Param())
	}
	return tmpl
}
