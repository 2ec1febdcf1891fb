package validators

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
)

// maxBodyBytes bounds JSON bodies; CSV uploads go through multipart instead.
const maxBodyBytes = 1 << 20

// DecodeJSONBody decodes exactly one JSON value into dest, rejecting unknown
// fields and trailing data, then runs the struct validation tags.
func DecodeJSONBody(r *http.Request, dest any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer func() { _, _ = io.Copy(io.Discard, body) }()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return badBody(err)
	}
	if dec.More() {
		return badBody(errors.New("unexpected data after JSON body"))
	}
	return Struct(dest)
}

func badBody(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "corps de requête trop volumineux")
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "corps de requête invalide").
		WithDetails(map[string]any{"error": err.Error()})
}
