package client

import "fmt"

// ErrLoginRequired matches any *LoginRequiredError with errors.Is.
var ErrLoginRequired = &LoginRequiredError{RedirectTo: LoginPath}

// LoginRequiredError is returned after the API answered 401 or 403, or when
// no identity is available locally. The stored token has been cleared.
type LoginRequiredError struct {
	Status     int
	RedirectTo string
}

func (e *LoginRequiredError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("authentification requise (HTTP %d)", e.Status)
	}
	return "authentification requise"
}

func (e *LoginRequiredError) Is(target error) bool {
	_, ok := target.(*LoginRequiredError)
	return ok
}

// APIError is any other failed call. Message is what gets shown to the user:
// the server-provided message when there is one, a generic one otherwise.
type APIError struct {
	Status  int
	Code    string
	Action  string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func fallbackMessage(action string) string {
	if action == "" {
		return "Erreur lors de la requête"
	}
	return "Erreur lors " + action
}
