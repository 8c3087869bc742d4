package secret

import "errors"

var (
	// ErrMissingEnv is returned when a ${VAR} reference is unset.
	ErrMissingEnv = errors.New("secret: missing environment variables")

	// ErrUnknownProvider is returned for a reference to an unregistered provider.
	ErrUnknownProvider = errors.New("secret: provider not registered")

	// ErrEmptySecret is returned when a provider resolves to "".
	ErrEmptySecret = errors.New("secret: empty value")
)
