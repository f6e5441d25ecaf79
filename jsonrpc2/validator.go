package jsonrpc2

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Val validates structs passed through Args.Struct and the client.
var Val = validator.New(validator.WithRequiredStructEnabled())

func validateIfStruct(v any) error {
	if v == nil {
		return nil
	}
	if err := Val.Struct(v); err != nil {
		var valErr *validator.InvalidValidationError
		if !errors.As(err, &valErr) {
			return err
		}
		// Not a struct
	}

	return nil
}
