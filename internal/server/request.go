package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/jobconnect/internal/server/middleware"
)

// maxRequestBytes caps JSON request bodies.
const maxRequestBytes = 1 << 20

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var validate = newValidator()

// decodeJSON reads the body into dst and validates its struct tags. An empty
// body decodes as an empty object.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		return &ErrValidation{Field: "body", Message: "Invalid request body"}
	}
	if err := validate.Struct(dst); err != nil {
		return extractValidationErrors(err)
	}
	return nil
}

// extractValidationErrors returns the first field error from the validator.
func extractValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ErrValidation{Field: ve.Field(), Message: ve.Tag()}
	}
	return &ErrValidation{Field: "body", Message: "invalid request"}
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: "invalid id"}
	}
	return id, nil
}

// queryInt parses an integer query parameter, returning def when it is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ErrValidation{Field: name, Message: "must be an integer"}
	}
	return n, nil
}

// queryUUID parses an optional UUID query parameter.
func queryUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: "invalid id"}
	}
	return id, nil
}

// callerID is the authenticated user of the request.
func callerID(r *http.Request) (uuid.UUID, error) {
	id, err := middleware.GetUserID(r)
	if err != nil {
		return uuid.Nil, &ErrUnauthorized{}
	}
	return id, nil
}
