package server

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/poiesic/passage/core"
)

var validate = validator.New()

// queryRequest is the body of POST /api/v1/query.
type queryRequest struct {
	Question string        `json:"question" validate:"required"`
	TopK     int           `json:"topK" validate:"gte=0"`
	Filters  *queryFilters `json:"filters"`
}

type queryFilters struct {
	Version string   `json:"version"`
	Source  string   `json:"source"`
	Tags    []string `json:"tags"`
}

func (f *queryFilters) toFilter() *core.QueryFilter {
	if f == nil {
		return nil
	}
	return &core.QueryFilter{
		Version: f.Version,
		Source:  f.Source,
		Tags:    f.Tags,
	}
}

// queryResponse wraps the ordered retrieval results.
type queryResponse struct {
	Items []core.RetrievedItem `json:"items"`
}

// urlsRequest is the body of POST /api/v1/ingest/urls.
type urlsRequest struct {
	URLs    []string `json:"urls" validate:"required,min=1,dive,url"`
	Version string   `json:"version"`
	Tags    string   `json:"tags"`
	Source  string   `json:"source"`
}

// ValidationError reports per-field validation failures as a 422 body.
type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

// checkStruct runs validator tags over a request body and converts failures
// into a ValidationError.
func checkStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		fields[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
	}
	return ValidationError{
		Status: fiber.StatusUnprocessableEntity,
		Errors: fields,
	}
}
