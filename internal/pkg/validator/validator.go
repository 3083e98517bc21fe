package validator

// Validator validates tagged structs and returns a field-keyed error on failure.
type Validator interface {
	Validate(data any) error
}
