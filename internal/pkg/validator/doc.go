// Package validator provides a small validation abstraction for request
// structs.
//
// Business code depends on the Validator interface; V10Validator implements it
// with go-playground/validator v10, English messages and a "password" rule
// whose minimum length is configurable.
package validator
