// Package validator validates request and domain structs through struct tags.
//
// Business code depends on the Validator interface; the go-playground v10
// implementation reports failures as a snake_case field to message map.
package validator
