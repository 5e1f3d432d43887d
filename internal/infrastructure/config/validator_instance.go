package config

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern   = regexp.MustCompile(`^\d+\.\d+\.\d+(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	entryNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	nodeNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_ -]*$`)
)

// validatorInstance configures and returns the shared validator instance
// used across the config package, grounded on the teacher's
// internal/config/validator_instance.go (same sync.Once-guarded singleton,
// same style of regex-backed custom rules registered once per process).
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("entry_name", func(fl validator.FieldLevel) bool {
			return entryNamePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("entry_key", func(fl validator.FieldLevel) bool {
			return entryKeyPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("node_name", func(fl validator.FieldLevel) bool {
			return nodeNamePattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// GetValidator returns the configured validator instance for use outside
// the config package (e.g. application-layer tests asserting on the same
// rules the loader enforces).
func GetValidator() *validator.Validate {
	return validatorInstance()
}
