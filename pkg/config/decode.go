package config

import (
	"fmt"

	"cuelang.org/go/cue/cuecontext"
	"github.com/go-playground/validator/v10"
)

var structValidator = validator.New()

// Decode copies the document into target, a pointer to a struct. Fields are
// matched by their json tag: top-level keys map to scalar fields and
// sections map to nested structs. After decoding, validate tags on target
// are checked.
//
//	type AppConfig struct {
//		Name     string `json:"APP_NAME" validate:"required"`
//		Database struct {
//			Host string `json:"HOST" validate:"hostname"`
//			Port int    `json:"PORT" validate:"gt=0"`
//		} `json:"database"`
//	}
func Decode(doc *Document, target interface{}) error {
	val := cuecontext.New().Encode(cueData(doc))
	if err := val.Err(); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	if err := val.Decode(target); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	if err := structValidator.Struct(target); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}
