// Package validation checks configuration structs against their
// `validate` struct tags and reports failures as INVALID_CONFIG errors.
//
//	type Config struct {
//	    Protocol string `mapstructure:"protocol" validate:"oneof=grpc http/protobuf"`
//	}
//	if err := validation.Struct(&cfg); err != nil { ... }
package validation
