package openapi

import "github.com/gravio-la/forms-designer-sub000/pkg/jsonschema"

// Options tunes ImportComponents.
type Options struct {
	// DefinitionsKey is the block key imported references are rewritten to.
	DefinitionsKey string

	// Validate runs the kin-openapi document validator before converting.
	Validate bool

	// AllowExternalRefs lets the loader follow references to other files.
	AllowExternalRefs bool
}

// Option mutates Options.
type Option func(*Options)

// WithDefinitionsKey selects `definitions` or `$defs`.
func WithDefinitionsKey(key string) Option {
	return func(opts *Options) {
		if jsonschema.IsDefinitionsKey(key) {
			opts.DefinitionsKey = key
		}
	}
}

// WithValidation toggles document validation.
func WithValidation(enabled bool) Option {
	return func(opts *Options) {
		opts.Validate = enabled
	}
}

// WithExternalRefs toggles external reference resolution.
func WithExternalRefs(enabled bool) Option {
	return func(opts *Options) {
		opts.AllowExternalRefs = enabled
	}
}

// NewOptions applies options over the defaults.
func NewOptions(options ...Option) Options {
	cfg := Options{DefinitionsKey: jsonschema.KeyDefinitions}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
