package ai

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.0-flash"

// Options tunes the Gemini models.
type Options struct {
	// Model is the Gemini model name, e.g. "gemini-2.0-flash".
	Model string

	// Temperature applies to both the JSON and the plain-text model.
	Temperature float32
}

func (o Options) withDefaults() Options {
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.Temperature <= 0 {
		o.Temperature = 0.4
	}
	return o
}
