package loam

// Envelope is the front matter of a stored document.
// The document lives under one key so any root kind (record, list, scalar) fits.
type Envelope struct {
	Document any    `json:"document" mapstructure:"document"`
	Kind     string `json:"kind,omitempty" mapstructure:"kind"`
}
