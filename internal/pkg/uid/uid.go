package uid

// NumberID generates unique 64-bit identifiers, used as record primary keys.
type NumberID interface {
	Generate() int64
}

// StringID generates unique string identifiers, used for correlation ids.
type StringID interface {
	Generate() string
}
