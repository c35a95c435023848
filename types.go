package avroskema

// UnknownPolicy controls how record keys without a matching schema field are
// handled on encode and when reading Avro JSON datums.
type UnknownPolicy int

const (
	UnknownStrict UnknownPolicy = iota // Reject unknown keys with an error.
	UnknownStrip                       // Drop unknown keys.
)

const (
	// DefaultMaxDepth bounds JSON nesting of schema and datum documents.
	DefaultMaxDepth = 64
	// DefaultMaxBytes bounds the size of a schema document.
	DefaultMaxBytes = 1 << 20
	// DefaultMaxBytesLength bounds a single bytes/string length prefix on decode.
	DefaultMaxBytesLength = 64 << 20
)

// ParseOpt bundles schema parsing options. Zero fields take the defaults above;
// negative values disable the corresponding limit.
type ParseOpt struct {
	MaxDepth int
	MaxBytes int64
}

// EncodeOpt bundles encoding options.
type EncodeOpt struct {
	Unknown UnknownPolicy
}

// DecodeOpt bundles decoding options. A zero MaxBytesLength takes
// DefaultMaxBytesLength; a negative one disables the check. Unknown applies
// to JSON datums read by ValueFromJSON; binary records carry no keys.
type DecodeOpt struct {
	MaxBytesLength int64
	Unknown        UnknownPolicy
}

func parseOptOf(opts []ParseOpt) ParseOpt {
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.MaxDepth == 0 {
		opt.MaxDepth = DefaultMaxDepth
	}
	if opt.MaxBytes == 0 {
		opt.MaxBytes = DefaultMaxBytes
	}
	return opt
}

func encodeOptOf(opts []EncodeOpt) EncodeOpt {
	if len(opts) > 0 {
		return opts[len(opts)-1]
	}
	return EncodeOpt{}
}

func decodeOptOf(opts []DecodeOpt) DecodeOpt {
	var opt DecodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.MaxBytesLength == 0 {
		opt.MaxBytesLength = DefaultMaxBytesLength
	}
	return opt
}
