package strata

// Encoding serializes container values. Implementations live in the
// msgpackenc, cborenc and jsonenc subpackages; any other serializer
// satisfying this interface works too.
type Encoding interface {
	EncodeValue(v any) ([]byte, error)
	DecodeValue(data []byte, v any) error
}
