package kbModel

import "errors"

// Error taxonomy shared by the knowledge base components. Wrap with
// fmt.Errorf("%w: ...") and test with errors.Is.
var (
	//bad input path, checked before any format dispatch
	ErrFileNotFound = errors.New("file does not exist")

	//resolved format is not in the supported set
	ErrUnsupportedFormat = errors.New("unsupported document format")

	//remote embedding call failed - rate limit, network, auth, timeout
	ErrEmbedding = errors.New("embedding request failed")

	//dimension or model mismatch against a persisted index, not retryable
	ErrIndexConfig = errors.New("index configuration mismatch")

	//cache or metadata I/O failure
	ErrPersistence = errors.New("persistence failure")
)
