// Package testutil provides shared testing utilities for grounder.
//
// It contains reusable test infrastructure usable across packages,
// following the pattern of net/http/httptest and testing/iotest.
package testutil
