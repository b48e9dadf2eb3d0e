// Package ir provides the literal values, data types, and canonical encoding
// shared by every other sqlplan package.
//
// This package contains leaf definitions only. All other internal packages
// import ir; ir imports nothing internal.
//
// Key design constraints:
//   - IRValue is sealed; literals in relational plans are always IRValues
//   - Canonical JSON follows RFC 8785 key ordering (UTF-16 code units)
//   - Fingerprints are SHA-256 with a versioned domain prefix
package ir
