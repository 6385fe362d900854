// Package common contains shared constants and sentinel errors used across
// the eatery components.
package common

// AccessTokenHeaderName is the gRPC metadata key carrying the session token
// on authenticated calls.
const AccessTokenHeaderName = "access_token"

