// Package secret resolves credentials referenced from configuration.
//
// Configuration values such as the S3 access key may hold a reference
// instead of the secret itself:
//
//	secretref:env:AWS_SECRET_ACCESS_KEY
//	secretref:file:/run/secrets/s3-secret
//
// ${VAR} references are expanded first and must be set. A reference may
// also appear inside a longer value, in which case only the reference is
// substituted.
package secret
