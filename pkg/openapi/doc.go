// Package openapi imports the component schemas of an OpenAPI 3 document as
// designer definitions. kin-openapi stays behind this package; callers get
// plain schema maps whose `#/components/schemas/<name>` references point at
// the session's definitions block instead.
package openapi
