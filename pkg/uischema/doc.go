// Package uischema models the UI schema tree as a closed set of element
// types and provides the copy-on-write primitives the editor composes:
// bottom-up mapping, scope collection and rewriting, index-path insertion and
// removal, path decoration for renderers and file loading. Inputs are never
// modified; every primitive returns a new root that shares untouched
// subtrees.
package uischema
