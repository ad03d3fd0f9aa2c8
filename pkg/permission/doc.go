// Package permission defines the typed permission vocabulary of the access
// platform and the matching rules applied to it.
//
// Permissions are colon-delimited "resource:action" strings. Role definitions
// store them as plain strings; API boundaries use the typed constants so a
// misspelled permission fails review instead of silently never matching.
//
// Matching supports two wildcard forms: the global "*" grants everything and
// a trailing ":*" grants every action on a resource, so "lc:*" matches
// "lc:approve". Set helpers (Has, ContainsAll, Union) operate on the string
// slices stored in role definitions.
package permission
