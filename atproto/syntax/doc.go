// Package syntax provides string types for atproto identifiers and formats.
//
// These are light wrappers used to check protocol-level syntax of values before they go out on the wire (eg, the URI and CID returned for a new post, or the creation timestamp of a record). They do not resolve or verify anything against the network.
package syntax
