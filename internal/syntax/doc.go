// Package syntax holds the generic, schema-checked syntax tree.
//
// A Node is either a token or a composite of schema.Kind whose children
// follow the slot list of the kind's descriptor; collections hold zero or
// more elements. Nodes are immutable and carry no parent pointers, so
// subtrees may be shared between trees. Positions are recomputed from an
// index Path through Tree. Constructors validate against the schema
// registry and panic on a mismatch: building an ill-formed node is a
// programming error, not a user error.
package syntax
