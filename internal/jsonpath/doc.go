// Package jsonpath compiles path expressions against schema-less JSON trees
// and evaluates, mutates, and deletes the locations they address.
//
// Supported grammar:
//   - `$` root marker
//   - `.name` and `['name']` field access
//   - `[i]` array index (signed; negative counts from the end)
//   - `[*]` and `.*` wildcard over object members or array elements
//   - `..name` recursive descent to any depth
//   - `[start:stop]` slice with Python clamping rules, no step
//   - `[?(@.field <op> <literal>)]` filter with <op> one of == != < <= > >=
//     and <literal> a quoted string or a bare number or boolean
//
// Anything else is rejected with ErrSyntax at compile time.
//
// Evaluation visits matches in document order: along a branch shallower
// matches come before deeper ones, and siblings are visited left to right.
package jsonpath
