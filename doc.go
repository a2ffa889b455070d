/*
Package poly is the root of a Tunneled Burrows-Wheeler Transform
library.

The transform itself, along with the index it builds, the heuristic
that finds blocks worth tunneling, and the binary on-disk format, all
live in the tbwt subpackage:

https://pkg.go.dev/github.com/bebop/poly/tbwt

Browse tbwt's documentation for the construction, tunneling, and
navigation API.
*/
package poly
