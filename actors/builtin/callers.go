package builtin

import "github.com/ipfs/go-cid"

// Set of actor code types that can represent external signing parties.
// Assigned in codes.go once the code IDs exist.
var CallerTypesSignable []cid.Cid
