package guard

import (
	"errors"
	"strings"
)

var ErrPermissionDenied = errors.New("permission_denied")

// Claims is the resolved caller identity attached to every request. The
// permission and mask sets were baked in when the token was issued; the guard
// never consults a mutable role table at request time.
type Claims struct {
	UserID      string   `json:"sub"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	FieldMasks  []string `json:"fieldMasks"`
}

// Record is a mapping-shaped output row. Masking is structural: it knows
// dotted paths, not field semantics.
type Record = map[string]any

// Authorize rejects the call when required is absent from the caller's
// permission set. It must run before any query executes.
func Authorize(claims Claims, required string) error {
	for _, perm := range claims.Permissions {
		if perm == required {
			return nil
		}
	}
	return ErrPermissionDenied
}

// Mask strips each dotted mask path from every record. A "root.child" mask
// deletes child from a shallow copy of the root map; a bare "root" mask
// deletes the whole key. Input records are never mutated.
func Mask(records []Record, fieldMasks []string) []Record {
	if len(fieldMasks) == 0 {
		return records
	}

	out := make([]Record, 0, len(records))
	for _, record := range records {
		clone := make(Record, len(record))
		for k, v := range record {
			clone[k] = v
		}

		for _, mask := range fieldMasks {
			root, child, nested := strings.Cut(mask, ".")
			value, ok := clone[root]
			if !ok {
				continue
			}
			if !nested || child == "" {
				delete(clone, root)
				continue
			}
			inner, ok := value.(Record)
			if !ok {
				continue
			}
			innerClone := make(Record, len(inner))
			for k, v := range inner {
				innerClone[k] = v
			}
			delete(innerClone, child)
			clone[root] = innerClone
		}

		out = append(out, clone)
	}
	return out
}
