package dataroom

import "fmt"

// Sibling is one existing entry in the scope a desired name is checked
// against. Only the fields the resolver needs are carried; the orchestrators
// translate matches back to full records.
type Sibling struct {
	ID   string
	Name string
}

// Resolution is the outcome of a successful collision check.
type Resolution struct {
	// FinalName is the name the caller should persist. Equal to the
	// normalized desired name unless keep-both derived a variant.
	FinalName string

	// Replace is true when the caller must remove Existing before (or
	// while) inserting the new record.
	Replace bool

	// Existing is the colliding sibling, set only when Replace is true.
	Existing *Sibling
}

// ResolveName decides the final name, or the record to replace, for a desired
// name within a sibling set.
//
// Room names skip the type-specific validation rules but are still
// normalized. excludeID removes the entity itself from consideration so a
// rename to the same name is a no-op rather than a self-collision.
//
// allowReplace encodes the kind support matrix: only leaves may be replaced.
// Requesting replace on a kind that does not support it fails with
// KindInvalidOperation rather than being silently ignored.
func ResolveName(kind EntityKind, name string, action CollisionAction, siblings []Sibling, excludeID string, allowReplace bool) (Resolution, error) {
	normalized := Normalize(name)

	if kind != EntityRoom {
		if err := ValidateName(normalized, kind); err != nil {
			return Resolution{}, err
		}
	}

	var match *Sibling
	for i := range siblings {
		if siblings[i].ID == excludeID {
			continue
		}
		if siblings[i].Name == normalized {
			match = &siblings[i]
			break
		}
	}

	if match == nil {
		return Resolution{FinalName: normalized}, nil
	}

	switch action {
	case ActionReplace:
		if !allowReplace {
			return Resolution{}, invalidOperation("replace is not supported for " + kind.String() + "s")
		}
		return Resolution{FinalName: normalized, Replace: true, Existing: match}, nil

	case ActionKeepBoth:
		variant := uniqueName(kind, normalized, siblings, excludeID)
		// the " (n)" suffix adds characters, so a name near the length cap
		// can produce a variant that no longer passes the rules
		if kind != EntityRoom {
			if err := ValidateName(variant, kind); err != nil {
				return Resolution{}, err
			}
		}
		return Resolution{FinalName: variant}, nil

	default:
		// cancel (and any unspecified action) aborts on collision
		return Resolution{}, alreadyExists(normalized)
	}
}

// uniqueName derives the first "base (n)ext" variant not present in the
// sibling set, starting at n=1 and never skipping ahead.
func uniqueName(kind EntityKind, name string, siblings []Sibling, excludeID string) string {
	taken := make(map[string]struct{}, len(siblings))
	for i := range siblings {
		if siblings[i].ID == excludeID {
			continue
		}
		taken[siblings[i].Name] = struct{}{}
	}

	base, ext := name, ""
	if kind == EntityLeaf {
		base, ext = SplitExtension(name)
	}

	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, n, ext)
		if _, exists := taken[candidate]; !exists {
			return candidate
		}
	}
}
