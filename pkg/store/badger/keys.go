package badger

// Database Key Namespace Design
// ==============================
//
// BadgerDB is a key-value store, so prefixed keys organize the record types
// into logical namespaces. This design:
//   - Prevents key collisions between record types
//   - Enables efficient range scans (room membership, scope listings)
//   - Makes the database structure self-documenting
//
// Entities are identified by UUID v4, so ids never contain the ':' separator
// and key parsing stays unambiguous.
//
// Key Namespace Prefixes:
//
// Data Type            Prefix   Key Format                          Value
// =========================================================================
// Room Data            "r:"     r:<id>                              Room (JSON)
// Room Name Index      "rn:"    rn:<name>                           roomID (bytes)
// Container Data       "c:"     c:<id>                              Container (JSON)
// Leaf Data            "l:"     l:<id>                              Leaf (JSON)
// Container Room Index "cr:"    cr:<roomID>:<id>                    containerID (bytes)
// Leaf Room Index      "lr:"    lr:<roomID>:<id>                    leafID (bytes)
// Container Scope      "cs:"    cs:<roomID>:<parentID>:<id>         containerID (bytes)
// Leaf Scope           "ls:"    ls:<roomID>:<parentID>:<id>         leafID (bytes)
//
// The scope indexes use an empty string for the parent segment when the entry
// sits directly under the room root, keeping root listings a plain prefix
// scan like any other scope.
//
// Index values repeat the entity id so listings can collect ids without
// parsing key suffixes.

const (
	prefixRoom           = "r:"
	prefixRoomName       = "rn:"
	prefixContainer      = "c:"
	prefixLeaf           = "l:"
	prefixContainerRoom  = "cr:"
	prefixLeafRoom       = "lr:"
	prefixContainerScope = "cs:"
	prefixLeafScope      = "ls:"
)

func keyRoom(id string) []byte {
	return []byte(prefixRoom + id)
}

func keyRoomName(name string) []byte {
	return []byte(prefixRoomName + name)
}

func keyContainer(id string) []byte {
	return []byte(prefixContainer + id)
}

func keyLeaf(id string) []byte {
	return []byte(prefixLeaf + id)
}

func keyContainerRoom(roomID, id string) []byte {
	return []byte(prefixContainerRoom + roomID + ":" + id)
}

func keyContainerRoomPrefix(roomID string) []byte {
	return []byte(prefixContainerRoom + roomID + ":")
}

func keyLeafRoom(roomID, id string) []byte {
	return []byte(prefixLeafRoom + roomID + ":" + id)
}

func keyLeafRoomPrefix(roomID string) []byte {
	return []byte(prefixLeafRoom + roomID + ":")
}

// parentSegment flattens a nullable parent reference into the scope key
// segment: the empty string addresses the room root.
func parentSegment(parentID *string) string {
	if parentID == nil {
		return ""
	}
	return *parentID
}

func keyContainerScope(roomID string, parentID *string, id string) []byte {
	return []byte(prefixContainerScope + roomID + ":" + parentSegment(parentID) + ":" + id)
}

func keyContainerScopePrefix(roomID string, parentID *string) []byte {
	return []byte(prefixContainerScope + roomID + ":" + parentSegment(parentID) + ":")
}

func keyLeafScope(roomID string, parentID *string, id string) []byte {
	return []byte(prefixLeafScope + roomID + ":" + parentSegment(parentID) + ":" + id)
}

func keyLeafScopePrefix(roomID string, parentID *string) []byte {
	return []byte(prefixLeafScope + roomID + ":" + parentSegment(parentID) + ":")
}
