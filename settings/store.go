package settings

import "strings"

// WritableStore is a hierarchical key/value settings store, the shape of the
// IDE's per-user settings store. Collections are addressed by paths joined
// with CollectionSeparator and hold named string or uint32 properties.
//
// Reads of a missing property return ErrPropertyNotFound, reads of a
// property of the other kind return ErrPropertyType. Enumerating a missing
// collection returns no names. Setting a property creates its collection.
type WritableStore interface {
	// CollectionExists reports whether the collection exists
	CollectionExists(collection string) (bool, error)

	// CreateCollection creates the collection and any missing parents.
	// Creating an existing collection is not an error.
	CreateCollection(collection string) error

	// DeleteCollection removes the collection, its properties and all
	// sub-collections. Deleting a missing collection is not an error.
	DeleteCollection(collection string) error

	// SubCollectionNames returns the names (not paths) of direct children
	SubCollectionNames(collection string) ([]string, error)

	// PropertyNames returns the names of the collection's properties
	PropertyNames(collection string) ([]string, error)

	// PropertyExists reports whether the collection has the property
	PropertyExists(collection, property string) (bool, error)

	String(collection, property string) (string, error)
	SetString(collection, property, value string) error

	Uint32(collection, property string) (uint32, error)
	SetUint32(collection, property string, value uint32) error

	// DeleteProperty removes a property. Deleting a missing property is not an error.
	DeleteProperty(collection, property string) error
}

// CollectionPath joins collection names into a store path
func CollectionPath(parts ...string) string {
	return strings.Join(parts, CollectionSeparator)
}

// ParentCollection returns the parent path of a collection, "" for a root
func ParentCollection(collection string) string {
	i := strings.LastIndex(collection, CollectionSeparator)
	if i < 0 {
		return ""
	}
	return collection[:i]
}

// CollectionName returns the last element of a collection path
func CollectionName(collection string) string {
	return collection[strings.LastIndex(collection, CollectionSeparator)+1:]
}
