// Package domain defines the context tree value types: parsed elements,
// their type and topic vocabularies, node descriptors, and the wire records
// callers submit through the bridge.
package domain
