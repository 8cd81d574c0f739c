package corpus

// TypeID is a handle to a simple or complex type.
type TypeID uint32

// ElemID is a handle to an element declaration.
type ElemID uint32

// AttrID is a handle to an attribute declaration.
type AttrID uint32

// ParticleID is a handle to a content-model particle.
type ParticleID uint32

// GroupID is a handle to a model group.
type GroupID uint32

// WildcardID is a handle to an element or attribute wildcard.
type WildcardID uint32

// URIID indexes the ordered URI table.
type URIID uint32

// NameID indexes the local-name table of one URI.
type NameID uint32

// Nil handles are zero for every handle type.
const (
	NilType     TypeID     = 0
	NilElem     ElemID     = 0
	NilAttr     AttrID     = 0
	NilParticle ParticleID = 0
	NilGroup    GroupID    = 0
	NilWildcard WildcardID = 0
)

// NoName is returned for the name of anonymous types.
const NoName NameID = ^NameID(0)
