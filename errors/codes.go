package errors

// ErrorCode represents a W3C XSD constraint identifier or a local error code.
// See: https://www.w3.org/TR/xmlschema-1/#outcomes
type ErrorCode string

const (
	// ErrSchemaParse indicates a schema document could not be read or parsed.
	ErrSchemaParse ErrorCode = "schema-parse-error"
	// ErrSchemaLocation indicates an include or import location could not be loaded.
	ErrSchemaLocation ErrorCode = "schema-location"

	// ErrResolve indicates a QName reference to a missing component.
	ErrResolve ErrorCode = "src-resolve"
	// ErrDuplicateGlobal indicates two global components with the same name.
	ErrDuplicateGlobal ErrorCode = "sch-props-correct.2"
	// ErrSimpleTypeCycle indicates a simple type that derives from itself.
	ErrSimpleTypeCycle ErrorCode = "st-props-correct.2"
	// ErrComplexTypeCycle indicates a complex type that derives from itself.
	ErrComplexTypeCycle ErrorCode = "ct-props-correct.3"
	// ErrGroupCycle indicates a model group that contains itself.
	ErrGroupCycle ErrorCode = "mg-props-correct.2"
	// ErrAttributeGroupCycle indicates an attribute group that references itself.
	ErrAttributeGroupCycle ErrorCode = "src-attribute_group.3"

	// ErrEnumerationRestriction indicates an enumeration value violating the type's other facets.
	ErrEnumerationRestriction ErrorCode = "enumeration-valid-restriction"
	// ErrApplicableFacets indicates a facet that does not apply to the base type.
	ErrApplicableFacets ErrorCode = "cos-applicable-facets"
	// ErrDatatypeInvalid indicates a facet or constraint value invalid for its datatype.
	ErrDatatypeInvalid ErrorCode = "cvc-datatype-valid"
	// ErrFacetViolation indicates a value violates a facet constraint.
	ErrFacetViolation ErrorCode = "cvc-facet-valid"
	// ErrLengthRestriction indicates a length facet looser than its base.
	ErrLengthRestriction ErrorCode = "length-valid-restriction"
	// ErrWhitespaceRestriction indicates a whiteSpace facet weaker than its base.
	ErrWhitespaceRestriction ErrorCode = "whiteSpace-valid-restriction"
	// ErrPattern indicates a pattern facet that is not a valid regular expression.
	ErrPattern ErrorCode = "cvc-pattern-valid"
	// ErrFinal indicates a derivation blocked by the base type's final set.
	ErrFinal ErrorCode = "st-props-correct.3"

	// ErrElementDefault indicates an element value constraint invalid for its type.
	ErrElementDefault ErrorCode = "e-props-correct.2"
	// ErrSubstitutionBlocked indicates a substitution group member blocked by its head.
	ErrSubstitutionBlocked ErrorCode = "e-props-correct.4"
	// ErrSubstitutionCycle indicates a circular or self-referencing substitution group.
	ErrSubstitutionCycle ErrorCode = "e-props-correct.6"
	// ErrAttributeDefault indicates an attribute value constraint invalid for its type.
	ErrAttributeDefault ErrorCode = "a-props-correct.2"

	// ErrComplexContentBase indicates complex content derived from a simple type.
	ErrComplexContentBase ErrorCode = "src-ct.1"
	// ErrSimpleContentBase indicates simple content restricting a type without simple content.
	ErrSimpleContentBase ErrorCode = "src-ct.2"
	// ErrExtensionFinal indicates an extension of a type that is final for extension.
	ErrExtensionFinal ErrorCode = "cos-ct-extends.1.1"
	// ErrRestrictionFinal indicates a restriction of a complex type that is final for restriction.
	ErrRestrictionFinal ErrorCode = "derivation-ok-restriction.1"

	// ErrDerivationRestriction indicates a complex type whose content is not a restriction of its base.
	ErrDerivationRestriction ErrorCode = "derivation-ok-restriction.5.4.2"
	// ErrParticleRestrict indicates a forbidden particle combination in a restriction.
	ErrParticleRestrict ErrorCode = "cos-particle-restrict.2"
	// ErrNameAndTypeOK indicates an element particle that does not restrict its base element.
	ErrNameAndTypeOK ErrorCode = "rcase-NameAndTypeOK"
	// ErrNSCompat indicates an element not allowed by the base wildcard.
	ErrNSCompat ErrorCode = "rcase-NSCompat"
	// ErrNSSubset indicates a wildcard not a subset of the base wildcard.
	ErrNSSubset ErrorCode = "rcase-NSSubset"
	// ErrNSRecurseCheckCardinality indicates a group whose occurrences exceed the base wildcard.
	ErrNSRecurseCheckCardinality ErrorCode = "rcase-NSRecurseCheckCardinality"
	// ErrRecurse indicates an ordered group that does not map onto its base.
	ErrRecurse ErrorCode = "rcase-Recurse.2"
	// ErrRecurseLax indicates a choice that does not map onto its base choice.
	ErrRecurseLax ErrorCode = "rcase-RecurseLax.2"
	// ErrRecurseUnordered indicates a sequence that does not map onto its base all group.
	ErrRecurseUnordered ErrorCode = "rcase-RecurseUnordered.2"
	// ErrMapAndSum indicates a sequence whose particles do not map onto a base choice.
	ErrMapAndSum ErrorCode = "rcase-MapAndSum.1"
	// ErrRecurseAsIfGroup indicates an element that does not restrict its base group.
	ErrRecurseAsIfGroup ErrorCode = "rcase-RecurseAsIfGroup"
	// ErrRangeOK indicates occurrence bounds wider than the base particle's.
	ErrRangeOK ErrorCode = "range-ok"
)
