package wildcardpolicy

import "github.com/jacoelho/xsdcorpus/pkg/corpus"

// Subset reports whether every namespace derived allows is also allowed by
// base.
func Subset(derived, base corpus.WildcardDef) bool {
	switch {
	case base.Kind == corpus.NamespaceAny:
		return true
	case derived.Kind == corpus.NamespaceAny:
		return false
	case derived.Kind == corpus.NamespaceNot && base.Kind == corpus.NamespaceNot:
		return sameSet(derived.URIs, base.URIs)
	case derived.Kind == corpus.NamespaceNot:
		return false
	}
	for _, u := range derived.URIs {
		if !base.Allows(u) {
			return false
		}
	}
	return true
}

// ProcessAtLeast reports whether derived is as strict as base.
func ProcessAtLeast(derived, base corpus.ProcessContents) bool {
	switch base {
	case corpus.ProcessStrict:
		return derived == corpus.ProcessStrict
	case corpus.ProcessLax:
		return derived == corpus.ProcessLax || derived == corpus.ProcessStrict
	case corpus.ProcessSkip:
		return true
	default:
		return false
	}
}

func sameSet(a, b []string) bool {
	in := make(map[string]bool, len(a))
	for _, s := range a {
		in[s] = true
	}
	for _, s := range b {
		if !in[s] {
			return false
		}
		delete(in, s)
	}
	return len(in) == 0
}
