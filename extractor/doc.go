// Package extractor turns class descriptors into named schemas.
//
// A [Class] describes one annotated application class: either a
// request-style class exposing a flat rule map, or a data-style class whose
// properties carry their own rules. The [Manager] holds a priority-ordered
// list of [Extractor] strategies and picks the first one that can handle a
// class:
//
//	m, err := extractor.NewManager(extractor.WithClasses(classes))
//	if err != nil {
//		return err
//	}
//	schema, err := m.Extract(classes[0])
//
// Two extractors are always registered. [RequestExtractor] handles classes
// with a Rules function; [DataExtractor] handles classes with declared
// properties, derives rules from property types, resolves rules inherited
// from other classes and records referenced data classes as dependencies.
//
// Custom extractors are registered by name with [RegisterFactory] and enabled
// with [WithCustomExtractors]. Unknown names fail when the manager is
// created.
//
// # Go values
//
// [FromValue] and [Discover] build class descriptors from Go values. A value
// implementing [RuleProvider] becomes a request-style class. Any other struct
// becomes a data-style class read from struct tags:
//
//	type AddressData struct {
//		Street string  `json:"street" rules:"max:120"`
//		Zip    *string `json:"zip" rules:"regex:/^\\d{5}$/"`
//	}
//
//	type UserData struct {
//		Name      string        `json:"name" rules:"max:255"`
//		Email     string        `json:"email" rules:"email"`
//		Nickname  string        `json:"nickname" schema:"optional"`
//		Tags      []string      `json:"tags" items:"max:20"`
//		Address   AddressData   `json:"address"`
//		Addresses []AddressData `json:"addresses"`
//	}
//
// The schema tag accepts "optional", "nullable", "inherit=Class.property"
// and "name=SchemaName" (on a struct's first field, naming the schema).
package extractor
