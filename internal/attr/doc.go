// Package attr resolves raw derive annotations into validated attribute
// records for one capability.
//
// A builder is configured with the capability it resolves and the set of
// annotation features (flag, new, expression, bound) allowed at the call
// site. Resolution walks every `derive(...)` attribute of an entity:
//
//   - each entry must name a capability in the active set (CapabilityNotInUse)
//   - the target capability may appear at most once (CapabilityReused)
//   - its shape must match the enabled features (IncorrectAttributeFormat)
//
// Entries for other active capabilities are skipped; they belong to their
// own resolvers. When the target capability is absent the zero attribute is
// returned.
package attr
