// Package canon provides a CLI tool for distributing versioned engineering
// standards (tenets and bindings organized into categories) from a source
// repository into consumer repositories, and for inspecting drift against
// what was last synced. A cache-aware discovery engine built from a
// content-addressable blob store, a document scanner, and an in-memory
// metadata index answers category and search queries over thousands of
// documents without ever breaking the caller's primary workflow.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or concern (e.g., sqlite/, fs/, scan/).
package canon
