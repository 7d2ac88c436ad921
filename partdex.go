// Package partdex builds and distributes a searchable electronic parts
// catalog derived from the JLCPCB component vendor database. It crawls the
// paginated vendor API into a normalized SQLite cache, translates cached
// rows into a compact FTS5-searchable artifact, and packages the artifact
// into size-bounded chunks for hosting platforms with per-file size limits.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, http/, zip/).
package partdex
