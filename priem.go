// Package priem ingests a university admissions site and recovers structured
// study program records from its irregular HTML. Raw pages are normalized to
// linear text, split into program blocks, and parsed positionally into
// AdmissionRecords that are serialized for a retrieval index.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, gemini/).
package priem
