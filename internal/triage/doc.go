// Package triage provides the business boundary for radalert's report
// triage and escalation system. It defines the Service (extract, classify,
// escalate, audit), the Store interface (persistence), the section
// extractor, the alert composer, and the domain models.
package triage
