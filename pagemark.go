// Package pagemark provides a web page to Markdown conversion service.
// It validates target URLs against an SSRF-defense policy, renders pages
// through a headless browser, extracts the main content region, and
// converts it to clean Markdown.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, sqlite/).
package pagemark
