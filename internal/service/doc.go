// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects, repositories
// (defined in internal/store) and external adapters to fulfill application
// features.
//
// Key components:
//
// 1. VocabularyService:
//   - Ingests words from a web page or raw text
//   - Translates unseen words concurrently through a translation.Provider
//   - Lists and corrects stored vocabulary items
//
// 2. Sub-packages:
//   - study: session selection, progress updates and statistics
//   - auth: bearer tokens for the optional API authentication
//
// Services receive dependencies through constructor injection and never
// depend on specific infrastructure implementations.
package service
