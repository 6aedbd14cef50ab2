// Package gemini provides an implementation of the translation.Provider
// interface that uses Google's Gemini API to translate vocabulary words.
//
// This package is an infrastructure adapter, connecting the ingest pipeline
// to Google's external Gemini service without exposing the details of the
// API to the core application.
//
// Key components:
//
// 1. Translator:
//   - Implements the translation.Provider interface
//   - Renders a text/template prompt per word
//   - Normalizes the model reply to a bare translation
//
// 2. Error Handling:
//   - Retries transient API errors with exponential backoff and jitter
//   - Maps blocked or empty responses to translation package errors
//     without retrying
package gemini
