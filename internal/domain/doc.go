// Package domain contains the core business entities, value objects, and
// domain logic of the application: vocabulary items, the learner's progress
// records, feedback actions and the projections returned to clients. It is
// independent of any specific infrastructure or delivery mechanism.
package domain
