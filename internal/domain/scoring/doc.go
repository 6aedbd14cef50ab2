// Package scoring implements the mastery scoring policy.
//
// A feedback action moves an item's score: "know" adds a bonus, "dont_know"
// subtracts a penalty, and "remove" jumps straight to the retire score. Scores
// never drop below the floor and have no ceiling, so repeated "know" answers
// keep accumulating past the retire score.
//
// The calculation is a pure function of the current score, the action and the
// parameters, with no side effects or dependency on storage.
package scoring
