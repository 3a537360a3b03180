// Package progression implements the objective-progression decisions of
// TutorKit: rolling success metrics over a student's learning history and
// the advancement step through the static curriculum ordering.
//
// The engine is stateless and pure: it reads a profile and a curriculum,
// mutates only the profile passed in, and performs no I/O. Advancement
// criteria (window, minimum attempts, threshold) are configuration, not
// constants, so deployments can tune pacing without code changes.
package progression
