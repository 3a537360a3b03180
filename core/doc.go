// Package core contains the domain contracts of TutorKit: the student
// profile and its learning history, the immutable curriculum, and the
// store/generator interfaces implemented by leaf packages.
//
// Keeping contracts here (rather than next to their implementations)
// prevents higher level packages (session, tutor, httpapi) from depending
// on concrete storage or model vendors. Leaf packages such as profile,
// memoryindex and model provide implementations selected at wiring time.
package core
