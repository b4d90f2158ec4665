// Package orchestration runs voice companion conversations. A Session wires
// speech to text, reply generation, and speech output into a turn state
// machine: utterances are accepted while listening, at most one turn runs at
// a time, and capture resumes once the reply has been spoken.
package orchestration
