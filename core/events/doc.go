// Package events defines the typed session notification contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - user_input.*: the user's side of the conversation, covering accepted
//     utterances, interim transcript snapshots, and speech activity.
//   - assistant.*: accepted replies from the companion.
//   - turn_state.*: turn lifecycle boundaries.
//   - session.*: session-scoped state (connection, listening, mute,
//     teardown).
//   - error.*: recoverable failures surfaced to the caller.
//
// Semantics used across the package:
//
//   - Interim: mutable point-in-time transcript snapshot that can change
//     until the utterance finalizes.
//   - Accepted: text that passed the orchestrator's guards and was appended
//     to the conversation history (or, for duplicate replies, would have
//     been).
//   - Completed: terminal lifecycle boundary for the current turn.
package events
