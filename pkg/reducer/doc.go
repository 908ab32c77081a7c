// Package reducer maps editor actions to state changes.
//
// Reduce looks the action type up in a dispatch table and runs the matching
// case against a draft of the AppState. Payloads may be the typed structs of
// this package or generic maps decoded from JSON or YAML; both are validated
// before the draft is touched.
package reducer
