// Package schedule provides the delayed-notification scheduler and cron helpers.
//
// An Engine accepts "fire after d" or "fire at t" requests, keeps each one in a
// Registry while it is pending, and hands it to a Sink exactly once when its
// deadline elapses unless it was cancelled first. Every pending notification
// owns an independent timer obtained from the engine's Clock.
//
// Cron functions parse and validate cron expressions and compute upcoming run
// times. They back recurring reminders, which re-arm themselves after each
// delivery.
package schedule
