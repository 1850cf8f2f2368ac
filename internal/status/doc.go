// Package status keeps the client's view of the kiosk server's operational
// mode current and resilient.
//
// # Components
//
// Transport owns the single logical status subscription. It opens the
// server's live event stream and, when the stream cannot be established,
// falls back to fixed-cadence polling of GET /system/status. The state
// machine is:
//
//	disconnected -> connecting -> connected
//	connected    -> disconnected        on stream error or close
//	disconnected -> polling             when the stream cannot be opened
//	polling      -> offline             after consecutive poll failures
//
// A stream that was established and then died schedules exactly one
// reconnect attempt after a fixed delay; a guard flag prevents overlapping
// attempts, which is the classic duplicate-connection bug this design
// exists to avoid. Polling continues indefinitely and never upgrades
// itself; only an explicit Start (user refresh) or Nudge (connectivity
// regained, and only from disconnected) retries the live channel.
//
// Stream events carry a JSON "type" discriminator: SYSTEM_STATUS_UPDATE
// frames are forwarded to the consumer, HEARTBEAT frames only confirm
// liveness and are dropped, so downstream consumers never see spurious
// updates.
//
// Synchronizer consumes the transport's snapshots and exposes the latest
// value plus edge-triggered maintenance notifications. Edges are detected
// on the IsTestMode flag alone; the first observation and repeated
// identical snapshots fire nothing. Transport failures are absorbed into
// ConnectionState and never surfaced as errors, since they are expected
// and locally recoverable.
package status
