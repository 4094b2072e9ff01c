// internal/status/constants.go
package status

// Watchdog Status Block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerBlock is the fixed number of logical slots per watchdog.
const SlotsPerBlock = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the aggregate health state.
const SlotHealthCode = 0

// SlotStaleCount holds the number of channels currently stale.
const SlotStaleCount = 1

// SlotSecondsUnhealthy holds the duration (in seconds) the system has been unhealthy.
const SlotSecondsUnhealthy = 2

// SlotVerdictMask holds the per-channel verdict bitmask.
// Bit i is set when channel i (config order) is healthy; only the
// first 16 channels are representable.
const SlotVerdictMask = 3

// ---- RESERVED RANGE ----

// Slots 4-10 are reserved for future use.
const SlotReservedStart = 4
const SlotReservedEnd = 10

// ---- WATCHDOG NAME ----

// SlotNameStart is the first slot used for the watchdog name.
// The name is always placed at the END of the status block.
const SlotNameStart = 11

// SlotNameSlots is the number of slots reserved for the name.
const SlotNameSlots = 8

// SlotNameEnd is the last slot used for the name (inclusive).
const SlotNameEnd = SlotNameStart + SlotNameSlots - 1

// ---- LIMITS ----

// NameMaxChars is the maximum number of ASCII characters stored for the name.
const NameMaxChars = 16

// ---- HEALTH CODES ----

// HealthUnknown represents an unknown or boot state.
const HealthUnknown uint16 = 0

// HealthOK represents a healthy system.
const HealthOK uint16 = 1

// HealthStale represents one or more stale channels.
const HealthStale uint16 = 2
