package constants

// RefillPolicy controls how often a habit's freeze allowance replenishes
type RefillPolicy string

// HabitStatus is the user-facing classification of a habit for today
type HabitStatus string

const (
	AppName           = "habitd"
	DefaultConfigPath = "~/.config/habitd/habitd.db"
	Version           = "v0.1.0"

	DefaultKeyringUser = "database-connection"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DefaultTimezone is the IANA timezone used for day boundaries until configured
	DefaultTimezone = "UTC"

	// DefaultListenAddr is where `habitd serve` binds. Loopback by default:
	// authentication is out of scope, so the daemon must not be exposed as-is.
	DefaultListenAddr = "127.0.0.1:8000"

	// DefaultFreezeAllowance is the number of freezes a habit starts each refill period with
	DefaultFreezeAllowance = 2

	// DefaultDangerStartPct is the fraction of the daily target at which "in danger" begins
	DefaultDangerStartPct = 0.7

	// Field limits, enforced before any mutation
	MaxHabitNameLen        = 50
	MaxHabitDescriptionLen = 120
	MaxLogNoteLen          = 100

	// Refill policies
	RefillNever   RefillPolicy = "never"
	RefillWeekly  RefillPolicy = "weekly"
	RefillMonthly RefillPolicy = "monthly"

	DefaultRefillPolicy = RefillMonthly

	// Habit statuses
	StatusIdle      HabitStatus = "idle"
	StatusOnTrack   HabitStatus = "on_track"
	StatusInDanger  HabitStatus = "in_danger"
	StatusCompleted HabitStatus = "completed"
	StatusFrozen    HabitStatus = "frozen"

	// Day outcomes, locked once the day boundary passes
	OutcomePass   = "pass"
	OutcomeFail   = "fail"
	OutcomeFrozen = "frozen"
)

// StatusColors maps each status to the color the thin client renders it with.
var StatusColors = map[HabitStatus]string{
	StatusIdle:      "gray",
	StatusOnTrack:   "teal",
	StatusInDanger:  "orange",
	StatusCompleted: "green",
	StatusFrozen:    "blue",
}
