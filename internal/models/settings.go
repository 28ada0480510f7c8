package models

import "github.com/julianstephens/habitd/internal/constants"

// Settings are account-level configuration stored alongside the data. The
// timezone governs every day-boundary computation so streak evaluation is
// consistent across devices; the refill policy is the only path by which
// freezes replenish.
type Settings struct {
	Timezone     string                 `json:"timezone"`
	FreezeRefill constants.RefillPolicy `json:"freeze_refill"`
	ListenAddr   string                 `json:"listen_addr"`
}

// Defaults returns the settings written by `habitd init`.
func Defaults() Settings {
	return Settings{
		Timezone:     constants.DefaultTimezone,
		FreezeRefill: constants.DefaultRefillPolicy,
		ListenAddr:   constants.DefaultListenAddr,
	}
}
