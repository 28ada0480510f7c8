package postgres

import (
	"fmt"

	"github.com/julianstephens/habitd/internal/constants"
	"github.com/julianstephens/habitd/internal/models"
)

const (
	settingTimezone     = "timezone"
	settingFreezeRefill = "freeze_refill"
	settingListenAddr   = "listen_addr"
)

func (s *Store) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	var settings models.Settings
	found := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		found++
		switch key {
		case settingTimezone:
			settings.Timezone = value
		case settingFreezeRefill:
			settings.FreezeRefill = constants.RefillPolicy(value)
		case settingListenAddr:
			settings.ListenAddr = value
		}
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}
	if found == 0 || settings.Timezone == "" {
		return models.Settings{}, fmt.Errorf("settings not initialized")
	}
	return settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	pairs := map[string]string{
		settingTimezone:     settings.Timezone,
		settingFreezeRefill: string(settings.FreezeRefill),
		settingListenAddr:   settings.ListenAddr,
	}
	for key, value := range pairs {
		_, err := s.db.Exec(`
			INSERT INTO settings (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value`, key, value)
		if err != nil {
			return err
		}
	}
	return nil
}
