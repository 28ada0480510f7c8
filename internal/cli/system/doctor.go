package system

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitd/internal/cli"
	"github.com/julianstephens/habitd/internal/client"
	"github.com/julianstephens/habitd/internal/constants"
	"github.com/julianstephens/habitd/internal/validation"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	storeReachable := false

	// Check 1: storage reachable, schema current
	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Storage reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Storage reachable: OK\n")
		storeReachable = true
	}

	// Check 2: settings valid
	var listenAddr string
	if storeReachable {
		settings, err := ctx.Store.GetSettings()
		if err == nil {
			err = validation.Settings(settings)
		}
		if err != nil {
			fmt.Printf("❌ Settings: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Settings: OK (timezone %s, refill %s)\n", settings.Timezone, settings.FreezeRefill)
			listenAddr = settings.ListenAddr
		}
	} else {
		fmt.Printf("⊘ Settings: SKIPPED (storage not reachable)\n")
	}

	// Check 3: habit integrity (every habit has streak state)
	if storeReachable {
		if err := checkHabitIntegrity(ctx); err != nil {
			fmt.Printf("❌ Habit integrity: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Habit integrity: OK\n")
		}
	} else {
		fmt.Printf("⊘ Habit integrity: SKIPPED (storage not reachable)\n")
	}

	// Check 4: daemon process (warning only)
	if running, pid := daemonProcess(); running {
		fmt.Printf("✓ Daemon process: running (pid %d)\n", pid)
	} else {
		fmt.Printf("⚠ Daemon process: not found\n")
	}

	// Check 5: daemon responding (warning only)
	if listenAddr == "" {
		listenAddr = constants.DefaultListenAddr
	}
	if client.New(listenAddr).Healthy() {
		fmt.Printf("✓ Daemon responding: OK (%s)\n", listenAddr)
	} else {
		fmt.Printf("⚠ Daemon responding: no answer at %s\n", listenAddr)
	}

	// Check 6: clock sanity
	if err := checkClock(); err != nil {
		fmt.Printf("❌ Clock: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock: OK\n")
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkHabitIntegrity(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return err
	}
	for _, h := range habits {
		if _, err := ctx.Store.GetStreakState(h.ID); err != nil {
			return fmt.Errorf("habit %q (%s) has no streak state: %w", h.Name, h.ID, err)
		}
	}
	return nil
}

// daemonProcess scans the process table for another habitd process.
func daemonProcess() (bool, int) {
	procs, err := ps.Processes()
	if err != nil {
		return false, 0
	}
	self := os.Getpid()
	for _, p := range procs {
		if p.Pid() == self {
			continue
		}
		if strings.HasPrefix(p.Executable(), constants.AppName) {
			return true, p.Pid()
		}
	}
	return false, 0
}

func checkClock() error {
	now := time.Now()
	if now.Year() < 2024 {
		return fmt.Errorf("system clock reads %s, which is implausible", now.Format(time.RFC3339))
	}
	return nil
}
