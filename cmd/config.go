package cmd

import (
	"fmt"
	"strconv"

	"github.com/passdesk/passdesk/internal/cards"
)

// ConfigShow prints the current client settings.
func ConfigShow() {
	env := OpenEnvOrExit()
	defer env.Close()

	policy, err := env.Prefs.ClipboardPolicy()
	if err != nil {
		HandleError(err)
	}
	order, err := env.Prefs.SortOrder()
	if err != nil {
		HandleError(err)
	}
	endpoint, err := env.Prefs.Endpoint()
	if err != nil {
		HandleError(err)
	}
	if endpoint == "" {
		endpoint = "(default)"
	}

	fmt.Printf("clipboard-clear    %t\n", policy.Enabled)
	fmt.Printf("clipboard-timeout  %d\n", policy.TimeoutSeconds)
	fmt.Printf("sort-order         %s\n", order)
	fmt.Printf("endpoint           %s\n", endpoint)
}

// ConfigSet updates one client setting.
func ConfigSet(key, value string) {
	env := OpenEnvOrExit()
	defer env.Close()

	switch key {
	case "clipboard-clear":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			HandleError(fmt.Errorf("clipboard-clear wants true or false, got %q", value))
		}
		policy, err := env.Prefs.ClipboardPolicy()
		if err != nil {
			HandleError(err)
		}
		policy.Enabled = enabled
		if err := env.Prefs.SetClipboardPolicy(policy); err != nil {
			HandleError(err)
		}
	case "clipboard-timeout":
		seconds, err := strconv.Atoi(value)
		if err != nil || seconds <= 0 {
			HandleError(fmt.Errorf("clipboard-timeout wants a positive number of seconds, got %q", value))
		}
		policy, err := env.Prefs.ClipboardPolicy()
		if err != nil {
			HandleError(err)
		}
		policy.TimeoutSeconds = seconds
		if err := env.Prefs.SetClipboardPolicy(policy); err != nil {
			HandleError(err)
		}
	case "sort-order":
		if err := env.Prefs.SetSortOrder(cards.SortOrder(value)); err != nil {
			HandleError(err)
		}
	case "endpoint":
		if err := env.Prefs.SetEndpoint(value); err != nil {
			HandleError(err)
		}
	default:
		HandleError(fmt.Errorf("unknown setting %q", key))
	}
	fmt.Printf("Set %s = %s\n", key, value)
}
