package apperr

import (
	"errors"
	"fmt"
)

// Troubleshooting returns user-facing guidance for an error
func Troubleshooting(err error) []string {
	var e *Error
	if !errors.As(err, &e) {
		return nil
	}

	switch e.Kind {
	case KindConfiguration:
		hints := []string{}
		if e.Field != "" {
			hints = append(hints, fmt.Sprintf("Check the value of %s", e.Field))
		}
		if e.Example != "" {
			hints = append(hints, fmt.Sprintf("Example: %s", e.Example))
		}
		return append(hints,
			"Set variables in your shell, ~/.config/tapo-chatter/config.yaml or a .env file",
			"Shell variables take precedence over both files",
		)

	case KindUsage:
		hints := []string{}
		if e.Field != "" {
			hints = append(hints, fmt.Sprintf("Check the %s flag", e.Field))
		}
		if e.Example != "" {
			hints = append(hints, fmt.Sprintf("Example: %s", e.Example))
		}
		return append(hints, "Run 'tapo-chatter <command> --help' for all flags")

	case KindScanFatal:
		return []string{
			"Invalid credentials",
			"Device is not a H100 hub",
			"Network connectivity issues",
			"Device firmware incompatibility",
		}

	case KindProbe:
		switch e.Cause {
		case CauseTimeout:
			return []string{"The device did not answer in time", "Try a larger --timeout"}
		case CauseConnectionRefused:
			return []string{"The host refused the connection", "Verify the IP address is a Tapo device"}
		default:
			return []string{
				"The device is powered on",
				"You are on the same network as the device",
				"The IP address is correct",
				"No firewall is blocking the connection",
			}
		}
	}

	return nil
}

// Chain returns every message in the wrapped error chain, outermost first
func Chain(err error) []string {
	var out []string
	for err != nil {
		out = append(out, err.Error())
		err = errors.Unwrap(err)
	}
	return out
}
