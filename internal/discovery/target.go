package discovery

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tapo-chatter/tapo-chatter/internal/apperr"
)

const (
	// DefaultStart is the first octet swept
	DefaultStart = 1

	// DefaultEnd is the last octet swept
	DefaultEnd = 254
)

// Target is one address in the sweep
type Target struct {
	Subnet string
	Octet  int
}

// Addr returns the dotted-quad address
func (t Target) Addr() string {
	return t.Subnet + "." + strconv.Itoa(t.Octet)
}

// Targets generates one target per octet in [start, end]
func Targets(subnet string, start, end int) ([]Target, error) {
	if err := ValidateRange(start, end); err != nil {
		return nil, err
	}

	targets := make([]Target, 0, end-start+1)
	for octet := start; octet <= end; octet++ {
		targets = append(targets, Target{Subnet: subnet, Octet: octet})
	}
	return targets, nil
}

// ValidateRange checks that start <= end and both are valid octets
func ValidateRange(start, end int) error {
	if start < 0 || start > 255 || end < 0 || end > 255 {
		return apperr.NewUsageError("--range",
			fmt.Sprintf("range %d-%d is outside 0-255", start, end), "--range 1-254")
	}
	if start > end {
		return apperr.NewUsageError("--range",
			fmt.Sprintf("range start %d is greater than end %d", start, end), "--range 1-254")
	}
	return nil
}

// ParseRange parses "start-end"
func ParseRange(s string) (int, int, error) {
	invalid := apperr.NewUsageError("--range",
		fmt.Sprintf("Invalid IP range format: %s. Should be start-end", s), "--range 1-254")

	lo, hi, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return 0, 0, invalid
	}
	start, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, invalid
	}
	end, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return 0, 0, invalid
	}

	if err := ValidateRange(start, end); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// ValidateSubnet checks a three-octet prefix such as "192.168.1"
func ValidateSubnet(subnet string) error {
	parts := strings.Split(subnet, ".")
	if len(parts) != 3 {
		return apperr.NewUsageError("--subnet",
			fmt.Sprintf("subnet %q must have three octets", subnet), "--subnet 192.168.1")
	}
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 255 {
			return apperr.NewUsageError("--subnet",
				fmt.Sprintf("subnet %q has an invalid octet %q", subnet, part), "--subnet 192.168.1")
		}
	}
	return nil
}
