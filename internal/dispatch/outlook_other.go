//go:build !windows

package dispatch

import "fmt"

func openInOutlook(path string, placeholders map[string]string) error {
	return fmt.Errorf("%w: outlook automation requires windows", ErrPlatformUnavailable)
}
