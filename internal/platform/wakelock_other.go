//go:build !linux && !darwin

package platform

func newInhibitor(string) (inhibitor, error) {
	return nil, ErrWakeLockUnsupported
}
