// Package workdir runs code with a temporarily changed working directory.
package workdir

import (
	"fmt"
	"os"
)

// Run changes into dir, calls fn and restores the previous working
// directory on every path out of fn, panics included. An empty dir runs fn
// in place.
func Run(dir string, fn func() error) (err error) {
	if dir == "" {
		return fn()
	}

	prev, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("workdir: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("workdir: %w", err)
	}
	defer func() {
		if rerr := os.Chdir(prev); rerr != nil && err == nil {
			err = fmt.Errorf("workdir: restore %s: %w", prev, rerr)
		}
	}()

	return fn()
}
