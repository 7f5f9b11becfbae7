package checkers

import (
	"context"
	"fmt"
	"os"
)

// SourceChecker reports whether the configured registration export is readable.
type SourceChecker struct {
	path string
}

func NewSourceChecker(path string) *SourceChecker {
	return &SourceChecker{path: path}
}

func (c *SourceChecker) Name() string { return "source" }

func (c *SourceChecker) Check(_ context.Context) error {
	st, err := os.Stat(c.path)
	if err != nil {
		return err
	}
	if st.IsDir() {
		return fmt.Errorf("%s is a directory", c.path)
	}
	if st.Size() == 0 {
		return fmt.Errorf("%s is empty", c.path)
	}
	return nil
}
