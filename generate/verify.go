package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"ocm.software/open-component-model/bindings/go/domainmodel/scan"
)

// ErrOutOfDate is matched by every OutOfDateError.
var ErrOutOfDate = errors.New("generated file is out of date")

// OutOfDateError reports a generated file whose content differs from a fresh generation.
type OutOfDateError struct {
	Path string
	// Diff is a line diff from the file on disk to the expected content.
	Diff string
}

func (e *OutOfDateError) Error() string {
	return fmt.Sprintf("%s: %s\n%s", e.Path, ErrOutOfDate, e.Diff)
}

func (e *OutOfDateError) Is(target error) bool {
	return target == ErrOutOfDate
}

// Verify checks that every generated file below root is up to date without writing anything.
func (g *Generator) Verify(ctx context.Context, root string) error {
	packages, err := scan.FindPackages(root)
	if err != nil {
		return fmt.Errorf("failed to find go packages: %w", err)
	}

	var errs []error
	for _, dir := range packages {
		if err := ctx.Err(); err != nil {
			return err
		}
		pkg, err := g.scan(dir)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		content, err := Render(g.config, pkg)
		if err != nil {
			errs = append(errs, err)
		}

		outputPath := filepath.Join(dir, g.config.OutputFile)
		existing, err := os.ReadFile(outputPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		if bytes.Equal(existing, content) {
			g.logger.Debug("generated file is up to date", "file", outputPath)
			continue
		}
		errs = append(errs, &OutOfDateError{Path: outputPath, Diff: lineDiff(string(existing), string(content))})
	}
	return errors.Join(errs...)
}

// lineDiff renders a line based diff, prefixing removed lines with "-", added lines with "+"
// and unchanged lines with a space.
func lineDiff(from, to string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}
